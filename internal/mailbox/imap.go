package mailbox

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	id "github.com/emersion/go-imap-id"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"

	"github.com/hito-kotaro/torch/internal/database/models"
	"github.com/hito-kotaro/torch/internal/services"
)

// Options carries the IMAP connection settings
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	UseSSL   bool
}

// IMAPSource reads the triage inbox over IMAP. Each operation opens its own
// connection and logs out when done; the batch runs infrequently enough that
// connection reuse is not worth the state tracking.
type IMAPSource struct {
	opts       Options
	logService *services.LogService
}

// NewIMAPSource creates an IMAP-backed mailbox source
func NewIMAPSource(opts Options, logService *services.LogService) *IMAPSource {
	return &IMAPSource{
		opts:       opts,
		logService: logService,
	}
}

// connect establishes an authenticated IMAP connection
func (s *IMAPSource) connect() (*client.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	var c *client.Client

	dialer := &net.Dialer{Timeout: 10 * time.Second}

	if s.opts.UseSSL {
		tlsConfig := &tls.Config{ServerName: s.opts.Host}
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
		c, err = client.New(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
	} else {
		conn, err := dialer.Dial("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
		c, err = client.New(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
	}

	c.Timeout = 2 * time.Minute

	// Some providers require client identification before login
	if ok, _ := c.Support("ID"); ok {
		idClient := id.NewClient(c)
		_, err := idClient.ID(id.ID{
			id.FieldName:    "Torch Batch",
			id.FieldVersion: "1.0.0",
			id.FieldVendor:  "Torch",
		})
		if err != nil {
			// Log but don't fail - some servers may not require ID
		}
	}

	if err := c.Login(s.opts.Username, s.opts.Password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("%w: login failed: %v", ErrConnectionFailed, err)
	}

	return c, nil
}

// FetchUnread returns unread mail addressed to recipient since the given
// date, oldest first, capped at limit.
func (s *IMAPSource) FetchUnread(ctx context.Context, recipient string, since time.Time, limit int) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := s.connect()
	if err != nil {
		s.logService.LogError(models.LogModuleMailbox, "fetch", "IMAP connection failed", map[string]interface{}{
			"host":  s.opts.Host,
			"error": err.Error(),
		})
		return nil, err
	}
	defer c.Logout()

	mbox, err := c.Select("INBOX", false)
	if err != nil {
		return nil, fmt.Errorf("%w: select INBOX: %v", ErrFetchFailed, err)
	}

	if mbox.Messages == 0 {
		return []Message{}, nil
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	if recipient != "" {
		criteria.Header.Add("To", recipient)
	}
	if !since.IsZero() {
		criteria.Since = time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)
	}

	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrFetchFailed, err)
	}

	s.logService.LogInfo(models.LogModuleMailbox, "fetch", "Search completed", map[string]interface{}{
		"found_msgs": len(seqNums),
	})

	if len(seqNums) == 0 {
		return []Message{}, nil
	}

	metas, err := s.fetchEnvelopes(c, seqNums)
	if err != nil {
		return nil, err
	}

	// Oldest first so a capped run drains the backlog in arrival order
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].envelope.Date.Before(metas[j].envelope.Date)
	})
	if limit > 0 && len(metas) > limit {
		metas = metas[:limit]
	}

	bodies, err := s.fetchBodies(c, metas)
	if err != nil {
		return nil, err
	}

	var messages []Message
	var parseErrors, bodyMissing int

	for _, meta := range metas {
		msg := Message{
			ID:         meta.messageID,
			Subject:    meta.envelope.Subject,
			ReceivedAt: meta.envelope.Date,
		}
		if len(meta.envelope.From) > 0 {
			msg.Sender = formatAddress(meta.envelope.From[0])
		}

		raw, ok := bodies[meta.uid]
		if !ok || len(raw) == 0 {
			bodyMissing++
		} else if body, err := extractTextBody(raw); err != nil {
			parseErrors++
		} else {
			msg.Body = NormalizeBody(body)
		}

		messages = append(messages, msg)
	}

	s.logService.LogInfo(models.LogModuleMailbox, "fetch", "Fetch completed", map[string]interface{}{
		"fetched_count": len(messages),
		"parse_errors":  parseErrors,
		"body_missing":  bodyMissing,
	})

	return messages, nil
}

type msgMeta struct {
	uid       uint32
	messageID string
	envelope  *imap.Envelope
}

const fetchBatchSize = 10

// fetchEnvelopes pulls UID and envelope for each message in batches over a
// single connection
func (s *IMAPSource) fetchEnvelopes(c *client.Client, seqNums []uint32) ([]msgMeta, error) {
	var metas []msgMeta

	for i := 0; i < len(seqNums); i += fetchBatchSize {
		batchEnd := i + fetchBatchSize
		if batchEnd > len(seqNums) {
			batchEnd = len(seqNums)
		}
		batch := seqNums[i:batchEnd]

		seqSet := new(imap.SeqSet)
		seqSet.AddNum(batch...)

		items := []imap.FetchItem{imap.FetchUid, imap.FetchEnvelope}
		messages := make(chan *imap.Message, fetchBatchSize)
		done := make(chan error, 1)

		go func() {
			done <- c.Fetch(seqSet, items, messages)
		}()

		for msg := range messages {
			if msg == nil || msg.Envelope == nil {
				continue
			}
			messageID := msg.Envelope.MessageId
			if messageID == "" {
				messageID = fmt.Sprintf("uid:%d", msg.Uid)
			}
			metas = append(metas, msgMeta{
				uid:       msg.Uid,
				messageID: messageID,
				envelope:  msg.Envelope,
			})
		}
		if err := <-done; err != nil {
			return nil, fmt.Errorf("%w: fetch envelopes: %v", ErrFetchFailed, err)
		}
	}

	return metas, nil
}

// fetchBodies pulls the raw content of each message by UID without setting
// the Seen flag; read status is only updated after a successful import.
func (s *IMAPSource) fetchBodies(c *client.Client, metas []msgMeta) (map[uint32][]byte, error) {
	var uids []uint32
	for _, meta := range metas {
		uids = append(uids, meta.uid)
	}

	section := &imap.BodySectionName{Peek: true}
	bodies := make(map[uint32][]byte)

	for i := 0; i < len(uids); i += fetchBatchSize {
		batchEnd := i + fetchBatchSize
		if batchEnd > len(uids) {
			batchEnd = len(uids)
		}
		batch := uids[i:batchEnd]

		uidSet := new(imap.SeqSet)
		uidSet.AddNum(batch...)

		items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}
		messages := make(chan *imap.Message, fetchBatchSize)
		done := make(chan error, 1)

		go func() {
			done <- c.UidFetch(uidSet, items, messages)
		}()

		for msg := range messages {
			if msg == nil {
				continue
			}
			for _, literal := range msg.Body {
				content, err := io.ReadAll(literal)
				if err == nil && len(content) > 0 {
					bodies[msg.Uid] = content
				}
			}
		}

		if err := <-done; err != nil {
			s.logService.LogWarn(models.LogModuleMailbox, "fetch", "UidFetch error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return bodies, nil
}

// MarkRead sets the Seen flag on a message
func (s *IMAPSource) MarkRead(ctx context.Context, messageID string) error {
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	return s.storeFlags(ctx, messageID, item, []interface{}{imap.SeenFlag})
}

// AddLabel attaches a keyword flag to a message. Providers that map keywords
// to labels (Gmail) surface it in the UI; others just keep the flag.
func (s *IMAPSource) AddLabel(ctx context.Context, messageID, label string) error {
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	return s.storeFlags(ctx, messageID, item, []interface{}{label})
}

// storeFlags resolves a message ID to its UID and applies a flag update
func (s *IMAPSource) storeFlags(ctx context.Context, messageID string, item imap.StoreItem, flags []interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c, err := s.connect()
	if err != nil {
		return err
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", false); err != nil {
		return fmt.Errorf("%w: select INBOX: %v", ErrFetchFailed, err)
	}

	uid, err := s.resolveUID(c, messageID)
	if err != nil {
		return err
	}

	uidSet := new(imap.SeqSet)
	uidSet.AddNum(uid)

	if err := c.UidStore(uidSet, item, flags, nil); err != nil {
		return fmt.Errorf("%w: store flags: %v", ErrFetchFailed, err)
	}
	return nil
}

// resolveUID finds the UID behind a message ID. Synthetic IDs produced for
// mail without a Message-Id header carry the UID directly.
func (s *IMAPSource) resolveUID(c *client.Client, messageID string) (uint32, error) {
	if rest, ok := strings.CutPrefix(messageID, "uid:"); ok {
		uid, err := strconv.ParseUint(rest, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: malformed synthetic message ID %q", ErrFetchFailed, messageID)
		}
		return uint32(uid), nil
	}

	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("Message-Id", messageID)

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return 0, fmt.Errorf("%w: search by message ID: %v", ErrFetchFailed, err)
	}
	if len(uids) == 0 {
		return 0, fmt.Errorf("%w: message %q not found", ErrFetchFailed, messageID)
	}
	return uids[0], nil
}

// extractTextBody parses raw RFC 5322 content and returns the first
// text/plain part. HTML-only mail falls back to the HTML part untouched.
func extractTextBody(raw []byte) (string, error) {
	r := bytes.NewReader(raw)
	entity, err := message.Read(r)
	if err != nil {
		// Try parsing as plain mail
		r.Seek(0, io.SeekStart)
		m, err := mail.ReadMessage(r)
		if err != nil {
			return "", err
		}
		body, _ := io.ReadAll(m.Body)
		return string(body), nil
	}

	var plain, html string
	collectTextParts(entity, &plain, &html)
	if plain != "" {
		return plain, nil
	}
	return html, nil
}

// collectTextParts walks a message entity tree picking out text parts
func collectTextParts(entity *message.Entity, plain, html *string) {
	mediaType, _, _ := entity.Header.ContentType()

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := entity.MultipartReader()
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			collectTextParts(part, plain, html)
		}
	} else if mediaType == "text/plain" && *plain == "" {
		body, _ := io.ReadAll(entity.Body)
		*plain = string(body)
	} else if mediaType == "text/html" && *html == "" {
		body, _ := io.ReadAll(entity.Body)
		*html = string(body)
	}
}

// formatAddress formats an IMAP address to a string
func formatAddress(addr *imap.Address) string {
	if addr.PersonalName != "" {
		return fmt.Sprintf("%s <%s@%s>", addr.PersonalName, addr.MailboxName, addr.HostName)
	}
	return fmt.Sprintf("%s@%s", addr.MailboxName, addr.HostName)
}
