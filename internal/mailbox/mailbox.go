// Package mailbox reads the shared triage inbox over IMAP.
package mailbox

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	// ErrConnectionFailed indicates the IMAP server could not be reached or
	// refused the login
	ErrConnectionFailed = errors.New("IMAP connection failed")
	// ErrFetchFailed indicates the mailbox was reachable but messages could
	// not be read
	ErrFetchFailed = errors.New("failed to fetch messages")
)

// Message is one unread mail pulled from the inbox
type Message struct {
	ID         string
	Subject    string
	Body       string
	Sender     string
	ReceivedAt time.Time
}

// Source reads and annotates the triage inbox.
// FetchUnread returns unread mail addressed to recipient, oldest first,
// capped at limit (0 means no cap). MarkRead and AddLabel record the outcome
// on the mailbox so a rerun does not pick the message up again even when the
// dedup store has been wiped.
type Source interface {
	FetchUnread(ctx context.Context, recipient string, since time.Time, limit int) ([]Message, error)
	MarkRead(ctx context.Context, messageID string) error
	AddLabel(ctx context.Context, messageID, label string) error
}

// blankRunPattern matches runs of two or more line breaks
var blankRunPattern = regexp.MustCompile(`(\r\n|\n|\r){2,}`)

// NormalizeBody collapses repeated blank lines into one line break. Forwarded
// job mails arrive padded with signature blocks and quoting artifacts that
// inflate prompt size without adding information.
func NormalizeBody(body string) string {
	return blankRunPattern.ReplaceAllString(body, "\n")
}
