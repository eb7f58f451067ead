// Package pipeline runs one triage batch end to end: fetch unread mail,
// drop already-processed messages, classify the rest, extract job postings,
// and hand the results to the Torch import API.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hito-kotaro/torch/internal/classify"
	"github.com/hito-kotaro/torch/internal/database/models"
	"github.com/hito-kotaro/torch/internal/dedup"
	"github.com/hito-kotaro/torch/internal/extract"
	"github.com/hito-kotaro/torch/internal/mailbox"
	"github.com/hito-kotaro/torch/internal/services"
	"github.com/hito-kotaro/torch/internal/skills"
	"github.com/hito-kotaro/torch/internal/torchapi"
)

// processedLabel is attached to successfully imported mail so the outcome is
// visible in the mailbox itself
const processedLabel = "TorchProcessed"

// Extractor generates structured text from a prompt
type Extractor interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Importer submits records to the Torch back office
type Importer interface {
	ImportJob(ctx context.Context, request torchapi.ImportJobRequest) (*torchapi.ImportResponse, error)
	ImportTalent(ctx context.Context, request torchapi.ImportTalentRequest) (*torchapi.ImportResponse, error)
}

// Options carries the per-run fetch settings
type Options struct {
	TargetAddress string
	LookbackDays  int
	MaxPerRun     int
}

// Runner wires the batch stages together
type Runner struct {
	db         *gorm.DB
	logService *services.LogService
	source     mailbox.Source
	gate       *dedup.Gate
	classifier classify.Classifier
	extractor  Extractor
	importer   Importer
	throttle   Throttle
	opts       Options
}

// NewRunner creates a batch runner
func NewRunner(
	db *gorm.DB,
	logService *services.LogService,
	source mailbox.Source,
	gate *dedup.Gate,
	classifier classify.Classifier,
	extractor Extractor,
	importer Importer,
	throttle Throttle,
	opts Options,
) *Runner {
	return &Runner{
		db:         db,
		logService: logService,
		source:     source,
		gate:       gate,
		classifier: classifier,
		extractor:  extractor,
		importer:   importer,
		throttle:   throttle,
		opts:       opts,
	}
}

// Run executes one batch and returns its persisted tallies. A rate-limited
// extraction call aborts the remainder of the batch; everything already
// processed keeps its outcome and the run is flagged as aborted.
func (r *Runner) Run(ctx context.Context, trigger models.RunTrigger) (*models.BatchRun, error) {
	run := &models.BatchRun{
		StartedAt: time.Now(),
		Trigger:   string(trigger),
	}

	since := time.Now().AddDate(0, 0, -r.opts.LookbackDays)
	messages, err := r.source.FetchUnread(ctx, r.opts.TargetAddress, since, r.opts.MaxPerRun)
	if err != nil {
		r.logService.LogError(models.LogModulePipeline, "run", "Mailbox fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		run.FinishedAt = time.Now()
		r.persist(run, nil)
		return run, err
	}

	run.Fetched = len(messages)
	r.logService.LogInfo(models.LogModulePipeline, "run", "Batch started", map[string]interface{}{
		"trigger":   string(trigger),
		"fetched":   run.Fetched,
		"dedup_ttl": r.gate.TTL().String(),
	})

	var results []models.MessageResult

	for i, msg := range messages {
		if run.Aborted {
			results = append(results, r.abortedResult(msg))
			continue
		}
		if err := ctx.Err(); err != nil {
			run.Aborted = true
			results = append(results, r.abortedResult(msg))
			continue
		}

		if r.gate.IsAlreadyProcessed(ctx, msg.ID) {
			run.Deduplicated++
			r.logService.LogDebug(models.LogModuleDedup, "skip", "Message already processed", map[string]interface{}{
				"message_id": msg.ID,
			})
			continue
		}

		result := r.processMessage(ctx, run, msg)
		results = append(results, result)

		if run.Aborted {
			r.logService.LogWarn(models.LogModulePipeline, "run", "Rate limit hit, aborting batch", map[string]interface{}{
				"remaining": len(messages) - i - 1,
			})
		}
	}

	run.FinishedAt = time.Now()
	r.persist(run, results)

	r.logService.LogInfo(models.LogModulePipeline, "run", "Batch finished", map[string]interface{}{
		"fetched":      run.Fetched,
		"deduplicated": run.Deduplicated,
		"jobs":         run.JobCount,
		"talents":      run.TalentCount,
		"excluded":     run.ExcludedCount,
		"success":      run.SuccessCount,
		"skipped":      run.SkipCount,
		"errors":       run.ErrorCount,
		"aborted":      run.Aborted,
	})

	return run, nil
}

// processMessage classifies one message and routes it to the matching path.
// It updates the run tallies and returns the per-message record.
func (r *Runner) processMessage(ctx context.Context, run *models.BatchRun, msg mailbox.Message) models.MessageResult {
	result := models.MessageResult{
		MessageID:   msg.ID,
		Subject:     msg.Subject,
		Sender:      msg.Sender,
		ProcessedAt: time.Now(),
	}

	decision, err := r.classifier.Classify(ctx, msg.Subject, msg.Body)
	if err != nil {
		run.ErrorCount++
		result.Outcome = models.OutcomeError
		result.Detail = "classification failed: " + err.Error()
		return result
	}

	result.Decision = string(decision.Decision)
	result.JobScore = decision.JobScore
	result.TalentScore = decision.TalentScore

	switch decision.Decision {
	case classify.DecisionJob:
		run.JobCount++
		r.processJob(ctx, run, msg, &result)
	case classify.DecisionTalent:
		run.TalentCount++
		r.processTalent(ctx, run, msg, &result)
	default:
		run.ExcludedCount++
		run.SkipCount++
		result.Outcome = models.OutcomeSkip
		result.Detail = "excluded by classifier"
		r.gate.MarkAsProcessed(ctx, msg.ID)
	}

	return result
}

// processJob runs the extraction path for a job posting
func (r *Runner) processJob(ctx context.Context, run *models.BatchRun, msg mailbox.Message, result *models.MessageResult) {
	if strings.TrimSpace(msg.Body) == "" {
		run.SkipCount++
		result.Outcome = models.OutcomeSkip
		result.Detail = "empty body"
		r.gate.MarkAsProcessed(ctx, msg.ID)
		return
	}

	if err := r.throttle.Wait(ctx); err != nil {
		run.Aborted = true
		result.Outcome = models.OutcomeAborted
		result.Detail = err.Error()
		return
	}

	raw, err := r.extractor.Generate(ctx, extract.BuildJobExtractionPrompt(msg.Subject, msg.Body))
	if err != nil {
		if errors.Is(err, extract.ErrRateLimited) {
			run.Aborted = true
			result.Outcome = models.OutcomeAborted
			result.Detail = err.Error()
			return
		}
		run.ErrorCount++
		result.Outcome = models.OutcomeError
		result.Detail = "extraction failed: " + err.Error()
		r.logService.LogError(models.LogModuleExtract, "generate", "Extraction call failed", map[string]interface{}{
			"message_id": msg.ID,
			"error":      err.Error(),
		})
		return
	}

	record, err := extract.DecodeJobRecord(raw)
	if err != nil {
		run.ErrorCount++
		result.Outcome = models.OutcomeError
		result.Detail = "decode failed: " + err.Error()
		r.logService.LogError(models.LogModuleExtract, "decode", "Extraction output unusable", map[string]interface{}{
			"message_id": msg.ID,
			"error":      err.Error(),
		})
		return
	}

	// An empty title is the model saying "not a job posting after all"
	if !record.HasTitle() {
		run.SkipCount++
		result.Outcome = models.OutcomeSkip
		result.Detail = "no title extracted"
		r.gate.MarkAsProcessed(ctx, msg.ID)
		return
	}

	request := torchapi.ImportJobRequest{
		Title:         record.Title,
		Company:       record.Company,
		Grade:         string(record.NormalizedGrade()),
		Location:      record.Location,
		UnitPrice:     record.UnitPriceValue(),
		Summary:       record.Summary,
		Description:   record.Description,
		Skills:        skills.NormalizeAll(record.Skills),
		OriginalTitle: msg.Subject,
		OriginalBody:  msg.Body,
		SenderEmail:   msg.Sender,
		ReceivedAt:    msg.ReceivedAt.Format(time.RFC3339),
	}

	resp, err := r.importer.ImportJob(ctx, request)
	if err != nil {
		run.ErrorCount++
		result.Outcome = models.OutcomeError
		result.Detail = "import failed: " + err.Error()
		r.logService.LogError(models.LogModuleImport, "job", "Job import failed", map[string]interface{}{
			"message_id": msg.ID,
			"title":      record.Title,
			"error":      err.Error(),
		})
		return
	}

	run.SuccessCount++
	result.Outcome = models.OutcomeSuccess
	result.ImportID = resp.JobID
	r.finalizeImported(ctx, msg.ID)

	r.logService.LogInfo(models.LogModuleImport, "job", "Job imported", map[string]interface{}{
		"message_id": msg.ID,
		"job_id":     resp.JobID,
		"title":      record.Title,
	})
}

// processTalent forwards a talent mail to the back office unmodified
func (r *Runner) processTalent(ctx context.Context, run *models.BatchRun, msg mailbox.Message, result *models.MessageResult) {
	request := torchapi.ImportTalentRequest{
		OriginalTitle: msg.Subject,
		OriginalBody:  msg.Body,
		SenderEmail:   msg.Sender,
		ReceivedAt:    msg.ReceivedAt.Format(time.RFC3339),
	}

	resp, err := r.importer.ImportTalent(ctx, request)
	if err != nil {
		run.ErrorCount++
		result.Outcome = models.OutcomeError
		result.Detail = "import failed: " + err.Error()
		r.logService.LogError(models.LogModuleImport, "talent", "Talent import failed", map[string]interface{}{
			"message_id": msg.ID,
			"error":      err.Error(),
		})
		return
	}

	run.SuccessCount++
	result.Outcome = models.OutcomeSuccess
	result.ImportID = resp.TalentID
	r.finalizeImported(ctx, msg.ID)

	r.logService.LogInfo(models.LogModuleImport, "talent", "Talent forwarded", map[string]interface{}{
		"message_id": msg.ID,
		"talent_id":  resp.TalentID,
	})
}

// finalizeImported records a successful import on the dedup store and the
// mailbox. Mailbox annotation failures are logged and swallowed; the import
// already happened and the dedup mark prevents a duplicate.
func (r *Runner) finalizeImported(ctx context.Context, messageID string) {
	r.gate.MarkAsProcessed(ctx, messageID)

	if err := r.source.AddLabel(ctx, messageID, processedLabel); err != nil {
		r.logService.LogWarn(models.LogModuleMailbox, "label", "Failed to label message", map[string]interface{}{
			"message_id": messageID,
			"error":      err.Error(),
		})
	}
	if err := r.source.MarkRead(ctx, messageID); err != nil {
		r.logService.LogWarn(models.LogModuleMailbox, "mark_read", "Failed to mark message read", map[string]interface{}{
			"message_id": messageID,
			"error":      err.Error(),
		})
	}
}

// abortedResult records a message the batch never got to
func (r *Runner) abortedResult(msg mailbox.Message) models.MessageResult {
	return models.MessageResult{
		MessageID:   msg.ID,
		Subject:     msg.Subject,
		Sender:      msg.Sender,
		Outcome:     models.OutcomeAborted,
		Detail:      "batch aborted before processing",
		ProcessedAt: time.Now(),
	}
}

// persist writes the run and its per-message results in one place so a fetch
// failure still leaves an audit row
func (r *Runner) persist(run *models.BatchRun, results []models.MessageResult) {
	if err := r.db.Create(run).Error; err != nil {
		r.logService.LogError(models.LogModulePipeline, "persist", "Failed to save batch run", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if len(results) == 0 {
		return
	}
	for i := range results {
		results[i].BatchRunID = run.ID
	}
	if err := r.db.Create(&results).Error; err != nil {
		r.logService.LogError(models.LogModulePipeline, "persist", "Failed to save message results", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
