package models

import (
	"time"
)

// MessageResult stores the processing outcome of a single message within a run
type MessageResult struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BatchRunID  uint      `gorm:"index" json:"batch_run_id"`
	MessageID   string    `gorm:"size:255;index" json:"message_id"`
	Subject     string    `gorm:"size:500" json:"subject"`
	Sender      string    `gorm:"size:255" json:"sender"`
	Decision    string    `gorm:"size:20" json:"decision"` // job, talent, excluded
	JobScore    int       `json:"job_score"`
	TalentScore int       `json:"talent_score"`
	Outcome     string    `gorm:"size:20" json:"outcome"` // success, skip, error, aborted
	Detail      string    `gorm:"type:text" json:"detail,omitempty"`
	ImportID    string    `gorm:"size:64" json:"import_id,omitempty"` // jobId/talentId returned by the import API
	ProcessedAt time.Time `json:"processed_at"`
}

// Outcome values for MessageResult
const (
	OutcomeSuccess = "success"
	OutcomeSkip    = "skip"
	OutcomeError   = "error"
	OutcomeAborted = "aborted"
)
