package models

import (
	"time"
)

// BatchRun stores the outcome tallies of one pipeline invocation
type BatchRun struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StartedAt     time.Time `gorm:"index" json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Fetched       int       `json:"fetched"`
	Deduplicated  int       `json:"deduplicated"`
	JobCount      int       `json:"job_count"`
	TalentCount   int       `json:"talent_count"`
	ExcludedCount int       `json:"excluded_count"`
	SuccessCount  int       `json:"success_count"`
	SkipCount     int       `json:"skip_count"`
	ErrorCount    int       `json:"error_count"`
	Aborted       bool      `gorm:"default:false" json:"aborted"` // rate-limit circuit breaker tripped
	Trigger       string    `gorm:"size:20" json:"trigger"`       // schedule, manual, api
}

// RunTrigger identifies what started a batch run
type RunTrigger string

const (
	TriggerSchedule RunTrigger = "schedule"
	TriggerManual   RunTrigger = "manual"
	TriggerAPI      RunTrigger = "api"
)
