// Package classify decides whether an inbound message is a job posting, a
// talent (candidate) posting, or noise that should not reach extraction.
package classify

import (
	"context"
)

// Decision is the triage outcome for a message
type Decision string

const (
	// DecisionJob marks a message for job extraction
	DecisionJob Decision = "job"
	// DecisionTalent marks a message as a candidate profile
	DecisionTalent Decision = "talent"
	// DecisionExcluded marks a message as noise (greetings, scheduling, thanks)
	DecisionExcluded Decision = "excluded"
)

// Result carries the decision and both scores. The scores are recomputed
// every run and never persisted; they are exposed for logging and tests.
type Result struct {
	Decision    Decision
	JobScore    int
	TalentScore int
}

// Classifier is the pluggable triage strategy
type Classifier interface {
	Classify(ctx context.Context, subject, body string) (Result, error)
}
