package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyResponse indicates the model returned an empty JSON array
	ErrEmptyResponse = errors.New("extraction returned an empty array")
)

// Grade is the enumerated role classification of a job posting
type Grade string

const (
	GradeSE         Grade = "SE"
	GradeTeamLeader Grade = "チームリーダー"
	GradeTechLead   Grade = "テックリード"
	GradePMO        Grade = "PMO"
	GradePM         Grade = "PM"
)

// IsValid checks if the grade is one of the enumerated values
func (g Grade) IsValid() bool {
	switch g {
	case GradeSE, GradeTeamLeader, GradeTechLead, GradePMO, GradePM:
		return true
	}
	return false
}

// UnitPrice tolerates both JSON numbers and strings. The schema asks for a
// number, but the model regularly emits the raw price text instead.
type UnitPrice string

// UnmarshalJSON accepts a number, a string, or null
func (p *UnitPrice) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = UnitPrice(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = UnitPrice(n.String())
	return nil
}

// JobRecord is the structured job posting extracted from a mail
type JobRecord struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Grade       Grade     `json:"grade"`
	Location    string    `json:"location"`
	UnitPrice   UnitPrice `json:"unitPrice"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
}

// DecodeJobRecord parses the model's JSON text into a JobRecord.
// The model sometimes wraps the object in a single-element array; the reason
// is unknown upstream behavior, so both shapes are accepted and the first
// element wins. Any other shape is a decode error.
func DecodeJobRecord(raw string) (*JobRecord, error) {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "[") {
		var records []JobRecord
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, fmt.Errorf("decode array-wrapped record: %w", err)
		}
		if len(records) == 0 {
			return nil, ErrEmptyResponse
		}
		record := records[0]
		return &record, nil
	}

	var record JobRecord
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}

// HasTitle reports whether the record carries a non-empty title. An empty
// title means the mail was not a job posting after all and must be skipped,
// not errored.
func (r *JobRecord) HasTitle() bool {
	return strings.TrimSpace(r.Title) != ""
}

// NormalizedGrade returns the record's grade coerced into the enum.
// Absent or unknown grades default to SE; the import schema forbids null.
func (r *JobRecord) NormalizedGrade() Grade {
	grade := Grade(strings.TrimSpace(string(r.Grade)))
	if grade.IsValid() {
		return grade
	}
	return GradeSE
}

// UnitPriceValue returns the unit price in 万円, repairing string and
// denormalized values via the posted-price parsing rules. Returns nil when
// no price could be determined.
func (r *JobRecord) UnitPriceValue() *int {
	text := strings.TrimSpace(string(r.UnitPrice))
	if text == "" {
		return nil
	}

	// Fast path: the model honored the numeric schema
	if v, err := strconv.Atoi(text); err == nil {
		if v <= 0 {
			return nil
		}
		// Prices accidentally emitted in yen get converted to 万円
		if v >= 10000 {
			v = v / 10000
		}
		return &v
	}

	if price, ok := ParseUnitPrice(text, ContextPosted); ok {
		return &price
	}
	return nil
}
