package models

import (
	"time"

	"github.com/google/uuid"
)

// Run is the audit record of one generation. It is the payload stored in the
// run log and placed on the events topic.
type Run struct {
	ID            string        `json:"id"`
	CompanyName   string        `json:"company_name"`
	Industry      string        `json:"industry"`
	FundingStage  string        `json:"funding_stage"`
	FileCount     int           `json:"file_count"`
	ContextLength int           `json:"context_length"`
	ContextHash   string        `json:"context_hash,omitempty"`
	Method        string        `json:"generation_method"`
	Error         string        `json:"error,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewRun stamps a fresh id and creation time.
func NewRun(company, industry, stage string, createdAt time.Time) Run {
	return Run{
		ID:           uuid.NewString(),
		CompanyName:  company,
		Industry:     industry,
		FundingStage: stage,
		CreatedAt:    createdAt.UTC(),
	}
}

// Failed reports whether the run fell back because the AI call failed.
func (r Run) Failed() bool {
	return r.Error != ""
}
