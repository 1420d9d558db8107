package model

import (
	"time"

	"github.com/google/uuid"
)

// ChangeRecord is one before/after audit pair for a changed field.
type ChangeRecord struct {
	RecordID int64  `json:"record_id"`
	Field    string `json:"field"`
	Before   string `json:"before"`
	After    string `json:"after"`
}

// RunReport summarizes one orchestrator run of a single rule.
type RunReport struct {
	RunID     uuid.UUID      `json:"run_id"`
	Rule      string         `json:"rule"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
	Inspected int            `json:"inspected"`
	Changed   int            `json:"changed"`
	Skipped   int            `json:"skipped"`
	Failed    int            `json:"failed"`
	Changes   []ChangeRecord `json:"changes,omitempty"`
}
