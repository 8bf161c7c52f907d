// Package models contains shared data models used across the codebase.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job statuses. Transitions are monotonic: queued → processing → completed|failed.
// Completed and failed are terminal.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Variant controls report depth and which pipeline phases run.
type Variant string

const (
	VariantQuick    Variant = "quick"
	VariantStandard Variant = "standard"
	VariantFull     Variant = "full"
)

// ValidVariant reports whether v is one of the known report variants.
func ValidVariant(v Variant) bool {
	switch v {
	case VariantQuick, VariantStandard, VariantFull:
		return true
	}
	return false
}

// TerminalStatus reports whether status admits no further transition.
func TerminalStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}

// Section kinds, in pipeline order.
const (
	SectionIdentity       = "identity"
	SectionLegalFinancial = "legal-financial"
	SectionPublicNotices  = "public-notices"
	SectionReputation     = "reputation"
	SectionSynthesis      = "synthesis"
)

// Section is one immutable, sequence-numbered unit of report content.
// Seq is assigned by the job store and is strictly increasing and gapless
// within a job.
type Section struct {
	Seq     int             `json:"seq"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Job tracks one async report-generation request. The API returns a job ID on
// POST /api/v1/reports; the client polls or opens the SSE stream until the
// status is completed or failed.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Siren       string     `json:"siren"`
	Variant     Variant    `json:"report_type"`
	Status      string     `json:"status"`
	Sections    []Section  `json:"sections"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
