package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SentinelInactivePeriod is a protocol-level marker in Submission.Value
// meaning "this meter did not operate this period". It is never ordinary
// data and every status/progress computation must treat it specially.
const SentinelInactivePeriod = "INACTIVE_PERIOD"

const (
	SubmissionMissing  = "missing"
	SubmissionPartial  = "partial"
	SubmissionComplete = "complete"
	SubmissionInactive = "inactive"
)

// Submission is the atomic unit of reporting. MeterID is uuid.Nil for
// non-metered elements so the uniqueness constraint covers both shapes.
type Submission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_submission_slot;column:company_id" json:"company_id"`
	ElementID string    `gorm:"not null;uniqueIndex:uq_submission_slot;column:element_id" json:"element_id"`
	MeterID   uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_submission_slot;column:meter_id" json:"meter_id,omitempty"`

	ReportingYear   int    `gorm:"not null;uniqueIndex:uq_submission_slot;column:reporting_year" json:"reporting_year"`
	ReportingPeriod string `gorm:"not null;uniqueIndex:uq_submission_slot;column:reporting_period" json:"reporting_period"`

	Value        string `gorm:"column:value" json:"value"`
	EvidenceFile string `gorm:"column:evidence_file" json:"evidence_file"`

	AssignedToID *uuid.UUID `gorm:"type:uuid;column:assigned_to_id" json:"assigned_to_id,omitempty"`
	AssignedByID *uuid.UUID `gorm:"type:uuid;column:assigned_by_id" json:"assigned_by_id,omitempty"`
	AssignedAt   *time.Time `gorm:"column:assigned_at" json:"assigned_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Submission) TableName() string { return "company_data_submission" }

func (s *Submission) HasValue() bool {
	return strings.TrimSpace(s.Value) != "" && s.Value != SentinelInactivePeriod
}

func (s *Submission) HasEvidence() bool {
	return strings.TrimSpace(s.EvidenceFile) != ""
}

// Status derives the reporting state from the submission's content. It is a
// pure function of value and evidence; nothing stores it.
func (s *Submission) Status() string {
	if s.Value == SentinelInactivePeriod {
		return SubmissionInactive
	}
	hasValue := s.HasValue()
	hasEvidence := s.HasEvidence()
	switch {
	case hasValue && hasEvidence:
		return SubmissionComplete
	case hasValue || hasEvidence:
		return SubmissionPartial
	default:
		return SubmissionMissing
	}
}

// PeriodLabel renders a month number as the short reporting-period label
// submissions are keyed on ("Jan" .. "Dec").
func PeriodLabel(month int) string {
	return time.Date(2000, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("Jan")
}
