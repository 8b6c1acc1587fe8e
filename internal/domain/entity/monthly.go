package entity

import (
	"time"

	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/workflow"
)

// Track distinguishes the two independently governed monthly declaration
// types. A day's schedule fields may be locked while its allowance fields
// remain editable, and vice versa.
type Track string

const (
	TrackSchedule  Track = "schedule"
	TrackAllowance Track = "allowance"
)

// Tracks lists all tracks in evaluation order.
var Tracks = []Track{TrackSchedule, TrackAllowance}

// IsValid returns true if the track is one of the two defined tracks.
func (t Track) IsValid() bool {
	return t == TrackSchedule || t == TrackAllowance
}

// MonthlyStatus is the stored workflow record for one (user, month, track).
// At most one record exists per key; an absent record is equivalent to a
// draft. Records are created on first submission and never deleted.
type MonthlyStatus struct {
	ID          int64              `json:"id"`
	UserID      string             `json:"user_id"`
	YearMonth   calendar.YearMonth `json:"year_month"`
	Track       Track              `json:"track"`
	State       workflow.State     `json:"state"`
	SubmittedAt *time.Time         `json:"submitted_at,omitempty"`
	ApproverID  string             `json:"approver_id,omitempty"`
	ApprovedAt  *time.Time         `json:"approved_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewDraftStatus returns the in-memory draft record representing an absent
// row, so "no data yet" and "intentionally reset" read the same everywhere.
func NewDraftStatus(userID string, ym calendar.YearMonth, track Track) *MonthlyStatus {
	return &MonthlyStatus{
		UserID:    userID,
		YearMonth: ym,
		Track:     track,
		State:     workflow.StateDraft,
	}
}

// IsDraft returns true while the record still accepts edits for its month.
func (s *MonthlyStatus) IsDraft() bool {
	return s.State == workflow.StateDraft
}
