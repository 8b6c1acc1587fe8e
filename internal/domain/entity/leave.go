package entity

import "time"

// Leave application status constants.
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// LeaveApplication is a request to consume leave hours on one day, unique
// per (user, date). HoursUsed is derived from Duration by the leave ledger.
type LeaveApplication struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"user_id"`
	Date       time.Time  `json:"date"`
	LeaveType  string     `json:"leave_type"`
	Duration   string     `json:"duration"`
	HoursUsed  int        `json:"hours_used"`
	Reason     string     `json:"reason,omitempty"`
	Status     string     `json:"status"`
	ReviewerID string     `json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
