package entity

import "time"

// ScheduleEntry is one day's declared work schedule.
type ScheduleEntry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	Code      string    `json:"code"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
