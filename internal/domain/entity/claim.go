package entity

import (
	"time"

	"github.com/gakkou-tools/kintai/internal/domain/allowance"
)

// AllowanceClaim is one day's activity allowance declaration. Amount is
// always derived by the allowance engine from the other fields, never taken
// from user input, so recomputation must reproduce the stored value.
type AllowanceClaim struct {
	ID            int64                     `json:"id"`
	UserID        string                    `json:"user_id"`
	Date          time.Time                 `json:"date"`
	ActivityID    allowance.ActivityID      `json:"activity_id"`
	Tier          allowance.DestinationTier `json:"destination_tier"`
	Detail        string                    `json:"detail"`
	Driving       bool                      `json:"driving"`
	Accommodation bool                      `json:"accommodation"`
	HalfDay       bool                      `json:"half_day"`
	WorkDay       bool                      `json:"work_day"`
	Amount        int                       `json:"amount"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// ComputeInput maps the stored fields back to an engine input.
func (c *AllowanceClaim) ComputeInput() allowance.Input {
	return allowance.Input{
		Activity:      c.ActivityID,
		Driving:       c.Driving,
		Tier:          c.Tier,
		WorkDay:       c.WorkDay,
		Accommodation: c.Accommodation,
		HalfDay:       c.HalfDay,
	}
}
