package allowance

import "fmt"

// Eligibility reports whether an activity may be selected for a day.
type Eligibility struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

// CanSelectActivity checks whether the activity may be chosen given the day's
// type. Only known holiday-only activities are restricted; ids outside the
// reference set are allowed and left to later validation. The check is
// advisory - it backs the form UI, and a stale evaluation is possible, so
// services re-validate before persisting.
func CanSelectActivity(id ActivityID, workDay bool) Eligibility {
	act, ok := Lookup(id)
	if !ok {
		return Eligibility{Allowed: true}
	}

	if act.HolidayOnly && workDay {
		return Eligibility{
			Allowed: false,
			Message: fmt.Sprintf("%s(%s)は休日のみ選択できます", act.Label, act.ID),
		}
	}

	return Eligibility{Allowed: true}
}
