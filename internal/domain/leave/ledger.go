// Package leave implements the hour-denominated leave ledger: duration
// conversion, balance arithmetic and display formatting.
package leave

import "fmt"

// Duration labels accepted on the leave application form.
const (
	DurationFullDay       = "1日"
	DurationHalfMorning   = "半日(午前)"
	DurationHalfAfternoon = "半日(午後)"
	DurationHourly        = "時間休"
)

// HoursPerDay is the conversion base between days and hours.
const HoursPerDay = 8

// DurationToHours converts a duration label to hours. Hourly leave converts
// to a fixed single hour regardless of the span entered on the form; unknown
// labels convert to 0.
func DurationToHours(duration string) int {
	switch duration {
	case DurationFullDay:
		return HoursPerDay
	case DurationHalfMorning, DurationHalfAfternoon:
		return HoursPerDay / 2
	case DurationHourly:
		return 1
	}
	return 0
}

// FormatHours renders an hour total as days and remainder hours, e.g.
// "1日と4時間". Negative totals render with a leading minus; a balance below
// zero is a data-integrity warning upstream, not a formatting failure.
func FormatHours(total int) string {
	neg := total < 0
	if neg {
		total = -total
	}

	days := total / HoursPerDay
	hours := total % HoursPerDay

	var s string
	switch {
	case days == 0:
		s = fmt.Sprintf("%d時間", hours)
	case hours == 0:
		s = fmt.Sprintf("%d日", days)
	default:
		s = fmt.Sprintf("%d日と%d時間", days, hours)
	}

	if neg {
		return "-" + s
	}
	return s
}
