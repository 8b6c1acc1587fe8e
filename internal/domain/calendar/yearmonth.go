package calendar

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month, the granularity at which monthly
// declarations are submitted, approved and locked.
type YearMonth struct {
	Year  int
	Month time.Month
}

// DeadlineDay is the day of the following month on which a month's
// declarations hard-lock.
const DeadlineDay = 6

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses the "2006-01" wire format.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return YearMonthOf(t), nil
}

// String renders the "2006-01" wire format.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Deadline returns the instant at which the month hard-locks: 00:00 on
// DeadlineDay of the following month, in loc.
func (ym YearMonth) Deadline(loc *time.Location) time.Time {
	next := ym.Next()
	return time.Date(next.Year, next.Month, DeadlineDay, 0, 0, 0, 0, loc)
}

// Contains reports whether t falls inside the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// FirstDay returns midnight on the first day of the month in loc.
func (ym YearMonth) FirstDay(loc *time.Location) time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, loc)
}
