// Package calendar provides the day classification and year-month values the
// workflow layer operates on. Calendar labels are mapped to a closed DayType
// once at the boundary; downstream code consumes the type, never the raw
// label.
package calendar

import "strings"

// DayType is the closed classification of a calendar day.
type DayType int

const (
	DayUnknown DayType = iota
	DayWorkday
	DayHoliday
)

// ParseDayType maps an imported calendar label to a DayType. Provisional
// markers such as "勤務日(仮)" count as their base type.
func ParseDayType(label string) DayType {
	switch {
	case strings.HasPrefix(label, "勤務日"):
		return DayWorkday
	case strings.HasPrefix(label, "休日"):
		return DayHoliday
	}
	return DayUnknown
}

// IsWorkDay returns true only for an explicit workday.
func (d DayType) IsWorkDay() bool {
	return d == DayWorkday
}

func (d DayType) String() string {
	switch d {
	case DayWorkday:
		return "workday"
	case DayHoliday:
		return "holiday"
	}
	return "unknown"
}
