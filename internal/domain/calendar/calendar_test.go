package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayType(t *testing.T) {
	tests := []struct {
		label    string
		expected DayType
	}{
		{"勤務日", DayWorkday},
		{"勤務日(仮)", DayWorkday},
		{"休日", DayHoliday},
		{"休日(祝)", DayHoliday},
		{"", DayUnknown},
		{"行事", DayUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDayType(tt.label))
		})
	}

	assert.True(t, DayWorkday.IsWorkDay())
	assert.False(t, DayHoliday.IsWorkDay())
	assert.False(t, DayUnknown.IsWorkDay())
}

func TestYearMonth_Deadline(t *testing.T) {
	loc := time.UTC

	ym := YearMonth{Year: 2026, Month: time.March}
	assert.Equal(t, time.Date(2026, time.April, 6, 0, 0, 0, 0, loc), ym.Deadline(loc))

	// December rolls over the year boundary.
	dec := YearMonth{Year: 2026, Month: time.December}
	assert.Equal(t, time.Date(2027, time.January, 6, 0, 0, 0, 0, loc), dec.Deadline(loc))
}

func TestYearMonth_ParseAndString(t *testing.T) {
	ym, err := ParseYearMonth("2026-08")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{Year: 2026, Month: time.August}, ym)
	assert.Equal(t, "2026-08", ym.String())

	_, err = ParseYearMonth("08/2026")
	assert.Error(t, err)
}

func TestYearMonth_Contains(t *testing.T) {
	ym := YearMonth{Year: 2026, Month: time.August}
	assert.True(t, ym.Contains(time.Date(2026, time.August, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, ym.Contains(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)))
}
