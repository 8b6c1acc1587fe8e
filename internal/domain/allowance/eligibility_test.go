package allowance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanSelectActivity(t *testing.T) {
	tests := []struct {
		name    string
		id      ActivityID
		workDay bool
		allowed bool
	}{
		{"holiday-only A denied on workday", ActivityA, true, false},
		{"holiday-only B denied on workday", ActivityB, true, false},
		{"A allowed on holiday", ActivityA, false, true},
		{"B allowed on holiday", ActivityB, false, true},
		{"C allowed on workday", ActivityC, true, true},
		{"OTHER allowed on workday", ActivityOther, true, true},
		{"unknown id allowed", ActivityID("Z"), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanSelectActivity(tt.id, tt.workDay)
			assert.Equal(t, tt.allowed, got.Allowed)
			if !tt.allowed {
				act, _ := Lookup(tt.id)
				assert.Contains(t, got.Message, act.Label)
				assert.Contains(t, got.Message, "休日")
			} else {
				assert.Empty(t, got.Message)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	a, ok := Lookup(ActivityA)
	assert.True(t, ok)
	assert.True(t, a.HolidayOnly)

	_, ok = Lookup(ActivityID("nope"))
	assert.False(t, ok)

	assert.Len(t, All(), 9)
}
