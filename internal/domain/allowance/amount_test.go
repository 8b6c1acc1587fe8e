package allowance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_DrivingOverrides(t *testing.T) {
	tests := []struct {
		name     string
		in       Input
		expected int
	}{
		{
			name:     "outside tier pays flat rate regardless of activity",
			in:       Input{Activity: ActivityC, Driving: true, Tier: TierOutside},
			expected: 15000,
		},
		{
			name:     "outside tier with accommodation for E adds surcharge",
			in:       Input{Activity: ActivityE, Driving: true, Tier: TierOutside, Accommodation: true},
			expected: 17400,
		},
		{
			name:     "outside tier with accommodation for non-overnight activity pays base only",
			in:       Input{Activity: ActivityG, Driving: true, Tier: TierOutside, Accommodation: true},
			expected: 15000,
		},
		{
			name:     "inside long pays 7500",
			in:       Input{Activity: ActivityA, Driving: true, Tier: TierInsideLong},
			expected: 7500,
		},
		{
			name:     "inside long with accommodation for E on a workday",
			in:       Input{Activity: ActivityE, Driving: true, Tier: TierInsideLong, WorkDay: true, Accommodation: true},
			expected: 9900,
		},
		{
			name:     "short range driving for C",
			in:       Input{Activity: ActivityC, Driving: true, Tier: TierInsideShort},
			expected: 3400,
		},
		{
			name:     "school tier driving for E on a workday with accommodation",
			in:       Input{Activity: ActivityE, Driving: true, Tier: TierSchool, WorkDay: true, Accommodation: true},
			expected: 7500,
		},
		{
			name:     "school tier driving for F on a holiday",
			in:       Input{Activity: ActivityF, Driving: true, Tier: TierSchool, WorkDay: false},
			expected: 2400,
		},
		{
			name:     "short range driving for activity without override falls through",
			in:       Input{Activity: ActivityG, Driving: true, Tier: TierInsideShort},
			expected: 3400,
		},
		{
			name:     "short range driving for D falls through to flat rate",
			in:       Input{Activity: ActivityD, Driving: true, Tier: TierSchool},
			expected: 2400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compute(tt.in))
		})
	}
}

func TestCompute_NonDrivingTable(t *testing.T) {
	tests := []struct {
		name     string
		in       Input
		expected int
	}{
		{"A on a holiday", Input{Activity: ActivityA, Tier: TierSchool}, 2400},
		{"A on a workday", Input{Activity: ActivityA, Tier: TierSchool, WorkDay: true}, 0},
		{"B on a holiday", Input{Activity: ActivityB, Tier: TierSchool}, 1700},
		{"B on a workday", Input{Activity: ActivityB, Tier: TierSchool, WorkDay: true}, 0},
		{"C full day", Input{Activity: ActivityC, Tier: TierInsideShort}, 3400},
		{"C half day", Input{Activity: ActivityC, Tier: TierInsideShort, HalfDay: true}, 1700},
		{"D flat", Input{Activity: ActivityD, Tier: TierSchool, WorkDay: true}, 2400},
		{"E workday without accommodation", Input{Activity: ActivityE, Tier: TierSchool, WorkDay: true}, 0},
		{"E workday with accommodation", Input{Activity: ActivityE, Tier: TierSchool, WorkDay: true, Accommodation: true}, 2400},
		{"E holiday", Input{Activity: ActivityE, Tier: TierSchool}, 2400},
		{"F holiday", Input{Activity: ActivityF, Tier: TierSchool}, 2400},
		{"G flat", Input{Activity: ActivityG, Tier: TierSchool, WorkDay: true}, 3400},
		{"H flat", Input{Activity: ActivityH, Tier: TierSchool}, 2400},
		{"OTHER flat", Input{Activity: ActivityOther, Tier: TierSchool}, 6000},
		{"unrecognized activity", Input{Activity: ActivityID("Z"), Tier: TierSchool}, 0},
		{"empty activity", Input{Tier: TierSchool}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compute(tt.in))
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	in := Input{Activity: ActivityE, Driving: true, Tier: TierInsideLong, WorkDay: true, Accommodation: true}

	first := Compute(in)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Compute(in))
	}
}

func TestCompute_NeverNegative(t *testing.T) {
	for _, act := range All() {
		for _, tier := range []DestinationTier{TierSchool, TierInsideShort, TierInsideLong, TierOutside} {
			for _, driving := range []bool{false, true} {
				for _, workday := range []bool{false, true} {
					in := Input{Activity: act.ID, Driving: driving, Tier: tier, WorkDay: workday}
					assert.GreaterOrEqual(t, Compute(in), 0)
				}
			}
		}
	}
}
