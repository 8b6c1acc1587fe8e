// Package allowance holds the activity reference data and the amount
// computation rules for activity-based allowances. Everything here is pure:
// the engine derives a whole-yen amount from claim fields and never touches
// storage or the clock.
package allowance

// ActivityID identifies an activity in the fixed reference set. The
// identifiers are a stable contract with the form layer and must not be
// renumbered.
type ActivityID string

const (
	ActivityA     ActivityID = "A"
	ActivityB     ActivityID = "B"
	ActivityC     ActivityID = "C"
	ActivityD     ActivityID = "D"
	ActivityE     ActivityID = "E"
	ActivityF     ActivityID = "F"
	ActivityG     ActivityID = "G"
	ActivityH     ActivityID = "H"
	ActivityOther ActivityID = "OTHER"
)

// Activity is immutable reference data describing one claimable activity.
type Activity struct {
	ID          ActivityID `json:"id"`
	Label       string     `json:"label"`
	HolidayOnly bool       `json:"holiday_only"`
}

var activityOrder = []ActivityID{
	ActivityA, ActivityB, ActivityC, ActivityD,
	ActivityE, ActivityF, ActivityG, ActivityH,
	ActivityOther,
}

var activities = map[ActivityID]Activity{
	ActivityA:     {ID: ActivityA, Label: "休日学校行事", HolidayOnly: true},
	ActivityB:     {ID: ActivityB, Label: "休日校内指導", HolidayOnly: true},
	ActivityC:     {ID: ActivityC, Label: "練習試合引率", HolidayOnly: false},
	ActivityD:     {ID: ActivityD, Label: "校外研修", HolidayOnly: false},
	ActivityE:     {ID: ActivityE, Label: "大会引率", HolidayOnly: false},
	ActivityF:     {ID: ActivityF, Label: "遠征引率", HolidayOnly: false},
	ActivityG:     {ID: ActivityG, Label: "審判派遣", HolidayOnly: false},
	ActivityH:     {ID: ActivityH, Label: "対外会議", HolidayOnly: false},
	ActivityOther: {ID: ActivityOther, Label: "その他(出張扱い)", HolidayOnly: false},
}

// Lookup returns the reference activity for id. ok is false for ids outside
// the fixed set.
func Lookup(id ActivityID) (Activity, bool) {
	a, ok := activities[id]
	return a, ok
}

// All returns the reference activities in display order.
func All() []Activity {
	out := make([]Activity, 0, len(activityOrder))
	for _, id := range activityOrder {
		out = append(out, activities[id])
	}
	return out
}

// DestinationTier classifies where a claimed activity took place, ordered by
// increasing distance. Identifiers are a stable contract like ActivityID.
type DestinationTier string

const (
	TierSchool      DestinationTier = "school"
	TierInsideShort DestinationTier = "inside_short"
	TierInsideLong  DestinationTier = "inside_long"
	TierOutside     DestinationTier = "outside"
)

var validTiers = map[DestinationTier]bool{
	TierSchool:      true,
	TierInsideShort: true,
	TierInsideLong:  true,
	TierOutside:     true,
}

// IsValid returns true if the tier is part of the fixed set.
func (t DestinationTier) IsValid() bool {
	return validTiers[t]
}

// String returns the string representation of the tier.
func (t DestinationTier) String() string {
	return string(t)
}
