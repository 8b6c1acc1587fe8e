package allowance

// Input carries the claim fields an amount is derived from. Amounts are never
// entered by the user; recomputing from the same Input must always reproduce
// the stored amount.
type Input struct {
	Activity      ActivityID
	Driving       bool
	Tier          DestinationTier
	WorkDay       bool
	Accommodation bool
	HalfDay       bool
}

// Flat driving rates per destination tier. The accommodation surcharge
// applies only to overnight-capable activities (E and F).
const (
	drivingOutsideYen    = 15000
	drivingInsideLongYen = 7500
	drivingInsideEFYen   = 5100
	accommodationYen     = 2400
)

// Compute returns the allowance amount in whole yen for the given claim
// fields. Rules are evaluated in precedence order: driving overrides are
// checked before the per-activity table, so driving to an outside venue pays
// the flat driving rate regardless of activity. Unrecognized activities
// yield 0.
func Compute(in Input) int {
	if in.Driving {
		switch in.Tier {
		case TierOutside:
			return drivingOutsideYen + overnightSurcharge(in)
		case TierInsideLong:
			return drivingInsideLongYen + overnightSurcharge(in)
		case TierInsideShort, TierSchool:
			switch in.Activity {
			case ActivityC:
				return 3400
			case ActivityE, ActivityF:
				if in.WorkDay {
					return drivingInsideEFYen + overnightSurcharge(in)
				}
				return 2400
			}
			// no short-range driving override; fall through to the table
		}
	}

	switch in.Activity {
	case ActivityA:
		if in.WorkDay {
			return 0
		}
		return 2400
	case ActivityB:
		if in.WorkDay {
			return 0
		}
		return 1700
	case ActivityC:
		if in.HalfDay {
			return 1700
		}
		return 3400
	case ActivityD:
		return 2400
	case ActivityE, ActivityF:
		if in.WorkDay {
			if in.Accommodation {
				return accommodationYen
			}
			return 0
		}
		return 2400
	case ActivityG:
		return 3400
	case ActivityH:
		return 2400
	case ActivityOther:
		return 6000
	}

	return 0
}

func overnightSurcharge(in Input) int {
	if in.Accommodation && (in.Activity == ActivityE || in.Activity == ActivityF) {
		return accommodationYen
	}
	return 0
}
