package leave

// DefaultTotalHours is the annual grant assumed when no balance record
// exists: 20 days.
const DefaultTotalHours = 20 * HoursPerDay

// Balance is the hour-denominated leave account for one user.
type Balance struct {
	UserID     string `json:"user_id"`
	TotalHours int    `json:"total_hours"`
	UsedHours  int    `json:"used_hours"`
}

// Remaining returns total minus used. The value may go below zero; it is
// surfaced as-is rather than clamped so the inconsistency stays visible.
func (b Balance) Remaining() int {
	return b.TotalHours - b.UsedHours
}

// DefaultBalance returns the balance assumed for a user with no stored
// record.
func DefaultBalance(userID string) Balance {
	return Balance{UserID: userID, TotalHours: DefaultTotalHours}
}
