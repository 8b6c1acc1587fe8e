package workflow

// NewMonthlyMachine builds the machine governing one (user, month, track):
// draft moves to submitted on submit, gated by the caller-supplied lock
// guard; submitted moves to approved or rejected on review. Approved and
// rejected are terminal.
func NewMonthlyMachine(initial State, notLocked GuardFunc) *Machine {
	b := NewBuilder()
	b.PermitIf(StateDraft, TriggerSubmit, StateSubmitted, notLocked)
	b.Permit(StateSubmitted, TriggerApprove, StateApproved)
	b.Permit(StateSubmitted, TriggerReject, StateRejected)
	return b.Build(initial)
}
