package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateDraft, false},
		{StateSubmitted, false},
		{StateApproved, true},
		{StateRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	if !StateDraft.IsValid() {
		t.Error("draft should be valid")
	}
	if State("pending").IsValid() {
		t.Error("unknown state should be invalid")
	}
	if State("").IsValid() {
		t.Error("empty state should be invalid")
	}
}

func TestBuilder_PanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("PermitIf should panic on invalid target state")
		}
	}()

	NewBuilder().Permit(StateDraft, TriggerSubmit, State("nope"))
}

func TestMachine_Fire(t *testing.T) {
	b := NewBuilder()
	b.Permit(StateDraft, TriggerSubmit, StateSubmitted)

	m := b.Build(StateDraft)

	if !m.CanFire(TriggerSubmit) {
		t.Error("CanFire() should return true for configured trigger")
	}
	if m.CanFire(TriggerApprove) {
		t.Error("CanFire() should return false for unconfigured trigger")
	}

	if err := m.Fire(context.Background(), TriggerSubmit); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}
	if m.State() != StateSubmitted {
		t.Errorf("State after Fire() = %v, want %v", m.State(), StateSubmitted)
	}
}

func TestMachine_Fire_InvalidTransition(t *testing.T) {
	m := NewBuilder().Permit(StateDraft, TriggerSubmit, StateSubmitted).Build(StateDraft)

	err := m.Fire(context.Background(), TriggerApprove)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}
	if m.State() != StateDraft {
		t.Errorf("state changed after failed Fire(): %v", m.State())
	}
}

func TestMachine_Fire_GuardFails(t *testing.T) {
	m := NewBuilder().
		PermitIf(StateDraft, TriggerSubmit, StateSubmitted, func(ctx context.Context) bool { return false }).
		Build(StateDraft)

	err := m.Fire(context.Background(), TriggerSubmit)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() error = %v, want %v", err, ErrGuardFailed)
	}
	if m.State() != StateDraft {
		t.Errorf("state changed after guard failure: %v", m.State())
	}
}

func TestMachine_Independence(t *testing.T) {
	b := NewBuilder()
	b.Permit(StateDraft, TriggerSubmit, StateSubmitted)

	m1 := b.Build(StateDraft)
	m2 := b.Build(StateDraft)

	if err := m1.Fire(context.Background(), TriggerSubmit); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if m2.State() != StateDraft {
		t.Errorf("machines built from one builder should be independent, m2 = %v", m2.State())
	}
}

func TestNewMonthlyMachine_FullLifecycle(t *testing.T) {
	m := NewMonthlyMachine(StateDraft, nil)

	steps := []struct {
		trigger  Trigger
		expected State
	}{
		{TriggerSubmit, StateSubmitted},
		{TriggerApprove, StateApproved},
	}

	for i, step := range steps {
		if err := m.Fire(context.Background(), step.trigger); err != nil {
			t.Fatalf("step %d: Fire(%v) failed: %v", i, step.trigger, err)
		}
		if m.State() != step.expected {
			t.Errorf("step %d: state = %v, want %v", i, m.State(), step.expected)
		}
	}

	if !m.State().IsTerminal() {
		t.Error("approved should be terminal")
	}
	if len(m.PermittedTriggers()) != 0 {
		t.Errorf("terminal state should permit no triggers, got %v", m.PermittedTriggers())
	}
}

func TestNewMonthlyMachine_RejectionIsTerminal(t *testing.T) {
	m := NewMonthlyMachine(StateSubmitted, nil)

	if err := m.Fire(context.Background(), TriggerReject); err != nil {
		t.Fatalf("Fire(reject) failed: %v", err)
	}
	if m.State() != StateRejected {
		t.Errorf("state = %v, want %v", m.State(), StateRejected)
	}

	// No path back without an external reset.
	err := m.Fire(context.Background(), TriggerSubmit)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire(submit) after rejection = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestNewMonthlyMachine_LockGuardBlocksSubmit(t *testing.T) {
	locked := func(ctx context.Context) bool { return false }
	m := NewMonthlyMachine(StateDraft, locked)

	err := m.Fire(context.Background(), TriggerSubmit)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire(submit) with locked month = %v, want %v", err, ErrGuardFailed)
	}
}
