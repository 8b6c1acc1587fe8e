package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/domain/workflow"
)

var (
	testMonth = calendar.YearMonth{Year: 2026, Month: time.March}

	// Well before the April 6 deadline.
	beforeDeadline = time.Date(2026, time.March, 20, 10, 0, 0, 0, time.UTC)
	// At the deadline instant; the month is hard-locked from here on.
	atDeadline = time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC)
)

func newMonthlyService(repo *mockStatusRepo, now time.Time) MonthlyService {
	return NewMonthlyService(repo, nopTxManager{}, fixedClock{t: now}, time.UTC, nopLogger{})
}

func TestMonthlyService_SubmitBeforeDeadline(t *testing.T) {
	repo := newMockStatusRepo()
	svc := newMonthlyService(repo, beforeDeadline)
	actor := Actor{ID: "u1"}

	st, err := svc.Submit(context.Background(), actor, testMonth, entity.TrackAllowance)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if st.State != workflow.StateSubmitted {
		t.Errorf("state = %v, want %v", st.State, workflow.StateSubmitted)
	}
	if st.SubmittedAt == nil || !st.SubmittedAt.Equal(beforeDeadline) {
		t.Errorf("SubmittedAt = %v, want %v", st.SubmittedAt, beforeDeadline)
	}
	if st.ID == 0 {
		t.Error("record should have been created")
	}
}

func TestMonthlyService_SubmitAfterDeadline(t *testing.T) {
	repo := newMockStatusRepo()
	svc := newMonthlyService(repo, atDeadline)
	actor := Actor{ID: "u1"}

	_, err := svc.Submit(context.Background(), actor, testMonth, entity.TrackAllowance)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("Submit() at deadline = %v, want %v", err, ErrLocked)
	}
	if len(repo.records) != 0 {
		t.Error("no record should be created on a rejected submission")
	}
}

func TestMonthlyService_SubmitTwice(t *testing.T) {
	repo := newMockStatusRepo()
	svc := newMonthlyService(repo, beforeDeadline)
	actor := Actor{ID: "u1"}

	if _, err := svc.Submit(context.Background(), actor, testMonth, entity.TrackSchedule); err != nil {
		t.Fatalf("first Submit() failed: %v", err)
	}

	// Second submission is not a guard failure: the month is no longer in
	// draft, which the lock rule also reports.
	_, err := svc.Submit(context.Background(), actor, testMonth, entity.TrackSchedule)
	if err == nil {
		t.Fatal("second Submit() should fail")
	}
	if !errors.Is(err, ErrLocked) {
		t.Errorf("second Submit() = %v, want %v", err, ErrLocked)
	}
}

func TestMonthlyService_SubmitInvalidTrack(t *testing.T) {
	svc := newMonthlyService(newMockStatusRepo(), beforeDeadline)

	_, err := svc.Submit(context.Background(), Actor{ID: "u1"}, testMonth, entity.Track("vacation"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Submit() with bad track = %v, want %v", err, ErrInvalidInput)
	}
}

func TestMonthlyService_TracksAreIndependent(t *testing.T) {
	repo := newMockStatusRepo()
	svc := newMonthlyService(repo, beforeDeadline)
	actor := Actor{ID: "u1"}
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Submit(context.Background(), actor, testMonth, entity.TrackSchedule); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	edit, err := svc.Editability(context.Background(), actor, "u1", day)
	if err != nil {
		t.Fatalf("Editability() failed: %v", err)
	}
	if !edit.Schedule.Locked {
		t.Error("schedule track should be locked after submission")
	}
	if edit.Schedule.Reason == "" {
		t.Error("locked track must carry a reason")
	}
	if edit.Allowance.Locked {
		t.Error("allowance track should remain editable")
	}
}

func TestMonthlyService_PrivilegedBypassesLocks(t *testing.T) {
	repo := newMockStatusRepo()
	svc := newMonthlyService(repo, atDeadline)
	admin := Actor{ID: "admin", Privileged: true}
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	edit, err := svc.Editability(context.Background(), admin, "u1", day)
	if err != nil {
		t.Fatalf("Editability() failed: %v", err)
	}
	if edit.Schedule.Locked || edit.Allowance.Locked {
		t.Error("privileged caller should never observe a lock")
	}
}

func TestMonthlyService_ReviewApprove(t *testing.T) {
	repo := newMockStatusRepo()
	svc := newMonthlyService(repo, beforeDeadline)
	actor := Actor{ID: "u1"}
	admin := Actor{ID: "admin", Privileged: true}

	if _, err := svc.Submit(context.Background(), actor, testMonth, entity.TrackAllowance); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	st, err := svc.Review(context.Background(), admin, "u1", testMonth, entity.TrackAllowance, true)
	if err != nil {
		t.Fatalf("Review() failed: %v", err)
	}
	if st.State != workflow.StateApproved {
		t.Errorf("state = %v, want %v", st.State, workflow.StateApproved)
	}
	if st.ApproverID != "admin" {
		t.Errorf("ApproverID = %q, want %q", st.ApproverID, "admin")
	}
	if st.ApprovedAt == nil {
		t.Error("ApprovedAt should be set")
	}
}

func TestMonthlyService_ReviewReject(t *testing.T) {
	repo := newMockStatusRepo()
	svc := newMonthlyService(repo, beforeDeadline)
	admin := Actor{ID: "admin", Privileged: true}

	if _, err := svc.Submit(context.Background(), Actor{ID: "u1"}, testMonth, entity.TrackSchedule); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	st, err := svc.Review(context.Background(), admin, "u1", testMonth, entity.TrackSchedule, false)
	if err != nil {
		t.Fatalf("Review() failed: %v", err)
	}
	if st.State != workflow.StateRejected {
		t.Errorf("state = %v, want %v", st.State, workflow.StateRejected)
	}

	// Terminal: a second review is an invalid transition.
	_, err = svc.Review(context.Background(), admin, "u1", testMonth, entity.TrackSchedule, true)
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Errorf("second Review() = %v, want %v", err, workflow.ErrInvalidTransition)
	}
}

func TestMonthlyService_ReviewRequiresPrivilege(t *testing.T) {
	repo := newMockStatusRepo()
	svc := newMonthlyService(repo, beforeDeadline)

	if _, err := svc.Submit(context.Background(), Actor{ID: "u1"}, testMonth, entity.TrackAllowance); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	_, err := svc.Review(context.Background(), Actor{ID: "u2"}, "u1", testMonth, entity.TrackAllowance, true)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Review() by non-privileged caller = %v, want %v", err, ErrForbidden)
	}
}

func TestMonthlyService_ReviewUnsubmittedMonth(t *testing.T) {
	svc := newMonthlyService(newMockStatusRepo(), beforeDeadline)
	admin := Actor{ID: "admin", Privileged: true}

	_, err := svc.Review(context.Background(), admin, "u1", testMonth, entity.TrackAllowance, true)
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Errorf("Review() of draft month = %v, want %v", err, workflow.ErrInvalidTransition)
	}
}

func TestMonthlyService_StatusDefaultsToDraft(t *testing.T) {
	svc := newMonthlyService(newMockStatusRepo(), beforeDeadline)

	st, err := svc.Status(context.Background(), "u1", testMonth, entity.TrackSchedule)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if st.State != workflow.StateDraft {
		t.Errorf("state = %v, want %v", st.State, workflow.StateDraft)
	}
	if st.ID != 0 {
		t.Error("implicit draft should not carry a stored ID")
	}
}
