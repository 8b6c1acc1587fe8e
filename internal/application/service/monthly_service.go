package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gakkou-tools/kintai/internal/application/port"
	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/domain/workflow"
)

// TrackEditability is the computed lock state of one track for one month.
type TrackEditability struct {
	Track  entity.Track `json:"track"`
	Locked bool         `json:"locked"`
	Reason string       `json:"reason,omitempty"`
}

// DayEditability is the per-track lock state applying to a single day's edit
// form. The two tracks are evaluated independently, so one side may be
// locked while the other stays editable.
type DayEditability struct {
	Date      time.Time        `json:"date"`
	Schedule  TrackEditability `json:"schedule"`
	Allowance TrackEditability `json:"allowance"`
}

// MonthlyService governs the per (user, month, track) submission workflow
// and the lock rule derived from it.
type MonthlyService interface {
	// TrackLock computes the lock state of one track for the month of the
	// given user. Lock state is always computed, never stored.
	TrackLock(ctx context.Context, actor Actor, userID string, ym calendar.YearMonth, track entity.Track) (TrackEditability, error)

	// Editability computes both tracks' lock state for a day's edit form.
	Editability(ctx context.Context, actor Actor, userID string, date time.Time) (*DayEditability, error)

	// Submit moves the actor's own month from draft to submitted.
	Submit(ctx context.Context, actor Actor, ym calendar.YearMonth, track entity.Track) (*entity.MonthlyStatus, error)

	// Review moves a submitted month to approved or rejected. Privileged
	// callers only; records the approver and the review instant.
	Review(ctx context.Context, actor Actor, userID string, ym calendar.YearMonth, track entity.Track, approve bool) (*entity.MonthlyStatus, error)

	// Status returns the stored record, or an implicit draft when absent.
	Status(ctx context.Context, userID string, ym calendar.YearMonth, track entity.Track) (*entity.MonthlyStatus, error)

	// ListByMonth lists stored records for a month, optionally filtered by
	// state ("" for all).
	ListByMonth(ctx context.Context, ym calendar.YearMonth, state workflow.State, limit, offset int) ([]*entity.MonthlyStatus, error)
}

type monthlyServiceImpl struct {
	statusRepo port.StatusRepository
	txManager  port.TransactionManager
	clock      Clock
	loc        *time.Location
	logger     Logger
}

// NewMonthlyService creates a new MonthlyService.
func NewMonthlyService(
	statusRepo port.StatusRepository,
	txManager port.TransactionManager,
	clock Clock,
	loc *time.Location,
	logger Logger,
) MonthlyService {
	return &monthlyServiceImpl{
		statusRepo: statusRepo,
		txManager:  txManager,
		clock:      clock,
		loc:        loc,
		logger:     logger,
	}
}

// TrackLock implements the lock rule: privileged callers are never locked;
// otherwise a track locks at the fixed deadline instant of the month, or as
// soon as its stored status has left draft.
func (s *monthlyServiceImpl) TrackLock(ctx context.Context, actor Actor, userID string, ym calendar.YearMonth, track entity.Track) (TrackEditability, error) {
	te := TrackEditability{Track: track}

	if !track.IsValid() {
		return te, fmt.Errorf("%w: unknown track %q", ErrInvalidInput, track)
	}
	if actor.Privileged {
		return te, nil
	}

	if !s.clock.Now().Before(ym.Deadline(s.loc)) {
		te.Locked = true
		te.Reason = fmt.Sprintf("%s分は提出期限(翌月%d日)を過ぎています", ym, calendar.DeadlineDay)
		return te, nil
	}

	st, err := s.statusRepo.Get(ctx, userID, ym, track)
	if err != nil {
		return te, fmt.Errorf("get status: %w", err)
	}
	if st != nil && !st.IsDraft() {
		te.Locked = true
		te.Reason = fmt.Sprintf("%s分は%s済みです", ym, stateLabel(st.State))
	}

	return te, nil
}

func (s *monthlyServiceImpl) Editability(ctx context.Context, actor Actor, userID string, date time.Time) (*DayEditability, error) {
	ym := calendar.YearMonthOf(date)

	sched, err := s.TrackLock(ctx, actor, userID, ym, entity.TrackSchedule)
	if err != nil {
		return nil, err
	}
	allow, err := s.TrackLock(ctx, actor, userID, ym, entity.TrackAllowance)
	if err != nil {
		return nil, err
	}

	return &DayEditability{Date: date, Schedule: sched, Allowance: allow}, nil
}

func (s *monthlyServiceImpl) Submit(ctx context.Context, actor Actor, ym calendar.YearMonth, track entity.Track) (*entity.MonthlyStatus, error) {
	if !track.IsValid() {
		return nil, fmt.Errorf("%w: unknown track %q", ErrInvalidInput, track)
	}

	st, err := s.statusRepo.Get(ctx, actor.ID, ym, track)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	if st == nil {
		st = entity.NewDraftStatus(actor.ID, ym, track)
	}

	lock, err := s.TrackLock(ctx, actor, actor.ID, ym, track)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewMonthlyMachine(st.State, func(context.Context) bool { return !lock.Locked })
	if err := machine.Fire(ctx, workflow.TriggerSubmit); err != nil {
		if errors.Is(err, workflow.ErrGuardFailed) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Reason)
		}
		return nil, err
	}

	now := s.clock.Now()
	st.State = machine.State()
	st.SubmittedAt = &now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if st.ID == 0 {
			return s.statusRepo.Create(txCtx, st)
		}
		return s.statusRepo.Update(txCtx, st)
	})
	if err != nil {
		s.logger.Error("Failed to persist submission", "error", err, "user_id", actor.ID, "year_month", ym.String(), "track", track)
		return nil, err
	}

	s.logger.Info("Month submitted", "user_id", actor.ID, "year_month", ym.String(), "track", track)
	return st, nil
}

func (s *monthlyServiceImpl) Review(ctx context.Context, actor Actor, userID string, ym calendar.YearMonth, track entity.Track, approve bool) (*entity.MonthlyStatus, error) {
	if !actor.Privileged {
		return nil, ErrForbidden
	}
	if !track.IsValid() {
		return nil, fmt.Errorf("%w: unknown track %q", ErrInvalidInput, track)
	}

	st, err := s.statusRepo.Get(ctx, userID, ym, track)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: %s %s/%s has not been submitted", workflow.ErrInvalidTransition, userID, ym, track)
	}

	trigger := workflow.TriggerReject
	if approve {
		trigger = workflow.TriggerApprove
	}

	machine := workflow.NewMonthlyMachine(st.State, nil)
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	st.State = machine.State()
	st.ApproverID = actor.ID
	st.ApprovedAt = &now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.statusRepo.Update(txCtx, st)
	})
	if err != nil {
		s.logger.Error("Failed to persist review", "error", err, "user_id", userID, "year_month", ym.String(), "track", track)
		return nil, err
	}

	s.logger.Info("Month reviewed", "user_id", userID, "year_month", ym.String(), "track", track, "state", st.State.String(), "approver", actor.ID)
	return st, nil
}

func (s *monthlyServiceImpl) Status(ctx context.Context, userID string, ym calendar.YearMonth, track entity.Track) (*entity.MonthlyStatus, error) {
	if !track.IsValid() {
		return nil, fmt.Errorf("%w: unknown track %q", ErrInvalidInput, track)
	}

	st, err := s.statusRepo.Get(ctx, userID, ym, track)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	if st == nil {
		return entity.NewDraftStatus(userID, ym, track), nil
	}
	return st, nil
}

func (s *monthlyServiceImpl) ListByMonth(ctx context.Context, ym calendar.YearMonth, state workflow.State, limit, offset int) ([]*entity.MonthlyStatus, error) {
	return s.statusRepo.ListByMonth(ctx, ym, state, limit, offset)
}

func stateLabel(st workflow.State) string {
	switch st {
	case workflow.StateSubmitted:
		return "提出"
	case workflow.StateApproved:
		return "承認"
	case workflow.StateRejected:
		return "差戻し"
	}
	return st.String()
}
