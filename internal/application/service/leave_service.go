package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gakkou-tools/kintai/internal/application/port"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/domain/leave"
)

// BalanceView is a leave balance with its derived display values.
type BalanceView struct {
	leave.Balance
	RemainingHours int    `json:"remaining_hours"`
	Display        string `json:"display"`
}

// LeaveService manages leave applications and the hour-denominated balance.
type LeaveService interface {
	Apply(ctx context.Context, actor Actor, date time.Time, leaveType, duration, reason string) (*entity.LeaveApplication, error)
	Review(ctx context.Context, actor Actor, id int64, approve bool) (*entity.LeaveApplication, error)
	BalanceOf(ctx context.Context, userID string) (*BalanceView, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.LeaveApplication, error)
	ListPending(ctx context.Context, actor Actor, limit int) ([]*entity.LeaveApplication, error)
}

type leaveServiceImpl struct {
	leaveRepo   port.LeaveRepository
	balanceRepo port.BalanceRepository
	txManager   port.TransactionManager
	clock       Clock
	logger      Logger
}

// NewLeaveService creates a new LeaveService.
func NewLeaveService(
	leaveRepo port.LeaveRepository,
	balanceRepo port.BalanceRepository,
	txManager port.TransactionManager,
	clock Clock,
	logger Logger,
) LeaveService {
	return &leaveServiceImpl{
		leaveRepo:   leaveRepo,
		balanceRepo: balanceRepo,
		txManager:   txManager,
		clock:       clock,
		logger:      logger,
	}
}

// Apply files a pending leave application for the actor's own day. Hours are
// derived from the duration label; unknown labels convert to 0 hours rather
// than failing.
func (s *leaveServiceImpl) Apply(ctx context.Context, actor Actor, date time.Time, leaveType, duration, reason string) (*entity.LeaveApplication, error) {
	existing, err := s.leaveRepo.GetByDate(ctx, actor.ID, date)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDay, date.Format("2006-01-02"))
	}

	app := &entity.LeaveApplication{
		UserID:    actor.ID,
		Date:      date,
		LeaveType: leaveType,
		Duration:  duration,
		HoursUsed: leave.DurationToHours(duration),
		Reason:    reason,
		Status:    entity.LeaveStatusPending,
	}

	if err := s.leaveRepo.Create(ctx, app); err != nil {
		s.logger.Error("Failed to create leave application", "error", err, "user_id", actor.ID, "date", date.Format("2006-01-02"))
		return nil, err
	}

	s.logger.Info("Leave application filed", "user_id", actor.ID, "date", date.Format("2006-01-02"), "hours", app.HoursUsed)
	return app, nil
}

// Review approves or rejects a pending application. Approval consumes the
// application's hours from the balance in the same transaction; the
// resulting balance may go negative, which is logged as a warning and kept
// visible rather than clamped.
func (s *leaveServiceImpl) Review(ctx context.Context, actor Actor, id int64, approve bool) (*entity.LeaveApplication, error) {
	if !actor.Privileged {
		return nil, ErrForbidden
	}

	app, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: leave application %d", ErrNotFound, id)
	}
	if app.Status != entity.LeaveStatusPending {
		return nil, fmt.Errorf("%w: application %d already %s", ErrInvalidInput, id, app.Status)
	}

	now := s.clock.Now()
	app.ReviewerID = actor.ID
	app.ReviewedAt = &now
	if approve {
		app.Status = entity.LeaveStatusApproved
	} else {
		app.Status = entity.LeaveStatusRejected
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.leaveRepo.Update(txCtx, app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		if !approve {
			return nil
		}

		bal, err := s.balanceRepo.Get(txCtx, app.UserID)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		if bal == nil {
			def := leave.DefaultBalance(app.UserID)
			bal = &def
		}
		bal.UsedHours += app.HoursUsed

		if bal.Remaining() < 0 {
			s.logger.Error("Leave balance went negative", "user_id", app.UserID, "remaining_hours", bal.Remaining())
		}

		return s.balanceRepo.Save(txCtx, *bal)
	})
	if err != nil {
		s.logger.Error("Failed to review leave application", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Leave application reviewed", "id", id, "status", app.Status, "reviewer", actor.ID)
	return app, nil
}

func (s *leaveServiceImpl) BalanceOf(ctx context.Context, userID string) (*BalanceView, error) {
	bal, err := s.balanceRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	if bal == nil {
		def := leave.DefaultBalance(userID)
		bal = &def
	}

	return &BalanceView{
		Balance:        *bal,
		RemainingHours: bal.Remaining(),
		Display:        leave.FormatHours(bal.Remaining()),
	}, nil
}

func (s *leaveServiceImpl) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.LeaveApplication, error) {
	return s.leaveRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *leaveServiceImpl) ListPending(ctx context.Context, actor Actor, limit int) ([]*entity.LeaveApplication, error) {
	if !actor.Privileged {
		return nil, ErrForbidden
	}
	return s.leaveRepo.ListPending(ctx, limit)
}
