// Package port defines the interfaces the application layer expects from
// infrastructure. Repositories return (nil, nil) when a record is absent;
// absence is meaningful for monthly statuses (draft) and leave balances
// (default grant) and is resolved by the services.
package port

import (
	"context"
	"time"

	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/domain/leave"
	"github.com/gakkou-tools/kintai/internal/domain/workflow"
)

// TransactionManager executes a function within a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StatusRepository persists MonthlyStatus records. Uniqueness of
// (user, year-month, track) is enforced by the store.
type StatusRepository interface {
	Get(ctx context.Context, userID string, ym calendar.YearMonth, track entity.Track) (*entity.MonthlyStatus, error)
	Create(ctx context.Context, st *entity.MonthlyStatus) error
	Update(ctx context.Context, st *entity.MonthlyStatus) error
	ListByMonth(ctx context.Context, ym calendar.YearMonth, state workflow.State, limit, offset int) ([]*entity.MonthlyStatus, error)
}

// ScheduleRepository persists per-day schedule entries, unique per
// (user, date). Put replaces any existing entry for the day.
type ScheduleRepository interface {
	GetByDate(ctx context.Context, userID string, date time.Time) (*entity.ScheduleEntry, error)
	ListByMonth(ctx context.Context, userID string, ym calendar.YearMonth) ([]*entity.ScheduleEntry, error)
	Put(ctx context.Context, e *entity.ScheduleEntry) error
	Delete(ctx context.Context, userID string, date time.Time) error
}

// ClaimRepository persists per-day allowance claims, unique per (user, date).
// Put replaces any existing claim for the day.
type ClaimRepository interface {
	GetByDate(ctx context.Context, userID string, date time.Time) (*entity.AllowanceClaim, error)
	ListByMonth(ctx context.Context, userID string, ym calendar.YearMonth) ([]*entity.AllowanceClaim, error)
	Put(ctx context.Context, c *entity.AllowanceClaim) error
	Delete(ctx context.Context, userID string, date time.Time) error
}

// LeaveRepository persists leave applications, unique per (user, date).
type LeaveRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.LeaveApplication, error)
	GetByDate(ctx context.Context, userID string, date time.Time) (*entity.LeaveApplication, error)
	Create(ctx context.Context, app *entity.LeaveApplication) error
	Update(ctx context.Context, app *entity.LeaveApplication) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.LeaveApplication, error)
	ListPending(ctx context.Context, limit int) ([]*entity.LeaveApplication, error)
}

// BalanceRepository persists leave balances keyed by user.
type BalanceRepository interface {
	Get(ctx context.Context, userID string) (*leave.Balance, error)
	Save(ctx context.Context, b leave.Balance) error
}
