package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/gakkou-tools/kintai/internal/application/port"
	"github.com/gakkou-tools/kintai/internal/domain/leave"
	"github.com/gakkou-tools/kintai/internal/infrastructure/persistence/sqlite"
)

// BalanceRepository implements port.BalanceRepository.
type BalanceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBalanceRepository creates a new leave balance repository.
func NewBalanceRepository(db *sql.DB, logger *zap.Logger) port.BalanceRepository {
	return &BalanceRepository{db: db, logger: logger}
}

// Get retrieves a user's balance, or (nil, nil) when none has been stored
// yet. The service substitutes the default grant in that case.
func (r *BalanceRepository) Get(ctx context.Context, userID string) (*leave.Balance, error) {
	query := `
		SELECT user_id, total_hours, used_hours
		FROM leave_balances
		WHERE user_id = ?
	`

	var b leave.Balance
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&b.UserID, &b.TotalHours, &b.UsedHours)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get leave balance", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &b, nil
}

// Save inserts or replaces the user's balance.
func (r *BalanceRepository) Save(ctx context.Context, b leave.Balance) error {
	query := `
		INSERT INTO leave_balances (user_id, total_hours, used_hours)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_hours = excluded.total_hours,
			used_hours = excluded.used_hours,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, b.UserID, b.TotalHours, b.UsedHours); err != nil {
		r.logger.Error("Failed to save leave balance", zap.String("user_id", b.UserID), zap.Error(err))
		return fmt.Errorf("failed to save leave balance: %w", err)
	}
	return nil
}
