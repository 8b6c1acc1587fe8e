package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gakkou-tools/kintai/internal/application/port"
	"github.com/gakkou-tools/kintai/internal/domain/allowance"
	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/infrastructure/persistence/sqlite"
)

// ClaimRepository implements port.ClaimRepository.
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new allowance claim repository.
func NewClaimRepository(db *sql.DB, logger *zap.Logger) port.ClaimRepository {
	return &ClaimRepository{db: db, logger: logger}
}

const claimColumns = `id, user_id, date, activity_id, destination_tier, detail, driving, accommodation, half_day, work_day, amount, created_at, updated_at`

// GetByDate retrieves the claim for (user, date), or (nil, nil) if absent.
func (r *ClaimRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*entity.AllowanceClaim, error) {
	query := `
		SELECT ` + claimColumns + `
		FROM allowance_claims
		WHERE user_id = ? AND date = ?
	`

	c, err := scanClaim(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, userID, formatDate(date)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get allowance claim", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get allowance claim: %w", err)
	}
	return c, nil
}

// ListByMonth lists the user's claims for a month in date order.
func (r *ClaimRepository) ListByMonth(ctx context.Context, userID string, ym calendar.YearMonth) ([]*entity.AllowanceClaim, error) {
	query := `
		SELECT ` + claimColumns + `
		FROM allowance_claims
		WHERE user_id = ? AND date LIKE ?
		ORDER BY date
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, userID, ym.String()+"-%")
	if err != nil {
		r.logger.Error("Failed to list allowance claims", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list allowance claims: %w", err)
	}
	defer rows.Close()

	var out []*entity.AllowanceClaim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowance claim: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Put inserts or replaces the claim for (user, date).
func (r *ClaimRepository) Put(ctx context.Context, c *entity.AllowanceClaim) error {
	query := `
		INSERT INTO allowance_claims (user_id, date, activity_id, destination_tier, detail, driving, accommodation, half_day, work_day, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			activity_id = excluded.activity_id,
			destination_tier = excluded.destination_tier,
			detail = excluded.detail,
			driving = excluded.driving,
			accommodation = excluded.accommodation,
			half_day = excluded.half_day,
			work_day = excluded.work_day,
			amount = excluded.amount,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		c.UserID,
		formatDate(c.Date),
		string(c.ActivityID),
		string(c.Tier),
		c.Detail,
		c.Driving,
		c.Accommodation,
		c.HalfDay,
		c.WorkDay,
		c.Amount,
	); err != nil {
		r.logger.Error("Failed to put allowance claim", zap.String("user_id", c.UserID), zap.Error(err))
		return fmt.Errorf("failed to put allowance claim: %w", err)
	}
	return nil
}

// Delete removes the claim for (user, date). Deleting a missing claim is a no-op.
func (r *ClaimRepository) Delete(ctx context.Context, userID string, date time.Time) error {
	query := `DELETE FROM allowance_claims WHERE user_id = ? AND date = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, userID, formatDate(date)); err != nil {
		r.logger.Error("Failed to delete allowance claim", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to delete allowance claim: %w", err)
	}
	return nil
}

func scanClaim(row rowScanner) (*entity.AllowanceClaim, error) {
	var c entity.AllowanceClaim
	var dateStr, activityStr, tierStr string

	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&dateStr,
		&activityStr,
		&tierStr,
		&c.Detail,
		&c.Driving,
		&c.Accommodation,
		&c.HalfDay,
		&c.WorkDay,
		&c.Amount,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	c.Date = date
	c.ActivityID = allowance.ActivityID(activityStr)
	c.Tier = allowance.DestinationTier(tierStr)
	return &c, nil
}
