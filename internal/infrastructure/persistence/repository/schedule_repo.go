package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gakkou-tools/kintai/internal/application/port"
	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/infrastructure/persistence/sqlite"
)

// ScheduleRepository implements port.ScheduleRepository.
type ScheduleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewScheduleRepository creates a new schedule entry repository.
func NewScheduleRepository(db *sql.DB, logger *zap.Logger) port.ScheduleRepository {
	return &ScheduleRepository{db: db, logger: logger}
}

// GetByDate retrieves the entry for (user, date), or (nil, nil) if absent.
func (r *ScheduleRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*entity.ScheduleEntry, error) {
	query := `
		SELECT id, user_id, date, code, note, created_at, updated_at
		FROM schedule_entries
		WHERE user_id = ? AND date = ?
	`

	e, err := scanScheduleEntry(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, userID, formatDate(date)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get schedule entry", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get schedule entry: %w", err)
	}
	return e, nil
}

// ListByMonth lists the user's entries for a month in date order.
func (r *ScheduleRepository) ListByMonth(ctx context.Context, userID string, ym calendar.YearMonth) ([]*entity.ScheduleEntry, error) {
	query := `
		SELECT id, user_id, date, code, note, created_at, updated_at
		FROM schedule_entries
		WHERE user_id = ? AND date LIKE ?
		ORDER BY date
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, userID, ym.String()+"-%")
	if err != nil {
		r.logger.Error("Failed to list schedule entries", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.ScheduleEntry
	for rows.Next() {
		e, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Put inserts or replaces the entry for (user, date).
func (r *ScheduleRepository) Put(ctx context.Context, e *entity.ScheduleEntry) error {
	query := `
		INSERT INTO schedule_entries (user_id, date, code, note)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			code = excluded.code,
			note = excluded.note,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		e.UserID, formatDate(e.Date), e.Code, e.Note,
	); err != nil {
		r.logger.Error("Failed to put schedule entry", zap.String("user_id", e.UserID), zap.Error(err))
		return fmt.Errorf("failed to put schedule entry: %w", err)
	}
	return nil
}

// Delete removes the entry for (user, date). Deleting a missing entry is a no-op.
func (r *ScheduleRepository) Delete(ctx context.Context, userID string, date time.Time) error {
	query := `DELETE FROM schedule_entries WHERE user_id = ? AND date = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, userID, formatDate(date)); err != nil {
		r.logger.Error("Failed to delete schedule entry", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to delete schedule entry: %w", err)
	}
	return nil
}

func scanScheduleEntry(row rowScanner) (*entity.ScheduleEntry, error) {
	var e entity.ScheduleEntry
	var dateStr string

	if err := row.Scan(&e.ID, &e.UserID, &dateStr, &e.Code, &e.Note, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	e.Date = date
	return &e, nil
}
