package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gakkou-tools/kintai/internal/application/port"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/infrastructure/persistence/sqlite"
)

// LeaveRepository implements port.LeaveRepository.
type LeaveRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLeaveRepository creates a new leave application repository.
func NewLeaveRepository(db *sql.DB, logger *zap.Logger) port.LeaveRepository {
	return &LeaveRepository{db: db, logger: logger}
}

const leaveColumns = `id, user_id, date, leave_type, duration, hours_used, reason, status, reviewer_id, reviewed_at, created_at, updated_at`

// GetByID retrieves an application by id, or (nil, nil) if absent.
func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*entity.LeaveApplication, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leave_applications
		WHERE id = ?
	`

	app, err := scanLeave(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get leave application", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get leave application: %w", err)
	}
	return app, nil
}

// GetByDate retrieves the application for (user, date), or (nil, nil) if absent.
func (r *LeaveRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*entity.LeaveApplication, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leave_applications
		WHERE user_id = ? AND date = ?
	`

	app, err := scanLeave(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, userID, formatDate(date)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get leave application", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get leave application: %w", err)
	}
	return app, nil
}

// Create inserts a new application. The unique index on (user_id, date)
// rejects a second application for the same day.
func (r *LeaveRepository) Create(ctx context.Context, app *entity.LeaveApplication) error {
	query := `
		INSERT INTO leave_applications (user_id, date, leave_type, duration, hours_used, reason, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		app.UserID,
		formatDate(app.Date),
		app.LeaveType,
		app.Duration,
		app.HoursUsed,
		app.Reason,
		app.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create leave application", zap.String("user_id", app.UserID), zap.Error(err))
		return fmt.Errorf("failed to create leave application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	app.ID = id
	return nil
}

// Update rewrites the review fields of an existing application.
func (r *LeaveRepository) Update(ctx context.Context, app *entity.LeaveApplication) error {
	query := `
		UPDATE leave_applications
		SET status = ?, reviewer_id = ?, reviewed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		app.Status,
		nullString(app.ReviewerID),
		app.ReviewedAt,
		app.ID,
	); err != nil {
		r.logger.Error("Failed to update leave application", zap.Int64("id", app.ID), zap.Error(err))
		return fmt.Errorf("failed to update leave application: %w", err)
	}
	return nil
}

// ListByUser lists a user's applications, newest date first.
func (r *LeaveRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.LeaveApplication, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leave_applications
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT ? OFFSET ?
	`

	return r.list(ctx, query, userID, limit, offset)
}

// ListPending lists applications awaiting review, oldest first.
func (r *LeaveRepository) ListPending(ctx context.Context, limit int) ([]*entity.LeaveApplication, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leave_applications
		WHERE status = ?
		ORDER BY date
		LIMIT ?
	`

	return r.list(ctx, query, entity.LeaveStatusPending, limit)
}

func (r *LeaveRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.LeaveApplication, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list leave applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list leave applications: %w", err)
	}
	defer rows.Close()

	var out []*entity.LeaveApplication
	for rows.Next() {
		app, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave application: %w", err)
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func scanLeave(row rowScanner) (*entity.LeaveApplication, error) {
	var app entity.LeaveApplication
	var dateStr string
	var reviewerID sql.NullString
	var reviewedAt sql.NullTime

	if err := row.Scan(
		&app.ID,
		&app.UserID,
		&dateStr,
		&app.LeaveType,
		&app.Duration,
		&app.HoursUsed,
		&app.Reason,
		&app.Status,
		&reviewerID,
		&reviewedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, err
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	app.Date = date
	if reviewerID.Valid {
		app.ReviewerID = reviewerID.String
	}
	if reviewedAt.Valid {
		app.ReviewedAt = &reviewedAt.Time
	}
	return &app, nil
}
