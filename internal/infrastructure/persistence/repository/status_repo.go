// Package repository contains the sqlite implementations of the application
// ports. Dates are stored as "2006-01-02" strings and year-months as
// "2006-01", matching the unique indexes in the schema.
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
	"github.com/gakkou-tools/kintai/internal/domain/workflow"
	"github.com/gakkou-tools/kintai/internal/infrastructure/persistence/sqlite"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// StatusRepository implements port.StatusRepository.
type StatusRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStatusRepository creates a new monthly status repository.
func NewStatusRepository(db *sql.DB, logger *zap.Logger) port.StatusRepository {
	return &StatusRepository{db: db, logger: logger}
}

const statusColumns = `id, user_id, year_month, track, state, submitted_at, approver_id, approved_at, created_at, updated_at`

// Get retrieves the status record for (user, month, track). Absence is not
// an error: it returns (nil, nil), which the service layer reads as draft.
func (r *StatusRepository) Get(ctx context.Context, userID string, ym calendar.YearMonth, track entity.Track) (*entity.MonthlyStatus, error) {
	query := `
		SELECT ` + statusColumns + `
		FROM monthly_statuses
		WHERE user_id = ? AND year_month = ? AND track = ?
	`

	st, err := scanStatus(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, userID, ym.String(), string(track)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get monthly status", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get monthly status: %w", err)
	}
	return st, nil
}

// Create inserts a new status record. The unique index on
// (user_id, year_month, track) rejects duplicates.
func (r *StatusRepository) Create(ctx context.Context, st *entity.MonthlyStatus) error {
	query := `
		INSERT INTO monthly_statuses (user_id, year_month, track, state, submitted_at, approver_id, approved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		st.UserID,
		st.YearMonth.String(),
		string(st.Track),
		st.State.String(),
		st.SubmittedAt,
		nullString(st.ApproverID),
		st.ApprovedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create monthly status", zap.String("user_id", st.UserID), zap.Error(err))
		return fmt.Errorf("failed to create monthly status: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	st.ID = id
	return nil
}

// Update rewrites the mutable workflow fields of an existing record.
func (r *StatusRepository) Update(ctx context.Context, st *entity.MonthlyStatus) error {
	query := `
		UPDATE monthly_statuses
		SET state = ?, submitted_at = ?, approver_id = ?, approved_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		st.State.String(),
		st.SubmittedAt,
		nullString(st.ApproverID),
		st.ApprovedAt,
		st.ID,
	); err != nil {
		r.logger.Error("Failed to update monthly status", zap.Int64("id", st.ID), zap.Error(err))
		return fmt.Errorf("failed to update monthly status: %w", err)
	}
	return nil
}

// ListByMonth lists stored records for a month, optionally filtered by state.
func (r *StatusRepository) ListByMonth(ctx context.Context, ym calendar.YearMonth, state workflow.State, limit, offset int) ([]*entity.MonthlyStatus, error) {
	query := `
		SELECT ` + statusColumns + `
		FROM monthly_statuses
		WHERE year_month = ? AND (? = '' OR state = ?)
		ORDER BY user_id, track
		LIMIT ? OFFSET ?
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, ym.String(), state.String(), state.String(), limit, offset)
	if err != nil {
		r.logger.Error("Failed to list monthly statuses", zap.String("year_month", ym.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list monthly statuses: %w", err)
	}
	defer rows.Close()

	var out []*entity.MonthlyStatus
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly status: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStatus(row rowScanner) (*entity.MonthlyStatus, error) {
	var st entity.MonthlyStatus
	var ymStr, trackStr, stateStr string
	var submittedAt, approvedAt sql.NullTime
	var approverID sql.NullString

	if err := row.Scan(
		&st.ID,
		&st.UserID,
		&ymStr,
		&trackStr,
		&stateStr,
		&submittedAt,
		&approverID,
		&approvedAt,
		&st.CreatedAt,
		&st.UpdatedAt,
	); err != nil {
		return nil, err
	}

	ym, err := calendar.ParseYearMonth(ymStr)
	if err != nil {
		return nil, err
	}
	st.YearMonth = ym
	st.Track = entity.Track(trackStr)
	st.State = workflow.State(stateStr)
	if submittedAt.Valid {
		st.SubmittedAt = &submittedAt.Time
	}
	if approverID.Valid {
		st.ApproverID = approverID.String
	}
	if approvedAt.Valid {
		st.ApprovedAt = &approvedAt.Time
	}
	return &st, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
