package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/plannersmart/internal/db"
	"github.com/alexanderramin/plannersmart/internal/domain"
)

// SQLiteEventRepo implements EventRepo using a SQLite database.
type SQLiteEventRepo struct {
	db db.DBTX
}

func NewSQLiteEventRepo(db db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: db}
}

// Create inserts a new active event. A duplicate id is rejected with
// ErrConflict and the stored row is left untouched.
func (r *SQLiteEventRepo) Create(ctx context.Context, userID int64, e *domain.CalendarEvent) error {
	query := `INSERT INTO events (id, user_id, title, description, start_time, end_time, color, is_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		userID,
		e.Title,
		e.Description,
		e.StartTime,
		e.EndTime,
		nullableString(e.Color),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("event %s: %w", e.ID, ErrConflict)
		}
		return fmt.Errorf("inserting event: %w", err)
	}
	e.IsCompleted = false
	return nil
}

func (r *SQLiteEventRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.CalendarEvent, error) {
	query := `SELECT id, title, description, start_time, end_time, color, is_completed
		FROM events WHERE user_id = ? ORDER BY start_time ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*domain.CalendarEvent
	for rows.Next() {
		var e domain.CalendarEvent
		var color sql.NullString
		var completed int
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &color, &completed); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		e.Color = color.String
		e.IsCompleted = intToBool(completed)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// MarkCompleted flips an active event to completed. Unknown, foreign or
// already completed events yield ErrNotFound.
func (r *SQLiteEventRepo) MarkCompleted(ctx context.Context, userID int64, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET is_completed = 1 WHERE id = ? AND user_id = ? AND is_completed = 0`, id, userID)
	if err != nil {
		return fmt.Errorf("marking event complete: %w", err)
	}
	return requireAffected(res, "active event")
}

func (r *SQLiteEventRepo) Delete(ctx context.Context, userID int64, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return requireAffected(res, "event")
}
