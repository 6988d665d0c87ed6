package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/plannersmart/internal/db"
	"github.com/alexanderramin/plannersmart/internal/domain"
)

// SQLiteAlarmRepo implements AlarmRepo using a SQLite database.
type SQLiteAlarmRepo struct {
	db db.DBTX
}

func NewSQLiteAlarmRepo(db db.DBTX) *SQLiteAlarmRepo {
	return &SQLiteAlarmRepo{db: db}
}

func (r *SQLiteAlarmRepo) Create(ctx context.Context, userID int64, a *domain.Alarm) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alarms (id, user_id, title, description, time, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, userID, a.Title, a.Description, a.Time, boolToInt(a.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("alarm %s: %w", a.ID, ErrConflict)
		}
		return fmt.Errorf("inserting alarm: %w", err)
	}
	return nil
}

func (r *SQLiteAlarmRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Alarm, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, time, is_active FROM alarms WHERE user_id = ? ORDER BY time ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing alarms: %w", err)
	}
	defer rows.Close()

	var alarms []*domain.Alarm
	for rows.Next() {
		var a domain.Alarm
		var active int
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Time, &active); err != nil {
			return nil, fmt.Errorf("scanning alarm row: %w", err)
		}
		a.IsActive = intToBool(active)
		alarms = append(alarms, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alarms: %w", err)
	}
	return alarms, nil
}

func (r *SQLiteAlarmRepo) Update(ctx context.Context, userID int64, a *domain.Alarm) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alarms SET title = ?, description = ?, time = ?, is_active = ? WHERE id = ? AND user_id = ?`,
		a.Title, a.Description, a.Time, boolToInt(a.IsActive), a.ID, userID)
	if err != nil {
		return fmt.Errorf("updating alarm: %w", err)
	}
	return requireAffected(res, "alarm")
}

func (r *SQLiteAlarmRepo) SetActive(ctx context.Context, userID int64, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alarms SET is_active = ? WHERE id = ? AND user_id = ?`, boolToInt(active), id, userID)
	if err != nil {
		return fmt.Errorf("toggling alarm: %w", err)
	}
	return requireAffected(res, "alarm")
}

func (r *SQLiteAlarmRepo) Delete(ctx context.Context, userID int64, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alarms WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting alarm: %w", err)
	}
	return requireAffected(res, "alarm")
}
