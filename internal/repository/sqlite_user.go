package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/plannersmart/internal/db"
	"github.com/alexanderramin/plannersmart/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

func NewSQLiteUserRepo(db db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

// Create inserts u and sets u.ID from the generated row id.
func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, api_key, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.APIKey, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Username, ErrConflict)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	u.ID = id
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, api_key, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, api_key, created_at FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// GetAPIKey returns the stored provider key. A user without a key yields
// ErrNotFound, same as an unknown user.
func (r *SQLiteUserRepo) GetAPIKey(ctx context.Context, id int64) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx, `SELECT api_key FROM users WHERE id = ?`, id).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("api key: %w", ErrNotFound)
		}
		return "", fmt.Errorf("reading api key: %w", err)
	}
	if key == "" {
		return "", fmt.Errorf("api key: %w", ErrNotFound)
	}
	return key, nil
}

func (r *SQLiteUserRepo) UpdateAPIKey(ctx context.Context, id int64, apiKey string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET api_key = ? WHERE id = ?`, apiKey, id)
	if err != nil {
		return fmt.Errorf("updating api key: %w", err)
	}
	return requireAffected(res, "user")
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.APIKey, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	u.CreatedAt = t
	return &u, nil
}
