package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/plannersmart/internal/db"
	"github.com/alexanderramin/plannersmart/internal/domain"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedUser inserts a user row directly and returns it with its generated ID.
func SeedUser(t *testing.T, database *sql.DB, username string, opts ...UserOption) *domain.User {
	t.Helper()
	u := NewTestUser(username, opts...)
	res, err := database.ExecContext(context.Background(),
		`INSERT INTO users (username, password_hash, api_key, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.APIKey, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("failed to seed user %q: %v", username, err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		t.Fatalf("failed to read seeded user id: %v", err)
	}
	return u
}
