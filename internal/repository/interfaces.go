package repository

import (
	"context"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetAPIKey(ctx context.Context, id int64) (string, error)
	UpdateAPIKey(ctx context.Context, id int64, apiKey string) error
}

// EventRepo stores calendar events. Every operation is scoped to a user;
// rows owned by someone else behave as if they did not exist.
type EventRepo interface {
	Create(ctx context.Context, userID int64, e *domain.CalendarEvent) error
	ListByUser(ctx context.Context, userID int64) ([]*domain.CalendarEvent, error)
	MarkCompleted(ctx context.Context, userID int64, id string) error
	Delete(ctx context.Context, userID int64, id string) error
}

type AlarmRepo interface {
	Create(ctx context.Context, userID int64, a *domain.Alarm) error
	ListByUser(ctx context.Context, userID int64) ([]*domain.Alarm, error)
	Update(ctx context.Context, userID int64, a *domain.Alarm) error
	SetActive(ctx context.Context, userID int64, id string, active bool) error
	Delete(ctx context.Context, userID int64, id string) error
}
