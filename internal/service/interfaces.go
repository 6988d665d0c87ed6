package service

import (
	"context"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, apiKey string) (*domain.User, error)
	// Login returns a signed session token for valid credentials.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Verify(token string) (*Claims, error)
	UpdateAPIKey(ctx context.Context, userID int64, apiKey string) error
}

type EventService interface {
	List(ctx context.Context, userID int64) (active, completed []domain.CalendarEvent, err error)
	Add(ctx context.Context, userID int64, e domain.CalendarEvent) error
	Complete(ctx context.Context, userID int64, id string) error
	Delete(ctx context.Context, userID int64, id string) error
}

type AlarmService interface {
	List(ctx context.Context, userID int64) ([]domain.Alarm, error)
	Create(ctx context.Context, userID int64, a *domain.Alarm) error
	Update(ctx context.Context, userID int64, a *domain.Alarm) error
	Toggle(ctx context.Context, userID int64, id string) (*domain.Alarm, error)
	Delete(ctx context.Context, userID int64, id string) error
}
