package testutil

import (
	"time"

	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/google/uuid"
)

// User options
type UserOption func(*domain.User)

func WithAPIKey(key string) UserOption {
	return func(u *domain.User) {
		u.APIKey = key
	}
}

func WithPasswordHash(hash string) UserOption {
	return func(u *domain.User) {
		u.PasswordHash = hash
	}
}

func NewTestUser(username string, opts ...UserOption) *domain.User {
	u := &domain.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		APIKey:       "test-api-key-0123456789",
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Event options
type EventOption func(*domain.CalendarEvent)

func WithEventID(id string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.ID = id
	}
}

func WithEventStart(start time.Time, d time.Duration) EventOption {
	return func(e *domain.CalendarEvent) {
		e.StartTime = domain.FormatEventTime(start)
		e.EndTime = domain.FormatEventTime(start.Add(d))
	}
}

func WithEventColor(c string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Color = c
	}
}

func NewTestEvent(title string, opts ...EventOption) *domain.CalendarEvent {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &domain.CalendarEvent{
		ID:          uuid.NewString(),
		Title:       title,
		Description: title + " description",
		StartTime:   domain.FormatEventTime(start),
		EndTime:     domain.FormatEventTime(start.Add(time.Hour)),
		Color:       "blue",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Alarm options
type AlarmOption func(*domain.Alarm)

func WithAlarmTime(t time.Time) AlarmOption {
	return func(a *domain.Alarm) {
		a.Time = domain.FormatEventTime(t)
	}
}

func WithAlarmActive(active bool) AlarmOption {
	return func(a *domain.Alarm) {
		a.IsActive = active
	}
}

func NewTestAlarm(title string, opts ...AlarmOption) *domain.Alarm {
	a := &domain.Alarm{
		ID:          uuid.NewString(),
		Title:       title,
		Description: title + " description",
		Time:        domain.FormatEventTime(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewTestTask returns a complete generated task starting at start.
func NewTestTask(title string, start time.Time) domain.GeneratedTask {
	return domain.GeneratedTask{
		Title:       title,
		Description: title + " description",
		StartTime:   domain.FormatEventTime(start),
		Duration:    "01:00",
		Color:       "green",
	}
}
