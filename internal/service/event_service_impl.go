package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/repository"
)

type eventService struct {
	events   repository.EventRepo
	observer UseCaseObserver
}

func NewEventService(events repository.EventRepo, observers ...UseCaseObserver) EventService {
	return &eventService{events: events, observer: useCaseObserverOrNoop(observers)}
}

// List returns the user's events split by completion, each ordered by start.
func (s *eventService) List(ctx context.Context, userID int64) ([]domain.CalendarEvent, []domain.CalendarEvent, error) {
	events, err := s.events.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	active := make([]domain.CalendarEvent, 0, len(events))
	completed := make([]domain.CalendarEvent, 0)
	for _, e := range events {
		if e.IsCompleted {
			completed = append(completed, *e)
		} else {
			active = append(active, *e)
		}
	}
	return active, completed, nil
}

func (s *eventService) Add(ctx context.Context, userID int64, e domain.CalendarEvent) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "add-event",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"user_id": userID, "event_id": e.ID},
		})
	}()

	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Title) == "" ||
		e.StartTime == "" || e.EndTime == "" {
		return invalid("Missing required event fields (id, title, startTime, endTime).")
	}
	return s.events.Create(ctx, userID, &e)
}

func (s *eventService) Complete(ctx context.Context, userID int64, id string) error {
	return s.events.MarkCompleted(ctx, userID, id)
}

func (s *eventService) Delete(ctx context.Context, userID int64, id string) error {
	return s.events.Delete(ctx, userID, id)
}

// UserEvents binds an EventService to one user so it can back a client-side
// event store in-process.
type UserEvents struct {
	svc    EventService
	userID int64
}

func NewUserEvents(svc EventService, userID int64) *UserEvents {
	return &UserEvents{svc: svc, userID: userID}
}

func (u *UserEvents) ListEvents(ctx context.Context) ([]domain.CalendarEvent, []domain.CalendarEvent, error) {
	return u.svc.List(ctx, u.userID)
}

func (u *UserEvents) AddEvent(ctx context.Context, e domain.CalendarEvent) error {
	return u.svc.Add(ctx, u.userID, e)
}

func (u *UserEvents) DeleteEvent(ctx context.Context, id string) error {
	return u.svc.Delete(ctx, u.userID, id)
}

func (u *UserEvents) CompleteEvent(ctx context.Context, id string) error {
	return u.svc.Complete(ctx, u.userID, id)
}
