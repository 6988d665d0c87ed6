// Package eventstore holds one user's active and completed events on the
// client side and keeps them in step with a remote backend.
package eventstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

// ErrUnknownEvent indicates the id is not among the active events.
var ErrUnknownEvent = errors.New("unknown event")

// Backend is the persistence service the store mirrors.
type Backend interface {
	ListEvents(ctx context.Context) (active, completed []domain.CalendarEvent, err error)
	AddEvent(ctx context.Context, e domain.CalendarEvent) error
	DeleteEvent(ctx context.Context, id string) error
	CompleteEvent(ctx context.Context, id string) error
}

// Store is safe for concurrent use.
type Store struct {
	backend Backend

	mu        sync.Mutex
	active    []domain.CalendarEvent
	completed []domain.CalendarEvent
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Fetch replaces local state with the backend's. On failure both lists are
// cleared.
func (s *Store) Fetch(ctx context.Context) error {
	active, completed, err := s.backend.ListEvents(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.active, s.completed = nil, nil
		return fmt.Errorf("fetching events: %w", err)
	}
	s.active, s.completed = active, completed
	return nil
}

// Add submits e and, once accepted, appends it to the active list.
func (s *Store) Add(ctx context.Context, e domain.CalendarEvent) error {
	if err := s.backend.AddEvent(ctx, e); err != nil {
		return err
	}
	s.mu.Lock()
	s.active = append(s.active, e)
	s.mu.Unlock()
	return nil
}

// Remove drops the event locally, then deletes it remotely. A remote
// failure puts the event back where it was.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	var list *[]domain.CalendarEvent
	idx := indexOf(s.active, id)
	if idx >= 0 {
		list = &s.active
	} else if idx = indexOf(s.completed, id); idx >= 0 {
		list = &s.completed
	}
	var removed domain.CalendarEvent
	if list != nil {
		removed = (*list)[idx]
		*list = deleteAt(*list, idx)
	}
	s.mu.Unlock()

	if err := s.backend.DeleteEvent(ctx, id); err != nil {
		if list != nil {
			s.mu.Lock()
			*list = insertAt(*list, idx, removed)
			s.mu.Unlock()
		}
		return err
	}
	return nil
}

// MarkCompleted moves an active event to the completed list, then confirms
// remotely. A remote failure moves it back.
func (s *Store) MarkCompleted(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := indexOf(s.active, id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("event %s: %w", id, ErrUnknownEvent)
	}
	original := s.active[idx]
	done := original
	done.IsCompleted = true
	s.active = deleteAt(s.active, idx)
	s.completed = append(s.completed, done)
	s.mu.Unlock()

	if err := s.backend.CompleteEvent(ctx, id); err != nil {
		s.mu.Lock()
		if j := indexOf(s.completed, id); j >= 0 {
			s.completed = deleteAt(s.completed, j)
		}
		s.active = insertAt(s.active, idx, original)
		s.mu.Unlock()
		return err
	}
	return nil
}

// Clear empties both lists, e.g. on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active, s.completed = nil, nil
}

// Active returns a copy of the active events.
func (s *Store) Active() []domain.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CalendarEvent(nil), s.active...)
}

// Completed returns a copy of the completed events.
func (s *Store) Completed() []domain.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CalendarEvent(nil), s.completed...)
}

func indexOf(events []domain.CalendarEvent, id string) int {
	for i, e := range events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func deleteAt(events []domain.CalendarEvent, i int) []domain.CalendarEvent {
	out := make([]domain.CalendarEvent, 0, len(events)-1)
	out = append(out, events[:i]...)
	return append(out, events[i+1:]...)
}

func insertAt(events []domain.CalendarEvent, i int, e domain.CalendarEvent) []domain.CalendarEvent {
	if i > len(events) {
		i = len(events)
	}
	out := make([]domain.CalendarEvent, 0, len(events)+1)
	out = append(out, events[:i]...)
	out = append(out, e)
	return append(out, events[i:]...)
}
