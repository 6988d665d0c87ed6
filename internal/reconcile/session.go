package reconcile

import (
	"context"
	"fmt"

	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentAdds bounds in-flight submissions during AddAll.
const maxConcurrentAdds = 8

// EventSink accepts new events, typically an eventstore.Store.
type EventSink interface {
	Add(ctx context.Context, e domain.CalendarEvent) error
}

// TaskFailure describes one task that could not be added.
type TaskFailure struct {
	Index int
	Title string
	Err   error
}

// BulkResult summarises an AddAll call.
type BulkResult struct {
	Added       int
	Failed      int
	Failures    []TaskFailure
	NothingToDo bool
}

// Session reconciles one generated batch into the user's events.
type Session struct {
	tasks   []domain.GeneratedTask
	sink    EventSink
	tracker *Tracker
	newID   func() string
}

// NewSession creates a Session over a copy of tasks.
func NewSession(tasks []domain.GeneratedTask, sink EventSink) *Session {
	return &Session{
		tasks:   append([]domain.GeneratedTask(nil), tasks...),
		sink:    sink,
		tracker: NewTracker(),
		newID:   uuid.NewString,
	}
}

// Tasks returns the batch in its original order.
func (s *Session) Tasks() []domain.GeneratedTask {
	return append([]domain.GeneratedTask(nil), s.tasks...)
}

func (s *Session) Tracker() *Tracker {
	return s.tracker
}

// Remaining returns how many tasks have not been added yet.
func (s *Session) Remaining() int {
	return len(s.tasks) - len(s.tracker.Added())
}

// AddOne converts and submits the task at index. Positions already added
// fail with ErrAlreadyAdded before anything is converted or submitted; a
// failed add leaves the position eligible for retry.
func (s *Session) AddOne(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.tasks) {
		return fmt.Errorf("task %d: %w", index, ErrIndexOutOfRange)
	}
	if err := s.tracker.claim(index); err != nil {
		return err
	}
	if err := s.submit(ctx, index); err != nil {
		s.tracker.settle(nil, []int{index})
		return err
	}
	s.tracker.settle([]int{index}, nil)
	return nil
}

// AddAll attempts every remaining task concurrently. Each attempt is
// independent; per-task failures are aggregated into the result and never
// stop sibling attempts.
func (s *Session) AddAll(ctx context.Context) (BulkResult, error) {
	if err := ctx.Err(); err != nil {
		return BulkResult{}, err
	}

	indices := s.tracker.claimRemaining(len(s.tasks))
	if len(indices) == 0 {
		return BulkResult{NothingToDo: true}, nil
	}

	errs := make([]error, len(indices))
	var g errgroup.Group
	g.SetLimit(maxConcurrentAdds)
	for slot, index := range indices {
		g.Go(func() error {
			errs[slot] = s.submit(ctx, index)
			return nil
		})
	}
	_ = g.Wait()

	var result BulkResult
	var succeeded, failed []int
	for slot, index := range indices {
		if err := errs[slot]; err != nil {
			failed = append(failed, index)
			result.Failures = append(result.Failures, TaskFailure{
				Index: index,
				Title: s.tasks[index].Title,
				Err:   err,
			})
			continue
		}
		succeeded = append(succeeded, index)
	}
	s.tracker.settle(succeeded, failed)

	result.Added = len(succeeded)
	result.Failed = len(failed)
	return result, nil
}

func (s *Session) submit(ctx context.Context, index int) error {
	task := s.tasks[index]
	event, err := ToEvent(task, s.newID())
	if err != nil {
		return fmt.Errorf("task %d %q: %w", index, task.Title, err)
	}
	if err := s.sink.Add(ctx, event); err != nil {
		return fmt.Errorf("task %d %q: %w", index, task.Title, err)
	}
	return nil
}
