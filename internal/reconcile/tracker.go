package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrAlreadyAdded indicates the task at that position already became an event.
	ErrAlreadyAdded = errors.New("task already added")

	// ErrAddInProgress indicates another add for the same position is in flight.
	ErrAddInProgress = errors.New("task add already in progress")

	// ErrIndexOutOfRange indicates a position outside the batch.
	ErrIndexOutOfRange = errors.New("task index out of range")
)

// Tracker records which batch positions have been turned into events.
// Positions are claimed before any conversion or submission so that a
// position can never be submitted twice.
type Tracker struct {
	mu      sync.Mutex
	added   map[int]bool
	pending map[int]bool
}

func NewTracker() *Tracker {
	return &Tracker{
		added:   make(map[int]bool),
		pending: make(map[int]bool),
	}
}

// IsAdded reports whether position i has been added.
func (t *Tracker) IsAdded(i int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.added[i]
}

// Added returns the added positions in ascending order.
func (t *Tracker) Added() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int, 0, len(t.added))
	for i := range t.added {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// claim reserves position i for a single add.
func (t *Tracker) claim(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.added[i]:
		return fmt.Errorf("task %d: %w", i, ErrAlreadyAdded)
	case t.pending[i]:
		return fmt.Errorf("task %d: %w", i, ErrAddInProgress)
	}
	t.pending[i] = true
	return nil
}

// claimRemaining reserves every position in [0, n) that is neither added
// nor in flight, and returns them in ascending order.
func (t *Tracker) claimRemaining(n int) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []int
	for i := 0; i < n; i++ {
		if t.added[i] || t.pending[i] {
			continue
		}
		t.pending[i] = true
		out = append(out, i)
	}
	return out
}

// settle applies the outcome of claimed adds as one state transition:
// succeeded positions become added, failed ones become eligible again.
func (t *Tracker) settle(succeeded, failed []int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, i := range succeeded {
		delete(t.pending, i)
		t.added[i] = true
	}
	for _, i := range failed {
		delete(t.pending, i)
	}
}
