// Package alarm fires due alarms on a schedule.
package alarm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

const (
	DefaultSchedule = "@every 1m"

	// DefaultWindow is how long after its time an alarm may still fire.
	DefaultWindow = time.Minute
)

// Store lists alarms and persists their deactivation.
type Store interface {
	ListAlarms(ctx context.Context) ([]domain.Alarm, error)
	UpdateAlarm(ctx context.Context, a domain.Alarm) error
}

// NotifyFunc is called once for every alarm that fires.
type NotifyFunc func(a domain.Alarm)

// Watcher checks alarms against the clock. An active alarm fires when
// 0 <= now - time < window, and is deactivated once it has fired.
type Watcher struct {
	store    Store
	notify   NotifyFunc
	logger   *slog.Logger
	schedule string
	window   time.Duration
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// NewWatcher creates a Watcher. An empty schedule uses DefaultSchedule.
func NewWatcher(store Store, notify NotifyFunc, schedule string, logger *slog.Logger) *Watcher {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		store:    store,
		notify:   notify,
		logger:   logger,
		schedule: schedule,
		window:   DefaultWindow,
		now:      time.Now,
	}
}

// Check fires every due alarm and returns the ones that fired. Failing to
// deactivate one alarm does not stop the others.
func (w *Watcher) Check(ctx context.Context) ([]domain.Alarm, error) {
	alarms, err := w.store.ListAlarms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing alarms: %w", err)
	}

	now := w.now()
	var fired []domain.Alarm
	for _, a := range alarms {
		if !a.IsActive {
			continue
		}
		at, ok := a.At()
		if !ok {
			w.logger.Warn("alarm has unreadable time", "alarm_id", a.ID, "time", a.Time)
			continue
		}
		if since := now.Sub(at); since < 0 || since >= w.window {
			continue
		}

		w.notify(a)
		fired = append(fired, a)

		a.IsActive = false
		if err := w.store.UpdateAlarm(ctx, a); err != nil {
			w.logger.Error("deactivating alarm failed", "alarm_id", a.ID, "error", err)
		}
	}
	return fired, nil
}

// Start runs Check once and then on the watcher's cron schedule until Stop
// is called or ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.schedule, func() { w.runCheck(ctx) }); err != nil {
		return fmt.Errorf("alarm schedule %q: %w", w.schedule, err)
	}

	w.runCheck(ctx)

	w.mu.Lock()
	w.cron = c
	w.mu.Unlock()
	c.Start()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

func (w *Watcher) runCheck(ctx context.Context) {
	fired, err := w.Check(ctx)
	if err != nil {
		w.logger.Error("alarm check failed", "error", err)
		return
	}
	if len(fired) > 0 {
		w.logger.Info("alarms fired", "count", len(fired))
	}
}
