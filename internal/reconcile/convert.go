package reconcile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

// ErrInvalidStartTime indicates a task's start time could not be read as an
// instant. Only that task fails.
var ErrInvalidStartTime = errors.New("invalid start time")

// DefaultDuration applies when a task's duration is missing or unreadable.
const DefaultDuration = time.Hour

// Layouts accepted for zone-less start times, interpreted in local time.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ToEvent converts a generated task into a new, not yet completed event
// with the given id.
func ToEvent(task domain.GeneratedTask, id string) (domain.CalendarEvent, error) {
	start, err := parseStart(task.StartTime)
	if err != nil {
		return domain.CalendarEvent{}, err
	}
	end := start.Add(parseDuration(task.Duration))

	color := task.Color
	if color == "" {
		color = domain.DefaultEventColor
	}

	return domain.CalendarEvent{
		ID:          id,
		Title:       task.Title,
		Description: task.Description,
		StartTime:   domain.FormatEventTime(start),
		EndTime:     domain.FormatEventTime(end),
		Color:       color,
		IsCompleted: false,
	}, nil
}

func parseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStartTime, s)
}

// parseDuration reads "HH:MM" from the first two colon-separated fields.
// Anything it cannot read as a positive span becomes DefaultDuration.
func parseDuration(s string) time.Duration {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return DefaultDuration
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return DefaultDuration
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return DefaultDuration
	}
	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if d <= 0 {
		return DefaultDuration
	}
	return d
}
