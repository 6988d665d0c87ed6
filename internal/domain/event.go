package domain

import "time"

// DefaultEventColor is used when an event is stored without a color.
const DefaultEventColor = "#7c3aed"

// EventTimeLayout is the ISO-8601 form used for event start and end instants.
const EventTimeLayout = "2006-01-02T15:04:05.000Z07:00"

type CalendarEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Color       string `json:"color,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
}

// FormatEventTime renders t in UTC with millisecond precision.
func FormatEventTime(t time.Time) string {
	return t.UTC().Format(EventTimeLayout)
}

// Start parses StartTime. The zero time is returned for malformed values.
func (e CalendarEvent) Start() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.StartTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// End parses EndTime. The zero time is returned for malformed values.
func (e CalendarEvent) End() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.EndTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// EffectiveColor returns Color, or DefaultEventColor when unset.
func (e CalendarEvent) EffectiveColor() string {
	if e.Color == "" {
		return DefaultEventColor
	}
	return e.Color
}
