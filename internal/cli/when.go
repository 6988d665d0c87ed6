package cli

import (
	"fmt"
	"strings"
	"time"
)

var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseWhen reads a user-supplied instant. Zone-less values are in now's
// location. A bare clock time ("07:30") means its next occurrence.
func parseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	loc := now.Location()
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if clock, err := time.ParseInLocation("15:04", s, loc); err == nil {
		y, m, d := now.Date()
		t := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc)
		if t.Before(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot read time %q (try \"2025-06-01 09:00\" or \"09:00\")", s)
}

// hhmm renders d as the HH:MM duration form used by generated tasks.
func hhmm(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
