package domain

import "time"

type Alarm struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
	IsActive    bool   `json:"isActive"`
}

// At parses Time. ok is false for malformed values.
func (a Alarm) At() (t time.Time, ok bool) {
	t, err := time.Parse(time.RFC3339Nano, a.Time)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
