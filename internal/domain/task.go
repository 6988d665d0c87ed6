package domain

// GeneratedTask is one event proposal recovered from a language model reply.
// StartTime and Duration are kept exactly as the model wrote them; they are
// only interpreted when the task is turned into a CalendarEvent.
type GeneratedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	Duration    string `json:"duration"`
	Color       string `json:"color"`
}

// Complete reports whether every field is non-empty.
func (t GeneratedTask) Complete() bool {
	return t.Title != "" &&
		t.Description != "" &&
		t.StartTime != "" &&
		t.Duration != "" &&
		t.Color != ""
}
