package taskgen

import (
	"strings"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

const fieldSeparator = ": "

// Parse recovers task records from a model reply in a single pass.
//
// Records are blocks of "Label: value" lines separated by blank lines. A
// record is emitted only when all five fields are set; anything else is
// dropped without error. Within a record the last value for a label wins.
// Lines without a separator and unknown labels are ignored.
func Parse(responseText string) []domain.GeneratedTask {
	var tasks []domain.GeneratedTask
	var acc domain.GeneratedTask

	flush := func() {
		if acc.Complete() {
			tasks = append(tasks, acc)
		}
		acc = domain.GeneratedTask{}
	}

	for _, raw := range strings.Split(responseText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}

		key, value, ok := strings.Cut(line, fieldSeparator)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "title":
			acc.Title = value
		case "description":
			acc.Description = value
		case "start time":
			acc.StartTime = value
		case "duration":
			acc.Duration = value
		case "color":
			acc.Color = firstToken(value)
		}
	}
	flush()

	return tasks
}

// firstToken drops trailing commentary such as "purple and energetic".
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
