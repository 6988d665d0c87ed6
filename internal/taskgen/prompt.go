package taskgen

import (
	"fmt"
	"time"
)

// PromptTimeLayout renders the current instant the way a person would say it,
// e.g. "Saturday, April 26, 2025 at 10:06 PM EDT".
const PromptTimeLayout = "Monday, January 2, 2006 at 3:04 PM MST"

// Record labels. These strings are the contract with the model: the parser
// only recognises records that use them.
const (
	LabelTitle       = "Title"
	LabelDescription = "Description"
	LabelStartTime   = "Start Time"
	LabelDuration    = "Duration"
	LabelColor       = "Color"
)

const promptTemplate = `Please design a series of events to accomplish a defined goal. Assume the current date and time is %s.

Each event must be formatted exactly like this, with a blank line between events:
%s: [Event Title]
%s: [Event Description]
%s: [YYYY-MM-DDTHH:mm:ss.sssZ format]
%s: [hh:mm format]
%s: [A valid hex color code like #RRGGBB or a common color name like blue, green, purple]

Here is the user's goal: %s

Provide realistic times and durations. Ensure Start Time is in ISO 8601 format and considers the current date/time mentioned above if the goal is relative (e.g., "plan my afternoon").`

// BuildPrompt returns the instruction sent to the model for goal. It is a
// pure function of its inputs.
func BuildPrompt(goal string, now time.Time) string {
	return fmt.Sprintf(promptTemplate,
		now.Format(PromptTimeLayout),
		LabelTitle, LabelDescription, LabelStartTime, LabelDuration, LabelColor,
		goal,
	)
}
