package llm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogObserver_WritesCallLine(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)

	obs.OnCallComplete(LLMCallEvent{Model: "gemini-1.5-flash", Attempts: 2, LatencyMs: 12, Success: false, ErrorCode: "QUOTA"})

	out := buf.String()
	assert.Contains(t, out, "msg=llm_call")
	assert.Contains(t, out, "model=gemini-1.5-flash")
	assert.Contains(t, out, "attempts=2")
	assert.Contains(t, out, "status=err:QUOTA")
	assert.Contains(t, out, "level=WARN")
}
