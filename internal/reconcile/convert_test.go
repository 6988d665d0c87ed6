package reconcile

import (
	"testing"
	"time"

	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEvent(t *testing.T) {
	task := domain.GeneratedTask{
		Title:       "Plan trip",
		Description: "Research flights",
		StartTime:   "2025-06-01T09:00:00.000Z",
		Duration:    "01:30",
		Color:       "blue",
	}

	e, err := ToEvent(task, "evt-1")

	require.NoError(t, err)
	assert.Equal(t, domain.CalendarEvent{
		ID:          "evt-1",
		Title:       "Plan trip",
		Description: "Research flights",
		StartTime:   "2025-06-01T09:00:00.000Z",
		EndTime:     "2025-06-01T10:30:00.000Z",
		Color:       "blue",
	}, e)
}

func TestToEvent_OffsetNormalisedToUTC(t *testing.T) {
	task := testutil.NewTestTask("Call", time.Time{})
	task.StartTime = "2025-06-01T09:00:00+02:00"
	task.Duration = "00:20"

	e, err := ToEvent(task, "x")

	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T07:00:00.000Z", e.StartTime)
	assert.Equal(t, "2025-06-01T07:20:00.000Z", e.EndTime)
}

func TestToEvent_LocalTimeWithoutZone(t *testing.T) {
	task := testutil.NewTestTask("Lunch", time.Time{})
	task.StartTime = "2025-06-01T12:00"

	e, err := ToEvent(task, "x")

	require.NoError(t, err)
	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	assert.True(t, want.Equal(e.Start()), "got %s", e.StartTime)
}

func TestToEvent_InvalidStartTime(t *testing.T) {
	for _, start := range []string{"tomorrow morning", "", "2025-13-45T99:00:00Z"} {
		task := testutil.NewTestTask("Bad", time.Time{})
		task.StartTime = start

		_, err := ToEvent(task, "x")

		assert.ErrorIs(t, err, ErrInvalidStartTime, "start %q", start)
	}
}

func TestToEvent_DefaultColor(t *testing.T) {
	task := testutil.NewTestTask("Plain", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	task.Color = ""

	e, err := ToEvent(task, "x")

	require.NoError(t, err)
	assert.Equal(t, "#7c3aed", e.Color)
}

func TestToEvent_BadDurationFallsBackToOneHour(t *testing.T) {
	task := testutil.NewTestTask("Gym", time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	task.Duration = "bad"

	e, err := ToEvent(task, "x")

	require.NoError(t, err)
	assert.Equal(t, time.Hour, e.End().Sub(e.Start()))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"01:30", 90 * time.Minute},
		{"00:45", 45 * time.Minute},
		{"2:05", 2*time.Hour + 5*time.Minute},
		{" 01 : 15 ", 75 * time.Minute},
		{"01:30:59", 90 * time.Minute},
		{"10:00", 10 * time.Hour},
		{"bad", time.Hour},
		{"", time.Hour},
		{"90", time.Hour},
		{"1h30m", time.Hour},
		{"aa:30", time.Hour},
		{"01:bb", time.Hour},
		{"00:00", time.Hour},
		{"-1:00", time.Hour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDuration(tt.in), "duration %q", tt.in)
	}
}

func TestToEvent_EndAfterStart(t *testing.T) {
	for _, d := range []string{"00:01", "bad", "00:00", "-5:00", "23:59"} {
		task := testutil.NewTestTask("T", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
		task.Duration = d

		e, err := ToEvent(task, "x")

		require.NoError(t, err)
		assert.True(t, e.End().After(e.Start()), "duration %q", d)
	}
}
