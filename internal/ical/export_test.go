package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/testutil"
)

func TestExport_RoundTrip(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	active := *testutil.NewTestEvent("Plan trip", testutil.WithEventID("evt-1"), testutil.WithEventStart(start, 90*time.Minute))
	done := *testutil.NewTestEvent("Pack", testutil.WithEventID("evt-2"), testutil.WithEventColor(""))
	done.IsCompleted = true

	var buf bytes.Buffer
	skipped, err := Export(&buf, []domain.CalendarEvent{active, done})
	require.NoError(t, err)
	assert.Zero(t, skipped)

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "evt-1", first.GetProperty(ics.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "Plan trip", first.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "blue", first.GetProperty(ics.ComponentProperty("COLOR")).Value)
	assert.Equal(t, "CONFIRMED", first.GetProperty(ics.ComponentPropertyStatus).Value)
	gotStart, err := first.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(gotStart))
	gotEnd, err := first.GetEndAt()
	require.NoError(t, err)
	assert.True(t, start.Add(90*time.Minute).Equal(gotEnd))

	second := events[1]
	assert.Equal(t, "COMPLETED", second.GetProperty(ics.ComponentPropertyStatus).Value)
	assert.Equal(t, domain.DefaultEventColor, second.GetProperty(ics.ComponentProperty("COLOR")).Value)
}

func TestExport_SkipsUnreadableTimes(t *testing.T) {
	bad := *testutil.NewTestEvent("Broken")
	bad.StartTime = "someday"

	var buf bytes.Buffer
	skipped, err := Export(&buf, []domain.CalendarEvent{bad})

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.NotContains(t, buf.String(), "BEGIN:VEVENT")
}
