// Package ical renders calendar events as an iCalendar (RFC 5545) feed.
package ical

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

const productID = "-//plannersmart//Smart Planner//EN"

// Export writes events to w as a single VCALENDAR. Events whose start or end
// cannot be read are skipped and reported in the returned count.
func Export(w io.Writer, events []domain.CalendarEvent) (skipped int, err error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	stamp := time.Now().UTC()
	for _, e := range events {
		start, end := e.Start(), e.End()
		if start.IsZero() || end.IsZero() {
			skipped++
			continue
		}

		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(start.UTC())
		ve.SetEndAt(end.UTC())
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetProperty(ics.ComponentProperty("COLOR"), e.EffectiveColor())
		if e.IsCompleted {
			ve.SetProperty(ics.ComponentPropertyStatus, "COMPLETED")
		} else {
			ve.SetProperty(ics.ComponentPropertyStatus, "CONFIRMED")
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return skipped, fmt.Errorf("writing calendar: %w", err)
	}
	return skipped, nil
}
