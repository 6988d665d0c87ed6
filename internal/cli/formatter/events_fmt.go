package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/reconcile"
)

// FormatEvents renders the active and completed event lists.
func FormatEvents(active, completed []domain.CalendarEvent, now time.Time) string {
	var b strings.Builder

	if len(active) == 0 {
		b.WriteString(Dim("No upcoming events.") + "\n")
	} else {
		b.WriteString(RenderTable(eventHeaders, eventRows(active, now)))
	}
	if len(completed) > 0 {
		b.WriteString("\n" + Header("Completed") + "\n")
		b.WriteString(RenderTable(eventHeaders, eventRows(completed, now)))
	}

	return RenderBox("Events", strings.TrimRight(b.String(), "\n"))
}

var eventHeaders = []string{"ID", "", "TITLE", "WHEN", "LENGTH"}

func eventRows(events []domain.CalendarEvent, now time.Time) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		title := Bold(e.Title)
		if e.IsCompleted {
			title = Dim(e.Title)
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			Swatch(e.EffectiveColor()),
			title,
			When(e.Start(), now),
			Span(e.Start(), e.End()),
		})
	}
	return rows
}

// FormatTasks renders a generated batch with each task's added state.
func FormatTasks(tasks []domain.GeneratedTask, isAdded func(int) bool) string {
	if len(tasks) == 0 {
		return RenderBox("Generated tasks", Dim("The assistant suggested no tasks for this goal."))
	}

	headers := []string{"#", "", "TITLE", "START", "DURATION", "STATUS"}
	rows := make([][]string, 0, len(tasks))
	added := 0
	for i, t := range tasks {
		ok := isAdded != nil && isAdded(i)
		if ok {
			added++
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Swatch(t.Color),
			Bold(t.Title),
			t.StartTime,
			t.Duration,
			AddedIndicator(ok),
		})
	}

	body := RenderTable(headers, rows) + "\n" + RenderProgress(added, len(tasks), 20)
	return RenderBox("Generated tasks", body)
}

// FormatTaskDetail renders the description of a single generated task.
func FormatTaskDetail(t domain.GeneratedTask) string {
	var b strings.Builder
	b.WriteString(Bold(t.Title) + "\n")
	if t.Description != "" {
		b.WriteString(StyleFg.Render(t.Description) + "\n")
	}
	b.WriteString(Dim(fmt.Sprintf("%s for %s", t.StartTime, t.Duration)))
	return b.String()
}

// FormatBulkResult summarises an add-all run.
func FormatBulkResult(r reconcile.BulkResult) string {
	if r.NothingToDo {
		return StyleBlue.Render("All generated tasks have already been added.")
	}

	var lines []string
	if r.Added > 0 {
		lines = append(lines, StyleGreen.Render(fmt.Sprintf("%d task(s) added successfully.", r.Added)))
	}
	if r.Failed > 0 {
		lines = append(lines, StyleRed.Render(fmt.Sprintf("%d task(s) could not be added.", r.Failed)))
		for _, f := range r.Failures {
			lines = append(lines, Dim(fmt.Sprintf("  #%d %s: %v", f.Index+1, f.Title, f.Err)))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatAlarms renders the alarm list.
func FormatAlarms(alarms []domain.Alarm, now time.Time) string {
	if len(alarms) == 0 {
		return RenderBox("Alarms", Dim("No alarms set."))
	}

	headers := []string{"ID", "TITLE", "WHEN", "STATE"}
	rows := make([][]string, 0, len(alarms))
	for _, a := range alarms {
		at, _ := a.At()
		rows = append(rows, []string{
			TruncID(a.ID),
			Bold(a.Title),
			When(at, now),
			ActiveIndicator(a.IsActive),
		})
	}
	return RenderBox("Alarms", strings.TrimRight(RenderTable(headers, rows), "\n"))
}

// FormatAlarmFired renders the notification line for a firing alarm.
func FormatAlarmFired(a domain.Alarm) string {
	line := StyleHeader.Render("⏰ "+a.Title)
	if a.Description != "" {
		line += " " + Dim(a.Description)
	}
	return line
}
