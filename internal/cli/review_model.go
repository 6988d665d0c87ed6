package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/plannersmart/internal/cli/formatter"
	"github.com/alexanderramin/plannersmart/internal/reconcile"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type reviewKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	AddAll key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultReviewKeys() reviewKeyMap {
	return reviewKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add to calendar")),
		AddAll: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add all")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "done")),
	}
}

func (k reviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.AddAll, k.Help, k.Quit}
}

func (k reviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Add, k.AddAll}, {k.Help, k.Quit}}
}

// taskAddedMsg reports the outcome of adding one task.
type taskAddedMsg struct {
	index int
	err   error
}

// allAddedMsg reports the outcome of an add-all run.
type allAddedMsg struct {
	result reconcile.BulkResult
	err    error
}

// reviewModel lists a generated batch and adds tasks to the calendar on
// request. Added tasks stay listed and are marked as added.
type reviewModel struct {
	ctx     context.Context
	session *reconcile.Session
	keys    reviewKeyMap
	help    help.Model
	spinner spinner.Model

	cursor   int
	busy     bool
	notice   string
	failed   map[int]error
	quitting bool
}

func newReviewModel(ctx context.Context, session *reconcile.Session) reviewModel {
	return reviewModel{
		ctx:     ctx,
		session: session,
		keys:    defaultReviewKeys(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		failed:  make(map[int]error),
	}
}

func (m reviewModel) Init() tea.Cmd { return nil }

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tasks := m.session.Tasks()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case taskAddedMsg:
		m.busy = false
		title := tasks[msg.index].Title
		switch {
		case errors.Is(msg.err, reconcile.ErrAlreadyAdded):
			m.notice = formatter.StyleBlue.Render(fmt.Sprintf("Task %q is already on your calendar.", title))
		case msg.err != nil:
			m.failed[msg.index] = msg.err
			m.notice = formatter.StyleRed.Render(fmt.Sprintf("Failed to add task %q to calendar: %v", title, msg.err))
		default:
			delete(m.failed, msg.index)
			m.notice = formatter.StyleGreen.Render(fmt.Sprintf("Task %q added to calendar!", title))
		}
		return m, nil

	case allAddedMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = formatter.StyleRed.Render(msg.err.Error())
			return m, nil
		}
		for _, i := range m.session.Tracker().Added() {
			delete(m.failed, i)
		}
		for _, f := range msg.result.Failures {
			m.failed[f.Index] = f.Err
		}
		m.notice = formatter.FormatBulkResult(msg.result)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Add):
			if m.busy || len(tasks) == 0 {
				return m, nil
			}
			if m.session.Tracker().IsAdded(m.cursor) {
				m.notice = formatter.StyleBlue.Render(fmt.Sprintf("Task %q is already on your calendar.", tasks[m.cursor].Title))
				return m, nil
			}
			m.busy = true
			m.notice = ""
			return m, tea.Batch(m.addOne(m.cursor), m.spinner.Tick)
		case key.Matches(msg, m.keys.AddAll):
			if m.busy {
				return m, nil
			}
			if m.session.Remaining() == 0 {
				m.notice = formatter.FormatBulkResult(reconcile.BulkResult{NothingToDo: true})
				return m, nil
			}
			m.busy = true
			m.notice = ""
			return m, tea.Batch(m.addAll(), m.spinner.Tick)
		}
	}

	return m, nil
}

func (m reviewModel) addOne(index int) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return taskAddedMsg{index: index, err: session.AddOne(ctx, index)}
	}
}

func (m reviewModel) addAll() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		res, err := session.AddAll(ctx)
		return allAddedMsg{result: res, err: err}
	}
}

func (m reviewModel) View() string {
	if m.quitting {
		return ""
	}

	tasks := m.session.Tasks()
	tracker := m.session.Tracker()

	var b strings.Builder
	b.WriteString(formatter.Header("Generated tasks") + "\n\n")

	for i, t := range tasks {
		cursor := "  "
		title := formatter.StyleFg.Render(t.Title)
		if i == m.cursor {
			cursor = formatter.StyleHeader.Render("› ")
			title = formatter.Bold(t.Title)
		}

		state := formatter.AddedIndicator(tracker.IsAdded(i))
		if _, ok := m.failed[i]; ok {
			state = formatter.StyleRed.Render("✖ failed")
		}

		fmt.Fprintf(&b, "%s%s %s  %s  %s\n", cursor, formatter.Swatch(t.Color), title,
			formatter.Dim(t.StartTime+" · "+t.Duration), state)
	}

	if len(tasks) > 0 {
		b.WriteString("\n" + formatter.FormatTaskDetail(tasks[m.cursor]) + "\n")
	}
	b.WriteString("\n" + formatter.RenderProgress(len(tracker.Added()), len(tasks), 20) + "\n")

	if m.busy {
		b.WriteString(m.spinner.View() + " " + formatter.Dim("Adding to calendar...") + "\n")
	}
	if m.notice != "" {
		b.WriteString(m.notice + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
