package teatest

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type doneMsg struct{}

// busyModel starts a spinner and a piece of work on enter.
type busyModel struct {
	spinner spinner.Model
	busy    bool
	ticks   int
	done    int
}

func (m busyModel) Init() tea.Cmd { return nil }

func (m busyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.busy = true
			return m, tea.Batch(func() tea.Msg { return doneMsg{} }, m.spinner.Tick)
		case "q":
			return m, tea.Quit
		}
	case doneMsg:
		m.busy = false
		m.done++
	case spinner.TickMsg:
		m.ticks++
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m busyModel) View() string { return m.spinner.View() }

func TestDriver_DrainsWorkAndDropsSpinnerTicks(t *testing.T) {
	d := New(t, busyModel{spinner: spinner.New()}, WithCmdTimeout(time.Second))

	d.PressEnter()

	m := d.Model.(busyModel)
	assert.Equal(t, 1, m.done)
	assert.False(t, m.busy)
	assert.Zero(t, m.ticks)
	assert.Len(t, d.Messages, 1)
}

func TestDriver_DetectsQuit(t *testing.T) {
	d := New(t, busyModel{spinner: spinner.New()})

	d.PressKey('q')
	d.PressEnter()

	assert.True(t, d.Quitting)
	assert.Zero(t, d.Model.(busyModel).done)
}
