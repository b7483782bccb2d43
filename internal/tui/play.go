// Package tui is the terminal front-end for a play session.
//
// The model never mutates game state itself: keys become session actions,
// and timer events from the session arrive as messages through a relay
// channel, after which the model re-reads the session view.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/mathflash/internal/game"
)

const maxInput = 9

// eventMsg carries a timer-driven session transition into Update.
type eventMsg game.EventKind

// Relay returns a session listener and the channel it feeds.
// Events are dropped when the channel is full; the model re-reads the view anyway.
func Relay() (game.Listener, <-chan game.EventKind) {
	ch := make(chan game.EventKind, 16)
	return func(kind game.EventKind, _ game.View) {
		select {
		case ch <- kind:
		default:
		}
	}, ch
}

// Result is what the finished model reports back to the caller.
type Result struct {
	Snapshot game.Snapshot
	Recorded bool
	Err      error
}

// Model is the Bubble Tea model of one play session.
type Model struct {
	sess   *game.Session
	events <-chan game.EventKind
	stop   chan struct{} // closed on quit; releases a pending waitForEvent

	view   game.View
	input  string
	status string
	result Result
	done   bool
}

// NewModel wraps a started session. events is the channel returned by Relay
// for the listener the session was started with; it may be nil.
func NewModel(sess *game.Session, events <-chan game.EventKind) Model {
	return Model{sess: sess, events: events, stop: make(chan struct{}), view: sess.View()}
}

// Result returns the outcome once the model has quit.
func (m Model) Result() Result { return m.result }

func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch, stop := m.events, m.stop
	return func() tea.Msg {
		select {
		case kind, ok := <-ch:
			if !ok {
				return nil
			}
			return eventMsg(kind)
		case <-stop:
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if m.done {
			return m, nil
		}
		m.view = m.sess.View()
		if game.EventKind(msg) == game.EventAdvance {
			m.status = ""
		}
		return m, m.waitForEvent()

	case tea.KeyMsg:
		if m.done {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch key := msg.String(); key {
	case "ctrl+c", "esc", "q":
		snap, recorded, err := m.sess.End(context.Background())
		m.result = Result{Snapshot: snap, Recorded: recorded, Err: err}
		m.view = m.sess.View()
		m.done = true
		close(m.stop)
		return m, tea.Quit
	case "enter":
		m.view, err = m.sess.SubmitAnswer(m.input)
		if err == nil && m.view.Feedback.Kind != game.FeedbackValidation {
			m.input = ""
		}
	case "backspace":
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
		return m, nil
	case "tab":
		m.view = m.sess.ToggleStats()
	case "p":
		if m.view.Paused {
			m.view, err = m.sess.Resume()
		} else {
			m.view, err = m.sess.Pause()
		}
	case "s":
		m.view, err = m.sess.Skip()
		m.input = ""
	default:
		if len(key) == 1 && len(m.input) < maxInput && (key[0] >= '0' && key[0] <= '9' || key == "-" && m.input == "") {
			m.input += key
		}
		return m, nil
	}
	m.status = ""
	if err != nil {
		m.status = err.Error()
	}
	return m, nil
}

func (m Model) View() string {
	v := m.view
	var b strings.Builder

	b.WriteString(Banner.Render(v.Mission))
	b.WriteString("\n")
	b.WriteString(Equation.Render(v.Equation))
	b.WriteString("\n")

	prompt := "> " + m.input
	if !m.done {
		prompt += "_"
	}
	b.WriteString(prompt)
	b.WriteString("\n")

	if v.Feedback.Visible {
		b.WriteString(feedbackStyle(v.Feedback.Kind).Render(v.Feedback.Message))
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(Warning.Render(m.status))
	}
	b.WriteString("\n")

	if v.StatsVisible {
		b.WriteString(RenderStats(v))
		b.WriteString("\n")
	}
	b.WriteString(Muted.Render("enter submit · s skip · p pause · tab stats · q quit"))
	return Pane.Render(b.String()) + "\n"
}

// RenderStats formats the stats panel of v.
func RenderStats(v game.View) string {
	cells := []string{
		fmt.Sprintf("Streak %d", v.Streak),
		fmt.Sprintf("Accuracy %d%%", v.Accuracy),
		fmt.Sprintf("Time %s", v.Elapsed),
	}
	line := strings.Join(cells, "   ")
	if v.Paused {
		line += "   " + Warning.Render("PAUSED")
	}
	return lipgloss.NewStyle().Foreground(Text).Render(line)
}

func feedbackStyle(kind game.FeedbackKind) lipgloss.Style {
	switch kind {
	case game.FeedbackSuccess:
		return Success
	case game.FeedbackError:
		return Failure
	default:
		return Warning
	}
}
