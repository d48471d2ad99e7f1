package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunSpinner runs a minimal Bubble Tea spinner while executing the given action.
// Log messages emitted through Logf while the spinner is active replace its
// status line. The UI exits when the action completes and returns the action's
// error.
func RunSpinner(ctx context.Context, title string, action func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logCh := make(chan logEntry, 16)
	setActiveLogChannel(logCh)
	defer clearActiveLogChannel()

	m := newSpinnerModel(ctx, title, logCh, action)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}

type actionDoneMsg struct{ err error }

type spinnerModel struct {
	ctx    context.Context
	title  string
	status string
	spin   spinner.Model
	logCh  chan logEntry
	doneCh chan error
	done   bool
	err    error
	style  lipgloss.Style
}

func newSpinnerModel(ctx context.Context, title string, logCh chan logEntry, action func() error) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := &spinnerModel{
		ctx:    ctx,
		title:  title,
		spin:   s,
		logCh:  logCh,
		doneCh: make(chan error, 1),
		style:  lipgloss.NewStyle().Padding(0, 1),
	}

	// Kick off the action in the background and notify on completion. The
	// buffered channel lets the action finish even if the UI quit early;
	// done and err are only ever touched on the Update goroutine.
	go func() {
		// Small delay for smoother paint before heavy work
		time.Sleep(50 * time.Millisecond)
		m.doneCh <- action()
	}()

	return m
}

func (m *spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForCompletion(m))
}

func waitForCompletion(m *spinnerModel) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return actionDoneMsg{err: m.ctx.Err()}
		case err := <-m.doneCh:
			return actionDoneMsg{err: err}
		case entry := <-m.logCh:
			return entry
		}
	}
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// Allow cancel via keyboard
			m.err = fmt.Errorf("operation canceled")
			return m, tea.Quit
		}
	case actionDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case logEntry:
		m.status = msg.message
		return m, waitForCompletion(m)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return m.style.Render("✗ " + m.title + " (" + m.err.Error() + ")\n")
		}
		return m.style.Render("✓ " + m.title + "\n")
	}
	line := m.title
	if m.status != "" {
		line = m.status
	}
	return m.style.Render(m.spin.View() + " " + line)
}
