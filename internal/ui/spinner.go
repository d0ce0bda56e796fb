// spinner.go shows a spinner while a long-running call is in flight.
package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type spinDoneMsg struct {
	err error
}

type spinModel struct {
	spinner spinner.Model
	label   string
	work    tea.Cmd
	err     error
	done    bool
}

func newSpinModel(label string, work tea.Cmd) spinModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColor))),
	)

	return spinModel{
		spinner: s,
		label:   label,
		work:    work,
	}
}

func (m spinModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case spinDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m spinModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// RunWithSpinner runs work while displaying a spinner with the given label.
// The spinner exits when work returns; cancelling ctx tears both down.
func RunWithSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	workCmd := func() tea.Msg {
		return spinDoneMsg{err: work(ctx)}
	}

	p := tea.NewProgram(
		newSpinModel(label, workCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(spinModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
