package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Width returns the terminal width of f, or fallback when f is not a
// terminal.
func Width(f *os.File, fallback int) int {
	if !IsTerminal(f) {
		return fallback
	}
	w, _, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// taskDoneMsg is sent when the background task returns.
type taskDoneMsg struct {
	err error
}

// taskModel shows a spinner and a label while a task runs.
type taskModel struct {
	label   string
	spinner spinner.Model
	done    bool
	err     error
}

func newTaskModel(label string) taskModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)
	return taskModel{label: label, spinner: s}
}

func (m taskModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m taskModel) View() string {
	if m.done {
		// The caller prints the outcome.
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// RunTask runs fn while a spinner labelled label is shown on out. When out is
// not a terminal fn runs without any UI. The spinner never reads input or
// handles signals; cancellation is the caller's job through fn's context.
func RunTask(out *os.File, label string, fn func() error) error {
	if out == nil || !IsTerminal(out) {
		return fn()
	}
	return runTask(out, label, fn)
}

func runTask(out io.Writer, label string, fn func() error) error {
	p := tea.NewProgram(newTaskModel(label),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	result := make(chan error, 1)
	go func() {
		err := fn()
		result <- err
		p.Send(taskDoneMsg{err: err})
	}()

	// A failing UI must not hide the task's own result.
	_, _ = p.Run()
	return <-result
}
