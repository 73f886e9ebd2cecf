package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct{}

type waitModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func (m waitModel) Init() tea.Cmd { return m.spinner.Tick }

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(doneMsg); ok {
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + SpinnerStyle.Render(label(m.label))
}

func label(s string) string {
	if s == "" {
		return "Thinking..."
	}
	return s
}

// Wait runs fn while a spinner animates on out. The spinner only draws on a
// terminal; otherwise the label is printed once. Input is never read, so the
// console keeps ownership of stdin.
func Wait[T any](out io.Writer, text string, fn func() (T, error)) (T, error) {
	if !IsTerminal(out) {
		io.WriteString(out, SpinnerStyle.Render(label(text))+"\n")
		return fn()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle
	p := tea.NewProgram(waitModel{spinner: sp, label: text}, tea.WithOutput(out), tea.WithInput(nil))

	var (
		result T
		err    error
	)
	finished := make(chan struct{})
	go func() {
		result, err = fn()
		close(finished)
		p.Send(doneMsg{})
	}()
	// a failed program only loses the animation; the call still has to finish
	_, _ = p.Run()
	<-finished
	return result, err
}
