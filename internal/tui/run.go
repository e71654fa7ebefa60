// Package tui renders live progress for an orchestration run.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hirewise/crew/pkg/models"
)

// TrailMsg delivers one collaboration message to the view.
type TrailMsg struct {
	Message models.CollaborationMessage
}

// DoneMsg signals that the run finished.
type DoneMsg struct {
	Err error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#96E6A1"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857"))
	mergeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#45B7D1")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

const maxVisibleLines = 14

// RunModel is the bubbletea model showing a run's progress feed.
type RunModel struct {
	spinner  spinner.Model
	request  string
	lines    []string
	tokens   int64
	done     bool
	err      error
	quitting bool
}

// NewRunModel creates a model for the given request text.
func NewRunModel(request string) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8E53"))
	return RunModel{spinner: s, request: request}
}

// NewRunProgram wraps the model in a tea.Program.
func NewRunProgram(request string) *tea.Program {
	return tea.NewProgram(NewRunModel(request))
}

// Init starts the spinner tick.
func (m RunModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles spinner ticks, trail messages, completion, and keys.
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.done {
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, nil

	case TrailMsg:
		m.tokens += msg.Message.TokensUsed
		if line := renderLine(msg.Message); line != "" {
			m.lines = append(m.lines, line)
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress feed.
func (m RunModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("crew") + " " + dimStyle.Render(truncate(m.request, 70)) + "\n\n")

	lines := m.lines
	if len(lines) > maxVisibleLines {
		lines = lines[len(lines)-maxVisibleLines:]
	}
	for _, line := range lines {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(warnStyle.Render(fmt.Sprintf("run failed: %v", m.err)) + "\n")
		b.WriteString(footerStyle.Render("press q to exit"))
	case m.done:
		b.WriteString(okStyle.Render(fmt.Sprintf("done (%d tokens)", m.tokens)) + "\n")
		b.WriteString(footerStyle.Render("press enter to see the answer"))
	default:
		b.WriteString(m.spinner.View() + dimStyle.Render(" working..."))
	}
	b.WriteString("\n")

	return b.String()
}

// renderLine reframes a trail message as a one-line progress note.
// Contribution and synthesis bodies are long; only their arrival is shown.
func renderLine(m models.CollaborationMessage) string {
	switch m.Kind {
	case models.KindStatus:
		return dimStyle.Render("• " + m.Content)
	case models.KindContribution:
		return okStyle.Render(fmt.Sprintf("✓ %s contributed (%d tokens)", m.From, m.TokensUsed))
	case models.KindDiscussion:
		return warnStyle.Render(fmt.Sprintf("↪ %s responded to %s", m.From, m.To))
	case models.KindSynthesis:
		return mergeStyle.Render("✦ supervisor merged the team's work")
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
