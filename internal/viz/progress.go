package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgressMsg reports simulation progress; send it into the program
// from the runner's progress callback.
type ProgressMsg struct {
	Done  int
	Total int
}

// DoneMsg tells the progress view to exit.
type DoneMsg struct{}

// ProgressModel is a minimal bar-by-bar progress display for long
// runs.
type ProgressModel struct {
	done  int
	total int
	width int
}

// NewProgressModel creates the progress display.
func NewProgressModel() ProgressModel {
	return ProgressModel{width: 80}
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
	case DoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m ProgressModel) View() string {
	if m.total == 0 {
		return mutedStyle.Render("waiting for data...") + "\n"
	}

	barWidth := m.width - 20
	if barWidth < 10 {
		barWidth = 10
	}
	filled := m.done * barWidth / m.total

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Running backtest"))
	sb.WriteString("\n")
	sb.WriteString(successStyle.Render(strings.Repeat("█", filled)))
	sb.WriteString(mutedStyle.Render(strings.Repeat("░", barWidth-filled)))
	sb.WriteString(fmt.Sprintf(" %d/%d bars", m.done, m.total))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("press q to abort"))
	sb.WriteString("\n")
	return sb.String()
}
