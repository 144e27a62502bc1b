package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const helpText = "[tab] switch pane  [↑/k ↓/j pgup pgdown] scroll  [g/G] top/bottom  [a] follow  [q] quit"

// View renders the TUI interface
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}

	logHeight, dialogHeight := m.paneHeights()

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.logPane.view(m.width, logHeight),
		m.dialogPane.view(m.width, dialogHeight),
		helpStyle.Render(truncate(helpText, m.width)),
	)
}

// renderHeader shows where we are connected and the transport state
func (m Model) renderHeader() string {
	title := titleStyle.Render("🤖 botmon")
	state := stateStyle(m.state).Render(string(m.state))

	url := ""
	if m.opts.URL != "" {
		room := m.width - lipgloss.Width(title) - lipgloss.Width(state) - 4
		url = " " + urlStyle.Render(truncate(m.opts.URL, room))
	}
	return title + url + "  " + state
}
