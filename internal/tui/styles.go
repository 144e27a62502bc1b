package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/botmon/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B4BEFE"))

	urlStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8"))

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#CBA6F7")).
			Padding(0, 1)

	paneStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	readyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585B70"))

	focusedPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#89B4FA"))
)

// stateStyle colours the transport state in the header
func stateStyle(s model.TransportState) lipgloss.Style {
	switch s {
	case model.TransportConnected, model.TransportReady:
		return readyStyle
	case model.TransportError:
		return errorStyle
	default:
		return pendingStyle
	}
}
