package panel

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/botmon/internal/model"
)

// Line colours shared by the TUI and plain output
const (
	UserColor = lipgloss.Color("#2196F3") // blue
	BotColor  = lipgloss.Color("#4CAF50") // green
)

var (
	userLineStyle = lipgloss.NewStyle().Foreground(UserColor)
	botLineStyle  = lipgloss.NewStyle().Foreground(BotColor)
)

// StyleFor returns the style of a category. Other lines are left unstyled.
func StyleFor(c model.Category) (lipgloss.Style, bool) {
	switch c {
	case model.CategoryUser:
		return userLineStyle, true
	case model.CategoryBot:
		return botLineStyle, true
	default:
		return lipgloss.Style{}, false
	}
}

// RenderLine renders an entry's line with its category colour.
func RenderLine(entry model.LogEntry) string {
	line := entry.Line()
	if style, ok := StyleFor(entry.Category); ok {
		return style.Render(line)
	}
	return line
}
