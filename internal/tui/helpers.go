package tui

import "fmt"

// truncate shortens a string to a maximum length
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// paneStatus renders the line count and scroll mode next to a pane title
func paneStatus(lines int, autoScroll bool) string {
	mode := "paused"
	if autoScroll {
		mode = "follow"
	}
	return fmt.Sprintf("(%d lines, %s)", lines, mode)
}

// paneHeights splits the space between the two panes
func (m Model) paneHeights() (logHeight, dialogHeight int) {
	// header and help take one row each
	avail := m.height - 2
	if avail < 6 {
		avail = 6
	}
	logHeight = int(float64(avail) * m.opts.LogRatio)
	if logHeight < 3 {
		logHeight = 3
	}
	dialogHeight = avail - logHeight
	if dialogHeight < 3 {
		dialogHeight = 3
	}
	return logHeight, dialogHeight
}

// resize propagates the terminal size to the viewports. Border takes two
// rows and columns, the pane title one row.
func (m *Model) resize() {
	logHeight, dialogHeight := m.paneHeights()
	innerWidth := m.width - 2
	m.logPane.setSize(innerWidth, logHeight-3)
	m.dialogPane.setSize(innerWidth, dialogHeight-3)
}
