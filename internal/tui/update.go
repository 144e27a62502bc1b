package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/botmon/internal/model"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		// the panes exist from here on, so the panel may start writing
		m.mount()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Stop()
			return m, tea.Quit

		case "tab", "shift+tab":
			m.toggleFocus()

		case "up", "k":
			m.focusedPane().scrollUp(1)

		case "down", "j":
			m.focusedPane().scrollDown(1)

		case "pgup":
			m.focusedPane().pageUp()

		case "pgdown":
			m.focusedPane().pageDown()

		case "home", "g":
			m.focusedPane().top()

		case "end", "G":
			m.focusedPane().bottom()

		case "a":
			m.focusedPane().toggleAutoScroll()
		}

	case tickMsg:
		if m.opts.State != nil {
			m.state = m.opts.State()
		}
		return m, tickCmd()

	case entryMsg:
		if msg.entry.Kind == model.KindDialog {
			m.dialogPane.append(msg.entry)
		} else {
			m.logPane.append(msg.entry)
		}
		// Keep waiting for the next entry
		return m, waitForEntry(m.entries, m.done)
	}

	return m, nil
}

func (m *Model) focusedPane() *pane {
	if m.focus == model.KindDialog {
		return m.dialogPane
	}
	return m.logPane
}

func (m *Model) toggleFocus() {
	if m.focus == model.KindLog {
		m.focus = model.KindDialog
	} else {
		m.focus = model.KindLog
	}
	m.logPane.focused = m.focus == model.KindLog
	m.dialogPane.focused = m.focus == model.KindDialog
}
