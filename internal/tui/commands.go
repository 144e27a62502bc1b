package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/botmon/internal/model"
)

// tickCmd creates a command that sends a tick message every 500ms
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEntry creates a command that waits for the next entry from the sinks
func waitForEntry(entries <-chan model.LogEntry, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case entry, ok := <-entries:
			if !ok {
				return nil
			}
			return entryMsg{entry: entry}
		case <-done:
			return nil
		}
	}
}
