package tui

import (
	"github.com/rusenback/botmon/internal/logger"
	"github.com/rusenback/botmon/internal/model"
	"github.com/rusenback/botmon/internal/panel"
)

// chanSink hands entries to the bubbletea loop. Both panes share one
// channel so the loop sees entries in the order they were produced.
type chanSink struct {
	entries chan<- model.LogEntry
	done    <-chan struct{}
}

var _ panel.Sink = chanSink{}

func (s chanSink) Append(entry model.LogEntry) {
	select {
	case s.entries <- entry:
	case <-s.done:
		logger.Debug("tui stopped, entry dropped", "kind", entry.Kind.String())
	}
}

// mount attaches the panel to this model's panes
func (m *Model) mount() {
	if m.mounted || m.panel == nil {
		return
	}
	sink := chanSink{entries: m.entries, done: m.done}
	m.panel.Mount(sink, sink)
	m.mounted = true
	logger.Debug("panel mounted", "width", m.width, "height", m.height)
	if m.opts.OnMount != nil {
		m.opts.OnMount()
	}
}
