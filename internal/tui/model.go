package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/botmon/internal/model"
	"github.com/rusenback/botmon/internal/panel"
)

const (
	entryBuffer     = 256
	defaultLogRatio = 0.5
)

// Options configures the TUI.
type Options struct {
	URL      string
	LogRatio float64                     // share of the height given to the server log
	State    func() model.TransportState // polled for the header; may be nil
	OnMount  func()                      // called once the panel is mounted; may be nil
}

// Model represents the TUI application state
type Model struct {
	panel *panel.EventLogPanel
	opts  Options

	entries  chan model.LogEntry
	done     chan struct{}
	stopOnce *sync.Once
	mounted  bool

	logPane    *pane
	dialogPane *pane
	focus      model.Kind

	state  model.TransportState
	width  int
	height int
}

// Message types for Bubbletea update loop
type tickMsg time.Time

type entryMsg struct {
	entry model.LogEntry
}

// NewModel creates a TUI for p. The panel is mounted once the terminal
// size is known and unmounted when the program quits.
func NewModel(p *panel.EventLogPanel, opts Options) Model {
	if opts.LogRatio <= 0 || opts.LogRatio >= 1 {
		opts.LogRatio = defaultLogRatio
	}
	m := Model{
		panel:      p,
		opts:       opts,
		entries:    make(chan model.LogEntry, entryBuffer),
		done:       make(chan struct{}),
		stopOnce:   &sync.Once{},
		logPane:    newPane("Server log"),
		dialogPane: newPane("Conversation"),
		focus:      model.KindLog,
		state:      model.TransportDisconnected,
	}
	m.logPane.focused = true
	return m
}

// Init starts the entry pump and the state poll
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEntry(m.entries, m.done), tickCmd())
}

// Stop releases the entry pump and unmounts the panel. Safe to call twice.
func (m Model) Stop() {
	m.stopOnce.Do(func() {
		// a sink blocked on a full buffer must give up before Unmount can wait for it
		close(m.done)
		if m.panel != nil {
			m.panel.Unmount()
		}
	})
}
