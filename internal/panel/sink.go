package panel

import (
	"fmt"
	"io"
	"sync"

	"github.com/rusenback/botmon/internal/logger"
	"github.com/rusenback/botmon/internal/model"
)

// Sink is an append-only view the panel writes entries to.
type Sink interface {
	Append(entry model.LogEntry)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(entry model.LogEntry)

func (f SinkFunc) Append(entry model.LogEntry) { f(entry) }

// MemorySink keeps every entry in arrival order. It never drops or
// rewrites entries.
type MemorySink struct {
	mu      sync.RWMutex
	entries []model.LogEntry
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(entry model.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Entries returns a copy of the entries so far.
func (s *MemorySink) Entries() []model.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// WriterSink writes one line per entry to w, optionally prefixed by a tag
// naming the pane ("[log] ", "[dialog] ").
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	color  bool
}

// NewWriterSink creates a sink writing to w. With color set, lines are
// styled by category.
func NewWriterSink(w io.Writer, prefix string, color bool) *WriterSink {
	return &WriterSink{w: w, prefix: prefix, color: color}
}

func (s *WriterSink) Append(entry model.LogEntry) {
	line := entry.Line()
	if s.color {
		line = RenderLine(entry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, s.prefix+line); err != nil {
		logger.Warn("write entry", "kind", entry.Kind.String(), "err", err)
	}
}
