package panel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rusenback/botmon/internal/model"
)

func TestMemorySink_KeepsOrder(t *testing.T) {
	s := NewMemorySink()
	for _, text := range []string{"a", "b", "c"} {
		s.Append(model.LogEntry{Timestamp: fixedTime, Text: text})
	}

	got := texts(s.Entries())
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("Expected a,b,c got %v", got)
	}

	// Entries returns a copy
	entries := s.Entries()
	entries[0].Text = "changed"
	if s.Entries()[0].Text != "a" {
		t.Error("Expected sink contents to be unaffected by caller mutation")
	}
}

func TestWriterSink_Plain(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf, "[dialog] ", false)

	s.Append(model.LogEntry{Timestamp: fixedTime, Text: "User: hello", Kind: model.KindDialog, Category: model.CategoryUser})

	want := "[dialog] 2024-01-15T10:30:45.123Z - User: hello\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestSinkFunc(t *testing.T) {
	var got []model.LogEntry
	var s Sink = SinkFunc(func(e model.LogEntry) { got = append(got, e) })

	s.Append(model.LogEntry{Text: "x"})
	if len(got) != 1 || got[0].Text != "x" {
		t.Errorf("Unexpected entries %v", got)
	}
}

func TestStyleFor(t *testing.T) {
	if _, ok := StyleFor(model.CategoryOther); ok {
		t.Error("Expected other lines to be unstyled")
	}
	if _, ok := StyleFor(model.CategoryUser); !ok {
		t.Error("Expected user lines to be styled")
	}
	if _, ok := StyleFor(model.CategoryBot); !ok {
		t.Error("Expected bot lines to be styled")
	}

	other := model.LogEntry{Timestamp: fixedTime, Text: "Bot ready"}
	if RenderLine(other) != other.Line() {
		t.Errorf("Expected unstyled line %q, got %q", other.Line(), RenderLine(other))
	}
}
