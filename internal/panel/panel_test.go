package panel

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rusenback/botmon/internal/model"
	"github.com/rusenback/botmon/internal/rtvi"
)

// fakeSource is a test implementation of rtvi.EventSource
type fakeSource struct {
	*rtvi.Emitter
	tracks     model.Tracks
	trackCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{Emitter: rtvi.NewEmitter()}
}

func (f *fakeSource) Tracks() model.Tracks {
	f.trackCalls++
	return f.tracks
}

var fixedTime = time.Date(2024, 1, 15, 10, 30, 45, 123000000, time.UTC)

func fixedClock() time.Time { return fixedTime }

// setup returns an attached, mounted panel
func setup(t *testing.T) (*fakeSource, *EventLogPanel, *MemorySink, *MemorySink) {
	t.Helper()
	src := newFakeSource()
	p := New(src, WithClock(fixedClock))
	detach := p.Attach()
	t.Cleanup(detach)

	logSink, dialogSink := NewMemorySink(), NewMemorySink()
	p.Mount(logSink, dialogSink)
	return src, p, logSink, dialogSink
}

func texts(entries []model.LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func TestAttach_SubscribesAllEvents(t *testing.T) {
	src := newFakeSource()
	p := New(src)

	detach := p.Attach()
	for _, ev := range rtvi.Events {
		if got := src.Count(ev); got != 1 {
			t.Errorf("%s: expected 1 subscription, got %d", ev, got)
		}
	}

	// attaching again must not double-subscribe
	p.Attach()
	if got := src.Count(rtvi.EventBotReady); got != 1 {
		t.Errorf("Expected 1 subscription after second Attach, got %d", got)
	}

	detach()
	for _, ev := range rtvi.Events {
		if got := src.Count(ev); got != 0 {
			t.Errorf("%s: expected 0 subscriptions after detach, got %d", ev, got)
		}
	}

	// detach is idempotent
	detach()
}

func TestEventsBeforeMount_AreDropped(t *testing.T) {
	src := newFakeSource()
	p := New(src, WithClock(fixedClock))
	defer p.Attach()()

	src.Emit(rtvi.EventTransportStateChanged, model.TransportConnecting)
	src.Emit(rtvi.EventBotReady, model.BotReadyData{})
	src.Emit(rtvi.EventUserTranscript, model.TranscriptData{Text: "hello", Final: true})
	src.Emit(rtvi.EventBotTranscript, model.BotTranscriptData{Text: "hi"})

	if p.Mounted() {
		t.Fatal("Expected panel to be unmounted")
	}
	if src.trackCalls != 0 {
		t.Errorf("Expected no track query while unmounted, got %d", src.trackCalls)
	}

	logSink, dialogSink := NewMemorySink(), NewMemorySink()
	p.Mount(logSink, dialogSink)
	if logSink.Len() != 0 || dialogSink.Len() != 0 {
		t.Errorf("Expected empty sinks, got log=%d dialog=%d", logSink.Len(), dialogSink.Len())
	}
}

func TestHalfMounted_WritesNothing(t *testing.T) {
	src := newFakeSource()
	p := New(src)
	defer p.Attach()()

	logSink := NewMemorySink()
	p.Mount(logSink, nil)

	src.Emit(rtvi.EventTransportStateChanged, model.TransportConnected)
	if logSink.Len() != 0 {
		t.Errorf("Expected no log lines while dialog sink is missing, got %d", logSink.Len())
	}
}

func TestUnmount_StopsWriting(t *testing.T) {
	src, p, logSink, _ := setup(t)

	src.Emit(rtvi.EventTransportStateChanged, model.TransportConnected)
	p.Unmount()
	src.Emit(rtvi.EventTransportStateChanged, model.TransportDisconnected)

	if got := logSink.Len(); got != 1 {
		t.Errorf("Expected 1 line, got %d", got)
	}
}

func TestDetach_StopsWriting(t *testing.T) {
	src, p, logSink, _ := setup(t)

	p.Detach()
	src.Emit(rtvi.EventTransportStateChanged, model.TransportConnected)

	if got := logSink.Len(); got != 0 {
		t.Errorf("Expected no lines after detach, got %d", got)
	}
}

func TestTransportStateChanged(t *testing.T) {
	src, _, logSink, dialogSink := setup(t)

	src.Emit(rtvi.EventTransportStateChanged, model.TransportConnected)

	entries := logSink.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log line, got %d", len(entries))
	}
	e := entries[0]
	if e.Text != "Transport state changed: connected" {
		t.Errorf("Unexpected text %q", e.Text)
	}
	if e.Kind != model.KindLog || e.Category != model.CategoryOther {
		t.Errorf("Unexpected kind/category %v/%v", e.Kind, e.Category)
	}
	if !e.Timestamp.Equal(fixedTime) {
		t.Errorf("Expected timestamp %v, got %v", fixedTime, e.Timestamp)
	}
	if got := e.Line(); got != "2024-01-15T10:30:45.123Z - Transport state changed: connected" {
		t.Errorf("Unexpected line %q", got)
	}
	if dialogSink.Len() != 0 {
		t.Errorf("Expected empty dialog, got %d", dialogSink.Len())
	}
}

func TestBotConnectedAndDisconnected(t *testing.T) {
	src, _, logSink, _ := setup(t)

	src.Emit(rtvi.EventBotConnected, &model.Participant{ID: "b1", Name: "bot"})
	src.Emit(rtvi.EventBotDisconnected, (*model.Participant)(nil))
	src.Emit(rtvi.EventBotDisconnected, nil)

	want := []string{
		`Bot connected: {"id":"b1","name":"bot","local":false}`,
		"Bot disconnected: null",
		"Bot disconnected: null",
	}
	got := texts(logSink.Entries())
	if len(got) != len(want) {
		t.Fatalf("Expected %d lines, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestTrackEvents(t *testing.T) {
	tests := []struct {
		name  string
		event rtvi.Event
		ev    model.TrackEvent
		want  string
	}{
		{
			name:  "started with participant",
			event: rtvi.EventTrackStarted,
			ev:    model.TrackEvent{Track: model.Track{Kind: "audio"}, Participant: &model.Participant{Name: "Alice"}},
			want:  "Track started: audio from Alice",
		},
		{
			name:  "started without participant",
			event: rtvi.EventTrackStarted,
			ev:    model.TrackEvent{Track: model.Track{Kind: "audio"}},
			want:  "Track started: audio from unknown",
		},
		{
			name:  "started with nameless participant",
			event: rtvi.EventTrackStarted,
			ev:    model.TrackEvent{Track: model.Track{Kind: "video"}, Participant: &model.Participant{ID: "p1"}},
			want:  "Track started: video from unknown",
		},
		{
			name:  "stopped",
			event: rtvi.EventTrackStopped,
			ev:    model.TrackEvent{Track: model.Track{Kind: "video"}, Participant: &model.Participant{Name: "Bob"}},
			want:  "Track stopped: video from Bob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, _, logSink, _ := setup(t)
			src.Emit(tt.event, tt.ev)

			got := texts(logSink.Entries())
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Expected [%q], got %q", tt.want, got)
			}
		})
	}
}

func TestBotReady_LogsTrackSummary(t *testing.T) {
	src, _, logSink, dialogSink := setup(t)
	src.tracks = model.Tracks{
		Local: model.MediaTracks{Audio: &model.Track{Kind: "audio"}},
		Bot:   &model.MediaTracks{Audio: &model.Track{Kind: "audio"}, Video: &model.Track{Kind: "video"}},
	}

	src.Emit(rtvi.EventBotReady, model.BotReadyData{Version: "0.3.0"})

	got := texts(logSink.Entries())
	want := []string{
		"Bot ready",
		`Available tracks: {"local":{"audio":true,"video":false},"bot":{"audio":true,"video":true}}`,
	}
	if len(got) != 2 {
		t.Fatalf("Expected exactly 2 lines, got %d: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if src.trackCalls != 1 {
		t.Errorf("Expected 1 Tracks call, got %d", src.trackCalls)
	}
	if dialogSink.Len() != 0 {
		t.Errorf("Expected empty dialog, got %d", dialogSink.Len())
	}
}

func TestBotReady_NoBotTracks(t *testing.T) {
	src, _, logSink, _ := setup(t)

	src.Emit(rtvi.EventBotReady, model.BotReadyData{})

	entries := logSink.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(entries))
	}
	want := `Available tracks: {"local":{"audio":false,"video":false},"bot":{"audio":false,"video":false}}`
	if entries[1].Text != want {
		t.Errorf("Expected %q, got %q", want, entries[1].Text)
	}
}

func TestUserTranscript_OnlyFinal(t *testing.T) {
	src, _, logSink, dialogSink := setup(t)

	src.Emit(rtvi.EventUserTranscript, model.TranscriptData{Text: "hel", Final: false})
	if logSink.Len() != 0 || dialogSink.Len() != 0 {
		t.Fatalf("Expected nothing for interim transcript, got log=%d dialog=%d", logSink.Len(), dialogSink.Len())
	}

	src.Emit(rtvi.EventUserTranscript, model.TranscriptData{Text: "hello", Final: true})

	entries := dialogSink.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 dialog line, got %d", len(entries))
	}
	if !strings.HasSuffix(entries[0].Line(), "User: hello") {
		t.Errorf("Unexpected line %q", entries[0].Line())
	}
	if entries[0].Category != model.CategoryUser || entries[0].Kind != model.KindDialog {
		t.Errorf("Unexpected kind/category %v/%v", entries[0].Kind, entries[0].Category)
	}
	if logSink.Len() != 0 {
		t.Errorf("Expected empty log, got %d", logSink.Len())
	}
}

func TestBotTranscript_Unconditional(t *testing.T) {
	src, _, _, dialogSink := setup(t)

	src.Emit(rtvi.EventBotTranscript, model.BotTranscriptData{Text: "hi there"})

	entries := dialogSink.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 dialog line, got %d", len(entries))
	}
	if !strings.HasSuffix(entries[0].Line(), "Bot: hi there") {
		t.Errorf("Unexpected line %q", entries[0].Line())
	}
	if entries[0].Category != model.CategoryBot {
		t.Errorf("Expected bot category, got %v", entries[0].Category)
	}
}

func TestCategory_NotInferredFromText(t *testing.T) {
	src, _, _, dialogSink := setup(t)

	// a bot saying something that looks like a user line is still a bot line
	src.Emit(rtvi.EventBotTranscript, model.BotTranscriptData{Text: "User: pretend"})

	entries := dialogSink.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(entries))
	}
	if entries[0].Category != model.CategoryBot {
		t.Errorf("Expected bot category, got %v", entries[0].Category)
	}
}

func TestSameEventTwice_TwoLines(t *testing.T) {
	src, _, logSink, _ := setup(t)

	ev := model.TrackEvent{Track: model.Track{Kind: "audio"}, Participant: &model.Participant{Name: "Alice"}}
	src.Emit(rtvi.EventTrackStarted, ev)
	src.Emit(rtvi.EventTrackStarted, ev)

	entries := logSink.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(entries))
	}
	if entries[0].Line() != entries[1].Line() {
		t.Errorf("Expected identical lines, got %q and %q", entries[0].Line(), entries[1].Line())
	}
}

func TestWrongPayload_DoesNotPanic(t *testing.T) {
	src, _, logSink, dialogSink := setup(t)

	tests := []struct {
		event   rtvi.Event
		payload any
	}{
		{rtvi.EventTransportStateChanged, "connected"},
		{rtvi.EventTransportStateChanged, nil},
		{rtvi.EventBotConnected, model.Participant{Name: "bot"}},
		{rtvi.EventBotDisconnected, "bot"},
		{rtvi.EventTrackStarted, &model.TrackEvent{Track: model.Track{Kind: "audio"}}},
		{rtvi.EventTrackStopped, nil},
		{rtvi.EventBotReady, "ready"},
		{rtvi.EventUserTranscript, "not a transcript"},
		{rtvi.EventBotTranscript, 42},
	}
	for _, tt := range tests {
		src.Emit(tt.event, tt.payload)
	}

	if logSink.Len() != 0 || dialogSink.Len() != 0 {
		t.Errorf("Expected no lines, got log=%v dialog=%v", texts(logSink.Entries()), texts(dialogSink.Entries()))
	}
	if src.trackCalls != 0 {
		t.Errorf("Expected no track query for a bad bot-ready payload, got %d", src.trackCalls)
	}
}

func TestNilParticipantPayloads_AreValid(t *testing.T) {
	src, _, logSink, _ := setup(t)

	src.Emit(rtvi.EventBotConnected, nil)
	src.Emit(rtvi.EventBotDisconnected, (*model.Participant)(nil))
	src.Emit(rtvi.EventBotReady, nil)

	got := texts(logSink.Entries())
	want := []string{"Bot connected: null", "Bot disconnected: null", "Bot ready"}
	if len(got) < len(want) {
		t.Fatalf("Expected at least %v, got %v", want, got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("line %d: expected %q, got %q", i, w, got[i])
		}
	}
}

// blockingSink holds the first Append until released
type blockingSink struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	*MemorySink
}

func (s *blockingSink) Append(entry model.LogEntry) {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	s.MemorySink.Append(entry)
}

func TestUnmount_WaitsForInFlightLine(t *testing.T) {
	src := newFakeSource()
	p := New(src, WithClock(fixedClock))
	defer p.Attach()()

	logSink := &blockingSink{
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
		MemorySink: NewMemorySink(),
	}
	p.Mount(logSink, NewMemorySink())

	go src.Emit(rtvi.EventTransportStateChanged, model.TransportConnected)
	<-logSink.entered

	unmounted := make(chan struct{})
	go func() {
		p.Unmount()
		close(unmounted)
	}()

	select {
	case <-unmounted:
		t.Fatal("Unmount returned while a line was being appended")
	case <-time.After(50 * time.Millisecond):
	}

	close(logSink.release)
	select {
	case <-unmounted:
	case <-time.After(5 * time.Second):
		t.Fatal("Unmount did not return")
	}

	src.Emit(rtvi.EventTransportStateChanged, model.TransportDisconnected)
	if got := logSink.Len(); got != 1 {
		t.Errorf("Expected only the in-flight line, got %d", got)
	}
}
