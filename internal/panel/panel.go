// Package panel turns client events into timestamped lines for two panes:
// the operational log and the dialog transcript.
package panel

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rusenback/botmon/internal/logger"
	"github.com/rusenback/botmon/internal/model"
	"github.com/rusenback/botmon/internal/rtvi"
)

const unknownParticipant = "unknown"

// Option configures an EventLogPanel.
type Option func(*EventLogPanel)

// WithClock replaces time.Now as the source of entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *EventLogPanel) { p.now = now }
}

// EventLogPanel observes an event source and appends one line per event to
// the log or dialog sink. Lines are only written while both sinks are
// mounted; otherwise the event is dropped for both.
type EventLogPanel struct {
	source rtvi.EventSource
	now    func() time.Time

	mu     sync.Mutex
	unsubs []func()

	sinkMu     sync.RWMutex
	logSink    Sink
	dialogSink Sink
}

// New creates a panel for source. It does not subscribe until Attach.
func New(source rtvi.EventSource, opts ...Option) *EventLogPanel {
	p := &EventLogPanel{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attach subscribes to every event the panel renders and returns the func
// releasing those subscriptions. Attaching twice keeps the first set.
func (p *EventLogPanel) Attach() (detach func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unsubs != nil {
		return p.Detach
	}

	handlers := p.handlers()
	p.unsubs = make([]func(), 0, len(handlers))
	for _, ev := range rtvi.Events {
		if h, ok := handlers[ev]; ok {
			p.unsubs = append(p.unsubs, p.source.Subscribe(ev, h))
		}
	}
	return p.Detach
}

// Detach releases all subscriptions taken by Attach.
func (p *EventLogPanel) Detach() {
	p.mu.Lock()
	unsubs := p.unsubs
	p.unsubs = nil
	p.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// Mount attaches the views lines are written to. A nil sink leaves the
// panel unmounted. Mount waits for a line being appended to finish, so
// sinks must not call back into the panel.
func (p *EventLogPanel) Mount(log, dialog Sink) {
	p.sinkMu.Lock()
	defer p.sinkMu.Unlock()
	p.logSink = log
	p.dialogSink = dialog
}

// Unmount detaches both views. Events arriving afterwards are dropped.
func (p *EventLogPanel) Unmount() {
	p.Mount(nil, nil)
}

// Mounted reports whether both sinks are available.
func (p *EventLogPanel) Mounted() bool {
	p.sinkMu.RLock()
	defer p.sinkMu.RUnlock()
	return p.logSink != nil && p.dialogSink != nil
}

func (p *EventLogPanel) handlers() map[rtvi.Event]rtvi.Handler {
	return map[rtvi.Event]rtvi.Handler{
		rtvi.EventTransportStateChanged: func(payload any) {
			state, ok := payload.(model.TransportState)
			if !ok {
				unexpectedPayload(rtvi.EventTransportStateChanged, payload)
				return
			}
			p.OnTransportStateChanged(state)
		},
		rtvi.EventBotConnected: func(payload any) {
			participant, ok := participantPayload(payload)
			if !ok {
				unexpectedPayload(rtvi.EventBotConnected, payload)
				return
			}
			p.OnBotConnected(participant)
		},
		rtvi.EventBotDisconnected: func(payload any) {
			participant, ok := participantPayload(payload)
			if !ok {
				unexpectedPayload(rtvi.EventBotDisconnected, payload)
				return
			}
			p.OnBotDisconnected(participant)
		},
		rtvi.EventTrackStarted: func(payload any) {
			ev, ok := payload.(model.TrackEvent)
			if !ok {
				unexpectedPayload(rtvi.EventTrackStarted, payload)
				return
			}
			p.OnTrackStarted(ev.Track, ev.Participant)
		},
		rtvi.EventTrackStopped: func(payload any) {
			ev, ok := payload.(model.TrackEvent)
			if !ok {
				unexpectedPayload(rtvi.EventTrackStopped, payload)
				return
			}
			p.OnTrackStopped(ev.Track, ev.Participant)
		},
		rtvi.EventBotReady: func(payload any) {
			if _, ok := payload.(model.BotReadyData); !ok && payload != nil {
				unexpectedPayload(rtvi.EventBotReady, payload)
				return
			}
			p.OnBotReady()
		},
		rtvi.EventUserTranscript: func(payload any) {
			data, ok := payload.(model.TranscriptData)
			if !ok {
				unexpectedPayload(rtvi.EventUserTranscript, payload)
				return
			}
			p.OnUserTranscript(data)
		},
		rtvi.EventBotTranscript: func(payload any) {
			data, ok := payload.(model.BotTranscriptData)
			if !ok {
				unexpectedPayload(rtvi.EventBotTranscript, payload)
				return
			}
			p.OnBotTranscript(data)
		},
	}
}

// participantPayload accepts a participant or no participant at all
func participantPayload(payload any) (*model.Participant, bool) {
	if payload == nil {
		return nil, true
	}
	participant, ok := payload.(*model.Participant)
	return participant, ok
}

func unexpectedPayload(event rtvi.Event, payload any) {
	logger.Warn("unexpected payload", "event", string(event), "type", fmt.Sprintf("%T", payload))
}

func (p *EventLogPanel) OnTransportStateChanged(state model.TransportState) {
	p.log(model.KindLog, model.CategoryOther, "Transport state changed: %s", state)
}

func (p *EventLogPanel) OnBotConnected(participant *model.Participant) {
	p.log(model.KindLog, model.CategoryOther, "Bot connected: %s", toJSON(participant))
}

func (p *EventLogPanel) OnBotDisconnected(participant *model.Participant) {
	p.log(model.KindLog, model.CategoryOther, "Bot disconnected: %s", toJSON(participant))
}

func (p *EventLogPanel) OnTrackStarted(track model.Track, participant *model.Participant) {
	p.log(model.KindLog, model.CategoryOther, "Track started: %s from %s", track.Kind, participantName(participant))
}

func (p *EventLogPanel) OnTrackStopped(track model.Track, participant *model.Participant) {
	p.log(model.KindLog, model.CategoryOther, "Track stopped: %s from %s", track.Kind, participantName(participant))
}

// OnBotReady writes "Bot ready" followed by the track availability summary.
// The client is only asked for its tracks while mounted.
func (p *EventLogPanel) OnBotReady() {
	p.log(model.KindLog, model.CategoryOther, "Bot ready")
	if p.source == nil {
		return
	}
	p.write(model.KindLog, model.CategoryOther, func() string {
		return "Available tracks: " + toJSON(summarize(p.source.Tracks()))
	})
}

// OnUserTranscript only records final transcripts.
func (p *EventLogPanel) OnUserTranscript(data model.TranscriptData) {
	if !data.Final {
		return
	}
	p.log(model.KindDialog, model.CategoryUser, "User: %s", data.Text)
}

// OnBotTranscript records every bot transcript; bot text carries no
// finality flag.
func (p *EventLogPanel) OnBotTranscript(data model.BotTranscriptData) {
	p.log(model.KindDialog, model.CategoryBot, "Bot: %s", data.Text)
}

func (p *EventLogPanel) log(kind model.Kind, category model.Category, format string, args ...any) {
	p.write(kind, category, func() string { return fmt.Sprintf(format, args...) })
}

// write builds the line only once the mount gate has passed. The read lock
// is held while appending, so no line lands after Mount or Unmount returns.
func (p *EventLogPanel) write(kind model.Kind, category model.Category, text func() string) {
	p.sinkMu.RLock()
	defer p.sinkMu.RUnlock()

	if p.logSink == nil || p.dialogSink == nil {
		return
	}

	entry := model.LogEntry{
		Timestamp: p.now().UTC(),
		Text:      text(),
		Kind:      kind,
		Category:  category,
	}
	if kind == model.KindDialog {
		p.dialogSink.Append(entry)
		return
	}
	p.logSink.Append(entry)
}

func participantName(p *model.Participant) string {
	if p == nil || p.Name == "" {
		return unknownParticipant
	}
	return p.Name
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
