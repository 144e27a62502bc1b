package rtvi

// Event names a notification emitted by the client.
type Event string

// Payload types per event:
//
//	EventTransportStateChanged  model.TransportState
//	EventBotConnected           *model.Participant (may be nil)
//	EventBotDisconnected        *model.Participant (may be nil)
//	EventTrackStarted           model.TrackEvent
//	EventTrackStopped           model.TrackEvent
//	EventBotReady               model.BotReadyData
//	EventUserTranscript         model.TranscriptData
//	EventBotTranscript          model.BotTranscriptData
const (
	EventTransportStateChanged Event = "transport-state-changed"
	EventBotConnected          Event = "bot-connected"
	EventBotDisconnected       Event = "bot-disconnected"
	EventTrackStarted          Event = "track-started"
	EventTrackStopped          Event = "track-stopped"
	EventBotReady              Event = "bot-ready"
	EventUserTranscript        Event = "user-transcript"
	EventBotTranscript         Event = "bot-transcript"
)

// Events lists every event the client emits, in a stable order.
var Events = []Event{
	EventTransportStateChanged,
	EventBotConnected,
	EventBotDisconnected,
	EventTrackStarted,
	EventTrackStopped,
	EventBotReady,
	EventUserTranscript,
	EventBotTranscript,
}

// Handler receives the payload of an event.
type Handler func(payload any)
