package model

// TransportState is the connection state of the client transport
type TransportState string

const (
	TransportDisconnected   TransportState = "disconnected"
	TransportInitializing   TransportState = "initializing"
	TransportInitialized    TransportState = "initialized"
	TransportAuthenticating TransportState = "authenticating"
	TransportConnecting     TransportState = "connecting"
	TransportConnected      TransportState = "connected"
	TransportReady          TransportState = "ready"
	TransportError          TransportState = "error"
)

// TranscriptData is a speech-to-text result for the user
type TranscriptData struct {
	Text      string `json:"text"`
	Final     bool   `json:"final"`
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
}

// BotTranscriptData is text spoken by the bot
type BotTranscriptData struct {
	Text string `json:"text"`
}

// BotReadyData is sent by the bot once its pipeline is running
type BotReadyData struct {
	Version string `json:"version"`
}
