package model

// Participant is a member of the session as reported by the transport
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Local bool   `json:"local"`
}

// Track is a media track published by a participant
type Track struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // "audio" or "video"
}

// TrackEvent carries a started/stopped track and its owner, if known
type TrackEvent struct {
	Track       Track
	Participant *Participant
}
