// internal/rtvi/messages.go
package rtvi

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rusenback/botmon/internal/model"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	// MessageLabel marks frames that belong to the RTVI protocol
	MessageLabel = "rtvi-ai"
	// ProtocolVersion is announced in client-ready
	ProtocolVersion = "0.3.0"
)

// Server message types
const (
	msgBotReady          = "bot-ready"
	msgUserTranscription = "user-transcription"
	msgBotTranscription  = "bot-transcription"
	msgBotConnected      = "bot-connected"
	msgBotDisconnected   = "bot-disconnected"
	msgTrackStarted      = "track-started"
	msgTrackStopped      = "track-stopped"
	msgError             = "error"
)

// frame is a decoded server message
type frame struct {
	Type string
	ID   string
	Data gjson.Result
}

// parseFrame decodes a raw websocket message. ok is false for frames that do
// not carry the RTVI label; err is set for invalid JSON.
func parseFrame(raw []byte) (f frame, ok bool, err error) {
	if !gjson.ValidBytes(raw) {
		return frame{}, false, fmt.Errorf("invalid frame: %.64q", raw)
	}
	res := gjson.GetManyBytes(raw, "label", "type", "id", "data")
	if res[0].String() != MessageLabel {
		return frame{}, false, nil
	}
	return frame{
		Type: res[1].String(),
		ID:   res[2].String(),
		Data: res[3],
	}, true, nil
}

// clientReadyMessage builds the message sent right after connecting
func clientReadyMessage() ([]byte, error) {
	msg := []byte(`{}`)
	var err error
	for _, kv := range []struct {
		path  string
		value any
	}{
		{"label", MessageLabel},
		{"type", "client-ready"},
		{"id", uuid.NewString()},
		{"data.version", ProtocolVersion},
	} {
		msg, err = sjson.SetBytes(msg, kv.path, kv.value)
		if err != nil {
			return nil, fmt.Errorf("build client-ready: %w", err)
		}
	}
	return msg, nil
}

// decodeInto unmarshals a gjson value into v. Missing values leave v untouched.
func decodeInto(r gjson.Result, v any) error {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return json.Unmarshal([]byte(r.Raw), v)
}

// decodeParticipant returns nil when the participant is absent
func decodeParticipant(r gjson.Result) (*model.Participant, error) {
	if !r.Exists() || r.Type == gjson.Null || !r.IsObject() {
		return nil, nil
	}
	var p model.Participant
	if err := json.Unmarshal([]byte(r.Raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// decodeTrackEvent reads {"track": {...}, "participant": {...}}
func decodeTrackEvent(data gjson.Result) (model.TrackEvent, error) {
	var ev model.TrackEvent
	if err := decodeInto(data.Get("track"), &ev.Track); err != nil {
		return ev, err
	}
	p, err := decodeParticipant(data.Get("participant"))
	if err != nil {
		return ev, err
	}
	ev.Participant = p
	return ev, nil
}
