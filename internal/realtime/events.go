package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/softpunk/emberfell/internal/model"
)

// Envelope is the wire framing for every synchronization channel message
type Envelope struct {
	Type    model.EventType `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EncodeEvent marshals an event type and payload into wire bytes
func EncodeEvent(eventType model.EventType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", eventType, err)
	}
	return json.Marshal(Envelope{Type: eventType, Payload: raw})
}

// DecodeEnvelope parses wire bytes into an envelope, leaving the payload raw
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("envelope missing type")
	}
	return env, nil
}

// errInvalidJoin rejects join requests without a player id
var errInvalidJoin = fmt.Errorf("join requires a player id")

// Error codes surfaced on the channel's error event
const (
	ErrorCodeDuplicateIdentity = "DUPLICATE_IDENTITY"
	ErrorCodeAlreadyBound      = "ALREADY_BOUND"
	ErrorCodeSessionClosed     = "SESSION_CLOSED"
	ErrorCodeInvalidJoin       = "INVALID_JOIN"
)
