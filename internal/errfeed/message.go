package errfeed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/muurk/smartap-inspector/internal/eventbus"
)

// Message types on the wire.
const (
	TypeSetErrors = "setErrors" // client -> server
	TypeShowEntry = "showEntry" // client -> server
	TypeCommit    = "commit"    // server -> clients
	TypeAck       = "ack"       // server -> client
	TypeError     = "error"     // server -> client
)

var (
	// ErrUnknownType is returned for a message type clients may not send.
	ErrUnknownType = errors.New("unknown message type")

	// ErrMissingID is returned for a showEntry message without an id.
	ErrMissingID = errors.New("showEntry requires an id")
)

// Message is the JSON envelope for every frame.
type Message struct {
	Type   string            `json:"type"`
	Errors map[string]string `json:"errors,omitempty"`
	ID     string            `json:"id,omitempty"`
	Value  any               `json:"value,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Signal is a decoded client message ready to fire on a panel event bus.
type Signal struct {
	Event   string
	Payload any
}

// Decode parses a client frame into a bus signal.
func Decode(data []byte) (Signal, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Signal{}, fmt.Errorf("invalid message: %w", err)
	}

	switch msg.Type {
	case TypeSetErrors:
		// A message without errors clears them.
		errs := msg.Errors
		if errs == nil {
			errs = map[string]string{}
		}
		return Signal{
			Event:   eventbus.SetErrorsEvent,
			Payload: eventbus.SetErrors{Errors: errs},
		}, nil

	case TypeShowEntry:
		if msg.ID == "" {
			return Signal{}, ErrMissingID
		}
		return Signal{
			Event:   eventbus.ShowEntryEvent,
			Payload: eventbus.ShowEntry{ID: msg.ID},
		}, nil
	}

	return Signal{}, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
}

// CommitMessage builds the notification sent to clients when an entry
// commits a value.
func CommitMessage(entryID string, value any) Message {
	return Message{Type: TypeCommit, ID: entryID, Value: value}
}
