// Package live provides a client for bidirectional speech sessions with a
// generative model. The voice bridge owns exactly one Session per
// connection and consumes its inbound events in arrival order.
package live

import "context"

type EventType string

const (
	// EventInputTranscript carries recognized text of the user's speech.
	EventInputTranscript EventType = "input-transcript"
	// EventOutputTranscript carries the transcript of model speech.
	EventOutputTranscript EventType = "output-transcript"
	// EventAudio carries one synthesized audio chunk.
	EventAudio EventType = "audio"
	// EventInterrupted signals the model was cut off by user speech.
	EventInterrupted EventType = "interrupted"
	// EventTurnComplete signals the user's spoken turn finished; Text holds
	// the accumulated input transcript for the turn.
	EventTurnComplete EventType = "turn-complete"
	// EventGenerationComplete signals the model finished speaking.
	EventGenerationComplete EventType = "generation-complete"
	// EventError carries a session failure; the session is unusable after.
	EventError EventType = "error"
	// EventClosed is the terminal event before the channel closes.
	EventClosed EventType = "closed"
)

type Event struct {
	Type     EventType
	Text     string
	Audio    []byte
	MimeType string
	Err      error
}

// Session is one live duplex speech session. Implementations must make
// Close idempotent and safe to call concurrently with Send calls; after
// Close the event channel is drained and closed.
type Session interface {
	// SendAudio forwards one raw audio frame to the model.
	SendAudio(data []byte, mimeType string) error

	// SendText injects a text turn for the model to speak.
	SendText(text string) error

	// Events returns the inbound event stream. The channel is closed
	// after EventClosed.
	Events() <-chan Event

	// Close tears the session down. Safe to call from any state, any
	// number of times.
	Close() error
}

// Config describes how to open a session.
type Config struct {
	Endpoint          string
	APIKey            string
	Model             string
	Voice             string
	SystemInstruction string
}

// Dialer opens live sessions. The production implementation speaks the
// Gemini Live protocol; tests substitute a fake.
type Dialer interface {
	Dial(ctx context.Context, cfg Config) (Session, error)
}
