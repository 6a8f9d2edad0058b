package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ASK_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeAskCompleted  = "ASK_COMPLETED"
	TypeQuizGenerated = "QUIZ_GENERATED"
	TypeUserRegister  = "USER_REGISTER"
)

// NewAskCompleted records one finished pipeline run for downstream
// consumers (usage accounting, analytics).
func NewAskCompleted(userId, subjectId, threadId string, notFound bool, durationMs int64) Event {
	return BaseEvent{
		Type: TypeAskCompleted,
		Data: map[string]interface{}{
			"user_id":     userId,
			"subject_id":  subjectId,
			"thread_id":   threadId,
			"not_found":   notFound,
			"duration_ms": durationMs,
		},
		OccurredAt: time.Now(),
	}
}
