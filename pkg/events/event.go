package events

import "time"

// Event types emitted by the analyst front-end
const (
	TypeTurnCompleted   = "ANALYST_TURN_COMPLETED"
	TypeTurnFailed      = "ANALYST_TURN_FAILED"
	TypeBookmarkChanged = "BOOKMARK_CHANGED"
	TypeVoteRecorded    = "VOTE_RECORDED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventID is unique per occurrence and used for de-duplication downstream.
	EventID() string

	// EventType returns the unique code for this event (e.g., "VOTE_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventID() string {
	return e.ID
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

// AppID reads the app_id field of a payload, whether it was built in process or decoded from JSON
func AppID(e Event) (int, bool) {
	switch v := e.Payload()["app_id"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
