package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeChatRelayed is emitted after a chat stream has been relayed
	// to completion, successfully or not.
	EventTypeChatRelayed = "relay.chat.relayed"
)

// ChatRelayedEvent is a transport-neutral event payload describing one
// relayed chat exchange.
type ChatRelayedEvent struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	Source        EventSource     `json:"source"`
	RequestMeta   ChatRequestMeta `json:"request_meta"`
	Counts        ChatEventCounts `json:"counts"`
	Error         string          `json:"error,omitempty"`
}

// EventSource identifies where the chat originated.
type EventSource struct {
	Instance  string `json:"instance,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}

// ChatRequestMeta captures request lifecycle metadata for the event.
type ChatRequestMeta struct {
	Path        string    `json:"path,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
	Streaming   bool      `json:"streaming"`
	HTTPStatus  int       `json:"http_status"`
}

// ChatEventCounts tallies the callback events delivered during the relay.
type ChatEventCounts struct {
	Messages  int `json:"messages"`
	Statuses  int `json:"statuses"`
	Citations int `json:"citations"`
}

// NewChatRelayedEvent stamps a fresh event with its type, schema version,
// a unique ID, and the emission time.
func NewChatRelayedEvent() *ChatRelayedEvent {
	return &ChatRelayedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeChatRelayed,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
	}
}
