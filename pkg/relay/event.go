package relay

import "context"

// EventType discriminates the events a relay emits to its sink.
type EventType string

const (
	// EventMessage carries a batch of assistant message text.
	EventMessage EventType = "message"

	// EventStatus carries a status update from the toolset server
	// (e.g. "searching the web", "running sandbox").
	EventStatus EventType = "status"

	// EventCitation carries a source citation attached to the answer.
	EventCitation EventType = "citation"
)

// Event is a single relay emission. It is immutable once constructed; the
// relay never retains or mutates an event after handing it to the sink.
type Event struct {
	// Type discriminates which payload field is meaningful.
	Type EventType `json:"type"`

	// Content is the message text. Set only for EventMessage.
	Content string `json:"content,omitempty"`

	// Data is the status or citation payload as received from the server.
	// Set only for EventStatus and EventCitation; never nil for those.
	Data map[string]any `json:"data,omitempty"`
}

// NewMessage returns a message event carrying batched token text.
func NewMessage(content string) *Event {
	return &Event{Type: EventMessage, Content: content}
}

// NewStatus returns a status event. A nil payload becomes an empty map so
// sinks never see a nil Data field.
func NewStatus(data map[string]any) *Event {
	if data == nil {
		data = map[string]any{}
	}
	return &Event{Type: EventStatus, Data: data}
}

// NewCitation returns a citation event. A nil payload becomes an empty map.
func NewCitation(data map[string]any) *Event {
	if data == nil {
		data = map[string]any{}
	}
	return &Event{Type: EventCitation, Data: data}
}

// Sink receives relay events. Implementations are invoked sequentially from a
// single relay invocation; Emit must not be assumed goroutine-safe across
// relays. Returning an error aborts the stream.
type Sink interface {
	Emit(ctx context.Context, ev *Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, ev *Event) error

// Emit calls f(ctx, ev).
func (f SinkFunc) Emit(ctx context.Context, ev *Event) error {
	return f(ctx, ev)
}
