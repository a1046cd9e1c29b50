package eventstream

import "context"

// Publisher publishes chat events to an event stream backend.
type Publisher interface {
	PublishChat(ctx context.Context, event *ChatRelayedEvent) error
	Close() error
}
