package gateway

import (
	"github.com/opentoolset/relay/pkg/eventstream"
)

// Config is the gateway server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// Publisher receives a chat event per relayed exchange.
	// If nil, event publishing is disabled via a no-op publisher.
	Publisher eventstream.Publisher

	// NumWorkers is the size of the async publish pool. Zero means default.
	NumWorkers uint

	// QueueSize is the publish queue capacity. Zero means default.
	QueueSize uint
}
