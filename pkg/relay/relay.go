// Package relay implements the streaming chat relay at the heart of the
// toolset client: it posts a prepared payload to the toolset server's chat
// endpoint, consumes the SSE response incrementally, and emits typed events
// (message text, status updates, citations) to an injected sink.
//
// Token deltas are batched by a fixed wall-clock window before emission so
// that a response of thousands of frames costs the sink a few dozen calls
// instead of one per token. Structural events (status, citation, stream end)
// force the pending batch out first, so sink ordering always matches frame
// order on the wire.
package relay

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/opentoolset/relay/pkg/logger"
)

const chatPath = "/api/v1/chat"

// Default timeouts, matching the toolset server's expected request profile:
// streamed answers can take minutes, so the end-to-end read window is long
// while connect and write stay tight.
const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultReadTimeout    = 600 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultPoolTimeout    = 30 * time.Second

	// DefaultFlushInterval bounds how long token text may accumulate
	// before an unforced flush to the sink.
	DefaultFlushInterval = 50 * time.Millisecond
)

// Config holds the relay's connection settings.
type Config struct {
	// Endpoint is the toolset server base URL (e.g. "http://localhost:3000").
	// Required.
	Endpoint string

	// APIKey authenticates against the toolset server as a bearer
	// credential. Required.
	APIKey string

	// ConnectTimeout bounds dialing and TLS setup. Defaults to 30s.
	ConnectTimeout time.Duration

	// ReadTimeout bounds the whole exchange including body streaming.
	// Defaults to 600s.
	ReadTimeout time.Duration

	// WriteTimeout bounds the window between finishing the request write
	// and receiving response headers. Defaults to 60s.
	WriteTimeout time.Duration

	// PoolTimeout bounds how long idle upstream connections are kept.
	// Defaults to 30s.
	PoolTimeout time.Duration

	// FlushInterval is the token batching window. Defaults to 50ms.
	FlushInterval time.Duration

	// HTTPClient overrides the default transport. Used by tests.
	HTTPClient *http.Client

	// Logger receives debug-level relay telemetry. Defaults to a nop logger.
	Logger *slog.Logger
}

// Relay performs one streaming chat exchange per Run call. A Relay is safe to
// reuse sequentially; each Run owns its own parse state and response body.
type Relay struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New returns a Relay for the given config, filling unset timeouts with
// defaults. Endpoint and APIKey are validated at Run time so a zero config
// still constructs.
func New(config Config) *Relay {
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = DefaultReadTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}
	if config.PoolTimeout == 0 {
		config.PoolTimeout = DefaultPoolTimeout
	}
	if config.FlushInterval == 0 {
		config.FlushInterval = DefaultFlushInterval
	}

	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}

	client := config.HTTPClient
	if client == nil {
		client = newHTTPClient(config)
	}

	return &Relay{
		config: config,
		client: client,
		logger: log,
	}
}

// newHTTPClient builds the relay's transport from the configured timeouts.
// The client-level timeout is the end-to-end read window; it also cancels
// stalled body reads mid-stream.
func newHTTPClient(config Config) *http.Client {
	dialer := &net.Dialer{Timeout: config.ConnectTimeout}

	return &http.Client{
		Timeout: config.ReadTimeout,
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   config.ConnectTimeout,
			ResponseHeaderTimeout: config.WriteTimeout,
			IdleConnTimeout:       config.PoolTimeout,
			MaxIdleConns:          10,
		},
	}
}

// Run performs exactly one request/response cycle: it posts payload to the
// chat endpoint and relays the SSE response to sink until the [DONE] sentinel,
// end of stream, an error, or cancellation.
//
// Run returns nil on success (including a stream that ends without the
// sentinel) and a *Error otherwise. Events already emitted to the sink before
// a failure are not retracted.
//
// Canceling ctx mid-stream drops any unflushed token text; no partial message
// is emitted on cancellation.
func (r *Relay) Run(ctx context.Context, payload []byte, sink Sink) error {
	if r.config.Endpoint == "" {
		return configError("endpoint is required")
	}
	if r.config.APIKey == "" {
		return configError("api key is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.Endpoint+chatPath, bytes.NewReader(payload))
	if err != nil {
		return classify(err, r.config.Endpoint)
	}
	req.Header.Set("Authorization", "Bearer "+r.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	r.logger.Debug("forwarding chat request",
		"endpoint", r.config.Endpoint,
		"payload_bytes", len(payload),
	)

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return classify(err, r.config.Endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The body is not parsed further; drain a little so the
		// connection can be reused, then report the status.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))
		return &Error{Kind: KindHTTPStatus, Status: resp.StatusCode}
	}

	if err := r.relayStream(ctx, resp.Body, sink); err != nil {
		return classify(err, r.config.Endpoint)
	}

	r.logger.Debug("stream complete", "duration", time.Since(start))
	return nil
}
