// Package gateway exposes the chat relay over HTTP: it accepts chat requests,
// builds the outbound payload from the configured toolset settings, runs the
// relay against the toolset server, and re-emits the typed relay events to the
// caller as an SSE stream.
package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"

	"github.com/opentoolset/relay/gateway/worker"
	"github.com/opentoolset/relay/pkg/config"
	"github.com/opentoolset/relay/pkg/eventstream"
	"github.com/opentoolset/relay/pkg/eventstream/nop"
	"github.com/opentoolset/relay/pkg/payload"
	"github.com/opentoolset/relay/pkg/relay"
)

// Request headers carrying per-conversation metadata from the host
// application. Missing headers fall back to the payload builder's anonymous
// markers.
const (
	UserEmailHeader = "X-Relay-User-Email"
	ChatIDHeader    = "X-Relay-Chat-Id"
	InstanceHeader  = "X-Relay-Instance"
)

// Gateway serves the relay over HTTP and publishes a completion event per
// relayed chat via its async worker pool.
type Gateway struct {
	config     Config
	cfg        *config.Config
	relay      *relay.Relay
	workerPool *worker.Pool
	logger     *slog.Logger
	server     *fiber.App
}

// New creates a new Gateway from the gateway config and the toolset config.
func New(gwConfig Config, cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("toolset config is required")
	}

	publisher := gwConfig.Publisher
	if publisher == nil {
		publisher = nop.NewPublisher()
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Enable streaming
		StreamRequestBody: true,
	})

	// Add compression middleware to handle responses
	app.Use(compress.New())

	wp, err := worker.NewPool(&worker.Config{
		Publisher:  publisher,
		NumWorkers: gwConfig.NumWorkers,
		QueueSize:  gwConfig.QueueSize,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		config:     gwConfig,
		cfg:        cfg,
		workerPool: wp,
		logger:     logger,
		server:     app,
		relay: relay.New(relay.Config{
			Endpoint:       cfg.Server.Endpoint,
			APIKey:         cfg.Server.APIKey,
			ConnectTimeout: cfg.Relay.ConnectTimeout(),
			ReadTimeout:    cfg.Relay.ReadTimeout(),
			WriteTimeout:   cfg.Relay.WriteTimeout(),
			PoolTimeout:    cfg.Relay.PoolTimeout(),
			FlushInterval:  cfg.Relay.FlushInterval(),
			Logger:         logger,
		}),
	}

	app.Post("/api/v1/chat", g.handleChat)
	app.Get("/healthz", g.handleHealth)

	return g, nil
}

// Run starts the gateway server on the configured listening address.
func (g *Gateway) Run() error {
	g.logger.Info("starting gateway server",
		"listen", g.config.ListenAddr,
		"endpoint", g.cfg.Server.Endpoint,
	)

	return g.server.Listen(g.config.ListenAddr)
}

// RunWithListener starts the gateway server using the provided listener.
func (g *Gateway) RunWithListener(listener net.Listener) error {
	g.logger.Info("starting gateway server",
		"listen", listener.Addr().String(),
		"endpoint", g.cfg.Server.Endpoint,
	)

	return g.server.Listener(listener)
}

// Close gracefully shuts down the gateway and waits for the publish pool to
// drain.
func (g *Gateway) Close() error {
	err := g.server.Shutdown()
	g.workerPool.Close()
	return err
}

func (g *Gateway) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleChat builds the outbound payload from the request and streams the
// relayed response back to the caller as SSE.
func (g *Gateway) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()

	uc := payload.UserContext{
		Email:    c.Get(UserEmailHeader),
		ChatID:   c.Get(ChatIDHeader),
		Instance: c.Get(InstanceHeader),
	}

	outbound, err := payload.Build(g.cfg, c.Body(), uc)
	if err != nil {
		g.logger.Warn("rejecting malformed chat request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")

	// Use io.Pipe + SetBodyStream so each flushed frame is written through
	// to the TCP socket under backpressure, and run the relay on
	// context.Background() because fasthttp recycles its RequestCtx after
	// the handler returns while the relay goroutine is still streaming.
	pr, pw := io.Pipe()
	go g.relayToPipe(pw, outbound, uc, startTime)

	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// relayToPipe runs one relay exchange, writing SSE frames into the pipe and
// enqueuing the completion event once the stream settles.
func (g *Gateway) relayToPipe(pw *io.PipeWriter, outbound []byte, uc payload.UserContext, startTime time.Time) {
	defer pw.Close()

	sink := newSSESink(pw)
	err := g.relay.Run(context.Background(), outbound, sink)

	if err != nil {
		g.logger.Error("relay failed", "error", err, "kind", relay.KindOf(err).String())
		if werr := sink.writeError(err); werr != nil {
			g.logger.Debug("client disconnected before error frame", "error", werr)
		}
	} else if werr := sink.writeDone(); werr != nil {
		g.logger.Debug("client disconnected before sentinel", "error", werr)
	}

	g.enqueueChatEvent(sink, uc, startTime, err)
}

// enqueueChatEvent hands the completion event to the worker pool. Non-blocking;
// a full queue drops the event.
func (g *Gateway) enqueueChatEvent(sink *sseSink, uc payload.UserContext, startTime time.Time, relayErr error) {
	provider, model := g.cfg.SelectLLM()
	completed := time.Now().UTC()

	event := eventstream.NewChatRelayedEvent()
	event.Source = eventstream.EventSource{
		Instance:  uc.Instance,
		UserEmail: uc.Email,
		Provider:  provider,
		Model:     model,
	}
	event.RequestMeta = eventstream.ChatRequestMeta{
		Path:        "/api/v1/chat",
		StartedAt:   startTime.UTC(),
		CompletedAt: completed,
		DurationMs:  completed.Sub(startTime.UTC()).Milliseconds(),
		Streaming:   true,
		HTTPStatus:  fiber.StatusOK,
	}
	event.Counts = sink.Counts()

	if relayErr != nil {
		event.Error = relayErr.Error()
		var rerr *relay.Error
		if errors.As(relayErr, &rerr) && rerr.Status != 0 {
			event.RequestMeta.HTTPStatus = rerr.Status
		}
	}

	g.workerPool.Enqueue(worker.Job{Event: event})
}
