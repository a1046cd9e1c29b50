// Package servecmder provides the serve command for running the relay HTTP
// gateway.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opentoolset/relay/gateway"
	"github.com/opentoolset/relay/pkg/config"
	"github.com/opentoolset/relay/pkg/eventstream"
	"github.com/opentoolset/relay/pkg/eventstream/kafka"
	"github.com/opentoolset/relay/pkg/eventstream/nop"
	"github.com/opentoolset/relay/pkg/logger"
)

type serveCommander struct {
	listen       string
	kafkaBrokers string
	kafkaTopic   string
	logFile      string
	debug        bool

	cfg    *config.Config
	logger *slog.Logger
}

const serveLongDesc string = `Run the relay HTTP gateway.

The gateway exposes POST /api/v1/chat: it merges each request with the
configured toolset settings, relays the chat through the toolset server, and
streams the answer back to the caller as SSE. When Kafka brokers are
configured, a completion event is published per relayed chat.

Examples:
  relay serve
  relay serve --listen :8080
  relay serve --kafka-brokers localhost:9092 --kafka-topic relay.chat.events`

const serveShortDesc string = "Run the relay HTTP gateway"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := config.ConfigFromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg

			if !cmd.Flags().Changed("listen") {
				cmder.listen = cfg.Gateway.Listen
			}
			if !cmd.Flags().Changed("kafka-brokers") {
				cmder.kafkaBrokers = cfg.Gateway.KafkaBrokers
			}
			if !cmd.Flags().Changed("kafka-topic") {
				cmder.kafkaTopic = cfg.Gateway.KafkaTopic
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.Gateway.Listen, "Address for the gateway to listen on")
	cmd.Flags().StringVar(&cmder.kafkaBrokers, "kafka-brokers", "", "Comma-separated Kafka brokers for event publishing")
	cmd.Flags().StringVar(&cmder.kafkaTopic, "kafka-topic", defaults.Gateway.KafkaTopic, "Kafka topic for chat events")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithWriter(os.Stderr),
	)

	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		c.logger = logger.Multi(
			c.logger,
			logger.New(
				logger.WithDebug(c.debug),
				logger.WithJSON(true),
				logger.WithWriter(f),
			),
		)
	}

	publisher, err := c.createPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	g, err := gateway.New(gateway.Config{
		ListenAddr: c.listen,
		Publisher:  publisher,
	}, c.cfg, c.logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}
	defer g.Close()

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := g.Run(); err != nil {
			errChan <- fmt.Errorf("gateway error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return nil
	}
}

func (c *serveCommander) createPublisher() (eventstream.Publisher, error) {
	if c.kafkaBrokers == "" {
		c.logger.Info("event publishing disabled")
		return nop.NewPublisher(), nil
	}

	brokers := strings.Split(c.kafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	publisher, err := kafka.NewPublisher(brokers, c.kafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}

	c.logger.Info("publishing chat events to kafka",
		"brokers", c.kafkaBrokers,
		"topic", c.kafkaTopic,
	)
	return publisher, nil
}
