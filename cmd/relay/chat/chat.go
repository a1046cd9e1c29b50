// Package chatcmder provides the chat command for interactive chat against
// the toolset server.
package chatcmder

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/opentoolset/relay/pkg/cliui"
	"github.com/opentoolset/relay/pkg/config"
	"github.com/opentoolset/relay/pkg/logger"
	"github.com/opentoolset/relay/pkg/payload"
	"github.com/opentoolset/relay/pkg/relay"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

type chatCommander struct {
	endpoint string
	apiKey   string
	markdown bool
	debug    bool

	cfg    *config.Config
	logger *slog.Logger
}

// chatMessage is one turn of the conversation history sent with every
// request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the caller body handed to the payload builder.
type chatRequest struct {
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

const chatLongDesc string = `Start an interactive chat session against the toolset server.

The chat command sends messages to the configured toolset server and streams
the answer back as it arrives. Status updates from server-side tools are shown
as dimmed progress lines, and any web sources the answer cites are listed
after it.

Examples:
  relay chat
  relay chat --endpoint http://localhost:3000
  relay chat --markdown`

const chatShortDesc string = "Interactive chat against the toolset server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
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

			if !cmd.Flags().Changed("endpoint") {
				cmder.endpoint = cfg.Server.Endpoint
			}
			if !cmd.Flags().Changed("api-key") {
				cmder.apiKey = cfg.Server.APIKey
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
	cmd.Flags().StringVarP(&cmder.endpoint, "endpoint", "e", defaults.Server.Endpoint, "Toolset server URL")
	cmd.Flags().StringVarP(&cmder.apiKey, "api-key", "k", "", "Toolset server API key")
	cmd.Flags().BoolVarP(&cmder.markdown, "markdown", "m", false, "Re-render the finished answer as markdown")

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)

	provider, model := c.cfg.SelectLLM()
	fmt.Println()
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.ValueStyle.Render(c.endpoint),
	)
	fmt.Printf("  %s %s/%s\n\n",
		cliui.KeyStyle.Render("Model:"),
		provider, model,
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	r := relay.New(relay.Config{
		Endpoint:       c.endpoint,
		APIKey:         c.apiKey,
		ConnectTimeout: c.cfg.Relay.ConnectTimeout(),
		ReadTimeout:    c.cfg.Relay.ReadTimeout(),
		WriteTimeout:   c.cfg.Relay.WriteTimeout(),
		PoolTimeout:    c.cfg.Relay.PoolTimeout(),
		FlushInterval:  c.cfg.Relay.FlushInterval(),
		Logger:         c.logger,
	})

	var messages []chatMessage
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		messages = append(messages, chatMessage{
			Role:    "user",
			Content: input,
		})

		answer, err := c.sendAndStream(r, messages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			// Remove the failed user message so we can retry
			messages = messages[:len(messages)-1]
			continue
		}

		messages = append(messages, chatMessage{
			Role:    "assistant",
			Content: answer,
		})

		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// sendAndStream runs one relay exchange, printing tokens as they flush.
// Returns the full assistant answer.
func (c *chatCommander) sendAndStream(r *relay.Relay, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	outbound, err := payload.Build(c.cfg, body, payload.UserContext{})
	if err != nil {
		return "", fmt.Errorf("building payload: %w", err)
	}

	fmt.Print(assistantPrompt)

	var answer strings.Builder
	var citations []map[string]any

	sink := relay.SinkFunc(func(_ context.Context, ev *relay.Event) error {
		switch ev.Type {
		case relay.EventMessage:
			fmt.Print(ev.Content)
			answer.WriteString(ev.Content)
		case relay.EventStatus:
			fmt.Printf("\n  %s\n", cliui.StatusLine(ev.Data))
		case relay.EventCitation:
			citations = append(citations, ev.Data)
		}
		return nil
	})

	if err := r.Run(context.Background(), outbound, sink); err != nil {
		fmt.Println()
		return "", err
	}
	fmt.Println()

	if c.markdown && answer.Len() > 0 {
		rendered, err := cliui.RenderMarkdown(answer.String())
		if err != nil {
			c.logger.Debug("markdown rendering failed", "error", err)
		} else {
			fmt.Print(rendered)
		}
	}

	if out := cliui.CitationList(citations); out != "" {
		fmt.Println()
		fmt.Print(out)
	}

	return answer.String(), nil
}
