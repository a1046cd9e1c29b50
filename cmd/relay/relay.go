// Package relaycmder
package relaycmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/opentoolset/relay/cmd/relay/chat"
	configcmder "github.com/opentoolset/relay/cmd/relay/config"
	servecmder "github.com/opentoolset/relay/cmd/relay/serve"
	versioncmder "github.com/opentoolset/relay/cmd/version"
)

const relayLongDesc string = `Relay streams chat through a toolset server.

Chat interactively using:
  relay chat           Interactive chat against the toolset server

Run services using:
  relay serve          Run the HTTP gateway

Manage configuration using:
  relay config         Get, set, and list config.toml values`

const relayShortDesc string = "Relay - Toolset Chat Relay"

func NewRelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: relayShortDesc,
		Long:  relayLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .relay/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
