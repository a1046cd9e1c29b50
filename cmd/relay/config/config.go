// Package configcmder provides the config command for managing persistent
// relay configuration stored in the .relay/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent relay configuration.

Configuration is stored as config.toml in the .relay/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  server.endpoint, server.api_key,
  llm.tool_provider, llm.tool_model, llm.chat_provider, llm.chat_model,
  llm.compaction_provider, llm.compaction_model, llm.enable_compaction,
  keys.anthropic_api_key, keys.openai_api_key, keys.ollama_base_url,
  keys.tavily_api_key,
  services.docling_url, services.comfyui_url,
  tools.web_search, tools.sandbox, ... (one toggle per tool),
  relay.flush_interval_ms, relay.connect_timeout_s, relay.read_timeout_s,
  gateway.listen, gateway.kafka_brokers, gateway.kafka_topic

Use subcommands to get, set, or list configuration values:
  relay config set <key> <value>    Set a configuration value
  relay config get <key>            Get a configuration value
  relay config list                 List all configuration values

Examples:
  relay config set server.endpoint http://localhost:3000
  relay config set llm.tool_model claude-sonnet-4-5
  relay config get server.endpoint
  relay config list`

const configShortDesc string = "Manage persistent relay configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
