package config

import (
	"fmt"
	"strconv"
)

// configKeyInfo maps a user-facing dotted key name to a getter and setter on
// *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// stringKey builds a configKeyInfo around a pointer accessor for a string
// field.
func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

// boolKey builds a configKeyInfo around a pointer accessor for a bool field.
func boolKey(name string, field func(c *Config) *bool) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = b
			return nil
		},
	}
}

// uintKey builds a configKeyInfo around a pointer accessor for a uint field.
func uintKey(name string, field func(c *Config) *uint) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.endpoint": stringKey(func(c *Config) *string { return &c.Server.Endpoint }),
	"server.api_key":  stringKey(func(c *Config) *string { return &c.Server.APIKey }),

	"llm.tool_provider":       stringKey(func(c *Config) *string { return &c.LLM.ToolProvider }),
	"llm.tool_model":          stringKey(func(c *Config) *string { return &c.LLM.ToolModel }),
	"llm.chat_provider":       stringKey(func(c *Config) *string { return &c.LLM.ChatProvider }),
	"llm.chat_model":          stringKey(func(c *Config) *string { return &c.LLM.ChatModel }),
	"llm.compaction_provider": stringKey(func(c *Config) *string { return &c.LLM.CompactionProvider }),
	"llm.compaction_model":    stringKey(func(c *Config) *string { return &c.LLM.CompactionModel }),
	"llm.enable_compaction":   boolKey("llm.enable_compaction", func(c *Config) *bool { return &c.LLM.EnableCompaction }),
	"llm.system_prompt":       stringKey(func(c *Config) *string { return &c.LLM.SystemPrompt }),

	"keys.anthropic_api_key": stringKey(func(c *Config) *string { return &c.Keys.AnthropicAPIKey }),
	"keys.openai_api_key":    stringKey(func(c *Config) *string { return &c.Keys.OpenAIAPIKey }),
	"keys.ollama_base_url":   stringKey(func(c *Config) *string { return &c.Keys.OllamaBaseURL }),
	"keys.tavily_api_key":    stringKey(func(c *Config) *string { return &c.Keys.TavilyAPIKey }),

	"services.docling_url": stringKey(func(c *Config) *string { return &c.Services.DoclingURL }),
	"services.comfyui_url": stringKey(func(c *Config) *string { return &c.Services.ComfyUIURL }),

	"tools.web_search":       boolKey("tools.web_search", func(c *Config) *bool { return &c.Tools.WebSearch }),
	"tools.web_scrape":       boolKey("tools.web_scrape", func(c *Config) *bool { return &c.Tools.WebScrape }),
	"tools.deep_research":    boolKey("tools.deep_research", func(c *Config) *bool { return &c.Tools.DeepResearch }),
	"tools.sandbox":          boolKey("tools.sandbox", func(c *Config) *bool { return &c.Tools.Sandbox }),
	"tools.image_generation": boolKey("tools.image_generation", func(c *Config) *bool { return &c.Tools.ImageGeneration }),
	"tools.image_edit":       boolKey("tools.image_edit", func(c *Config) *bool { return &c.Tools.ImageEdit }),
	"tools.image_blend":      boolKey("tools.image_blend", func(c *Config) *bool { return &c.Tools.ImageBlend }),
	"tools.memory":           boolKey("tools.memory", func(c *Config) *bool { return &c.Tools.Memory }),
	"tools.date_time":        boolKey("tools.date_time", func(c *Config) *bool { return &c.Tools.DateTime }),
	"tools.file_recall":      boolKey("tools.file_recall", func(c *Config) *bool { return &c.Tools.FileRecall }),

	"tools.file_recall_instance_id": stringKey(func(c *Config) *string { return &c.Tools.FileRecallInstanceID }),

	"relay.flush_interval_ms": uintKey("relay.flush_interval_ms", func(c *Config) *uint { return &c.Relay.FlushIntervalMs }),
	"relay.connect_timeout_s": uintKey("relay.connect_timeout_s", func(c *Config) *uint { return &c.Relay.ConnectTimeoutS }),
	"relay.read_timeout_s":    uintKey("relay.read_timeout_s", func(c *Config) *uint { return &c.Relay.ReadTimeoutS }),
	"relay.write_timeout_s":   uintKey("relay.write_timeout_s", func(c *Config) *uint { return &c.Relay.WriteTimeoutS }),
	"relay.pool_timeout_s":    uintKey("relay.pool_timeout_s", func(c *Config) *uint { return &c.Relay.PoolTimeoutS }),

	"gateway.listen":        stringKey(func(c *Config) *string { return &c.Gateway.Listen }),
	"gateway.kafka_brokers": stringKey(func(c *Config) *string { return &c.Gateway.KafkaBrokers }),
	"gateway.kafka_topic":   stringKey(func(c *Config) *string { return &c.Gateway.KafkaTopic }),
}

// orderedConfigKeys lists keys in a stable, logical order matching the TOML
// section layout, for list output.
var orderedConfigKeys = []string{
	"server.endpoint",
	"server.api_key",
	"llm.tool_provider",
	"llm.tool_model",
	"llm.chat_provider",
	"llm.chat_model",
	"llm.compaction_provider",
	"llm.compaction_model",
	"llm.enable_compaction",
	"llm.system_prompt",
	"keys.anthropic_api_key",
	"keys.openai_api_key",
	"keys.ollama_base_url",
	"keys.tavily_api_key",
	"services.docling_url",
	"services.comfyui_url",
	"tools.web_search",
	"tools.web_scrape",
	"tools.deep_research",
	"tools.sandbox",
	"tools.image_generation",
	"tools.image_edit",
	"tools.image_blend",
	"tools.memory",
	"tools.date_time",
	"tools.file_recall",
	"tools.file_recall_instance_id",
	"relay.flush_interval_ms",
	"relay.connect_timeout_s",
	"relay.read_timeout_s",
	"relay.write_timeout_s",
	"relay.pool_timeout_s",
	"gateway.listen",
	"gateway.kafka_brokers",
	"gateway.kafka_topic",
}

// ValidConfigKeys returns the list of all supported configuration key names
// in TOML section order.
func ValidConfigKeys() []string {
	result := make([]string, 0, len(orderedConfigKeys))
	for _, k := range orderedConfigKeys {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}

	// Append any keys in the map missed by the ordered list.
	seen := make(map[string]bool, len(result))
	for _, k := range result {
		seen[k] = true
	}
	for k := range configKeys {
		if !seen[k] {
			result = append(result, k)
		}
	}

	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration
// key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// GetKey returns the string form of the named key's current value.
func (c *Config) GetKey(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return info.get(c), nil
}

// SetKey parses and assigns the named key from its string form.
func (c *Config) SetKey(key, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	return info.set(c, value)
}
