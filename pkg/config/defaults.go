package config

import "time"

const (
	defaultEndpoint = "http://localhost:3000"

	defaultToolProvider = "anthropic"
	defaultToolModel    = "claude-sonnet-4-5"

	defaultChatProvider = "openai"
	defaultChatModel    = "gpt-5.2"

	defaultCompactionProvider = "anthropic"
	defaultCompactionModel    = "claude-haiku-4-5"

	defaultOllamaBaseURL = "http://localhost:11434"
	defaultDoclingURL    = "http://localhost:5001"

	defaultFlushIntervalMs uint = 50
	defaultConnectTimeoutS uint = 30
	defaultReadTimeoutS    uint = 600
	defaultWriteTimeoutS   uint = 60
	defaultPoolTimeoutS    uint = 30

	defaultGatewayListen = ":8080"
	defaultKafkaTopic    = "relay.chat.events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Endpoint: defaultEndpoint,
		},
		LLM: LLMConfig{
			ToolProvider:       defaultToolProvider,
			ToolModel:          defaultToolModel,
			ChatProvider:       defaultChatProvider,
			ChatModel:          defaultChatModel,
			CompactionProvider: defaultCompactionProvider,
			CompactionModel:    defaultCompactionModel,
			EnableCompaction:   true,
		},
		Keys: KeysConfig{
			OllamaBaseURL: defaultOllamaBaseURL,
		},
		Services: ServicesConfig{
			DoclingURL: defaultDoclingURL,
		},
		Tools: ToolsConfig{
			WebSearch:       true,
			WebScrape:       true,
			DeepResearch:    true,
			Sandbox:         true,
			ImageGeneration: true,
			ImageEdit:       true,
			ImageBlend:      true,
			Memory:          true,
			DateTime:        true,
			FileRecall:      false,
		},
		Relay: RelayConfig{
			FlushIntervalMs: defaultFlushIntervalMs,
			ConnectTimeoutS: defaultConnectTimeoutS,
			ReadTimeoutS:    defaultReadTimeoutS,
			WriteTimeoutS:   defaultWriteTimeoutS,
			PoolTimeoutS:    defaultPoolTimeoutS,
		},
		Gateway: GatewayConfig{
			Listen:     defaultGatewayListen,
			KafkaTopic: defaultKafkaTopic,
		},
	}
}

// FlushInterval returns the token batching window as a duration.
func (r RelayConfig) FlushInterval() time.Duration {
	return time.Duration(r.FlushIntervalMs) * time.Millisecond
}

// ConnectTimeout returns the connect-phase timeout as a duration.
func (r RelayConfig) ConnectTimeout() time.Duration {
	return time.Duration(r.ConnectTimeoutS) * time.Second
}

// ReadTimeout returns the end-to-end read timeout as a duration.
func (r RelayConfig) ReadTimeout() time.Duration {
	return time.Duration(r.ReadTimeoutS) * time.Second
}

// WriteTimeout returns the write-phase timeout as a duration.
func (r RelayConfig) WriteTimeout() time.Duration {
	return time.Duration(r.WriteTimeoutS) * time.Second
}

// PoolTimeout returns the connection pool timeout as a duration.
func (r RelayConfig) PoolTimeout() time.Duration {
	return time.Duration(r.PoolTimeoutS) * time.Second
}
