package config

// Config represents the persistent relay configuration stored as config.toml
// in the .relay/ directory. The TOML layout uses sections for logical
// grouping, mirroring the dotted keys accepted by "relay config set".
type Config struct {
	Version  int            `toml:"version"`
	Server   ServerConfig   `toml:"server"`
	LLM      LLMConfig      `toml:"llm"`
	Keys     KeysConfig     `toml:"keys"`
	Services ServicesConfig `toml:"services"`
	Tools    ToolsConfig    `toml:"tools"`
	Relay    RelayConfig    `toml:"relay"`
	Gateway  GatewayConfig  `toml:"gateway"`
}

// ServerConfig identifies the toolset server the relay forwards to.
type ServerConfig struct {
	Endpoint string `toml:"endpoint,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// LLMConfig selects the models the toolset server should use: one
// provider/model pair for tool-calling requests, one for plain conversation,
// and one for conversation compaction.
type LLMConfig struct {
	ToolProvider string `toml:"tool_provider,omitempty"`
	ToolModel    string `toml:"tool_model,omitempty"`

	ChatProvider string `toml:"chat_provider,omitempty"`
	ChatModel    string `toml:"chat_model,omitempty"`

	CompactionProvider string `toml:"compaction_provider,omitempty"`
	CompactionModel    string `toml:"compaction_model,omitempty"`
	EnableCompaction   bool   `toml:"enable_compaction"`

	// SystemPrompt is appended to the server's own system prompt.
	SystemPrompt string `toml:"system_prompt,omitempty"`
}

// KeysConfig holds provider credentials forwarded inside the config envelope.
type KeysConfig struct {
	AnthropicAPIKey string `toml:"anthropic_api_key,omitempty"`
	OpenAIAPIKey    string `toml:"openai_api_key,omitempty"`
	OllamaBaseURL   string `toml:"ollama_base_url,omitempty"`
	TavilyAPIKey    string `toml:"tavily_api_key,omitempty"`
}

// ServicesConfig holds URLs of the external services some tools depend on.
type ServicesConfig struct {
	DoclingURL string `toml:"docling_url,omitempty"`
	ComfyUIURL string `toml:"comfyui_url,omitempty"`
}

// ToolsConfig toggles individual toolset capabilities.
type ToolsConfig struct {
	WebSearch       bool `toml:"web_search"`
	WebScrape       bool `toml:"web_scrape"`
	DeepResearch    bool `toml:"deep_research"`
	Sandbox         bool `toml:"sandbox"`
	ImageGeneration bool `toml:"image_generation"`
	ImageEdit       bool `toml:"image_edit"`
	ImageBlend      bool `toml:"image_blend"`
	Memory          bool `toml:"memory"`
	DateTime        bool `toml:"date_time"`
	FileRecall      bool `toml:"file_recall"`

	// FileRecallInstanceID isolates document libraries between clients.
	// File recall stays off while it is empty.
	FileRecallInstanceID string `toml:"file_recall_instance_id,omitempty"`
}

// RelayConfig holds relay transport tuning. Durations are stored in plain
// integer units so they round-trip through TOML; use the accessor methods for
// time.Duration values.
type RelayConfig struct {
	FlushIntervalMs uint `toml:"flush_interval_ms,omitempty"`
	ConnectTimeoutS uint `toml:"connect_timeout_s,omitempty"`
	ReadTimeoutS    uint `toml:"read_timeout_s,omitempty"`
	WriteTimeoutS   uint `toml:"write_timeout_s,omitempty"`
	PoolTimeoutS    uint `toml:"pool_timeout_s,omitempty"`
}

// GatewayConfig holds the gateway server settings.
type GatewayConfig struct {
	Listen string `toml:"listen,omitempty"`

	// KafkaBrokers is a comma-separated broker list. Event publishing is
	// disabled while it is empty.
	KafkaBrokers string `toml:"kafka_brokers,omitempty"`
	KafkaTopic   string `toml:"kafka_topic,omitempty"`
}

// HasToolsEnabled reports whether any toolset capability is actually usable
// under this configuration: web tools need the Tavily key, image tools need
// the ComfyUI URL, file recall needs an instance ID, and sandbox, memory, and
// date/time tools are purely local.
func (c *Config) HasToolsEnabled() bool {
	hasWebTools := c.Keys.TavilyAPIKey != "" &&
		(c.Tools.WebSearch || c.Tools.WebScrape || c.Tools.DeepResearch)

	hasImageTools := c.Services.ComfyUIURL != "" &&
		(c.Tools.ImageGeneration || c.Tools.ImageEdit || c.Tools.ImageBlend)

	hasFileRecall := c.Tools.FileRecallInstanceID != "" && c.Tools.FileRecall

	return hasWebTools ||
		hasImageTools ||
		c.Tools.Sandbox ||
		c.Tools.Memory ||
		c.Tools.DateTime ||
		hasFileRecall
}

// SelectLLM returns the provider/model pair the request should use: the
// tool-calling pair when any tool is usable, the conversational pair
// otherwise.
func (c *Config) SelectLLM() (provider, model string) {
	if c.HasToolsEnabled() {
		return c.LLM.ToolProvider, c.LLM.ToolModel
	}
	return c.LLM.ChatProvider, c.LLM.ChatModel
}
