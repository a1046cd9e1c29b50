// Package payload builds the outbound JSON payload for the toolset server's
// chat endpoint: the caller's request body merged with conversation metadata
// and the configuration envelope the server uses to route the request.
package payload

import (
	"encoding/json"
	"fmt"

	"github.com/opentoolset/relay/pkg/config"
)

// Fallbacks for metadata the host did not supply. The server treats these as
// anonymous-session markers, so they must match its expectations.
const (
	unknownValue    = "unknown"
	defaultInstance = "open-webui"
)

// UserContext carries per-request metadata about the host-side user and
// conversation.
type UserContext struct {
	// Email identifies the requesting user.
	Email string

	// ChatID identifies the conversation for server-side session state.
	ChatID string

	// Instance names the host application interface.
	Instance string

	// Files are host-uploaded file descriptors forwarded verbatim.
	Files []map[string]any
}

// envelope is the "config" object of the outbound payload. Field names are
// the server's wire contract.
type envelope struct {
	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	UseTools    bool   `json:"use_tools"`

	AnthropicAPIKey string `json:"anthropic_api_key"`
	OpenAIAPIKey    string `json:"openai_api_key"`
	OllamaBaseURL   string `json:"ollama_base_url"`
	TavilyAPIKey    string `json:"tavily_api_key"`

	DoclingBaseURL string `json:"docling_base_url"`
	ComfyUIBaseURL string `json:"comfyui_base_url"`
	ToolsetAPIURL  string `json:"toolset_api_url"`

	CustomSystemPrompt string `json:"custom_system_prompt"`

	CompactionProvider string `json:"compaction_provider"`
	CompactionModel    string `json:"compaction_model"`
	EnableCompaction   bool   `json:"enable_compaction"`

	FileRecallInstanceID string `json:"file_recall_instance_id"`

	Tools toolToggles `json:"tools"`
}

// toolToggles mirrors the server's tool map.
type toolToggles struct {
	WebSearch       bool `json:"web_search"`
	WebScrape       bool `json:"web_scrape"`
	DeepResearch    bool `json:"deep_research"`
	Sandbox         bool `json:"sandbox"`
	ImageGeneration bool `json:"image_generation"`
	ImageEdit       bool `json:"image_edit"`
	ImageBlend      bool `json:"image_blend"`
	Memory          bool `json:"memory"`
	DateTime        bool `json:"date_time"`
	FileRecall      bool `json:"file_recall"`
}

// Build merges the caller-supplied request body with conversation metadata
// and the config envelope, returning the outbound payload as JSON. The body
// must be a JSON object; its fields survive untouched unless they collide
// with the metadata keys.
func Build(cfg *config.Config, body json.RawMessage, uc UserContext) ([]byte, error) {
	merged := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &merged); err != nil {
			return nil, fmt.Errorf("parsing request body: %w", err)
		}
	}

	provider, model := cfg.SelectLLM()

	conversationID := uc.ChatID
	if conversationID == "" {
		conversationID = unknownValue
	}
	email := uc.Email
	if email == "" {
		email = unknownValue
	}
	instance := uc.Instance
	if instance == "" {
		instance = defaultInstance
	}
	files := uc.Files
	if files == nil {
		files = []map[string]any{}
	}

	merged["conversation_id"] = conversationID
	merged["user_email"] = email
	merged["owui_instance"] = instance
	merged["files"] = files
	merged["config"] = envelope{
		LLMProvider: provider,
		LLMModel:    model,
		UseTools:    cfg.HasToolsEnabled(),

		AnthropicAPIKey: cfg.Keys.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.Keys.OpenAIAPIKey,
		OllamaBaseURL:   cfg.Keys.OllamaBaseURL,
		TavilyAPIKey:    cfg.Keys.TavilyAPIKey,

		DoclingBaseURL: cfg.Services.DoclingURL,
		ComfyUIBaseURL: cfg.Services.ComfyUIURL,
		ToolsetAPIURL:  cfg.Server.Endpoint,

		CustomSystemPrompt: cfg.LLM.SystemPrompt,

		CompactionProvider: cfg.LLM.CompactionProvider,
		CompactionModel:    cfg.LLM.CompactionModel,
		EnableCompaction:   cfg.LLM.EnableCompaction,

		FileRecallInstanceID: cfg.Tools.FileRecallInstanceID,

		Tools: toolToggles{
			WebSearch:       cfg.Tools.WebSearch,
			WebScrape:       cfg.Tools.WebScrape,
			DeepResearch:    cfg.Tools.DeepResearch,
			Sandbox:         cfg.Tools.Sandbox,
			ImageGeneration: cfg.Tools.ImageGeneration,
			ImageEdit:       cfg.Tools.ImageEdit,
			ImageBlend:      cfg.Tools.ImageBlend,
			Memory:          cfg.Tools.Memory,
			DateTime:        cfg.Tools.DateTime,
			FileRecall:      cfg.Tools.FileRecall,
		},
	}

	return json.Marshal(merged)
}
