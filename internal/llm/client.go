package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Role of a chat message author.
type Role string

// Message roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation sent to the completion service.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StructuredRequest asks for a single JSON object conforming to Schema.
// Providers that support function calling expose the schema as a tool named ToolName.
type StructuredRequest struct {
	Tier            ModelTier
	System          string
	Prompt          string
	ToolName        string
	ToolDescription string
	Schema          *Schema
}

// ChatRequest continues a conversation. The last message is the one being answered.
type ChatRequest struct {
	Tier     ModelTier
	System   string
	Messages []Message
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateStructured returns the raw JSON object produced for the request
	GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error)
	// Chat returns the assistant reply to the last message in the conversation
	Chat(ctx context.Context, req ChatRequest) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGateway:
		return NewGatewayClient(config, apiKey, nil)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

func validateStructured(req StructuredRequest) error {
	if req.Schema == nil {
		return fmt.Errorf("structured request requires a schema")
	}
	if req.ToolName == "" {
		return fmt.Errorf("structured request requires a tool name")
	}
	return nil
}

func validateChat(req ChatRequest) error {
	if len(req.Messages) == 0 {
		return fmt.Errorf("chat request has no messages")
	}
	if last := req.Messages[len(req.Messages)-1]; last.Role != RoleUser {
		return fmt.Errorf("chat request must end with a user message, got %s", last.Role)
	}
	return nil
}
