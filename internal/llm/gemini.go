package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(tier ModelTier, system string) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	return model, nil
}

// GenerateStructured asks Gemini for a JSON response constrained by the request schema.
func (c *GeminiClient) GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	if err := validateStructured(req); err != nil {
		return nil, err
	}

	model, err := c.model(req.Tier, req.System)
	if err != nil {
		return nil, err
	}
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = req.Schema.toGenai()

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoStructuredOutput, err)
	}

	text = ExtractJSON(text)
	if text == "" || !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrNoStructuredOutput)
	}
	return json.RawMessage(text), nil
}

// Chat replays the conversation history and sends the last message.
func (c *GeminiClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if err := validateChat(req); err != nil {
		return "", err
	}

	model, err := c.model(req.Tier, req.System)
	if err != nil {
		return "", err
	}
	model.SetTemperature(0.7)

	session := model.StartChat()
	last := len(req.Messages) - 1
	for _, m := range req.Messages[:last] {
		session.History = append(session.History, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(req.Messages[last].Content))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		// An empty reply is not a transport failure; callers substitute their own fallback
		return "", nil
	}
	return text, nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func geminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
