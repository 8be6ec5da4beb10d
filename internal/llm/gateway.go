package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const gatewayTimeout = 90 * time.Second

// GatewayClient implements Client against an OpenAI-compatible chat completions endpoint.
type GatewayClient struct {
	http    *http.Client
	config  *Config
	apiKey  string
	baseURL string
}

// NewGatewayClient creates a gateway client. A nil httpClient gets a default with a timeout.
func NewGatewayClient(config *Config, apiKey string, httpClient *http.Client) (*GatewayClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGatewayConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: gatewayTimeout}
	}

	baseURL := config.GatewayURL
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}

	return &GatewayClient{
		http:    httpClient,
		config:  config,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type gatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gatewayFunction struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

type gatewayTool struct {
	Type     string          `json:"type"`
	Function gatewayFunction `json:"function"`
}

type gatewayToolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type gatewayRequest struct {
	Model      string             `json:"model"`
	Messages   []gatewayMessage   `json:"messages"`
	Tools      []gatewayTool      `json:"tools,omitempty"`
	ToolChoice *gatewayToolChoice `json:"tool_choice,omitempty"`
}

type gatewayResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateStructured forces a single tool call and returns its arguments.
func (c *GatewayClient) GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	if err := validateStructured(req); err != nil {
		return nil, err
	}

	choice := &gatewayToolChoice{Type: "function"}
	choice.Function.Name = req.ToolName

	body := gatewayRequest{
		Model:    c.config.GetModel(req.Tier),
		Messages: withSystem(req.System, []gatewayMessage{{Role: string(RoleUser), Content: req.Prompt}}),
		Tools: []gatewayTool{{
			Type: "function",
			Function: gatewayFunction{
				Name:        req.ToolName,
				Description: req.ToolDescription,
				Parameters:  req.Schema,
			},
		}},
		ToolChoice: choice,
	}

	resp, err := c.complete(ctx, body)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, ErrNoStructuredOutput
	}
	args := strings.TrimSpace(resp.Choices[0].Message.ToolCalls[0].Function.Arguments)
	if args == "" || !json.Valid([]byte(args)) {
		return nil, fmt.Errorf("%w: tool arguments are not valid JSON", ErrNoStructuredOutput)
	}
	return json.RawMessage(args), nil
}

// Chat sends the full conversation and returns the assistant reply.
// An empty string means the service answered without content.
func (c *GatewayClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if err := validateChat(req); err != nil {
		return "", err
	}

	msgs := make([]gatewayMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, gatewayMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := c.complete(ctx, gatewayRequest{
		Model:    c.config.GetModel(req.Tier),
		Messages: withSystem(req.System, msgs),
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *GatewayClient) complete(ctx context.Context, body gatewayRequest) (*gatewayResponse, error) {
	if body.Model == "" {
		return nil, fmt.Errorf("no model configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &APIError{Kind: KindUnavailable, Message: "request failed", Cause: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, &APIError{
			Kind:       kindForStatus(httpResp.StatusCode, ""),
			StatusCode: httpResp.StatusCode,
			Message:    strings.TrimSpace(string(detail)),
		}
	}

	var out gatewayResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrNoStructuredOutput, err)
	}
	return &out, nil
}

// GetModel returns the model name for a tier
func (c *GatewayClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (c *GatewayClient) Close() error {
	return nil
}

func withSystem(system string, msgs []gatewayMessage) []gatewayMessage {
	if system == "" {
		return msgs
	}
	return append([]gatewayMessage{{Role: "system", Content: system}}, msgs...)
}
