// Package llm provides centralized LLM configuration and client abstractions.
// The rest of the application talks to the completion service only through Client.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for quick conversational replies
	TierLite ModelTier = "lite"
	// TierStandard is for structured output such as the profile analysis
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini talks to Google Gemini through the generative-ai-go SDK
	ProviderGemini Provider = "gemini"
	// ProviderGateway talks to an OpenAI-compatible chat completions gateway
	ProviderGateway Provider = "gateway"
)

// DefaultGatewayURL is the chat completions endpoint used when none is configured.
const DefaultGatewayURL = "https://ai.gateway.lovable.dev/v1"

// Config holds the model configuration for the application
type Config struct {
	Provider   Provider
	Models     map[ModelTier]string
	GatewayURL string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultGatewayConfig returns the default gateway configuration.
// Gateway model names are namespaced by vendor.
func DefaultGatewayConfig() *Config {
	return &Config{
		Provider:   ProviderGateway,
		GatewayURL: DefaultGatewayURL,
		Models: map[ModelTier]string{
			TierLite:     "google/gemini-2.5-flash-lite",
			TierStandard: "google/gemini-3-flash-preview",
			TierAdvanced: "google/gemini-2.5-pro",
		},
	}
}

// ConfigFor returns the default configuration of a provider.
func ConfigFor(p Provider) *Config {
	if p == ProviderGateway {
		return DefaultGatewayConfig()
	}
	return DefaultGeminiConfig()
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:   c.Provider,
		GatewayURL: c.GatewayURL,
		Models:     make(map[ModelTier]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
