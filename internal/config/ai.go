package config

import (
	"os"
	"strconv"
)

// AI providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// AIConfig holds all AI-related configuration. It is built once at startup
// and passed to the generator.
type AIConfig struct {
	Provider  string `json:"provider"`
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultAIConfig reads the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	provider := getEnvOrDefault("AI_PROVIDER", ProviderGemini)

	cfg := &AIConfig{
		Provider:  provider,
		TimeoutMS: 30000,
	}
	if ms, err := strconv.Atoi(os.Getenv("AI_TIMEOUT_MS")); err == nil && ms > 0 {
		cfg.TimeoutMS = ms
	}

	switch provider {
	case ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.BaseURL = getEnvOrDefault("AI_BASE_URL", "https://api.openai.com/v1")
		cfg.Model = getEnvOrDefault("AI_MODEL", "gpt-4o-mini")
	default:
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		cfg.BaseURL = getEnvOrDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models")
		cfg.Model = getEnvOrDefault("AI_MODEL", "gemini-2.0-flash")
	}

	return cfg
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c != nil && c.APIKey != ""
}

// ModelEndpoint returns the Gemini generateContent endpoint for the configured model
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

// ChatEndpoint returns the OpenAI chat completions endpoint
func (c *AIConfig) ChatEndpoint() string {
	return c.BaseURL + "/chat/completions"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
