package llm

import "fmt"

// Provider names accepted in Config.Provider.
const (
	ProviderNone      = ""
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config holds generation backend configuration.
type Config struct {
	// Provider selects the backend. Empty means no backend is configured.
	Provider string `yaml:"provider"`

	Gemini    GeminiConfig    `yaml:"gemini"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// DefaultConfig returns a Config with default models and no provider.
func DefaultConfig() Config {
	return Config{
		Gemini:    GeminiConfig{Model: "gemini-2.0-flash"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic: AnthropicConfig{Model: "claude-haiku-4-5"},
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderNone, ProviderMock:
		return nil
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
