package llm

import (
	"context"
	"fmt"
)

// offlineReply is what the mock backend answers when LLM_PROVIDER=mock.
const offlineReply = "(mock) หายใจเข้าลึก ๆ สังเกตความรู้สึกที่เกิดขึ้น แล้วค่อย ๆ ปล่อยวาง"

// NewProvider creates a Provider from configuration. It returns nil, nil when
// no provider is configured; callers treat that as "use the fallback text".
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case ProviderNone:
		return nil, nil
	case ProviderMock:
		m := NewMockProvider()
		m.SetDefault(offlineReply)
		return m, nil
	case ProviderGemini:
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		p, err = NewAnthropicProvider(cfg.Anthropic)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}
