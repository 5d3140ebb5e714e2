package llm

import (
	"context"
	"fmt"

	"skill_extractor_backend/internal/config"
)

// NewProvider builds the configured Provider wrapped as
// caller → retry → logging → base, so every attempt is logged.
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(AnthropicConfig{
			APIKey: cfg.Anthropic.APIKey,
			Model:  cfg.Anthropic.Model,
		})
	case "openai":
		base, err = NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})
	case "gemini":
		base, err = NewGeminiProvider(ctx, GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base)
	return WithRetry(logged, RetryConfig{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialWait:    cfg.Retry.InitialWait,
		MaxWait:        cfg.Retry.MaxWait,
		Multiplier:     cfg.Retry.Multiplier,
		AttemptTimeout: cfg.Timeout,
	}), nil
}
