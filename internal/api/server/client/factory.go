package client

import (
	"context"
	"fmt"

	"github.com/bz888/roastbattle/internal/config"
)

// NewGenerator builds the generator for cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.Config) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		g, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.ModelName(),
			Generation: cfg.Generation,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderOpenAI:
		g, err := NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.ModelName(),
			Generation: cfg.Generation,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderOllama:
		return NewOllamaClient(cfg.OllamaHost, cfg.ModelName(), cfg.Generation), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
