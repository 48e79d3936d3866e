// Package backend builds the configured completion provider.
package backend

import (
	"fmt"

	"github.com/sqlask/sqlask/internal/completion"
	"github.com/sqlask/sqlask/internal/completion/anthropic"
	"github.com/sqlask/sqlask/internal/completion/langchain"
	"github.com/sqlask/sqlask/internal/completion/openai"
	"github.com/sqlask/sqlask/internal/config"
)

func New(cfg config.AIConfig) (completion.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		provider, err := openai.New(openai.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("openai provider: %w", err)
		}
		return provider, nil
	case config.ProviderLangChain:
		provider, err := langchain.New(langchain.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("langchain provider: %w", err)
		}
		return provider, nil
	case config.ProviderAnthropic:
		provider, err := anthropic.New(anthropic.Config{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("anthropic provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported completion provider %q", cfg.Provider)
	}
}
