// Package langchain adapts langchaingo language models to completion.Provider.
package langchain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/sqlask/sqlask/internal/completion"
)

const providerName = "langchain"

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type Provider struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

func New(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	options := []lcopenai.Option{
		lcopenai.WithToken(strings.TrimSpace(cfg.APIKey)),
		lcopenai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if model := strings.TrimSpace(cfg.Model); model != "" {
		options = append(options, lcopenai.WithModel(model))
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL += "/v1"
		}
		options = append(options, lcopenai.WithBaseURL(baseURL))
	}

	llm, err := lcopenai.New(options...)
	if err != nil {
		return nil, fmt.Errorf("create langchain openai model: %w", err)
	}
	return NewWithModel(llm, cfg.Temperature, cfg.MaxTokens)
}

func NewWithModel(model llms.Model, temperature float64, maxTokens int) (*Provider, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	return &Provider{model: model, temperature: temperature, maxTokens: maxTokens}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Complete(ctx context.Context, prompt string, opts completion.Options) (completion.Completion, error) {
	callOptions := []llms.CallOption{llms.WithTemperature(p.temperature)}
	if p.maxTokens > 0 {
		callOptions = append(callOptions, llms.WithMaxTokens(p.maxTokens))
	}
	if len(opts.StopSequences) > 0 {
		callOptions = append(callOptions, llms.WithStopWords(opts.StopSequences))
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, p.model, prompt, callOptions...)
	if err != nil {
		return nil, fmt.Errorf("generate from prompt: %w", err)
	}
	return completion.PlainText(text), nil
}
