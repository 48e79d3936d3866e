package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/sqlask/sqlask/internal/completion"
)

const (
	providerName     = "anthropic"
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 1024
)

type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type Provider struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func New(cfg Config) (*Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	options := []anthropic.ClientOption{anthropic.WithHTTPClient(&http.Client{Timeout: timeout})}
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		options = append(options, anthropic.WithBaseURL(baseURL))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Provider{
		client:    anthropic.NewClient(apiKey, options...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Complete(ctx context.Context, prompt string, opts completion.Options) (completion.Completion, error) {
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:         anthropic.Model(p.model),
		MaxTokens:     p.maxTokens,
		StopSequences: opts.StopSequences,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}
	return completion.Wrap(map[string]any{
		completion.PayloadField: text.String(),
		"role":                  string(resp.Role),
		"model":                 string(resp.Model),
		"stop_reason":           string(resp.StopReason),
	}), nil
}
