package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicProvider adapts the Anthropic messages API to coreProvider.
type anthropicProvider struct {
	client      anthropic.Client
	temperature float64
	maxTokens   int
}

func newAnthropicProvider(cfg Config) *anthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &anthropicProvider{
		client:      anthropic.NewClient(opts...),
		temperature: float64(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *anthropicProvider) name() string { return "anthropic" }

func (p *anthropicProvider) generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
		Temperature: anthropic.Float(p.temperature),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", p.wrapError(model, err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			out.WriteString(content.Text)
		}
	}
	if out.Len() == 0 {
		return "", &ProviderError{Provider: p.name(), Model: model, Err: errors.New("empty response from API")}
	}
	return out.String(), nil
}

func (p *anthropicProvider) wrapError(model string, err error) error {
	pe := &ProviderError{Provider: p.name(), Model: model, Err: err}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		pe.StatusCode = anthropicErr.StatusCode
	}
	return pe
}
