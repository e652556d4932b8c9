package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider adapts the OpenAI chat completion API to coreProvider.
type openAIProvider struct {
	client      *openai.Client
	temperature float32
	maxTokens   int
}

func newOpenAIProvider(cfg Config) *openAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &openAIProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *openAIProvider) name() string { return "openai" }

func (p *openAIProvider) generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", p.wrapError(model, err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: p.name(), Model: model, Err: errors.New("no response choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *openAIProvider) wrapError(model string, err error) error {
	pe := &ProviderError{Provider: p.name(), Model: model, Err: err}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		pe.StatusCode = apiErr.HTTPStatusCode
	}
	return pe
}
