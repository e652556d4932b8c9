// Package llm abstracts the text-completion backends behind a single
// TextGenerator capability. The verdict protocol depends only on this
// interface, so tests inject a deterministic fake.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/utils"
)

// TextGenerator is the capability the verdict protocol consumes.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ProviderError normalizes a backend failure. Capacity-class errors
// (rate limits, overload, server trouble) are the only ones that trigger
// model fallthrough.
type ProviderError struct {
	Provider   string
	Model      string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%s) HTTP %d: %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsCapacity reports whether the failure signals the backend is out of
// capacity rather than the request being wrong.
func (e *ProviderError) IsCapacity() bool {
	switch e.StatusCode {
	case 429, 500, 502, 503, 504, 529:
		return true
	}
	return false
}

func IsCapacityError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.IsCapacity()
}

// Config selects the active provider and its model variants. It is built
// once at startup and passed into the protocol at construction time; there
// is no ambient global provider state.
type Config struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	FallbackModels []string
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration

	// Retry budget for a single Generate call: total attempts including
	// the first, with a fixed pause between them.
	MaxAttempts int
	Backoff     time.Duration
}

// ConfigFromEnv resolves the generation backend configuration.
func ConfigFromEnv(log *logger.Logger) (Config, error) {
	provider := strings.ToLower(utils.GetEnv("LLM_PROVIDER", "openai", log))

	cfg := Config{
		Provider:    provider,
		BaseURL:     utils.GetEnv("LLM_BASE_URL", "", log),
		Model:       utils.GetEnv("LLM_MODEL", "", log),
		Temperature: 0.4,
		MaxTokens:   utils.GetEnvAsInt("LLM_MAX_TOKENS", 2048, log),
		Timeout:     time.Duration(utils.GetEnvAsInt("LLM_TIMEOUT_SECONDS", 90, log)) * time.Second,
		MaxAttempts: 2,
		Backoff:     2 * time.Second,
	}

	if fallbacks := utils.GetEnv("LLM_FALLBACK_MODELS", "", log); fallbacks != "" {
		for _, m := range strings.Split(fallbacks, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.FallbackModels = append(cfg.FallbackModels, m)
			}
		}
	}

	switch provider {
	case "openai":
		cfg.APIKey = utils.GetEnv("OPENAI_API_KEY", "", log)
		if cfg.Model == "" {
			cfg.Model = "gpt-4o"
		}
	case "anthropic":
		cfg.APIKey = utils.GetEnv("ANTHROPIC_API_KEY", "", log)
		if cfg.Model == "" {
			cfg.Model = "claude-3-5-sonnet-20241022"
		}
	default:
		return Config{}, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}
	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("missing API key for provider %q", provider)
	}
	return cfg, nil
}

// models returns the ordered variant list: primary first, then fallbacks.
func (c Config) models() []string {
	return append([]string{c.Model}, c.FallbackModels...)
}
