package llm

import (
	"context"
	"time"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/observability"
)

// coreProvider is the raw per-model call each backend implements.
type coreProvider interface {
	name() string
	generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Client implements TextGenerator over one provider with a bounded retry
// budget and ordered model fallthrough. Capacity errors (rate limits,
// overload, 5xx) fall through to the next model variant within the same
// attempt; any other error class fails the attempt immediately. All
// attempts exhausted surfaces as a GenerationFailed error carrying the
// last underlying failure. No partial state is persisted here.
type Client struct {
	core    coreProvider
	models  []string
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewClient(cfg Config, baseLog *logger.Logger, metrics *observability.Metrics) (*Client, error) {
	var core coreProvider
	switch cfg.Provider {
	case "anthropic":
		core = newAnthropicProvider(cfg)
	default:
		core = newOpenAIProvider(cfg)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	return &Client{
		core:    core,
		models:  cfg.models(),
		cfg:     cfg,
		log:     baseLog.With("service", "LLMClient", "provider", cfg.Provider),
		metrics: metrics,
	}, nil
}

func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		for i, model := range c.models {
			start := time.Now()
			out, err := c.core.generate(ctx, model, systemPrompt, userPrompt)
			c.record(model, err, time.Since(start))
			if err == nil {
				if i > 0 {
					c.log.Info("Generation succeeded on fallback model", "model", model)
				}
				return out, nil
			}

			lastErr = err
			if !IsCapacityError(err) {
				c.log.Warn("Generation failed", "model", model, "attempt", attempt, "error", err)
				break
			}
			c.log.Warn("Generation hit capacity error", "model", model, "attempt", attempt, "error", err)
			if c.metrics != nil && i < len(c.models)-1 {
				c.metrics.LLMFallthroughs.WithLabelValues(c.core.name(), model).Inc()
			}
		}

		if attempt < c.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return "", apierr.Wrap(apierr.KindGenerationFailed, "generation cancelled", ctx.Err())
			case <-time.After(c.cfg.Backoff):
			}
		}
	}

	return "", apierr.Wrap(apierr.KindGenerationFailed, "all generation attempts exhausted", lastErr)
}

func (c *Client) record(model string, err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.LLMRequests.WithLabelValues(c.core.name(), model, status).Inc()
	c.metrics.LLMLatency.WithLabelValues(c.core.name(), model).Observe(elapsed.Seconds())
}
