package services

import (
	"context"

	"github.com/overruled/mocktrial-backend/internal/llm"
	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/types"
)

// ArgumentEngine turns one submitted argument plus full context into a
// structured evaluation. It has no side effects of its own; the verdict
// service owns persistence and cache invalidation, which keeps this the
// easiest unit to test in isolation.
type ArgumentEngine struct {
	gen    llm.TextGenerator
	policy llm.PromptRetryPolicy
	log    *logger.Logger
}

func NewArgumentEngine(gen llm.TextGenerator, policy llm.PromptRetryPolicy, baseLog *logger.Logger) *ArgumentEngine {
	return &ArgumentEngine{
		gen:    gen,
		policy: policy,
		log:    baseLog.With("service", "ArgumentEngine"),
	}
}

// Evaluate judges the new argument against the current judgment and the
// prior rounds. Confidence in the result is already clamped to 0-100 by
// schema validation; stage-band clamping is the caller's concern.
func (e *ArgumentEngine) Evaluate(
	ctx context.Context,
	kase *types.Case,
	current *types.Judgment,
	history []types.Argument,
	side, argumentText string,
) (*llm.ArgumentEvaluation, error) {
	system, user := argumentEvaluationPrompt(kase, current, history, side, argumentText)
	eval, err := llm.GenerateParsed(ctx, e.gen, e.policy, system, user, llm.ParseArgumentEvaluation)
	if err != nil {
		return nil, err
	}
	if eval.Reconsidered {
		e.log.Info("Argument triggered reconsideration",
			"case_id", kase.ID, "side", side, "confidence", eval.Confidence)
	}
	return eval, nil
}
