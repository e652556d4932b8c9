package llm

import (
	"context"
	"errors"

	"github.com/overruled/mocktrial-backend/internal/apierr"
)

// PromptRetryPolicy names what the second attempt sends when the first
// response fails schema validation. Replay resends the identical prompt;
// Corrective appends a strict-JSON reminder. The choice is explicit
// configuration, not accidental behavior.
type PromptRetryPolicy string

const (
	PromptRetryReplay     PromptRetryPolicy = "replay"
	PromptRetryCorrective PromptRetryPolicy = "corrective"
)

// ParsePromptRetryPolicy maps a config string to a policy, defaulting to
// replay.
func ParsePromptRetryPolicy(s string) PromptRetryPolicy {
	if PromptRetryPolicy(s) == PromptRetryCorrective {
		return PromptRetryCorrective
	}
	return PromptRetryReplay
}

const correctiveSuffix = "\n\nYour previous reply was not a valid JSON object matching the required schema. Respond again with ONLY the JSON object and no other text."

// GenerateParsed runs one generation and parses the result, giving the
// backend one more chance when the output is malformed. Transport-level
// retries and model fallthrough already happen inside the generator; this
// layer only handles schema-validation failures.
func GenerateParsed[T any](
	ctx context.Context,
	gen TextGenerator,
	policy PromptRetryPolicy,
	systemPrompt, userPrompt string,
	parse func(string) (T, error),
) (T, error) {
	var zero T

	out, err := gen.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return zero, err
	}
	parsed, perr := parse(out)
	if perr == nil {
		return parsed, nil
	}
	if !errors.Is(perr, ErrMalformedResponse) {
		return zero, perr
	}

	retryPrompt := userPrompt
	if policy == PromptRetryCorrective {
		retryPrompt = userPrompt + correctiveSuffix
	}
	out, err = gen.Generate(ctx, systemPrompt, retryPrompt)
	if err != nil {
		return zero, err
	}
	parsed, perr = parse(out)
	if perr != nil {
		return zero, apierr.Wrap(apierr.KindGenerationFailed,
			"response failed schema validation on all attempts", perr)
	}
	return parsed, nil
}
