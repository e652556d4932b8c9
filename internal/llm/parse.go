package llm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedResponse marks output that could not be parsed or that
// failed schema validation. It is distinct from transport failures and is
// retryable once (the second attempt is a chance for the backend to emit
// conformant output, not a guaranteed fix).
var ErrMalformedResponse = errors.New("malformed generation response")

var validate = validator.New()

// JudgmentResponse is the structured contract for tentative and final
// judgments. Unrecognized extra fields in the raw response are ignored.
type JudgmentResponse struct {
	Verdict    string   `json:"verdict" validate:"required"`
	Reasoning  string   `json:"reasoning" validate:"required"`
	LegalBasis []string `json:"legal_basis"`
	Confidence int      `json:"confidence" validate:"gte=0,lte=100"`
}

// ArgumentEvaluation is the structured contract for one rebuttal round.
// UpdatedReasoning must be present when Reconsidered is true.
type ArgumentEvaluation struct {
	Response         string `json:"response" validate:"required"`
	Strengthens      string `json:"strengthens" validate:"omitempty,oneof=A B Neither"`
	Weakens          string `json:"weakens" validate:"omitempty,oneof=A B Neither"`
	Uncertainty      string `json:"uncertainty_remains"`
	Reconsidered     bool   `json:"reconsidered"`
	UpdatedReasoning string `json:"updated_reasoning" validate:"required_if=Reconsidered true"`
	ProvisionalNote  string `json:"provisional_note"`
	Confidence       int    `json:"confidence" validate:"gte=0,lte=100"`
}

// ExtractJSON returns the first balanced top-level {...} span in text,
// tolerating surrounding prose and markdown fences. Braces inside JSON
// strings are skipped.
func ExtractJSON(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
}

// ParseJudgmentResponse extracts and validates a judgment payload.
func ParseJudgmentResponse(text string) (*JudgmentResponse, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var resp JudgmentResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validate.Struct(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// ParseArgumentEvaluation extracts and validates a rebuttal evaluation.
func ParseArgumentEvaluation(text string) (*ArgumentEvaluation, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var resp ArgumentEvaluation
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validate.Struct(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}
