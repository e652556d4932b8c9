package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overruled/mocktrial-backend/internal/apierr"
)

// scriptedGenerator returns canned outputs in order and records prompts.
type scriptedGenerator struct {
	outputs []string
	errs    []error
	prompts []string
}

func (s *scriptedGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, userPrompt)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var out string
	if i < len(s.outputs) {
		out = s.outputs[i]
	}
	return out, err
}

func TestGenerateParsedFirstTry(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{`{"verdict": "v", "reasoning": "r", "confidence": 50}`}}

	resp, err := GenerateParsed(context.Background(), gen, PromptRetryReplay, "sys", "user", ParseJudgmentResponse)
	require.NoError(t, err)
	assert.Equal(t, "v", resp.Verdict)
	assert.Len(t, gen.prompts, 1)
}

func TestGenerateParsedReplayResendsIdenticalPrompt(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{
		"sorry, I cannot format that",
		`{"verdict": "v", "reasoning": "r", "confidence": 50}`,
	}}

	resp, err := GenerateParsed(context.Background(), gen, PromptRetryReplay, "sys", "user", ParseJudgmentResponse)
	require.NoError(t, err)
	assert.Equal(t, "v", resp.Verdict)
	require.Len(t, gen.prompts, 2)
	assert.Equal(t, gen.prompts[0], gen.prompts[1], "replay policy must resend the identical prompt")
}

func TestGenerateParsedCorrectiveAppendsReminder(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{
		"not json",
		`{"verdict": "v", "reasoning": "r", "confidence": 50}`,
	}}

	_, err := GenerateParsed(context.Background(), gen, PromptRetryCorrective, "sys", "user", ParseJudgmentResponse)
	require.NoError(t, err)
	require.Len(t, gen.prompts, 2)
	assert.Equal(t, "user", gen.prompts[0])
	assert.True(t, strings.HasPrefix(gen.prompts[1], "user"))
	assert.Contains(t, gen.prompts[1], "ONLY the JSON object")
}

func TestGenerateParsedAllAttemptsMalformed(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"junk", "more junk"}}

	_, err := GenerateParsed(context.Background(), gen, PromptRetryReplay, "sys", "user", ParseJudgmentResponse)
	require.Error(t, err)
	assert.True(t, apierr.IsKind(err, apierr.KindGenerationFailed))
	assert.Len(t, gen.prompts, 2)
}

func TestGenerateParsedTransportErrorPassesThrough(t *testing.T) {
	wantErr := apierr.New(apierr.KindGenerationFailed, "all generation attempts exhausted")
	gen := &scriptedGenerator{errs: []error{wantErr}}

	_, err := GenerateParsed(context.Background(), gen, PromptRetryReplay, "sys", "user", ParseJudgmentResponse)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wantErr))
	assert.Len(t, gen.prompts, 1, "transport failures are not retried at this layer")
}

func TestParsePromptRetryPolicy(t *testing.T) {
	assert.Equal(t, PromptRetryReplay, ParsePromptRetryPolicy(""))
	assert.Equal(t, PromptRetryReplay, ParsePromptRetryPolicy("replay"))
	assert.Equal(t, PromptRetryCorrective, ParsePromptRetryPolicy("corrective"))
	assert.Equal(t, PromptRetryReplay, ParsePromptRetryPolicy("bogus"))
}
