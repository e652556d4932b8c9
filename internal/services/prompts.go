package services

import (
	"fmt"
	"strings"

	"github.com/overruled/mocktrial-backend/internal/types"
)

const tentativeSystemPrompt = `You are an impartial judge presiding over a mock trial.
You are given both sides of a civil case and must produce a PRELIMINARY assessment.

RULES:
1. This is a tentative judgment made before either side has argued back. Use tentative
   language throughout ("appears", "on the current record", "provisionally"). No
   determination may be framed as conclusive.
2. Confidence must be between 40 and 70.
3. Ground the legal basis in the stated jurisdiction where possible.
4. Respond with ONLY a JSON object of the form:
{"verdict": "...", "reasoning": "...", "legal_basis": ["..."], "confidence": 55}`

const argumentSystemPrompt = `You are an impartial judge presiding over a mock trial.
A preliminary judgment exists and one party now submits a rebuttal argument.
Evaluate the argument against the current judgment and the full argument history.

RULES:
1. Address the argument on its merits. Say which side it strengthens or weakens, if either.
2. Decide honestly whether it changes your reasoning. Set "reconsidered" to true ONLY if
   your reasoning or confidence genuinely shifts; in that case "updated_reasoning" is required.
3. The verdict label itself stays fixed at this stage; only reasoning and confidence move.
4. Keep a provisional tone. Note what uncertainty remains.
5. Respond with ONLY a JSON object of the form:
{"response": "...", "strengthens": "A|B|Neither", "weakens": "A|B|Neither",
 "uncertainty_remains": "...", "reconsidered": false, "updated_reasoning": "...",
 "provisional_note": "...", "confidence": 55}`

const finalSystemPrompt = `You are an impartial judge presiding over a mock trial.
All argument rounds are complete. Deliver the FINAL, conclusive verdict.

RULES:
1. The reasoning must be comprehensive and must explicitly reference how the assessment
   evolved across the preliminary judgment and the argument rounds.
2. Cite the complete legal basis for the outcome.
3. Confidence must be between 70 and 95. Conclusive language is required.
4. Respond with ONLY a JSON object of the form:
{"verdict": "...", "reasoning": "...", "legal_basis": ["..."], "confidence": 85}`

// buildCaseContext renders both sides, their evidence and any extracted
// document text in a stable order.
func buildCaseContext(kase *types.Case) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CASE TYPE: %s\nJURISDICTION: %s\n", kase.CaseType, kase.Jurisdiction)

	for _, token := range []string{types.SideA, types.SideB} {
		side := kase.SideByToken(token)
		if side == nil {
			continue
		}
		label := "SIDE A (plaintiff/prosecution)"
		if token == types.SideB {
			label = "SIDE B (defendant/defense)"
		}
		fmt.Fprintf(&b, "\n%s:\nSummary: %s\n", label, side.Summary)
		for i, ev := range side.Evidence {
			fmt.Fprintf(&b, "Evidence %d: %s\n", i+1, ev)
		}
		for i, doc := range side.Documents {
			fmt.Fprintf(&b, "Document %d:\n%s\n", i+1, doc)
		}
	}
	return b.String()
}

func buildJudgmentContext(j *types.Judgment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CURRENT JUDGMENT (version %d, %s):\nVerdict: %s\nReasoning: %s\n",
		j.Version, j.Stage, j.Verdict, j.Reasoning)
	for i, basis := range j.LegalBasis {
		fmt.Fprintf(&b, "Legal basis %d: %s\n", i+1, basis)
	}
	fmt.Fprintf(&b, "Confidence: %d\n", j.Confidence)
	return b.String()
}

func buildArgumentHistory(history []types.Argument) string {
	if len(history) == 0 {
		return "No arguments have been submitted yet.\n"
	}
	var b strings.Builder
	b.WriteString("ARGUMENT HISTORY (in submission order):\n")
	for _, a := range history {
		fmt.Fprintf(&b, "Round %d, side %s: %s\nCourt's response: %s\n",
			a.SequenceNumber, a.Side, a.ArgumentText, a.ResponseText)
	}
	return b.String()
}

func tentativeJudgmentPrompt(kase *types.Case) (system, user string) {
	user = fmt.Sprintf("%s\nGive your preliminary assessment as the required JSON object.",
		buildCaseContext(kase))
	return tentativeSystemPrompt, user
}

func argumentEvaluationPrompt(kase *types.Case, current *types.Judgment, history []types.Argument, side, argumentText string) (system, user string) {
	user = fmt.Sprintf("%s\n%s\n%s\nNEW ARGUMENT from side %s:\n%s\n\nEvaluate it as the required JSON object.",
		buildCaseContext(kase),
		buildJudgmentContext(current),
		buildArgumentHistory(history),
		side, argumentText)
	return argumentSystemPrompt, user
}

func finalVerdictPrompt(kase *types.Case, current *types.Judgment, history []types.Argument) (system, user string) {
	user = fmt.Sprintf("%s\n%s\n%s\nDeliver the final verdict as the required JSON object.",
		buildCaseContext(kase),
		buildJudgmentContext(current),
		buildArgumentHistory(history))
	return finalSystemPrompt, user
}

// clampConfidence forces a model-reported confidence into the band the
// protocol demands for the given stage.
func clampConfidence(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
