package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write questions for an adaptive assessment engine used by self-directed learners.

Rules:
- Write exactly one question on the given topic, of the given kind and difficulty.
- Difficulty runs from 1 (recall of a basic fact) to 5 (applying several ideas to an unfamiliar problem).
- The prompt must be self-contained and unambiguous. Never reveal the answer in it.
- choice: give 3 to 5 options with short ids (a, b, c, ...). Put the ids of the correct options in correct_answers. Set multi_select only when more than one option is correct. Distractors should reflect common misconceptions.
- short_text: put the canonical answer first in correct_answers, followed by equivalent accepted spellings.
- code: give at least two test cases with exact expected output.
- multi_step: give 2 to 4 steps that build on each other, each with a short exact answer.
- Leave every field that does not belong to the question's kind empty.
- The explanation says why the answer is correct in a few sentences.
- Do not repeat any question from the "already in the bank" list.`

func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	if input.KnowledgeAreaID != "" {
		fmt.Fprintf(&b, "Knowledge area: %s\n", input.KnowledgeAreaID)
	}
	fmt.Fprintf(&b, "Kind: %s\n", input.Kind)
	fmt.Fprintf(&b, "Difficulty: %d\n", input.Difficulty)
	b.WriteString("\nAlready in the bank:\n")
	b.WriteString(buildDedup(input.PriorPrompts, cfg.MaxPriorPrompts))
	return b.String()
}

// buildDedup lists the most recent max prompts, or "None".
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}
	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
