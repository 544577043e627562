package questiongen

import "github.com/subodh556/AI-Teacher-sub000/internal/llm"

func stringSchema(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func objectSchema(props map[string]any) map[string]any {
	required := make([]any, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func arraySchema(items map[string]any, desc string) map[string]any {
	return map[string]any{"type": "array", "items": items, "description": desc}
}

// QuestionSchema is the structured output asked of the model. Every field
// is required so strict providers accept it; fields of other kinds are
// left empty.
var QuestionSchema = &llm.Schema{
	Name:        "assessment-question",
	Description: "One assessment question with its answer key and explanation",
	Definition: objectSchema(map[string]any{
		"kind": map[string]any{
			"type":        "string",
			"enum":        []any{"choice", "short_text", "code", "multi_step"},
			"description": "The kind of question",
		},
		"prompt":      stringSchema("The question shown to the learner"),
		"explanation": stringSchema("Why the correct answer is correct, shown after answering"),
		"difficulty": map[string]any{
			"type":        "integer",
			"minimum":     1,
			"maximum":     5,
			"description": "Difficulty from 1 (easiest) to 5 (hardest)",
		},
		"options": arraySchema(objectSchema(map[string]any{
			"id":   stringSchema("Short option id such as a, b, c"),
			"text": stringSchema("Option text"),
		}), "choice only: the options. Empty for other kinds."),
		"correct_answers": arraySchema(
			map[string]any{"type": "string"},
			"choice: ids of the correct options; short_text: the canonical answer first, then accepted alternatives. Empty for other kinds.",
		),
		"multi_select": map[string]any{
			"type":        "boolean",
			"description": "choice only: true when more than one option is correct",
		},
		"language":     stringSchema("code only: the programming language"),
		"starter_code": stringSchema("code only: code the learner starts from, may be empty"),
		"test_cases": arraySchema(objectSchema(map[string]any{
			"input":           stringSchema("Program input"),
			"expected_output": stringSchema("Exact expected output"),
		}), "code only: test cases. Empty for other kinds."),
		"steps": arraySchema(objectSchema(map[string]any{
			"id":             stringSchema("Step id such as s1"),
			"prompt":         stringSchema("What this step asks"),
			"correct_answer": stringSchema("The step's answer"),
			"hint":           stringSchema("Optional hint, may be empty"),
		}), "multi_step only: the steps in order. Empty for other kinds."),
	}),
}
