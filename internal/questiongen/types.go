// Package questiongen asks a language model for new assessment questions
// and checks them before they reach a question bank.
package questiongen

import (
	"context"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// Generator produces questions.
type Generator interface {
	// Generate returns one validated question for input.
	Generate(ctx context.Context, input GenerateInput) (*question.Question, error)
}

// GenerateInput describes the question wanted.
type GenerateInput struct {
	// Topic is what the question is about, e.g. "Go channels".
	Topic string `json:"topic"`

	// KnowledgeAreaID tags the generated question for gap analysis.
	KnowledgeAreaID string `json:"knowledge_area_id,omitempty"`

	Kind       question.Kind `json:"kind"`
	Difficulty int           `json:"difficulty"`

	// PriorPrompts are prompts already in the bank. The model is asked
	// not to repeat them.
	PriorPrompts []string `json:"prior_prompts,omitempty"`
}
