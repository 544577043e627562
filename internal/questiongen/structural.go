package questiongen

import (
	"fmt"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

const (
	maxPromptLen      = 1000
	maxExplanationLen = 2000
)

// StructuralValidator applies the question bank's own validation plus
// length limits on model output.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *question.Question, _ GenerateInput) *ValidationError {
	if err := question.Validate(q); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error(), Retryable: true}
	}
	if len(q.Prompt) > maxPromptLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("prompt exceeds %d characters", maxPromptLen),
			Retryable: true,
		}
	}
	if q.Explanation == "" {
		return &ValidationError{Validator: v.Name(), Message: "explanation is empty", Retryable: true}
	}
	if len(q.Explanation) > maxExplanationLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen),
			Retryable: true,
		}
	}
	return nil
}

// RequestMatchValidator rejects questions of another kind or difficulty
// than requested.
type RequestMatchValidator struct{}

func (v *RequestMatchValidator) Name() string { return "request-match" }

func (v *RequestMatchValidator) Validate(q *question.Question, input GenerateInput) *ValidationError {
	if input.Kind != "" && q.Kind() != input.Kind {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("kind is %q, requested %q", q.Kind(), input.Kind),
			Retryable: true,
		}
	}
	if input.Difficulty != 0 && q.Difficulty != input.Difficulty {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("difficulty is %d, requested %d", q.Difficulty, input.Difficulty),
			Retryable: true,
		}
	}
	return nil
}
