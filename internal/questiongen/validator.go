package questiongen

import (
	"fmt"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// Validator checks a generated question. Implementations are stateless
// and safe for concurrent use.
type Validator interface {
	// Name is a short identifier such as "structural".
	Name() string

	// Validate returns nil when q is acceptable for input.
	Validate(q *question.Question, input GenerateInput) *ValidationError
}

// ValidationError says why a generated question was rejected.
type ValidationError struct {
	Validator string
	Message   string

	// Retryable is set when asking again is likely to help.
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
