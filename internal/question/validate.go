package question

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedQuestion matches every *MalformedQuestionError via errors.Is.
var ErrMalformedQuestion = errors.New("malformed question")

// Issue is one problem found while validating a question or assessment.
type Issue struct {
	Field   string
	Message string
}

// MalformedQuestionError lists every issue found in a definition. It is
// fatal to loading: an assessment with any issue never starts.
type MalformedQuestionError struct {
	Issues []Issue
}

func (e *MalformedQuestionError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrMalformedQuestion.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("%s: %s", ErrMalformedQuestion, strings.Join(parts, "; "))
}

func (e *MalformedQuestionError) Is(target error) bool {
	return target == ErrMalformedQuestion
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// check runs the struct tags of v and records each failure under prefix.
func (c *issueCollector) check(prefix string, v any) {
	err := structValidator.Struct(v)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		c.add(prefix, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		c.add(joinField(prefix, fieldPath(fe)), describe(fe))
	}
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &MalformedQuestionError{Issues: c.issues}
}

// fieldPath drops the root struct name from the validator namespace and
// lowercases the remaining segments.
func fieldPath(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	}
	return prefix + "." + field
}

func describe(fe validator.FieldError) string {
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isList {
			return fmt.Sprintf("must include at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return fmt.Sprintf("fails %q", fe.Tag())
}

// Validate reports every structural problem in q as a *MalformedQuestionError.
func Validate(q *Question) error {
	c := &issueCollector{}
	validateQuestion(c, "question", q)
	return c.result()
}

// ValidateAssessment checks the assessment settings and every question in
// it, including id uniqueness across questions.
func ValidateAssessment(a *Assessment) error {
	c := &issueCollector{}
	if a == nil {
		c.add("assessment", "is required")
		return c.result()
	}
	c.check("assessment", a)
	if a.DifficultyMin > 0 && a.DifficultyMax > 0 && a.DifficultyMin > a.DifficultyMax {
		c.add("assessment.difficulty_range", fmt.Sprintf("min %d exceeds max %d", a.DifficultyMin, a.DifficultyMax))
	}
	if len(a.Questions) == 0 {
		c.add("assessment.questions", "must include at least one entry")
	}

	seen := make(map[string]struct{}, len(a.Questions))
	for i, q := range a.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		validateQuestion(c, prefix, q)
		if q == nil || q.ID == "" {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			c.add(prefix+".id", fmt.Sprintf("duplicate id %q", q.ID))
		}
		seen[q.ID] = struct{}{}
	}
	return c.result()
}

func validateQuestion(c *issueCollector, prefix string, q *Question) {
	if q == nil {
		c.add(prefix, "is required")
		return
	}
	c.check(prefix, q)

	switch b := q.Body.(type) {
	case *Choice:
		c.check(prefix, b)
		validateChoice(c, prefix, b)
	case *ShortText:
		c.check(prefix, b)
		if strings.TrimSpace(b.Correct) == "" && b.Correct != "" {
			c.add(prefix+".correct", "must not be blank")
		}
	case *Code:
		c.check(prefix, b)
	case *MultiStep:
		c.check(prefix, b)
		seen := make(map[string]struct{}, len(b.Steps))
		for i, s := range b.Steps {
			if _, dup := seen[s.ID]; dup && s.ID != "" {
				c.add(fmt.Sprintf("%s.steps[%d].id", prefix, i), fmt.Sprintf("duplicate id %q", s.ID))
			}
			seen[s.ID] = struct{}{}
		}
	case nil:
		c.add(prefix+".kind", "is required")
	default:
		c.add(prefix+".kind", fmt.Sprintf("unsupported payload %T", b))
	}
}

func validateChoice(c *issueCollector, prefix string, b *Choice) {
	ids := make(map[string]struct{}, len(b.Options))
	for i, o := range b.Options {
		if _, dup := ids[o.ID]; dup && o.ID != "" {
			c.add(fmt.Sprintf("%s.options[%d].id", prefix, i), fmt.Sprintf("duplicate id %q", o.ID))
		}
		ids[o.ID] = struct{}{}
	}
	if !b.Multi && len(b.Correct) > 1 {
		c.add(prefix+".correct", fmt.Sprintf("single-select question lists %d correct options", len(b.Correct)))
	}
	seen := make(map[string]struct{}, len(b.Correct))
	for i, id := range b.Correct {
		field := fmt.Sprintf("%s.correct[%d]", prefix, i)
		if _, ok := ids[id]; !ok {
			c.add(field, fmt.Sprintf("unknown option %q", id))
		}
		if _, dup := seen[id]; dup {
			c.add(field, fmt.Sprintf("duplicate option %q", id))
		}
		seen[id] = struct{}{}
	}
}
