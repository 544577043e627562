package question

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// AssessmentDoc is the on-disk form of an assessment definition.
type AssessmentDoc struct {
	FormatVersion    string                `yaml:"format_version,omitempty" json:"format_version,omitempty"`
	ID               string                `yaml:"id" json:"id"`
	Title            string                `yaml:"title,omitempty" json:"title,omitempty"`
	TopicID          string                `yaml:"topic_id,omitempty" json:"topic_id,omitempty"`
	Adaptive         bool                  `yaml:"adaptive,omitempty" json:"adaptive,omitempty"`
	TimeLimitMinutes int                   `yaml:"time_limit_minutes,omitempty" json:"time_limit_minutes,omitempty"`
	PassingScore     int                   `yaml:"passing_score,omitempty" json:"passing_score,omitempty"`
	DifficultyRange  *RangeDoc             `yaml:"difficulty_range,omitempty" json:"difficulty_range,omitempty"`
	Questions        []QuestionDoc         `yaml:"questions" json:"questions"`
	Resources        map[string][]Resource `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// RangeDoc bounds adaptive difficulty.
type RangeDoc struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// QuestionDoc is the flat record shape of a question. Only the fields of
// its kind are set. Generated questions arrive in this shape too.
type QuestionDoc struct {
	ID              string `yaml:"id" json:"id"`
	Kind            Kind   `yaml:"kind" json:"kind"`
	Prompt          string `yaml:"prompt" json:"prompt"`
	Explanation     string `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	Difficulty      int    `yaml:"difficulty" json:"difficulty"`
	KnowledgeAreaID string `yaml:"knowledge_area_id,omitempty" json:"knowledge_area_id,omitempty"`

	// choice
	Options []Option `yaml:"options,omitempty" json:"options,omitempty"`

	// choice and short_text
	CorrectAnswer *StringOrList `yaml:"correct_answer,omitempty" json:"correct_answer,omitempty"`

	// short_text
	CaseSensitive     bool     `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty"`
	AcceptableAnswers []string `yaml:"acceptable_answers,omitempty" json:"acceptable_answers,omitempty"`

	// code
	Language    string     `yaml:"language,omitempty" json:"language,omitempty"`
	StarterCode string     `yaml:"starter_code,omitempty" json:"starter_code,omitempty"`
	TestCases   []TestCase `yaml:"test_cases,omitempty" json:"test_cases,omitempty"`

	// multi_step
	Steps []StepDoc `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// StepDoc is the record shape of a multi-step question's step.
type StepDoc struct {
	ID            string `yaml:"id" json:"id"`
	Prompt        string `yaml:"prompt" json:"prompt"`
	CorrectAnswer string `yaml:"correct_answer" json:"correct_answer"`
	Hint          string `yaml:"hint,omitempty" json:"hint,omitempty"`
}

// StringOrList decodes either a scalar or a list of strings. List records
// which form was used: a list marks a choice question as multi-select.
type StringOrList struct {
	Values []string
	List   bool
}

// Single wraps one value in scalar form.
func Single(v string) *StringOrList { return &StringOrList{Values: []string{v}} }

// Many wraps values in list form.
func Many(v ...string) *StringOrList { return &StringOrList{Values: v, List: true} }

func (s *StringOrList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = StringOrList{Values: []string{node.Value}}
		return nil
	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		*s = StringOrList{Values: values, List: true}
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
}

func (s StringOrList) MarshalYAML() (any, error) {
	if s.List || len(s.Values) != 1 {
		return s.Values, nil
	}
	return s.Values[0], nil
}

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = StringOrList{Values: []string{one}}
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("expected a string or a list of strings")
	}
	*s = StringOrList{Values: values, List: true}
	return nil
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	if s.List || len(s.Values) != 1 {
		if s.Values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.Values)
	}
	return json.Marshal(s.Values[0])
}

// ToQuestion converts the record into a Question. Shape problems the
// validator cannot see, such as an unknown kind, are reported here; the
// result still needs Validate.
func (d QuestionDoc) ToQuestion() (*Question, error) {
	q := &Question{
		ID:              d.ID,
		Prompt:          d.Prompt,
		Explanation:     d.Explanation,
		Difficulty:      d.Difficulty,
		KnowledgeAreaID: d.KnowledgeAreaID,
	}
	c := &issueCollector{}

	switch d.Kind {
	case KindChoice:
		b := &Choice{Options: d.Options}
		if d.CorrectAnswer != nil {
			b.Correct = d.CorrectAnswer.Values
			b.Multi = d.CorrectAnswer.List
		}
		q.Body = b
	case KindShortText:
		b := &ShortText{CaseSensitive: d.CaseSensitive, Acceptable: d.AcceptableAnswers}
		if d.CorrectAnswer != nil {
			if d.CorrectAnswer.List {
				c.add("correct_answer", "must be a single string for short_text")
			} else if len(d.CorrectAnswer.Values) == 1 {
				b.Correct = d.CorrectAnswer.Values[0]
			}
		}
		q.Body = b
	case KindCode:
		q.Body = &Code{Language: d.Language, StarterCode: d.StarterCode, TestCases: d.TestCases}
	case KindMultiStep:
		b := &MultiStep{Steps: make([]Step, 0, len(d.Steps))}
		for _, s := range d.Steps {
			b.Steps = append(b.Steps, Step{ID: s.ID, Prompt: s.Prompt, Correct: s.CorrectAnswer, Hint: s.Hint})
		}
		q.Body = b
	case "":
		c.add("kind", "is required")
	default:
		c.add("kind", fmt.Sprintf("unknown kind %q", d.Kind))
	}
	if q.Body != nil {
		for _, f := range d.foreignFields() {
			c.add(f, fmt.Sprintf("is not allowed for %s", d.Kind))
		}
	}
	if err := c.result(); err != nil {
		return nil, err
	}
	return q, nil
}

// foreignFields names the set fields that belong to another kind.
func (d QuestionDoc) foreignFields() []string {
	fields := []struct {
		name  string
		set   bool
		kinds []Kind
	}{
		{"options", len(d.Options) > 0, []Kind{KindChoice}},
		{"correct_answer", d.CorrectAnswer != nil, []Kind{KindChoice, KindShortText}},
		{"case_sensitive", d.CaseSensitive, []Kind{KindShortText}},
		{"acceptable_answers", len(d.AcceptableAnswers) > 0, []Kind{KindShortText}},
		{"language", d.Language != "", []Kind{KindCode}},
		{"starter_code", d.StarterCode != "", []Kind{KindCode}},
		{"test_cases", len(d.TestCases) > 0, []Kind{KindCode}},
		{"steps", len(d.Steps) > 0, []Kind{KindMultiStep}},
	}
	var out []string
	for _, f := range fields {
		if f.set && !slices.Contains(f.kinds, d.Kind) {
			out = append(out, f.name)
		}
	}
	return out
}

// DocFromQuestion converts q back into its record shape.
func DocFromQuestion(q *Question) QuestionDoc {
	d := QuestionDoc{
		ID:              q.ID,
		Kind:            q.Kind(),
		Prompt:          q.Prompt,
		Explanation:     q.Explanation,
		Difficulty:      q.Difficulty,
		KnowledgeAreaID: q.KnowledgeAreaID,
	}
	switch b := q.Body.(type) {
	case *Choice:
		d.Options = b.Options
		d.CorrectAnswer = &StringOrList{Values: b.Correct, List: b.Multi}
	case *ShortText:
		d.CorrectAnswer = Single(b.Correct)
		d.CaseSensitive = b.CaseSensitive
		d.AcceptableAnswers = b.Acceptable
	case *Code:
		d.Language = b.Language
		d.StarterCode = b.StarterCode
		d.TestCases = b.TestCases
	case *MultiStep:
		for _, s := range b.Steps {
			d.Steps = append(d.Steps, StepDoc{ID: s.ID, Prompt: s.Prompt, CorrectAnswer: s.Correct, Hint: s.Hint})
		}
	}
	return d
}

// MarshalQuestion encodes q as a JSON record.
func MarshalQuestion(q *Question) ([]byte, error) {
	return json.Marshal(DocFromQuestion(q))
}

// UnmarshalQuestion decodes and validates a JSON record.
func UnmarshalQuestion(data []byte) (*Question, error) {
	var d QuestionDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode question: %w", err)
	}
	q, err := d.ToQuestion()
	if err != nil {
		return nil, err
	}
	if err := Validate(q); err != nil {
		return nil, err
	}
	return q, nil
}
