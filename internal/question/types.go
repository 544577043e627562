package question

// Kind identifies which payload a Question carries.
type Kind string

const (
	KindChoice    Kind = "choice"
	KindShortText Kind = "short_text"
	KindCode      Kind = "code"
	KindMultiStep Kind = "multi_step"
)

// Difficulty bounds shared by every question.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Question is a single assessment item. Questions are read-only once an
// assessment has been loaded.
type Question struct {
	// ID is unique within its assessment.
	ID string `validate:"required"`

	// Prompt is the text shown to the learner.
	Prompt string `validate:"required"`

	// Explanation is shown after the learner answers. May be empty.
	Explanation string

	// Difficulty is in [MinDifficulty, MaxDifficulty].
	Difficulty int `validate:"min=1,max=5"`

	// KnowledgeAreaID tags the question for gap analysis. Optional.
	KnowledgeAreaID string

	// Body carries the kind-specific payload.
	Body Body `validate:"-"`
}

// Kind reports the kind of the question's payload, or "" if it has none.
func (q *Question) Kind() Kind {
	if q == nil || q.Body == nil {
		return ""
	}
	return q.Body.Kind()
}

// Body is the kind-specific part of a question. The set of implementations
// is closed: *Choice, *ShortText, *Code and *MultiStep.
type Body interface {
	Kind() Kind
	isBody()
}

// Option is one selectable answer of a choice question.
type Option struct {
	ID   string `validate:"required" yaml:"id" json:"id"`
	Text string `validate:"required" yaml:"text" json:"text"`
}

// Choice is a single- or multi-select question. Correct holds option ids;
// a single-select question has exactly one.
type Choice struct {
	Options []Option `validate:"min=2,dive"`
	Correct []string `validate:"min=1"`
	Multi   bool
}

// ShortText is a free-text question with one canonical answer and optional
// alternatives.
type ShortText struct {
	Correct       string `validate:"required"`
	CaseSensitive bool
	Acceptable    []string
}

// TestCase pairs an input with the output a correct program prints for it.
type TestCase struct {
	Input          string `yaml:"input" json:"input"`
	ExpectedOutput string `validate:"required" yaml:"expected_output" json:"expected_output"`
}

// Code asks the learner for source text, graded against its test cases.
type Code struct {
	Language    string
	StarterCode string
	TestCases   []TestCase `validate:"min=1,dive"`
}

// Step is one part of a multi-step question.
type Step struct {
	ID      string `validate:"required"`
	Prompt  string `validate:"required"`
	Correct string `validate:"required"`
	Hint    string
}

// MultiStep is answered step by step; every step must be right.
type MultiStep struct {
	Steps []Step `validate:"min=1,dive"`
}

func (*Choice) Kind() Kind    { return KindChoice }
func (*ShortText) Kind() Kind { return KindShortText }
func (*Code) Kind() Kind      { return KindCode }
func (*MultiStep) Kind() Kind { return KindMultiStep }

func (*Choice) isBody()    {}
func (*ShortText) isBody() {}
func (*Code) isBody()      {}
func (*MultiStep) isBody() {}

// Resource is study material recommended for a knowledge area.
type Resource struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
	Kind  string `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// Assessment is a question set plus the configuration a session runs under.
type Assessment struct {
	ID      string `validate:"required"`
	Title   string
	TopicID string

	// FormatVersion is the semantic version of the definition format.
	FormatVersion string

	// Questions in authoring order. Non-adaptive sessions walk them in this
	// order; adaptive sessions draw from them as a pool.
	Questions []*Question `validate:"-"`

	Adaptive bool

	// TimeLimitMinutes of 0 means no limit.
	TimeLimitMinutes int `validate:"min=0"`

	// PassingScore of 0 means the assessment has no pass mark.
	PassingScore int `validate:"min=0,max=100"`

	// DifficultyMin and DifficultyMax bound adaptive selection. Zero values
	// fall back to the full 1..5 range.
	DifficultyMin int `validate:"min=0,max=5"`
	DifficultyMax int `validate:"min=0,max=5"`

	// Resources maps a knowledge area id to its study material.
	Resources map[string][]Resource `validate:"-"`
}

// Question returns the question with the given id, or nil.
func (a *Assessment) Question(id string) *Question {
	for _, q := range a.Questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}
