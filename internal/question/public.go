package question

// PublicQuestion is what a learner may see of a question: no correct
// answers, no explanation, no expected outputs.
type PublicQuestion struct {
	ID              string       `json:"id"`
	Kind            Kind         `json:"kind"`
	Prompt          string       `json:"prompt"`
	Difficulty      int          `json:"difficulty"`
	KnowledgeAreaID string       `json:"knowledge_area_id,omitempty"`
	Options         []Option     `json:"options,omitempty"`
	MultiSelect     bool         `json:"multi_select,omitempty"`
	Language        string       `json:"language,omitempty"`
	StarterCode     string       `json:"starter_code,omitempty"`
	TestInputs      []string     `json:"test_inputs,omitempty"`
	Steps           []PublicStep `json:"steps,omitempty"`
}

// PublicStep is a multi-step question's step without its answer.
type PublicStep struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Hint   string `json:"hint,omitempty"`
}

// PublicView strips everything that would give the answer away.
func PublicView(q *Question) PublicQuestion {
	p := PublicQuestion{
		ID:              q.ID,
		Kind:            q.Kind(),
		Prompt:          q.Prompt,
		Difficulty:      q.Difficulty,
		KnowledgeAreaID: q.KnowledgeAreaID,
	}
	switch b := q.Body.(type) {
	case *Choice:
		p.Options = append([]Option(nil), b.Options...)
		p.MultiSelect = b.Multi
	case *ShortText:
	case *Code:
		p.Language = b.Language
		p.StarterCode = b.StarterCode
		for _, tc := range b.TestCases {
			p.TestInputs = append(p.TestInputs, tc.Input)
		}
	case *MultiStep:
		for _, s := range b.Steps {
			p.Steps = append(p.Steps, PublicStep{ID: s.ID, Prompt: s.Prompt, Hint: s.Hint})
		}
	}
	return p
}
