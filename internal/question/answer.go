package question

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Answer is a learner's submission. The set of implementations is closed:
// Text, List and Keyed.
type Answer interface {
	isAnswer()
}

// Text is a single string answer: an option id, free text or source code.
type Text string

// List is an ordered list of strings: option ids for multi-select, or step
// answers in step order.
type List []string

// Keyed maps a step id to that step's answer.
type Keyed map[string]string

func (Text) isAnswer()  {}
func (List) isAnswer()  {}
func (Keyed) isAnswer() {}

// ParseAnswer maps a JSON string, array of strings or object of strings to
// Text, List or Keyed. Anything else, including null, yields nil.
func ParseAnswer(raw json.RawMessage) Answer {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return Text(s)
		}
	case '[':
		var l []string
		if json.Unmarshal(raw, &l) == nil {
			return List(l)
		}
	case '{':
		var m map[string]string
		if json.Unmarshal(raw, &m) == nil {
			return Keyed(m)
		}
	}
	return nil
}

// Grade is the outcome of evaluating one answer.
type Grade struct {
	Correct bool

	// Ambiguous is set when the answer's shape does not fit the question
	// kind. Such answers are graded incorrect.
	Ambiguous bool
}

// Evaluate reports whether a is a correct answer to q. It never panics; a
// nil question or answer is incorrect.
func Evaluate(q *Question, a Answer) bool {
	return GradeAnswer(q, a).Correct
}

// GradeAnswer evaluates a against q and flags answers of the wrong shape.
func GradeAnswer(q *Question, a Answer) Grade {
	if q == nil || a == nil {
		return Grade{}
	}
	switch b := q.Body.(type) {
	case *Choice:
		return gradeChoice(b, a)
	case *ShortText:
		t, ok := a.(Text)
		if !ok {
			return Grade{Ambiguous: true}
		}
		return Grade{Correct: b.matches(string(t))}
	case *Code:
		t, ok := a.(Text)
		if !ok {
			return Grade{Ambiguous: true}
		}
		return Grade{Correct: b.passes(string(t))}
	case *MultiStep:
		return gradeSteps(b, a)
	}
	return Grade{Ambiguous: true}
}

func gradeChoice(b *Choice, a Answer) Grade {
	if !b.Multi {
		t, ok := a.(Text)
		if !ok {
			return Grade{Ambiguous: true}
		}
		return Grade{Correct: len(b.Correct) == 1 && string(t) == b.Correct[0]}
	}

	l, ok := a.(List)
	if !ok {
		return Grade{Ambiguous: true}
	}
	return Grade{Correct: sameSet(l, b.Correct)}
}

// sameSet requires equal sizes and containment in both directions, so a
// submission with repeats never matches a larger correct set.
func sameSet(got, want []string) bool {
	if len(want) == 0 || len(got) != len(want) {
		return false
	}
	wantSet := make(map[string]struct{}, len(want))
	for _, w := range want {
		wantSet[w] = struct{}{}
	}
	gotSet := make(map[string]struct{}, len(got))
	for _, g := range got {
		if _, ok := wantSet[g]; !ok {
			return false
		}
		gotSet[g] = struct{}{}
	}
	for w := range wantSet {
		if _, ok := gotSet[w]; !ok {
			return false
		}
	}
	return true
}

// matches compares case-sensitive answers byte for byte against Correct
// alone. Acceptable alternatives only apply to case-folded comparison.
func (b *ShortText) matches(answer string) bool {
	if b.CaseSensitive {
		return b.Correct != "" && answer == b.Correct
	}
	answer = strings.TrimSpace(answer)
	for _, c := range append([]string{b.Correct}, b.Acceptable...) {
		c = strings.TrimSpace(c)
		if c != "" && strings.EqualFold(answer, c) {
			return true
		}
	}
	return false
}

// passes checks that every expected output appears in the submitted text.
// Nothing is executed.
func (b *Code) passes(source string) bool {
	if len(b.TestCases) == 0 {
		return false
	}
	for _, tc := range b.TestCases {
		if !strings.Contains(source, tc.ExpectedOutput) {
			return false
		}
	}
	return true
}

func gradeSteps(b *MultiStep, a Answer) Grade {
	if len(b.Steps) == 0 {
		return Grade{}
	}
	switch v := a.(type) {
	case Keyed:
		for _, s := range b.Steps {
			got, ok := v[s.ID]
			if !ok || got != s.Correct {
				return Grade{}
			}
		}
		return Grade{Correct: true}
	case List:
		if len(v) != len(b.Steps) {
			return Grade{Ambiguous: true}
		}
		for i, s := range b.Steps {
			if v[i] != s.Correct {
				return Grade{}
			}
		}
		return Grade{Correct: true}
	}
	return Grade{Ambiguous: true}
}
