package question

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func singleChoice() *Question {
	return &Question{
		ID: "q1", Prompt: "Capital of France?", Difficulty: 2,
		Body: &Choice{
			Options: []Option{{ID: "a", Text: "Paris"}, {ID: "b", Text: "Lyon"}, {ID: "c", Text: "Nice"}},
			Correct: []string{"a"},
		},
	}
}

func multiChoice() *Question {
	return &Question{
		ID: "q2", Prompt: "Pick the primes", Difficulty: 3,
		Body: &Choice{
			Options: []Option{{ID: "a", Text: "2"}, {ID: "b", Text: "3"}, {ID: "c", Text: "4"}},
			Correct: []string{"a", "b"},
			Multi:   true,
		},
	}
}

func TestEvaluate_SingleChoice(t *testing.T) {
	q := singleChoice()
	tests := []struct {
		answer Answer
		want   bool
	}{
		{Text("a"), true},
		{Text("b"), false},
		{Text("A"), false},
		{Text(""), false},
		{List{"a"}, false},
		{nil, false},
	}
	for _, tc := range tests {
		if got := Evaluate(q, tc.answer); got != tc.want {
			t.Errorf("Evaluate(single, %#v) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestEvaluate_MultiChoiceOrderIndependent(t *testing.T) {
	q := multiChoice()
	if Evaluate(q, List{"a", "b"}) != Evaluate(q, List{"b", "a"}) {
		t.Fatal("multi-select verdict depends on order")
	}
	tests := []struct {
		answer Answer
		want   bool
	}{
		{List{"a", "b"}, true},
		{List{"b", "a"}, true},
		{List{"a"}, false},
		{List{"a", "b", "c"}, false},
		{List{"a", "a"}, false},
		{List{"a", "c"}, false},
		{List{}, false},
		{Text("a"), false},
	}
	for _, tc := range tests {
		if got := Evaluate(q, tc.answer); got != tc.want {
			t.Errorf("Evaluate(multi, %#v) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestEvaluate_ShortText(t *testing.T) {
	q := &Question{ID: "q", Prompt: "Capital?", Difficulty: 1, Body: &ShortText{Correct: "Paris", Acceptable: []string{"Paname"}}}
	tests := []struct {
		answer string
		want   bool
	}{
		{" paris ", true},
		{"PARIS", true},
		{"paname", true},
		{"Pari", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := Evaluate(q, Text(tc.answer)); got != tc.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestEvaluate_ShortTextCaseSensitive(t *testing.T) {
	q := &Question{ID: "q", Prompt: "Symbol?", Difficulty: 1, Body: &ShortText{Correct: "NaCl", CaseSensitive: true, Acceptable: []string{"ClNa"}}}
	tests := []struct {
		answer string
		want   bool
	}{
		{"NaCl", true},
		{"ClNa", false},
		{"clna", false},
		{"nacl", false},
		{" NaCl", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Evaluate(q, Text(tc.answer)), "answer %q", tc.answer)
	}
}

func TestEvaluate_Code(t *testing.T) {
	q := &Question{ID: "q", Prompt: "Print sums", Difficulty: 3, Body: &Code{
		Language: "python",
		TestCases: []TestCase{
			{Input: "1 2", ExpectedOutput: "3"},
			{Input: "2 2", ExpectedOutput: "4"},
		},
	}}
	if !Evaluate(q, Text("print(3)\nprint(4)")) {
		t.Error("expected source containing every output to pass")
	}
	if Evaluate(q, Text("print(3)")) {
		t.Error("expected source missing an output to fail")
	}
	if Evaluate(q, List{"3", "4"}) {
		t.Error("expected list answer to fail")
	}
}

func TestEvaluate_MultiStep(t *testing.T) {
	q := &Question{ID: "q", Prompt: "Solve", Difficulty: 4, Body: &MultiStep{Steps: []Step{
		{ID: "s1", Prompt: "Expand", Correct: "2x+2"},
		{ID: "s2", Prompt: "Solve", Correct: "x=1"},
	}}}
	tests := []struct {
		name   string
		answer Answer
		want   bool
	}{
		{"keyed all right", Keyed{"s1": "2x+2", "s2": "x=1"}, true},
		{"keyed one wrong", Keyed{"s1": "2x+2", "s2": "x = 1"}, false},
		{"keyed missing step", Keyed{"s1": "2x+2"}, false},
		{"list positional", List{"2x+2", "x=1"}, true},
		{"list wrong length", List{"2x+2"}, false},
		{"text", Text("2x+2"), false},
	}
	for _, tc := range tests {
		if got := Evaluate(q, tc.answer); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGradeAnswer_FlagsWrongShape(t *testing.T) {
	tests := []struct {
		name string
		q    *Question
		a    Answer
	}{
		{"list for single choice", singleChoice(), List{"a"}},
		{"text for multi choice", multiChoice(), Text("a")},
		{"keyed for short text", &Question{Body: &ShortText{Correct: "x"}}, Keyed{"a": "x"}},
	}
	for _, tc := range tests {
		g := GradeAnswer(tc.q, tc.a)
		if g.Correct || !g.Ambiguous {
			t.Errorf("%s: got %+v, want ambiguous and incorrect", tc.name, g)
		}
	}
}

func TestGradeAnswer_NeverPanics(t *testing.T) {
	questions := []*Question{
		nil,
		{},
		{Body: &Choice{}},
		{Body: &Choice{Multi: true}},
		{Body: &ShortText{}},
		{Body: &Code{}},
		{Body: &MultiStep{}},
	}
	answers := []Answer{nil, Text(""), List(nil), Keyed(nil), List{"x"}, Keyed{"x": "y"}}
	for _, q := range questions {
		for _, a := range answers {
			if GradeAnswer(q, a).Correct {
				t.Errorf("GradeAnswer(%+v, %#v) unexpectedly correct", q, a)
			}
		}
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		raw  string
		want Answer
	}{
		{`"a"`, Text("a")},
		{`["a","b"]`, List{"a", "b"}},
		{`{"s1":"x"}`, Keyed{"s1": "x"}},
		{`null`, nil},
		{``, nil},
		{`42`, nil},
		{`[1,2]`, nil},
	}
	for _, tc := range tests {
		got := ParseAnswer(json.RawMessage(tc.raw))
		gotJSON, _ := json.Marshal(got)
		wantJSON, _ := json.Marshal(tc.want)
		if string(gotJSON) != string(wantJSON) {
			t.Errorf("ParseAnswer(%s) = %s, want %s", tc.raw, gotJSON, wantJSON)
		}
	}
}
