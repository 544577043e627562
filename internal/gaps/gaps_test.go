package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

func outcomes(area string, incorrect, total int) []Outcome {
	out := make([]Outcome, 0, total)
	for i := 0; i < total; i++ {
		out = append(out, Outcome{Correct: i >= incorrect, TopicArea: area})
	}
	return out
}

func TestAnalyze_OnlyFlaggedBucket(t *testing.T) {
	answers := append(outcomes("fractions", 3, 4), outcomes("decimals", 1, 4)...)
	got := Analyze([]Submission{{TopicID: "math", Score: 50, Answers: answers}})
	assert.Equal(t, map[string][]string{"math": {"fractions (75% error rate)"}}, got)
}

func TestDetect_ThresholdIsInclusive(t *testing.T) {
	half := Detect([]Submission{{TopicID: "t", Score: 50, Answers: outcomes("a", 50, 100)}})
	require.Len(t, half, 1)
	assert.Equal(t, "a (50% error rate)", half[0].Label())

	below := Detect([]Submission{{TopicID: "t", Score: 51, Answers: outcomes("a", 49, 100)}})
	assert.Empty(t, below)
}

func TestDetect_SkipsPassingSubmissions(t *testing.T) {
	subs := []Submission{
		{TopicID: "t", Score: 80, Answers: outcomes("a", 4, 4)},
		{TopicID: "t", Score: 79, Answers: outcomes("b", 4, 4)},
	}
	got := Detect(subs)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Area)
}

func TestDetect_DefaultArea(t *testing.T) {
	got := Analyze([]Submission{{TopicID: "t", Score: 0, Answers: []Outcome{{Correct: false}}}})
	assert.Equal(t, []string{"general (100% error rate)"}, got["t"])
}

func TestAnalyze_GroupsByTopicAndDeduplicates(t *testing.T) {
	subs := []Submission{
		{TopicID: "math", Score: 40, Answers: outcomes("fractions", 2, 2)},
		{TopicID: "math", Score: 30, Answers: outcomes("fractions", 2, 2)},
		{TopicID: "physics", Score: 10, Answers: append(outcomes("optics", 2, 3), outcomes("motion", 1, 1)...)},
	}
	got := Analyze(subs)
	assert.Equal(t, []string{"fractions (100% error rate)"}, got["math"])
	assert.Equal(t, []string{"motion (100% error rate)", "optics (67% error rate)"}, got["physics"])
}

func TestAnalyze_EmptyInput(t *testing.T) {
	assert.Empty(t, Analyze(nil))
	assert.Empty(t, Analyze([]Submission{{TopicID: "t", Score: 10}}))
}

func TestFromResult(t *testing.T) {
	r := &result.AssessmentResult{
		AssessmentID: "quiz-1",
		Score:        50,
		QuestionResults: []result.QuestionResult{
			{QuestionID: "q1", Correct: false, KnowledgeAreaID: "algebra"},
			{QuestionID: "q2", Correct: true},
		},
	}
	s := FromResult(r)
	assert.Equal(t, "quiz-1", s.TopicID)
	assert.Equal(t, []Outcome{{Correct: false, TopicArea: "algebra"}, {Correct: true}}, s.Answers)
}

func TestLive(t *testing.T) {
	results := []result.QuestionResult{
		{QuestionID: "1", Correct: false, KnowledgeAreaID: "geometry"},
		{QuestionID: "2", Correct: true, KnowledgeAreaID: "algebra"},
		{QuestionID: "3", Correct: true, KnowledgeAreaID: "geometry"},
		{QuestionID: "4", Correct: false, KnowledgeAreaID: "geometry"},
		{QuestionID: "5", Correct: false},
	}
	got := Live([]string{"geometry", "", "geometry", "unknown"}, results)
	assert.Equal(t, []AreaStat{{AreaID: "geometry", Correct: 1, Total: 3, Proficiency: 33}}, got)
}
