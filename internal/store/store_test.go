package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subodh556/AI-Teacher-sub000/internal/difficulty"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func choice(id string, difficulty int, area string) *question.Question {
	return &question.Question{
		ID:              id,
		Prompt:          "Pick " + id,
		Difficulty:      difficulty,
		KnowledgeAreaID: area,
		Body: &question.Choice{
			Options: []question.Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
			Correct: []string{"a"},
		},
	}
}

func sampleAssessment() *question.Assessment {
	return &question.Assessment{
		ID:            "go-basics",
		Title:         "Go basics",
		TopicID:       "go",
		FormatVersion: question.SupportedFormat,
		Adaptive:      true,
		PassingScore:  70,
		Questions: []*question.Question{
			choice("q3", 3, "syntax"),
			choice("q1", 3, "types"),
			choice("q2", 2, "syntax"),
			{
				ID:              "q4",
				Prompt:          "Add the numbers",
				Difficulty:      4,
				KnowledgeAreaID: "types",
				Body: &question.MultiStep{Steps: []question.Step{
					{ID: "s1", Prompt: "1+1", Correct: "2"},
					{ID: "s2", Prompt: "2+2", Correct: "4"},
				}},
			},
		},
		Resources: map[string][]question.Resource{
			"syntax": {{ID: "tour", Title: "A Tour of Go", URL: "https://go.dev/tour"}},
		},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	// journal_mode falls back to "memory" for in-memory databases.
	for pragma, want := range map[string]string{"foreign_keys": "1", "synchronous": "1"} {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+pragma).Scan(&got))
		assert.Equal(t, want, got, pragma)
	}
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, migrate(context.Background(), s.drv))
}

func TestSaveAndLoadAssessment(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := sampleAssessment()

	require.NoError(t, s.SaveAssessment(ctx, a))
	got, err := s.LoadAssessment(ctx, a.ID)
	require.NoError(t, err)

	assert.Equal(t, a.Title, got.Title)
	assert.True(t, got.Adaptive)
	assert.Equal(t, 70, got.PassingScore)
	require.Len(t, got.Questions, 4)
	for i, q := range got.Questions {
		assert.Equal(t, a.Questions[i].ID, q.ID, "authoring order is kept")
	}
	assert.Equal(t, a.Questions[3].Body, got.Questions[3].Body)
	assert.Equal(t, a.Resources["syntax"], got.Resources["syntax"])
}

func TestSaveAssessment_ReplacesQuestions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := sampleAssessment()
	require.NoError(t, s.SaveAssessment(ctx, a))

	a.Questions = a.Questions[:1]
	a.Title = "Go basics, revised"
	require.NoError(t, s.SaveAssessment(ctx, a))

	got, err := s.LoadAssessment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go basics, revised", got.Title)
	assert.Len(t, got.Questions, 1)

	list, err := s.ListAssessments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].QuestionCount)
}

func TestSaveAssessment_RejectsMalformed(t *testing.T) {
	s := openTestStore(t)
	a := sampleAssessment()
	a.Questions[0].Difficulty = 9

	err := s.SaveAssessment(context.Background(), a)
	assert.ErrorIs(t, err, question.ErrMalformedQuestion)

	_, err = s.LoadAssessment(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindAt_StableOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment()))

	req := difficulty.SelectRequest{AssessmentID: "go-basics", Target: 3}
	q, err := s.FindAt(ctx, req, 3)
	require.NoError(t, err)
	assert.Equal(t, "q3", q.ID, "first in authoring order wins")

	req.Exclude = []string{"q3"}
	q, err = s.FindAt(ctx, req, 3)
	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)

	req.Exclude = []string{"q3", "q1"}
	q, err = s.FindAt(ctx, req, 3)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestFindAt_AreaFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment()))

	req := difficulty.SelectRequest{AssessmentID: "go-basics", Areas: []string{"types"}}
	q, err := s.FindAt(ctx, req, 3)
	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)
}

func TestFindAt_WithSelectFallsBackEasierFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment()))

	req := difficulty.SelectRequest{
		AssessmentID: "go-basics",
		Target:       3,
		Exclude:      []string{"q1", "q3"},
		Range:        difficulty.DefaultRange(),
	}
	q, level, err := difficulty.Select(ctx, s, req)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.Equal(t, "q2", q.ID)
}

func TestFindAt_RandomPolicyIsSeeded(t *testing.T) {
	pick := func(seed uint64) []string {
		picker := difficulty.NewPicker(difficulty.PolicyRandom, rand.New(rand.NewPCG(seed, seed)))
		s := openTestStore(t, WithPicker(picker))
		ctx := context.Background()
		require.NoError(t, s.SaveAssessment(ctx, sampleAssessment()))

		var ids []string
		for range 10 {
			q, err := s.FindAt(ctx, difficulty.SelectRequest{AssessmentID: "go-basics"}, 3)
			require.NoError(t, err)
			ids = append(ids, q.ID)
		}
		s.Close()
		return ids
	}
	assert.Equal(t, pick(7), pick(7))
}

func sampleResult(id, session string, at time.Time) *result.AssessmentResult {
	return &result.AssessmentResult{
		ID:               id,
		SessionID:        session,
		UserID:           "u1",
		AssessmentID:     "go-basics",
		TopicID:          "go",
		Score:            50,
		TimeTakenSeconds: 42,
		CompletedAt:      at,
		EndReason:        result.EndExhausted,
		QuestionResults: []result.QuestionResult{
			{QuestionID: "q3", Correct: true, UserAnswer: question.Text("a"), TimeTakenSeconds: 10, Difficulty: 3, KnowledgeAreaID: "syntax"},
			{QuestionID: "q4", Correct: false, UserAnswer: question.Keyed{"s1": "2", "s2": "5"}, TimeTakenSeconds: 32, Difficulty: 4, KnowledgeAreaID: "types"},
		},
		KnowledgeGaps: []result.KnowledgeGap{{AreaID: "types", Proficiency: 0}},
	}
}

func TestSaveResult_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := sampleResult("r1", "s1", at)

	require.NoError(t, s.SaveResult(ctx, want))

	got, err := s.Result(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.EndReason, got.EndReason)
	assert.True(t, at.Equal(got.CompletedAt))
	assert.Equal(t, want.QuestionResults, got.QuestionResults)
	assert.Equal(t, want.KnowledgeGaps[0].AreaID, got.KnowledgeGaps[0].AreaID)

	bySession, err := s.ResultBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "r1", bySession.ID)
}

func TestSaveResult_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := sampleResult("r1", "s1", time.Now())

	require.NoError(t, s.SaveResult(ctx, r))
	require.NoError(t, s.SaveResult(ctx, r))

	rs, err := s.ResultsForUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Len(t, rs[0].QuestionResults, 2)
}

func TestResultsForUser_OldestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("r%d", i)
		require.NoError(t, s.SaveResult(ctx, sampleResult(id, "s"+id, base.Add(time.Duration(i)*time.Hour))))
	}

	rs, err := s.ResultsForUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "r2", rs[0].ID)
	assert.Equal(t, "r3", rs[1].ID)

	_, err = s.Result(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKnowledgeAreas_Upsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertKnowledgeArea(ctx, KnowledgeArea{UserID: "u1", AreaID: "types", Proficiency: 20}))
	require.NoError(t, s.UpsertKnowledgeArea(ctx, KnowledgeArea{UserID: "u1", AreaID: "syntax", Proficiency: 60}))
	require.NoError(t, s.UpsertKnowledgeArea(ctx, KnowledgeArea{UserID: "u1", AreaID: "types", Proficiency: 40}))

	areas, err := s.KnowledgeAreas(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "types", areas[0].AreaID)
	assert.Equal(t, 40, areas[0].Proficiency)
}

func TestAppendLLMRequest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "m", Purpose: "question-gen",
		InputTokens: 10, OutputTokens: 20, LatencyMs: 300, Success: true,
	}))
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "m", Purpose: "question-gen", ErrorMessage: "boom",
	}))

	events, err := s.RecentLLMRequests(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "openai", events[0].Provider)
	assert.False(t, events[0].Success)
	assert.Equal(t, 20, events[1].OutputTokens)
}
