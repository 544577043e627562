package difficulty

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

func TestNext_Bounds(t *testing.T) {
	for d := 1; d <= 5; d++ {
		up := Next(d, true)
		if up < d || up > 5 {
			t.Errorf("Next(%d, true) = %d, want in [%d, 5]", d, up, d)
		}
		down := Next(d, false)
		if down < 1 || down > d {
			t.Errorf("Next(%d, false) = %d, want in [1, %d]", d, down, d)
		}
	}
	if got := Next(5, true); got != 5 {
		t.Errorf("Next(5, true) = %d, want 5", got)
	}
	if got := Next(1, false); got != 1 {
		t.Errorf("Next(1, false) = %d, want 1", got)
	}
	if got := Next(3, true); got != 4 {
		t.Errorf("Next(3, true) = %d, want 4", got)
	}
	if got := Next(4, false); got != 3 {
		t.Errorf("Next(4, false) = %d, want 3", got)
	}
}

func TestRange_NextStaysInside(t *testing.T) {
	r := Range{Min: 2, Max: 4}
	assert.Equal(t, 4, r.Next(4, true))
	assert.Equal(t, 2, r.Next(2, false))
	assert.Equal(t, 3, StartLevel(r))
	assert.Equal(t, 2, StartLevel(Range{Min: 1, Max: 2}))
	assert.Equal(t, 4, StartLevel(Range{Min: 4, Max: 5}))
}

func TestRangeOf(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     Range
	}{
		{"unset", 0, 0, Range{1, 5}},
		{"narrow", 2, 4, Range{2, 4}},
		{"only min", 3, 0, Range{3, 5}},
		{"inverted", 4, 2, Range{1, 5}},
	}
	for _, tc := range tests {
		got := RangeOf(&question.Assessment{DifficultyMin: tc.min, DifficultyMax: tc.max})
		if got != tc.want {
			t.Errorf("%s: RangeOf = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func q(id string, d int, area string) *question.Question {
	return &question.Question{
		ID: id, Prompt: id, Difficulty: d, KnowledgeAreaID: area,
		Body: &question.ShortText{Correct: id},
	}
}

func TestLevels_FallbackOrder(t *testing.T) {
	assert.Equal(t, []int{3, 2, 4}, Levels(SelectRequest{Target: 3}))
	assert.Equal(t, []int{1, 2}, Levels(SelectRequest{Target: 1}))
	assert.Equal(t, []int{5, 4}, Levels(SelectRequest{Target: 5}))
	assert.Equal(t, []int{2, 3}, Levels(SelectRequest{Target: 2, Range: Range{Min: 2, Max: 3}}))
}

func TestSelect_PrefersEasierFallback(t *testing.T) {
	pool := NewPoolFinder([]*question.Question{q("hard", 4, ""), q("easy", 2, "")}, nil)
	got, level, err := Select(context.Background(), pool, SelectRequest{Target: 3})
	require.NoError(t, err)
	assert.Equal(t, "easy", got.ID)
	assert.Equal(t, 2, level)
}

func TestSelect_HarderWhenNothingEasier(t *testing.T) {
	pool := NewPoolFinder([]*question.Question{q("hard", 4, ""), q("easy", 2, "")}, nil)
	got, level, err := Select(context.Background(), pool, SelectRequest{Target: 3, Exclude: []string{"easy"}})
	require.NoError(t, err)
	assert.Equal(t, "hard", got.ID)
	assert.Equal(t, 4, level)
}

func TestSelect_NoQuestionAvailable(t *testing.T) {
	pool := NewPoolFinder([]*question.Question{q("a", 1, ""), q("b", 5, "")}, nil)
	_, _, err := Select(context.Background(), pool, SelectRequest{Target: 3})
	assert.ErrorIs(t, err, ErrNoQuestionAvailable)
}

func TestSelect_AreaFilter(t *testing.T) {
	pool := NewPoolFinder([]*question.Question{q("alg", 3, "algebra"), q("geo", 3, "geometry")}, nil)
	got, _, err := Select(context.Background(), pool, SelectRequest{Target: 3, Areas: []string{"geometry"}})
	require.NoError(t, err)
	assert.Equal(t, "geo", got.ID)
}

type failingFinder struct{}

func (failingFinder) FindAt(context.Context, SelectRequest, int) (*question.Question, error) {
	return nil, errors.New("disk on fire")
}

func TestSelect_PropagatesFinderErrors(t *testing.T) {
	_, _, err := Select(context.Background(), failingFinder{}, SelectRequest{Target: 3})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoQuestionAvailable)
}

func TestPoolFinder_StablePolicyUsesAuthoringOrder(t *testing.T) {
	pool := NewPoolFinder([]*question.Question{q("z", 3, ""), q("a", 3, "")}, NewPicker(PolicyStable, nil))
	for i := 0; i < 5; i++ {
		got, err := pool.FindAt(context.Background(), SelectRequest{}, 3)
		require.NoError(t, err)
		assert.Equal(t, "z", got.ID)
	}
}

func TestPoolFinder_RandomPolicyIsSeeded(t *testing.T) {
	questions := []*question.Question{q("a", 3, ""), q("b", 3, ""), q("c", 3, ""), q("d", 3, "")}
	draw := func() []string {
		pool := NewPoolFinder(questions, NewPicker(PolicyRandom, rand.New(rand.NewPCG(7, 7))))
		var ids []string
		for i := 0; i < 8; i++ {
			got, err := pool.FindAt(context.Background(), SelectRequest{}, 3)
			require.NoError(t, err)
			ids = append(ids, got.ID)
		}
		return ids
	}
	assert.Equal(t, draw(), draw())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStable, p)
	p, err = ParsePolicy("random")
	require.NoError(t, err)
	assert.Equal(t, PolicyRandom, p)
	_, err = ParsePolicy("weighted")
	assert.Error(t, err)
}
