package difficulty

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// ErrNoQuestionAvailable is returned when no unanswered question exists at
// the target level or either fallback level. Sessions end early on it.
var ErrNoQuestionAvailable = errors.New("no more questions available")

// SelectRequest describes the question an adaptive session needs next.
type SelectRequest struct {
	AssessmentID string
	Target       int
	Exclude      []string
	Areas        []string
	Range        Range
}

// Finder looks up one unanswered question at exactly the given level. It
// returns nil and no error when the level has nothing left.
type Finder interface {
	FindAt(ctx context.Context, req SelectRequest, level int) (*question.Question, error)
}

// Levels lists the levels Select tries, in order: the target, one easier,
// one harder. Levels outside the range are skipped.
func Levels(req SelectRequest) []int {
	r := req.Range
	if r == (Range{}) {
		r = DefaultRange()
	}
	target := r.Clamp(req.Target)
	var levels []int
	for _, l := range []int{target, target - 1, target + 1} {
		if r.Contains(l) {
			levels = append(levels, l)
		}
	}
	return levels
}

// Select picks the next question, falling back to the easier level before
// the harder one. It returns the question and the level it came from.
func Select(ctx context.Context, f Finder, req SelectRequest) (*question.Question, int, error) {
	for _, level := range Levels(req) {
		q, err := f.FindAt(ctx, req, level)
		if err != nil {
			return nil, 0, fmt.Errorf("find question at difficulty %d: %w", level, err)
		}
		if q != nil {
			return q, level, nil
		}
	}
	return nil, 0, ErrNoQuestionAvailable
}

// Policy decides between several eligible questions at one level.
type Policy string

const (
	// PolicyStable takes the earliest question in authoring order, then the
	// smallest id.
	PolicyStable Policy = "stable"

	// PolicyRandom picks uniformly among the eligible questions.
	PolicyRandom Policy = "random"
)

// ParsePolicy accepts "stable", "random" or "" (stable).
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyStable:
		return PolicyStable, nil
	case PolicyRandom:
		return PolicyRandom, nil
	}
	return "", fmt.Errorf("unknown selection policy %q", s)
}

// Picker chooses among candidates already in authoring order.
type Picker struct {
	policy Policy

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a picker for policy. rng is only used by PolicyRandom;
// nil seeds one from the runtime.
func NewPicker(policy Policy, rng *rand.Rand) *Picker {
	if rng == nil && policy == PolicyRandom {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Picker{policy: policy, rng: rng}
}

// Pick returns the chosen index into n candidates, or -1 when n is zero.
func (p *Picker) Pick(n int) int {
	if n == 0 {
		return -1
	}
	if p == nil || p.policy != PolicyRandom {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// PoolFinder selects from an in-memory question list, such as a loaded
// assessment file.
type PoolFinder struct {
	questions []*question.Question
	picker    *Picker
}

// NewPoolFinder keeps the questions in the given authoring order.
func NewPoolFinder(questions []*question.Question, picker *Picker) *PoolFinder {
	return &PoolFinder{questions: questions, picker: picker}
}

// FindAt implements Finder.
func (f *PoolFinder) FindAt(_ context.Context, req SelectRequest, level int) (*question.Question, error) {
	var candidates []*question.Question
	for _, q := range f.questions {
		if q.Difficulty != level || slices.Contains(req.Exclude, q.ID) {
			continue
		}
		if len(req.Areas) > 0 && !slices.Contains(req.Areas, q.KnowledgeAreaID) {
			continue
		}
		candidates = append(candidates, q)
	}
	i := f.picker.Pick(len(candidates))
	if i < 0 {
		return nil, nil
	}
	return candidates[i], nil
}
