// Package difficulty implements the fixed-step difficulty walk used by
// adaptive assessments and the question selection that follows it.
package difficulty

import (
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// DefaultStart is the level an adaptive session opens at.
const DefaultStart = 3

// Range bounds the difficulty levels a session may visit.
type Range struct {
	Min int
	Max int
}

// DefaultRange is the full 1..5 scale.
func DefaultRange() Range {
	return Range{Min: question.MinDifficulty, Max: question.MaxDifficulty}
}

// RangeOf returns the assessment's configured range. Unset bounds fall back
// to the defaults; an inverted range falls back entirely.
func RangeOf(a *question.Assessment) Range {
	r := DefaultRange()
	if a == nil {
		return r
	}
	if a.DifficultyMin >= question.MinDifficulty {
		r.Min = a.DifficultyMin
	}
	if a.DifficultyMax >= question.MinDifficulty && a.DifficultyMax <= question.MaxDifficulty {
		r.Max = a.DifficultyMax
	}
	if r.Min > r.Max {
		return DefaultRange()
	}
	return r
}

// Clamp forces d into the range.
func (r Range) Clamp(d int) int {
	return max(r.Min, min(r.Max, d))
}

// Contains reports whether d is a level inside the range.
func (r Range) Contains(d int) bool {
	return d >= r.Min && d <= r.Max
}

// Next moves one step up after a correct answer and one step down after an
// incorrect one, never leaving the range. It has no memory of earlier
// answers.
func (r Range) Next(current int, correct bool) int {
	if correct {
		return r.Clamp(current + 1)
	}
	return r.Clamp(current - 1)
}

// Next applies the walk over the default 1..5 range.
func Next(current int, correct bool) int {
	return DefaultRange().Next(current, correct)
}

// StartLevel is the level the first adaptive question is drawn from.
func StartLevel(r Range) int {
	return r.Clamp(DefaultStart)
}
