// Package gaps finds knowledge areas a learner struggles with, both across
// historical submissions and within a single session.
package gaps

import (
	"fmt"
	"math"
	"slices"

	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

const (
	// PassScore is the score at or above which a submission is gap-free.
	PassScore = 80

	// ErrorRateThreshold flags a bucket whose error rate reaches it.
	ErrorRateThreshold = 0.5

	// DefaultArea buckets answers that carry no topic area.
	DefaultArea = "general"
)

// Outcome is one graded answer of a historical submission.
type Outcome struct {
	Correct   bool
	TopicArea string
}

// Submission is a finished assessment as seen by historical analysis.
type Submission struct {
	TopicID string
	Score   int
	Answers []Outcome
}

// Gap is a flagged bucket of one submission.
type Gap struct {
	TopicID   string
	Area      string
	Incorrect int
	Total     int
	ErrorRate float64
}

// Label renders the gap the way it is shown to learners, e.g.
// "fractions (75% error rate)".
func (g Gap) Label() string {
	return fmt.Sprintf("%s (%d%% error rate)", g.Area, int(math.Round(g.ErrorRate*100)))
}

type bucket struct {
	incorrect int
	total     int
}

// Detect returns every flagged bucket, in submission order and, within a
// submission, in area order.
func Detect(subs []Submission) []Gap {
	var out []Gap
	for _, s := range subs {
		if s.Score >= PassScore {
			continue
		}
		buckets := make(map[string]*bucket)
		for _, a := range s.Answers {
			area := a.TopicArea
			if area == "" {
				area = DefaultArea
			}
			b := buckets[area]
			if b == nil {
				b = &bucket{}
				buckets[area] = b
			}
			b.total++
			if !a.Correct {
				b.incorrect++
			}
		}

		areas := make([]string, 0, len(buckets))
		for area := range buckets {
			areas = append(areas, area)
		}
		slices.Sort(areas)

		for _, area := range areas {
			b := buckets[area]
			rate := float64(b.incorrect) / float64(b.total)
			if rate < ErrorRateThreshold {
				continue
			}
			out = append(out, Gap{
				TopicID:   s.TopicID,
				Area:      area,
				Incorrect: b.incorrect,
				Total:     b.total,
				ErrorRate: rate,
			})
		}
	}
	return out
}

// Analyze groups gap labels by topic id. A label repeated across
// submissions of the same topic is listed once.
func Analyze(subs []Submission) map[string][]string {
	out := make(map[string][]string)
	for _, g := range Detect(subs) {
		label := g.Label()
		if slices.Contains(out[g.TopicID], label) {
			continue
		}
		out[g.TopicID] = append(out[g.TopicID], label)
	}
	return out
}

// FromResult adapts a finished session to a historical submission.
func FromResult(r *result.AssessmentResult) Submission {
	s := Submission{TopicID: r.TopicID, Score: r.Score}
	if s.TopicID == "" {
		s.TopicID = r.AssessmentID
	}
	for _, qr := range r.QuestionResults {
		s.Answers = append(s.Answers, Outcome{Correct: qr.Correct, TopicArea: qr.KnowledgeAreaID})
	}
	return s
}

// FromResults adapts several finished sessions.
func FromResults(results []*result.AssessmentResult) []Submission {
	subs := make([]Submission, 0, len(results))
	for _, r := range results {
		subs = append(subs, FromResult(r))
	}
	return subs
}

// AreaStat is a knowledge area's tally within one session.
type AreaStat struct {
	AreaID      string
	Correct     int
	Total       int
	Proficiency int
}

// Live returns one stat per area in candidates, in that order, computed
// over the session's results. Areas without results are skipped.
func Live(candidates []string, results []result.QuestionResult) []AreaStat {
	var out []AreaStat
	seen := make(map[string]bool, len(candidates))
	for _, area := range candidates {
		if area == "" || seen[area] {
			continue
		}
		seen[area] = true

		s := AreaStat{AreaID: area}
		for _, r := range results {
			if r.KnowledgeAreaID != area {
				continue
			}
			s.Total++
			if r.Correct {
				s.Correct++
			}
		}
		if s.Total == 0 {
			continue
		}
		s.Proficiency = int(math.Round(100 * float64(s.Correct) / float64(s.Total)))
		out = append(out, s)
	}
	return out
}
