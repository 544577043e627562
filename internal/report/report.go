// Package report folds a session's result log into its score, timing,
// per-difficulty breakdown and remediation report.
package report

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/subodh556/AI-Teacher-sub000/internal/gaps"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

// Score is round(100 * correct / answered), or 0 when nothing was answered.
func Score(results []result.QuestionResult) int {
	if len(results) == 0 {
		return 0
	}
	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(len(results))))
}

// TimeTaken is the sum of per-question times, or the elapsed session time
// capped at the limit when the session ran under a hard limit.
func TimeTaken(results []result.QuestionResult, limit, elapsed time.Duration) int {
	if limit > 0 {
		return int(math.Round(min(elapsed, limit).Seconds()))
	}
	total := 0
	for _, r := range results {
		total += r.TimeTakenSeconds
	}
	return total
}

// Bucket is the tally for one difficulty level.
type Bucket struct {
	Difficulty int `json:"difficulty"`
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percent    int `json:"percent"`
}

// Breakdown groups results by difficulty, easiest first.
func Breakdown(results []result.QuestionResult) []Bucket {
	byLevel := make(map[int]*Bucket)
	for _, r := range results {
		b := byLevel[r.Difficulty]
		if b == nil {
			b = &Bucket{Difficulty: r.Difficulty}
			byLevel[r.Difficulty] = b
		}
		b.Total++
		if r.Correct {
			b.Correct++
		}
	}
	out := make([]Bucket, 0, len(byLevel))
	for _, b := range byLevel {
		b.Percent = int(math.Round(100 * float64(b.Correct) / float64(b.Total)))
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b Bucket) int { return cmp.Compare(a.Difficulty, b.Difficulty) })
	return out
}

// Rating is the narrative band of a score.
type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingSatisfactory     Rating = "satisfactory"
	RatingNeedsImprovement Rating = "needs_improvement"
)

// Band maps a score to its rating.
func Band(score int) Rating {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 75:
		return RatingGood
	case score >= 60:
		return RatingSatisfactory
	}
	return RatingNeedsImprovement
}

// ResourceCatalog supplies study material for knowledge areas.
type ResourceCatalog interface {
	Resources(areaID string) []question.Resource
}

// Catalog is a ResourceCatalog backed by a map, such as the resources
// embedded in an assessment definition.
type Catalog map[string][]question.Resource

func (c Catalog) Resources(areaID string) []question.Resource {
	return c[areaID]
}

// Input is everything Build needs. Build reads nothing else, so the same
// input always yields the same result.
type Input struct {
	ID           string
	SessionID    string
	UserID       string
	AssessmentID string
	TopicID      string

	Results []result.QuestionResult

	// GapCandidates are knowledge areas that received an incorrect answer,
	// in the order they were first noticed.
	GapCandidates []string

	TimeLimit   time.Duration
	Elapsed     time.Duration
	CompletedAt time.Time
	EndReason   result.EndReason
	Catalog     ResourceCatalog
}

// Build produces the terminal result of a session.
func Build(in Input) *result.AssessmentResult {
	results := slices.Clone(in.Results)
	if results == nil {
		results = []result.QuestionResult{}
	}
	r := &result.AssessmentResult{
		ID:               in.ID,
		SessionID:        in.SessionID,
		UserID:           in.UserID,
		AssessmentID:     in.AssessmentID,
		TopicID:          in.TopicID,
		Score:            Score(results),
		TimeTakenSeconds: TimeTaken(results, in.TimeLimit, in.Elapsed),
		CompletedAt:      in.CompletedAt,
		EndReason:        in.EndReason,
		QuestionResults:  results,
		KnowledgeGaps:    []result.KnowledgeGap{},
	}
	for _, s := range gaps.Live(in.GapCandidates, results) {
		g := result.KnowledgeGap{AreaID: s.AreaID, Proficiency: s.Proficiency, RecommendedResources: []question.Resource{}}
		if in.Catalog != nil {
			g.RecommendedResources = append(g.RecommendedResources, in.Catalog.Resources(s.AreaID)...)
		}
		r.KnowledgeGaps = append(r.KnowledgeGaps, g)
	}
	return r
}

// Report is the learner-facing summary of a finished session.
type Report struct {
	Result     *result.AssessmentResult `json:"result"`
	Rating     Rating                   `json:"rating"`
	Breakdown  []Bucket                 `json:"breakdown"`
	HasPass    bool                     `json:"has_pass_mark"`
	Passed     bool                     `json:"passed"`
	EndedEarly bool                     `json:"ended_early"`
	Message    string                   `json:"message"`
}

// Summarize builds the report for r. A passingScore of 0 means the
// assessment has no pass mark.
func Summarize(r *result.AssessmentResult, passingScore int) *Report {
	rep := &Report{
		Result:     r,
		Rating:     Band(r.Score),
		Breakdown:  Breakdown(r.QuestionResults),
		HasPass:    passingScore > 0,
		Passed:     passingScore > 0 && r.Score >= passingScore,
		EndedEarly: r.EndReason.Early(),
	}
	rep.Message = message(rep)
	return rep
}

func message(rep *Report) string {
	var msg string
	switch rep.Rating {
	case RatingExcellent:
		msg = "Excellent work."
	case RatingGood:
		msg = "Good job, a little more practice will get you there."
	case RatingSatisfactory:
		msg = "Satisfactory. Review the areas below."
	default:
		msg = "Needs improvement. Focus on the areas below."
	}
	switch rep.Result.EndReason {
	case result.EndTimedOut:
		msg += " Time ran out before every question was answered."
	case result.EndNoQuestion:
		msg += " The session ended early: no more questions were available."
	case result.EndStopped:
		msg += " The session was stopped before every question was answered."
	}
	return msg
}
