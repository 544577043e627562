// Package result holds the records a session produces: one QuestionResult
// per answered question and a single AssessmentResult at the end.
package result

import (
	"encoding/json"
	"time"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// QuestionResult records one answered question. Entries are appended to a
// session's log and never modified.
type QuestionResult struct {
	QuestionID       string          `json:"question_id"`
	Correct          bool            `json:"correct"`
	UserAnswer       question.Answer `json:"user_answer"`
	TimeTakenSeconds int             `json:"time_taken_seconds"`
	Difficulty       int             `json:"difficulty"`
	KnowledgeAreaID  string          `json:"knowledge_area_id,omitempty"`
}

func (r *QuestionResult) UnmarshalJSON(data []byte) error {
	type plain QuestionResult
	var aux struct {
		plain
		UserAnswer json.RawMessage `json:"user_answer"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = QuestionResult(aux.plain)
	r.UserAnswer = question.ParseAnswer(aux.UserAnswer)
	return nil
}

// KnowledgeGap is a knowledge area the learner struggled with in one
// session.
type KnowledgeGap struct {
	AreaID               string              `json:"area_id"`
	Proficiency          int                 `json:"proficiency"`
	RecommendedResources []question.Resource `json:"recommended_resources"`
}

// EndReason says why a session stopped.
type EndReason string

const (
	// EndExhausted means every question was answered.
	EndExhausted EndReason = "exhausted"

	// EndTimedOut means the session timer fired first.
	EndTimedOut EndReason = "timed_out"

	// EndNoQuestion means adaptive selection found nothing at the target
	// level or either neighbour.
	EndNoQuestion EndReason = "no_question_available"

	// EndAborted means the question source failed mid-session.
	EndAborted EndReason = "aborted"

	// EndStopped means the learner chose to stop.
	EndStopped EndReason = "stopped"
)

// Early reports whether the session stopped before running out of
// questions.
func (r EndReason) Early() bool {
	return r == EndTimedOut || r == EndNoQuestion || r == EndAborted || r == EndStopped
}

// AssessmentResult is the terminal record of a session. It is created once
// and never mutated; a retake produces a new one.
type AssessmentResult struct {
	ID               string           `json:"id"`
	SessionID        string           `json:"session_id"`
	UserID           string           `json:"user_id"`
	AssessmentID     string           `json:"assessment_id"`
	TopicID          string           `json:"topic_id,omitempty"`
	Score            int              `json:"score"`
	TimeTakenSeconds int              `json:"time_taken_seconds"`
	CompletedAt      time.Time        `json:"completed_at"`
	EndReason        EndReason        `json:"end_reason"`
	QuestionResults  []QuestionResult `json:"question_results"`
	KnowledgeGaps    []KnowledgeGap   `json:"knowledge_gaps"`
}
