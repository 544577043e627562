package session

import (
	"errors"
	"time"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhaseNew        Phase = "new"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

var (
	// ErrNotStarted is returned by Answer before Start.
	ErrNotStarted = errors.New("session not started")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrSessionCompleted is returned by Answer after the session ended.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrNotCurrentQuestion is returned when the answered question is not
	// the one being presented. Past questions cannot be re-answered.
	ErrNotCurrentQuestion = errors.New("question is not the current question")
)

// Feedback is returned to the learner after each answer.
type Feedback struct {
	QuestionID  string `json:"question_id"`
	Correct     bool   `json:"correct"`
	Ambiguous   bool   `json:"-"`
	Explanation string `json:"explanation,omitempty"`

	// NextDifficulty is the target level for the next question.
	NextDifficulty int  `json:"next_difficulty"`
	Completed      bool `json:"completed"`
}

// Snapshot is a read-only view of a session's progress.
type Snapshot struct {
	ID           string                   `json:"id"`
	AssessmentID string                   `json:"assessment_id"`
	UserID       string                   `json:"user_id"`
	Phase        Phase                    `json:"phase"`
	Adaptive     bool                     `json:"adaptive"`
	Answered     int                      `json:"answered"`
	Total        int                      `json:"total"`
	Difficulty   int                      `json:"difficulty"`
	Current      *question.PublicQuestion `json:"current,omitempty"`
	StartedAt    time.Time                `json:"started_at"`
	Deadline     time.Time                `json:"deadline,omitzero"`
	EndReason    result.EndReason         `json:"end_reason,omitempty"`
}

// Remaining is the time left before the deadline, or zero when there is no
// limit or it has passed.
func (s Snapshot) Remaining(now time.Time) time.Duration {
	if s.Deadline.IsZero() {
		return 0
	}
	return max(0, s.Deadline.Sub(now))
}

// Observer receives session lifecycle events.
type Observer interface {
	SessionStarted(assessmentID string)
	AnswerGraded(kind question.Kind, correct, ambiguous bool)
	SessionCompleted(reason result.EndReason, score int)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(string)                  {}
func (nopObserver) AnswerGraded(question.Kind, bool, bool) {}
func (nopObserver) SessionCompleted(result.EndReason, int) {}
