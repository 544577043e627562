// Package session runs one learner through one assessment: it presents
// questions, grades answers, walks the difficulty and decides when the
// session is over.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/difficulty"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/report"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

// Options configures a Controller. Every field is optional.
type Options struct {
	// ID identifies the session. Defaults to a random UUID.
	ID     string
	UserID string

	// Finder supplies adaptive questions. Defaults to a pool over the
	// assessment's own questions using Picker.
	Finder difficulty.Finder
	Picker *difficulty.Picker

	// Areas restricts adaptive selection to these knowledge areas.
	Areas []string

	// TimeLimit overrides the assessment's TimeLimitMinutes when positive.
	TimeLimit time.Duration

	// Catalog supplies resources for knowledge gaps. Defaults to the
	// resources embedded in the assessment.
	Catalog report.ResourceCatalog

	Logger   *zap.Logger
	Observer Observer

	// OnComplete is called exactly once, after the session has completed
	// and outside the controller's lock. It may run on the timer goroutine.
	OnComplete func(*result.AssessmentResult)

	// Now and NewID are for tests.
	Now   func() time.Time
	NewID func() string
}

// Controller is the state machine of a single session. Its methods are safe
// to call concurrently because the session timer fires on its own
// goroutine; in normal use one client drives it in sequence.
type Controller struct {
	assessment *question.Assessment
	opts       Options
	finder     difficulty.Finder
	levels     difficulty.Range
	limit      time.Duration
	logger     *zap.Logger
	observer   Observer

	mu            sync.Mutex
	phase         Phase
	index         int
	level         int
	current       *question.Question
	presentedAt   time.Time
	startedAt     time.Time
	results       []result.QuestionResult
	answered      []string
	gapCandidates []string
	timer         *time.Timer
	final         *result.AssessmentResult
	done          chan struct{}
}

// New validates a and prepares a session over it. A malformed assessment
// never produces a controller.
func New(a *question.Assessment, opts Options) (*Controller, error) {
	if err := question.ValidateAssessment(a); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.ID == "" {
		opts.ID = opts.NewID()
	}
	if opts.Catalog == nil {
		opts.Catalog = report.Catalog(a.Resources)
	}

	c := &Controller{
		assessment: a,
		opts:       opts,
		finder:     opts.Finder,
		levels:     difficulty.RangeOf(a),
		limit:      opts.TimeLimit,
		logger:     opts.Logger,
		observer:   opts.Observer,
		phase:      PhaseNew,
		done:       make(chan struct{}),
	}
	if c.finder == nil {
		c.finder = difficulty.NewPoolFinder(a.Questions, opts.Picker)
	}
	if c.limit <= 0 && a.TimeLimitMinutes > 0 {
		c.limit = time.Duration(a.TimeLimitMinutes) * time.Minute
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("session_id", opts.ID), zap.String("assessment_id", a.ID))
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	return c, nil
}

// ID returns the session id.
func (c *Controller) ID() string { return c.opts.ID }

// UserID returns the learner the session belongs to.
func (c *Controller) UserID() string { return c.opts.UserID }

// Assessment returns the assessment being taken.
func (c *Controller) Assessment() *question.Assessment { return c.assessment }

// Start presents the first question and arms the session timer. If no
// question can be found the session completes immediately.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseNew {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.phase = PhaseInProgress
	c.startedAt = c.opts.Now()
	c.level = difficulty.StartLevel(c.levels)
	if c.limit > 0 {
		c.timer = time.AfterFunc(c.limit, func() { c.Timeout() })
	}
	c.logger.Info("session started",
		zap.String("user_id", c.opts.UserID),
		zap.Bool("adaptive", c.assessment.Adaptive),
		zap.Int("questions", len(c.assessment.Questions)),
		zap.Duration("time_limit", c.limit),
	)
	final, err := c.advanceLocked(ctx)
	c.mu.Unlock()

	c.observer.SessionStarted(c.assessment.ID)
	c.finish(final)
	return err
}

// Current returns the question being presented, or nil when the session
// has not started or is over.
func (c *Controller) Current() *question.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Answer grades the answer to the current question, records it and moves
// on. Answers of the wrong shape are graded incorrect, never rejected.
func (c *Controller) Answer(ctx context.Context, questionID string, a question.Answer) (Feedback, error) {
	c.mu.Lock()
	switch c.phase {
	case PhaseNew:
		c.mu.Unlock()
		return Feedback{}, ErrNotStarted
	case PhaseCompleted:
		c.mu.Unlock()
		return Feedback{}, ErrSessionCompleted
	}
	q := c.current
	if q == nil || q.ID != questionID {
		c.mu.Unlock()
		return Feedback{}, fmt.Errorf("%w: %q", ErrNotCurrentQuestion, questionID)
	}

	grade := question.GradeAnswer(q, a)
	if grade.Ambiguous {
		c.logger.Warn("answer shape does not match question kind",
			zap.String("question_id", q.ID),
			zap.String("kind", string(q.Kind())),
			zap.String("answer_type", fmt.Sprintf("%T", a)),
		)
	}

	now := c.opts.Now()
	c.results = append(c.results, result.QuestionResult{
		QuestionID:       q.ID,
		Correct:          grade.Correct,
		UserAnswer:       a,
		TimeTakenSeconds: seconds(now.Sub(c.presentedAt)),
		Difficulty:       q.Difficulty,
		KnowledgeAreaID:  q.KnowledgeAreaID,
	})
	c.answered = append(c.answered, q.ID)
	if !grade.Correct && q.KnowledgeAreaID != "" && !slices.Contains(c.gapCandidates, q.KnowledgeAreaID) {
		c.gapCandidates = append(c.gapCandidates, q.KnowledgeAreaID)
	}
	if c.assessment.Adaptive {
		c.level = c.levels.Next(c.level, grade.Correct)
	}
	c.index++

	fb := Feedback{
		QuestionID:     q.ID,
		Correct:        grade.Correct,
		Ambiguous:      grade.Ambiguous,
		Explanation:    q.Explanation,
		NextDifficulty: c.level,
	}
	final, err := c.advanceLocked(ctx)
	fb.Completed = c.phase == PhaseCompleted
	c.mu.Unlock()

	c.observer.AnswerGraded(q.Kind(), grade.Correct, grade.Ambiguous)
	c.finish(final)
	return fb, err
}

// Timeout forces the session to complete with whatever has been recorded.
// It reports whether this call completed the session; later calls, and
// calls after a normal completion, are no-ops.
func (c *Controller) Timeout() bool {
	return c.end(result.EndTimedOut)
}

// Stop ends the session at the learner's request. Like Timeout it reports
// whether this call completed the session.
func (c *Controller) Stop() bool {
	return c.end(result.EndStopped)
}

func (c *Controller) end(reason result.EndReason) bool {
	c.mu.Lock()
	if c.phase != PhaseInProgress {
		c.mu.Unlock()
		return false
	}
	final := c.completeLocked(reason)
	c.mu.Unlock()

	c.finish(final)
	return final != nil
}

// Done is closed when the session completes.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Result returns the terminal result, or nil while the session is running.
func (c *Controller) Result() *result.AssessmentResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.final
}

// Phase returns the current lifecycle stage.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Snapshot returns a copy of the session's progress.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		ID:           c.opts.ID,
		AssessmentID: c.assessment.ID,
		UserID:       c.opts.UserID,
		Phase:        c.phase,
		Adaptive:     c.assessment.Adaptive,
		Answered:     len(c.results),
		Total:        len(c.assessment.Questions),
		Difficulty:   c.level,
		StartedAt:    c.startedAt,
	}
	if c.current != nil {
		pq := question.PublicView(c.current)
		s.Current = &pq
	}
	if c.limit > 0 && !c.startedAt.IsZero() {
		s.Deadline = c.startedAt.Add(c.limit)
	}
	if c.final != nil {
		s.EndReason = c.final.EndReason
	}
	return s
}

// advanceLocked presents the next question or completes the session. It
// returns the final result when this call completed the session.
func (c *Controller) advanceLocked(ctx context.Context) (*result.AssessmentResult, error) {
	if c.index >= len(c.assessment.Questions) {
		return c.completeLocked(result.EndExhausted), nil
	}
	if !c.assessment.Adaptive {
		c.present(c.assessment.Questions[c.index])
		return nil, nil
	}

	q, level, err := difficulty.Select(ctx, c.finder, difficulty.SelectRequest{
		AssessmentID: c.assessment.ID,
		Target:       c.level,
		Exclude:      slices.Clone(c.answered),
		Areas:        c.opts.Areas,
		Range:        c.levels,
	})
	switch {
	case errors.Is(err, difficulty.ErrNoQuestionAvailable):
		c.logger.Info("ending session early", zap.Int("target_difficulty", c.level), zap.Error(err))
		return c.completeLocked(result.EndNoQuestion), nil
	case err != nil:
		c.logger.Error("question selection failed", zap.Int("target_difficulty", c.level), zap.Error(err))
		return c.completeLocked(result.EndAborted), fmt.Errorf("select next question: %w", err)
	}
	if level != c.level {
		c.logger.Debug("fell back to neighbouring difficulty", zap.Int("target", c.level), zap.Int("used", level))
	}
	c.present(q)
	return nil, nil
}

func (c *Controller) present(q *question.Question) {
	c.current = q
	c.presentedAt = c.opts.Now()
}

// completeLocked performs the single transition to PhaseCompleted. It
// returns nil if the session had already completed.
func (c *Controller) completeLocked(reason result.EndReason) *result.AssessmentResult {
	if c.phase == PhaseCompleted {
		return nil
	}
	c.phase = PhaseCompleted
	c.current = nil
	if c.timer != nil {
		c.timer.Stop()
	}

	now := c.opts.Now()
	c.final = report.Build(report.Input{
		ID:            c.opts.NewID(),
		SessionID:     c.opts.ID,
		UserID:        c.opts.UserID,
		AssessmentID:  c.assessment.ID,
		TopicID:       c.assessment.TopicID,
		Results:       c.results,
		GapCandidates: c.gapCandidates,
		TimeLimit:     c.limit,
		Elapsed:       now.Sub(c.startedAt),
		CompletedAt:   now,
		EndReason:     reason,
		Catalog:       c.opts.Catalog,
	})
	close(c.done)
	return c.final
}

// finish runs the completion side effects outside the lock.
func (c *Controller) finish(final *result.AssessmentResult) {
	if final == nil {
		return
	}
	c.logger.Info("session completed",
		zap.String("result_id", final.ID),
		zap.String("reason", string(final.EndReason)),
		zap.Int("score", final.Score),
		zap.Int("answered", len(final.QuestionResults)),
		zap.Int("gaps", len(final.KnowledgeGaps)),
	)
	c.observer.SessionCompleted(final.EndReason, final.Score)
	if c.opts.OnComplete != nil {
		c.opts.OnComplete(final)
	}
}

func seconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(math.Round(d.Seconds()))
}
