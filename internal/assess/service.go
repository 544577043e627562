// Package assess hosts assessment sessions on top of the content and
// result stores: it starts sessions, routes answers to them, persists
// finished results and answers historical gap queries.
package assess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/difficulty"
	"github.com/subodh556/AI-Teacher-sub000/internal/gaps"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/report"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
	"github.com/subodh556/AI-Teacher-sub000/internal/session"
	"github.com/subodh556/AI-Teacher-sub000/internal/store"
)

// ErrSessionNotFound is returned for a session id that is neither live nor
// recorded.
var ErrSessionNotFound = errors.New("session not found")

// Store is the persistence the service needs. *store.Store implements it.
type Store interface {
	difficulty.Finder

	SaveAssessment(ctx context.Context, a *question.Assessment) error
	LoadAssessment(ctx context.Context, id string) (*question.Assessment, error)
	ListAssessments(ctx context.Context) ([]store.AssessmentInfo, error)

	SaveResult(ctx context.Context, r *result.AssessmentResult) error
	ResultBySession(ctx context.Context, sessionID string) (*result.AssessmentResult, error)
	ResultsForUser(ctx context.Context, userID string, limit int) ([]*result.AssessmentResult, error)

	UpsertKnowledgeArea(ctx context.Context, ka store.KnowledgeArea) error
	KnowledgeAreas(ctx context.Context, userID string) ([]store.KnowledgeArea, error)
}

// Options configures a Service. Every field is optional.
type Options struct {
	Logger   *zap.Logger
	Observer session.Observer

	// PersistTimeout bounds the writes made when a session completes.
	PersistTimeout time.Duration

	// Range applies to assessments that declare no difficulty range of
	// their own.
	Range difficulty.Range
}

// Service is safe for concurrent use.
type Service struct {
	store    Store
	sessions *session.Manager
	log      *zap.Logger
	observer session.Observer
	timeout  time.Duration
	rng      difficulty.Range
}

// New returns a service over st.
func New(st Store, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = 10 * time.Second
	}
	return &Service{
		store:    st,
		sessions: session.NewManager(),
		log:      opts.Logger,
		observer: opts.Observer,
		timeout:  opts.PersistTimeout,
		rng:      opts.Range,
	}
}

// StartRequest opens a session.
type StartRequest struct {
	AssessmentID string        `json:"assessment_id" binding:"required"`
	UserID       string        `json:"user_id" binding:"required"`
	Areas        []string      `json:"areas,omitempty"`
	TimeLimit    time.Duration `json:"-"`
}

// Import validates and stores an assessment definition.
func (s *Service) Import(ctx context.Context, a *question.Assessment) error {
	if err := s.store.SaveAssessment(ctx, a); err != nil {
		return err
	}
	s.log.Info("assessment imported", zap.String("assessment_id", a.ID), zap.Int("questions", len(a.Questions)))
	return nil
}

// Assessments lists the stored assessments.
func (s *Service) Assessments(ctx context.Context) ([]store.AssessmentInfo, error) {
	return s.store.ListAssessments(ctx)
}

// Assessment returns the learner-safe view of a stored assessment.
func (s *Service) Assessment(ctx context.Context, id string) (*Overview, error) {
	a, err := s.store.LoadAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	return overview(a), nil
}

// Start loads the assessment, opens a session over it and presents the
// first question. The session may already be complete when it has no
// question to offer.
func (s *Service) Start(ctx context.Context, req StartRequest) (session.Snapshot, error) {
	a, err := s.store.LoadAssessment(ctx, req.AssessmentID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if a.DifficultyMin == 0 && a.DifficultyMax == 0 && s.rng.Min > 0 {
		a.DifficultyMin, a.DifficultyMax = s.rng.Min, s.rng.Max
	}

	var c *session.Controller
	c, err = session.New(a, session.Options{
		UserID:     req.UserID,
		Finder:     s.store,
		Areas:      req.Areas,
		TimeLimit:  req.TimeLimit,
		Logger:     s.log,
		Observer:   s.observer,
		OnComplete: func(r *result.AssessmentResult) { s.record(a, r) },
	})
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := s.sessions.Add(c); err != nil {
		return session.Snapshot{}, err
	}
	if err := c.Start(ctx); err != nil {
		return session.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// Answer submits a raw JSON answer to the current question of a session.
// Answers to a session that has already been recorded fail with
// session.ErrSessionCompleted.
func (s *Service) Answer(ctx context.Context, sessionID, questionID string, raw json.RawMessage) (session.Feedback, error) {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		if _, err := s.recorded(ctx, sessionID); err != nil {
			return session.Feedback{}, err
		}
		return session.Feedback{}, session.ErrSessionCompleted
	}
	return c.Answer(ctx, questionID, question.ParseAnswer(raw))
}

// End stops a live session at the learner's request. Its partial result is
// recorded like any other.
func (s *Service) End(ctx context.Context, sessionID string) error {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		if _, err := s.recorded(ctx, sessionID); err != nil {
			return err
		}
		return session.ErrSessionCompleted
	}
	if !c.Stop() {
		return session.ErrSessionCompleted
	}
	return nil
}

// Session returns the progress of a session. Recorded sessions are
// reported as completed.
func (s *Service) Session(ctx context.Context, sessionID string) (session.Snapshot, error) {
	if c, ok := s.sessions.Get(sessionID); ok {
		return c.Snapshot(), nil
	}
	r, err := s.recorded(ctx, sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return session.Snapshot{
		ID:           r.SessionID,
		AssessmentID: r.AssessmentID,
		UserID:       r.UserID,
		Phase:        session.PhaseCompleted,
		Answered:     len(r.QuestionResults),
		EndReason:    r.EndReason,
	}, nil
}

// Result returns the report of a finished session.
func (s *Service) Result(ctx context.Context, sessionID string) (*report.Report, error) {
	if c, ok := s.sessions.Get(sessionID); ok {
		r := c.Result()
		if r == nil {
			return nil, fmt.Errorf("session %q: %w", sessionID, ErrInProgress)
		}
		return report.Summarize(r, c.Assessment().PassingScore), nil
	}

	r, err := s.recorded(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	passing := 0
	a, err := s.store.LoadAssessment(ctx, r.AssessmentID)
	switch {
	case err == nil:
		passing = a.PassingScore
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, err
	}
	return report.Summarize(r, passing), nil
}

// ErrInProgress is returned when a result is requested before the session
// has finished.
var ErrInProgress = errors.New("session still in progress")

// UserGaps is a learner's historical gap analysis.
type UserGaps struct {
	UserID string `json:"user_id"`

	// Gaps maps a topic id to its gap labels.
	Gaps  map[string][]string   `json:"gaps"`
	Areas []store.KnowledgeArea `json:"areas"`
	Flags []gaps.Gap            `json:"-"`
}

// UserGaps runs the historical aggregator over a learner's most recent
// results. A non-positive limit uses every result.
func (s *Service) UserGaps(ctx context.Context, userID string, limit int) (*UserGaps, error) {
	results, err := s.store.ResultsForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	subs := gaps.FromResults(results)
	areas, err := s.store.KnowledgeAreas(ctx, userID)
	if err != nil {
		return nil, err
	}
	if areas == nil {
		areas = []store.KnowledgeArea{}
	}
	return &UserGaps{
		UserID: userID,
		Gaps:   gaps.Analyze(subs),
		Areas:  areas,
		Flags:  gaps.Detect(subs),
	}, nil
}

// Shutdown times out every live session so their partial results are
// recorded. It returns how many sessions it ended.
func (s *Service) Shutdown() int {
	return s.sessions.TimeoutAll()
}

// Live returns the number of sessions still held in memory.
func (s *Service) Live() int {
	return s.sessions.Len()
}

func (s *Service) recorded(ctx context.Context, sessionID string) (*result.AssessmentResult, error) {
	r, err := s.store.ResultBySession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	return r, err
}

// record persists a finished session and drops it from memory. A session
// whose result could not be saved stays in memory so its report is still
// reachable.
func (s *Service) record(a *question.Assessment, r *result.AssessmentResult) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	log := s.log.With(zap.String("session_id", r.SessionID), zap.String("result_id", r.ID))

	if err := s.store.SaveResult(ctx, r); err != nil {
		log.Error("failed to persist result", zap.Error(err))
		return
	}
	for _, g := range r.KnowledgeGaps {
		ka := store.KnowledgeArea{UserID: r.UserID, AreaID: g.AreaID, Proficiency: g.Proficiency, UpdatedAt: r.CompletedAt}
		if err := s.store.UpsertKnowledgeArea(ctx, ka); err != nil {
			log.Warn("failed to persist knowledge area", zap.String("area_id", g.AreaID), zap.Error(err))
		}
	}
	log.Debug("result recorded", zap.String("assessment_id", a.ID), zap.Int("gaps", len(r.KnowledgeGaps)))
	s.sessions.Remove(r.SessionID)
}
