package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/subodh556/AI-Teacher-sub000/internal/difficulty"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

// TestSessionScenarios runs the session feature scenarios.
func TestSessionScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "session",
		ScenarioInitializer: InitializeSessionScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeSessionScenario wires the session steps.
func InitializeSessionScenario(ctx *godog.ScenarioContext) {
	state := &sessionScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a fixed assessment with (\d+) choice questions$`, state.givenFixedAssessment)
	ctx.Step(`^an adaptive assessment with questions at difficulties "([^"]+)"$`, state.givenAdaptiveAssessment)
	ctx.Step(`^a time limit of (\d+) seconds?$`, state.givenTimeLimit)
	ctx.Step(`^the learner starts the session$`, state.whenStart)
	ctx.Step(`^the learner answers (\d+) correctly and (\d+) incorrectly$`, state.whenAnswerMany)
	ctx.Step(`^the learner answers correctly$`, func() error { return state.answer(true) })
	ctx.Step(`^the learner answers incorrectly$`, func() error { return state.answer(false) })
	ctx.Step(`^the learner waits for the session to end$`, state.whenWait)
	ctx.Step(`^the session is completed$`, state.thenCompleted)
	ctx.Step(`^the score is (\d+)$`, state.thenScore)
	ctx.Step(`^the result log has (\d+) entries$`, state.thenLogLength)
	ctx.Step(`^a question was requested at difficulty (\d+)$`, state.thenRequested)
	ctx.Step(`^the session completed exactly once$`, state.thenCompletedOnce)
	ctx.Step(`^the session ended because "([^"]+)"$`, state.thenEndReason)
}

type sessionScenarioState struct {
	assessment  *question.Assessment
	limit       time.Duration
	finder      *recordingFinder
	controller  *Controller
	completions atomic.Int32
}

func (s *sessionScenarioState) reset() {
	s.assessment = nil
	s.limit = 0
	s.finder = nil
	s.controller = nil
	s.completions.Store(0)
}

func (s *sessionScenarioState) givenFixedAssessment(n int) error {
	a := &question.Assessment{ID: "fixed"}
	for i := 1; i <= n; i++ {
		a.Questions = append(a.Questions, choiceQ(fmt.Sprintf("q%d", i), 2, ""))
	}
	s.assessment = a
	return nil
}

func (s *sessionScenarioState) givenAdaptiveAssessment(levels string) error {
	a := &question.Assessment{ID: "adaptive", Adaptive: true}
	for i, raw := range strings.Split(levels, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		a.Questions = append(a.Questions, choiceQ(fmt.Sprintf("q%d", i+1), d, ""))
	}
	s.assessment = a
	return nil
}

func (s *sessionScenarioState) givenTimeLimit(secs int) error {
	s.limit = time.Duration(secs) * time.Second
	return nil
}

func (s *sessionScenarioState) whenStart() error {
	s.finder = &recordingFinder{inner: difficulty.NewPoolFinder(s.assessment.Questions, nil)}
	c, err := New(s.assessment, Options{
		Finder:     s.finder,
		TimeLimit:  s.limit,
		OnComplete: func(*result.AssessmentResult) { s.completions.Add(1) },
	})
	if err != nil {
		return err
	}
	s.controller = c
	return c.Start(context.Background())
}

func (s *sessionScenarioState) answer(correct bool) error {
	cur := s.controller.Current()
	if cur == nil {
		return fmt.Errorf("no question is being presented")
	}
	ans := question.Text("b")
	if correct {
		ans = question.Text("a")
	}
	_, err := s.controller.Answer(context.Background(), cur.ID, ans)
	return err
}

func (s *sessionScenarioState) whenAnswerMany(right, wrong int) error {
	for i := 0; i < right; i++ {
		if err := s.answer(true); err != nil {
			return err
		}
	}
	for i := 0; i < wrong; i++ {
		if err := s.answer(false); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionScenarioState) whenWait() error {
	select {
	case <-s.controller.Done():
		return nil
	case <-time.After(s.limit + 3*time.Second):
		return fmt.Errorf("session still running after %s", s.limit+3*time.Second)
	}
}

func (s *sessionScenarioState) thenCompleted() error {
	if p := s.controller.Phase(); p != PhaseCompleted {
		return fmt.Errorf("phase = %s, want %s", p, PhaseCompleted)
	}
	return nil
}

func (s *sessionScenarioState) thenScore(want int) error {
	if got := s.controller.Result().Score; got != want {
		return fmt.Errorf("score = %d, want %d", got, want)
	}
	return nil
}

func (s *sessionScenarioState) thenLogLength(want int) error {
	if got := len(s.controller.Result().QuestionResults); got != want {
		return fmt.Errorf("result log has %d entries, want %d", got, want)
	}
	return nil
}

func (s *sessionScenarioState) thenRequested(level int) error {
	s.finder.mu.Lock()
	defer s.finder.mu.Unlock()
	if n := len(s.finder.requests); n == 0 || s.finder.requests[n-1] != level {
		return fmt.Errorf("requests = %v, want last %d", s.finder.requests, level)
	}
	return nil
}

func (s *sessionScenarioState) thenCompletedOnce() error {
	// Give a stray timer a chance to fire twice.
	time.Sleep(50 * time.Millisecond)
	if s.controller.Timeout() {
		return fmt.Errorf("timeout completed an already completed session")
	}
	if n := s.completions.Load(); n != 1 {
		return fmt.Errorf("completed %d times, want 1", n)
	}
	return nil
}

func (s *sessionScenarioState) thenEndReason(reason string) error {
	got := s.controller.Result().EndReason
	if got != result.EndReason(reason) {
		return fmt.Errorf("end reason = %s, want %s", got, reason)
	}
	return nil
}
