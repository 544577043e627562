package tui

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/report"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
	"github.com/subodh556/AI-Teacher-sub000/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

type fakeEngine struct {
	snap    session.Snapshot
	after   session.Snapshot
	answers []string
	ended   bool
}

func (f *fakeEngine) Session(context.Context, string) (session.Snapshot, error) {
	return f.snap, nil
}

func (f *fakeEngine) Answer(_ context.Context, _, questionID string, raw json.RawMessage) (session.Feedback, error) {
	if f.snap.Phase == session.PhaseCompleted {
		return session.Feedback{}, session.ErrSessionCompleted
	}
	f.answers = append(f.answers, string(raw))
	f.snap = f.after
	return session.Feedback{QuestionID: questionID, Correct: string(raw) == `"b"`, Completed: f.after.Phase == session.PhaseCompleted}, nil
}

func (f *fakeEngine) End(context.Context, string) error {
	f.ended = true
	f.snap = session.Snapshot{Phase: session.PhaseCompleted}
	return nil
}

func (f *fakeEngine) Result(context.Context, string) (*report.Report, error) {
	r := &result.AssessmentResult{
		Score:     100,
		EndReason: result.EndExhausted,
		QuestionResults: []result.QuestionResult{
			{QuestionID: "q1", Correct: true, Difficulty: 3},
		},
		KnowledgeGaps: []result.KnowledgeGap{{
			AreaID:               "types",
			Proficiency:          40,
			RecommendedResources: []question.Resource{{ID: "spec", Title: "The Go spec", URL: "https://go.dev/ref/spec"}},
		}},
	}
	if f.ended {
		r.EndReason = result.EndStopped
	}
	return report.Summarize(r, 70), nil
}

func choiceQuestion(multi bool) *question.PublicQuestion {
	return &question.PublicQuestion{
		ID:          "q1",
		Kind:        question.KindChoice,
		Prompt:      "Which declares a constant?",
		Difficulty:  3,
		Options:     []question.Option{{ID: "a", Text: "var"}, {ID: "b", Text: "const"}, {ID: "c", Text: "let"}},
		MultiSelect: multi,
	}
}

func newTestModel(t *testing.T, q *question.PublicQuestion) (*Model, *fakeEngine) {
	t.Helper()
	eng := &fakeEngine{
		snap:  session.Snapshot{ID: "s1", Phase: session.PhaseInProgress, Total: 2, Current: q},
		after: session.Snapshot{ID: "s1", Phase: session.PhaseCompleted, Total: 2, Answered: 1},
	}
	m, err := New(context.Background(), eng, "s1", "Go basics")
	require.NoError(t, err)
	return m, eng
}

func TestForm_SingleChoice(t *testing.T) {
	f, _ := newForm(choiceQuestion(false))
	f, _, submit := f.update(specialKey(tea.KeyDown))
	assert.False(t, submit)

	a, ok := f.answer()
	require.True(t, ok)
	assert.Equal(t, question.Text("b"), a)

	f, _, submit = f.update(keyPress('3'))
	assert.True(t, submit, "a number key submits a single-select question")
	a, _ = f.answer()
	assert.Equal(t, question.Text("c"), a)
}

func TestForm_MultiChoice(t *testing.T) {
	f, _ := newForm(choiceQuestion(true))
	_, ok := f.answer()
	assert.False(t, ok, "nothing picked yet")

	f, _, submit := f.update(keyPress('3'))
	assert.False(t, submit)
	f, _, _ = f.update(keyPress('1'))
	f, _, _ = f.update(keyPress('2'))
	f, _, _ = f.update(keyPress('2'))

	a, ok := f.answer()
	require.True(t, ok)
	assert.Equal(t, question.List{"a", "c"}, a, "option order, not pick order")

	_, _, submit = f.update(specialKey(tea.KeyEnter))
	assert.True(t, submit)
}

func TestForm_ShortText(t *testing.T) {
	f, _ := newForm(&question.PublicQuestion{ID: "q", Kind: question.KindShortText, Prompt: "p"})
	_, ok := f.answer()
	assert.False(t, ok)

	f.text.SetValue("  goroutine ")
	a, ok := f.answer()
	require.True(t, ok)
	assert.Equal(t, question.Text("goroutine"), a)
}

func TestForm_Code(t *testing.T) {
	f, _ := newForm(&question.PublicQuestion{ID: "q", Kind: question.KindCode, Prompt: "p", StarterCode: "func main() {}"})
	a, ok := f.answer()
	require.True(t, ok)
	assert.Equal(t, question.Text("func main() {}"), a)

	_, _, submit := f.update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	assert.True(t, submit)
}

func TestForm_MultiStep(t *testing.T) {
	f, _ := newForm(&question.PublicQuestion{
		ID:     "q",
		Kind:   question.KindMultiStep,
		Prompt: "Add",
		Steps:  []question.PublicStep{{ID: "s1", Prompt: "1+1"}, {ID: "s2", Prompt: "2+2"}},
	})
	f.steps[0].SetValue("2")
	_, ok := f.answer()
	assert.False(t, ok, "every step needs an answer")

	f, _, submit := f.update(specialKey(tea.KeyEnter))
	assert.False(t, submit, "enter on an earlier step moves on")
	assert.Equal(t, 1, f.focus)

	f.steps[1].SetValue(" 4 ")
	a, ok := f.answer()
	require.True(t, ok)
	assert.Equal(t, question.Keyed{"s1": "2", "s2": "4"}, a)

	_, _, submit = f.update(specialKey(tea.KeyEnter))
	assert.True(t, submit)

	f, _, _ = f.update(specialKey(tea.KeyTab))
	assert.Equal(t, 0, f.focus, "focus wraps around")
}

func TestModel_AnswerThenReport(t *testing.T) {
	m, eng := newTestModel(t, choiceQuestion(false))
	assert.Equal(t, phaseQuestion, m.phase)

	m.Update(keyPress('2'))
	require.Equal(t, phaseFeedback, m.phase)
	assert.Equal(t, []string{`"b"`}, eng.answers)
	assert.True(t, m.feedback.Correct)
	assert.True(t, m.feedback.Completed)

	m.Update(keyPress(' '))
	require.Equal(t, phaseReport, m.phase)
	require.NotNil(t, m.Report())
	assert.Equal(t, 100, m.Report().Result.Score)

	_, cmd := m.Update(specialKey(tea.KeyEnter))
	assert.NotNil(t, cmd)
}

func TestModel_QuitConfirm(t *testing.T) {
	m, eng := newTestModel(t, choiceQuestion(false))

	m.Update(specialKey(tea.KeyEscape))
	require.Equal(t, phaseConfirmQuit, m.phase)
	m.Update(keyPress('n'))
	assert.Equal(t, phaseQuestion, m.phase)
	assert.False(t, eng.ended)

	m.Update(specialKey(tea.KeyEscape))
	m.Update(keyPress('y'))
	assert.True(t, eng.ended)
	require.Equal(t, phaseReport, m.phase)
	assert.Equal(t, result.EndStopped, m.Report().Result.EndReason)
}

func TestModel_TickAfterDeadlineShowsReport(t *testing.T) {
	m, eng := newTestModel(t, choiceQuestion(false))
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	m.snap.Deadline = start.Add(time.Minute)

	m.now = func() time.Time { return start.Add(30 * time.Second) }
	_, cmd := m.Update(tickMsg(m.now()))
	assert.NotNil(t, cmd, "still counting down")
	assert.Equal(t, "Q 1/2  T 0:30", m.status())

	eng.snap = session.Snapshot{ID: "s1", Phase: session.PhaseCompleted}
	m.now = func() time.Time { return start.Add(61 * time.Second) }
	m.Update(tickMsg(m.now()))
	assert.Equal(t, phaseReport, m.phase)
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, choiceQuestion(false))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.NotNil(t, m.View())

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.NotNil(t, m.View())
	assert.NotEmpty(t, m.content(100))
}

func TestRenderReport(t *testing.T) {
	eng := &fakeEngine{}
	rep, err := eng.Result(context.Background(), "s1")
	require.NoError(t, err)

	out := RenderReport(rep, 100)
	assert.Contains(t, out, "Score: 100%")
	assert.Contains(t, out, "passed")
	assert.Contains(t, out, "types")
	assert.Contains(t, out, "The Go spec")
	assert.Empty(t, RenderReport(nil, 100))
}
