// Package tui runs an assessment session in the terminal.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/subodh556/AI-Teacher-sub000/internal/report"
	"github.com/subodh556/AI-Teacher-sub000/internal/session"
)

// Engine is what the runner needs from the assessment service.
// *assess.Service implements it.
type Engine interface {
	Session(ctx context.Context, sessionID string) (session.Snapshot, error)
	Answer(ctx context.Context, sessionID, questionID string, raw json.RawMessage) (session.Feedback, error)
	End(ctx context.Context, sessionID string) error
	Result(ctx context.Context, sessionID string) (*report.Report, error)
}

type phase int

const (
	phaseQuestion phase = iota
	phaseFeedback
	phaseConfirmQuit
	phaseReport
	phaseError
)

// tickMsg drives the countdown.
type tickMsg time.Time

// Model is the bubbletea model of one running session.
type Model struct {
	ctx    context.Context
	engine Engine
	id     string
	title  string
	now    func() time.Time

	phase    phase
	snap     session.Snapshot
	form     form
	prompt   string
	feedback session.Feedback
	report   *report.Report
	err      error

	width  int
	height int
}

// New attaches a runner to an already started session.
func New(ctx context.Context, engine Engine, sessionID, title string) (*Model, error) {
	m := &Model{ctx: ctx, engine: engine, id: sessionID, title: title, now: time.Now}
	snap, err := engine.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.show(snap)
	return m, nil
}

// Report returns the final report once the session is over.
func (m *Model) Report() *report.Report {
	return m.report
}

func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m.handleTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// show presents a fresh snapshot, or the report when the session is over.
func (m *Model) show(snap session.Snapshot) tea.Cmd {
	m.snap = snap
	if snap.Phase == session.PhaseCompleted || snap.Current == nil {
		m.finish()
		return nil
	}
	m.phase = phaseQuestion
	m.prompt = snap.Current.Prompt
	var cmd tea.Cmd
	m.form, cmd = newForm(snap.Current)
	return cmd
}

func (m *Model) finish() {
	rep, err := m.engine.Result(m.ctx, m.id)
	if err != nil {
		m.fail(err)
		return
	}
	m.report = rep
	m.phase = phaseReport
}

func (m *Model) fail(err error) {
	m.err = err
	m.phase = phaseError
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.phase == phaseReport || m.phase == phaseError {
		return m, nil
	}
	if m.snap.Deadline.IsZero() || m.now().Before(m.snap.Deadline) {
		return m, tickCmd()
	}
	// The session timer has fired; pick up the recorded result.
	snap, err := m.engine.Session(m.ctx, m.id)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	if snap.Phase == session.PhaseCompleted {
		m.snap = snap
		m.finish()
		return m, nil
	}
	return m, tickCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		if m.phase != phaseReport && m.phase != phaseError {
			m.stop()
		}
		return m, tea.Quit
	}

	switch m.phase {
	case phaseError:
		return m, tea.Quit

	case phaseReport:
		switch key {
		case "enter", "esc", "q":
			return m, tea.Quit
		}
		return m, nil

	case phaseConfirmQuit:
		switch key {
		case "y", "Y":
			m.stop()
			if m.phase != phaseError {
				m.finish()
			}
		case "n", "N", "esc":
			m.phase = phaseQuestion
		}
		return m, nil

	case phaseFeedback:
		snap, err := m.engine.Session(m.ctx, m.id)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		return m, m.show(snap)
	}

	if key == "esc" {
		m.phase = phaseConfirmQuit
		return m, nil
	}
	var cmd tea.Cmd
	var submit bool
	m.form, cmd, submit = m.form.update(msg)
	if submit {
		return m.submit()
	}
	return m, cmd
}

func (m *Model) stop() {
	err := m.engine.End(m.ctx, m.id)
	if err != nil && !errors.Is(err, session.ErrSessionCompleted) {
		m.fail(err)
	}
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	a, ok := m.form.answer()
	if !ok {
		return m, nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	fb, err := m.engine.Answer(m.ctx, m.id, m.snap.Current.ID, raw)
	switch {
	case errors.Is(err, session.ErrSessionCompleted):
		m.finish()
		return m, nil
	case err != nil:
		m.fail(err)
		return m, nil
	}
	m.feedback = fb
	m.phase = phaseFeedback
	return m, nil
}

func (m *Model) keyHints() []keyHint {
	switch m.phase {
	case phaseConfirmQuit:
		return []keyHint{{"Y", "End session"}, {"N", "Keep going"}}
	case phaseFeedback:
		return []keyHint{{"any key", "Continue"}}
	case phaseReport, phaseError:
		return []keyHint{{"Enter", "Exit"}}
	}
	return []keyHint{{"Enter", "Submit"}, {"Esc", "Quit"}}
}

func (m *Model) status() string {
	var parts []string
	if m.snap.Total > 0 && m.phase != phaseReport {
		parts = append(parts, fmt.Sprintf("Q %d/%d", min(m.snap.Answered+1, m.snap.Total), m.snap.Total))
	}
	if m.snap.Adaptive && m.snap.Current != nil {
		parts = append(parts, fmt.Sprintf("Level %d", m.snap.Current.Difficulty))
	}
	if !m.snap.Deadline.IsZero() && m.phase != phaseReport {
		left := int(m.snap.Remaining(m.now()).Round(time.Second).Seconds())
		parts = append(parts, "T "+clock(left))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	if tooSmall(m.width, m.height) {
		v.SetContent(renderMinSize(m.width, m.height))
		return v
	}

	header := renderHeader(m.title, m.status(), m.width)
	footer := renderFooter(m.keyHints(), m.width)
	v.SetContent(renderFrame(header, m.content(m.width), footer, m.width, m.height))
	return v
}

func (m *Model) content(width int) string {
	switch m.phase {
	case phaseError:
		return centered(width, incorrectStyle, fmt.Sprintf("\n\nError: %v\n\nPress any key to exit.", m.err))
	case phaseReport:
		return RenderReport(m.report, width)
	case phaseConfirmQuit:
		return renderQuitConfirm(width)
	case phaseFeedback:
		return m.renderFeedback(width)
	}

	var b strings.Builder
	b.WriteString("\n")
	if area := m.snap.Current.KnowledgeAreaID; area != "" {
		b.WriteString("  " + areaStyle.Render(area) + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(colorBorder).Render(strings.Repeat("─", max(width-4, 0))))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.NewStyle().Width(min(width-4, 90)).Foreground(colorText).Bold(true).Render(m.prompt))
	b.WriteString("\n\n")
	b.WriteString(m.form.view(width))
	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

func (m *Model) renderFeedback(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	if m.feedback.Correct {
		b.WriteString(centered(width, correctStyle, "Correct!"))
	} else {
		b.WriteString(centered(width, incorrectStyle, "Not quite"))
	}
	b.WriteString("\n\n")
	if m.feedback.Explanation != "" {
		exp := bodyStyle.Width(min(width-8, 70)).Render(m.feedback.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	}
	if m.feedback.Completed {
		b.WriteString(centered(width, accentStyle, "That was the last question."))
		b.WriteString("\n\n")
	}
	b.WriteString(centered(width, dimStyle, "Press any key to continue..."))
	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, bodyStyle.Bold(true), "End session early?"))
	b.WriteString("\n")
	b.WriteString(centered(width, dimStyle, "Your answers so far will be scored."))
	b.WriteString("\n\n")
	b.WriteString(centered(width, correctStyle, "[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width, selectedStyle, "[N] No, keep going"))
	return b.String()
}
