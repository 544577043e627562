package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// form collects the answer to one question. Which fields are live depends
// on the question kind.
type form struct {
	q *question.PublicQuestion

	// choice
	cursor int
	picked map[string]bool

	// short_text
	text textinput.Model

	// code
	code textarea.Model

	// multi_step
	steps []textinput.Model
	focus int
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	return ti
}

func newForm(q *question.PublicQuestion) (form, tea.Cmd) {
	f := form{q: q, picked: map[string]bool{}}
	if q == nil {
		return f, nil
	}
	switch q.Kind {
	case question.KindShortText:
		f.text = newTextInput("Type your answer...")
		return f, f.text.Focus()
	case question.KindCode:
		f.code = textarea.New()
		f.code.Placeholder = "Write your solution..."
		f.code.ShowLineNumbers = true
		f.code.SetWidth(72)
		f.code.SetHeight(10)
		f.code.SetValue(q.StarterCode)
		return f, f.code.Focus()
	case question.KindMultiStep:
		f.steps = make([]textinput.Model, len(q.Steps))
		for i := range q.Steps {
			f.steps[i] = newTextInput("Step answer...")
		}
		if len(f.steps) > 0 {
			return f, f.steps[0].Focus()
		}
	}
	return f, nil
}

// update handles a key press. submit reports that the learner asked to
// send the answer.
func (f form) update(msg tea.KeyMsg) (_ form, cmd tea.Cmd, submit bool) {
	if f.q == nil {
		return f, nil, false
	}
	key := msg.String()
	switch f.q.Kind {
	case question.KindChoice:
		return f.updateChoice(key)

	case question.KindShortText:
		if key == "enter" {
			return f, nil, true
		}
		f.text, cmd = f.text.Update(msg)
		return f, cmd, false

	case question.KindCode:
		if key == "ctrl+s" {
			return f, nil, true
		}
		f.code, cmd = f.code.Update(msg)
		return f, cmd, false

	case question.KindMultiStep:
		switch key {
		case "enter":
			if f.focus == len(f.steps)-1 {
				return f, nil, true
			}
			return f.moveFocus(1), nil, false
		case "tab", "down":
			return f.moveFocus(1), nil, false
		case "shift+tab", "up":
			return f.moveFocus(-1), nil, false
		}
		if len(f.steps) > 0 {
			f.steps[f.focus], cmd = f.steps[f.focus].Update(msg)
		}
		return f, cmd, false
	}
	return f, nil, false
}

func (f form) updateChoice(key string) (form, tea.Cmd, bool) {
	n := len(f.q.Options)
	switch key {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < n-1 {
			f.cursor++
		}
	case "space", " ":
		if f.q.MultiSelect && n > 0 {
			f.toggle(f.q.Options[f.cursor].ID)
		}
	case "enter":
		return f, nil, true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i >= n {
				break
			}
			f.cursor = i
			if !f.q.MultiSelect {
				return f, nil, true
			}
			f.toggle(f.q.Options[i].ID)
		}
	}
	return f, nil, false
}

func (f form) toggle(id string) {
	if f.picked[id] {
		delete(f.picked, id)
		return
	}
	f.picked[id] = true
}

// moveFocus cycles the focused step input by delta.
func (f form) moveFocus(delta int) form {
	if len(f.steps) == 0 {
		return f
	}
	f.steps[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.steps)) % len(f.steps)
	f.steps[f.focus].Focus()
	return f
}

// answer converts what was entered into the answer shape of the question's
// kind. It reports false while the form is still empty.
func (f form) answer() (question.Answer, bool) {
	if f.q == nil {
		return nil, false
	}
	switch f.q.Kind {
	case question.KindChoice:
		if len(f.q.Options) == 0 {
			return nil, false
		}
		if !f.q.MultiSelect {
			return question.Text(f.q.Options[f.cursor].ID), true
		}
		var ids question.List
		for _, o := range f.q.Options {
			if f.picked[o.ID] {
				ids = append(ids, o.ID)
			}
		}
		return ids, len(ids) > 0
	case question.KindShortText:
		v := strings.TrimSpace(f.text.Value())
		return question.Text(v), v != ""
	case question.KindCode:
		v := f.code.Value()
		return question.Text(v), strings.TrimSpace(v) != ""
	case question.KindMultiStep:
		out := question.Keyed{}
		for i, s := range f.q.Steps {
			v := strings.TrimSpace(f.steps[i].Value())
			if v == "" {
				return nil, false
			}
			out[s.ID] = v
		}
		return out, true
	}
	return nil, false
}

func (f form) view(width int) string {
	if f.q == nil {
		return ""
	}
	var b strings.Builder
	switch f.q.Kind {
	case question.KindChoice:
		for i, o := range f.q.Options {
			prefix := "  "
			if i == f.cursor {
				prefix = "> "
			}
			mark := ""
			if f.q.MultiSelect {
				mark = "[ ] "
				if f.picked[o.ID] {
					mark = "[x] "
				}
			}
			line := fmt.Sprintf("%s%d) %s%s", prefix, i+1, mark, o.Text)
			if i == f.cursor {
				b.WriteString(selectedStyle.Render(line))
			} else {
				b.WriteString(bodyStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if f.q.MultiSelect {
			b.WriteString(hintStyle.Render("Space or number to toggle, Enter to submit"))
		} else {
			b.WriteString(hintStyle.Render(fmt.Sprintf("Select (1-%d) or use arrows + Enter", len(f.q.Options))))
		}

	case question.KindShortText:
		b.WriteString("Answer: " + f.text.View())

	case question.KindCode:
		if f.q.Language != "" {
			b.WriteString(dimStyle.Render("Language: "+f.q.Language) + "\n")
		}
		b.WriteString(f.code.View())
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("Ctrl+S to submit"))

	case question.KindMultiStep:
		for i, s := range f.q.Steps {
			label := fmt.Sprintf("%d. %s", i+1, s.Prompt)
			if i == f.focus {
				b.WriteString(selectedStyle.Render(label))
			} else {
				b.WriteString(bodyStyle.Render(label))
			}
			b.WriteString("\n   " + f.steps[i].View() + "\n")
			if s.Hint != "" && i == f.focus {
				b.WriteString("   " + hintStyle.Render("Hint: "+s.Hint) + "\n")
			}
		}
	}
	return b.String()
}
