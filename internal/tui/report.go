package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/subodh556/AI-Teacher-sub000/internal/report"
)

// RenderReport renders a finished session's report.
func RenderReport(rep *report.Report, width int) string {
	if rep == nil || rep.Result == nil {
		return ""
	}
	r := rep.Result
	inner := min(width-4, 70)
	divider := lipgloss.NewStyle().Foreground(colorBorder).Render(strings.Repeat("─", max(inner, 0)))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Assessment complete"))
	b.WriteString("\n\n")

	scoreStyle := correctStyle
	if rep.HasPass && !rep.Passed {
		scoreStyle = incorrectStyle
	}
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Score: %d%%", r.Score)))
	b.WriteString("   " + dimStyle.Render(strings.ReplaceAll(string(rep.Rating), "_", " ")))
	if rep.HasPass {
		verdict := incorrectStyle.Render("not passed")
		if rep.Passed {
			verdict = correctStyle.Render("passed")
		}
		b.WriteString("   " + verdict)
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Answered: %d   Time: %s", len(r.QuestionResults), clock(r.TimeTakenSeconds))))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Width(inner).Render(rep.Message))
	b.WriteString("\n\n")

	if len(rep.Breakdown) > 0 {
		b.WriteString(dimStyle.Render("By difficulty") + "\n" + divider + "\n")
		for _, bk := range rep.Breakdown {
			label := fmt.Sprintf("Level %d  %d/%d", bk.Difficulty, bk.Correct, bk.Total)
			b.WriteString(progressBar(label, float64(bk.Percent)/100, inner))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.KnowledgeGaps) > 0 {
		b.WriteString(dimStyle.Render("Knowledge gaps") + "\n" + divider + "\n")
		for _, g := range r.KnowledgeGaps {
			b.WriteString(fmt.Sprintf("%s  %s\n", areaStyle.Render(g.AreaID), dimStyle.Render(fmt.Sprintf("%d%% proficiency", g.Proficiency))))
			for _, res := range g.RecommendedResources {
				line := "  - " + res.Title
				if res.URL != "" {
					line += "  " + hintStyle.Render(res.URL)
				}
				b.WriteString(bodyStyle.Render(line) + "\n")
			}
		}
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}
