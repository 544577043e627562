package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

const (
	minWidth  = 60
	minHeight = 16
)

// keyHint is a key binding shown in the footer.
type keyHint struct {
	Key         string
	Description string
}

func tooSmall(width, height int) bool {
	return width < minWidth || height < minHeight
}

func renderMinSize(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(colorText).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			minWidth, minHeight, width, height,
		))
}

// renderHeader lays out the assessment title on the left and the status
// (progress, countdown) on the right.
func renderHeader(title, status string, width int) string {
	left := titleStyle.Render("  " + title)
	right := dimStyle.Render(status + "  ")

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return barStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderFooter(hints []keyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, bodyStyle.Bold(true).Render(h.Key)+" "+dimStyle.Render(h.Description))
	}
	return barStyle.Width(width).Render("  " + strings.Join(parts, "   "))
}

func renderFrame(header, content, footer string, width, height int) string {
	contentHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}

// progressBar renders a label, a filled bar and the percentage.
func progressBar(label string, percent float64, width int) string {
	out := ""
	if label != "" {
		out = bodyStyle.Render(label) + "  "
	}
	barWidth := width - lipgloss.Width(out) - 6
	if barWidth < 4 {
		barWidth = 4
	}
	filled := min(max(int(float64(barWidth)*percent), 0), barWidth)

	out += lipgloss.NewStyle().Background(colorSecondary).Render(strings.Repeat(" ", filled))
	out += lipgloss.NewStyle().Background(colorBorder).Render(strings.Repeat(" ", barWidth-filled))
	out += dimStyle.Render(fmt.Sprintf("  %d%%", int(percent*100)))
	return out
}

func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
