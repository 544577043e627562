package tui

import "charm.land/lipgloss/v2"

// Palette
var (
	colorPrimary   = lipgloss.Color("#8B5CF6")
	colorSecondary = lipgloss.Color("#14B8A6")
	colorAccent    = lipgloss.Color("#F97316")
	colorSuccess   = lipgloss.Color("#22C55E")
	colorError     = lipgloss.Color("#F43F5E")
	colorText      = lipgloss.Color("#F8FAFC")
	colorTextDim   = lipgloss.Color("#94A3B8")
	colorBgCard    = lipgloss.Color("#1E293B")
	colorBorder    = lipgloss.Color("#334155")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	bodyStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	correctStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	incorrectStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	areaStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Background(colorBgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)
)

func centered(width int, style lipgloss.Style, s string) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}
