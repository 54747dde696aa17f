package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors tuned for light and dark terminals.
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	treePaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	statusStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	badgeStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	tickStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	helpOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)
)

// renderDivider draws a horizontal rule.
func renderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBorder).
		Render(strings.Repeat("─", width))
}

// renderTimeline draws the playback bar with a cursor and anchor tick
// marks. Ticks are fractional positions in [0,1] along the sequence.
func renderTimeline(width int, progress float64, ticks []float64) string {
	if width < 2 {
		return ""
	}
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = '─'
	}
	for _, tk := range ticks {
		col := int(tk * float64(width-1))
		if col >= 0 && col < width {
			cells[col] = '┼'
		}
	}
	cursor := int(progress * float64(width-1))
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= width {
		cursor = width - 1
	}

	var b strings.Builder
	for i, ch := range cells {
		if i == cursor {
			b.WriteString(badgeStyle.Render("●"))
			continue
		}
		b.WriteString(tickStyle.Render(string(ch)))
	}
	return b.String()
}
