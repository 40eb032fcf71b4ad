package components

import (
	"fmt"
	"strings"

	"github.com/kingPercy11/Budgetify/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block progress bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ShareBar renders a labeled bar for a category's share of income, followed
// by the amount text and the share percentage.
func ShareBar(label string, share float64, amount string, labelW, barWidth int) string {
	t := theme.Active
	color := t.ShareColor(share)
	return labeledBar(label, clamp01(share), color, labelW, barWidth,
		fmt.Sprintf("%3.0f%%", clamp01(share)*100), amount)
}

// ScoreBar renders a labeled bar for an R² score. Negative scores show an
// empty bar with the raw value.
func ScoreBar(label string, r2 float64, labelW, barWidth int) string {
	t := theme.Active
	return labeledBar(label, clamp01(r2), t.ScoreColor(r2), labelW, barWidth,
		fmt.Sprintf("%7.4f", r2), "")
}

func labeledBar(label string, pct float64, color lipgloss.Color, labelW, barWidth int, figure, extra string) string {
	t := theme.Active

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	figureStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	extraStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	out := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		figureStyle.Render(figure)
	if extra != "" {
		out += spaceStyle.Render("  ") + extraStyle.Render(extra)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
