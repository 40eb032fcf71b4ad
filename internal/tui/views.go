package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kingPercy11/Budgetify/internal/cli"
	"github.com/kingPercy11/Budgetify/internal/store"
	"github.com/kingPercy11/Budgetify/internal/tui/components"
	"github.com/kingPercy11/Budgetify/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// ─── Predict ────────────────────────────────────────────────────

func (a App) renderPredictTab(cw int) string {
	var formW, resultW int
	if a.isCompactLayout() {
		formW, resultW = cw, cw
	} else {
		widths := components.LayoutRow(cw, 3)
		formW = widths[0]
		resultW = cw - formW
	}

	form := components.ContentCard("Profile", a.renderForm(components.CardInnerWidth(formW)), formW)
	result := components.ContentCard("Predicted monthly expenses", a.renderPrediction(components.CardInnerWidth(resultW)), resultW)

	if a.isCompactLayout() {
		return lipgloss.JoinVertical(lipgloss.Left, form, result)
	}
	return components.CardRow([]string{form, result})
}

func (a App) renderForm(innerW int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	focusLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	arrowStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	labels := []string{"Income", "Age", "Dependents", "City tier", "Occupation"}
	vals := a.profileValues()

	var b strings.Builder
	for i, label := range labels {
		ls := labelStyle
		marker := "  "
		if i == a.focus {
			ls = focusLabelStyle
			marker = "▸ "
		}
		b.WriteString(ls.Render(fmt.Sprintf("%s%-11s", marker, label)))

		switch i {
		case fieldCityTier, fieldOccupation:
			v := vals.CityTier
			if i == fieldOccupation {
				v = vals.Occupation
			}
			b.WriteString(arrowStyle.Render("‹ "))
			b.WriteString(valueStyle.Render(v))
			b.WriteString(arrowStyle.Render(" ›"))
		default:
			b.WriteString(a.inputs[i].View())
		}
		b.WriteString("\n")
	}

	if a.predErr != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(truncStr(a.predErr.Error(), innerW)))
		b.WriteString("\n")
	}
	if a.prediction != nil {
		for _, w := range a.prediction.Warnings {
			b.WriteString("\n")
			b.WriteString(warnStyle.Render(truncStr("⚠ "+w, innerW)))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (a App) renderPrediction(innerW int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if a.prediction == nil {
		return dimStyle.Render("Fill in the profile to see a prediction.")
	}
	p := a.prediction

	labelW := 0
	for _, n := range p.Categories.Names {
		if len(n) > labelW {
			labelW = len(n)
		}
	}
	barW := innerW - labelW - 22
	if barW < 8 {
		barW = 8
	}

	var b strings.Builder
	for _, c := range p.Categories.Ranked() {
		share := 0.0
		if p.Profile.Income > 0 {
			share = c.Amount / p.Profile.Income
		}
		b.WriteString(components.ShareBar(c.Category, share, cli.FormatAmount(c.Amount), labelW, barW))
		b.WriteString("\n")
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	remainColor := t.Green
	if p.Remaining.IsNegative() {
		remainColor = t.Red
	}
	remainStyle := lipgloss.NewStyle().Foreground(remainColor).Background(t.Surface).Bold(true)

	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-26s", "Total expenses")))
	b.WriteString(totalStyle.Render(cli.FormatDecimal(p.Total)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-26s", "Remaining after expenses")))
	b.WriteString(remainStyle.Render(cli.FormatDecimal(p.Remaining)))

	return b.String()
}

// ─── Model ──────────────────────────────────────────────────────

func (a App) renderModelTab(cw int) string {
	t := theme.Active
	meta := a.predictor.Metadata()
	perf := meta.Performance

	cards := components.MetricCardRow([]components.Metric{
		{Label: "Family", Value: cli.FormatLabel(meta.Family)},
		{Label: "R²", Value: cli.FormatScore(perf.R2), Color: t.ScoreColor(perf.R2)},
		{Label: "MAE", Value: cli.FormatAmount(perf.MAE)},
		{Label: "RMSE", Value: cli.FormatAmount(perf.RMSE)},
	}, cw)

	var halves []int
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	} else {
		halves = components.LayoutRow(cw, 2)
	}

	innerW := components.CardInnerWidth(halves[0])
	labelW := 0
	for _, n := range meta.OutputColumns {
		if len(n) > labelW {
			labelW = len(n)
		}
	}
	barW := innerW - labelW - 10
	if barW < 8 {
		barW = 8
	}
	var scores strings.Builder
	for i, cat := range meta.OutputColumns {
		if i > 0 {
			scores.WriteString("\n")
		}
		r2, ok := perf.PerCategoryR2[cat]
		if !ok {
			scores.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
				Render(fmt.Sprintf("%-*s n/a", labelW, cat)))
			continue
		}
		scores.WriteString(components.ScoreBar(cat, r2, labelW, barW))
	}
	scoreCard := components.ContentCard("Held-out R² by category", scores.String(), halves[0])

	detailCard := components.ContentCard("Details", a.renderModelDetails(components.CardInnerWidth(halves[1])), halves[1])

	var body string
	if a.isCompactLayout() {
		body = lipgloss.JoinVertical(lipgloss.Left, scoreCard, detailCard)
	} else {
		body = components.CardRow([]string{scoreCard, detailCard})
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards, body)
}

func (a App) renderModelDetails(innerW int) string {
	t := theme.Active
	meta := a.predictor.Metadata()

	keyStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	rows := [][2]string{
		{"Trained", meta.CreatedAt.Local().Format("2006-01-02 15:04")},
		{"Train rows", cli.FormatNumber(int64(meta.TrainRows))},
		{"Test rows", cli.FormatNumber(int64(meta.TestRows))},
		{"Inputs", strings.Join(meta.InputColumns, ", ")},
	}
	if meta.RunID != "" {
		rows = append(rows, [2]string{"Run", meta.RunID})
	}

	keys := make([]string, 0, len(meta.Params))
	for k := range meta.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, [2]string{cli.FormatLabel(k), strconv.FormatFloat(meta.Params[k], 'f', -1, 64)})
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-18s", r[0])))
		b.WriteString(valStyle.Render(truncStr(r[1], innerW-18)))
	}
	return b.String()
}

// ─── Runs ───────────────────────────────────────────────────────

func (a App) renderRunsTab(cw, h int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.runs) == 0 {
		return components.ContentCard("Runs", dimStyle.Render("No training runs recorded yet."), cw)
	}

	history := bestScoreHistory(a.runs)
	trend := components.ContentCard(
		fmt.Sprintf("Best R² over the last %d runs", len(history)),
		components.Sparkline(history, t.Accent),
		cw,
	)

	var widths []int
	if a.isCompactLayout() {
		widths = []int{cw, cw}
	} else {
		widths = components.LayoutRow(cw, 2)
	}

	listH := h - lipgloss.Height(trend) - 3
	if listH < 3 {
		listH = 3
	}
	list := components.ContentCard("History", a.renderRunList(components.CardInnerWidth(widths[0]), listH), widths[0])
	detail := components.ContentCard("Run detail", a.renderRunDetail(components.CardInnerWidth(widths[1])), widths[1])

	var body string
	if a.isCompactLayout() {
		body = lipgloss.JoinVertical(lipgloss.Left, list, detail)
	} else {
		body = components.CardRow([]string{list, detail})
	}
	return lipgloss.JoinVertical(lipgloss.Left, trend, body)
}

func (a App) renderRunList(innerW, visible int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	offset := 0
	if a.runCursor >= visible {
		offset = a.runCursor - visible + 1
	}
	end := offset + visible
	if end > len(a.runs) {
		end = len(a.runs)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		r := a.runs[i]
		best, _ := selectedScore(r)
		line := fmt.Sprintf("%s  %-18s %s",
			r.CreatedAt.Local().Format("01-02 15:04"),
			truncStr(r.BestFamily, 18),
			cli.FormatScore(best.R2))
		style := rowStyle
		if i == a.runCursor {
			style = selStyle
		}
		b.WriteString(style.Width(innerW).Render(truncStr(line, innerW)))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (a App) renderRunDetail(innerW int) string {
	t := theme.Active
	if a.runCursor < 0 || a.runCursor >= len(a.runs) {
		return ""
	}
	r := a.runs[a.runCursor]

	keyStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var b strings.Builder
	kv := func(k, v string) {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-14s", k)))
		b.WriteString(valStyle.Render(truncStr(v, innerW-14)))
		b.WriteString("\n")
	}
	kv("Run", r.ID)
	kv("Data", r.DataPath)
	kv("Rows", fmt.Sprintf("%s (%s train / %s test)",
		cli.FormatNumber(int64(r.TotalRows)), cli.FormatNumber(int64(r.TrainRows)), cli.FormatNumber(int64(r.TestRows))))
	kv("Seed", fmt.Sprintf("%d", r.Seed))
	b.WriteString("\n")

	for _, fs := range r.Families {
		name := fmt.Sprintf("%-18s", fs.Family)
		if fs.Err != "" {
			b.WriteString(errStyle.Render(truncStr(name+" failed: "+fs.Err, innerW)))
			b.WriteString("\n")
			continue
		}
		line := fmt.Sprintf("%sR² %s  MAE %s  %s", name,
			cli.FormatScore(fs.R2), cli.FormatAmount(fs.MAE), cli.FormatDuration(fs.Duration))
		if fs.Selected {
			b.WriteString(selStyle.Render(truncStr(line+" ✓", innerW)))
		} else {
			b.WriteString(valStyle.Render(truncStr(line, innerW)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// bestScoreHistory returns the selected family's R² per run, oldest first.
// Runs are stored newest first.
func bestScoreHistory(runs []store.Run) []float64 {
	out := make([]float64, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		if fs, ok := selectedScore(runs[i]); ok {
			out = append(out, fs.R2)
		}
	}
	return out
}

func selectedScore(r store.Run) (store.FamilyScore, bool) {
	for _, fs := range r.Families {
		if fs.Selected {
			return fs, true
		}
	}
	return store.FamilyScore{}, false
}
