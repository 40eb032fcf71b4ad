package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Report colors (Flexoki Dark).
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	amountStyle = lipgloss.NewStyle().Foreground(ColorBlue)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	goodStyle   = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	badStyle    = lipgloss.NewStyle().Foreground(ColorRed)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// ColumnKind controls how the cells of a table column are aligned and colored.
type ColumnKind int

const (
	// KindAuto renders the first column as text and the others as amounts.
	KindAuto ColumnKind = iota
	KindText
	// KindAmount is right-aligned.
	KindAmount
	// KindScore is right-aligned and colored by R² band. Cells that do not
	// parse as a number (a failed fit, a missing family) are muted.
	KindScore
)

// SeparatorRow splits a table body, for example above a totals row.
var SeparatorRow = []string{"---"}

// Table is a bordered report table.
type Table struct {
	Title   string
	Headers []string
	Kinds   []ColumnKind // per column; missing entries are KindAuto
	Rows    [][]string
}

func (t Table) kind(col int) ColumnKind {
	k := KindAuto
	if col < len(t.Kinds) {
		k = t.Kinds[col]
	}
	if k != KindAuto {
		return k
	}
	if col == 0 {
		return KindText
	}
	return KindAmount
}

func (t Table) numCols() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if !isSeparator(row) && len(row) > n {
			n = len(row)
		}
	}
	return n
}

func (t Table) widths(n int) []int {
	widths := make([]int, n)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			continue
		}
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == SeparatorRow[0]
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	n := t.numCols()
	if n == 0 {
		return ""
	}
	widths := t.widths(n)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		cells := make([]string, n)
		for i := range cells {
			h := ""
			if i < len(t.Headers) {
				h = t.Headers[i]
			}
			cells[i] = headerStyle.Render(pad(h, widths[i], t.kind(i) == KindText))
		}
		b.WriteString(joinCells(cells))
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		cells := make([]string, n)
		for i := range cells {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = renderCell(cell, widths[i], t.kind(i))
		}
		b.WriteString(joinCells(cells))
	}

	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

func renderCell(cell string, width int, kind ColumnKind) string {
	switch kind {
	case KindText:
		return valueStyle.Render(pad(cell, width, true))
	case KindScore:
		r2, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return mutedStyle.Render(pad(cell, width, false))
		}
		return scoreStyle(r2).Render(pad(cell, width, false))
	default:
		return amountStyle.Render(pad(cell, width, false))
	}
}

// pad surrounds a cell with one space of margin and fills it to width.
func pad(s string, width int, left bool) string {
	fill := strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
	if left {
		return " " + s + fill + " "
	}
	return " " + fill + s + " "
}

func joinCells(cells []string) string {
	sep := dimStyle.Render("│")
	return sep + strings.Join(cells, sep) + sep + "\n"
}

func rule(widths []int, left, mid, right string) string {
	segs := make([]string, len(widths))
	for i, w := range widths {
		segs[i] = strings.Repeat("─", w+2)
	}
	return dimStyle.Render(left+strings.Join(segs, mid)+right) + "\n"
}

// RenderSparkline draws a series with unicode blocks scaled between its
// minimum and maximum. A flat series renders at full height.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	blocks := []rune("▁▂▃▄▅▆▇█")

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := len(blocks) - 1
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(blocks)-1))
			idx = max(0, min(idx, len(blocks)-1))
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderHorizontalBar renders a labelled horizontal bar chart entry.
func RenderHorizontalBar(label string, labelWidth int, value, maxValue float64, maxWidth int, valueText string) string {
	if maxValue <= 0 {
		return fmt.Sprintf("  %-*s %s", labelWidth, label, valueText)
	}
	barLen := int(value / maxValue * float64(maxWidth))
	barLen = max(0, min(barLen, maxWidth))
	bar := strings.Repeat("█", barLen) + strings.Repeat(" ", maxWidth-barLen)
	return fmt.Sprintf("  %-*s %s %s", labelWidth, label, amountStyle.Render(bar), valueText)
}

func scoreStyle(r2 float64) lipgloss.Style {
	switch {
	case r2 >= 0.7:
		return goodStyle
	case r2 >= 0:
		return warnStyle
	default:
		return badStyle
	}
}

// RenderScore colors an R² score: green when strong, orange when weak, red
// when the model does worse than predicting the mean.
func RenderScore(r2 float64) string {
	return scoreStyle(r2).Render(FormatScore(r2))
}

// RenderWarning renders a warning line.
func RenderWarning(msg string) string {
	return warnStyle.Render("  ! " + msg)
}

// RenderMuted renders secondary text.
func RenderMuted(msg string) string {
	return mutedStyle.Render(msg)
}

// RenderKeyValue renders an aligned "key: value" line.
func RenderKeyValue(key string, keyWidth int, value string) string {
	return fmt.Sprintf("  %s %s", mutedStyle.Render(fmt.Sprintf("%-*s", keyWidth, key+":")), valueStyle.Render(value))
}
