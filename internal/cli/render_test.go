package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Predicted Expenses",
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Bills", "15,000.00"},
			{"---"},
			{"Total", "15,000.00"},
		},
	})

	for _, want := range []string{"Predicted Expenses", "Category", "Amount", "Bills", "15,000.00", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// title, top, header, header separator, row, separator, row, bottom
	if got := strings.Count(out, "\n"); got != 8 {
		t.Errorf("table has %d lines, want 8:\n%s", got, out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("empty table rendered %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("RenderSparkline(nil) = %q", got)
	}
	got := []rune(RenderSparkline([]float64{0, 0.5, 1}))
	if len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Errorf("RenderSparkline = %q", string(got))
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	out := RenderHorizontalBar("Bills", 8, 50, 100, 10, "0.5000")
	if !strings.Contains(out, "Bills") || !strings.Contains(out, "0.5000") {
		t.Errorf("bar missing label or value: %q", out)
	}
	if got := strings.Count(out, "█"); got != 5 {
		t.Errorf("bar has %d blocks, want 5", got)
	}
}

func TestRenderTable_AlignsByKind(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Family", "R2", "MAE"},
		Kinds:   []ColumnKind{KindText, KindScore, KindAmount},
		Rows: [][]string{
			{"linear", "0.8123", "1,204.55"},
			{"random_forest", "failed", "5.00"},
		},
	})

	lines := strings.Split(out, "\n")
	// top, header, separator, two rows, bottom, trailing newline
	if len(lines) != 7 {
		t.Fatalf("table has %d lines:\n%s", len(lines), out)
	}
	for _, want := range []string{"│ linear        │ 0.8123 │ 1,204.55 │", "│ random_forest │ failed │     5.00 │"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(lines[1], "│ Family        │     R2 │      MAE │") {
		t.Errorf("header not aligned with columns: %q", lines[1])
	}
}

func TestRenderTable_RaggedRows(t *testing.T) {
	out := RenderTable(Table{Rows: [][]string{{"Family", "linear"}, SeparatorRow, {"R2"}}})
	if !strings.Contains(out, "│ R2     │        │") {
		t.Errorf("short row not padded:\n%s", out)
	}
}

func TestScoreStyleBands(t *testing.T) {
	tests := []struct {
		r2   float64
		want lipgloss.Color
	}{
		{0.95, ColorGreen},
		{0.7, ColorGreen},
		{0.3, ColorOrange},
		{0, ColorOrange},
		{-0.2, ColorRed},
	}
	for _, tt := range tests {
		if got := scoreStyle(tt.r2).GetForeground(); got != tt.want {
			t.Errorf("scoreStyle(%v) = %v, want %v", tt.r2, got, tt.want)
		}
	}
}

func TestRenderSparkline_Flat(t *testing.T) {
	if got := RenderSparkline([]float64{0.6, 0.6}); got != "██" {
		t.Errorf("RenderSparkline(flat) = %q, want full blocks", got)
	}
}
