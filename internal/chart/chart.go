// Package chart renders PNG charts of model scores and predictions.
package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/kingPercy11/Budgetify/internal/model"
)

var (
	colorBar    = drawing.ColorFromHex("3AA99F")
	colorAccent = drawing.ColorFromHex("4385BE")
	colorMuted  = drawing.ColorFromHex("9ca3af")
)

// RenderScoreChart renders per-category R² as a bar chart. Negative scores
// are drawn at zero; the axis is fixed to [0, 1].
func RenderScoreChart(meta model.Metadata) ([]byte, error) {
	if len(meta.Performance.PerCategoryR2) == 0 {
		return nil, fmt.Errorf("metadata has no per-category scores")
	}

	bars := make([]chart.Value, 0, len(meta.OutputColumns))
	for _, cat := range meta.OutputColumns {
		r2, ok := meta.Performance.PerCategoryR2[cat]
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{
			Label: cat,
			Value: math.Max(0, math.Min(1, r2)),
			Style: chart.Style{FillColor: colorBar, StrokeColor: colorBar},
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("metadata scores do not match its output columns")
	}

	title := fmt.Sprintf("Held-out R² by category (overall %.3f)", meta.Performance.R2)
	return renderBars(title, bars, &chart.ContinuousRange{Min: 0, Max: 1}, func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	})
}

// RenderPredictionChart renders predicted amounts per category.
func RenderPredictionChart(pred model.Prediction) ([]byte, error) {
	cats := pred.Categories
	if len(cats.Names) == 0 {
		return nil, fmt.Errorf("prediction has no categories")
	}

	var maxAmount float64
	bars := make([]chart.Value, len(cats.Names))
	for i, name := range cats.Names {
		v := math.Max(0, cats.Amounts[i])
		maxAmount = math.Max(maxAmount, v)
		bars[i] = chart.Value{
			Label: name,
			Value: v,
			Style: chart.Style{FillColor: colorAccent, StrokeColor: colorAccent},
		}
	}
	if maxAmount == 0 {
		return nil, fmt.Errorf("every predicted amount is zero or negative")
	}

	title := fmt.Sprintf("Predicted expenses (total %s of %.0f)", pred.Total.StringFixed(2), pred.Profile.Income)
	return renderBars(title, bars, &chart.ContinuousRange{Min: 0, Max: maxAmount * 1.1}, func(v float64) string {
		if maxAmount >= 10000 {
			return fmt.Sprintf("%.0fk", v/1000)
		}
		return fmt.Sprintf("%.0f", v)
	})
}

func renderBars(title string, bars []chart.Value, yRange chart.Range, format func(float64) string) ([]byte, error) {
	graph := chart.BarChart{
		Title:  title,
		Width:  960,
		Height: 420,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 70,
		XAxis:    chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Range: yRange,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return format(f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderHistoryChart renders the selected model's R² across training runs,
// oldest first.
func RenderHistoryChart(r2 []float64) ([]byte, error) {
	if len(r2) < 2 {
		return nil, fmt.Errorf("need at least 2 runs, got %d", len(r2))
	}

	x := make([]float64, len(r2))
	lo, hi := r2[0], r2[0]
	for i, v := range r2 {
		x[i] = float64(i + 1)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi-lo < 0.01 {
		lo, hi = lo-0.05, hi+0.05
	}

	graph := chart.Chart{
		Title:  "Selected model R² by run",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("#%d", int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.3f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "R²",
				Style: chart.Style{
					StrokeColor: colorAccent,
					StrokeWidth: 2.5,
					DotColor:    colorMuted,
					DotWidth:    3,
				},
				XValues: x,
				YValues: r2,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
