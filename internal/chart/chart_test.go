package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingPercy11/Budgetify/internal/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderScoreChart(t *testing.T) {
	meta := model.Metadata{
		OutputColumns: []string{"Bills", "Other", "Education"},
		Performance: model.Metrics{
			R2:            0.6,
			PerCategoryR2: map[string]float64{"Bills": 0.93, "Other": 0.41, "Education": -0.2},
		},
	}
	png, err := RenderScoreChart(meta)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = RenderScoreChart(model.Metadata{})
	assert.Error(t, err)
}

func TestRenderPredictionChart(t *testing.T) {
	pred, err := model.NewPrediction(
		model.Profile{Income: 60000},
		model.TargetVector{Names: []string{"Bills", "Food & Dining"}, Amounts: []float64{15000, 8000}},
	)
	require.NoError(t, err)
	png, err := RenderPredictionChart(pred)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	zero, err := model.NewPrediction(model.Profile{Income: 1}, model.TargetVector{Names: []string{"Bills"}, Amounts: []float64{0}})
	require.NoError(t, err)
	_, err = RenderPredictionChart(zero)
	assert.Error(t, err)
}

func TestRenderHistoryChart(t *testing.T) {
	png, err := RenderHistoryChart([]float64{0.71, 0.74, 0.74})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	_, err = RenderHistoryChart([]float64{0.7})
	assert.Error(t, err)
}
