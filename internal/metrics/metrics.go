// Package metrics exports training results as Prometheus gauges.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kingPercy11/Budgetify/internal/pipeline"
)

const namespace = "budgetify"

// TrainingMetrics holds the gauges describing one training run.
type TrainingMetrics struct {
	registry *prometheus.Registry

	r2             *prometheus.GaugeVec
	mae            *prometheus.GaugeVec
	rmse           *prometheus.GaugeVec
	categoryR2     *prometheus.GaugeVec
	fitDuration    *prometheus.GaugeVec
	selected       *prometheus.GaugeVec
	datasetRows    *prometheus.GaugeVec
	fallbackEncode *prometheus.GaugeVec
	fitFailures    prometheus.Gauge
}

// NewTrainingMetrics registers the training gauges on a private registry.
func NewTrainingMetrics() *TrainingMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &TrainingMetrics{
		registry: reg,
		r2: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "model_r2",
				Help:      "Held-out R² averaged over expense categories",
			},
			[]string{"family"},
		),
		mae: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "model_mae",
				Help:      "Held-out mean absolute error averaged over expense categories",
			},
			[]string{"family"},
		),
		rmse: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "model_rmse",
				Help:      "Held-out root mean squared error over expense categories",
			},
			[]string{"family"},
		),
		categoryR2: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "category_r2",
				Help:      "Held-out R² per expense category",
			},
			[]string{"family", "category"},
		),
		fitDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fit_duration_seconds",
				Help:      "Wall time spent fitting and scoring a family",
			},
			[]string{"family"},
		),
		selected: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "model_selected",
				Help:      "1 for the family persisted as the model, 0 otherwise",
			},
			[]string{"family"},
		),
		datasetRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Rows in each partition of the training data",
			},
			[]string{"partition"},
		),
		fallbackEncode: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fallback_encodings",
				Help:      "Rows whose categorical value fell back to the default encoding",
			},
			[]string{"field"},
		),
		fitFailures: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fit_failures",
				Help:      "Families that failed to fit",
			},
		),
	}
}

// Observe records a training result and the dataset it was trained on.
func (m *TrainingMetrics) Observe(ds *pipeline.Dataset, res *pipeline.TrainResult) {
	m.datasetRows.WithLabelValues("train").Set(float64(res.TrainRows))
	m.datasetRows.WithLabelValues("test").Set(float64(res.TestRows))
	if ds != nil {
		for field, n := range ds.Warnings {
			m.fallbackEncode.WithLabelValues(field).Set(float64(n))
		}
	}

	var failures int
	for i := range res.Candidates {
		c := &res.Candidates[i]
		family := string(c.Family)
		if c.Err != nil {
			failures++
			continue
		}
		m.r2.WithLabelValues(family).Set(c.Scores.R2)
		m.mae.WithLabelValues(family).Set(c.Scores.MAE)
		m.rmse.WithLabelValues(family).Set(c.Scores.RMSE)
		m.fitDuration.WithLabelValues(family).Set(c.Duration.Seconds())
		if ds != nil {
			for j, cat := range ds.Schema.Outputs {
				if j < len(c.Scores.PerOutputR2) {
					m.categoryR2.WithLabelValues(family, cat).Set(c.Scores.PerOutputR2[j])
				}
			}
		}
		sel := 0.0
		if c == res.Best {
			sel = 1
		}
		m.selected.WithLabelValues(family).Set(sel)
	}
	m.fitFailures.Set(float64(failures))
}

// Registry returns the registry holding the gauges.
func (m *TrainingMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the gauges in the Prometheus text format, suitable for
// the node exporter's textfile collector.
func (m *TrainingMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
