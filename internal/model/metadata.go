package model

import "time"

// Metrics holds held-out regression performance for a fitted model.
type Metrics struct {
	R2            float64            `json:"R2_Score"`
	MAE           float64            `json:"MAE"`
	RMSE          float64            `json:"RMSE"`
	PerCategoryR2 map[string]float64 `json:"per_category_r2,omitempty"`
}

// Metadata pairs a trained model with its expected input/output layout.
// It is written once after training and treated as read-only afterwards.
type Metadata struct {
	InputColumns  []string           `json:"input_columns"`
	OutputColumns []string           `json:"output_columns"`
	Performance   Metrics            `json:"model_performance"`
	Family        string             `json:"family"`
	Params        map[string]float64 `json:"params,omitempty"`
	TrainRows     int                `json:"train_rows"`
	TestRows      int                `json:"test_rows"`
	CreatedAt     time.Time          `json:"created_at"`
	RunID         string             `json:"run_id,omitempty"`
}
