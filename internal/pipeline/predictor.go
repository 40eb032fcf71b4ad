package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kingPercy11/Budgetify/internal/features"
	"github.com/kingPercy11/Budgetify/internal/log"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/regression"
)

// Predictor runs inference with a fitted regressor and the layout it was
// trained on. It never mutates the regressor.
type Predictor struct {
	reg    regression.Regressor
	meta   model.Metadata
	schema features.Schema
	logger *log.Logger
}

// NewPredictor pairs a regressor with its metadata. A nil or unfitted
// regressor is accepted; predictions then fail with model.ErrNotFitted.
func NewPredictor(reg regression.Regressor, meta model.Metadata, logger *log.Logger) (*Predictor, error) {
	schema, err := features.SchemaFromMetadata(meta)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	if reg != nil && reg.Fitted() {
		p, k := reg.Shape()
		if p != len(schema.Inputs) || k != len(schema.Outputs) {
			return nil, fmt.Errorf("%w: model is %dx%d, metadata lists %d inputs and %d outputs",
				model.ErrShapeMismatch, p, k, len(schema.Inputs), len(schema.Outputs))
		}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Predictor{
		reg:    reg,
		meta:   meta,
		schema: schema,
		logger: logger.WithComponent(log.ComponentPredict),
	}, nil
}

// Metadata returns the metadata the predictor was built with.
func (p *Predictor) Metadata() model.Metadata { return p.meta }

// Schema returns the trained input and output layout.
func (p *Predictor) Schema() features.Schema { return p.schema }

// Predict maps one feature vector to category amounts. The vector's names
// must equal the trained input order; use features.Align first otherwise.
func (p *Predictor) Predict(fv model.FeatureVector) (model.TargetVector, error) {
	out, err := p.predictMatrix([]model.FeatureVector{fv})
	if err != nil {
		return model.TargetVector{}, err
	}
	return out[0], nil
}

func (p *Predictor) predictMatrix(fvs []model.FeatureVector) ([]model.TargetVector, error) {
	if p.reg == nil || !p.reg.Fitted() {
		return nil, model.ErrNotFitted
	}
	x := mat.NewDense(len(fvs), len(p.schema.Inputs), nil)
	for i, fv := range fvs {
		if !p.schema.Matches(fv.Names) || len(fv.Values) != len(fv.Names) {
			return nil, &model.ShapeMismatchError{Want: p.schema.Inputs, Got: fv.Names}
		}
		x.SetRow(i, fv.Values)
	}

	pred, err := p.reg.Predict(x)
	if err != nil {
		return nil, err
	}

	out := make([]model.TargetVector, len(fvs))
	for i := range out {
		out[i] = model.TargetVector{
			Names:   append([]string(nil), p.schema.Outputs...),
			Amounts: mat.Row(nil, i, pred),
		}
	}
	return out, nil
}

// PredictProfile validates and encodes a profile, then predicts its
// category amounts, total and remaining income.
func (p *Predictor) PredictProfile(prof model.Profile) (model.Prediction, error) {
	preds, err := p.PredictBatch([]model.Profile{prof})
	if err != nil {
		return model.Prediction{}, err
	}
	return preds[0], nil
}

// PredictBatch predicts every profile with a single model call.
func (p *Predictor) PredictBatch(profiles []model.Profile) ([]model.Prediction, error) {
	if len(profiles) == 0 {
		return nil, nil
	}
	fvs := make([]model.FeatureVector, len(profiles))
	warnings := make([][]string, len(profiles))
	for i, prof := range profiles {
		if err := prof.Validate(); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i+1, err)
		}
		fv, ws := features.BuildFor(p.schema, prof)
		for _, w := range ws {
			p.logger.Warn("unknown category, using default encoding",
				log.FieldField, w.Field, log.FieldValue, w.Value)
			warnings[i] = append(warnings[i], w.Error())
		}
		fvs[i] = fv
	}

	targets, err := p.predictMatrix(fvs)
	if err != nil {
		return nil, err
	}

	out := make([]model.Prediction, len(profiles))
	for i, prof := range profiles {
		pred, err := model.NewPrediction(prof, targets[i])
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i+1, err)
		}
		pred.Warnings = warnings[i]
		out[i] = pred
	}
	return out, nil
}

// ExampleProfiles are the three reference users used by the batch report.
func ExampleProfiles() []model.Profile {
	return []model.Profile{
		{Income: 40000, Age: 25, Dependents: 0, CityTier: "Tier_2", Occupation: "Student"},
		{Income: 80000, Age: 40, Dependents: 3, CityTier: "Tier_1", Occupation: "Self_Employed"},
		{Income: 55000, Age: 32, Dependents: 1, CityTier: "Tier_3", Occupation: "Salaried"},
	}
}
