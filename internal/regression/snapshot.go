package regression

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/kingPercy11/Budgetify/internal/model"
)

// snapshot is the gob representation of a fitted regressor.
type snapshot struct {
	Family    Family
	Params    Params
	NFeatures int
	NOutputs  int
	Linear    *Linear
	Trees     []*regressionTree
	Boosted   []boostedOutput
}

// Encode writes a fitted regressor to w.
func Encode(w io.Writer, r Regressor) error {
	if r == nil || !r.Fitted() {
		return fmt.Errorf("encode: %w", model.ErrNotFitted)
	}
	s := snapshot{Family: r.Family()}
	s.NFeatures, s.NOutputs = r.Shape()
	switch m := r.(type) {
	case *Linear:
		s.Linear = m
	case *DecisionTree:
		s.Params = m.params
		s.Trees = []*regressionTree{m.tree}
	case *RandomForest:
		s.Params = m.params
		s.Trees = m.trees
	case *GradientBoosting:
		s.Params = m.params
		s.Boosted = m.outputs
	default:
		return fmt.Errorf("encode: unsupported regressor %T", r)
	}
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encoding %s model: %w", s.Family, err)
	}
	return nil
}

// Decode reads a regressor written by Encode.
func Decode(r io.Reader) (Regressor, error) {
	var s snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	switch s.Family {
	case FamilyLinear:
		if s.Linear == nil {
			return nil, fmt.Errorf("decoding model: linear parameters missing")
		}
		return s.Linear, nil
	case FamilyDecisionTree:
		if len(s.Trees) != 1 {
			return nil, fmt.Errorf("decoding model: decision tree has %d trees", len(s.Trees))
		}
		return &DecisionTree{params: s.Params, tree: s.Trees[0], nFeatures: s.NFeatures, nOutputs: s.NOutputs}, nil
	case FamilyRandomForest:
		if len(s.Trees) == 0 {
			return nil, fmt.Errorf("decoding model: random forest has no trees")
		}
		return &RandomForest{params: s.Params, trees: s.Trees, nFeatures: s.NFeatures, nOutputs: s.NOutputs}, nil
	case FamilyGradientBoosting:
		if len(s.Boosted) != s.NOutputs || s.NOutputs == 0 {
			return nil, fmt.Errorf("decoding model: gradient boosting has %d of %d outputs", len(s.Boosted), s.NOutputs)
		}
		return &GradientBoosting{params: s.Params, outputs: s.Boosted, nFeatures: s.NFeatures}, nil
	}
	return nil, fmt.Errorf("decoding model: unknown family %q", s.Family)
}
