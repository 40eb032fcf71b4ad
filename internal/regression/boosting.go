package regression

import (
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// boostedOutput is a least-squares gradient boosted ensemble for one output.
type boostedOutput struct {
	Init  float64
	Trees []*regressionTree
}

func (b *boostedOutput) predictRow(row []float64, lr float64) float64 {
	v := b.Init
	for _, t := range b.Trees {
		v += lr * t.predictRow(row)[0]
	}
	return v
}

// GradientBoosting fits one independent boosted ensemble per output.
type GradientBoosting struct {
	params    Params
	outputs   []boostedOutput
	nFeatures int
}

func (g *GradientBoosting) Family() Family { return FamilyGradientBoosting }

func (g *GradientBoosting) Fitted() bool { return len(g.outputs) > 0 }

func (g *GradientBoosting) Shape() (int, int) { return g.nFeatures, len(g.outputs) }

// Fit boosts every output concurrently; each output uses a generator seeded
// with the configured seed, matching a per-output clone of one estimator.
func (g *GradientBoosting) Fit(x, y *mat.Dense) error {
	_, p, k, err := checkFit(x, y)
	if err != nil {
		return err
	}
	xr := rows(x)

	outputs := make([]boostedOutput, k)
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for o := range outputs {
		target := mat.Col(nil, o, y)
		eg.Go(func() error {
			outputs[o] = g.boost(xr, target)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	g.outputs = outputs
	g.nFeatures = p
	return nil
}

func (g *GradientBoosting) boost(x [][]float64, target []float64) boostedOutput {
	n := len(target)
	rng := rand.New(rand.NewSource(g.params.Seed))
	cfg := g.params.tree()
	cfg.maxFeatures = 0

	out := boostedOutput{Init: stat.Mean(target, nil)}
	current := make([]float64, n)
	residual := make([][]float64, n)
	for i := range current {
		current[i] = out.Init
		residual[i] = []float64{0}
	}

	sampleSize := int(g.params.Subsample * float64(n))
	if sampleSize < 1 {
		sampleSize = 1
	}

	for stage := 0; stage < g.params.NEstimators; stage++ {
		for i := range residual {
			residual[i][0] = target[i] - current[i]
		}
		idx := allIndices(n)
		if sampleSize < n {
			idx = rng.Perm(n)[:sampleSize]
		}
		t := growTree(x, residual, idx, cfg, rng)
		out.Trees = append(out.Trees, t)
		for i := range current {
			current[i] += g.params.LearningRate * t.predictRow(x[i])[0]
		}
	}
	return out
}

func (g *GradientBoosting) Predict(x mat.Matrix) (*mat.Dense, error) {
	n, err := checkPredict(g.Fitted(), g.nFeatures, x)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(n, len(g.outputs), nil)
	row := make([]float64, g.nFeatures)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		for o := range g.outputs {
			out.Set(i, o, g.outputs[o].predictRow(row, g.params.LearningRate))
		}
	}
	return out, nil
}
