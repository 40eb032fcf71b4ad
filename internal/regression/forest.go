package regression

import (
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// RandomForest averages bootstrapped multi-output regression trees.
type RandomForest struct {
	params    Params
	trees     []*regressionTree
	nFeatures int
	nOutputs  int
}

func (f *RandomForest) Family() Family { return FamilyRandomForest }

func (f *RandomForest) Fitted() bool { return len(f.trees) > 0 }

func (f *RandomForest) Shape() (int, int) { return f.nFeatures, f.nOutputs }

// Fit grows the trees concurrently. Every tree draws from its own generator
// seeded before any tree starts, so the result does not depend on scheduling.
func (f *RandomForest) Fit(x, y *mat.Dense) error {
	n, p, k, err := checkFit(x, y)
	if err != nil {
		return err
	}
	xr, yr := rows(x), rows(y)

	seeder := rand.New(rand.NewSource(f.params.Seed))
	seeds := make([]int64, f.params.NEstimators)
	for i := range seeds {
		seeds[i] = seeder.Int63()
	}

	trees := make([]*regressionTree, len(seeds))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for t := range trees {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[t]))
			sample := make([]int, n)
			for i := range sample {
				sample[i] = rng.Intn(n)
			}
			trees[t] = growTree(xr, yr, sample, f.params.tree(), rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.trees = trees
	f.nFeatures, f.nOutputs = p, k
	return nil
}

func (f *RandomForest) Predict(x mat.Matrix) (*mat.Dense, error) {
	n, err := checkPredict(f.Fitted(), f.nFeatures, x)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(n, f.nOutputs, nil)
	row := make([]float64, f.nFeatures)
	acc := make([]float64, f.nOutputs)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		for o := range acc {
			acc[o] = 0
		}
		for _, t := range f.trees {
			for o, v := range t.predictRow(row) {
				acc[o] += v
			}
		}
		for o := range acc {
			acc[o] /= float64(len(f.trees))
		}
		out.SetRow(i, acc)
	}
	return out, nil
}
