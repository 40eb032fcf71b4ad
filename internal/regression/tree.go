package regression

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

type treeConfig struct {
	maxDepth        int // 0 = unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // 0 = all
}

// treeNode is a split when Feature >= 0 and a leaf otherwise.
type treeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     []float64
}

// regressionTree is a CART tree minimizing the summed squared error of all outputs.
type regressionTree struct {
	Nodes []treeNode
}

func growTree(x, y [][]float64, idx []int, cfg treeConfig, rng *rand.Rand) *regressionTree {
	t := &regressionTree{}
	t.grow(x, y, idx, 0, cfg, rng)
	return t
}

func (t *regressionTree) grow(x, y [][]float64, idx []int, depth int, cfg treeConfig, rng *rand.Rand) int {
	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{Feature: -1, Value: meanRows(y, idx)})

	if len(idx) < cfg.minSamplesSplit || len(idx) < 2*cfg.minSamplesLeaf {
		return id
	}
	if cfg.maxDepth > 0 && depth >= cfg.maxDepth {
		return id
	}
	s, ok := bestSplit(x, y, idx, cfg, rng)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range idx {
		if x[i][s.feature] <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := t.grow(x, y, left, depth+1, cfg, rng)
	r := t.grow(x, y, right, depth+1, cfg, rng)

	n := &t.Nodes[id]
	n.Feature = s.feature
	n.Threshold = s.threshold
	n.Left, n.Right = l, r
	n.Value = nil
	return id
}

func (t *regressionTree) predictRow(row []float64) []float64 {
	n := t.Nodes[0]
	for n.Feature >= 0 {
		if row[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n.Value
}

func (t *regressionTree) depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

type split struct {
	feature   int
	threshold float64
}

func bestSplit(x, y [][]float64, idx []int, cfg treeConfig, rng *rand.Rand) (split, bool) {
	n := len(idx)
	k := len(y[idx[0]])

	totalSum := make([]float64, k)
	totalSq := make([]float64, k)
	for _, i := range idx {
		for o, v := range y[i] {
			totalSum[o] += v
			totalSq[o] += v * v
		}
	}
	parent := sse(totalSum, totalSq, float64(n))
	bestCost := parent - 1e-12*math.Max(parent, 1)
	if bestCost <= 0 {
		return split{}, false
	}

	var best split
	found := false
	order := make([]int, n)
	leftSum := make([]float64, k)
	leftSq := make([]float64, k)
	rightSum := make([]float64, k)
	rightSq := make([]float64, k)

	for _, f := range candidateFeatures(len(x[idx[0]]), cfg.maxFeatures, rng) {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })
		for o := range leftSum {
			leftSum[o], leftSq[o] = 0, 0
		}

		for pos := 0; pos < n-1; pos++ {
			i := order[pos]
			for o, v := range y[i] {
				leftSum[o] += v
				leftSq[o] += v * v
			}
			cur, next := x[i][f], x[order[pos+1]][f]
			if cur == next {
				continue
			}
			nl, nr := pos+1, n-pos-1
			if nl < cfg.minSamplesLeaf || nr < cfg.minSamplesLeaf {
				continue
			}
			for o := range rightSum {
				rightSum[o] = totalSum[o] - leftSum[o]
				rightSq[o] = totalSq[o] - leftSq[o]
			}
			cost := sse(leftSum, leftSq, float64(nl)) + sse(rightSum, rightSq, float64(nr))
			if cost < bestCost {
				bestCost = cost
				thr := cur + (next-cur)/2
				if thr >= next {
					thr = cur
				}
				best = split{feature: f, threshold: thr}
				found = true
			}
		}
	}
	return best, found
}

func sse(sum, sq []float64, n float64) float64 {
	var total float64
	for o := range sum {
		v := sq[o] - sum[o]*sum[o]/n
		if v > 0 {
			total += v
		}
	}
	return total
}

func candidateFeatures(p, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= p || rng == nil {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return rng.Perm(p)[:maxFeatures]
}

func meanRows(y [][]float64, idx []int) []float64 {
	out := make([]float64, len(y[idx[0]]))
	for _, i := range idx {
		for o, v := range y[i] {
			out[o] += v
		}
	}
	for o := range out {
		out[o] /= float64(len(idx))
	}
	return out
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// DecisionTree is a single multi-output CART regression tree.
type DecisionTree struct {
	params    Params
	tree      *regressionTree
	nFeatures int
	nOutputs  int
}

func (d *DecisionTree) Family() Family { return FamilyDecisionTree }

func (d *DecisionTree) Fitted() bool { return d.tree != nil }

func (d *DecisionTree) Shape() (int, int) { return d.nFeatures, d.nOutputs }

// Depth returns the depth of the fitted tree.
func (d *DecisionTree) Depth() int {
	if d.tree == nil {
		return 0
	}
	return d.tree.depth()
}

func (d *DecisionTree) Fit(x, y *mat.Dense) error {
	n, p, k, err := checkFit(x, y)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(d.params.Seed))
	d.tree = growTree(rows(x), rows(y), allIndices(n), d.params.tree(), rng)
	d.nFeatures, d.nOutputs = p, k
	return nil
}

func (d *DecisionTree) Predict(x mat.Matrix) (*mat.Dense, error) {
	n, err := checkPredict(d.Fitted(), d.nFeatures, x)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(n, d.nOutputs, nil)
	row := make([]float64, d.nFeatures)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		out.SetRow(i, d.tree.predictRow(row))
	}
	return out, nil
}
