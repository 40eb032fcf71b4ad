package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scores are held-out regression metrics. Overall values are uniform
// averages over the outputs.
type Scores struct {
	R2          float64
	MAE         float64
	RMSE        float64
	PerOutputR2 []float64
}

// Evaluate scores predictions against the truth column by column.
func Evaluate(truth, pred mat.Matrix) (Scores, error) {
	n, k := truth.Dims()
	pn, pk := pred.Dims()
	if n != pn || k != pk {
		return Scores{}, fmt.Errorf("evaluate: truth is %dx%d, predictions are %dx%d", n, k, pn, pk)
	}
	if n == 0 || k == 0 {
		return Scores{}, fmt.Errorf("evaluate: no samples")
	}

	s := Scores{PerOutputR2: make([]float64, k)}
	var mse float64
	tcol := make([]float64, n)
	pcol := make([]float64, n)
	for o := 0; o < k; o++ {
		mat.Col(tcol, o, truth)
		mat.Col(pcol, o, pred)

		var absErr, sqErr float64
		for i := range tcol {
			d := pcol[i] - tcol[i]
			absErr += math.Abs(d)
			sqErr += d * d
		}
		s.MAE += absErr / float64(n)
		mse += sqErr / float64(n)

		r2 := R2(tcol, pcol)
		s.PerOutputR2[o] = r2
		s.R2 += r2
	}
	s.R2 /= float64(k)
	s.MAE /= float64(k)
	s.RMSE = math.Sqrt(mse / float64(k))
	return s, nil
}

// R2 is the coefficient of determination of one output. A constant truth
// column scores 1 when predicted exactly and 0 otherwise.
func R2(truth, pred []float64) float64 {
	mean := stat.Mean(truth, nil)
	var ssTot, ssRes float64
	for i, v := range truth {
		ssTot += (v - mean) * (v - mean)
		ssRes += (pred[i] - v) * (pred[i] - v)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(pred, truth, nil)
}
