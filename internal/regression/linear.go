package regression

import (
	"fmt"

	"github.com/YuminosukeSato/scigo/linear"
	"github.com/YuminosukeSato/scigo/preprocessing"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Linear is an ordinary least squares regressor with an intercept per output.
// Fitting goes through scigo; the fitted plane is kept as plain coefficients
// so the model gob-encodes without the scigo state.
type Linear struct {
	// Coef is features x outputs, row-major.
	Coef      []float64
	Intercept []float64
	NFeatures int
	NOutputs  int
}

func (l *Linear) Family() Family { return FamilyLinear }

func (l *Linear) Fitted() bool { return l.Coef != nil }

func (l *Linear) Shape() (int, int) { return l.NFeatures, l.NOutputs }

// Fit standardizes the varying features and fits one least squares model per
// output. Constant columns get a zero coefficient.
func (l *Linear) Fit(x, y *mat.Dense) error {
	n, p, k, err := checkFit(x, y)
	if err != nil {
		return err
	}

	var varying []int
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, x)
		if n > 1 && stat.Variance(col, nil) > 0 {
			varying = append(varying, j)
		}
	}

	coef := make([]float64, p*k)
	intercept := make([]float64, k)
	ycol := make([]float64, n)

	if len(varying) == 0 {
		for o := 0; o < k; o++ {
			mat.Col(ycol, o, y)
			intercept[o] = stat.Mean(ycol, nil)
		}
		l.Coef, l.Intercept, l.NFeatures, l.NOutputs = coef, intercept, p, k
		return nil
	}

	xv := mat.NewDense(n, len(varying), nil)
	for c, j := range varying {
		mat.Col(col, j, x)
		xv.SetCol(c, col)
	}
	scaler := preprocessing.NewStandardScaler(true, true)
	if err := scaler.Fit(xv); err != nil {
		return fmt.Errorf("linear: fitting scaler: %w", err)
	}
	xs, err := scaler.Transform(xv)
	if err != nil {
		return fmt.Errorf("linear: scaling features: %w", err)
	}

	// The origin and each unit vector, in raw feature space. Pushing them
	// through scaler and model reads the plane back off the fitted model.
	basis := mat.NewDense(len(varying)+1, len(varying), nil)
	for c := range varying {
		basis.Set(c+1, c, 1)
	}
	basisScaled, err := scaler.Transform(basis)
	if err != nil {
		return fmt.Errorf("linear: scaling basis: %w", err)
	}

	for o := 0; o < k; o++ {
		mat.Col(ycol, o, y)
		yo := mat.NewDense(n, 1, append([]float64(nil), ycol...))

		lr := linear.NewLinearRegression()
		if err := lr.Fit(xs, yo); err != nil {
			return fmt.Errorf("linear: fitting output %d: %w", o, err)
		}
		pred, err := lr.Predict(basisScaled)
		if err != nil {
			return fmt.Errorf("linear: reading coefficients of output %d: %w", o, err)
		}
		base := pred.At(0, 0)
		intercept[o] = base
		for c, j := range varying {
			coef[j*k+o] = pred.At(c+1, 0) - base
		}
	}

	l.Coef, l.Intercept, l.NFeatures, l.NOutputs = coef, intercept, p, k
	return nil
}

func (l *Linear) Predict(x mat.Matrix) (*mat.Dense, error) {
	n, err := checkPredict(l.Fitted(), l.NFeatures, x)
	if err != nil {
		return nil, err
	}
	coef := mat.NewDense(l.NFeatures, l.NOutputs, l.Coef)
	out := mat.NewDense(n, l.NOutputs, nil)
	out.Mul(x, coef)
	for i := 0; i < n; i++ {
		for o := 0; o < l.NOutputs; o++ {
			out.Set(i, o, out.At(i, o)+l.Intercept[o])
		}
	}
	return out, nil
}
