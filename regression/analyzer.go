package regression

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/internal/options"
)

// Analyze measures the cost per row of ds at several chunk sizes and fits
// every model to the measurements.
//
// ds must hold at least two points.
func Analyze(ds dataset.Dataset, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if len(ds) < 2 {
		return nil, fmt.Errorf("insufficient data for regression: %d points", len(ds))
	}

	sizes := chunkSizes(min(len(ds), cfg.MaxChunkRows))
	samples, err := measure(ds, sizes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to measure chunk sizes: %w", err)
	}

	rows := make([]float64, len(samples))
	costs := make([]float64, len(samples))
	for i, s := range samples {
		rows[i] = float64(s.Rows)
		costs[i] = s.CostPerRow
	}

	res, err := Fit(rows, costs)
	if err != nil {
		return nil, err
	}
	res.Samples = samples
	res.Unit = cfg.Unit

	return res, nil
}

// Fit fits every model to the (rows, cost per row) pairs and ranks them by R².
//
// Models that cannot be fitted are left out: power and exponential models
// need positive costs.
func Fit(rows, costs []float64) (*Result, error) {
	if len(rows) != len(costs) {
		return nil, fmt.Errorf("mismatched data lengths: %d rows vs %d costs", len(rows), len(costs))
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("insufficient data points for regression: %d", len(rows))
	}
	for _, x := range rows {
		if x <= 0 {
			return nil, errors.New("rows per document must be positive")
		}
	}
	if slices.Min(rows) == slices.Max(rows) {
		return nil, errors.New("at least two distinct row counts are required")
	}

	positive := !slices.ContainsFunc(costs, func(y float64) bool { return y <= 0 })

	models := make([]*Model, 0, len(modelTypeNames))
	for _, fit := range []func(x, y []float64) (*Model, bool){
		fitHyperbolic,
		fitLogarithmic,
		fitPower,
		fitExponential,
		fitPolynomial,
	} {
		m, ok := fit(rows, costs)
		if !ok {
			continue
		}
		if !positive && (m.Type == ModelTypePower || m.Type == ModelTypeExponential) {
			continue
		}
		models = append(models, m)
	}

	if len(models) == 0 {
		return nil, errors.New("no model could be fitted")
	}

	slices.SortStableFunc(models, func(a, b *Model) int {
		return cmp.Compare(b.RSquared, a.RSquared)
	})

	return &Result{BestFit: models[0], AllModels: models}, nil
}

func fitHyperbolic(x, y []float64) (*Model, bool) {
	a, b, ok := leastSquares(x, y, func(v float64) float64 { return 1 / v }, identity)
	if !ok {
		return nil, false
	}

	return newModel(ModelTypeHyperbolic, x, y, []float64{a, b},
		fmt.Sprintf("cost = %.2f + %.2f / rows", a, b))
}

func fitLogarithmic(x, y []float64) (*Model, bool) {
	a, b, ok := leastSquares(x, y, math.Log, identity)
	if !ok {
		return nil, false
	}

	return newModel(ModelTypeLogarithmic, x, y, []float64{a, b},
		fmt.Sprintf("cost = %.2f + %.2f * ln(rows)", a, b))
}

// fitPower fits ln(y) = ln(a) + b*ln(x).
func fitPower(x, y []float64) (*Model, bool) {
	logA, b, ok := leastSquares(x, y, math.Log, math.Log)
	if !ok {
		return nil, false
	}
	a := math.Exp(logA)

	return newModel(ModelTypePower, x, y, []float64{a, b},
		fmt.Sprintf("cost = %.2f * rows^%.3f", a, b))
}

// fitExponential fits ln(y) = ln(a) + b*x.
func fitExponential(x, y []float64) (*Model, bool) {
	logA, b, ok := leastSquares(x, y, identity, math.Log)
	if !ok {
		return nil, false
	}
	a := math.Exp(logA)

	return newModel(ModelTypeExponential, x, y, []float64{a, b},
		fmt.Sprintf("cost = %.2f * e^(%.5f * rows)", a, b))
}

// fitPolynomial fits a quadratic through the normal equations, falling back
// to a straight line with fewer than three points or a singular system.
func fitPolynomial(x, y []float64) (*Model, bool) {
	coeffs, ok := quadratic(x, y)
	if !ok {
		a, b, ok := leastSquares(x, y, identity, identity)
		if !ok {
			return nil, false
		}
		coeffs = []float64{a, b, 0}
	}

	return newModel(ModelTypePolynomial, x, y, coeffs,
		fmt.Sprintf("cost = %.2f + %.4f*rows + %.6f*rows²", coeffs[0], coeffs[1], coeffs[2]))
}

func newModel(mt ModelType, x, y, coeffs []float64, formula string) (*Model, bool) {
	est, err := newCurve(mt, coeffs)
	if err != nil {
		return nil, false
	}

	r2, rmse := goodness(est, x, y)

	return &Model{
		Type:         mt,
		Coefficients: coeffs,
		RSquared:     r2,
		RMSE:         rmse,
		Formula:      formula,
		Estimator:    est,
	}, true
}

func identity(v float64) float64 { return v }

// leastSquares fits fy(y) = a + b*fx(x).
func leastSquares(x, y []float64, fx, fy func(float64) float64) (a, b float64, ok bool) {
	n := float64(len(x))

	var sumX, sumY, sumXY, sumX2 float64
	for i := range x {
		xi, yi := fx(x[i]), fy(y[i])
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
	}

	meanX, meanY := sumX/n, sumY/n
	denom := sumX2 - n*meanX*meanX
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return 0, 0, false
	}

	b = (sumXY - n*meanX*meanY) / denom
	a = meanY - b*meanX

	return a, b, !math.IsNaN(a) && !math.IsNaN(b)
}

// quadratic solves the 3x3 normal equations of y = a + b*x + c*x² by
// Gaussian elimination with partial pivoting.
func quadratic(x, y []float64) ([]float64, bool) {
	if len(x) < 3 {
		return nil, false
	}

	var s [5]float64 // s[k] = Σx^k
	var t [3]float64 // t[k] = Σx^k*y
	for i := range x {
		p := 1.0
		for k := range 5 {
			s[k] += p
			if k < 3 {
				t[k] += p * y[i]
			}
			p *= x[i]
		}
	}

	m := [3][4]float64{
		{s[0], s[1], s[2], t[0]},
		{s[1], s[2], s[3], t[1]},
		{s[2], s[3], s[4], t[2]},
	}

	for col := range 3 {
		pivot := col
		for r := col + 1; r < 3; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12*math.Max(1, math.Abs(s[4])) {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < 3; r++ {
			f := m[r][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[r][k] -= f * m[col][k]
			}
		}
	}

	coeffs := make([]float64, 3)
	for r := 2; r >= 0; r-- {
		v := m[r][3]
		for k := r + 1; k < 3; k++ {
			v -= m[r][k] * coeffs[k]
		}
		coeffs[r] = v / m[r][r]
	}

	for _, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, false
		}
	}

	return coeffs, true
}

// goodness returns R² and RMSE of e against the observations. A non-finite
// prediction ranks the model last.
func goodness(e Estimator, x, y []float64) (r2, rmse float64) {
	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssTot, ssRes float64
	for i := range x {
		residual := y[i] - e.Estimate(x[i])
		ssRes += residual * residual
		ssTot += (y[i] - mean) * (y[i] - mean)
	}

	rmse = math.Sqrt(ssRes / float64(len(y)))
	if math.IsNaN(ssRes) || math.IsInf(ssRes, 0) {
		return math.Inf(-1), math.Inf(1)
	}
	if ssTot == 0 {
		return 0, rmse
	}

	return 1 - ssRes/ssTot, rmse
}
