package regression

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ModelType identifies a curve family.
type ModelType int

const (
	ModelTypeHyperbolic ModelType = iota
	ModelTypeLogarithmic
	ModelTypePower
	ModelTypeExponential
	ModelTypePolynomial
)

var modelTypeNames = map[ModelType]string{
	ModelTypeHyperbolic:  "hyperbolic",
	ModelTypeLogarithmic: "logarithmic",
	ModelTypePower:       "power",
	ModelTypeExponential: "exponential",
	ModelTypePolynomial:  "polynomial",
}

func (mt ModelType) String() string {
	if name, ok := modelTypeNames[mt]; ok {
		return name
	}

	return "unknown"
}

// coefficientCount is the number of coefficients of the model.
func (mt ModelType) coefficientCount() int {
	if mt == ModelTypePolynomial {
		return 3
	}

	return 2
}

// ModelTypeFromString returns the model named name, case-insensitively, or
// ModelType(-1) when there is none.
func ModelTypeFromString(name string) ModelType {
	name = strings.ToLower(name)
	for mt, n := range modelTypeNames {
		if n == name {
			return mt
		}
	}

	return ModelType(-1)
}

// Estimator predicts the cost per row of a document holding a given number of rows.
type Estimator interface {
	// Estimate returns the cost per row at rows rows per document; +Inf for rows <= 0.
	Estimate(rows float64) float64
	Type() ModelType
	Coefficients() []float64
	// SetCoefficients replaces the coefficients; the count must match the model.
	SetCoefficients(coeffs []float64) error
}

type curve struct {
	modelType ModelType
	coeffs    []float64
}

// NewEstimator creates an estimator for the named model.
//
// Hyperbolic, logarithmic, power and exponential models take [a, b];
// the polynomial model takes [a, b, c].
func NewEstimator(name string, coeffs []float64) (Estimator, error) {
	mt := ModelTypeFromString(name)
	if mt == ModelType(-1) {
		supported := make([]string, 0, len(modelTypeNames))
		for _, n := range modelTypeNames {
			supported = append(supported, n)
		}
		slices.Sort(supported)

		return nil, fmt.Errorf("unknown model type: %s. Supported types: %s", name, strings.Join(supported, ", "))
	}

	return newCurve(mt, coeffs)
}

func newCurve(mt ModelType, coeffs []float64) (*curve, error) {
	c := &curve{modelType: mt}
	if err := c.SetCoefficients(coeffs); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *curve) Estimate(rows float64) float64 {
	if rows <= 0 {
		return math.Inf(1)
	}

	a, b := c.coeffs[0], c.coeffs[1]
	switch c.modelType {
	case ModelTypeHyperbolic:
		return a + b/rows
	case ModelTypeLogarithmic:
		return a + b*math.Log(rows)
	case ModelTypePower:
		return a * math.Pow(rows, b)
	case ModelTypeExponential:
		return a * math.Exp(b*rows)
	default:
		return a + b*rows + c.coeffs[2]*rows*rows
	}
}

func (c *curve) Type() ModelType { return c.modelType }

func (c *curve) Coefficients() []float64 {
	return slices.Clone(c.coeffs)
}

func (c *curve) SetCoefficients(coeffs []float64) error {
	if want := c.modelType.coefficientCount(); len(coeffs) != want {
		return fmt.Errorf("%s model expects exactly %d coefficients, got %d", c.modelType, want, len(coeffs))
	}
	c.coeffs = slices.Clone(coeffs)

	return nil
}

// RowsWithin returns the largest row count n <= maxRows whose predicted
// document cost, n * e.Estimate(n), does not exceed budget, or 0 when not
// even one row fits.
//
// The search assumes the total cost grows with n, which holds for any
// sensible fit since every row costs something.
func RowsWithin(e Estimator, budget float64, maxRows int) int {
	fits := func(n int) bool {
		return float64(n)*e.Estimate(float64(n)) <= budget
	}

	if maxRows < 1 || !fits(1) {
		return 0
	}

	lo, hi := 1, maxRows
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	return lo
}
