package regression

import "fmt"

// Model is one fitted curve.
type Model struct {
	Type         ModelType
	Coefficients []float64
	// RSquared is the coefficient of determination, at most 1.
	RSquared float64
	// RMSE is the root mean square error, in cost units per row.
	RMSE      float64
	Formula   string
	Estimator Estimator
}

func (m *Model) String() string {
	return fmt.Sprintf("Model{Type: %s, R²: %.4f, RMSE: %.4f, Formula: %s}",
		m.Type, m.RSquared, m.RMSE, m.Formula)
}

// Sample is one measured chunk size.
type Sample struct {
	// Rows is the number of rows per document.
	Rows int
	// Documents is the number of documents the dataset was split into.
	Documents int
	// CostPerRow is the total cost of all documents divided by the dataset length.
	CostPerRow float64
}

// Result is the outcome of a regression analysis.
type Result struct {
	// BestFit is the model with the highest R².
	BestFit *Model
	// AllModels holds every fitted model, best first.
	AllModels []*Model
	// Samples are the measurements the models were fitted to.
	Samples []Sample
	Unit    Unit
}

func (r *Result) String() string {
	if r.BestFit == nil {
		return "Result{BestFit: nil}"
	}

	return fmt.Sprintf("Result{BestFit: %s, TotalModels: %d, Unit: %s}",
		r.BestFit, len(r.AllModels), r.Unit)
}
