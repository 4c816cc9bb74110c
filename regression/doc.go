// Package regression estimates the size of TSLN documents from the number of
// rows they hold.
//
// Every document pays a fixed cost (the header and the literal first row) and
// a per-row cost that shrinks once differential and repeat encoding take
// hold. Splitting a dataset into many small documents therefore costs more
// per row than encoding it whole. This package measures that relationship
// on a sample dataset and fits a curve to it, so that callers can predict
// the cost of a chunk size without encoding, or find the largest chunk that
// fits a prompt budget.
//
// # Usage
//
//	result, err := regression.Analyze(ds, regression.WithUnit(regression.UnitTokens))
//	if err != nil {
//	    return err
//	}
//
//	perRow := result.BestFit.Estimator.Estimate(250) // tokens per row at 250 rows per document
//	rows := regression.RowsWithin(result.BestFit.Estimator, 4000, 10000)
//
// # Models
//
// With x the rows per document and y the cost per row:
//
//	hyperbolic   y = a + b / x
//	logarithmic  y = a + b * ln(x)
//	power        y = a * x^b
//	exponential  y = a * e^(b * x)
//	polynomial   y = a + b*x + c*x²
//
// All five are fitted by least squares and ranked by R². The hyperbolic model
// matches the fixed-plus-marginal cost structure and usually wins.
package regression
