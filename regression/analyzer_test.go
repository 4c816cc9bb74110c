package regression

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/metrics"
)

func tickerDataset(n int) dataset.Dataset {
	start := time.UnixMilli(1766829600000)
	ds := make(dataset.Dataset, n)
	for i := range ds {
		f := dataset.NewFields(3)
		f.Set("symbol", dataset.Text("AAPL"))
		f.Set("price", dataset.Number(1000+float64(i%50)))
		f.Set("open", dataset.Bool(i%100 < 90))
		ds[i] = dataset.NewDataPoint(start.Add(time.Duration(i)*time.Second), f)
	}

	return ds
}

func TestChunkSizes(t *testing.T) {
	tests := []struct {
		max  int
		want []int
	}{
		{0, nil},
		{1, []int{1}},
		{3, []int{1, 2, 3}},
		{11, []int{1, 2, 5, 10}},
		{13, []int{1, 2, 5, 10, 13}},
		{1000, []int{1, 2, 5, 10, 20, 50, 100, 150, 200, 500, 1000}},
		{9000, []int{1, 2, 5, 10, 20, 50, 100, 150, 200, 500, 1000, 2000, 5000, 9000}},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, chunkSizes(tt.max), "max=%d", tt.max)
	}
}

func TestAnalyze_Bytes(t *testing.T) {
	ds := tickerDataset(1000)

	res, err := Analyze(ds)
	require.NoError(t, err)
	require.Equal(t, UnitBytes, res.Unit)
	require.Len(t, res.AllModels, 5)
	require.Same(t, res.AllModels[0], res.BestFit)
	require.Len(t, res.Samples, 11)

	for i := 1; i < len(res.AllModels); i++ {
		require.GreaterOrEqual(t, res.AllModels[i-1].RSquared, res.AllModels[i].RSquared)
	}

	// fixed header cost amortizes: cost per row falls as documents grow
	for i := 1; i < len(res.Samples); i++ {
		require.Less(t, res.Samples[i].CostPerRow, res.Samples[i-1].CostPerRow, "rows=%d", res.Samples[i].Rows)
	}
	require.Equal(t, 1000, res.Samples[0].Documents)
	require.Equal(t, 1, res.Samples[len(res.Samples)-1].Documents)

	require.Greater(t, res.BestFit.RSquared, 0.99)

	var hyperbolic *Model
	for _, m := range res.AllModels {
		if m.Type == ModelTypeHyperbolic {
			hyperbolic = m
		}
	}
	require.NotNil(t, hyperbolic)
	require.Greater(t, hyperbolic.RSquared, 0.99)
	require.Positive(t, hyperbolic.Coefficients[1])

	doc, err := codec.Encode(ds[:100])
	require.NoError(t, err)
	measured := float64(doc.Size()) / 100
	require.InEpsilon(t, measured, hyperbolic.Estimator.Estimate(100), 0.2)
}

func TestAnalyze_Tokens(t *testing.T) {
	counter, err := metrics.NewTokenCounter("cl100k_base")
	require.NoError(t, err)

	res, err := Analyze(tickerDataset(200), WithUnit(UnitTokens), WithTokenCounter(counter), WithMaxChunkRows(100))
	require.NoError(t, err)
	require.Equal(t, UnitTokens, res.Unit)
	require.Equal(t, 100, res.Samples[len(res.Samples)-1].Rows)
	require.Equal(t, 2, res.Samples[len(res.Samples)-1].Documents)

	bytes, err := Analyze(tickerDataset(200), WithMaxChunkRows(100))
	require.NoError(t, err)
	require.Less(t, res.Samples[0].CostPerRow, bytes.Samples[0].CostPerRow)
}

func TestAnalyze_EncoderOptions(t *testing.T) {
	ds := tickerDataset(300)

	full, err := Analyze(ds)
	require.NoError(t, err)
	raw, err := Analyze(ds, WithEncoderOptions(codec.WithDifferential(false), codec.WithRepeatMarkers(false)))
	require.NoError(t, err)

	last := len(full.Samples) - 1
	require.Less(t, full.Samples[last].CostPerRow, raw.Samples[last].CostPerRow)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := Analyze(tickerDataset(1))
	require.Error(t, err)

	_, err = Analyze(tickerDataset(10), WithMaxChunkRows(1))
	require.Error(t, err)
}

func TestFit_ExactHyperbola(t *testing.T) {
	rows := []float64{1, 2, 5, 10, 20, 50, 100}
	costs := make([]float64, len(rows))
	for i, x := range rows {
		costs[i] = 4 + 120/x
	}

	res, err := Fit(rows, costs)
	require.NoError(t, err)
	require.Equal(t, ModelTypeHyperbolic, res.BestFit.Type)
	require.InDelta(t, 1.0, res.BestFit.RSquared, 1e-9)
	require.InDelta(t, 0.0, res.BestFit.RMSE, 1e-9)
	require.InDeltaSlice(t, []float64{4, 120}, res.BestFit.Coefficients, 1e-9)
	require.Equal(t, "cost = 4.00 + 120.00 / rows", res.BestFit.Formula)
}

func TestFit_ExactQuadratic(t *testing.T) {
	rows := []float64{1, 2, 3, 4, 5}
	costs := make([]float64, len(rows))
	for i, x := range rows {
		costs[i] = 1 + 2*x + 0.5*x*x
	}

	res, err := Fit(rows, costs)
	require.NoError(t, err)
	require.Equal(t, ModelTypePolynomial, res.BestFit.Type)
	require.InDeltaSlice(t, []float64{1, 2, 0.5}, res.BestFit.Coefficients, 1e-6)
}

func TestFit_NonPositiveCosts(t *testing.T) {
	res, err := Fit([]float64{1, 2, 3}, []float64{1, 0, -1})
	require.NoError(t, err)

	for _, m := range res.AllModels {
		require.NotEqual(t, ModelTypePower, m.Type)
		require.NotEqual(t, ModelTypeExponential, m.Type)
	}
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit([]float64{1, 2}, []float64{1})
	require.Error(t, err)

	_, err = Fit([]float64{1}, []float64{1})
	require.Error(t, err)

	_, err = Fit([]float64{0, 1}, []float64{1, 2})
	require.Error(t, err)

	_, err = Fit([]float64{2, 2, 2}, []float64{1, 2, 3})
	require.Error(t, err)
}

func TestGoodness_NonFinite(t *testing.T) {
	est, err := NewEstimator("exponential", []float64{1, 1000})
	require.NoError(t, err)

	r2, rmse := goodness(est, []float64{1, 10}, []float64{1, 2})
	require.True(t, math.IsInf(r2, -1))
	require.True(t, math.IsInf(rmse, 1))
}
