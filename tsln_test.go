package tsln

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsln/baseline"
	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/metrics"
)

var epoch = time.UnixMilli(1766829600000)

func tickerDataset(n int) dataset.Dataset {
	ds := make(dataset.Dataset, n)
	for i := range ds {
		f := dataset.NewFields(4)
		f.Set("symbol", dataset.Text("AAPL"))
		f.Set("price", dataset.Number(100000+float64(i)))
		status := "open"
		if i%25 == 24 {
			status = "halt"
		}
		f.Set("status", dataset.Text(status))
		f.Set("temp", dataset.Number(20+float64(i%10)/10))
		ds[i] = dataset.NewDataPoint(epoch.Add(time.Duration(i)*time.Second), f)
	}

	return ds
}

func TestEncodeDecode(t *testing.T) {
	ds := tickerDataset(50)

	doc, err := Encode(ds)
	require.NoError(t, err)

	got, err := Decode(doc.Text())
	require.NoError(t, err)
	require.True(t, dataset.Equal(ds, got))

	dec, err := NewDecoder(doc.Text())
	require.NoError(t, err)
	require.Equal(t, 50, dec.Schema().Rows)

	enc, err := NewEncoder(codec.WithDifferential(false))
	require.NoError(t, err)
	raw, err := enc.Encode(ds)
	require.NoError(t, err)
	require.Greater(t, raw.Size(), doc.Size())
}

func TestConvert(t *testing.T) {
	ds := tickerDataset(100)

	res, err := Convert(ds)
	require.NoError(t, err)
	require.Equal(t, res.Document.Text(), res.Text)
	require.Same(t, res.Document.Schema, res.Schema)

	original, err := baseline.JSON(ds)
	require.NoError(t, err)
	require.Equal(t, len(original), res.Statistics.OriginalSize)
	require.Equal(t, len(res.Text), res.Statistics.EncodedSize)
	require.Less(t, res.Statistics.CompressionRatio, 0.5)
	require.Greater(t, res.Statistics.TokenSavingsPercent, 50.0)
	require.True(t, res.Statistics.Approximate)

	strategy, ok := res.Analysis.Strategy("price")
	require.True(t, ok)
	require.Equal(t, format.StrategyDifferential, strategy)
	strategy, _ = res.Analysis.Strategy("symbol")
	require.Equal(t, format.StrategyRepeat, strategy)
	strategy, _ = res.Analysis.Strategy("status")
	require.Equal(t, format.StrategyRepeat, strategy)
}

func TestConvert_Options(t *testing.T) {
	ds := tickerDataset(20)

	res, err := Convert(ds,
		WithEncoderOptions(codec.WithRepeatMarkers(false)),
		WithMetricsOptions(metrics.WithCompression(format.CompressionZstd)),
	)
	require.NoError(t, err)
	require.False(t, res.Schema.Capabilities.RepeatMarkers)
	require.Zero(t, res.Analysis.Count(format.StrategyRepeat))
	require.Greater(t, res.Statistics.CompressedSize, 0)

	_, err = Convert(ds, WithMetricsOptions(metrics.WithCompression(format.CompressionType(0))))
	require.Error(t, err)
}

func TestConvert_Empty(t *testing.T) {
	res, err := Convert(nil)
	require.NoError(t, err)
	require.Zero(t, res.Document.Rows())
	require.Equal(t, res.Schema.Header(), res.Text)
}

func TestCompareFormats(t *testing.T) {
	ds := tickerDataset(100)

	report, err := CompareFormats(ds)
	require.NoError(t, err)
	require.Len(t, report.Formats, 4)

	names := make([]string, 0, 4)
	for _, f := range report.Formats {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{baseline.NameJSON, baseline.NameCSV, baseline.NameTOON, FormatName}, names)

	best, ok := report.Get(report.Best)
	require.True(t, ok)
	for _, f := range report.Formats {
		require.LessOrEqual(t, best.Tokens, f.Tokens, f.Name)
		require.Greater(t, f.Size, 0, f.Name)
	}

	require.Equal(t, FormatName, report.Best)
	require.GreaterOrEqual(t, report.Savings, 0.0)
	require.LessOrEqual(t, report.Savings, 100.0)
}

func TestCompareFormats_Tokenizer(t *testing.T) {
	counter, err := metrics.NewTokenCounter("cl100k_base")
	require.NoError(t, err)

	report, err := CompareFormats(tickerDataset(30), WithMetricsOptions(metrics.WithTokenCounter(counter)))
	require.NoError(t, err)
	require.False(t, report.Approximate)
	require.Equal(t, "cl100k_base", report.Tokenizer)
}

func TestDifferentialGrowsSlowerThanRaw(t *testing.T) {
	ratio := func(n int) float64 {
		ds := tickerDataset(n)

		diff, err := Encode(ds)
		require.NoError(t, err)
		raw, err := Encode(ds, codec.WithDifferential(false))
		require.NoError(t, err)

		return float64(diff.Size()) / float64(raw.Size())
	}

	small, large := ratio(100), ratio(1000)
	require.Less(t, large, 1.0)
	require.LessOrEqual(t, large, small)
}
