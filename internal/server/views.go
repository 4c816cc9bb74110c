package server

import (
	"github.com/arloliu/tsln/analysis"
	"github.com/arloliu/tsln/metrics"
)

// FieldView is the JSON form of a field profile and its strategy.
type FieldView struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Strategy        string   `json:"strategy"`
	TotalCount      int      `json:"total_count"`
	ObservedCount   int      `json:"observed_count"`
	UniqueCount     int      `json:"unique_count"`
	RepeatRate      float64  `json:"repeat_rate"`
	Volatility      *float64 `json:"volatility"`
	Trend           string   `json:"trend"`
	HasNonFinite    bool     `json:"has_non_finite,omitempty"`
	HasNegativeZero bool     `json:"has_negative_zero,omitempty"`
}

// TimestampView is the JSON form of a timestamp analysis.
type TimestampView struct {
	Mode     string `json:"mode"`
	Base     int64  `json:"base"`
	Interval *int64 `json:"interval,omitempty"`
	Count    int    `json:"count"`
}

// AnalysisView is the JSON form of an analysis.Result.
type AnalysisView struct {
	Fields               []FieldView   `json:"fields"`
	Timestamps           TimestampView `json:"timestamps"`
	DatasetVolatility    float64       `json:"dataset_volatility"`
	CompressionPotential float64       `json:"compression_potential"`
}

// NewAnalysisView converts res for serialization.
func NewAnalysisView(res *analysis.Result) AnalysisView {
	view := AnalysisView{
		Fields: make([]FieldView, 0, res.Fields.Len()),
		Timestamps: TimestampView{
			Mode:  res.Timestamps.Mode.String(),
			Base:  res.Timestamps.Base,
			Count: res.Timestamps.Count,
		},
		DatasetVolatility:    res.DatasetVolatility,
		CompressionPotential: res.CompressionPotential,
	}
	if res.Timestamps.HasInterval {
		interval := res.Timestamps.Interval
		view.Timestamps.Interval = &interval
	}

	for _, p := range res.Fields.All() {
		strategy, _ := res.Strategy(p.Name)
		view.Fields = append(view.Fields, FieldView{
			Name:            p.Name,
			Type:            p.Type.Code(),
			Strategy:        strategy.Code(),
			TotalCount:      p.TotalCount,
			ObservedCount:   p.ObservedCount,
			UniqueCount:     p.UniqueCount,
			RepeatRate:      p.RepeatRate,
			Volatility:      p.Volatility,
			Trend:           p.Trend.String(),
			HasNonFinite:    p.HasNonFinite,
			HasNegativeZero: p.HasNegativeZero,
		})
	}

	return view
}

// FormatView is the JSON form of one compared format.
type FormatView struct {
	Name           string  `json:"name"`
	Size           int     `json:"size"`
	Tokens         int     `json:"tokens"`
	CompressedSize int     `json:"compressed_size,omitempty"`
	Savings        float64 `json:"savings_percent"`
}

// ReportView is the JSON form of a metrics.Report.
type ReportView struct {
	Formats     []FormatView `json:"formats"`
	Best        string       `json:"best"`
	Savings     float64      `json:"savings_percent"`
	Tokenizer   string       `json:"tokenizer"`
	Approximate bool         `json:"approximate"`
	Compression string       `json:"compression,omitempty"`
}

// NewReportView converts r for serialization.
func NewReportView(r *metrics.Report) ReportView {
	view := ReportView{
		Formats:     make([]FormatView, 0, len(r.Formats)),
		Best:        r.Best,
		Savings:     r.Savings,
		Tokenizer:   r.Tokenizer,
		Approximate: r.Approximate,
	}
	if r.Compression != 0 {
		view.Compression = r.Compression.String()
	}

	for _, f := range r.Formats {
		savings, _ := r.SavingsOf(f.Name)
		view.Formats = append(view.Formats, FormatView{
			Name:           f.Name,
			Size:           f.Size,
			Tokens:         f.Tokens,
			CompressedSize: f.CompressedSize,
			Savings:        savings,
		})
	}

	return view
}
