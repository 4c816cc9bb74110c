package metrics

import (
	"fmt"

	"github.com/arloliu/tsln/errs"
	"github.com/arloliu/tsln/format"
)

// Entry is one rendering of a dataset to compare.
type Entry struct {
	Name string
	Text string
}

// FormatMetrics is the measurement of one Entry.
type FormatMetrics struct {
	Name   string
	Size   int
	Tokens int
	// CompressedSize is 0 unless compression was requested.
	CompressedSize int
}

// Report is the outcome of Compare.
type Report struct {
	// Formats holds one measurement per entry, in entry order.
	Formats []FormatMetrics
	// Best names the format with the fewest tokens; the earliest entry wins ties.
	Best string
	// Savings is the percentage of baseline tokens saved by Best. It is never
	// negative since the baseline is itself a candidate.
	Savings     float64
	Tokenizer   string
	Approximate bool
	Compression format.CompressionType
}

// Baseline returns the measurement of the first entry.
func (r *Report) Baseline() FormatMetrics {
	return r.Formats[0]
}

// Get returns the measurement of the named format.
func (r *Report) Get(name string) (FormatMetrics, bool) {
	for _, f := range r.Formats {
		if f.Name == name {
			return f, true
		}
	}

	return FormatMetrics{}, false
}

// SavingsOf returns the percentage of baseline tokens saved by the named format.
func (r *Report) SavingsOf(name string) (float64, bool) {
	f, ok := r.Get(name)
	if !ok {
		return 0, false
	}

	return savings(r.Baseline().Tokens, f.Tokens), true
}

// Compare measures every entry. The first entry is the structured baseline.
func Compare(entries []Entry, opts ...Option) (*Report, error) {
	if len(entries) == 0 {
		return nil, errs.ErrEmptyComparison
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Formats:     make([]FormatMetrics, 0, len(entries)),
		Tokenizer:   cfg.Counter.Name(),
		Approximate: cfg.Counter.Approximate(),
		Compression: cfg.Compression,
	}

	best := 0
	for i, e := range entries {
		size, tokens, compressed, err := cfg.measure(e.Text)
		if err != nil {
			return nil, fmt.Errorf("measuring %s: %w", e.Name, err)
		}

		r.Formats = append(r.Formats, FormatMetrics{
			Name:           e.Name,
			Size:           size,
			Tokens:         tokens,
			CompressedSize: compressed,
		})
		if tokens < r.Formats[best].Tokens {
			best = i
		}
	}

	r.Best = r.Formats[best].Name
	r.Savings = savings(r.Formats[0].Tokens, r.Formats[best].Tokens)

	return r, nil
}

func savings(baseline, tokens int) float64 {
	if baseline == 0 {
		return 0
	}

	return float64(baseline-tokens) / float64(baseline) * 100
}
