package analysis

import (
	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/schema"
)

// Result is the full analysis of a dataset.
type Result struct {
	Fields     *Profiles
	Timestamps TimestampInfo
	Strategies []schema.FieldDescriptor
	// DatasetVolatility is the mean volatility of the numeric fields that have one.
	DatasetVolatility float64
	// CompressionPotential estimates, in [0, 1], how much structure the
	// strategies can exploit: the mean over fields of the repeat rate or,
	// for numeric fields, 1 - volatility, whichever is larger.
	CompressionPotential float64
}

// Strategy returns the strategy chosen for the named field.
func (r *Result) Strategy(name string) (format.Strategy, bool) {
	for _, f := range r.Strategies {
		if f.Name == name {
			return f.Strategy, true
		}
	}

	return 0, false
}

// Count returns the number of fields using strategy s.
func (r *Result) Count(s format.Strategy) int {
	n := 0
	for _, f := range r.Strategies {
		if f.Strategy == s {
			n++
		}
	}

	return n
}

// Analyze profiles ds, analyzes its instants and selects strategies.
func Analyze(ds dataset.Dataset, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	profiles := profileFields(ds, cfg.Parallelism)
	res := &Result{
		Fields:     profiles,
		Timestamps: AnalyzeTimestamps(ds.Instants()),
		Strategies: SelectStrategies(profiles, cfg.Capabilities),
	}

	var volSum, potSum float64
	volCount := 0
	for _, p := range profiles.All() {
		potential := p.RepeatRate
		if p.Volatility != nil {
			volSum += *p.Volatility
			volCount++
			potential = max(potential, 1-*p.Volatility)
		}
		potSum += min(max(potential, 0), 1)
	}

	if volCount > 0 {
		res.DatasetVolatility = volSum / float64(volCount)
	}
	if n := profiles.Len(); n > 0 {
		res.CompressionPotential = potSum / float64(n)
	}

	return res, nil
}
