package analysis

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/encoding"
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/internal/hash"
)

// Trend classification thresholds.
const (
	// MonotonicFraction is the share of strictly positive (or negative) deltas
	// that makes a numeric field increasing (or decreasing).
	MonotonicFraction = 0.75
	// StableVolatility is the volatility at or below which a non-monotonic
	// field is considered stable.
	StableVolatility = 0.01
)

// FieldProfile summarizes one field column.
type FieldProfile struct {
	Name string
	Type format.FieldType
	// TotalCount is the number of data points, including those without the field.
	TotalCount int
	// ObservedCount is the number of non-null observations.
	ObservedCount int
	// UniqueCount is the number of distinct non-null values.
	UniqueCount int
	// RepeatRate is the fraction of consecutive pairs holding identical values.
	RepeatRate float64
	// Volatility is nil unless the field is numeric with at least two finite observations.
	Volatility *float64
	Trend      format.Trend
	// HasNonFinite is set when a NaN or infinity was observed.
	HasNonFinite bool
	// HasNegativeZero is set when -0 was observed.
	HasNegativeZero bool
}

// Profiles is the ordered set of field profiles of a dataset.
type Profiles struct {
	list  []FieldProfile
	index map[string]int
}

func newProfiles(list []FieldProfile) *Profiles {
	p := &Profiles{list: list, index: make(map[string]int, len(list))}
	for i, fp := range list {
		p.index[fp.Name] = i
	}

	return p
}

// Len returns the number of profiled fields.
func (p *Profiles) Len() int {
	if p == nil {
		return 0
	}

	return len(p.list)
}

// All returns the profiles in field order. The slice must not be modified.
func (p *Profiles) All() []FieldProfile {
	if p == nil {
		return nil
	}

	return p.list
}

// Get returns the profile of the named field.
func (p *Profiles) Get(name string) (FieldProfile, bool) {
	if p == nil {
		return FieldProfile{}, false
	}

	i, ok := p.index[name]
	if !ok {
		return FieldProfile{}, false
	}

	return p.list[i], true
}

// ProfileFields profiles every field of ds, in FieldNames order.
func ProfileFields(ds dataset.Dataset, opts ...Option) (*Profiles, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return profileFields(ds, cfg.Parallelism), nil
}

func profileFields(ds dataset.Dataset, parallelism int) *Profiles {
	names := ds.FieldNames()
	list := make([]FieldProfile, len(names))

	workers := min(parallelism, len(names), runtime.GOMAXPROCS(0))
	if workers <= 1 {
		for i, name := range names {
			list[i] = profileField(name, ds.Column(name))
		}

		return newProfiles(list)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			list[i] = profileField(name, ds.Column(name))
			return nil
		})
	}
	_ = g.Wait()

	return newProfiles(list)
}

// observed kinds, as a bit set
const (
	seenNumber = 1 << iota
	seenText
	seenBool
)

func profileField(name string, column []dataset.Value) FieldProfile {
	p := FieldProfile{Name: name, TotalCount: len(column)}

	unique := make(map[uint64]struct{})
	finite := make([]float64, 0, len(column))
	seen := 0
	repeats := 0

	for i, v := range column {
		if i > 0 && dataset.Identical(column[i-1], v) {
			repeats++
		}

		if v.IsNull() {
			continue
		}

		p.ObservedCount++
		unique[valueKey(v)] = struct{}{}

		switch v.Kind() {
		case dataset.KindNumber:
			seen |= seenNumber
			f, _ := v.Float()
			switch {
			case math.IsNaN(f) || math.IsInf(f, 0):
				p.HasNonFinite = true
			default:
				if f == 0 && math.Signbit(f) {
					p.HasNegativeZero = true
				}
				finite = append(finite, f)
			}
		case dataset.KindText:
			seen |= seenText
		case dataset.KindBool:
			seen |= seenBool
		}
	}

	p.UniqueCount = len(unique)
	if len(column) > 1 {
		p.RepeatRate = float64(repeats) / float64(len(column)-1)
	}

	switch seen {
	case 0:
		p.Type = format.FieldNull
	case seenNumber:
		p.Type = format.FieldNumeric
	case seenText:
		p.Type = format.FieldString
	case seenBool:
		p.Type = format.FieldBoolean
	default:
		p.Type = format.FieldMixed
	}

	if p.Type == format.FieldNumeric && len(finite) >= 2 {
		vol, trend := volatilityAndTrend(finite)
		p.Volatility = &vol
		p.Trend = trend
	}

	return p
}

// valueKey hashes the canonical literal of v, tagged by kind so that the text
// "T" and the boolean true stay distinct.
func valueKey(v dataset.Value) uint64 {
	return hash.Tagged(byte(v.Kind()), encoding.FormatValue(v))
}

func volatilityAndTrend(xs []float64) (float64, format.Trend) {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}

	n := len(xs) - 1
	var sum float64
	var up, down int
	for i := 1; i < len(xs); i++ {
		d := xs[i] - xs[i-1]
		sum += d
		switch {
		case d > 0:
			up++
		case d < 0:
			down++
		}
	}
	mean := sum / float64(n)

	var sq float64
	for i := 1; i < len(xs); i++ {
		d := xs[i] - xs[i-1] - mean
		sq += d * d
	}

	vol := 0.0
	if span := hi - lo; span > 0 {
		vol = math.Sqrt(sq/float64(n)) / span
	}
	// deltas bounded by the range keep vol within [0, 1]; overflow near
	// math.MaxFloat64 is treated as maximal volatility
	if math.IsNaN(vol) || vol > 1 {
		vol = 1
	}

	switch {
	case float64(up) >= MonotonicFraction*float64(n):
		return vol, format.TrendIncreasing
	case float64(down) >= MonotonicFraction*float64(n):
		return vol, format.TrendDecreasing
	case vol <= StableVolatility:
		return vol, format.TrendStable
	default:
		return vol, format.TrendOscillating
	}
}
