package analysis

import (
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/schema"
)

// Strategy selection thresholds. They are part of format version 1: changing
// them changes the documents produced for the same input.
const (
	// RepeatRateThreshold is the repeat rate above which a field uses repeat markers.
	RepeatRateThreshold = 0.80
	// DifferentialVolatilityThreshold is the volatility below which a numeric
	// field uses differential encoding.
	DifferentialVolatilityThreshold = 0.25
)

// SelectStrategy chooses the strategy of a single profiled field.
//
// Repeat markers win over differential encoding. Differential encoding is
// never chosen for fields holding NaN, infinities or -0, since their deltas
// are undefined or lose the sign of zero. Mixed-type fields are always raw.
func SelectStrategy(p FieldProfile, caps schema.Capabilities) format.Strategy {
	if p.Type == format.FieldMixed {
		return format.StrategyRaw
	}

	if caps.RepeatMarkers && p.RepeatRate > RepeatRateThreshold {
		return format.StrategyRepeat
	}

	if caps.Differential &&
		p.Type == format.FieldNumeric &&
		p.Volatility != nil &&
		*p.Volatility < DifferentialVolatilityThreshold &&
		!p.HasNonFinite &&
		!p.HasNegativeZero {
		return format.StrategyDifferential
	}

	return format.StrategyRaw
}

// SelectStrategies returns one descriptor per profile, in profile order.
func SelectStrategies(profiles *Profiles, caps schema.Capabilities) []schema.FieldDescriptor {
	fields := make([]schema.FieldDescriptor, 0, profiles.Len())
	for _, p := range profiles.All() {
		fields = append(fields, schema.FieldDescriptor{
			Name:     p.Name,
			Type:     p.Type,
			Strategy: SelectStrategy(p, caps),
		})
	}

	return fields
}
