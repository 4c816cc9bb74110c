package schema

import (
	"strings"

	"github.com/arloliu/tsln/format"
)

const (
	capDifferential = "diff"
	capRepeat       = "rep"
)

// Capabilities are the dataset-level flags gating which strategies may appear in a body.
type Capabilities struct {
	// Differential allows format.StrategyDifferential.
	Differential bool
	// RepeatMarkers allows format.StrategyRepeat.
	RepeatMarkers bool
}

// DefaultCapabilities enables every strategy.
func DefaultCapabilities() Capabilities {
	return Capabilities{Differential: true, RepeatMarkers: true}
}

// Allows reports whether strategy s is permitted. Raw is always permitted.
func (c Capabilities) Allows(s format.Strategy) bool {
	switch s {
	case format.StrategyRaw:
		return true
	case format.StrategyDifferential:
		return c.Differential
	case format.StrategyRepeat:
		return c.RepeatMarkers
	default:
		return false
	}
}

func (c Capabilities) String() string {
	caps := make([]string, 0, 2)
	if c.Differential {
		caps = append(caps, capDifferential)
	}
	if c.RepeatMarkers {
		caps = append(caps, capRepeat)
	}

	return strings.Join(caps, ",")
}

func parseCapabilities(s string) (Capabilities, bool) {
	var c Capabilities
	if s == "" {
		return c, true
	}

	for _, name := range strings.Split(s, ",") {
		switch name {
		case capDifferential:
			c.Differential = true
		case capRepeat:
			c.RepeatMarkers = true
		default:
			return c, false
		}
	}

	return c, true
}
