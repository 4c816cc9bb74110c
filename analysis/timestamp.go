package analysis

import "github.com/arloliu/tsln/format"

// TimestampInfo describes how the instants of a dataset are spaced.
type TimestampInfo struct {
	Mode format.TimestampMode
	// Base is the first instant in Unix milliseconds, 0 when there are none.
	Base int64
	// Interval is the common gap; valid only when HasInterval is set.
	Interval    int64
	HasInterval bool
	Count       int
}

// IsRegular reports whether the instants are equally spaced.
func (t TimestampInfo) IsRegular() bool {
	return t.Mode == format.TimestampRegular
}

// AnalyzeTimestamps classifies instants, given in Unix milliseconds and in row order.
//
// The instants are regular when every consecutive gap equals the first one,
// compared exactly. Zero or one instant is regular with no interval. Duplicate
// and decreasing instants are allowed and simply produce an irregular result
// unless every gap is identical.
func AnalyzeTimestamps(instants []int64) TimestampInfo {
	info := TimestampInfo{Mode: format.TimestampRegular, Count: len(instants)}
	if len(instants) == 0 {
		return info
	}

	info.Base = instants[0]
	if len(instants) == 1 {
		return info
	}

	gap := instants[1] - instants[0]
	for i := 2; i < len(instants); i++ {
		if instants[i]-instants[i-1] != gap {
			info.Mode = format.TimestampIrregular
			return info
		}
	}

	info.Interval = gap
	info.HasInterval = true

	return info
}
