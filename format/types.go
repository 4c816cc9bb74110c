package format

type (
	Strategy        uint8
	TimestampMode   uint8
	FieldType       uint8
	Trend           uint8
	CompressionType uint8
)

const (
	StrategyRaw          Strategy = 0x1 // StrategyRaw writes every value as a literal.
	StrategyDifferential Strategy = 0x2 // StrategyDifferential writes signed deltas from the previous value.
	StrategyRepeat       Strategy = 0x3 // StrategyRepeat writes a marker when the value is unchanged.

	TimestampRegular   TimestampMode = 0x1 // TimestampRegular reconstructs instants from base + interval * row.
	TimestampIrregular TimestampMode = 0x2 // TimestampIrregular writes an explicit offset per row.

	FieldNull    FieldType = 0x1 // FieldNull has no non-null observation.
	FieldNumeric FieldType = 0x2 // FieldNumeric holds numbers (and nulls).
	FieldString  FieldType = 0x3 // FieldString holds text (and nulls).
	FieldBoolean FieldType = 0x4 // FieldBoolean holds booleans (and nulls).
	FieldMixed   FieldType = 0x5 // FieldMixed holds incompatible kinds.

	TrendUnknown     Trend = 0x0 // TrendUnknown is reported for fewer than two numeric observations.
	TrendIncreasing  Trend = 0x1 // TrendIncreasing means most deltas are positive.
	TrendDecreasing  Trend = 0x2 // TrendDecreasing means most deltas are negative.
	TrendStable      Trend = 0x3 // TrendStable means volatility is near zero.
	TrendOscillating Trend = 0x4 // TrendOscillating is everything else.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (s Strategy) String() string {
	switch s {
	case StrategyRaw:
		return "Raw"
	case StrategyDifferential:
		return "Differential"
	case StrategyRepeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}

// Code returns the header token of the strategy.
func (s Strategy) Code() string {
	switch s {
	case StrategyRaw:
		return "raw"
	case StrategyDifferential:
		return "diff"
	case StrategyRepeat:
		return "rep"
	default:
		return ""
	}
}

// ParseStrategy maps a header token back to a Strategy.
func ParseStrategy(code string) (Strategy, bool) {
	switch code {
	case "raw":
		return StrategyRaw, true
	case "diff":
		return StrategyDifferential, true
	case "rep":
		return StrategyRepeat, true
	default:
		return 0, false
	}
}

func (m TimestampMode) String() string {
	switch m {
	case TimestampRegular:
		return "Regular"
	case TimestampIrregular:
		return "Irregular"
	default:
		return "Unknown"
	}
}

func (t FieldType) String() string {
	switch t {
	case FieldNull:
		return "Null"
	case FieldNumeric:
		return "Numeric"
	case FieldString:
		return "String"
	case FieldBoolean:
		return "Boolean"
	case FieldMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}

// Code returns the header token of the field type.
func (t FieldType) Code() string {
	switch t {
	case FieldNull:
		return "nil"
	case FieldNumeric:
		return "num"
	case FieldString:
		return "str"
	case FieldBoolean:
		return "bool"
	case FieldMixed:
		return "mix"
	default:
		return ""
	}
}

// ParseFieldType maps a header token back to a FieldType.
func ParseFieldType(code string) (FieldType, bool) {
	switch code {
	case "nil":
		return FieldNull, true
	case "num":
		return FieldNumeric, true
	case "str":
		return FieldString, true
	case "bool":
		return FieldBoolean, true
	case "mix":
		return FieldMixed, true
	default:
		return 0, false
	}
}

func (t Trend) String() string {
	switch t {
	case TrendIncreasing:
		return "Increasing"
	case TrendDecreasing:
		return "Decreasing"
	case TrendStable:
		return "Stable"
	case TrendOscillating:
		return "Oscillating"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a lower-case name ("none", "zstd", "s2", "lz4") to a CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
