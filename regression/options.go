package regression

import (
	"fmt"

	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/internal/options"
	"github.com/arloliu/tsln/metrics"
)

// Unit is what the cost of a document is measured in.
type Unit int

const (
	UnitBytes Unit = iota
	UnitTokens
)

func (u Unit) String() string {
	if u == UnitTokens {
		return "tokens"
	}

	return "bytes"
}

// ParseUnit maps "bytes" or "tokens" to a Unit.
func ParseUnit(name string) (Unit, bool) {
	switch name {
	case "bytes":
		return UnitBytes, true
	case "tokens":
		return UnitTokens, true
	default:
		return 0, false
	}
}

// DefaultMaxChunkRows bounds the largest measured chunk size.
const DefaultMaxChunkRows = 5000

// Config holds the measurement settings of Analyze.
type Config struct {
	Unit    Unit
	Counter metrics.TokenCounter
	Encoder []codec.EncoderOption
	// MaxChunkRows caps the measured rows per document.
	MaxChunkRows int
}

type Option = options.Option[*Config]

func defaultConfig() Config {
	return Config{
		Unit:         UnitBytes,
		Counter:      metrics.HeuristicCounter{},
		MaxChunkRows: DefaultMaxChunkRows,
	}
}

// WithUnit selects bytes or tokens.
func WithUnit(u Unit) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Unit = u
	})
}

// WithTokenCounter sets the counter used with UnitTokens. A nil counter keeps the heuristic.
func WithTokenCounter(counter metrics.TokenCounter) Option {
	return options.NoError(func(cfg *Config) {
		if counter != nil {
			cfg.Counter = counter
		}
	})
}

// WithEncoderOptions sets the options every chunk is encoded with.
func WithEncoderOptions(opts ...codec.EncoderOption) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Encoder = append(cfg.Encoder, opts...)
	})
}

// WithMaxChunkRows caps the measured rows per document.
func WithMaxChunkRows(n int) Option {
	return options.New(func(cfg *Config) error {
		if n < 2 {
			return fmt.Errorf("max chunk rows must be at least 2, got %d", n)
		}
		cfg.MaxChunkRows = n

		return nil
	})
}
