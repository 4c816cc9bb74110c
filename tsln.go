// Package tsln implements Time-Series Lean Notation, a compact, self-describing
// text encoding of time-series datasets aimed at language-model prompts.
//
// A dataset is an ordered list of timestamped points, each holding named
// values that are numbers, text, booleans or null. The encoder profiles every
// field and picks the cheapest lossless representation per field:
//
//   - raw: every value written as a literal
//   - differential: exact signed deltas for smooth numeric series
//   - repeat markers: "=" for a value unchanged since the previous point
//
// Equally spaced instants are folded into the header, so regular series carry
// no per-point timestamp at all.
//
// # Basic Usage
//
//	doc, err := tsln.Encode(ds)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(doc.Text())
//
//	// #TSLN/1|ts=r:1000|base=1766829600000|rows=3|caps=diff,rep|fields=symbol:str:rep,price:num:diff
//	// AAPL|100
//	// =|+1
//	// =|+1.5
//
//	back, err := tsln.Decode(doc.Text())
//
// Decode(Encode(ds)) always reproduces ds exactly, instants at millisecond
// resolution.
//
// # Measuring
//
// Convert returns the document together with its analysis and size/token
// statistics against canonical JSON. CompareFormats renders the dataset as
// JSON, CSV, TOON and TSLN and reports which needs the fewest tokens.
//
// # Package Structure
//
// This package wraps the lower-level packages for the common cases:
// dataset (data model and JSON I/O), analysis (profiling and strategy
// selection), codec (encoder and decoder), metrics (token and size
// accounting), baseline (JSON, CSV and TOON renderings) and compress
// (compressed-size measurement).
package tsln

import (
	"github.com/arloliu/tsln/analysis"
	"github.com/arloliu/tsln/baseline"
	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/internal/options"
	"github.com/arloliu/tsln/metrics"
	"github.com/arloliu/tsln/schema"
)

// FormatName is the name of the notation in format comparisons.
const FormatName = "tsln"

// Config gathers the encoder and metrics options of Convert and CompareFormats.
type Config struct {
	Encoder []codec.EncoderOption
	Metrics []metrics.Option
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// WithEncoderOptions appends encoder options.
func WithEncoderOptions(opts ...codec.EncoderOption) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Encoder = append(cfg.Encoder, opts...)
	})
}

// WithMetricsOptions appends metrics options.
func WithMetricsOptions(opts ...metrics.Option) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Metrics = append(cfg.Metrics, opts...)
	})
}

// Result is the outcome of Convert.
type Result struct {
	Document   *codec.Document
	Text       string
	Schema     *schema.Schema
	Statistics metrics.Statistics
	Analysis   *analysis.Result
}

// NewEncoder creates a reusable encoder; see codec.NewEncoder.
func NewEncoder(opts ...codec.EncoderOption) (*codec.Encoder, error) {
	return codec.NewEncoder(opts...)
}

// NewDecoder parses the header of a document; see codec.NewDecoder.
func NewDecoder(text string) (*codec.Decoder, error) {
	return codec.NewDecoder(text)
}

// Encode encodes ds.
//
// With no options both differential encoding and repeat markers are enabled.
func Encode(ds dataset.Dataset, opts ...codec.EncoderOption) (*codec.Document, error) {
	return codec.Encode(ds, opts...)
}

// Decode decodes a document produced by Encode or any conforming writer.
func Decode(text string) (dataset.Dataset, error) {
	return codec.Decode(text)
}

// Convert encodes ds and measures the document against canonical JSON.
func Convert(ds dataset.Dataset, opts ...Option) (*Result, error) {
	var cfg Config
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	enc, err := codec.NewEncoder(cfg.Encoder...)
	if err != nil {
		return nil, err
	}

	res, err := enc.Analyze(ds)
	if err != nil {
		return nil, err
	}

	doc, err := enc.EncodeAnalyzed(ds, res)
	if err != nil {
		return nil, err
	}

	original, err := baseline.JSON(ds)
	if err != nil {
		return nil, err
	}

	text := doc.Text()
	stats, err := metrics.NewStatistics(original, text, cfg.Metrics...)
	if err != nil {
		return nil, err
	}

	return &Result{
		Document:   doc,
		Text:       text,
		Schema:     doc.Schema,
		Statistics: stats,
		Analysis:   res,
	}, nil
}

// CompareFormats renders ds with every baseline and as TSLN, then compares
// them with JSON as the reference.
func CompareFormats(ds dataset.Dataset, opts ...Option) (*metrics.Report, error) {
	var cfg Config
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	baselines := baseline.All()
	entries := make([]metrics.Entry, 0, len(baselines)+1)
	for _, b := range baselines {
		text, err := b.Render(ds)
		if err != nil {
			return nil, err
		}
		entries = append(entries, metrics.Entry{Name: b.Name, Text: text})
	}

	doc, err := codec.Encode(ds, cfg.Encoder...)
	if err != nil {
		return nil, err
	}
	entries = append(entries, metrics.Entry{Name: FormatName, Text: doc.Text()})

	return metrics.Compare(entries, cfg.Metrics...)
}
