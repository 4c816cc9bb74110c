// Package errs defines the sentinel errors shared by the tsln packages.
//
// Callers distinguish failure classes with errors.Is. Every structural decode
// failure also matches ErrMalformed.
package errs

import "errors"

var (
	// ErrMalformed matches every structural decode failure.
	ErrMalformed = errors.New("malformed tsln document")

	// Header errors
	ErrMalformedHeader    = errors.New("malformed header")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrStrategyDisabled   = errors.New("strategy not enabled by capability flags")
	ErrStrategyType       = errors.New("strategy not legal for field type")

	// Body errors
	ErrRowArity       = errors.New("row field count does not match schema")
	ErrRowCount       = errors.New("row count does not match header")
	ErrReservedToken  = errors.New("reserved token in literal position")
	ErrInvalidLiteral = errors.New("invalid literal")
	ErrTypeMismatch   = errors.New("literal does not match declared field type")

	// Configuration errors
	ErrInvalidParallelism = errors.New("parallelism must be positive")
	ErrUnknownTokenizer   = errors.New("unknown tokenizer encoding")
	ErrEmptyComparison    = errors.New("no formats to compare")
)
