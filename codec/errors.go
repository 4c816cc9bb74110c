package codec

import (
	"fmt"

	"github.com/arloliu/tsln/errs"
)

// ErrMalformed matches every error returned by the decoder.
var ErrMalformed = errs.ErrMalformed

// HeaderRow is the DecodeError row of errors found in the header or in the
// overall document shape.
const HeaderRow = -1

// DecodeError locates a decoding failure.
type DecodeError struct {
	// Row is the zero-based body line, or HeaderRow.
	Row int
	// Field is the field name, empty when the failure is not tied to a field.
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Row == HeaderRow:
		return fmt.Sprintf("tsln: header: %v", e.Err)
	case e.Field == "":
		return fmt.Sprintf("tsln: row %d: %v", e.Row, e.Err)
	default:
		return fmt.Sprintf("tsln: row %d, field %q: %v", e.Row, e.Field, e.Err)
	}
}

// Unwrap exposes both ErrMalformed and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{errs.ErrMalformed, e.Err}
}

func headerError(err error) error {
	return &DecodeError{Row: HeaderRow, Err: err}
}

func rowError(row int, field string, err error) error {
	return &DecodeError{Row: row, Field: field, Err: err}
}
