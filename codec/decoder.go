package codec

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/encoding"
	"github.com/arloliu/tsln/errs"
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/schema"
)

// Decoder decodes a single TSLN document.
type Decoder struct {
	doc *Document
}

// NewDecoder parses the header of text and checks the body line count.
//
// One trailing line break is accepted, and CRLF line endings are treated as LF.
func NewDecoder(text string) (*Decoder, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return nil, err
	}

	return &Decoder{doc: doc}, nil
}

// Schema returns the parsed header.
func (d *Decoder) Schema() *schema.Schema {
	return d.doc.Schema
}

// Document returns the parsed, normalized document.
func (d *Decoder) Document() *Document {
	return d.doc
}

// Decode reconstructs the dataset.
//
// Every field named by the header is set on every point, nulls included, in
// header order.
func (d *Decoder) Decode() (dataset.Dataset, error) {
	s := d.doc.Schema
	lines := d.doc.lines()
	ds := make(dataset.Dataset, 0, len(lines))

	r := newRowReader(s)
	for i, line := range lines {
		p, err := r.readRow(i, line)
		if err != nil {
			return nil, err
		}
		ds = append(ds, p)
	}

	return ds, nil
}

// ParseDocument splits text into a validated header and its body lines
// without decoding any value.
func ParseDocument(text string) (*Document, error) {
	header, body, hasBody := strings.Cut(text, "\n")

	s, err := schema.Parse(header)
	if err != nil {
		return nil, headerError(err)
	}

	var lines []string
	if hasBody {
		lines = strings.Split(body, "\n")
	}
	if n := len(lines); n == s.Rows+1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) != s.Rows {
		return nil, headerError(fmt.Errorf("%w: header declares %d, body has %d", errs.ErrRowCount, s.Rows, len(lines)))
	}

	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return &Document{Schema: s, Body: strings.Join(lines, "\n")}, nil
}

// Decode decodes a complete document.
func Decode(text string) (dataset.Dataset, error) {
	dec, err := NewDecoder(text)
	if err != nil {
		return nil, err
	}

	return dec.Decode()
}

// DecodeReader reads a complete document from r and decodes it.
func DecodeReader(r io.Reader) (dataset.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Decode(string(data))
}

// rowReader carries the per-column state of one decoding pass.
type rowReader struct {
	schema   *schema.Schema
	prev     []dataset.Value
	width    int
	lastTime int64
}

func newRowReader(s *schema.Schema) *rowReader {
	width := len(s.Fields)
	if s.TimestampMode == format.TimestampIrregular {
		width++
	}

	return &rowReader{
		schema:   s,
		prev:     make([]dataset.Value, len(s.Fields)),
		width:    width,
		lastTime: s.Base,
	}
}

func (r *rowReader) readRow(row int, line string) (dataset.DataPoint, error) {
	var tokens []string
	if line != "" || r.width != 0 {
		tokens = encoding.Split(line, encoding.FieldDelim)
	}
	if len(tokens) != r.width {
		return dataset.DataPoint{}, rowError(row, "", fmt.Errorf("%w: want %d tokens, got %d", errs.ErrRowArity, r.width, len(tokens)))
	}

	var ts int64
	if r.schema.TimestampMode == format.TimestampIrregular {
		offset, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			return dataset.DataPoint{}, rowError(row, "", fmt.Errorf("%w: timestamp offset %q", errs.ErrInvalidLiteral, tokens[0]))
		}
		ts = r.lastTime + offset
		r.lastTime = ts
		tokens = tokens[1:]
	} else {
		ts = r.schema.Base + int64(row)*r.schema.Interval
	}

	fields := dataset.NewFields(len(r.schema.Fields))
	for j, f := range r.schema.Fields {
		v, err := r.value(row, j, f, tokens[j])
		if err != nil {
			return dataset.DataPoint{}, rowError(row, f.Name, err)
		}
		r.prev[j] = v
		fields.Set(f.Name, v)
	}

	return dataset.NewDataPoint(time.UnixMilli(ts), fields), nil
}

func (r *rowReader) value(row, col int, f schema.FieldDescriptor, tok string) (dataset.Value, error) {
	prev := r.prev[col]

	if tok == encoding.RepeatToken {
		if f.Strategy != format.StrategyRepeat {
			return dataset.Null(), fmt.Errorf("%w: repeat marker in %s column", errs.ErrReservedToken, f.Strategy.Code())
		}
		if row == 0 {
			return dataset.Null(), fmt.Errorf("%w: repeat marker on the first row", errs.ErrReservedToken)
		}

		return prev, nil
	}

	if f.Strategy == format.StrategyDifferential && tok != encoding.NullToken {
		if last, ok := prev.Float(); ok {
			cur, err := encoding.ApplyDelta(last, tok)
			if err != nil {
				return dataset.Null(), err
			}

			return dataset.Number(cur), nil
		}

		v, err := encoding.ParseValue(tok)
		if err != nil {
			return dataset.Null(), err
		}
		if v.Kind() != dataset.KindNumber {
			return dataset.Null(), fmt.Errorf("%w: %q in differential column", errs.ErrTypeMismatch, tok)
		}
		if !v.IsFinite() {
			return dataset.Null(), fmt.Errorf("%w: %q in differential column", errs.ErrInvalidLiteral, tok)
		}

		return v, nil
	}

	v, err := encoding.ParseValue(tok)
	if err != nil {
		return dataset.Null(), err
	}
	if !fits(f.Type, v) {
		return dataset.Null(), fmt.Errorf("%w: %s value %q in %s field", errs.ErrTypeMismatch, v.Kind(), tok, f.Type.Code())
	}

	return v, nil
}

func fits(t format.FieldType, v dataset.Value) bool {
	if v.IsNull() {
		return true
	}

	switch t {
	case format.FieldNumeric:
		return v.Kind() == dataset.KindNumber
	case format.FieldString:
		return v.Kind() == dataset.KindText
	case format.FieldBoolean:
		return v.Kind() == dataset.KindBool
	case format.FieldMixed:
		return true
	default:
		return false
	}
}
