package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

// TimeLayout is the instant layout used for JSON I/O (the layout of JavaScript's toISOString).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	errNotArray     = errors.New("dataset json: expected an array of points")
	errNotObject    = errors.New("dataset json: expected an object")
	errNestedValue  = errors.New("dataset json: nested values are not supported")
	errNoTimestamp  = errors.New("dataset json: point has no timestamp")
	errBadTimestamp = errors.New("dataset json: invalid timestamp")
)

// MarshalJSON encodes d as an array of {"timestamp": ..., "data": {...}} objects.
//
// Field order follows each point's Fields order. Non-finite numbers have no
// JSON representation and are written as the strings "NaN", "Infinity" and
// "-Infinity".
func (d Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, d); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	ds, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*d = ds

	return nil
}

// WriteJSON writes d to w in the representation of MarshalJSON.
func WriteJSON(w io.Writer, d Dataset) error {
	var buf bytes.Buffer
	if err := writeJSON(&buf, d); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())

	return err
}

func writeJSON(buf *bytes.Buffer, d Dataset) error {
	buf.WriteByte('[')
	for i, p := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"timestamp":"`)
		buf.WriteString(p.Time.UTC().Format(TimeLayout))
		buf.WriteString(`","data":{`)

		first := true
		for name, v := range p.Fields.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false

			key, err := json.Marshal(name)
			if err != nil {
				return fmt.Errorf("dataset json: field %q: %w", name, err)
			}
			buf.Write(key)
			buf.WriteByte(':')

			if err := writeJSONValue(buf, v); err != nil {
				return fmt.Errorf("dataset json: field %q: %w", name, err)
			}
		}
		buf.WriteString("}}")
	}
	buf.WriteByte(']')

	return nil
}

func writeJSONValue(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.Float()
		switch {
		case math.IsNaN(f):
			buf.WriteString(`"NaN"`)
		case math.IsInf(f, 1):
			buf.WriteString(`"Infinity"`)
		case math.IsInf(f, -1):
			buf.WriteString(`"-Infinity"`)
		default:
			b, err := json.Marshal(f)
			if err != nil {
				return err
			}
			buf.Write(b)
		}
	case KindText:
		s, _ := v.Str()
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBool:
		b, _ := v.Boolean()
		buf.WriteString(strconv.FormatBool(b))
	default:
		buf.WriteString("null")
	}

	return nil
}

// ReadJSON decodes a dataset from r, preserving the key order of every "data" object.
//
// The "timestamp" member may be an RFC 3339 string or a number of Unix
// milliseconds. Members other than "timestamp" and "data" are ignored.
//
// The strings "NaN", "Infinity" and "-Infinity" are read back as numbers in
// any field whose other non-null values are all numbers, which reverses
// WriteJSON. A field holding only those strings is read as numeric too.
func ReadJSON(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '[', errNotArray); err != nil {
		return nil, err
	}

	ds := make(Dataset, 0)
	for dec.More() {
		p, err := readPoint(dec)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", len(ds), err)
		}
		ds = append(ds, p)
	}

	if err := expectDelim(dec, ']', errNotArray); err != nil {
		return nil, err
	}

	restoreNonFinite(ds)

	return ds, nil
}

var nonFiniteNames = map[string]float64{
	"NaN":       math.NaN(),
	"Infinity":  math.Inf(1),
	"-Infinity": math.Inf(-1),
}

// restoreNonFinite turns the string forms written for NaN and infinities
// back into numbers in otherwise numeric fields.
func restoreNonFinite(ds Dataset) {
	for _, name := range ds.FieldNames() {
		found := false
		numeric := true
		for _, v := range ds.Column(name) {
			switch v.Kind() {
			case KindNull, KindNumber:
			case KindText:
				s, _ := v.Str()
				if _, ok := nonFiniteNames[s]; ok {
					found = true
					continue
				}
				numeric = false
			default:
				numeric = false
			}
			if !numeric {
				break
			}
		}
		if !found || !numeric {
			continue
		}

		for _, p := range ds {
			v, ok := p.Fields.Lookup(name)
			if !ok {
				continue
			}
			if s, isText := v.Str(); isText {
				p.Fields.Set(name, Number(nonFiniteNames[s]))
			}
		}
	}
}

func readPoint(dec *json.Decoder) (DataPoint, error) {
	if err := expectDelim(dec, '{', errNotObject); err != nil {
		return DataPoint{}, err
	}

	var (
		ts     time.Time
		hasTS  bool
		fields = NewFields(8)
	)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return DataPoint{}, err
		}
		key, _ := tok.(string)

		switch key {
		case "timestamp":
			ts, err = readTimestamp(dec)
			if err != nil {
				return DataPoint{}, err
			}
			hasTS = true
		case "data":
			if err := readFields(dec, fields); err != nil {
				return DataPoint{}, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return DataPoint{}, err
			}
		}
	}

	if err := expectDelim(dec, '}', errNotObject); err != nil {
		return DataPoint{}, err
	}

	if !hasTS {
		return DataPoint{}, errNoTimestamp
	}

	return NewDataPoint(ts, fields), nil
}

func readTimestamp(dec *json.Decoder) (time.Time, error) {
	tok, err := dec.Token()
	if err != nil {
		return time.Time{}, err
	}

	switch t := tok.(type) {
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", errBadTimestamp, err)
		}

		return ts, nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", errBadTimestamp, err)
		}

		return time.UnixMilli(ms), nil
	default:
		return time.Time{}, errBadTimestamp
	}
}

func readFields(dec *json.Decoder, fields *Fields) error {
	if err := expectDelim(dec, '{', errNotObject); err != nil {
		return err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case nil:
			fields.Set(name, Null())
		case bool:
			fields.Set(name, Bool(t))
		case string:
			fields.Set(name, Text(t))
		case json.Number:
			f, err := strconv.ParseFloat(t.String(), 64)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			fields.Set(name, Number(f))
		default:
			return fmt.Errorf("field %q: %w", name, errNestedValue)
		}
	}

	return expectDelim(dec, '}', errNotObject)
}

func expectDelim(dec *json.Decoder, want json.Delim, errWrong error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if d, ok := tok.(json.Delim); !ok || d != want {
		return errWrong
	}

	return nil
}
