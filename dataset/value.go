package dataset

import (
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull   Kind = iota // KindNull is the zero Value.
	KindNumber             // KindNumber holds a float64.
	KindText               // KindText holds a string.
	KindBool               // KindBool holds a boolean.
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a scalar field value: null, number, text, or boolean.
//
// The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	text string
	flag bool
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the number held by v and whether v is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the text held by v and whether v is text.
func (v Value) Str() (string, bool) {
	return v.text, v.kind == KindText
}

// Boolean returns the boolean held by v and whether v is a boolean.
func (v Value) Boolean() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// IsFinite reports whether v is a finite number.
func (v Value) IsFinite() bool {
	return v.kind == KindNumber && !math.IsNaN(v.num) && !math.IsInf(v.num, 0)
}

// Any returns v as a plain Go value: nil, float64, string, or bool.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	case KindBool:
		return v.flag
	default:
		return nil
	}
}

// String returns a debugging representation of v.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return strconv.Quote(v.text)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return "null"
	}
}

// Identical reports whether a and b hold the same kind and the same value.
//
// Numbers compare by their IEEE-754 bit pattern, except that every NaN is
// identical to every other NaN. In particular 0 and -0 are not identical,
// since a repeat marker substituting one for the other would not round-trip.
func Identical(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNumber:
		if math.IsNaN(a.num) && math.IsNaN(b.num) {
			return true
		}

		return math.Float64bits(a.num) == math.Float64bits(b.num)
	case KindText:
		return a.text == b.text
	case KindBool:
		return a.flag == b.flag
	default:
		return true
	}
}

// FromAny converts a plain Go value into a Value.
//
// Supported inputs are nil, bool, string, all integer and float kinds, and
// Value itself. The second result is false for unsupported inputs.
func FromAny(x any) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return Null(), true
	case Value:
		return t, true
	case bool:
		return Bool(t), true
	case string:
		return Text(t), true
	case float64:
		return Number(t), true
	case float32:
		return Number(float64(t)), true
	case int:
		return Number(float64(t)), true
	case int8:
		return Number(float64(t)), true
	case int16:
		return Number(float64(t)), true
	case int32:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	case uint:
		return Number(float64(t)), true
	case uint8:
		return Number(float64(t)), true
	case uint16:
		return Number(float64(t)), true
	case uint32:
		return Number(float64(t)), true
	case uint64:
		return Number(float64(t)), true
	default:
		return Null(), false
	}
}
