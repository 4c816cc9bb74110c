package dataset

import "time"

// DataPoint is one timestamped row of field values.
type DataPoint struct {
	Time   time.Time
	Fields *Fields
}

// NewDataPoint creates a DataPoint with its instant truncated to milliseconds.
func NewDataPoint(ts time.Time, fields *Fields) DataPoint {
	if fields == nil {
		fields = NewFields(0)
	}

	return DataPoint{Time: time.UnixMilli(ts.UnixMilli()).UTC(), Fields: fields}
}

// UnixMilli returns the instant of the point in milliseconds since the Unix epoch.
func (p DataPoint) UnixMilli() int64 {
	return p.Time.UnixMilli()
}

// Dataset is an ordered sequence of data points.
//
// Order is significant; the codec preserves it exactly.
type Dataset []DataPoint

// Len returns the number of points.
func (d Dataset) Len() int { return len(d) }

// Instants returns the instants of all points in Unix milliseconds.
func (d Dataset) Instants() []int64 {
	out := make([]int64, len(d))
	for i, p := range d {
		out[i] = p.UnixMilli()
	}

	return out
}

// FieldNames returns the union of field names across all points in first-seen order.
func (d Dataset) FieldNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for _, p := range d {
		for name := range p.Fields.All() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}

// Column returns the values of name across all points; absent keys read as null.
func (d Dataset) Column(name string) []Value {
	out := make([]Value, len(d))
	for i, p := range d {
		out[i] = p.Fields.Get(name)
	}

	return out
}

// Equal reports whether a and b hold the same instants and values in the same order.
//
// Absent fields compare equal to null fields.
func Equal(a, b Dataset) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i].UnixMilli() != b[i].UnixMilli() {
			return false
		}

		for name, v := range a[i].Fields.All() {
			if !Identical(v, b[i].Fields.Get(name)) {
				return false
			}
		}

		for name, v := range b[i].Fields.All() {
			if !Identical(v, a[i].Fields.Get(name)) {
				return false
			}
		}
	}

	return true
}
