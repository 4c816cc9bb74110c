package dataset

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Fields is an ordered mapping from field name to Value.
//
// Iteration follows insertion order. Setting an existing key replaces its
// value without moving it. The zero Fields is empty and ready to use.
type Fields struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewFields creates an empty Fields with room for n entries.
func NewFields(n int) *Fields {
	return &Fields{m: orderedmap.New[string, Value](orderedmap.WithCapacity[string, Value](n))}
}

// Set assigns v to name, appending name if it is new.
func (f *Fields) Set(name string, v Value) {
	if f.m == nil {
		f.m = orderedmap.New[string, Value]()
	}

	f.m.Set(name, v)
}

// Lookup returns the value of name and whether it is present.
func (f *Fields) Lookup(name string) (Value, bool) {
	if f == nil || f.m == nil {
		return Null(), false
	}

	v, ok := f.m.Get(name)
	if !ok {
		return Null(), false
	}

	return v, true
}

// Get returns the value of name, or null when absent.
func (f *Fields) Get(name string) Value {
	v, _ := f.Lookup(name)
	return v
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil || f.m == nil {
		return 0
	}

	return f.m.Len()
}

// Keys returns the field names in insertion order.
func (f *Fields) Keys() []string {
	if f.Len() == 0 {
		return nil
	}

	keys := make([]string, 0, f.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

// All iterates over name/value pairs in insertion order.
func (f *Fields) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if f.Len() == 0 {
			return
		}

		for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}
