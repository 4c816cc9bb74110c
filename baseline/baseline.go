// Package baseline renders datasets in the notations TSLN is compared against.
//
// The renderings exist only to be measured: they are deterministic but make
// no attempt to be the most compact form of their notation.
package baseline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gowebpki/jcs"
	"github.com/toon-format/toon-go"

	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/encoding"
)

// Format names.
const (
	NameJSON = "json"
	NameCSV  = "csv"
	NameTOON = "toon"
)

// Renderer renders a dataset as text.
type Renderer func(ds dataset.Dataset) (string, error)

// Baseline is a named Renderer.
type Baseline struct {
	Name   string
	Render Renderer
}

// All returns the baselines in comparison order; JSON, the structured
// baseline, comes first.
func All() []Baseline {
	return []Baseline{
		{Name: NameJSON, Render: JSON},
		{Name: NameCSV, Render: CSV},
		{Name: NameTOON, Render: TOON},
	}
}

// JSON renders ds as RFC 8785 canonical JSON of the
// [{"timestamp": ..., "data": {...}}] representation.
func JSON(ds dataset.Dataset) (string, error) {
	raw, err := ds.MarshalJSON()
	if err != nil {
		return "", err
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("json baseline: %w", err)
	}

	return string(canonical), nil
}

// CSV renders ds as RFC 4180 CSV with a "timestamp" column followed by one
// column per field. Nulls are empty cells.
func CSV(ds dataset.Dataset) (string, error) {
	names := ds.FieldNames()
	timeKey := timestampKey(names)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	record := make([]string, 1+len(names))
	record[0] = timeKey
	copy(record[1:], names)
	if err := w.Write(record); err != nil {
		return "", err
	}

	for _, p := range ds {
		record[0] = p.Time.UTC().Format(dataset.TimeLayout)
		for i, name := range names {
			record[i+1] = csvCell(p.Fields.Get(name))
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv baseline: %w", err)
	}

	return buf.String(), nil
}

func csvCell(v dataset.Value) string {
	switch v.Kind() {
	case dataset.KindNumber:
		f, _ := v.Float()
		return encoding.FormatNumber(f)
	case dataset.KindText:
		s, _ := v.Str()
		return s
	case dataset.KindBool:
		b, _ := v.Boolean()
		return strconv.FormatBool(b)
	default:
		return ""
	}
}

// TOON renders ds as a TOON table of flat rows: the timestamp plus every
// field, absent fields as null.
func TOON(ds dataset.Dataset) (string, error) {
	names := ds.FieldNames()
	timeKey := timestampKey(names)

	rows := make([]map[string]any, len(ds))
	for i, p := range ds {
		row := make(map[string]any, 1+len(names))
		row[timeKey] = p.Time.UTC().Format(dataset.TimeLayout)
		for _, name := range names {
			row[name] = toonValue(p.Fields.Get(name))
		}
		rows[i] = row
	}

	// round trip through JSON so toon sees the same generic shapes as for any document
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("toon baseline: %w", err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("toon baseline: %w", err)
	}

	out, err := toon.Marshal(data, toon.WithLengthMarkers(true))
	if err != nil {
		return "", fmt.Errorf("toon baseline: %w", err)
	}

	return string(out), nil
}

func toonValue(v dataset.Value) any {
	if v.Kind() == dataset.KindNumber && !v.IsFinite() {
		return encoding.FormatValue(v)
	}

	return v.Any()
}

// timestampKey returns a column name for the instant that no field uses.
func timestampKey(names []string) string {
	key := "timestamp"
	for {
		clash := false
		for _, n := range names {
			if n == key {
				clash = true
				break
			}
		}
		if !clash {
			return key
		}
		key = "_" + key
	}
}
