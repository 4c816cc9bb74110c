package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/tsln/encoding"
	"github.com/arloliu/tsln/errs"
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/internal/hash"
)

const (
	// Version is the format version written by this package.
	Version = 1
	// Magic prefixes every header line.
	Magic = "#TSLN/"

	nameReserved = "|,:"
)

// FieldDescriptor describes one column of the body.
type FieldDescriptor struct {
	Name     string
	Type     format.FieldType
	Strategy format.Strategy
}

// Schema is the decoded header of a TSLN document.
type Schema struct {
	Version       int
	TimestampMode format.TimestampMode
	// Base is the first instant in Unix milliseconds.
	Base int64
	// Interval is the regular gap in milliseconds; valid only when HasInterval is set.
	Interval     int64
	HasInterval  bool
	Rows         int
	Capabilities Capabilities
	Fields       []FieldDescriptor
}

// FieldIndex returns the position of the named field, or -1.
func (s *Schema) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}

	return -1
}

// FieldNames returns the field names in schema order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}

	return names
}

// Validate checks the internal consistency of the schema.
func (s *Schema) Validate() error {
	if s.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, s.Version)
	}

	if s.Rows < 0 {
		return fmt.Errorf("%w: negative row count %d", errs.ErrMalformedHeader, s.Rows)
	}

	switch s.TimestampMode {
	case format.TimestampRegular:
		if s.Rows > 1 && !s.HasInterval {
			return fmt.Errorf("%w: regular timestamps over %d rows need an interval", errs.ErrMalformedHeader, s.Rows)
		}
	case format.TimestampIrregular:
	default:
		return fmt.Errorf("%w: timestamp mode %v", errs.ErrMalformedHeader, s.TimestampMode)
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", errs.ErrMalformedHeader, f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.Type.Code() == "" {
			return fmt.Errorf("%w: field %q has unknown type", errs.ErrMalformedHeader, f.Name)
		}

		if f.Strategy.Code() == "" {
			return fmt.Errorf("%w: field %q has unknown strategy", errs.ErrMalformedHeader, f.Name)
		}

		if !s.Capabilities.Allows(f.Strategy) {
			return fmt.Errorf("%w: field %q uses %s", errs.ErrStrategyDisabled, f.Name, f.Strategy.Code())
		}

		if f.Strategy == format.StrategyDifferential && f.Type != format.FieldNumeric {
			return fmt.Errorf("%w: field %q is %s", errs.ErrStrategyType, f.Name, f.Type.Code())
		}
	}

	return nil
}

// Header returns the header line, without a trailing line break.
func (s *Schema) Header() string {
	var sb strings.Builder
	sb.Grow(64 + 16*len(s.Fields))

	sb.WriteString(Magic)
	sb.WriteString(strconv.Itoa(s.Version))

	sb.WriteString("|ts=")
	if s.TimestampMode == format.TimestampIrregular {
		sb.WriteString("i")
	} else {
		sb.WriteString("r")
		if s.HasInterval {
			sb.WriteByte(':')
			sb.WriteString(strconv.FormatInt(s.Interval, 10))
		}
	}

	sb.WriteString("|base=")
	sb.WriteString(strconv.FormatInt(s.Base, 10))
	sb.WriteString("|rows=")
	sb.WriteString(strconv.Itoa(s.Rows))
	sb.WriteString("|caps=")
	sb.WriteString(s.Capabilities.String())

	sb.WriteString("|fields=")
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(encoding.Escape(f.Name, nameReserved))
		sb.WriteByte(':')
		sb.WriteString(f.Type.Code())
		sb.WriteByte(':')
		sb.WriteString(f.Strategy.Code())
	}

	return sb.String()
}

// Fingerprint returns the xxHash64 of the header line.
//
// Two documents share a fingerprint exactly when their headers are identical,
// which makes it a cheap cache key for decoded schemas.
func (s *Schema) Fingerprint() uint64 {
	return hash.ID(s.Header())
}

// Parse decodes and validates a header line.
func Parse(line string) (*Schema, error) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, Magic) {
		return nil, fmt.Errorf("%w: missing %q prefix", errs.ErrMalformedHeader, Magic)
	}

	parts := encoding.Split(line, encoding.FieldDelim)

	version, err := strconv.Atoi(parts[0][len(Magic):])
	if err != nil {
		return nil, fmt.Errorf("%w: version %q", errs.ErrMalformedHeader, parts[0][len(Magic):])
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, version)
	}

	s := &Schema{Version: version}
	seen := make(map[string]bool, len(parts))

	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: member %q has no value", errs.ErrMalformedHeader, part)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate member %q", errs.ErrMalformedHeader, key)
		}
		seen[key] = true

		if err := s.parseMember(key, value); err != nil {
			return nil, err
		}
	}

	for _, key := range []string{"ts", "base", "rows", "caps", "fields"} {
		if !seen[key] {
			return nil, fmt.Errorf("%w: missing member %q", errs.ErrMalformedHeader, key)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Schema) parseMember(key, value string) error {
	var err error

	switch key {
	case "ts":
		err = s.parseTimestampMode(value)
	case "base":
		s.Base, err = strconv.ParseInt(value, 10, 64)
	case "rows":
		s.Rows, err = strconv.Atoi(value)
	case "caps":
		var ok bool
		if s.Capabilities, ok = parseCapabilities(value); !ok {
			err = fmt.Errorf("unknown capability in %q", value)
		}
	case "fields":
		s.Fields, err = parseFields(value)
	default:
		err = fmt.Errorf("unknown member")
	}

	if err != nil {
		return fmt.Errorf("%w: %s=%q: %w", errs.ErrMalformedHeader, key, value, err)
	}

	return nil
}

func (s *Schema) parseTimestampMode(value string) error {
	switch {
	case value == "i":
		s.TimestampMode = format.TimestampIrregular
	case value == "r":
		s.TimestampMode = format.TimestampRegular
	case strings.HasPrefix(value, "r:"):
		interval, err := strconv.ParseInt(value[2:], 10, 64)
		if err != nil {
			return err
		}
		s.TimestampMode = format.TimestampRegular
		s.Interval = interval
		s.HasInterval = true
	default:
		return fmt.Errorf("unknown timestamp mode")
	}

	return nil
}

func parseFields(value string) ([]FieldDescriptor, error) {
	if value == "" {
		return nil, nil
	}

	descs := encoding.Split(value, encoding.ListDelim)
	fields := make([]FieldDescriptor, 0, len(descs))

	for _, desc := range descs {
		parts := encoding.Split(desc, encoding.PairDelim)
		if len(parts) != 3 {
			return nil, fmt.Errorf("descriptor %q is not name:type:strategy", desc)
		}

		name, err := encoding.Unescape(parts[0])
		if err != nil {
			return nil, err
		}

		typ, ok := format.ParseFieldType(parts[1])
		if !ok {
			return nil, fmt.Errorf("field %q: unknown type %q", name, parts[1])
		}

		strategy, ok := format.ParseStrategy(parts[2])
		if !ok {
			return nil, fmt.Errorf("field %q: unknown strategy %q", name, parts[2])
		}

		fields = append(fields, FieldDescriptor{Name: name, Type: typ, Strategy: strategy})
	}

	return fields, nil
}
