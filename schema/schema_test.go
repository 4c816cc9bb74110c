package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsln/errs"
	"github.com/arloliu/tsln/format"
)

func sampleSchema() *Schema {
	return &Schema{
		Version:       Version,
		TimestampMode: format.TimestampRegular,
		Base:          1766829600000,
		Interval:      1000,
		HasInterval:   true,
		Rows:          3,
		Capabilities:  DefaultCapabilities(),
		Fields: []FieldDescriptor{
			{Name: "symbol", Type: format.FieldString, Strategy: format.StrategyRepeat},
			{Name: "price", Type: format.FieldNumeric, Strategy: format.StrategyDifferential},
			{Name: "halted", Type: format.FieldBoolean, Strategy: format.StrategyRaw},
		},
	}
}

func TestSchema_Header(t *testing.T) {
	s := sampleSchema()
	require.Equal(t,
		"#TSLN/1|ts=r:1000|base=1766829600000|rows=3|caps=diff,rep|fields=symbol:str:rep,price:num:diff,halted:bool:raw",
		s.Header())

	s.TimestampMode = format.TimestampIrregular
	s.HasInterval = false
	s.Capabilities = Capabilities{RepeatMarkers: true}
	s.Fields = s.Fields[:1]
	require.Equal(t, "#TSLN/1|ts=i|base=1766829600000|rows=3|caps=rep|fields=symbol:str:rep", s.Header())
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
	}{
		{name: "regular", schema: sampleSchema()},
		{
			name: "empty",
			schema: &Schema{
				Version:       Version,
				TimestampMode: format.TimestampRegular,
			},
		},
		{
			name: "single row without interval",
			schema: &Schema{
				Version:       Version,
				TimestampMode: format.TimestampRegular,
				Base:          -5,
				Rows:          1,
				Fields:        []FieldDescriptor{{Name: "v", Type: format.FieldNull, Strategy: format.StrategyRaw}},
			},
		},
		{
			name: "escaped names",
			schema: &Schema{
				Version:       Version,
				TimestampMode: format.TimestampIrregular,
				Rows:          2,
				Capabilities:  DefaultCapabilities(),
				Fields: []FieldDescriptor{
					{Name: "a|b", Type: format.FieldMixed, Strategy: format.StrategyRaw},
					{Name: "k:v,w", Type: format.FieldString, Strategy: format.StrategyRepeat},
					{Name: "back\\slash\nnl", Type: format.FieldNumeric, Strategy: format.StrategyDifferential},
					{Name: "", Type: format.FieldNumeric, Strategy: format.StrategyRaw},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.schema.Header()
			require.NotContains(t, header, "\n")

			got, err := Parse(header)
			require.NoError(t, err)
			require.Equal(t, tt.schema.TimestampMode, got.TimestampMode)
			require.Equal(t, tt.schema.Base, got.Base)
			require.Equal(t, tt.schema.Interval, got.Interval)
			require.Equal(t, tt.schema.HasInterval, got.HasInterval)
			require.Equal(t, tt.schema.Rows, got.Rows)
			require.Equal(t, tt.schema.Capabilities, got.Capabilities)
			require.Len(t, got.Fields, len(tt.schema.Fields))
			for i := range tt.schema.Fields {
				require.Equal(t, tt.schema.Fields[i], got.Fields[i])
			}
			require.Equal(t, tt.schema.Fingerprint(), got.Fingerprint())
		})
	}
}

func TestParse_ToleratesCarriageReturn(t *testing.T) {
	got, err := Parse("#TSLN/1|ts=r|base=0|rows=0|caps=|fields=\r")
	require.NoError(t, err)
	require.Empty(t, got.Fields)
	require.Equal(t, Capabilities{}, got.Capabilities)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"no magic", "TSLN/1|ts=r|base=0|rows=0|caps=|fields=", errs.ErrMalformedHeader},
		{"bad version", "#TSLN/x|ts=r|base=0|rows=0|caps=|fields=", errs.ErrMalformedHeader},
		{"future version", "#TSLN/2|ts=r|base=0|rows=0|caps=|fields=", errs.ErrUnsupportedVersion},
		{"missing member", "#TSLN/1|ts=r|base=0|rows=0|caps=", errs.ErrMalformedHeader},
		{"duplicate member", "#TSLN/1|ts=r|ts=i|base=0|rows=0|caps=|fields=", errs.ErrMalformedHeader},
		{"unknown member", "#TSLN/1|ts=r|base=0|rows=0|caps=|fields=|zip=1", errs.ErrMalformedHeader},
		{"member without value", "#TSLN/1|ts=r|base=0|rows|caps=|fields=", errs.ErrMalformedHeader},
		{"bad ts", "#TSLN/1|ts=x|base=0|rows=0|caps=|fields=", errs.ErrMalformedHeader},
		{"bad interval", "#TSLN/1|ts=r:abc|base=0|rows=0|caps=|fields=", errs.ErrMalformedHeader},
		{"bad base", "#TSLN/1|ts=r|base=1.5|rows=0|caps=|fields=", errs.ErrMalformedHeader},
		{"negative rows", "#TSLN/1|ts=r|base=0|rows=-1|caps=|fields=", errs.ErrMalformedHeader},
		{"unknown capability", "#TSLN/1|ts=r|base=0|rows=0|caps=zip|fields=", errs.ErrMalformedHeader},
		{"regular without interval", "#TSLN/1|ts=r|base=0|rows=2|caps=|fields=", errs.ErrMalformedHeader},
		{"short descriptor", "#TSLN/1|ts=i|base=0|rows=0|caps=|fields=a:num", errs.ErrMalformedHeader},
		{"unknown type", "#TSLN/1|ts=i|base=0|rows=0|caps=|fields=a:int:raw", errs.ErrMalformedHeader},
		{"unknown strategy", "#TSLN/1|ts=i|base=0|rows=0|caps=|fields=a:num:xor", errs.ErrMalformedHeader},
		{"duplicate field", "#TSLN/1|ts=i|base=0|rows=0|caps=|fields=a:num:raw,a:str:raw", errs.ErrMalformedHeader},
		{"diff disabled", "#TSLN/1|ts=i|base=0|rows=0|caps=rep|fields=a:num:diff", errs.ErrStrategyDisabled},
		{"rep disabled", "#TSLN/1|ts=i|base=0|rows=0|caps=diff|fields=a:str:rep", errs.ErrStrategyDisabled},
		{"diff on text", "#TSLN/1|ts=i|base=0|rows=0|caps=diff|fields=a:str:diff", errs.ErrStrategyType},
		{"bad escape", "#TSLN/1|ts=i|base=0|rows=0|caps=|fields=a\\x:num:raw", errs.ErrMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.header)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCapabilities(t *testing.T) {
	none := Capabilities{}
	require.True(t, none.Allows(format.StrategyRaw))
	require.False(t, none.Allows(format.StrategyDifferential))
	require.False(t, none.Allows(format.StrategyRepeat))
	require.False(t, none.Allows(format.Strategy(0)))
	require.Empty(t, none.String())

	all := DefaultCapabilities()
	require.True(t, all.Allows(format.StrategyDifferential))
	require.True(t, all.Allows(format.StrategyRepeat))
	require.Equal(t, "diff,rep", all.String())
}

func TestSchema_FieldIndex(t *testing.T) {
	s := sampleSchema()
	require.Equal(t, 1, s.FieldIndex("price"))
	require.Equal(t, -1, s.FieldIndex("volume"))
	require.Equal(t, []string{"symbol", "price", "halted"}, s.FieldNames())
}

func TestSchema_Fingerprint(t *testing.T) {
	a, b := sampleSchema(), sampleSchema()
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Rows++
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
