package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/errs"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "-0"},
		{1, "1"},
		{-12.5, "-12.5"},
		{50123.45, "50123.45"},
		{980000000000.5, "980000000000.5"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-07"},
		{0.000001, "0.000001"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Inf"},
		{math.Inf(-1), "-Inf"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestIsNumberToken(t *testing.T) {
	valid := []string{"0", "-0", "12", "1.5", "-1.5", "1e+21", "1.5e-07", "2E3"}
	invalid := []string{"", "-", ".5", "5.", "+5", "1e", "1e+", "nan", "inf", "0x10", "1_000", "1.2.3", "BTC"}

	for _, tok := range valid {
		require.True(t, IsNumberToken(tok), tok)
	}
	for _, tok := range invalid {
		require.False(t, IsNumberToken(tok), tok)
	}
}

func TestFormatText_QuotesAmbiguousText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BTC", "BTC"},
		{"", ""},
		{"T", "'T"},
		{"F", "'F"},
		{"~", "'~"},
		{"=", "'="},
		{"NaN", "'NaN"},
		{"-Inf", "'-Inf"},
		{"123", "'123"},
		{"1e5", "'1e5"},
		{"'quoted", "''quoted"},
		{"nan", "nan"},
		{"a|b", `a\|b`},
		{"line\nbreak", `line\nbreak`},
		{`back\slash`, `back\\slash`},
		{"cr\r", `cr\r`},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FormatText(tt.in), tt.in)
	}
}

func TestParseValue_RoundTrip(t *testing.T) {
	values := []dataset.Value{
		dataset.Null(),
		dataset.Bool(true),
		dataset.Bool(false),
		dataset.Number(0),
		dataset.Number(math.Copysign(0, -1)),
		dataset.Number(-98765.4321),
		dataset.Number(math.MaxFloat64),
		dataset.Number(math.SmallestNonzeroFloat64),
		dataset.Number(math.NaN()),
		dataset.Number(math.Inf(1)),
		dataset.Number(math.Inf(-1)),
		dataset.Text(""),
		dataset.Text("BTC"),
		dataset.Text("T"),
		dataset.Text("~"),
		dataset.Text("="),
		dataset.Text("42"),
		dataset.Text("'"),
		dataset.Text("a|b|c"),
		dataset.Text("multi\nline\r\n"),
		dataset.Text(`\`),
		dataset.Text("ünïcødé ✓"),
	}

	for _, v := range values {
		tok := FormatValue(v)
		got, err := ParseValue(tok)
		require.NoError(t, err, tok)
		require.True(t, dataset.Identical(v, got), "value %v token %q decoded %v", v, tok, got)
	}
}

func TestParseValue_Errors(t *testing.T) {
	_, err := ParseValue("=")
	require.ErrorIs(t, err, errs.ErrReservedToken)

	_, err = ParseValue(`abc\`)
	require.ErrorIs(t, err, errs.ErrInvalidLiteral)

	_, err = ParseValue(`a\tb`)
	require.ErrorIs(t, err, errs.ErrInvalidLiteral)
}

func TestEscape_HeaderReserved(t *testing.T) {
	name := "a,b:c|d"
	esc := Escape(name, "|,:")
	require.Equal(t, `a\,b\:c\|d`, esc)

	back, err := Unescape(esc)
	require.NoError(t, err)
	require.Equal(t, name, back)
}

func TestSplit(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, Split("a|b|c", '|'))
	require.Equal(t, []string{`a\|b`, "c"}, Split(`a\|b|c`, '|'))
	require.Equal(t, []string{`a\\`, "b"}, Split(`a\\|b`, '|'))
	require.Equal(t, []string{""}, Split("", '|'))
	require.Equal(t, []string{"", ""}, Split("|", '|'))
}
