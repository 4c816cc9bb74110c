package encoding

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/errs"
)

// Reserved tokens and delimiters of the notation.
const (
	NullToken    = "~"
	RepeatToken  = "="
	TrueToken    = "T"
	FalseToken   = "F"
	NaNToken     = "NaN"
	PosInfToken  = "Inf"
	NegInfToken  = "-Inf"
	QuotePrefix  = '\''
	EscapeByte   = '\\'
	FieldDelim   = '|'
	RowDelim     = '\n'
	ListDelim    = ','
	PairDelim    = ':'
	bodyReserved = "|"
)

// Decimal formatting switches to exponent form outside [minPlainAbs, maxPlainAbs).
const (
	minPlainAbs = 1e-6
	maxPlainAbs = 1e21
)

// FormatNumber formats f as the shortest decimal that parses back to f.
//
// Non-finite values map to NaNToken, PosInfToken and NegInfToken.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return NaNToken
	case math.IsInf(f, 1):
		return PosInfToken
	case math.IsInf(f, -1):
		return NegInfToken
	}

	abs := math.Abs(f)
	if abs == 0 || (abs >= minPlainAbs && abs < maxPlainAbs) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return strconv.FormatFloat(f, 'e', -1, 64)
}

// FormatValue formats v as a raw literal token.
func FormatValue(v dataset.Value) string {
	switch v.Kind() {
	case dataset.KindNumber:
		f, _ := v.Float()
		return FormatNumber(f)
	case dataset.KindBool:
		if b, _ := v.Boolean(); b {
			return TrueToken
		}

		return FalseToken
	case dataset.KindText:
		s, _ := v.Str()
		return FormatText(s)
	default:
		return NullToken
	}
}

// FormatText escapes s and quotes it when the bare form would read as another literal.
func FormatText(s string) string {
	tok := Escape(s, bodyReserved)
	if needsQuote(tok) {
		return string(QuotePrefix) + tok
	}

	return tok
}

func needsQuote(tok string) bool {
	if tok == "" {
		return false
	}

	if tok[0] == QuotePrefix || IsReserved(tok) {
		return true
	}

	return IsNumberToken(tok)
}

// IsReserved reports whether tok is one of the reserved non-numeric tokens.
func IsReserved(tok string) bool {
	switch tok {
	case NullToken, RepeatToken, TrueToken, FalseToken, NaNToken, PosInfToken, NegInfToken:
		return true
	default:
		return false
	}
}

// ParseValue classifies a raw literal token and returns its value.
//
// The repeat marker is not a literal; ParseValue returns errs.ErrReservedToken for it.
func ParseValue(tok string) (dataset.Value, error) {
	switch {
	case tok == "":
		return dataset.Text(""), nil
	case tok[0] == QuotePrefix:
		s, err := Unescape(tok[1:])
		if err != nil {
			return dataset.Null(), err
		}

		return dataset.Text(s), nil
	}

	switch tok {
	case NullToken:
		return dataset.Null(), nil
	case RepeatToken:
		return dataset.Null(), errs.ErrReservedToken
	case TrueToken:
		return dataset.Bool(true), nil
	case FalseToken:
		return dataset.Bool(false), nil
	case NaNToken:
		return dataset.Number(math.NaN()), nil
	case PosInfToken:
		return dataset.Number(math.Inf(1)), nil
	case NegInfToken:
		return dataset.Number(math.Inf(-1)), nil
	}

	if IsNumberToken(tok) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return dataset.Null(), fmt.Errorf("%w: %q: %w", errs.ErrInvalidLiteral, tok, err)
		}

		return dataset.Number(f), nil
	}

	s, err := Unescape(tok)
	if err != nil {
		return dataset.Null(), err
	}

	return dataset.Text(s), nil
}

// IsNumberToken reports whether tok matches the finite number grammar
//
//	-? digit+ ( '.' digit+ )? ( [eE] [+-]? digit+ )?
func IsNumberToken(tok string) bool {
	i := 0
	if i < len(tok) && tok[i] == '-' {
		i++
	}

	n := scanDigits(tok, i)
	if n == i {
		return false
	}
	i = n

	if i < len(tok) && tok[i] == '.' {
		n = scanDigits(tok, i+1)
		if n == i+1 {
			return false
		}
		i = n
	}

	if i < len(tok) && (tok[i] == 'e' || tok[i] == 'E') {
		i++
		if i < len(tok) && (tok[i] == '+' || tok[i] == '-') {
			i++
		}
		n = scanDigits(tok, i)
		if n == i {
			return false
		}
		i = n
	}

	return i == len(tok)
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}

	return i
}

// Escape escapes backslash, line breaks and every byte of extra in s.
func Escape(s string, extra string) string {
	if !strings.ContainsAny(s, "\\\n\r"+extra) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == EscapeByte || strings.IndexByte(extra, c) >= 0:
			sb.WriteByte(EscapeByte)
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// Unescape reverses Escape for any reserved set.
func Unescape(s string) (string, error) {
	if strings.IndexByte(s, EscapeByte) < 0 {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != EscapeByte {
			sb.WriteByte(c)
			continue
		}

		i++
		if i == len(s) {
			return "", fmt.Errorf("%w: dangling escape in %q", errs.ErrInvalidLiteral, s)
		}

		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case EscapeByte, FieldDelim, ListDelim, PairDelim:
			sb.WriteByte(s[i])
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c in %q", errs.ErrInvalidLiteral, s[i], s)
		}
	}

	return sb.String(), nil
}

// Split splits s on every sep byte that is not escaped. The parts keep their escapes.
func Split(s string, sep byte) []string {
	parts := make([]string, 0, 8)
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case EscapeByte:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}
