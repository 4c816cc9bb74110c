package encoding

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/arloliu/tsln/errs"
)

// Delta returns the signed exact decimal difference cur - prev.
//
// Both values must be finite. The result always carries a sign ("+0", "+1.5",
// "-0.25") so that it can never be mistaken for an absolute literal. Deltas
// outside the plain range of FormatNumber use the exponent form ("+1e-307")
// when it is shorter; both forms are exact.
func Delta(prev, cur float64) (string, error) {
	if !isFinite(prev) || !isFinite(cur) {
		return "", fmt.Errorf("%w: delta of non-finite value", errs.ErrInvalidLiteral)
	}

	ps, cs := FormatNumber(prev), FormatNumber(cur)

	p, ok := new(big.Rat).SetString(ps)
	if !ok {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidLiteral, ps)
	}
	c, ok := new(big.Rat).SetString(cs)
	if !ok {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidLiteral, cs)
	}

	d := c.Sub(c, p)
	out := shortestDecimal(trimDecimal(d.FloatString(max(fracDigits(ps), fracDigits(cs)))))
	if d.Sign() >= 0 {
		return "+" + out, nil
	}

	return out, nil
}

// ApplyDelta adds a delta token produced by Delta to prev.
func ApplyDelta(prev float64, tok string) (float64, error) {
	if !IsDeltaToken(tok) {
		return 0, fmt.Errorf("%w: %q is not a delta", errs.ErrInvalidLiteral, tok)
	}
	if !isFinite(prev) {
		return 0, fmt.Errorf("%w: delta applied to non-finite value", errs.ErrInvalidLiteral)
	}

	p, ok := new(big.Rat).SetString(FormatNumber(prev))
	if !ok {
		return 0, fmt.Errorf("%w: previous value %v", errs.ErrInvalidLiteral, prev)
	}
	d, ok := new(big.Rat).SetString(strings.TrimPrefix(tok, "+"))
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidLiteral, tok)
	}

	f, _ := p.Add(p, d).Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: delta %q overflows", errs.ErrInvalidLiteral, tok)
	}

	return f, nil
}

// IsDeltaToken reports whether tok is a signed finite number.
func IsDeltaToken(tok string) bool {
	if len(tok) < 2 {
		return false
	}

	switch tok[0] {
	case '+':
		return tok[1] != '-' && IsNumberToken(tok[1:])
	case '-':
		return IsNumberToken(tok)
	default:
		return false
	}
}

// fracDigits returns the number of decimal places needed to write s exactly
// without an exponent.
func fracDigits(s string) int {
	mantissa, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		exp, _ = strconv.Atoi(s[i+1:])
	}

	frac := 0
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		frac = len(mantissa) - i - 1
	}

	return max(frac-exp, 0)
}

func trimDecimal(s string) string {
	if strings.IndexByte(s, '.') < 0 {
		return s
	}

	s = strings.TrimRight(s, "0")

	return strings.TrimSuffix(s, ".")
}

// shortestDecimal returns the exponent form of the plain decimal s when its
// magnitude is outside [minPlainAbs, maxPlainAbs) and the form is shorter.
func shortestDecimal(s string) string {
	sign, abs := "", s
	if strings.HasPrefix(abs, "-") {
		sign, abs = "-", abs[1:]
	}

	intPart, fracPart, _ := strings.Cut(abs, ".")
	digits := intPart + fracPart
	point := len(intPart)

	lead := len(digits) - len(strings.TrimLeft(digits, "0"))
	digits = strings.TrimRight(digits[lead:], "0")
	if digits == "" {
		return s
	}
	point -= lead

	exp := point - 1
	if exp >= -6 && exp < 21 {
		return s
	}

	sci := digits[:1]
	if len(digits) > 1 {
		sci += "." + digits[1:]
	}
	sci += "e" + strconv.Itoa(exp)

	if len(sign)+len(sci) < len(s) {
		return sign + sci
	}

	return s
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
