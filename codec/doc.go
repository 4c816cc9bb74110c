// Package codec encodes datasets to TSLN documents and decodes them back.
//
// # Encoding
//
// The Encoder analyzes the dataset (see package analysis), writes a
// self-describing header line and then one body line per data point:
//
//	#TSLN/1|ts=r:1000|base=1766829600000|rows=3|caps=diff,rep|fields=symbol:str:rep,price:num:diff
//	AAPL|189.5
//	=|+0.25
//	=|-1
//
// Regular instants are reconstructed from the header, so the body carries no
// timestamp column. Irregular documents (ts=i) start every line with the
// offset in milliseconds from the previous instant (from base on row 0).
//
// Per field, the body uses the strategy named in the header:
//
//   - raw: every value is a literal token.
//   - diff: the first value, and any value following a null, is an absolute
//     number; every other value is a signed exact decimal delta from the
//     previous one ("+0.25", "-1", "+0").
//   - rep: "=" stands for a value identical to the one on the previous line.
//
// Literal tokens are "~" (null), "T" and "F" (booleans), "NaN", "Inf" and
// "-Inf", shortest round-trip decimal numbers and text. Text escapes '\', '|'
// and line breaks, and is prefixed with a single quote when the bare form
// would read as any other literal.
//
// # Decoding
//
// Decoding is strict: a header that does not parse, a body whose line count
// differs from the header, a line with the wrong number of tokens, a token
// that does not fit its field, or a strategy the header does not enable all
// fail with a *DecodeError. Every such error matches ErrMalformed with
// errors.Is, as well as the specific sentinel from package errs.
//
// For every dataset ds, Decode(Encode(ds)) holds exactly the same instants
// (at millisecond resolution) and values, in the same order.
package codec
