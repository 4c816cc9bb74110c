// Package encoding implements the literal grammar of the TSLN notation.
//
// TSLN is a line-oriented text format. Every row is a sequence of tokens
// separated by '|'. This package owns the lexical level of that format: how a
// single value becomes a token, how a token is classified back into a value,
// how text is escaped so that no value can be confused with a delimiter or a
// reserved token, and how numeric deltas are written so that they add back to
// the exact original float64.
//
// Higher-level packages (schema, codec) combine these tokens into headers and
// rows; they never format or parse literals themselves.
//
// # Tokens
//
//	~            null
//	=            repeat marker ("same as the previous row")
//	T / F        booleans
//	NaN Inf -Inf non-finite numbers
//	12.5 -3 1e+21 1.5e-07
//	             finite numbers, shortest round-trip decimal
//	+0.25 -3 +0  deltas (differential columns only, always signed)
//	'T  '12  '=  text that would otherwise read as another literal
//	BTC          any other text, escaped
//
// # Text Escaping
//
// Text is written bare with four escapes:
//
//	\\   backslash
//	\|   field delimiter
//	\n   line feed
//	\r   carriage return
//
// Header names additionally escape ',' and ':' (see Escape). A token whose
// first byte is a single quote is always text: the quote is dropped and the
// remainder unescaped. The encoder adds the quote exactly when the bare token
// would classify as null, a repeat marker, a boolean, a number, or would
// itself begin with a quote.
//
// # Exact Deltas
//
// Float subtraction is not reversible: prev + (cur - prev) need not equal cur.
// Deltas are therefore computed on the shortest decimal representations of
// both values using math/big rational arithmetic. The decoder adds the decimal
// delta to the decimal form of the previous value and rounds the exact sum to
// the nearest float64, which is the original value because its shortest
// decimal form round-trips.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use.
package encoding
