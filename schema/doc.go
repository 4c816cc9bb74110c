// Package schema defines the self-describing header of a TSLN document.
//
// The header is the first line of every document and is sufficient, on its
// own, to decode the body: it names the format version, how instants are
// reconstructed, the number of rows, which encoding capabilities are enabled,
// and the ordered field descriptors.
//
//	#TSLN/1|ts=r:1000|base=1766829600000|rows=3|caps=diff,rep|fields=symbol:str:rep,price:num:diff
//
// Header members:
//
//	ts      r:<ms>  regular interval; instants are base + row * interval
//	        r       regular with no interval (0 or 1 rows)
//	        i       irregular; every row starts with an offset token
//	base    first instant in Unix milliseconds (0 for an empty document)
//	rows    number of body lines that follow
//	caps    enabled capabilities: diff, rep (comma separated, may be empty)
//	fields  name:type:strategy descriptors (comma separated, may be empty)
//
// Field names escape '\', '|', ',', ':' and line breaks with a backslash.
package schema
