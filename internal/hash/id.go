package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Tagged computes the xxHash64 of a one-byte tag followed by data.
//
// The tag keeps equal literals of different kinds apart, e.g. the number 1
// and the text "1".
func Tagged(tag byte, data string) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{tag})
	_, _ = d.WriteString(data)

	return d.Sum64()
}

// Parts computes the xxHash64 of parts joined by NUL bytes, without
// concatenating them first.
func Parts(parts ...[]byte) uint64 {
	d := xxhash.New()
	for i, p := range parts {
		if i > 0 {
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write(p)
	}

	return d.Sum64()
}
