// Package hexconv provides a lookup-table hex nibble decoder with an
// unambiguous not-found signal: a -1 default keeps the digit '0' from
// being confused with "not a hex digit", unlike a raw 0-15 table with a
// zero default.
package hexconv

var table [256]int8

func init() {
	for i := range table {
		table[i] = -1
	}

	for c := byte('0'); c <= '9'; c++ {
		table[c] = int8(c - '0')
	}
	for c := byte('a'); c <= 'f'; c++ {
		table[c] = int8(c-'a') + 10
	}
	for c := byte('A'); c <= 'F'; c++ {
		table[c] = int8(c-'A') + 10
	}
}

// Decode returns the nibble value of c and true if c is a valid hex digit,
// or (0, false) otherwise.
func Decode(c byte) (nibble byte, ok bool) {
	v := table[c]
	if v < 0 {
		return 0, false
	}

	return byte(v), true
}

// DecodePair decodes a two-character hex sequence (hi, lo) into a byte.
func DecodePair(hi, lo byte) (b byte, ok bool) {
	h, ok := Decode(hi)
	if !ok {
		return 0, false
	}

	l, ok := Decode(lo)
	if !ok {
		return 0, false
	}

	return h<<4 | l, true
}
