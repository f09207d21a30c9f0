// Package needle precomputes the tables needed to run a Boyer-Moore-Horspool
// search for a fixed byte pattern: the multipart boundary or a header
// terminator.
package needle

// Needle is an immutable search pattern together with its precomputed
// bad-character tables.
type Needle struct {
	pattern []byte
	last    int
	skip    [256]int
	loc     [256][]int
}

// New builds a Needle from pattern. pattern must be non-empty; callers are
// expected to have already rejected an empty boundary (see ErrInvalidBoundary).
func New(pattern []byte) Needle {
	n := Needle{
		pattern: append([]byte(nil), pattern...),
		last:    len(pattern) - 1,
	}

	for i := range n.skip {
		n.skip[i] = len(pattern)
	}

	for i := 0; i < n.last; i++ {
		n.skip[pattern[i]] = n.last - i
	}

	for i, b := range pattern {
		n.loc[b] = append(n.loc[b], i)
	}

	return n
}

// Bytes returns the raw pattern.
func (n Needle) Bytes() []byte { return n.pattern }

// Len returns the pattern length.
func (n Needle) Len() int { return len(n.pattern) }

// Last returns len(pattern)-1, the index of the pattern's final byte.
func (n Needle) Last() int { return n.last }

// Skip returns the bad-character shift distance for byte b.
func (n Needle) Skip(b byte) int { return n.skip[b] }

// Loc returns, in ascending order, every position at which b occurs in the
// pattern. Used only by the partial-suffix probe.
func (n Needle) Loc(b byte) []int { return n.loc[b] }

// At returns the byte at position i in the pattern.
func (n Needle) At(i int) byte { return n.pattern[i] }
