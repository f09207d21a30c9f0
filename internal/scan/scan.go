// Package scan implements the Boyer-Moore-Horspool full-match search and
// the partial-suffix probe used when streaming a part's body across chunk
// boundaries.
package scan

import (
	"github.com/ovrjs/ovr/internal/needle"
	"github.com/ovrjs/ovr/internal/ring"
)

// Result is the outcome of Find.
type Result uint8

const (
	// Found means a full match was located; the buffer's start/end mark it.
	Found Result = iota
	// NotFound means no full match exists in the live window; the buffer's
	// start/end mark the earliest byte at which a straddling match could
	// still begin (i.e. the safe-to-emit prefix boundary).
	NotFound
)

// Find runs Boyer-Moore-Horspool for n over rb's live region [0, valid),
// starting the cursor at rb.Start()+n.Last(). On a match it calls
// rb.SetMatch(start, end) with the match's bounds and returns Found. On
// failure it calls rb.SetMatch with the earliest possible straddling-match
// start and returns NotFound.
func Find(rb *ring.RingBuffer, n needle.Needle) Result {
	valid := rb.Valid()
	last := n.Last()
	i := rb.Start() + last

	for i < valid {
		mismatch := -1
		for k := 0; k <= last; k++ {
			if rb.At(i-k) != n.At(last-k) {
				mismatch = k
				break
			}
		}

		if mismatch == -1 {
			start, end := i-last, i+1
			rb.SetMatch(start, end)
			return Found
		}

		i += n.Skip(rb.At(i))
	}

	safe := valid - (n.Len() - 1)
	if safe < 0 {
		safe = 0
	}

	rb.SetMatch(safe, safe)
	return NotFound
}

// Probe implements the partial-suffix check used by the part-body pump
// after a NotFound Find result left nothing safely shiftable (rb.Start()
// == 0). It inspects the last byte of the live window and tests
// decreasing-length suffixes of the buffer against prefixes of n, to
// determine how much of the buffer might be the start of a straddling
// match and therefore must be withheld from the caller.
//
// It never mutates the buffer's contents; it only records indices via
// rb.SetMatch. If no partial suffix matches, the whole live region is
// declared safe (rb.SetMatch(valid, valid)).
func Probe(rb *ring.RingBuffer, n needle.Needle) {
	valid := rb.Valid()
	if valid == 0 {
		rb.SetMatch(0, 0)
		return
	}

	last := rb.At(valid - 1)
	positions := n.Loc(last)

	for i := len(positions) - 1; i >= 0; i-- {
		p := positions[i]
		suffixLen := p + 1
		if suffixLen > valid {
			continue
		}

		if suffixMatches(rb, n, valid, p) {
			start := valid - suffixLen
			rb.SetMatch(start, start)
			return
		}
	}

	rb.SetMatch(valid, valid)
}

// suffixMatches reports whether buffer[valid-1-p .. valid) equals
// needle[0..=p].
func suffixMatches(rb *ring.RingBuffer, n needle.Needle, valid, p int) bool {
	base := valid - 1 - p
	for k := 0; k <= p; k++ {
		if rb.At(base+k) != n.At(k) {
			return false
		}
	}

	return true
}
