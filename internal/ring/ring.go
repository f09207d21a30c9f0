// Package ring implements the fixed-envelope growable byte buffer the
// scanner searches and the part stream drains from. It is built on top of
// github.com/indigo-web/utils/buffer.
package ring

import (
	"github.com/indigo-web/utils/buffer"
)

// RingBuffer is a contiguous byte region with three indices: valid (the
// count of bytes currently holding live data at [0, valid)), and start/end,
// used by the scanner to communicate a match's boundaries back to callers.
//
// Despite the name it never wraps around; "ring" refers to the compaction
// cycle of filling, matching, and shifting consumed bytes back to zero.
type RingBuffer struct {
	buf        buffer.Buffer[byte]
	valid      int
	start, end int
	ceiling    int
}

// New creates a RingBuffer with the given initial capacity and hard ceiling.
func New(initial, ceiling int) *RingBuffer {
	return &RingBuffer{
		buf:     *buffer.NewBuffer[byte](initial, ceiling),
		ceiling: ceiling,
	}
}

// Valid returns the count of live bytes.
func (r *RingBuffer) Valid() int { return r.valid }

// Start returns the scanner-recorded start index of the last match (or the
// earliest possible straddling-match start, on a NotFound result).
func (r *RingBuffer) Start() int { return r.start }

// End returns the scanner-recorded end index of the last match.
func (r *RingBuffer) End() int { return r.end }

// Ceiling returns the configured hard capacity ceiling.
func (r *RingBuffer) Ceiling() int { return r.ceiling }

// Bytes exposes the live region [0, valid) for reading. Callers must not
// retain the slice past the next call to Append or ShiftTo.
func (r *RingBuffer) Bytes() []byte {
	return r.buf.Preview()[:r.valid]
}

// At returns the byte at index i within the live region.
func (r *RingBuffer) At(i int) byte {
	return r.buf.Preview()[i]
}

// SetMatch records the match boundaries found by the scanner. Called by
// scan.Scanner, exported for that package to use.
func (r *RingBuffer) SetMatch(start, end int) {
	r.start, r.end = start, end
}

// Append appends chunk at the end of the live region, growing the
// underlying buffer as needed. It fails with ok=false once the required
// capacity would exceed the configured ceiling.
func (r *RingBuffer) Append(chunk []byte) (ok bool) {
	if !r.buf.Append(chunk) {
		return false
	}

	r.valid += len(chunk)
	return true
}

// ShiftTo compacts the buffer using the previously recorded match end: the
// bytes [0, start) are returned to the caller (a copy, safe to retain),
// [end, valid) is copied down to [0, valid-end), and start/end reset to 0.
//
// This is the streaming pump's single "consume up to here" primitive: the
// returned slice is the safe-to-emit prefix and the retained tail is what
// remains unscanned.
func (r *RingBuffer) ShiftTo() []byte {
	prefix := make([]byte, r.start)
	copy(prefix, r.buf.Preview()[:r.start])

	tail := r.buf.Preview()[r.end:r.valid]
	r.buf.Clear()
	r.buf.Append(tail)
	r.valid = len(tail)
	r.start, r.end = 0, 0

	return prefix
}

// Reset clears the buffer entirely, discarding all live bytes. Used when
// releasing a parser (Close) so a reused RingBuffer starts clean.
func (r *RingBuffer) Reset() {
	r.buf.Clear()
	r.valid, r.start, r.end = 0, 0, 0
}
