// Package rawchunked decodes an HTTP/1.1 chunked-transfer-encoded body
// into the plain byte chunks ovr.Iterator expects, using
// github.com/indigo-web/chunkedbody.
//
// Transport-level decoding is deliberately kept out of the core parser,
// so this lives in an adapter sitting in front of whatever owns the
// request's raw byte-chunk source.
package rawchunked

import (
	"io"

	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/utils/unreader"
)

// RawSource is the minimal interface a raw transport reader (a buffered
// TCP connection, typically) must satisfy: Read returns the next
// available slice of unparsed bytes.
type RawSource interface {
	Read() ([]byte, error)
}

// Source decodes chunked-transfer-encoding framing off of raw, exposing
// the decoded payload as an ovr.Source.
type Source struct {
	raw        RawSource
	parser     *chunkedbody.Parser
	unreader   unreader.Unreader
	hasTrailer bool
}

// New wraps raw with a chunked-transfer-encoding decoder. hasTrailer
// indicates whether the request declared a trailer section (via the
// Trailer header) that the parser must also consume.
func New(raw RawSource, hasTrailer bool) *Source {
	return &Source{
		raw:        raw,
		parser:     chunkedbody.NewParser(chunkedbody.DefaultSettings()),
		hasTrailer: hasTrailer,
	}
}

// Retrieve implements ovr.Source.
func (s *Source) Retrieve() ([]byte, error) {
	data, err := s.unreader.PendingOr(s.raw.Read)
	if err != nil {
		return nil, err
	}

	chunk, extra, err := s.parser.Parse(data, s.hasTrailer)
	switch err {
	case nil, io.EOF:
	default:
		return nil, err
	}

	s.unreader.Unread(extra)

	return chunk, err
}
