package ovr

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"github.com/ovrjs/ovr/internal/params"
	"github.com/ovrjs/ovr/internal/scan"
	"github.com/ovrjs/ovr/kv"
)

// Part is the observable unit yielded by an Iterator: a header block plus
// a lazy, bounded byte stream. A Part is invalidated the moment the
// iterator advances past it; the consumer must fully read or drop Body
// before requesting the next Part. The parser enforces this by
// auto-draining any unread Body before advancing.
type Part struct {
	// Headers holds every header pair in the part's header block,
	// case-insensitively keyed.
	Headers *kv.Storage
	// Name is the content-disposition "name" parameter, or "" if the part
	// has no content-disposition header or no name parameter.
	Name string
	// Filename is the content-disposition "filename" parameter, or "" if
	// absent.
	Filename string
	// Type is the base value of content-type (before the first ';'), or
	// "" if the part has no content-type header.
	Type string
	// Body is this part's lazy byte stream.
	Body *PartStream
}

// JSON drains Body and decodes it as JSON into dst.
func (p *Part) JSON(dst any) error {
	data, err := p.Body.Bytes()
	if err != nil {
		return err
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, dst)
}

// PartStream is a Part's body: a lazy, finite byte stream, single-consumer
// and non-restartable. It implements io.Reader.
type PartStream struct {
	it      *Iterator
	pending []byte
	closed  bool
	err     error
}

// Read implements io.Reader. It pulls buffer prefixes from the iterator's
// scanner on demand, never reading past the part's closing boundary.
func (ps *PartStream) Read(p []byte) (n int, err error) {
	if ps.err != nil {
		return 0, ps.err
	}

	if ps.it.err != nil {
		ps.err = ErrClosed
		return 0, ErrClosed
	}

	for len(ps.pending) == 0 {
		if ps.closed {
			return 0, io.EOF
		}

		data, pullErr := ps.pull()
		if pullErr != nil && pullErr != io.EOF {
			ps.err = pullErr
			return 0, pullErr
		}

		if pullErr == io.EOF {
			ps.closed = true
		}

		ps.pending = data

		if len(ps.pending) == 0 && ps.closed {
			return 0, io.EOF
		}
	}

	n = copy(p, ps.pending)
	ps.pending = ps.pending[n:]

	return n, nil
}

// Bytes drains Body into a contiguous byte slice, failing with
// ErrMemoryLimit if ParserConfig.MaxPartBytes is exceeded.
func (ps *PartStream) Bytes() ([]byte, error) {
	var out []byte
	chunk := make([]byte, 32*1024)
	ceiling := ps.it.cfg.MaxPartBytes

	for {
		n, err := ps.Read(chunk)
		if n > 0 {
			if ceiling > 0 && len(out)+n > ceiling {
				ps.err = ErrMemoryLimit
				return nil, ErrMemoryLimit
			}

			out = append(out, chunk[:n]...)
		}

		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Text drains Body and returns it decoded as a (zero-copy) UTF-8 string.
func (ps *PartStream) Text() (string, error) {
	data, err := ps.Bytes()
	if err != nil {
		return "", err
	}

	return uf.B2S(data), nil
}

// drain discards any unread bytes up to the closing boundary. Called by
// the iterator before it advances to the next part.
func (ps *PartStream) drain() error {
	if ps.closed {
		return nil
	}

	buf := make([]byte, 32*1024)
	for {
		_, err := ps.Read(buf)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// pull searches for the closing boundary; on a full match, emits the
// prefix and closes; otherwise emits whatever prefix the scanner can
// prove safe (via a direct find or a partial-suffix probe), or blocks
// for more input.
func (ps *PartStream) pull() ([]byte, error) {
	it := ps.it

	for {
		if scan.Find(it.rb, it.closing) == scan.Found {
			return it.rb.ShiftTo(), io.EOF
		}

		if it.rb.Start() > 0 {
			return it.rb.ShiftTo(), nil
		}

		scan.Probe(it.rb, it.closing)
		if it.rb.Start() > 0 {
			return it.rb.ShiftTo(), nil
		}

		err := it.pullMore()
		if err == io.EOF {
			return nil, ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
	}
}

// parseParamName looks up a single parameter (e.g. "name" or "filename")
// from a header value's parameter list, tolerating the absence of the
// header entirely.
func parseParamName(rest, key string) (value string) {
	params.Walk(rest, func(k, v string) bool {
		if strcomp.EqualFold(k, key) {
			value = v
			return false
		}

		return true
	})

	return value
}
