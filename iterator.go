// Package ovr implements a streaming multipart/form-data body parser: it
// consumes an arbitrarily large HTTP request body as a sequence of opaque
// byte chunks and yields, one at a time, the logical parts contained
// within it, each exposed as its own lazy, bounded byte stream.
package ovr

import (
	"io"
	"strings"

	goiter "github.com/indigo-web/iter"
	"github.com/indigo-web/utils/pool"

	"github.com/ovrjs/ovr/internal/needle"
	"github.com/ovrjs/ovr/internal/ring"
	"github.com/ovrjs/ovr/internal/scan"
	"github.com/ovrjs/ovr/kv"
)

// find reports whether n has a full match in rb's live region, recording
// the match bounds on rb via scan.Find's contract.
func find(rb *ring.RingBuffer, n needle.Needle) bool {
	return scan.Find(rb, n) == scan.Found
}

// consumeFront discards the first n bytes of rb's live region without
// exposing them to any caller.
func consumeFront(rb *ring.RingBuffer, n int) {
	rb.SetMatch(n, n)
	rb.ShiftTo()
}

// State reports which stage of the parsing state machine an Iterator
// currently occupies. It's exposed for observability (tests, metrics)
// and isn't required to drive normal consumption.
type State uint8

const (
	StateStart State = iota
	StateHeadersPending
	StatePartActive
	StateEpilogueDrain
	StateDone
)

// Iterator drives the parser's state machine: preamble skip, header scan,
// part emission, auto-drain, terminator check, epilogue drain. It is
// single-threaded, single-pass and not restartable. At most one Part is
// live at a time; requesting the next Part auto-drains the current one.
type Iterator struct {
	cfg ParserConfig
	src Source
	rb  *ring.RingBuffer

	opening    needle.Needle
	closing    needle.Needle
	headerTerm needle.Needle

	headerPool pool.ObjectPool[*kv.Storage]

	state           State
	sourceExhausted bool
	everRead        bool
	totalRead       int
	partsYielded    int

	cur *Part
	err error
}

// New constructs an Iterator from req. It fails immediately with
// ErrInvalidContentType if the Content-Type header is missing or isn't a
// multipart/* media type, and with ErrInvalidBoundary if the boundary
// parameter is missing, empty, or exceeds RFC 2046's 70-character limit.
func New(req Request, cfg ParserConfig) (*Iterator, error) {
	cfg = cfg.normalize()

	ct, ok := req.Header("Content-Type")
	if !ok || ct == "" {
		return nil, ErrInvalidContentType
	}

	_, boundary, err := parseContentType(ct)
	if err != nil {
		return nil, err
	}

	src := req.Body()
	if src == nil {
		return nil, ErrNoRequestBody
	}

	return &Iterator{
		cfg:        cfg,
		src:        src,
		rb:         ring.New(cfg.InitialBufferSize, cfg.MemoryCeiling),
		opening:    needle.New([]byte("--" + boundary + "\r\n")),
		closing:    needle.New([]byte("\r\n--" + boundary)),
		headerTerm: needle.New([]byte("\r\n\r\n")),
		headerPool: pool.NewObjectPool[*kv.Storage](cfg.HeaderPoolSize),
		state:      StateStart,
	}, nil
}

// State returns the iterator's current position in the state machine.
func (it *Iterator) State() State { return it.state }

// Next advances to and returns the next Part. It returns (nil, io.EOF)
// once the closing boundary's terminal marker has been consumed and the
// epilogue drained. Any other non-nil error is terminal: the source is
// released and the iterator must not be advanced again.
func (it *Iterator) Next() (*Part, error) {
	if it.err != nil {
		return nil, ErrClosed
	}

	if it.state == StateDone {
		return nil, io.EOF
	}

	if it.cur != nil {
		if err := it.cur.Body.drain(); err != nil {
			return nil, it.fail(err)
		}

		it.headerPool.Release(it.cur.Headers.Clear())
		it.cur = nil

		cont, err := it.afterPart()
		if err != nil {
			return nil, it.fail(err)
		}
		if !cont {
			return nil, io.EOF
		}
	} else {
		if _, err := it.findFull(it.opening, it.mapEOF); err != nil {
			return nil, it.fail(err)
		}

		it.rb.ShiftTo()
		it.state = StateHeadersPending
	}

	return it.emitPart()
}

// All exposes the iteration contract as a Go 1.23 range-over-func
// sequence, mirroring kv.Storage.Iter's use of iter.Seq2.
func (it *Iterator) All() func(yield func(*Part, error) bool) {
	return func(yield func(*Part, error) bool) {
		for {
			part, err := it.Next()
			if err == io.EOF {
				return
			}

			if !yield(part, err) || err != nil {
				return
			}
		}
	}
}

// MaterializedPart is an eagerly drained Part, produced by CollectAll.
type MaterializedPart struct {
	Headers  *kv.Storage
	Name     string
	Filename string
	Type     string
	Data     []byte
}

// CollectAll eagerly drains every part's body and returns them as an
// eager github.com/indigo-web/iter.Iterator.
func (it *Iterator) CollectAll() (goiter.Iterator[MaterializedPart], error) {
	var out []MaterializedPart

	for {
		part, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		data, err := part.Body.Bytes()
		if err != nil {
			return nil, err
		}

		out = append(out, MaterializedPart{
			Headers:  part.Headers.Clone(),
			Name:     part.Name,
			Filename: part.Filename,
			Type:     part.Type,
			Data:     data,
		})
	}

	return goiter.Slice(out), nil
}

// Close releases the source and invalidates the iterator. Advancing a
// closed iterator returns ErrClosed. Close is idempotent.
func (it *Iterator) Close() error {
	if it.err == nil {
		it.err = ErrClosed
	}

	it.state = StateDone
	it.cur = nil
	it.rb.Reset()

	return nil
}

func (it *Iterator) fail(err error) error {
	it.err = err
	it.state = StateDone
	it.rb.Reset()

	return err
}

// mapEOF distinguishes an altogether absent body from one that ran dry
// mid-frame: if the source never produced a single byte, the body is
// simply absent; otherwise the source was exhausted before an expected
// boundary appeared.
func (it *Iterator) mapEOF() error {
	if !it.everRead {
		return ErrNoRequestBody
	}

	return ErrUnexpectedEOF
}

// retrieve pulls the next raw chunk from the source, memoizing exhaustion
// so a source that already reported io.EOF is never invoked again, while
// still honoring a final chunk returned alongside io.EOF on the call that
// discovered exhaustion.
func (it *Iterator) retrieve() ([]byte, error) {
	if it.sourceExhausted {
		return nil, io.EOF
	}

	chunk, err := it.src.Retrieve()
	if err == io.EOF {
		it.sourceExhausted = true
	}

	if len(chunk) > 0 {
		it.everRead = true
	}

	return chunk, err
}

// pullMore retrieves and appends the next chunk to the ring buffer,
// enforcing payload_ceiling and memory_ceiling. It returns io.EOF once the
// source is exhausted and no further bytes remain to append.
func (it *Iterator) pullMore() error {
	chunk, err := it.retrieve()

	if len(chunk) > 0 {
		it.totalRead += len(chunk)
		if it.totalRead > it.cfg.PayloadCeiling {
			return ErrPayloadLimit
		}

		if !it.rb.Append(chunk) {
			return ErrMemoryLimit
		}
	}

	if err == io.EOF {
		if len(chunk) > 0 {
			// the final chunk was appended; the next call reports io.EOF.
			return nil
		}

		return io.EOF
	}

	return err
}

// findFull repeatedly pulls input until n has a full match in the live
// buffer, or the source is exhausted, or a resource ceiling trips. onEOF
// is consulted to translate exhaustion into the error appropriate for
// whatever n represents at the call site.
func (it *Iterator) findFull(n needle.Needle, onEOF func() error) (bool, error) {
	for {
		if find(it.rb, n) {
			return true, nil
		}

		err := it.pullMore()
		if err == io.EOF {
			return false, onEOF()
		}
		if err != nil {
			return false, err
		}
	}
}

// afterPart peeks the two bytes following a just-drained part's closing
// boundary. "--" marks the terminal boundary (epilogue follows); anything
// else marks another part (its header block follows immediately after the
// CRLF those two bytes begin).
func (it *Iterator) afterPart() (cont bool, err error) {
	for it.rb.Valid() < 2 {
		e := it.pullMore()
		if e == io.EOF {
			return false, it.mapEOF()
		}
		if e != nil {
			return false, e
		}
	}

	terminal := it.rb.At(0) == '-' && it.rb.At(1) == '-'
	consumeFront(it.rb, 2)

	if terminal {
		it.state = StateEpilogueDrain
		if err := it.drainEpilogue(); err != nil {
			return false, err
		}

		it.state = StateDone
		return false, nil
	}

	it.state = StateHeadersPending
	return true, nil
}

// drainEpilogue discards every remaining source byte, still counting them
// against payload_ceiling, until the source is exhausted.
func (it *Iterator) drainEpilogue() error {
	for {
		consumeFront(it.rb, it.rb.Valid())

		err := it.pullMore()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// emitPart scans for the next header block, parses it, and yields a Part
// whose Body is primed to stream up to the next closing boundary.
func (it *Iterator) emitPart() (*Part, error) {
	if it.cfg.MaxParts > 0 && it.partsYielded >= it.cfg.MaxParts {
		return nil, it.fail(ErrPartLimit)
	}

	if _, err := it.findFull(it.headerTerm, func() error { return ErrInvalidHeader }); err != nil {
		return nil, it.fail(err)
	}

	block := it.rb.ShiftTo()
	it.state = StatePartActive

	hdrs := it.acquireHeaders()
	name, filename, typ := parseHeaders(block, hdrs)

	part := &Part{
		Headers:  hdrs,
		Name:     name,
		Filename: filename,
		Type:     typ,
		Body:     &PartStream{it: it},
	}

	it.cur = part
	it.partsYielded++

	return part, nil
}

func (it *Iterator) acquireHeaders() *kv.Storage {
	if s := it.headerPool.Acquire(); s != nil {
		return s
	}

	return kv.New()
}

// parseHeaders parses a raw header block: split on newlines (CRLF or bare
// LF are both tolerated at the line level, even though the block
// terminator itself is always strict CRLFCRLF), find the first ':' on
// each non-empty line, trim whitespace, and append to hdrs. A line
// lacking ':' is silently ignored.
func parseHeaders(block []byte, hdrs *kv.Storage) (name, filename, typ string) {
	text := string(block)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon == -1 {
			continue
		}

		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		hdrs.Add(key, value)
	}

	if cd, ok := hdrs.Get("content-disposition"); ok {
		_, rest := cutHeader(cd)
		name = parseParamName(rest, "name")
		filename = parseParamName(rest, "filename")
	}

	if ct, ok := hdrs.Get("content-type"); ok {
		typ, _ = cutHeader(ct)
	}

	return name, filename, typ
}
