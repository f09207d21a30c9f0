package ovr

import "fmt"

// Kind classifies a terminal parsing error. All errors returned by the
// iterator or a part's body stream are terminal: once returned, the
// producing iterator must not be advanced further.
type Kind uint8

const (
	_ Kind = iota
	// KindInvalidContentType means the request's Content-Type header is
	// missing, or isn't a multipart/* media type.
	KindInvalidContentType
	// KindInvalidBoundary means the boundary parameter is missing, empty,
	// or longer than the 70 characters RFC 2046 5.1.1 allows.
	KindInvalidBoundary
	// KindNoRequestBody means the source was exhausted without ever
	// producing a single byte.
	KindNoRequestBody
	// KindMemoryLimit means the ring buffer would have to grow past
	// ParserConfig.MemoryCeiling to hold pending data, or that a part body
	// drained by PartStream.Bytes / Text exceeded ParserConfig.MaxPartBytes.
	KindMemoryLimit
	// KindPayloadLimit means the cumulative bytes read from the source
	// exceeded ParserConfig.PayloadCeiling.
	KindPayloadLimit
	// KindPartLimit means ParserConfig.MaxParts was reached.
	KindPartLimit
	// KindUnexpectedEOF means the source was exhausted mid-body, before
	// a boundary that was expected to appear ever did.
	KindUnexpectedEOF
	// KindInvalidHeader means a part's header block could not be located
	// (no CRLFCRLF terminator was found before EOF).
	KindInvalidHeader
	// KindClosed means the iterator (or a part's body) was advanced or
	// read after Close was called, or after a prior terminal error.
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidContentType:
		return "invalid content type"
	case KindInvalidBoundary:
		return "invalid boundary"
	case KindNoRequestBody:
		return "no request body"
	case KindMemoryLimit:
		return "memory limit exceeded"
	case KindPayloadLimit:
		return "payload limit exceeded"
	case KindPartLimit:
		return "part limit exceeded"
	case KindUnexpectedEOF:
		return "unexpected eof"
	case KindInvalidHeader:
		return "invalid header"
	case KindClosed:
		return "closed"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every operation in this package.
// Use errors.Is against the Err... sentinels, or a type assertion to
// inspect Kind directly.
type Error struct {
	Kind    Kind
	Message string
}

func newError(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

func (e Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an Error with the same Kind, so that
// errors.Is(err, ovr.ErrMemoryLimit) works regardless of Message.
func (e Error) Is(target error) bool {
	other, ok := target.(Error)
	if !ok {
		return false
	}

	return e.Kind == other.Kind
}

var (
	ErrInvalidContentType = newError(KindInvalidContentType, "missing or non-multipart content-type")
	ErrInvalidBoundary    = newError(KindInvalidBoundary, "missing, empty or malformed boundary token")
	ErrNoRequestBody      = newError(KindNoRequestBody, "request body is empty")
	ErrMemoryLimit        = newError(KindMemoryLimit, "buffer exceeded the configured memory ceiling")
	ErrPayloadLimit       = newError(KindPayloadLimit, "source exceeded the configured payload ceiling")
	ErrPartLimit          = newError(KindPartLimit, "maximum number of parts reached")
	ErrUnexpectedEOF      = newError(KindUnexpectedEOF, "source exhausted before a boundary was found")
	ErrInvalidHeader      = newError(KindInvalidHeader, "part header block is malformed or unterminated")
	ErrClosed             = newError(KindClosed, "iterator is closed")
)
