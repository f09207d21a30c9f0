package ovr

import (
	"strings"

	"github.com/indigo-web/utils/strcomp"

	"github.com/ovrjs/ovr/internal/params"
)

// maxBoundaryLen is RFC 2046 5.1.1's limit on the boundary token.
const maxBoundaryLen = 70

// parseContentType extracts the base media type and, if present, the
// boundary parameter from a Content-Type header value. It fails with
// ErrInvalidContentType if the media type isn't multipart/*, and with
// ErrInvalidBoundary if the boundary is missing, empty or too long.
func parseContentType(raw string) (mime, boundary string, err error) {
	mime, rest := cutHeader(raw)
	if !strings.HasPrefix(strings.ToLower(mime), "multipart/") {
		return "", "", ErrInvalidContentType
	}

	params.Walk(rest, func(key, value string) bool {
		if strcomp.EqualFold(key, "boundary") {
			boundary = value
			return false
		}

		return true
	})

	if len(boundary) == 0 || len(boundary) > maxBoundaryLen {
		return "", "", ErrInvalidBoundary
	}

	return mime, boundary, nil
}

// cutHeader splits a header value on its first ';', trimming surrounding
// whitespace from both halves.
func cutHeader(header string) (value, rest string) {
	semi := strings.IndexByte(header, ';')
	if semi == -1 {
		return strings.TrimSpace(header), ""
	}

	return strings.TrimSpace(header[:semi]), strings.TrimSpace(header[semi+1:])
}
