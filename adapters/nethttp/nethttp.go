// Package nethttp adapts a standard library *http.Request into the
// ovr.Request contract, so the parser can be driven directly from a
// net/http handler without an intermediate framework.
package nethttp

import (
	"io"
	"net/http"

	"github.com/ovrjs/ovr"
)

// Wrap returns an ovr.Request backed by r. The body is read in fixed-size
// chunks as the parser pulls them; nothing is buffered up front.
func Wrap(r *http.Request) ovr.Request {
	return request{r: r}
}

type request struct {
	r *http.Request
}

func (rq request) Header(name string) (string, bool) {
	values, ok := rq.r.Header[http.CanonicalHeaderKey(name)]
	if !ok || len(values) == 0 {
		return "", false
	}

	return values[0], true
}

func (rq request) Body() ovr.Source {
	if rq.r.Body == nil {
		return nil
	}

	return &chunkSource{r: rq.r.Body, buf: make([]byte, chunkSize)}
}

const chunkSize = 64 * 1024

type chunkSource struct {
	r   io.ReadCloser
	buf []byte
}

func (s *chunkSource) Retrieve() ([]byte, error) {
	n, err := s.r.Read(s.buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, s.buf[:n])

		if err == io.EOF {
			return chunk, io.EOF
		}

		return chunk, err
	}

	if err == nil {
		err = io.EOF
	}

	return nil, err
}
