package ovr

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartJSON(t *testing.T) {
	body := buildBody("Content-Disposition: form-data; name=\"payload\"\r\n\r\n{\"a\":1,\"b\":\"x\"}\r\n")
	it := mustNew(t, testBoundary, body, DefaultConfig(), newChunkedSource(body, 0))

	part, err := it.Next()
	require.NoError(t, err)

	var dst struct {
		A int    `json:"a"`
		B string `json:"b"`
	}
	require.NoError(t, part.JSON(&dst))
	require.Equal(t, 1, dst.A)
	require.Equal(t, "x", dst.B)
}

func TestPartReadSmallBuffer(t *testing.T) {
	body := buildBody("Content-Disposition: form-data; name=\"f\"\r\n\r\nhello world\r\n")
	it := mustNew(t, testBoundary, body, DefaultConfig(), newChunkedSource(body, 0))

	part, err := it.Next()
	require.NoError(t, err)

	var out []byte
	buf := make([]byte, 3)
	for {
		n, err := part.Body.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	require.Equal(t, "hello world", string(out))
}

func TestPartMissingContentDisposition(t *testing.T) {
	body := buildBody("Content-Type: text/plain\r\n\r\nno disposition here\r\n")
	it := mustNew(t, testBoundary, body, DefaultConfig(), newChunkedSource(body, 0))

	part, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, "", part.Name)
	require.Equal(t, "", part.Filename)
	require.Equal(t, "text/plain", part.Type)

	text, err := part.Body.Text()
	require.NoError(t, err)
	require.Equal(t, "no disposition here", text)
}

func TestPartBytesRespectsMaxPartBytes(t *testing.T) {
	body := buildBody("Content-Disposition: form-data; name=\"f\"\r\n\r\nhello world\r\n")

	cfg := DefaultConfig()
	cfg.MaxPartBytes = 4

	it := mustNew(t, testBoundary, body, cfg, newChunkedSource(body, 0))

	part, err := it.Next()
	require.NoError(t, err)

	_, err = part.Body.Bytes()
	require.ErrorIs(t, err, ErrMemoryLimit)
}
