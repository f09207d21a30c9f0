package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendAndBytes(t *testing.T) {
	rb := New(16, 1024)

	require.True(t, rb.Append([]byte("hello")))
	require.Equal(t, 5, rb.Valid())
	require.Equal(t, "hello", string(rb.Bytes()))

	require.True(t, rb.Append([]byte(" world")))
	require.Equal(t, "hello world", string(rb.Bytes()))
}

func TestMemoryCeiling(t *testing.T) {
	rb := New(4, 8)

	require.True(t, rb.Append([]byte("1234")))
	require.False(t, rb.Append([]byte("56789")))
}

func TestShiftTo(t *testing.T) {
	rb := New(16, 1024)
	rb.Append([]byte("preamble--rest"))

	rb.SetMatch(8, 10)
	prefix := rb.ShiftTo()

	require.Equal(t, "preamble", string(prefix))
	require.Equal(t, "rest", string(rb.Bytes()))
	require.Equal(t, 0, rb.Start())
	require.Equal(t, 0, rb.End())
}

func TestReset(t *testing.T) {
	rb := New(16, 1024)
	rb.Append([]byte("data"))
	rb.Reset()

	require.Equal(t, 0, rb.Valid())
	require.Equal(t, "", string(rb.Bytes()))
}
