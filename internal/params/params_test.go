package params

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, data string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	Walk(data, func(key, value string) bool {
		out[key] = value
		return true
	})

	return out
}

func TestWalkBasic(t *testing.T) {
	got := collect(t, `form-data; name="user"; filename="a.txt"`)
	require.Equal(t, "", got["form-data"])
	require.Equal(t, "user", got["name"])
	require.Equal(t, "a.txt", got["filename"])
}

func TestWalkPercentDecode(t *testing.T) {
	got := collect(t, `name="hello%20world"`)
	require.Equal(t, "hello world", got["name"])
}

func TestWalkPercentDecodeFallback(t *testing.T) {
	got := collect(t, `name="broken%2ztail"`)
	require.Equal(t, "broken%2ztail", got["name"])
}

func TestWalkMalformedPairRecovery(t *testing.T) {
	got := collect(t, "name=\x01bad; filename=\"ok.txt\"")
	_, hasName := got["name"]
	require.False(t, hasName)
	require.Equal(t, "ok.txt", got["filename"])
}

func TestWalkQuotedValueContainingSemicolon(t *testing.T) {
	got := collect(t, `form-data; name="f"; filename="a;b.txt"`)
	require.Equal(t, "f", got["name"])
	require.Equal(t, "a;b.txt", got["filename"])
}

func TestWalkStopsEarly(t *testing.T) {
	seen := 0
	Walk(`a=1; b=2; c=3`, func(key, value string) bool {
		seen++
		return key != "b"
	})
	require.Equal(t, 2, seen)
}
