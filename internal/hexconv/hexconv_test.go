package hexconv

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDecode(t *testing.T) {
	for c := byte('0'); c <= '9'; c++ {
		v, ok := Decode(c)
		require.True(t, ok)
		require.Equal(t, c-'0', v)
	}

	for c := byte('a'); c <= 'f'; c++ {
		v, ok := Decode(c)
		require.True(t, ok)
		require.Equal(t, c-'a'+10, v)
	}

	for c := byte('A'); c <= 'F'; c++ {
		v, ok := Decode(c)
		require.True(t, ok)
		require.Equal(t, c-'A'+10, v)
	}

	for _, c := range []byte{'g', 'G', ' ', ':', '@', 0, 255} {
		_, ok := Decode(c)
		require.False(t, ok)
	}
}

func TestDecodePair(t *testing.T) {
	b, ok := DecodePair('4', 'a')
	require.True(t, ok)
	require.Equal(t, byte(0x4a), b)

	_, ok = DecodePair('z', 'a')
	require.False(t, ok)
}

func BenchmarkDecode(b *testing.B) {
	str := "0123456789abcdef"
	b.SetBytes(int64(len(str)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var result uint64
		for j := 0; j < len(str); j++ {
			v, _ := Decode(str[j])
			result = (result << 4) | uint64(v)
		}
	}
}
