package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeStrings(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []byte
	}{
		{"single aligned needs full pad", []string{"abc"}, []byte{'a', 'b', 'c', 0, 4, 4, 4, 4}},
		{"single", []string{"ab"}, []byte{'a', 'b', 0, 4}},
		{"two", []string{"a", "bc"}, []byte{'a', 0, 'b', 'c', 0, 4, 4, 4}},
		{"empty string", []string{""}, []byte{0, 4, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := EncodeStrings(tt.in)
			require.Equal(t, tt.want, out)
			require.Equal(t, len(tt.want), StringsEncodedLen(tt.in))
			require.Zero(t, len(out)%4)
			require.Equal(t, byte(4), out[len(out)-1])
		})
	}

	require.Nil(t, EncodeStrings(nil))
	require.Zero(t, StringsEncodedLen(nil))
}

func TestDecodeStrings(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		cases := [][]string{
			{"hello"},
			{"run", "", "detector", "a b\tc"},
			{"", ""},
			{"exactly8"},
		}
		for _, in := range cases {
			require.Equal(t, in, DecodeStrings(EncodeStrings(in)))
		}
	})

	t.Run("legacy single string", func(t *testing.T) {
		data := []byte{'o', 'l', 'd', 0, 'x', 'y', 0, 0}
		require.Equal(t, []string{"old"}, DecodeStrings(data))
	})

	t.Run("stops at control byte", func(t *testing.T) {
		data := []byte{'a', 0, 'b', 0x01, 0, 4, 4, 4}
		require.Equal(t, []string{"a"}, DecodeStrings(data))
	})

	t.Run("whitespace kept", func(t *testing.T) {
		data := EncodeStrings([]string{"line\nnext\r"})
		require.Equal(t, []string{"line\nnext\r"}, DecodeStrings(data))
	})

	t.Run("no terminator", func(t *testing.T) {
		require.Nil(t, DecodeStrings([]byte("abcd")))
	})

	t.Run("empty", func(t *testing.T) {
		require.Nil(t, DecodeStrings(nil))
		require.Nil(t, DecodeStrings([]byte{}))
	})
}

func TestNormalizeStrings(t *testing.T) {
	t.Run("legacy converted", func(t *testing.T) {
		raw, strs := NormalizeStrings([]byte{'a', 'b', 'c', 0, 0, 0, 0, 0})
		require.Equal(t, []string{"abc"}, strs)
		require.Equal(t, []byte{'a', 'b', 'c', 0, 4, 4, 4, 4}, raw)
		require.True(t, IsStringsFormat(raw))
	})

	t.Run("new format unchanged", func(t *testing.T) {
		in := EncodeStrings([]string{"x", "y"})
		raw, strs := NormalizeStrings(in)
		require.Equal(t, in, raw)
		require.Equal(t, []string{"x", "y"}, strs)
	})

	t.Run("undecodable kept", func(t *testing.T) {
		in := []byte{1, 2, 3, 4}
		raw, strs := NormalizeStrings(in)
		require.Equal(t, in, raw)
		require.Nil(t, strs)
	})
}
