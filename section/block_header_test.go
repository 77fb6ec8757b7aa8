package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

func TestBlockHeader_RoundTrip(t *testing.T) {
	h := NewBlockHeader(42)
	h.Size = 120
	h.EventCount = 5
	h.Dictionary = true
	h.EventType = format.EventPhysics
	h.Compression = format.CompressionLZ4
	h.PayloadPad = 3
	h.Reserved2 = 4096

	for name, engine := range map[string]endian.EndianEngine{"big": bigEngine, "little": littleEngine} {
		t.Run(name, func(t *testing.T) {
			raw := h.Bytes(engine)
			require.Len(t, raw, BlockHeaderSize)

			parsed, order, err := ParseBlockHeader(raw)
			require.NoError(t, err)
			require.True(t, endian.Same(engine, order))
			require.Equal(t, h, parsed)
			require.Equal(t, uint32(112), parsed.PayloadWords())
			require.Equal(t, 4096, parsed.UncompressedSize())
		})
	}
}

func TestBlockHeader_Layout(t *testing.T) {
	h := NewBlockHeader(1)
	h.Last = true

	raw := h.Bytes(bigEngine)
	require.Equal(t, []byte{0, 0, 0, 8}, raw[0:4])
	require.Equal(t, []byte{0, 0, 0, 1}, raw[4:8])
	require.Equal(t, []byte{0, 0, 0, 8}, raw[8:12])
	require.Equal(t, []byte{0, 0, 0x02, 0x04}, raw[20:24])
	require.Equal(t, []byte{0xc0, 0xda, 0x01, 0x00}, raw[28:32])

	require.Equal(t, uint32(0x204), h.VersionWord())
	require.Zero(t, h.PayloadWords())
	require.Zero(t, h.UncompressedSize())
}

func TestDetectByteOrder(t *testing.T) {
	raw := NewBlockHeader(1).Bytes(littleEngine)
	order, err := DetectByteOrder(raw)
	require.NoError(t, err)
	require.False(t, endian.IsBigEndian(order))

	raw[31] = 0xff
	_, err = DetectByteOrder(raw)
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)

	_, err = DetectByteOrder(raw[:16])
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestParseBlockHeader_Errors(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		h := NewBlockHeader(1)
		h.Version = 2
		_, _, err := ParseBlockHeader(h.Bytes(bigEngine))
		require.ErrorIs(t, err, errs.ErrInvalidVersion)
	})

	t.Run("size smaller than header", func(t *testing.T) {
		h := NewBlockHeader(1)
		h.Size = 4
		_, _, err := ParseBlockHeader(h.Bytes(bigEngine))
		require.ErrorIs(t, err, errs.ErrInvalidLength)
	})

	t.Run("size above block limit", func(t *testing.T) {
		h := NewBlockHeader(1)
		h.Size = 0x7fffffff
		_, _, err := ParseBlockHeader(h.Bytes(littleEngine))
		require.ErrorIs(t, err, errs.ErrInvalidLength)
		require.ErrorIs(t, err, errs.ErrFormat)

		h.Size = MaxBlockSizeMax
		_, _, err = ParseBlockHeader(h.Bytes(littleEngine))
		require.NoError(t, err)
	})

	t.Run("uncompressed size above block limit", func(t *testing.T) {
		h := NewBlockHeader(1)
		h.Size = BlockHeaderWords + 4
		h.Compression = format.CompressionLZ4
		h.Reserved2 = 0xffffffff
		_, _, err := ParseBlockHeader(h.Bytes(bigEngine))
		require.ErrorIs(t, err, errs.ErrInvalidLength)
	})
}
