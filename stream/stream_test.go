package stream

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/evio/dictionary"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/section"
	"github.com/arloliu/evio/structure"
)

// newEvent builds a bank holding one INT32 bank; its size is 4+len(vals) words.
func newEvent(t *testing.T, tag uint16, vals ...int32) *structure.Structure {
	t.Helper()

	ev := structure.NewBank(tag, format.Bank, 1)
	leaf := structure.NewBank(tag+1, format.Int32, 2)
	require.NoError(t, leaf.SetInt32s(vals))
	require.NoError(t, ev.AddChild(leaf))

	return ev
}

func seq(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i * 3)
	}

	return out
}

func readAll(t *testing.T, r *Reader) [][]int32 {
	t.Helper()

	var out [][]int32
	for {
		ev, err := r.NextEvent()
		if err != nil {
			require.ErrorIs(t, err, errs.ErrNoMoreEvents)
			return out
		}

		vals, err := ev.Child(0).Int32s()
		require.NoError(t, err)
		out = append(out, vals)
	}
}

func blockHeaders(t *testing.T, data []byte) []section.BlockHeader {
	t.Helper()

	var out []section.BlockHeader
	for len(data) > 0 {
		h, _, err := section.ParseBlockHeader(data)
		require.NoError(t, err)
		out = append(out, h)
		data = data[4*h.Size:]
	}

	return out
}

func TestWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf)
	require.NoError(t, err)

	want := [][]int32{{1, 2, 3}, {4}, seq(20)}
	for i, vals := range want {
		require.NoError(t, w.WriteEvent(newEvent(t, uint16(10*i+1), vals...)))
	}
	require.NoError(t, w.Close())
	require.Equal(t, 3, w.EventCount())
	require.Equal(t, 2, w.BlockCount())
	require.Equal(t, int64(buf.Len()), w.BytesWritten())

	headers := blockHeaders(t, buf.Bytes())
	require.Len(t, headers, 2)
	require.Equal(t, uint32(1), headers[0].Number)
	require.Equal(t, uint32(3), headers[0].EventCount)
	require.False(t, headers[0].Last)
	require.Equal(t, uint32(2), headers[1].Number)
	require.True(t, headers[1].Last)
	require.Equal(t, uint32(section.BlockHeaderWords), headers[1].Size)

	r, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, endian.IsBigEndian(r.ByteOrder()))
	require.Nil(t, r.Dictionary())

	require.Equal(t, want, readAll(t, r))
	require.Equal(t, 3, r.EventCount())
	require.Equal(t, 2, r.BlockCount())

	_, err = r.NextEvent()
	require.ErrorIs(t, err, errs.ErrNoMoreEvents)
	require.NoError(t, r.Close())

	_, err = r.NextEvent()
	require.ErrorIs(t, err, errs.ErrClosed)
}

func TestWriter_BlockLimits(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, WithBlockCountMax(2))
		require.NoError(t, err)

		for i := range 5 {
			require.NoError(t, w.WriteEvent(newEvent(t, uint16(i+1), int32(i))))
		}
		require.NoError(t, w.Close())

		headers := blockHeaders(t, buf.Bytes())
		require.Len(t, headers, 4)
		require.Equal(t, []uint32{2, 2, 1, 0}, []uint32{
			headers[0].EventCount, headers[1].EventCount, headers[2].EventCount, headers[3].EventCount,
		})
	})

	t.Run("size", func(t *testing.T) {
		var buf bytes.Buffer
		// Clamped up to the 256-word minimum.
		w, err := NewWriter(&buf, WithBlockSizeMax(10))
		require.NoError(t, err)

		for i := range 5 {
			require.NoError(t, w.WriteEvent(newEvent(t, uint16(i+1), seq(96)...)))
		}
		require.NoError(t, w.Close())

		headers := blockHeaders(t, buf.Bytes())
		require.Len(t, headers, 4)
		require.Equal(t, uint32(2), headers[0].EventCount)
		require.Equal(t, uint32(8+200), headers[0].Size)
		require.Equal(t, uint32(2), headers[1].EventCount)
		require.Equal(t, uint32(1), headers[2].EventCount)
	})

	t.Run("oversized event", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, WithBlockSizeMax(256))
		require.NoError(t, err)

		require.NoError(t, w.WriteEvent(newEvent(t, 1, 1)))
		require.NoError(t, w.WriteEvent(newEvent(t, 2, seq(400)...)))
		require.NoError(t, w.WriteEvent(newEvent(t, 3, 3)))
		require.NoError(t, w.Close())

		headers := blockHeaders(t, buf.Bytes())
		require.Len(t, headers, 4)
		require.Equal(t, uint32(8+404), headers[1].Size)
		require.Equal(t, uint32(1), headers[1].EventCount)

		r, err := NewReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		got := readAll(t, r)
		require.Len(t, got, 3)
		require.Equal(t, seq(400), got[1])
	})
}

func TestWriter_StartingBlockNumber(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WithStartingBlockNumber(7), WithEventType(format.EventPhysics))
	require.NoError(t, err)
	require.NoError(t, w.WriteEvent(newEvent(t, 1, 1)))
	require.NoError(t, w.Close())

	headers := blockHeaders(t, buf.Bytes())
	require.Equal(t, uint32(7), headers[0].Number)
	require.Equal(t, uint32(8), headers[1].Number)
	require.Equal(t, format.EventPhysics, headers[0].EventType)
}

func TestWriter_Dictionary(t *testing.T) {
	dict, err := dictionary.New(
		dictionary.Entry{Name: "Trigger", Tag: 1, Num: 1},
		dictionary.Entry{Name: "Trigger.ADC", Tag: 2, Num: 2},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, WithDictionary(dict), WithByteOrder(endian.GetLittleEndianEngine()))
	require.NoError(t, err)
	require.NoError(t, w.WriteEvent(newEvent(t, 1, 5, 6)))
	require.NoError(t, w.Close())
	require.Equal(t, 1, w.EventCount())

	headers := blockHeaders(t, buf.Bytes())
	require.True(t, headers[0].Dictionary)
	require.Equal(t, uint32(2), headers[0].EventCount)
	require.False(t, headers[1].Dictionary)

	r, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.False(t, endian.IsBigEndian(r.ByteOrder()))
	require.NotNil(t, r.Dictionary())
	require.Contains(t, r.DictionaryXML(), "Trigger.ADC")

	tag, num, err := r.Dictionary().TagNum("Trigger.ADC")
	require.NoError(t, err)
	require.Equal(t, uint16(2), tag)
	require.Equal(t, uint8(2), num)

	require.Equal(t, [][]int32{{5, 6}}, readAll(t, r))
	require.Equal(t, 1, r.EventCount())

	t.Run("raw xml only", func(t *testing.T) {
		r, err := NewReader(bytes.NewReader(buf.Bytes()), WithoutDictionaryParsing())
		require.NoError(t, err)
		require.Nil(t, r.Dictionary())
		require.NotEmpty(t, r.DictionaryXML())
	})

	t.Run("dictionary only", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, WithDictionary(dict))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		r, err := NewReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.NotNil(t, r.Dictionary())
		require.Empty(t, readAll(t, r))
	})

	_, err = NewWriter(&buf, WithDictionary(nil))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestWriter_Compression(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			for _, engine := range []endian.EndianEngine{endian.GetBigEndianEngine(), endian.GetLittleEndianEngine()} {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, WithCompression(ct), WithByteOrder(engine), WithBlockCountMax(3))
				require.NoError(t, err)

				var want [][]int32
				for i := range 7 {
					vals := seq(50 + i)
					want = append(want, vals)
					require.NoError(t, w.WriteEvent(newEvent(t, uint16(i+1), vals...)))
				}
				require.NoError(t, w.Close())

				headers := blockHeaders(t, buf.Bytes())
				require.Len(t, headers, 4)
				require.Equal(t, ct, headers[0].Compression)
				require.Equal(t, format.CompressionNone, headers[3].Compression)
				require.NotZero(t, headers[0].Reserved2)

				r, err := NewReader(bytes.NewReader(buf.Bytes()))
				require.NoError(t, err)
				require.Equal(t, want, readAll(t, r))
			}
		})
	}

	_, err := NewWriter(&bytes.Buffer{}, WithCompression(format.CompressionType(9)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestWriter_WriteEventBytes(t *testing.T) {
	ev := newEvent(t, 4, 100, 200, 300)
	little, err := ev.Bytes(endian.GetLittleEndianEngine())
	require.NoError(t, err)
	orig := append([]byte(nil), little...)

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteEventBytes(little, endian.GetLittleEndianEngine()))

	big, err := ev.Bytes(endian.GetBigEndianEngine())
	require.NoError(t, err)
	require.NoError(t, w.WriteEventBytes(big, endian.GetBigEndianEngine()))
	require.NoError(t, w.Close())
	require.Equal(t, orig, little)

	r, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	for range 2 {
		raw, err := r.NextEventBytes()
		require.NoError(t, err)
		require.Equal(t, big, raw)
	}

	t.Run("length mismatch", func(t *testing.T) {
		w, err := NewWriter(&bytes.Buffer{})
		require.NoError(t, err)
		require.ErrorIs(t, w.WriteEventBytes(append(big, 0, 0, 0, 0), nil), errs.ErrInvalidLength)
		require.ErrorIs(t, w.WriteEventBytes(big[:4], nil), errs.ErrInvalidHeaderSize)
	})
}

func TestWriter_Errors(t *testing.T) {
	_, err := NewWriter(nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	w, err := NewWriter(&bytes.Buffer{})
	require.NoError(t, err)

	seg := structure.NewSegment(1, format.Int32)
	require.ErrorIs(t, w.WriteEvent(seg), errs.ErrInvalidArgument)
	require.ErrorIs(t, w.WriteEvent(nil), errs.ErrInvalidArgument)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.ErrorIs(t, w.WriteEvent(newEvent(t, 1, 1)), errs.ErrClosed)
	require.ErrorIs(t, w.WriteEventBytes(nil, nil), errs.ErrClosed)
	require.ErrorIs(t, w.Flush(), errs.ErrClosed)
}

func TestWriter_Flush(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.Flush())
	require.Zero(t, buf.Len())

	require.NoError(t, w.WriteEvent(newEvent(t, 1, 1)))
	require.NoError(t, w.Flush())
	require.Equal(t, 4*(8+5), buf.Len())
	require.Equal(t, 1, w.BlockCount())
}

func TestWriter_Logger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	w, err := NewWriter(&bytes.Buffer{}, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, w.WriteEvent(newEvent(t, 1, 1)))
	require.NoError(t, w.Close())

	require.Contains(t, logs.String(), "block written")
	require.Contains(t, logs.String(), "last=true")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.evio")

	w, err := NewFileWriter(path, WithCompression(format.CompressionS2))
	require.NoError(t, err)
	require.NoError(t, w.WriteEvent(newEvent(t, 9, 9, 8, 7)))
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, w.BytesWritten(), info.Size())

	r, err := OpenFile(path)
	require.NoError(t, err)
	require.Equal(t, [][]int32{{9, 8, 7}}, readAll(t, r))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = NewFileWriter(filepath.Join(t.TempDir(), "missing", "x.evio"))
	require.Error(t, err)

	_, err = OpenFile(filepath.Join(t.TempDir(), "none.evio"))
	require.Error(t, err)
}

func TestReader_Errors(t *testing.T) {
	_, err := NewReader(nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = NewReader(bytes.NewReader(nil))
	require.ErrorIs(t, err, errs.ErrFormat)

	_, err = NewReader(bytes.NewReader(make([]byte, 32)))
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)

	_, err = NewReader(bytes.NewReader(make([]byte, 10)))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)

	t.Run("truncated payload", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf)
		require.NoError(t, err)
		require.NoError(t, w.WriteEvent(newEvent(t, 1, 1, 2, 3)))
		require.NoError(t, w.Close())

		_, err = NewReader(bytes.NewReader(buf.Bytes()[:40]))
		require.ErrorIs(t, err, errs.ErrInvalidLength)
	})

	t.Run("block size above limit", func(t *testing.T) {
		h := section.NewBlockHeader(1)
		h.Size = 0x7fffffff
		h.Last = true

		_, err := NewReader(bytes.NewReader(h.Bytes(endian.GetBigEndianEngine())))
		require.ErrorIs(t, err, errs.ErrInvalidLength)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("compressed size above limit", func(t *testing.T) {
		h := section.NewBlockHeader(1)
		h.Size = section.BlockHeaderWords + 1
		h.Compression = format.CompressionZstd
		h.Reserved2 = 0xfffffff0

		data := append(h.Bytes(endian.GetLittleEndianEngine()), 0, 0, 0, 0)
		_, err := NewReader(bytes.NewReader(data))
		require.ErrorIs(t, err, errs.ErrInvalidLength)
	})

	t.Run("byte order change", func(t *testing.T) {
		var buf bytes.Buffer
		big, err := NewWriter(&buf)
		require.NoError(t, err)
		require.NoError(t, big.WriteEvent(newEvent(t, 1, 1)))
		require.NoError(t, big.Flush())

		little, err := NewWriter(&buf, WithByteOrder(endian.GetLittleEndianEngine()))
		require.NoError(t, err)
		require.NoError(t, little.WriteEvent(newEvent(t, 2, 2)))
		require.NoError(t, little.Close())

		r, err := NewReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		_, err = r.NextEvent()
		require.NoError(t, err)
		_, err = r.NextEvent()
		require.ErrorIs(t, err, errs.ErrByteOrderMismatch)
	})

	t.Run("missing last block", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf)
		require.NoError(t, err)
		require.NoError(t, w.WriteEvent(newEvent(t, 1, 1)))
		require.NoError(t, w.Flush())

		r, err := NewReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Len(t, readAll(t, r), 1)
	})
}
