package evio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/stream"
	"github.com/arloliu/evio/structure"
)

func buildEvent(t *testing.T) *structure.Structure {
	t.Helper()

	ev := NewEvent(1, format.Bank, 0)

	adc := structure.NewBank(2, format.Int32, 1)
	require.NoError(t, adc.SetInt32s([]int32{10, 20, 30}))
	require.NoError(t, ev.AddChild(adc))

	names := structure.NewBank(3, format.CharStar8, 1)
	require.NoError(t, names.SetStrings("fcal", "bcal"))
	require.NoError(t, ev.AddChild(names))

	return ev
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(5, format.Int32, 6)
	require.Equal(t, format.KindBank, ev.Kind())
	require.Equal(t, uint16(5), ev.Tag())
	require.Equal(t, uint8(6), ev.Num())
}

func TestEventRoundTrip(t *testing.T) {
	ev := buildEvent(t)

	for _, engine := range []endian.EndianEngine{endian.GetBigEndianEngine(), endian.GetLittleEndianEngine()} {
		raw, err := ev.Bytes(engine)
		require.NoError(t, err)

		back, err := ParseEvent(raw, engine)
		require.NoError(t, err)
		require.Equal(t, 2, back.ChildCount())

		vals, err := back.Child(0).Int32s()
		require.NoError(t, err)
		require.Equal(t, []int32{10, 20, 30}, vals)

		strs, err := back.Child(1).Strings()
		require.NoError(t, err)
		require.Equal(t, []string{"fcal", "bcal"}, strs)
	}
}

func TestSwapEvent(t *testing.T) {
	ev := buildEvent(t)

	big, err := ev.Bytes(endian.GetBigEndianEngine())
	require.NoError(t, err)
	little, err := ev.Bytes(endian.GetLittleEndianEngine())
	require.NoError(t, err)

	dst := make([]byte, len(big))
	require.NoError(t, SwapEvent(big, endian.GetBigEndianEngine(), dst))
	require.Equal(t, little, dst)

	require.NoError(t, SwapEvent(dst, endian.GetLittleEndianEngine(), nil))
	require.Equal(t, big, dst)
}

func TestScanEvent(t *testing.T) {
	raw, err := buildEvent(t).Bytes(endian.Default())
	require.NoError(t, err)

	h, err := ScanEvent(raw, endian.Default())
	require.NoError(t, err)

	nodes, err := h.Search(2, 1)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	data, err := h.Data(nodes[0], false)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 10, 0, 0, 0, 20, 0, 0, 0, 30}, data)
}

func TestCompileFormat(t *testing.T) {
	ops, err := CompileFormat("(2I,1F)")
	require.NoError(t, err)
	require.Equal(t, []int{16, 43, 18, 0}, ops)

	_, err = CompileFormat("16I")
	require.ErrorIs(t, err, errs.ErrCompile)
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "dict.xml")
	require.NoError(t, os.WriteFile(dictPath,
		[]byte(`<xmlDict><dictEntry name="ADC" tag="2" num="1"/></xmlDict>`), 0o600))

	dict, err := LoadDictionary(dictPath)
	require.NoError(t, err)

	path := filepath.Join(dir, "run.evio")
	w, err := NewFileWriter(path, stream.WithDictionary(dict), stream.WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	for range 3 {
		require.NoError(t, w.WriteEvent(buildEvent(t)))
	}
	require.NoError(t, w.Close())

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer r.Close()

	count := 0
	for {
		ev, err := r.NextEvent()
		if errors.Is(err, errs.ErrNoMoreEvents) {
			break
		}
		require.NoError(t, err)

		tag, num, err := r.Dictionary().TagNum("ADC")
		require.NoError(t, err)
		require.Len(t, ev.FindByTagNum(tag, num), 1)
		count++
	}
	require.Equal(t, 3, count)
}

func TestNameID(t *testing.T) {
	require.Equal(t, uint64(0x4fdcca5ddb678139), NameID("test"))
	require.NotEqual(t, NameID("ADC"), NameID("TDC"))
}
