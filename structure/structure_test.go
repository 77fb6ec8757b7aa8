package structure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/evio/composite"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

var (
	be = endian.GetBigEndianEngine()
	le = endian.GetLittleEndianEngine()
)

func TestStructure_Int32Bank(t *testing.T) {
	s := NewBank(1, format.Int32, 2)
	require.NoError(t, s.AppendInt32s([]int32{10, 20, 30}))

	total, err := s.TotalBytes()
	require.NoError(t, err)
	require.Equal(t, 20, total)
	require.Equal(t, uint32(4), s.Header().Length)
	require.False(t, s.IsDirty())

	buf, err := s.Bytes(be)
	require.NoError(t, err)
	require.Equal(t, []byte{
		0, 0, 0, 4,
		0, 1, 0x0b, 2,
		0, 0, 0, 10,
		0, 0, 0, 20,
		0, 0, 0, 30,
	}, buf)

	buf, err = s.Bytes(le)
	require.NoError(t, err)
	require.Equal(t, []byte{4, 0, 0, 0, 2, 0x0b, 1, 0, 10, 0, 0, 0}, buf[:12])
}

func TestStructure_Padding(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		s := NewBank(1, format.Char8, 0)
		require.NoError(t, s.AppendInt8s([]int8{1, 2, 3, 4, 5}))
		require.Equal(t, 3, s.Padding())
		require.Len(t, s.RawBytes(), 8)
		require.Equal(t, uint32(3), s.Header().Length)
		require.Equal(t, 5, s.NumberDataItems())

		require.NoError(t, s.AppendUint8s([]uint8{6, 7, 8}))
		require.Equal(t, 0, s.Padding())
		require.Equal(t, uint32(3), s.Header().Length)

		v, err := s.Int8s()
		require.NoError(t, err)
		require.Equal(t, []int8{1, 2, 3, 4, 5, 6, 7, 8}, v)

		buf, err := s.Bytes(be)
		require.NoError(t, err)
		require.Len(t, buf, 16)
	})

	t.Run("shorts", func(t *testing.T) {
		s := NewSegment(1, format.Short16)
		require.NoError(t, s.AppendInt16s([]int16{1, -1, 3}))
		require.Equal(t, 2, s.Padding())
		require.Equal(t, uint32(2), s.Header().Length)
		require.Equal(t, 3, s.NumberDataItems())

		buf, err := s.Bytes(be)
		require.NoError(t, err)
		require.Equal(t, byte(0x04|2<<6), buf[1])

		parsed, err := Parse(buf, be, format.KindSegment)
		require.NoError(t, err)

		v, err := parsed.Int16s()
		require.NoError(t, err)
		require.Equal(t, []int16{1, -1, 3}, v)
	})
}

func TestStructure_AppendTypeMismatch(t *testing.T) {
	s := NewBank(1, format.Float32, 0)
	require.NoError(t, s.AppendFloat32s([]float32{1.5}))

	err := s.AppendInt32s([]int32{1})
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
	require.Len(t, s.RawBytes(), 4)
	require.Equal(t, format.Float32, s.Type())

	require.ErrorIs(t, s.AppendStrings("x"), errs.ErrTypeMismatch)

	_, err = s.Int32s()
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	require.NoError(t, NewBank(1, format.Uint32, 0).AppendInt32s([]int32{-1}), "signed and unsigned share a family")
}

func TestStructure_SetRetypes(t *testing.T) {
	s := NewBank(1, format.Float32, 0)
	require.NoError(t, s.AppendFloat32s([]float32{1.5, 2.5}))

	require.NoError(t, s.SetInt64s([]int64{-7}))
	require.Equal(t, format.Long64, s.Type())
	require.Equal(t, uint32(3), s.Header().Length)

	require.NoError(t, s.SetUint64s([]uint64{8}))
	require.Equal(t, format.Long64, s.Type(), "same family keeps the declared type")

	v, err := s.Uint64s()
	require.NoError(t, err)
	require.Equal(t, []uint64{8}, v)

	require.NoError(t, s.SetStrings("a"))
	require.Equal(t, format.CharStar8, s.Type())
}

func buildEvent(t *testing.T) (*Structure, *Structure, *Structure) {
	t.Helper()

	ev := NewBank(1, format.Bank, 0)
	ints := NewBank(2, format.Int32, 1)
	dbl := NewBank(3, format.Double64, 2)

	require.NoError(t, ints.AppendInt32s([]int32{1, 2, 3}))
	require.NoError(t, dbl.AppendFloat64s([]float64{1.5}))
	require.NoError(t, ev.AddChild(ints))
	require.NoError(t, ev.AddChild(dbl))

	return ev, ints, dbl
}

func TestStructure_ContainerLengths(t *testing.T) {
	ev, ints, dbl := buildEvent(t)

	require.Equal(t, uint32(4), ints.Header().Length)
	require.Equal(t, uint32(3), dbl.Header().Length)
	require.Equal(t, uint32(10), ev.Header().Length)
	require.Equal(t, 36, ev.NumberDataItems())
	require.False(t, ev.IsLeaf())
	require.True(t, ints.IsLeaf())

	require.NoError(t, ints.AppendInt32s([]int32{4}))
	require.Equal(t, uint32(11), ev.Header().Length, "parent updated eagerly")

	removed, err := ev.RemoveChild(dbl)
	require.NoError(t, err)
	require.True(t, removed)
	require.Nil(t, dbl.Parent())
	require.Equal(t, uint32(7), ev.Header().Length)

	removed, err = ev.RemoveChild(dbl)
	require.NoError(t, err)
	require.False(t, removed)

	require.NoError(t, ev.InsertChild(dbl, 0))
	require.Equal(t, dbl, ev.Child(0))
	require.Equal(t, ev, dbl.Parent())
	require.Nil(t, ev.Child(5))
}

func TestStructure_EmptyContainer(t *testing.T) {
	ev := NewBank(1, format.Bank, 0)
	require.True(t, ev.IsLeaf())
	require.True(t, ev.IsContainer())
	require.Equal(t, uint32(1), ev.Header().Length)

	buf, err := ev.Bytes(be)
	require.NoError(t, err)
	require.Len(t, buf, 8)
}

func TestStructure_AddChildErrors(t *testing.T) {
	leaf := NewBank(1, format.Int32, 0)
	require.ErrorIs(t, leaf.AddChild(NewBank(2, format.Int32, 0)), errs.ErrNotContainer)

	banks := NewBank(1, format.Bank, 0)
	require.ErrorIs(t, banks.AddChild(NewSegment(2, format.Int32)), errs.ErrTypeMismatch)

	segs := NewBank(1, format.Segment, 0)
	require.NoError(t, segs.AddChild(NewSegment(2, format.Int32)))

	tags := NewSegment(1, format.TagSegment)
	require.NoError(t, tags.AddChild(NewTagSegment(0x123, format.Float32)))

	child := NewBank(3, format.Bank, 0)
	require.NoError(t, banks.AddChild(child))
	require.ErrorIs(t, NewBank(4, format.Bank, 0).AddChild(child), errs.ErrInvalidArgument)
	require.ErrorIs(t, child.AddChild(banks), errs.ErrInvalidArgument)
	require.ErrorIs(t, banks.AddChild(nil), errs.ErrInvalidArgument)
	require.ErrorIs(t, banks.InsertChild(NewBank(5, format.Int32, 0), 9), errs.ErrInvalidArgument)

	require.ErrorIs(t, banks.AppendInt32s([]int32{1}), errs.ErrNotLeaf)
}

func TestStructure_RoundTrip(t *testing.T) {
	ev, _, _ := buildEvent(t)

	strs := NewBank(4, format.CharStar8, 3)
	require.NoError(t, strs.SetStrings("ab", "cde"))
	require.Equal(t, uint32(3), strs.Header().Length)
	require.NoError(t, ev.AddChild(strs))

	segs := NewBank(5, format.Segment, 4)
	seg := NewSegment(6, format.Ushort16)
	require.NoError(t, seg.AppendUint16s([]uint16{0xbeef}))
	require.NoError(t, segs.AddChild(seg))
	require.NoError(t, ev.AddChild(segs))

	for _, engine := range []endian.EndianEngine{be, le} {
		t.Run(endian.Name(engine), func(t *testing.T) {
			buf, err := ev.Bytes(engine)
			require.NoError(t, err)

			parsed, err := ParseEvent(buf, engine)
			require.NoError(t, err)
			require.Equal(t, ev.Header(), parsed.Header())
			require.Equal(t, 4, parsed.ChildCount())

			again, err := parsed.Bytes(engine)
			require.NoError(t, err)
			require.Equal(t, buf, again)

			other, err := parsed.Bytes(endian.Opposite(engine))
			require.NoError(t, err)
			want, err := ev.Bytes(endian.Opposite(engine))
			require.NoError(t, err)
			require.Equal(t, want, other)

			got, err := parsed.Child(2).Strings()
			require.NoError(t, err)
			require.Equal(t, []string{"ab", "cde"}, got)

			u16, err := parsed.Child(3).Child(0).Uint16s()
			require.NoError(t, err)
			require.Equal(t, []uint16{0xbeef}, u16)
		})
	}
}

func TestParse_LegacyString(t *testing.T) {
	buf := []byte{
		0, 0, 0, 2,
		0, 1, 0x03, 0,
		'a', 'b', 'c', 0,
	}

	s, err := ParseEvent(buf, be)
	require.NoError(t, err)

	strs, err := s.Strings()
	require.NoError(t, err)
	require.Equal(t, []string{"abc"}, strs)
	require.Equal(t, uint32(3), s.Header().Length)

	out, err := s.Bytes(be)
	require.NoError(t, err)
	require.Equal(t, []byte{'a', 'b', 'c', 0, 4, 4, 4, 4}, out[8:])
}

func TestStructure_AppendStringsUnterminated(t *testing.T) {
	buf := []byte{
		0, 0, 0, 2,
		0, 1, 0x03, 0,
		'a', 'b', 'c', 'd',
	}

	s, err := ParseEvent(buf, be)
	require.NoError(t, err)
	require.Equal(t, []byte{'a', 'b', 'c', 'd'}, s.RawBytes())

	err = s.AppendStrings("efg")
	require.ErrorIs(t, err, errs.ErrInvalidStrings)
	require.ErrorIs(t, err, errs.ErrFormat)
	require.Equal(t, []byte{'a', 'b', 'c', 'd'}, s.RawBytes(), "payload kept")

	require.NoError(t, s.SetStrings("efg"))
	strs, err := s.Strings()
	require.NoError(t, err)
	require.Equal(t, []string{"efg"}, strs)

	empty := NewBank(2, format.CharStar8, 0)
	require.NoError(t, empty.AppendStrings("x"))
	require.NoError(t, empty.AppendStrings("y"))
	strs, err = empty.Strings()
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, strs)
}

func TestStructure_RawBytesStable(t *testing.T) {
	s := NewBank(1, format.Char8, 0)
	require.NoError(t, s.AppendInt8s([]int8{1, 2, 3, 4, 5}))

	before := s.RawBytes()
	snapshot := append([]byte(nil), before...)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 0, 0, 0}, snapshot)

	require.NoError(t, s.AppendInt8s([]int8{6}))
	require.Equal(t, snapshot, before, "earlier slice not overwritten")
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 0, 0}, s.RawBytes())

	require.NoError(t, s.AppendUint8s(nil))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 0, 0}, s.RawBytes())
}

func TestParse_Errors(t *testing.T) {
	ev, _, _ := buildEvent(t)
	buf, err := ev.Bytes(be)
	require.NoError(t, err)

	t.Run("truncated", func(t *testing.T) {
		s, err := ParseEvent(buf[:len(buf)-4], be)
		require.ErrorIs(t, err, errs.ErrFormat)
		require.Nil(t, s)
	})

	t.Run("child overruns parent", func(t *testing.T) {
		bad := append([]byte(nil), buf...)
		be.PutUint32(bad[8:12], 40)

		s, err := ParseEvent(bad, be)
		require.ErrorIs(t, err, errs.ErrFormat)
		require.Nil(t, s)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := ParseEvent(buf[:4], be)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})
}

func TestStructure_Composite(t *testing.T) {
	b := composite.NewBuilder()
	b.AddN(2)
	b.AddInt32s([]int32{7, 8})
	b.AddFloat64(0.5)

	d, err := composite.New("N(I),D", 1, b, 2, 3, composite.WithByteOrder(le))
	require.NoError(t, err)

	s := NewBank(9, format.Composite, 0)
	require.NoError(t, s.SetComposite(d))
	require.Equal(t, 1, s.NumberDataItems())

	for _, engine := range []endian.EndianEngine{be, le} {
		buf, err := s.Bytes(engine)
		require.NoError(t, err)

		parsed, err := ParseEvent(buf, engine)
		require.NoError(t, err)

		comps, err := parsed.Composites()
		require.NoError(t, err)
		require.Len(t, comps, 1)
		require.Equal(t, d.Items(), comps[0].Items())
	}

	require.ErrorIs(t, NewBank(1, format.Int32, 0).AppendComposite(d), errs.ErrTypeMismatch)
}

func TestStructure_SegmentOverflow(t *testing.T) {
	s := NewSegment(1, format.Uchar8)
	require.NoError(t, s.AppendUint8s(make([]byte, 4*0x10000)))

	_, err := s.Bytes(be)
	require.ErrorIs(t, err, errs.ErrOverflow)
}

func TestStructure_Find(t *testing.T) {
	ev, ints, dbl := buildEvent(t)

	require.Equal(t, []*Structure{ints}, ev.FindByTagNum(2, 1))
	require.Empty(t, ev.FindByTagNum(2, 9))
	require.Equal(t, []*Structure{dbl}, ev.FindByTag(3))

	leaves := ev.Find(func(s *Structure) bool { return s.IsLeaf() })
	require.Equal(t, []*Structure{ints, dbl}, leaves)

	visited := 0
	ev.Visit(func(*Structure) bool {
		visited++
		return false
	})
	require.Equal(t, 1, visited)
}

func TestStructure_WriteBufferTooSmall(t *testing.T) {
	ev, _, _ := buildEvent(t)

	_, err := ev.Write(make([]byte, 8), be)
	require.ErrorIs(t, err, errs.ErrBufferTooSmall)

	dst := make([]byte, 64)
	n, err := ev.Write(dst, be)
	require.NoError(t, err)
	require.Equal(t, 44, n)
}
