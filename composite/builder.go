package composite

import (
	"fmt"

	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/format"
)

// Builder collects typed items for a new composite Data.
//
// Items must be added in the order the format string consumes them, N values
// included. The Builder tracks the encoded size and the padding needed to
// reach a 4-byte boundary.
type Builder struct {
	items     []any
	types     []format.DataType
	dataBytes int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) add(t format.DataType, v any, size int) {
	b.items = append(b.items, v)
	b.types = append(b.types, t)
	b.dataBytes += size
}

// AddN adds a count that an "N" in the format reads from the data.
func (b *Builder) AddN(n int32) { b.add(format.NValue, n, 4) }

// AddInt32 adds one INT32 item.
func (b *Builder) AddInt32(v int32) { b.add(format.Int32, v, 4) }

// AddUint32 adds one UINT32 item.
func (b *Builder) AddUint32(v uint32) { b.add(format.Uint32, v, 4) }

// AddHollerit adds one HOLLERIT item.
func (b *Builder) AddHollerit(v int32) { b.add(format.Hollerit, v, 4) }

// AddInt16 adds one SHORT16 item.
func (b *Builder) AddInt16(v int16) { b.add(format.Short16, v, 2) }

// AddUint16 adds one USHORT16 item.
func (b *Builder) AddUint16(v uint16) { b.add(format.Ushort16, v, 2) }

// AddInt64 adds one LONG64 item.
func (b *Builder) AddInt64(v int64) { b.add(format.Long64, v, 8) }

// AddUint64 adds one ULONG64 item.
func (b *Builder) AddUint64(v uint64) { b.add(format.Ulong64, v, 8) }

// AddInt8 adds one CHAR8 item.
func (b *Builder) AddInt8(v int8) { b.add(format.Char8, v, 1) }

// AddUint8 adds one UCHAR8 item.
func (b *Builder) AddUint8(v uint8) { b.add(format.Uchar8, v, 1) }

// AddFloat32 adds one FLOAT32 item.
func (b *Builder) AddFloat32(v float32) { b.add(format.Float32, v, 4) }

// AddFloat64 adds one DOUBLE64 item.
func (b *Builder) AddFloat64(v float64) { b.add(format.Double64, v, 8) }

// AddStrings adds one CHARSTAR8 item holding strs. The matching format
// letter needs a repeat equal to the encoded size; see StringsToFormat.
func (b *Builder) AddStrings(strs ...string) {
	b.add(format.CharStar8, append([]string(nil), strs...), encoding.StringsEncodedLen(strs))
}

// AddInt32s adds one INT32 item per element of v.
func (b *Builder) AddInt32s(v []int32) { addAll(b, format.Int32, v, 4) }

// AddUint32s adds one UINT32 item per element of v.
func (b *Builder) AddUint32s(v []uint32) { addAll(b, format.Uint32, v, 4) }

// AddHollerits adds one HOLLERIT item per element of v.
func (b *Builder) AddHollerits(v []int32) { addAll(b, format.Hollerit, v, 4) }

// AddInt16s adds one SHORT16 item per element of v.
func (b *Builder) AddInt16s(v []int16) { addAll(b, format.Short16, v, 2) }

// AddUint16s adds one USHORT16 item per element of v.
func (b *Builder) AddUint16s(v []uint16) { addAll(b, format.Ushort16, v, 2) }

// AddInt64s adds one LONG64 item per element of v.
func (b *Builder) AddInt64s(v []int64) { addAll(b, format.Long64, v, 8) }

// AddUint64s adds one ULONG64 item per element of v.
func (b *Builder) AddUint64s(v []uint64) { addAll(b, format.Ulong64, v, 8) }

// AddInt8s adds one CHAR8 item per element of v.
func (b *Builder) AddInt8s(v []int8) { addAll(b, format.Char8, v, 1) }

// AddUint8s adds one UCHAR8 item per element of v.
func (b *Builder) AddUint8s(v []uint8) { addAll(b, format.Uchar8, v, 1) }

// AddFloat32s adds one FLOAT32 item per element of v.
func (b *Builder) AddFloat32s(v []float32) { addAll(b, format.Float32, v, 4) }

// AddFloat64s adds one DOUBLE64 item per element of v.
func (b *Builder) AddFloat64s(v []float64) { addAll(b, format.Double64, v, 8) }

func addAll[T any](b *Builder, t format.DataType, v []T, size int) {
	for _, x := range v {
		b.add(t, x, size)
	}
}

// Len returns the number of items added so far.
func (b *Builder) Len() int { return len(b.items) }

// Padding returns the pad bytes needed after the data.
func (b *Builder) Padding() int { return encoding.BytePadding(b.dataBytes) }

// Size returns the data size in bytes, padding included.
func (b *Builder) Size() int { return b.dataBytes + b.Padding() }

// Reset discards all items.
func (b *Builder) Reset() {
	b.items = b.items[:0]
	b.types = b.types[:0]
	b.dataBytes = 0
}

// StringsToFormat returns the format fragment, such as "12a", that describes
// strs stored as one CHARSTAR8 item. It returns "" for an empty list.
// Repeats above 15 do not compile; longer lists need "Na" and an AddN count.
func StringsToFormat(strs []string) string {
	n := encoding.StringsEncodedLen(strs)
	if n == 0 {
		return ""
	}

	return fmt.Sprintf("%da", n)
}
