package composite

import "github.com/arloliu/evio/format"

// Reader steps through the items of a Data in order.
//
// Each getter returns the next item and advances when its type matches.
// On a type mismatch or at the end it returns false and does not advance.
type Reader struct {
	data *Data
	idx  int
}

// Index returns the index of the item the next getter reads.
func (r *Reader) Index() int { return r.idx }

// SetIndex moves the cursor to item i.
func (r *Reader) SetIndex(i int) { r.idx = i }

// Remaining returns the number of unread items.
func (r *Reader) Remaining() int { return max(len(r.data.items)-r.idx, 0) }

// peek returns the next item if its type is one of want.
func (r *Reader) peek(want ...format.DataType) (any, bool) {
	if r.idx < 0 || r.idx >= len(r.data.items) {
		return nil, false
	}

	t := r.data.types[r.idx]
	for _, w := range want {
		if t == w {
			v := r.data.items[r.idx]
			r.idx++

			return v, true
		}
	}

	return nil, false
}

// Int returns the next INT32 or UINT32 item.
func (r *Reader) Int() (int32, bool) {
	v, ok := r.peek(format.Int32, format.Uint32)
	if !ok {
		return 0, false
	}

	if u, isUint := v.(uint32); isUint {
		return int32(u), true //nolint:gosec
	}

	return v.(int32), true //nolint:forcetypeassert
}

// NValue returns the next N count.
func (r *Reader) NValue() (int32, bool) {
	v, ok := r.peek(format.NValue)
	if !ok {
		return 0, false
	}

	return v.(int32), true //nolint:forcetypeassert
}

// Hollerit returns the next HOLLERIT item.
func (r *Reader) Hollerit() (int32, bool) {
	v, ok := r.peek(format.Hollerit)
	if !ok {
		return 0, false
	}

	return v.(int32), true //nolint:forcetypeassert
}

// Byte returns the next CHAR8 or UCHAR8 item.
func (r *Reader) Byte() (int8, bool) {
	v, ok := r.peek(format.Char8, format.Uchar8)
	if !ok {
		return 0, false
	}

	if u, isUint := v.(uint8); isUint {
		return int8(u), true //nolint:gosec
	}

	return v.(int8), true //nolint:forcetypeassert
}

// Short returns the next SHORT16 or USHORT16 item.
func (r *Reader) Short() (int16, bool) {
	v, ok := r.peek(format.Short16, format.Ushort16)
	if !ok {
		return 0, false
	}

	if u, isUint := v.(uint16); isUint {
		return int16(u), true //nolint:gosec
	}

	return v.(int16), true //nolint:forcetypeassert
}

// Long returns the next LONG64 or ULONG64 item.
func (r *Reader) Long() (int64, bool) {
	v, ok := r.peek(format.Long64, format.Ulong64)
	if !ok {
		return 0, false
	}

	if u, isUint := v.(uint64); isUint {
		return int64(u), true //nolint:gosec
	}

	return v.(int64), true //nolint:forcetypeassert
}

// Float returns the next FLOAT32 item.
func (r *Reader) Float() (float32, bool) {
	v, ok := r.peek(format.Float32)
	if !ok {
		return 0, false
	}

	return v.(float32), true //nolint:forcetypeassert
}

// Double returns the next DOUBLE64 item.
func (r *Reader) Double() (float64, bool) {
	v, ok := r.peek(format.Double64)
	if !ok {
		return 0, false
	}

	return v.(float64), true //nolint:forcetypeassert
}

// Strings returns the next CHARSTAR8 item.
func (r *Reader) Strings() ([]string, bool) {
	v, ok := r.peek(format.CharStar8)
	if !ok {
		return nil, false
	}

	strs, _ := v.([]string)

	return strs, true
}
