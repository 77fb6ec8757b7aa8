package composite

import (
	"fmt"
	"math"

	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

// Decode interprets data with the compiled opcodes and returns the items and
// their types.
//
// Counts read from the data appear as format.NValue items holding an int32.
// A CHARSTAR8 run becomes one []string item and every other element becomes
// one item of the matching Go type:
//
//	UINT32 uint32, INT32 int32, HOLLERIT int32, FLOAT32 float32,
//	DOUBLE64 float64, LONG64 int64, ULONG64 uint64, SHORT16 int16,
//	USHORT16 uint16, CHAR8 int8, UCHAR8 uint8
//
// Runs are clamped to the end of data. A truncated or negative count, or a
// trailing fragment shorter than one element, returns an errs.ErrFormat error.
func Decode(ops []int, data []byte, engine endian.EndianEngine) ([]any, []format.DataType, error) {
	engine = endian.OrDefault(engine)

	items := make([]any, 0, len(data)/4)
	types := make([]format.DataType, 0, len(data)/4)

	pos := 0
	end := len(data)

	readN := func() (int, error) {
		n, err := readCount(data, pos, engine)
		if err != nil {
			return 0, err
		}
		pos += 4
		items = append(items, int32(n)) //nolint:gosec
		types = append(types, format.NValue)

		return n, nil
	}

	w := newWalker(ops)
	for pos < end {
		code, count, err := w.next(readN)
		if err != nil {
			return nil, nil, err
		}

		n := runBytes(code, count, pos, end)
		run := data[pos : pos+n]

		switch code {
		case opChars:
			items = append(items, encoding.DecodeStrings(run))
			types = append(types, format.CharStar8)
			pos += n

			continue
		case opChar8:
			for _, b := range run {
				items = append(items, int8(b)) //nolint:gosec
				types = append(types, format.Char8)
			}
			pos += n

			continue
		case opUchar8:
			for _, b := range run {
				items = append(items, b)
				types = append(types, format.Uchar8)
			}
			pos += n

			continue
		}

		width := opWidth(code)
		if count > 0 && n < width {
			return nil, nil, fmt.Errorf("%w: %d trailing bytes cannot hold a %s", errs.ErrFormat, n, opTypes[code])
		}

		dt := opTypes[code]
		for i := 0; i+width <= n; i += width {
			items = append(items, decodeElement(code, run[i:], engine))
			types = append(types, dt)
		}
		pos += n - n%width
	}

	return items, types, nil
}

func readCount(data []byte, pos int, engine endian.EndianEngine) (int, error) {
	if pos+4 > len(data) {
		return 0, fmt.Errorf("%w: truncated N value at byte %d", errs.ErrFormat, pos)
	}

	n := int32(engine.Uint32(data[pos:])) //nolint:gosec
	if n < 0 {
		return 0, fmt.Errorf("%w: negative N value %d at byte %d", errs.ErrFormat, n, pos)
	}

	return int(n), nil
}

func decodeElement(code int, b []byte, engine endian.EndianEngine) any {
	switch code {
	case opUint32:
		return engine.Uint32(b)
	case opInt32, opHollerit:
		return int32(engine.Uint32(b)) //nolint:gosec
	case opFloat32:
		return math.Float32frombits(engine.Uint32(b))
	case opDouble64:
		return math.Float64frombits(engine.Uint64(b))
	case opLong64:
		return int64(engine.Uint64(b)) //nolint:gosec
	case opUlong64:
		return engine.Uint64(b)
	case opShort16:
		return int16(engine.Uint16(b)) //nolint:gosec
	case opUshort16:
		return engine.Uint16(b)
	default:
		return nil
	}
}
