package composite

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

// Encode serializes items following the compiled opcodes and returns the
// unpadded data bytes.
//
// Every item must carry exactly the type its opcode produces; a count the
// format reads from the data may be given as format.NValue or format.Int32.
// A CHARSTAR8 item must encode to exactly the repeat count of its opcode.
// Encoding stops when the items run out. Mismatches return an
// errs.ErrCompositeItemType error that also matches errs.ErrFormat.
func Encode(ops []int, items []any, types []format.DataType, engine endian.EndianEngine) ([]byte, error) {
	if len(items) != len(types) {
		return nil, fmt.Errorf("%w: %d items but %d types", errs.ErrInvalidArgument, len(items), len(types))
	}

	engine = endian.OrDefault(engine)
	out := make([]byte, 0, 4*len(items))
	idx := 0

	readN := func() (int, error) {
		if idx >= len(items) {
			return 0, errItemsDone
		}

		t := types[idx]
		v, ok := items[idx].(int32)
		if !ok || (t != format.NValue && t != format.Int32) {
			return 0, mismatch(idx, format.NValue, t)
		}
		if v < 0 {
			return 0, fmt.Errorf("%w: negative N value %d at item %d", errs.ErrFormat, v, idx)
		}

		out = engine.AppendUint32(out, uint32(v))
		idx++

		return int(v), nil
	}

	w := newWalker(ops)
	for idx < len(items) {
		code, count, err := w.next(readN)
		if errors.Is(err, errItemsDone) {
			break
		}
		if err != nil {
			return nil, err
		}

		want := opTypes[code]

		if code == opChars {
			strs, ok := items[idx].([]string)
			if !ok || types[idx] != format.CharStar8 {
				return nil, mismatch(idx, want, types[idx])
			}

			raw := encoding.EncodeStrings(strs)
			if count != repeatForever && len(raw) != count {
				return nil, fmt.Errorf("%w: %w: item %d encodes to %d bytes, format expects %d",
					errs.ErrCompositeItemType, errs.ErrFormat, idx, len(raw), count)
			}
			out = append(out, raw...)
			idx++

			continue
		}

		for range count {
			if idx >= len(items) {
				break
			}
			if types[idx] != want {
				return nil, mismatch(idx, want, types[idx])
			}

			var ok bool
			if out, ok = appendElement(out, code, items[idx], engine); !ok {
				return nil, mismatch(idx, want, types[idx])
			}
			idx++
		}
	}

	return out, nil
}

func mismatch(idx int, want, got format.DataType) error {
	return fmt.Errorf("%w: %w: item %d is %s, format expects %s", errs.ErrCompositeItemType, errs.ErrFormat, idx, got, want)
}

func appendElement(dst []byte, code int, v any, engine endian.EndianEngine) ([]byte, bool) {
	switch code {
	case opUint32:
		x, ok := v.(uint32)
		return engine.AppendUint32(dst, x), ok
	case opInt32, opHollerit:
		x, ok := v.(int32)
		return engine.AppendUint32(dst, uint32(x)), ok //nolint:gosec
	case opFloat32:
		x, ok := v.(float32)
		return engine.AppendUint32(dst, math.Float32bits(x)), ok
	case opDouble64:
		x, ok := v.(float64)
		return engine.AppendUint64(dst, math.Float64bits(x)), ok
	case opLong64:
		x, ok := v.(int64)
		return engine.AppendUint64(dst, uint64(x)), ok //nolint:gosec
	case opUlong64:
		x, ok := v.(uint64)
		return engine.AppendUint64(dst, x), ok
	case opShort16:
		x, ok := v.(int16)
		return engine.AppendUint16(dst, uint16(x)), ok //nolint:gosec
	case opUshort16:
		x, ok := v.(uint16)
		return engine.AppendUint16(dst, x), ok
	case opChar8:
		x, ok := v.(int8)
		return append(dst, byte(x)), ok
	case opUchar8:
		x, ok := v.(uint8)
		return append(dst, x), ok
	default:
		return dst, false
	}
}
