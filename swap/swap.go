package swap

import (
	"fmt"
	"unsafe"

	"github.com/arloliu/evio/composite"
	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/internal/options"
	"github.com/arloliu/evio/scan"
	"github.com/arloliu/evio/section"
)

// Event swaps the bank at the start of src, written in srcEngine order, into
// dst. See Structure.
func Event(src []byte, srcEngine endian.EndianEngine, dst []byte, opts ...Option) error {
	return Structure(format.KindBank, src, srcEngine, dst, opts...)
}

// Structure swaps the structure of the given kind at the start of src into
// dst in the opposite byte order.
//
// A nil dst, or a dst starting at &src[0], swaps in place. A dst that overlaps
// src at any other offset returns errs.ErrInvalidArgument.
//
// Returns errs.ErrBufferTooSmall when dst cannot hold the structure and an
// errs.ErrFormat error when a length does not fit the available bytes.
func Structure(kind format.StructureKind, src []byte, srcEngine endian.EndianEngine, dst []byte, opts ...Option) error {
	cfg := &config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	srcEngine = endian.OrDefault(srcEngine)

	hdr, _, err := section.Parse(kind, src, srcEngine)
	if err != nil {
		return err
	}

	total := hdr.TotalBytes()
	if total > len(src) {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", errs.ErrInvalidLength, kind, total, len(src))
	}
	src = src[:total]

	switch {
	case dst == nil:
		dst = src
	case len(dst) < total:
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, total, len(dst))
	default:
		dst = dst[:total]
		if overlapsShifted(src, dst) {
			return fmt.Errorf("%w: destination overlaps source at a different offset", errs.ErrInvalidArgument)
		}
	}

	w := &walker{src: src, dst: dst, engine: srcEngine, cfg: cfg}
	_, err = w.swap(kind, 0, total)

	return err
}

// overlapsShifted reports whether a and b share memory without starting at
// the same address.
func overlapsShifted(a, b []byte) bool {
	pa := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	pb := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if pa == pb {
		return false
	}

	return pa < pb+uintptr(len(b)) && pb < pa+uintptr(len(a))
}

type walker struct {
	src    []byte
	dst    []byte
	engine endian.EndianEngine
	cfg    *config
}

// swap converts the structure at pos, which must end before limit, and
// returns its size in bytes.
func (w *walker) swap(kind format.StructureKind, pos, limit int) (int, error) {
	hdr, hs, err := section.Parse(kind, w.src[pos:limit], w.engine)
	if err != nil {
		return 0, fmt.Errorf("%s at byte %d: %w", kind, pos, err)
	}

	total := hdr.TotalBytes()
	if pos+total > limit {
		return 0, fmt.Errorf("%w: %s at byte %d needs %d bytes, %d left", errs.ErrInvalidLength, kind, pos, total, limit-pos)
	}

	if w.cfg.nodes != nil {
		*w.cfg.nodes = append(*w.cfg.nodes, scan.NodeFromHeader(hdr, pos))
	}

	for i := pos; i < pos+hs; i += 4 {
		putSwappedWord(w.dst[i:i+4], w.src[i:i+4])
	}

	dataPos := pos + hs
	end := pos + total

	if childKind, ok := hdr.Type.ChildKind(); ok {
		for p := dataPos; p < end; {
			n, err := w.swap(childKind, p, end)
			if err != nil {
				return 0, err
			}
			p += n
		}

		return total, nil
	}

	if w.cfg.withoutData {
		return total, nil
	}

	if err := Payload(w.dst[dataPos:end], w.src[dataPos:end], hdr.Type, int(hdr.Pad), w.engine); err != nil {
		return 0, fmt.Errorf("%s at byte %d: %w", kind, pos, err)
	}

	return total, nil
}

// Payload swaps a leaf payload of the given type from srcEngine order into
// dst. dst may be src itself. The last pad bytes are copied unchanged.
func Payload(dst, src []byte, dataType format.DataType, pad int, srcEngine endian.EndianEngine) error {
	if len(dst) < len(src) {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, len(src), len(dst))
	}

	if len(src) == 0 {
		return nil
	}

	inPlace := &dst[0] == &src[0]

	if dataType == format.Composite {
		return composite.SwapAll(src, dst, srcEngine)
	}

	width := dataType.ElementSize()
	if width <= 1 || pad > len(src) {
		if !inPlace {
			copy(dst, src)
		}

		return nil
	}

	end := len(src) - pad
	if err := encoding.Swap(dst[:end], src[:end], width); err != nil {
		return err
	}
	if !inPlace {
		copy(dst[end:], src[end:])
	}

	return nil
}

func putSwappedWord(dst, src []byte) {
	dst[0], dst[1], dst[2], dst[3] = src[3], src[2], src[1], src[0]
}
