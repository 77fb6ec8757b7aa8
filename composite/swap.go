package composite

import (
	"fmt"

	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/section"
)

// SwapData swaps composite data bytes from srcEngine to the opposite byte
// order without materializing items.
//
// A nil dst, or a dst starting at &src[0], swaps in place; 8-bit and string
// runs are then left untouched. Otherwise dst must hold len(src) bytes.
func SwapData(ops []int, src, dst []byte, srcEngine endian.EndianEngine) error {
	dst, inPlace, err := swapTarget(src, dst)
	if err != nil {
		return err
	}

	srcEngine = endian.OrDefault(srcEngine)
	pos := 0
	end := len(src)

	readN := func() (int, error) {
		n, err := readCount(src, pos, srcEngine)
		if err != nil {
			return 0, err
		}
		putSwappedWord(dst[pos:pos+4], src[pos:pos+4])
		pos += 4

		return n, nil
	}

	w := newWalker(ops)
	for pos < end {
		code, count, err := w.next(readN)
		if err != nil {
			return err
		}

		n := runBytes(code, count, pos, end)
		width := opWidth(code)
		if width == 1 {
			if !inPlace {
				copy(dst[pos:pos+n], src[pos:pos+n])
			}
			pos += n

			continue
		}

		if count > 0 && n < width {
			return fmt.Errorf("%w: %d trailing bytes cannot hold a %s", errs.ErrFormat, n, opTypes[code])
		}

		n -= n % width
		if err := encoding.Swap(dst[pos:pos+n], src[pos:pos+n], width); err != nil {
			return err
		}
		pos += n
	}

	return nil
}

// SwapAll swaps one or more concatenated composite items, headers, format
// strings and data, from srcEngine to the opposite byte order.
//
// dst follows the same in-place rules as SwapData. src must be a multiple of
// 4 bytes.
func SwapAll(src, dst []byte, srcEngine endian.EndianEngine) error {
	if len(src)%4 != 0 {
		return fmt.Errorf("%w: composite length %d is not a multiple of 4", errs.ErrFormat, len(src))
	}

	dst, inPlace, err := swapTarget(src, dst)
	if err != nil {
		return err
	}

	srcEngine = endian.OrDefault(srcEngine)

	for pos := 0; pos < len(src); {
		n, err := swapOne(src[pos:], dst[pos:], srcEngine, inPlace)
		if err != nil {
			return err
		}
		pos += n
	}

	return nil
}

func swapOne(src, dst []byte, srcEngine endian.EndianEngine, inPlace bool) (int, error) {
	ts, _, err := section.ParseTagSegmentHeader(src, srcEngine)
	if err != nil {
		return 0, err
	}

	fmtEnd := 4 * (1 + int(ts.Length))
	if fmtEnd > len(src) {
		return 0, fmt.Errorf("%w: format string needs %d bytes, have %d", errs.ErrInvalidLength, fmtEnd, len(src))
	}

	strs := encoding.DecodeStrings(src[4:fmtEnd])
	if len(strs) == 0 {
		return 0, fmt.Errorf("%w: missing composite format string", errs.ErrInvalidStrings)
	}

	ops, err := Compile(strs[0])
	if err != nil {
		return 0, err
	}

	bank, _, err := section.ParseBankHeader(src[fmtEnd:], srcEngine)
	if err != nil {
		return 0, err
	}
	if bank.Length < 1 {
		return 0, fmt.Errorf("%w: composite data bank length %d", errs.ErrInvalidLength, bank.Length)
	}

	dataStart := fmtEnd + section.BankHeaderSize
	total := fmtEnd + 4*(1+int(bank.Length))
	if total > len(src) {
		return 0, fmt.Errorf("%w: composite needs %d bytes, have %d", errs.ErrInvalidLength, total, len(src))
	}

	dataEnd := total - int(bank.Pad)
	if dataEnd < dataStart {
		return 0, fmt.Errorf("%w: composite padding %d exceeds data", errs.ErrInvalidLength, bank.Pad)
	}

	// Headers are plain words, so swapping them word by word is exact.
	putSwappedWord(dst[0:4], src[0:4])
	if !inPlace {
		copy(dst[4:fmtEnd], src[4:fmtEnd])
	}
	putSwappedWord(dst[fmtEnd:fmtEnd+4], src[fmtEnd:fmtEnd+4])
	putSwappedWord(dst[fmtEnd+4:dataStart], src[fmtEnd+4:dataStart])

	if err := SwapData(ops, src[dataStart:dataEnd], dst[dataStart:dataEnd], srcEngine); err != nil {
		return 0, err
	}
	if !inPlace {
		copy(dst[dataEnd:total], src[dataEnd:total])
	}

	return total, nil
}

func swapTarget(src, dst []byte) ([]byte, bool, error) {
	if dst == nil {
		return src, true, nil
	}

	if len(dst) < len(src) {
		return nil, false, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, len(src), len(dst))
	}

	if len(src) == 0 {
		return dst, false, nil
	}

	return dst, &dst[0] == &src[0], nil
}

// putSwappedWord writes the 4 bytes of src reversed into dst. dst may be src.
func putSwappedWord(dst, src []byte) {
	dst[0], dst[1], dst[2], dst[3] = src[3], src[2], src[1], src[0]
}
