package encoding

import (
	"fmt"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
)

var (
	be = endian.GetBigEndianEngine()
	le = endian.GetLittleEndianEngine()
)

// Swap writes src into dst with the bytes of each width-byte element reversed.
//
// Width 1 copies. dst may be src itself; any other overlap is undefined.
// Trailing bytes that do not fill a whole element are copied unchanged.
func Swap(dst, src []byte, width int) error {
	if len(dst) < len(src) {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, len(src), len(dst))
	}

	n := len(src) - len(src)%max(width, 1)
	switch width {
	case 1:
		copy(dst, src)
		return nil
	case 2:
		for i := 0; i < n; i += 2 {
			le.PutUint16(dst[i:], be.Uint16(src[i:]))
		}
	case 4:
		for i := 0; i < n; i += 4 {
			le.PutUint32(dst[i:], be.Uint32(src[i:]))
		}
	case 8:
		for i := 0; i < n; i += 8 {
			le.PutUint64(dst[i:], be.Uint64(src[i:]))
		}
	default:
		return fmt.Errorf("%w: element width %d", errs.ErrInvalidArgument, width)
	}

	if n < len(src) {
		copy(dst[n:], src[n:])
	}

	return nil
}

// SwapInPlace reverses the bytes of each width-byte element of data.
func SwapInPlace(data []byte, width int) error {
	return Swap(data, data, width)
}

// SwapUint32 reverses the bytes of one 32-bit word.
func SwapUint32(v uint32) uint32 {
	return v>>24 | v>>8&0xff00 | v<<8&0xff0000 | v<<24
}
