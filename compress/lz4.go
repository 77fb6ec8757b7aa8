package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4MaxExpand caps the output buffer when the uncompressed size is unknown.
const lz4MaxExpand = 128 * 1024 * 1024

// LZ4Compressor compresses block payloads with LZ4 block format.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data with a pooled lz4.Compressor.
//
// Returns:
//   - []byte: Compressed data (nil if input is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	// CompressBlock reports incompressible input as n == 0.
	if n == 0 {
		return literalBlock(data), nil
	}

	return dst[:n], nil
}

// literalBlock encodes data as a single LZ4 sequence holding only literals.
func literalBlock(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/255+2)

	n := len(data)
	if n < 15 {
		out = append(out, byte(n<<4))
	} else {
		out = append(out, 0xf0)
		for n -= 15; n >= 255; n -= 255 {
			out = append(out, 255)
		}
		out = append(out, byte(n))
	}

	return append(out, data...)
}

// Decompress decompresses LZ4 block data.
//
// The LZ4 block format does not record the original size, so the output
// buffer starts at 4x the input and doubles on lz4.ErrInvalidSourceShortBuffer
// up to a 128MiB cap.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := len(data) * 4
	for bufSize <= lz4MaxExpand {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < lz4MaxExpand {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}

// DecompressSize decodes into a buffer of exactly size bytes. The LZ4 block
// format does not record its own length, so the block header supplies it.
func (c LZ4Compressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize(nil, size)
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data, buf)
	if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
		return nil, sizeExceeded(size)
	}
	if err != nil {
		return nil, err
	}

	return checkSize(buf[:n], size)
}
