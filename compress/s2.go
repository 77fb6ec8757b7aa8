package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/evio/errs"
)

// S2Compressor compresses block payloads with S2.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes a block payload as a single S2 block, which carries the
// decoded length in its preamble.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes a payload without an expected size.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// DecompressSize checks the length stored in the S2 block against size
// before allocating the output.
func (c S2Compressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize(nil, size)
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: s2 block holds %d bytes, header says %d", errs.ErrInvalidLength, n, size)
	}

	return s2.Decode(make([]byte, size), data)
}
