package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

// Compressor compresses one evio block payload.
//
// The payload is the concatenation of serialized events that follows a block
// header. Header words are never compressed so that readers can detect byte
// order and block boundaries before touching the payload.
type Compressor interface {
	// Compress compresses data and returns a newly allocated result.
	//
	// The input slice is not modified. Empty input returns nil.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a block payload produced by the matching Compressor.
//
// Example:
//
//	codec, _ := compress.GetCodec(format.CompressionZstd)
//	payload, err := codec.Decompress(compressed)
//	if err != nil {
//	    return fmt.Errorf("block payload: %w", err)
//	}
type Decompressor interface {
	// Decompress decompresses data and returns the original payload.
	//
	// It returns an error if data is corrupted or was produced by another algorithm.
	Decompress(data []byte) ([]byte, error)
}

// SizedDecompressor expands a block payload whose uncompressed size is
// known. Compressed evio blocks record it in header word 6.
type SizedDecompressor interface {
	// DecompressSize decompresses data into exactly size bytes. Output of any
	// other length is an errs.ErrInvalidLength error, and the codec never
	// allocates much more than size while finding out.
	DecompressSize(data []byte, size int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
	SizedDecompressor
}

// CompressionStats describes the outcome of compressing one block payload.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the payload size before compression
	OriginalSize int64

	// CompressedSize is the payload size after compression
	CompressedSize int64
}

// CompressionRatio returns compressed size / original size, or 0 for an empty payload.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec creates a new Codec for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: errs.ErrInvalidCompression for an unknown type
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s compression %s", errs.ErrInvalidCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}

// Expand decompresses a block payload and checks it against the uncompressed
// size recorded in the block header.
func Expand(compressionType format.CompressionType, data []byte, size int) ([]byte, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	out, err := codec.DecompressSize(data, size)
	if errors.Is(err, errs.ErrFormat) {
		return nil, fmt.Errorf("%s payload: %w", compressionType, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %w", errs.ErrFormat, compressionType, err)
	}

	return out, nil
}

func checkSize(out []byte, size int) ([]byte, error) {
	if len(out) != size {
		return nil, fmt.Errorf("%w: expanded to %d bytes, header says %d", errs.ErrInvalidLength, len(out), size)
	}

	return out, nil
}

func sizeExceeded(size int) error {
	return fmt.Errorf("%w: payload does not decode into %d bytes", errs.ErrInvalidLength, size)
}
