package compress

// ZstdCompressor compresses block payloads with Zstandard.
//
// The default build uses github.com/klauspost/compress/zstd. Building with
// the gozstd tag switches to the cgo binding github.com/valyala/gozstd.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
