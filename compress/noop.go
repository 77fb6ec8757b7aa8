package compress

// NoOpCompressor stores block payloads unchanged.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data as is.
//
// The returned slice shares memory with the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressSize returns data as is when it holds exactly size bytes.
func (c NoOpCompressor) DecompressSize(data []byte, size int) ([]byte, error) {
	return checkSize(data, size)
}

// Decompress returns data as is.
//
// The returned slice shares memory with the input.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
