// Package compress provides the codecs used for evio block payload compression.
//
// An evio block is an 8-word header followed by the serialized events it holds.
// When a writer is configured with a compression type, the event payload is run
// through one of these codecs and the block header records the algorithm and
// the uncompressed size (see section.BlockHeader). Readers look the codec up by
// type and expand the payload before handing events to the structure parser.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): payload stored as is
//   - Zstd (format.CompressionZstd): best ratio, pure Go by default, cgo via the gozstd build tag
//   - S2 (format.CompressionS2): fast, good ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// Physics payloads are dominated by integer and float arrays with repeating
// bank headers, so Zstd usually gives the smallest files while LZ4 and S2 keep
// the writer close to disk speed.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionLZ4)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//
// # Thread Safety
//
// All codec implementations are stateless values backed by sync.Pool and are
// safe for concurrent use.
package compress
