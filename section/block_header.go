package section

import (
	"fmt"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

// BlockHeader is the 8-word header that precedes each block of events in an
// evio version 4 file or stream.
//
// Layout (32-bit words, document byte order):
//
//	0: block size in words, header included
//	1: block number
//	2: header length in words (8)
//	3: event count
//	4: reserved1
//	5: version (bits 0-7) | bit info (bits 8-23) | payload pad (24-25) | compression (28-31)
//	6: reserved2, uncompressed payload bytes when compressed
//	7: magic number 0xc0da0100
type BlockHeader struct {
	Size         uint32
	Number       uint32
	HeaderLength uint32
	EventCount   uint32
	Reserved1    uint32
	Version      uint8
	// Dictionary marks a block whose first event is the XML dictionary.
	Dictionary bool
	// Last marks the final block of a file or stream.
	Last      bool
	EventType format.EventType
	// Compression is the algorithm applied to the payload after the header.
	Compression format.CompressionType
	// PayloadPad is the number of zero bytes appended to a compressed payload
	// to reach a word boundary.
	PayloadPad uint8
	Reserved2  uint32
}

// NewBlockHeader creates a version 4 block header with the given number.
func NewBlockHeader(number uint32) BlockHeader {
	return BlockHeader{
		Size:         BlockHeaderWords,
		Number:       number,
		HeaderLength: BlockHeaderWords,
		Version:      BlockVersion,
	}
}

// PayloadWords returns the number of words after the header.
func (h BlockHeader) PayloadWords() uint32 {
	if h.Size < h.HeaderLength {
		return 0
	}

	return h.Size - h.HeaderLength
}

// UncompressedSize returns the payload size in bytes after decompression.
func (h BlockHeader) UncompressedSize() int {
	if h.Compression == format.CompressionNone {
		return 4 * int(h.PayloadWords())
	}

	return int(h.Reserved2)
}

// VersionWord packs the version, bit info, pad and compression fields.
func (h BlockHeader) VersionWord() uint32 {
	w := uint32(h.Version) & VersionMask
	if h.Dictionary {
		w |= DictionaryMask
	}
	if h.Last {
		w |= LastBlockMask
	}
	w |= uint32(h.EventType) << EventTypeShift & EventTypeMask
	w |= uint32(h.PayloadPad) << PayloadPadShift & PayloadPadMask
	w |= uint32(h.Compression) << CompressionShift & CompressionMask

	return w
}

func (h *BlockHeader) setVersionWord(w uint32) {
	h.Version = uint8(w & VersionMask)
	h.Dictionary = w&DictionaryMask != 0
	h.Last = w&LastBlockMask != 0
	h.EventType = format.EventType((w & EventTypeMask) >> EventTypeShift)
	h.PayloadPad = uint8((w & PayloadPadMask) >> PayloadPadShift)
	h.Compression = format.CompressionType((w & CompressionMask) >> CompressionShift)
}

// AppendTo appends the serialized header to dst.
func (h BlockHeader) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	engine = endian.OrDefault(engine)
	dst = engine.AppendUint32(dst, h.Size)
	dst = engine.AppendUint32(dst, h.Number)
	dst = engine.AppendUint32(dst, h.HeaderLength)
	dst = engine.AppendUint32(dst, h.EventCount)
	dst = engine.AppendUint32(dst, h.Reserved1)
	dst = engine.AppendUint32(dst, h.VersionWord())
	dst = engine.AppendUint32(dst, h.Reserved2)
	dst = engine.AppendUint32(dst, BlockMagic)

	return dst
}

// Bytes serializes the header with the given byte order.
func (h BlockHeader) Bytes(engine endian.EndianEngine) []byte {
	return h.AppendTo(make([]byte, 0, BlockHeaderSize), engine)
}

// DetectByteOrder reads the magic word of a block header and returns the
// byte order it was written in.
func DetectByteOrder(data []byte) (endian.EndianEngine, error) {
	if len(data) < BlockHeaderSize {
		return nil, fmt.Errorf("%w: block header needs %d bytes, have %d", errs.ErrInvalidHeaderSize, BlockHeaderSize, len(data))
	}

	magic := data[4*BlockMagicWord : 4*BlockMagicWord+4]
	switch {
	case endian.GetBigEndianEngine().Uint32(magic) == BlockMagic:
		return endian.GetBigEndianEngine(), nil
	case endian.GetLittleEndianEngine().Uint32(magic) == BlockMagic:
		return endian.GetLittleEndianEngine(), nil
	default:
		return nil, fmt.Errorf("%w: 0x%x", errs.ErrInvalidMagicNumber, endian.GetBigEndianEngine().Uint32(magic))
	}
}

// ParseBlockHeader parses a block header, detecting its byte order from the magic word.
//
// Returns:
//   - BlockHeader: Parsed header
//   - endian.EndianEngine: Byte order of the block
//   - error: errs.ErrInvalidHeaderSize, errs.ErrInvalidMagicNumber, errs.ErrInvalidVersion
//     or errs.ErrInvalidLength for inconsistent or oversized size fields
func ParseBlockHeader(data []byte) (BlockHeader, endian.EndianEngine, error) {
	engine, err := DetectByteOrder(data)
	if err != nil {
		return BlockHeader{}, nil, err
	}

	word := func(i int) uint32 { return engine.Uint32(data[4*i : 4*i+4]) }

	h := BlockHeader{
		Size:         word(BlockSizeWord),
		Number:       word(BlockNumberWord),
		HeaderLength: word(BlockHeaderLenWord),
		EventCount:   word(BlockEventCountWord),
		Reserved1:    word(BlockReserved1Word),
		Reserved2:    word(BlockReserved2Word),
	}
	h.setVersionWord(word(BlockVersionWord))

	if h.Version != BlockVersion {
		return h, engine, fmt.Errorf("%w: version %d", errs.ErrInvalidVersion, h.Version)
	}

	if h.HeaderLength < BlockHeaderWords || h.Size < h.HeaderLength {
		return h, engine, fmt.Errorf("%w: block size %d, header length %d", errs.ErrInvalidLength, h.Size, h.HeaderLength)
	}

	if h.Size > MaxBlockSizeMax {
		return h, engine, fmt.Errorf("%w: block size %d > %d words", errs.ErrInvalidLength, h.Size, MaxBlockSizeMax)
	}

	if h.Compression != format.CompressionNone && h.Reserved2 > 4*MaxBlockSizeMax {
		return h, engine, fmt.Errorf("%w: uncompressed size %d > %d bytes", errs.ErrInvalidLength, h.Reserved2, 4*MaxBlockSizeMax)
	}

	return h, engine, nil
}
