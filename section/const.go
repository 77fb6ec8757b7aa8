package section

const (
	BankHeaderWords       = 2 // BankHeaderWords is the bank header length in 32-bit words.
	SegmentHeaderWords    = 1 // SegmentHeaderWords is the segment header length in 32-bit words.
	TagSegmentHeaderWords = 1 // TagSegmentHeaderWords is the tagsegment header length in 32-bit words.

	BankHeaderSize       = 4 * BankHeaderWords
	SegmentHeaderSize    = 4 * SegmentHeaderWords
	TagSegmentHeaderSize = 4 * TagSegmentHeaderWords

	MaxBankTag       = 0xffff // MaxBankTag is the largest tag a bank header can hold.
	MaxSegmentTag    = 0xff   // MaxSegmentTag is the largest tag a segment header can hold.
	MaxTagSegmentTag = 0xfff  // MaxTagSegmentTag is the largest tag a tagsegment header can hold.
	MaxShortLength   = 0xffff // MaxShortLength is the largest segment or tagsegment length in words.

	// legacyTagSegmentByte is a type byte written by early evio versions for
	// tagsegments. It would otherwise read as UINT32 with pad 1.
	legacyTagSegmentByte = 0x40

	typeMask    = 0x3f
	padShift    = 6
	shortLenMax = 0xffff
)

// Block header layout (evio version 4).
const (
	BlockHeaderWords = 8
	BlockHeaderSize  = 4 * BlockHeaderWords
	BlockMagic       = 0xc0da0100
	BlockVersion     = 4

	// Word offsets inside the block header.
	BlockSizeWord       = 0
	BlockNumberWord     = 1
	BlockHeaderLenWord  = 2
	BlockEventCountWord = 3
	BlockReserved1Word  = 4
	BlockVersionWord    = 5
	BlockReserved2Word  = 6
	BlockMagicWord      = 7

	// Version word bit fields.
	VersionMask      = 0x000000ff
	DictionaryMask   = 0x00000100 // bit info bit 0
	LastBlockMask    = 0x00000200 // bit info bit 1
	EventTypeMask    = 0x00003c00 // bit info bits 2-5
	EventTypeShift   = 10
	PayloadPadMask   = 0x03000000
	PayloadPadShift  = 24
	CompressionMask  = 0xf0000000
	CompressionShift = 28

	// Writer limits, in 32-bit words for sizes.
	DefaultBlockSizeMax  = 64000
	MinBlockSizeMax      = 256
	MaxBlockSizeMax      = 25600000
	DefaultBlockCountMax = 10000
	MinBlockCountMax     = 1
	MaxBlockCountMax     = 100000
)
