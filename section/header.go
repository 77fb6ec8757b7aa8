package section

import (
	"fmt"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

// Header holds the fields of a bank, segment or tagsegment header.
//
// Length counts the 32-bit words that follow the length word: for a bank this
// is the second header word plus the payload, for segments and tagsegments the
// payload alone. Length is not maintained automatically; structure code
// recomputes it before writing.
type Header struct {
	// Kind selects the binary layout.
	Kind format.StructureKind
	// Tag is 16 bits for banks, 8 bits for segments and 12 bits for tagsegments.
	Tag uint16
	// Num is only stored by banks.
	Num uint8
	// Type is the data type of the payload.
	Type format.DataType
	// Pad is the number of trailing pad bytes in the payload (0-3).
	// Tagsegments cannot store it.
	Pad uint8
	// Length is the word count after the length word.
	Length uint32
}

// NewBankHeader creates a bank header with the given tag, type and num.
func NewBankHeader(tag uint16, dataType format.DataType, num uint8) Header {
	return Header{Kind: format.KindBank, Tag: tag, Type: dataType, Num: num, Length: BankHeaderWords - 1}
}

// NewSegmentHeader creates a segment header with the given tag and type.
func NewSegmentHeader(tag uint8, dataType format.DataType) Header {
	return Header{Kind: format.KindSegment, Tag: uint16(tag), Type: dataType}
}

// NewTagSegmentHeader creates a tagsegment header with the given tag and type.
func NewTagSegmentHeader(tag uint16, dataType format.DataType) Header {
	return Header{Kind: format.KindTagSegment, Tag: tag, Type: dataType}
}

// HeaderLength returns the header length in words: 2 for banks, 1 otherwise.
func (h Header) HeaderLength() int {
	return h.Kind.HeaderWords()
}

// HeaderSize returns the header length in bytes.
func (h Header) HeaderSize() int {
	return 4 * h.Kind.HeaderWords()
}

// DataLength returns the payload length in words.
func (h Header) DataLength() uint32 {
	hl := uint32(h.HeaderLength() - 1) //nolint:gosec
	if h.Length < hl {
		return 0
	}

	return h.Length - hl
}

// TotalBytes returns the size of the whole structure in bytes.
func (h Header) TotalBytes() int {
	return 4 * (int(h.Length) + 1)
}

// Validate checks that every field fits the layout of h.Kind.
func (h Header) Validate() error {
	if h.Pad > 3 {
		return fmt.Errorf("%w: padding %d", errs.ErrInvalidArgument, h.Pad)
	}

	switch h.Kind {
	case format.KindBank:
	case format.KindSegment:
		if h.Tag > MaxSegmentTag {
			return fmt.Errorf("%w: segment tag %d > %d", errs.ErrOverflow, h.Tag, MaxSegmentTag)
		}
		if h.Length > MaxShortLength {
			return fmt.Errorf("%w: segment length %d > %d", errs.ErrOverflow, h.Length, MaxShortLength)
		}
	case format.KindTagSegment:
		if h.Tag > MaxTagSegmentTag {
			return fmt.Errorf("%w: tagsegment tag %d > %d", errs.ErrOverflow, h.Tag, MaxTagSegmentTag)
		}
		if h.Length > MaxShortLength {
			return fmt.Errorf("%w: tagsegment length %d > %d", errs.ErrOverflow, h.Length, MaxShortLength)
		}
	default:
		return fmt.Errorf("%w: structure kind %d", errs.ErrInvalidArgument, h.Kind)
	}

	return nil
}

func (h Header) typeByte() uint32 {
	return uint32(h.Type)&typeMask | uint32(h.Pad&3)<<padShift
}

// Words returns the header as 32-bit words, before byte ordering.
// Fields wider than the layout allows are truncated; call Validate first.
func (h Header) Words() (uint32, uint32) {
	switch h.Kind {
	case format.KindSegment:
		return uint32(h.Tag&0xff)<<24 | h.typeByte()<<16 | h.Length&shortLenMax, 0
	case format.KindTagSegment:
		return (uint32(h.Tag&0xfff)<<4|uint32(h.Type.WireCode4()))<<16 | h.Length&shortLenMax, 0
	default:
		return h.Length, uint32(h.Tag)<<16 | h.typeByte()<<8 | uint32(h.Num)
	}
}

// Bytes serializes h with the given byte order.
func (h Header) Bytes(engine endian.EndianEngine) []byte {
	b, _ := h.AppendTo(make([]byte, 0, h.HeaderSize()), engine)
	return b
}

// AppendTo appends the serialized header to dst.
//
// Returns:
//   - []byte: dst with the header appended
//   - error: errs.ErrOverflow if a field does not fit the layout
func (h Header) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return dst, err
	}

	engine = endian.OrDefault(engine)
	w0, w1 := h.Words()
	dst = engine.AppendUint32(dst, w0)
	if h.Kind == format.KindBank {
		dst = engine.AppendUint32(dst, w1)
	}

	return dst, nil
}

// WriteToSlice writes the header at the start of dst.
//
// Returns:
//   - int: Bytes written
//   - error: errs.ErrBufferTooSmall if dst is shorter than the header, errs.ErrOverflow
//     if a field does not fit
func (h Header) WriteToSlice(dst []byte, engine endian.EndianEngine) (int, error) {
	size := h.HeaderSize()
	if len(dst) < size {
		return 0, fmt.Errorf("%w: header needs %d bytes, have %d", errs.ErrBufferTooSmall, size, len(dst))
	}

	if err := h.Validate(); err != nil {
		return 0, err
	}

	engine = endian.OrDefault(engine)
	w0, w1 := h.Words()
	engine.PutUint32(dst[0:4], w0)
	if h.Kind == format.KindBank {
		engine.PutUint32(dst[4:8], w1)
	}

	return size, nil
}

func (h Header) String() string {
	if h.Kind == format.KindBank {
		return fmt.Sprintf("%s{tag=%d num=%d type=%s pad=%d len=%d}", h.Kind, h.Tag, h.Num, h.Type, h.Pad, h.Length)
	}

	return fmt.Sprintf("%s{tag=%d type=%s pad=%d len=%d}", h.Kind, h.Tag, h.Type, h.Pad, h.Length)
}

// decodeTypeByte splits a 6+2 bit type byte, applying the legacy 0x40 rule.
func decodeTypeByte(b uint8) (format.DataType, uint8) {
	if b == legacyTagSegmentByte {
		return format.TagSegment, 0
	}

	return format.DataType(b & typeMask), b >> padShift
}

func checkType(t format.DataType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: 0x%x", errs.ErrInvalidDataType, uint8(t))
	}

	return nil
}

// ParseBankHeader parses a 2-word bank header.
//
// Returns:
//   - Header: Parsed header
//   - int: Bytes consumed (8)
//   - error: errs.ErrInvalidHeaderSize if data is shorter than 8 bytes,
//     errs.ErrInvalidDataType for an unknown type code
func ParseBankHeader(data []byte, engine endian.EndianEngine) (Header, int, error) {
	if len(data) < BankHeaderSize {
		return Header{}, 0, fmt.Errorf("%w: bank header needs %d bytes, have %d", errs.ErrInvalidHeaderSize, BankHeaderSize, len(data))
	}

	engine = endian.OrDefault(engine)
	w0 := engine.Uint32(data[0:4])
	w1 := engine.Uint32(data[4:8])
	dt, pad := decodeTypeByte(uint8(w1 >> 8))

	h := Header{
		Kind:   format.KindBank,
		Length: w0,
		Tag:    uint16(w1 >> 16),
		Type:   dt,
		Pad:    pad,
		Num:    uint8(w1),
	}

	return h, BankHeaderSize, checkType(dt)
}

// ParseSegmentHeader parses a 1-word segment header.
func ParseSegmentHeader(data []byte, engine endian.EndianEngine) (Header, int, error) {
	if len(data) < SegmentHeaderSize {
		return Header{}, 0, fmt.Errorf("%w: segment header needs %d bytes, have %d", errs.ErrInvalidHeaderSize, SegmentHeaderSize, len(data))
	}

	w := endian.OrDefault(engine).Uint32(data[0:4])
	dt, pad := decodeTypeByte(uint8(w >> 16))

	h := Header{
		Kind:   format.KindSegment,
		Tag:    uint16(w >> 24),
		Type:   dt,
		Pad:    pad,
		Length: w & shortLenMax,
	}

	return h, SegmentHeaderSize, checkType(dt)
}

// ParseTagSegmentHeader parses a 1-word tagsegment header.
func ParseTagSegmentHeader(data []byte, engine endian.EndianEngine) (Header, int, error) {
	if len(data) < TagSegmentHeaderSize {
		return Header{}, 0, fmt.Errorf("%w: tagsegment header needs %d bytes, have %d", errs.ErrInvalidHeaderSize, TagSegmentHeaderSize, len(data))
	}

	w := endian.OrDefault(engine).Uint32(data[0:4])

	h := Header{
		Kind:   format.KindTagSegment,
		Tag:    uint16(w >> 20),
		Type:   format.DataType((w >> 16) & 0xf),
		Length: w & shortLenMax,
	}

	return h, TagSegmentHeaderSize, nil
}

// Parse parses a header of the given kind.
func Parse(kind format.StructureKind, data []byte, engine endian.EndianEngine) (Header, int, error) {
	switch kind {
	case format.KindBank:
		return ParseBankHeader(data, engine)
	case format.KindSegment:
		return ParseSegmentHeader(data, engine)
	case format.KindTagSegment:
		return ParseTagSegmentHeader(data, engine)
	default:
		return Header{}, 0, fmt.Errorf("%w: structure kind %d", errs.ErrInvalidArgument, kind)
	}
}

// PatchLength rewrites only the length field of a serialized header in place.
// For banks this is word 0; for segments and tagsegments the low 16 bits.
func PatchLength(kind format.StructureKind, data []byte, engine endian.EndianEngine, length uint32) error {
	if len(data) < 4 {
		return fmt.Errorf("%w: have %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	engine = endian.OrDefault(engine)
	if kind == format.KindBank {
		engine.PutUint32(data[0:4], length)
		return nil
	}

	if length > MaxShortLength {
		return fmt.Errorf("%w: %s length %d > %d", errs.ErrOverflow, kind, length, MaxShortLength)
	}

	if endian.IsBigEndian(engine) {
		engine.PutUint16(data[2:4], uint16(length))
	} else {
		engine.PutUint16(data[0:2], uint16(length))
	}

	return nil
}
