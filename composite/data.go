package composite

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/internal/options"
	"github.com/arloliu/evio/section"
)

// Data is one composite item: a format string and the data it describes.
//
// The raw bytes (tagsegment, format string, bank header, data and padding)
// are authoritative. Items and Types are decoded from them at construction.
type Data struct {
	format    string
	formatTag uint16
	dataTag   uint16
	dataNum   uint8
	ops       []int
	engine    endian.EndianEngine

	raw        []byte
	dataOffset int
	dataLen    int
	pad        int

	items []any
	types []format.DataType
}

// New encodes the items of b with formatStr and builds a composite Data.
//
// Parameters:
//   - formatStr: Format string, for example "N(I,F)"
//   - formatTag: Tag of the tagsegment holding the format (0-0xfff)
//   - b: Items in format order
//   - dataTag, dataNum: Tag and num of the bank holding the data
//   - opts: WithByteOrder
//
// Returns errs.ErrCompile for a bad format, errs.ErrCompositeItemType when an
// item does not match the format, and errs.ErrOverflow for a formatTag above 0xfff.
func New(formatStr string, formatTag uint16, b *Builder, dataTag uint16, dataNum uint8, opts ...Option) (*Data, error) {
	cfg := &config{engine: endian.Default()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if b == nil {
		b = NewBuilder()
	}

	ops, err := Compile(formatStr)
	if err != nil {
		return nil, err
	}

	data, err := Encode(ops, b.items, b.types, cfg.engine)
	if err != nil {
		return nil, err
	}

	fmtBytes := encoding.EncodeStrings([]string{formatStr})
	pad := encoding.BytePadding(len(data))

	ts := section.NewTagSegmentHeader(formatTag, format.CharStar8)
	ts.Length = uint32(len(fmtBytes) / 4) //nolint:gosec

	bank := section.NewBankHeader(dataTag, format.Composite, dataNum)
	bank.Pad = uint8(pad)
	bank.Length = uint32(1 + (len(data)+pad)/4) //nolint:gosec

	raw := make([]byte, 0, section.TagSegmentHeaderSize+len(fmtBytes)+section.BankHeaderSize+len(data)+pad)
	if raw, err = ts.AppendTo(raw, cfg.engine); err != nil {
		return nil, err
	}
	raw = append(raw, fmtBytes...)
	if raw, err = bank.AppendTo(raw, cfg.engine); err != nil {
		return nil, err
	}
	dataOffset := len(raw)
	raw = append(raw, data...)
	raw = encoding.AppendPadding(raw, pad)

	d := &Data{
		format:     formatStr,
		formatTag:  formatTag,
		dataTag:    dataTag,
		dataNum:    dataNum,
		ops:        ops,
		engine:     cfg.engine,
		raw:        raw,
		dataOffset: dataOffset,
		dataLen:    len(data),
		pad:        pad,
	}

	// Decode back so NValues and types reflect exactly what was written.
	if d.items, d.types, err = Decode(ops, data, cfg.engine); err != nil {
		return nil, err
	}

	return d, nil
}

// NewFromBytes parses the first composite item in raw. The bytes are copied.
func NewFromBytes(raw []byte, engine endian.EndianEngine) (*Data, error) {
	d, _, err := parseOne(raw, endian.OrDefault(engine))
	return d, err
}

// Parse parses all composite items concatenated in raw.
// It returns nil for empty input.
func Parse(raw []byte, engine endian.EndianEngine) ([]*Data, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	engine = endian.OrDefault(engine)

	var list []*Data
	for pos := 0; pos < len(raw); {
		d, n, err := parseOne(raw[pos:], engine)
		if err != nil {
			return nil, fmt.Errorf("composite item %d: %w", len(list), err)
		}
		list = append(list, d)
		pos += n
	}

	return list, nil
}

func parseOne(raw []byte, engine endian.EndianEngine) (*Data, int, error) {
	ts, _, err := section.ParseTagSegmentHeader(raw, engine)
	if err != nil {
		return nil, 0, err
	}

	fmtEnd := section.TagSegmentHeaderSize + 4*int(ts.Length)
	if fmtEnd > len(raw) {
		return nil, 0, fmt.Errorf("%w: format string needs %d bytes, have %d", errs.ErrInvalidLength, fmtEnd, len(raw))
	}

	strs := encoding.DecodeStrings(raw[section.TagSegmentHeaderSize:fmtEnd])
	if len(strs) == 0 {
		return nil, 0, fmt.Errorf("%w: missing composite format string", errs.ErrInvalidStrings)
	}

	ops, err := Compile(strs[0])
	if err != nil {
		return nil, 0, err
	}

	bank, _, err := section.ParseBankHeader(raw[fmtEnd:], engine)
	if err != nil {
		return nil, 0, err
	}

	total := fmtEnd + 4*(1+int(bank.Length))
	if total > len(raw) {
		return nil, 0, fmt.Errorf("%w: composite needs %d bytes, have %d", errs.ErrInvalidLength, total, len(raw))
	}

	dataOffset := fmtEnd + section.BankHeaderSize
	dataLen := 4*(int(bank.Length)-1) - int(bank.Pad)
	if dataLen < 2 {
		return nil, 0, fmt.Errorf("%w: %d data bytes", errs.ErrNoCompositeData, max(dataLen, 0))
	}

	d := &Data{
		format:     strs[0],
		formatTag:  ts.Tag,
		dataTag:    bank.Tag,
		dataNum:    bank.Num,
		ops:        ops,
		engine:     engine,
		raw:        bytes.Clone(raw[:total]),
		dataOffset: dataOffset,
		dataLen:    dataLen,
		pad:        int(bank.Pad),
	}

	if d.items, d.types, err = Decode(ops, d.Data(), engine); err != nil {
		return nil, 0, err
	}

	return d, total, nil
}

// GenerateRawBytes concatenates the raw bytes of list.
// All items are expected to share one byte order.
func GenerateRawBytes(list []*Data) ([]byte, error) {
	total := 0
	for _, d := range list {
		if d == nil {
			continue
		}
		total += len(d.raw)
		if total > math.MaxInt32 {
			return nil, fmt.Errorf("%w: composite data exceeds %d bytes", errs.ErrOverflow, math.MaxInt32)
		}
	}

	if total == 0 {
		return nil, nil
	}

	out := make([]byte, 0, total)
	for _, d := range list {
		if d != nil {
			out = append(out, d.raw...)
		}
	}

	return out, nil
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	c := *d
	c.ops = append([]int(nil), d.ops...)
	c.raw = bytes.Clone(d.raw)
	c.types = append([]format.DataType(nil), d.types...)
	c.items = make([]any, len(d.items))
	for i, v := range d.items {
		if strs, ok := v.([]string); ok {
			v = append([]string(nil), strs...)
		}
		c.items[i] = v
	}

	return &c
}

// Format returns the format string.
func (d *Data) Format() string { return d.format }

// FormatTag returns the tag of the format tagsegment.
func (d *Data) FormatTag() uint16 { return d.formatTag }

// DataTag returns the tag of the data bank.
func (d *Data) DataTag() uint16 { return d.dataTag }

// DataNum returns the num of the data bank.
func (d *Data) DataNum() uint8 { return d.dataNum }

// Opcodes returns the compiled format. The slice must not be modified.
func (d *Data) Opcodes() []int { return d.ops }

// ByteOrder returns the byte order of the raw bytes.
func (d *Data) ByteOrder() endian.EndianEngine { return d.engine }

// RawBytes returns the complete serialized item. The slice must not be modified.
func (d *Data) RawBytes() []byte { return d.raw }

// Data returns the data bytes without headers or padding.
func (d *Data) Data() []byte { return d.raw[d.dataOffset : d.dataOffset+d.dataLen] }

// Padding returns the number of pad bytes after the data.
func (d *Data) Padding() int { return d.pad }

// Items returns the decoded items. The slice must not be modified.
func (d *Data) Items() []any { return d.items }

// Types returns the type of each item.
func (d *Data) Types() []format.DataType { return d.types }

// NValues returns the counts read from the data, in order.
func (d *Data) NValues() []int32 {
	var ns []int32
	for i, t := range d.types {
		if t == format.NValue {
			ns = append(ns, d.items[i].(int32)) //nolint:forcetypeassert
		}
	}

	return ns
}

// Reader returns a cursor over the items.
func (d *Data) Reader() *Reader {
	return &Reader{data: d}
}

// String renders the items five per line.
func (d *Data) String() string {
	var sb strings.Builder
	for i, v := range d.items {
		if i > 0 {
			if i%5 == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteString(", ")
			}
		}

		switch d.types[i] { //nolint:exhaustive
		case format.NValue:
			fmt.Fprintf(&sb, "N=%v", v)
		case format.Hollerit:
			fmt.Fprintf(&sb, "H=%#x", v)
		case format.CharStar8:
			fmt.Fprintf(&sb, "%q", v)
		default:
			fmt.Fprintf(&sb, "%v", v)
		}
	}

	return sb.String()
}
