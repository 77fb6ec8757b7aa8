// Package evio reads, writes and transforms EVIO, the nested, tagged binary
// container format used for physics event data.
//
// An evio event is a tree of three structure kinds: banks (2-word header,
// 16-bit tag and 8-bit num), segments (1-word header, 8-bit tag) and
// tagsegments (1-word header, 12-bit tag). Containers hold structures of one
// kind; leaves hold an array of a single primitive type, an array of strings,
// or composite records described by a small format language such as
// "N(2I,F)".
//
// # Core Features
//
//   - Structure trees with eager length bookkeeping and padding (structure)
//   - Composite format compiler and decode/encode/swap automaton (composite)
//   - Byte-order swapping in place or into a separate buffer (swap)
//   - Zero-copy structural scanning with in-place append (scan)
//   - Block streams with optional Zstd, S2 or LZ4 payload compression (stream)
//   - XML and YAML tag/num dictionaries (dictionary)
//
// # Basic Usage
//
// Building and serializing an event:
//
//	ev := evio.NewEvent(1, format.Bank, 0)
//	adc := structure.NewBank(2, format.Int32, 1)
//	_ = adc.SetInt32s([]int32{10, 20, 30})
//	_ = ev.AddChild(adc)
//
//	raw, _ := ev.Bytes(endian.Default())
//
// Parsing it back, or scanning it without materializing payloads:
//
//	tree, _ := evio.ParseEvent(raw, endian.Default())
//	h, _ := evio.ScanEvent(raw, endian.Default())
//	nodes, _ := h.Search(2, 1)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the structure,
// swap, scan, stream and dictionary packages. For fine-grained control use
// those packages directly.
package evio

import (
	"github.com/arloliu/evio/composite"
	"github.com/arloliu/evio/dictionary"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/internal/hash"
	"github.com/arloliu/evio/scan"
	"github.com/arloliu/evio/stream"
	"github.com/arloliu/evio/structure"
	"github.com/arloliu/evio/swap"
)

// NewEvent creates an event, the top-level bank of an evio tree.
//
// Example:
//
//	ev := evio.NewEvent(1, format.Bank, 0, structure.WithByteOrder(endian.GetLittleEndianEngine()))
func NewEvent(tag uint16, dataType format.DataType, num uint8, opts ...structure.Option) *structure.Structure {
	return structure.NewBank(tag, dataType, num, opts...)
}

// ParseEvent parses a serialized event into a structure tree.
// A nil engine means big-endian.
func ParseEvent(data []byte, engine endian.EndianEngine) (*structure.Structure, error) {
	return structure.ParseEvent(data, engine)
}

// SwapEvent swaps the event at the start of src into dst in the opposite
// byte order. A nil dst swaps in place.
func SwapEvent(src []byte, srcEngine endian.EndianEngine, dst []byte) error {
	return swap.Event(src, srcEngine, dst)
}

// ScanEvent indexes the event at the start of buf without copying payloads.
func ScanEvent(buf []byte, engine endian.EndianEngine) (*scan.Handler, error) {
	return scan.Scan(buf, engine, format.KindBank, 0)
}

// CompileFormat compiles a composite format string into opcodes.
func CompileFormat(formatStr string) ([]int, error) {
	return composite.Compile(formatStr)
}

// NewFileWriter creates an evio file. See stream.NewFileWriter.
func NewFileWriter(path string, opts ...stream.WriterOption) (*stream.Writer, error) {
	return stream.NewFileWriter(path, opts...)
}

// OpenFile opens an evio file for reading. See stream.OpenFile.
func OpenFile(path string, opts ...stream.ReaderOption) (*stream.Reader, error) {
	return stream.OpenFile(path, opts...)
}

// LoadDictionary reads an XML or YAML dictionary file.
func LoadDictionary(path string) (*dictionary.Dictionary, error) {
	return dictionary.LoadFile(path)
}

// NameID returns the 64-bit xxHash of a dictionary name, the key dictionaries
// index names by.
func NameID(name string) uint64 {
	return hash.ID(name)
}
