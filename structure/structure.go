package structure

import (
	"fmt"

	"github.com/arloliu/evio/composite"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/internal/options"
	"github.com/arloliu/evio/section"
)

// Structure is a node of an evio tree.
type Structure struct {
	header section.Header
	engine endian.EndianEngine

	// raw is the payload in engine order, padding included.
	raw   []byte
	strs  []string
	comps []*composite.Data

	children []*Structure
	parent   *Structure

	dirty bool
}

type config struct {
	engine endian.EndianEngine
}

// Option configures a new Structure.
type Option = options.Option[*config]

// WithByteOrder sets the byte order the payload is stored in.
// The default is big-endian.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.NoError(func(c *config) {
		c.engine = endian.OrDefault(engine)
	})
}

func newStructure(h section.Header, opts []Option) *Structure {
	cfg := &config{engine: endian.Default()}
	_ = options.Apply(cfg, opts...)

	s := &Structure{header: h, engine: cfg.engine, dirty: true}
	_, _ = s.RecomputeLengths()

	return s
}

// NewBank creates an empty bank.
func NewBank(tag uint16, dataType format.DataType, num uint8, opts ...Option) *Structure {
	return newStructure(section.NewBankHeader(tag, dataType, num), opts)
}

// NewSegment creates an empty segment.
func NewSegment(tag uint8, dataType format.DataType, opts ...Option) *Structure {
	return newStructure(section.NewSegmentHeader(tag, dataType), opts)
}

// NewTagSegment creates an empty tagsegment. Tags above 0xfff fail on write.
func NewTagSegment(tag uint16, dataType format.DataType, opts ...Option) *Structure {
	return newStructure(section.NewTagSegmentHeader(tag, dataType), opts)
}

// Kind returns the header layout of s.
func (s *Structure) Kind() format.StructureKind { return s.header.Kind }

// Header returns a copy of the header. Its length is current unless s is dirty.
func (s *Structure) Header() section.Header { return s.header }

// Tag returns the header tag.
func (s *Structure) Tag() uint16 { return s.header.Tag }

// SetTag changes the header tag.
func (s *Structure) SetTag(tag uint16) { s.header.Tag = tag }

// Num returns the header num. Only banks store it.
func (s *Structure) Num() uint8 { return s.header.Num }

// SetNum changes the header num.
func (s *Structure) SetNum(num uint8) { s.header.Num = num }

// Type returns the declared data type.
func (s *Structure) Type() format.DataType { return s.header.Type }

// Padding returns the number of pad bytes at the end of the payload.
func (s *Structure) Padding() int { return int(s.header.Pad) }

// ByteOrder returns the byte order of the stored payload.
func (s *Structure) ByteOrder() endian.EndianEngine { return s.engine }

// IsDirty reports whether the header length needs recomputing.
func (s *Structure) IsDirty() bool { return s.dirty }

// IsContainer reports whether the declared type holds structures.
func (s *Structure) IsContainer() bool { return s.header.Type.IsStructure() }

// IsLeaf reports whether s has no children. A container with no children
// is a leaf too.
func (s *Structure) IsLeaf() bool { return len(s.children) == 0 }

func (s *Structure) String() string {
	return fmt.Sprintf("%s children=%d", s.header, len(s.children))
}

// root returns the top of the tree s belongs to.
func (s *Structure) root() *Structure {
	r := s
	for r.parent != nil {
		r = r.parent
	}

	return r
}

// markDirty flags s and its ancestors, stopping at the first ancestor that
// is already dirty.
func (s *Structure) markDirty() {
	s.dirty = true
	for n := s.parent; n != nil && !n.dirty; n = n.parent {
		n.dirty = true
	}
}

// touch marks s dirty and recomputes lengths from the root.
func (s *Structure) touch() error {
	s.markDirty()
	_, err := s.root().RecomputeLengths()

	return err
}
