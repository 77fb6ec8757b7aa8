package scan

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/section"
)

// TagNumLookup resolves a dictionary name to a tag and num.
type TagNumLookup interface {
	TagNum(name string) (uint16, uint8, error)
}

// Handler gives positional access to one structure in a buffer.
//
// Only headers are read. Scan walks the tree once and remembers the result.
// All methods are safe for concurrent use.
type Handler struct {
	mu     sync.Mutex
	buf    []byte
	engine endian.EndianEngine
	top    *Node
	closed bool
}

// NewHandler creates a handler for the structure of the given kind at the
// start of buf. The buffer is used as is, not copied.
//
// Returns an errs.ErrFormat error when buf cannot hold the header or the
// length it declares.
func NewHandler(buf []byte, engine endian.EndianEngine, kind format.StructureKind) (*Handler, error) {
	return newHandler(buf, engine, kind, 0)
}

// Scan creates a handler for the structure at byte offset pos of buf and
// scans it.
func Scan(buf []byte, engine endian.EndianEngine, kind format.StructureKind, pos int) (*Handler, error) {
	h, err := newHandler(buf, engine, kind, pos)
	if err != nil {
		return nil, err
	}

	if err := h.Scan(); err != nil {
		return nil, err
	}

	return h, nil
}

func newHandler(buf []byte, engine endian.EndianEngine, kind format.StructureKind, pos int) (*Handler, error) {
	h := &Handler{buf: buf, engine: endian.OrDefault(engine)}

	top, err := h.extract(kind, pos, len(buf))
	if err != nil {
		return nil, err
	}
	top.IsEvent = kind == format.KindBank
	h.top = top

	return h, nil
}

// extract reads the header at pos and checks that the structure ends
// before limit.
func (h *Handler) extract(kind format.StructureKind, pos, limit int) (*Node, error) {
	if pos < 0 || pos > limit {
		return nil, fmt.Errorf("%w: position %d outside buffer of %d bytes", errs.ErrInvalidArgument, pos, limit)
	}

	hdr, _, err := section.Parse(kind, h.buf[pos:limit], h.engine)
	if err != nil {
		return nil, fmt.Errorf("%s at byte %d: %w", kind, pos, err)
	}

	n := NodeFromHeader(hdr, pos)
	if end := pos + n.TotalBytes(); end > limit {
		return nil, fmt.Errorf("%w: %s at byte %d ends at %d, limit %d", errs.ErrInvalidLength, kind, pos, end, limit)
	}
	n.handler = h

	return n, nil
}

// scanNode fills the child lists below n and appends every node found to
// top.allNodes.
func (h *Handler) scanNode(n, top *Node) error {
	if n.scanned {
		return nil
	}

	childKind, ok := n.Type.ChildKind()
	if !ok {
		n.scanned = true
		return nil
	}

	end := n.DataPos + 4*n.DataLen
	for pos := n.DataPos; pos < end; {
		c, err := h.extract(childKind, pos, end)
		if err != nil {
			return err
		}

		c.parent = n
		n.children = append(n.children, c)
		top.allNodes = append(top.allNodes, c)

		if err := h.scanNode(c, top); err != nil {
			return err
		}
		pos += c.TotalBytes()
	}
	n.scanned = true

	return nil
}

// Scan walks the whole structure and fills the child lists and the flat
// node list. Later calls return immediately.
func (h *Handler) Scan() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.scanLocked()
}

func (h *Handler) scanLocked() error {
	if h.closed {
		return errs.ErrClosed
	}

	if h.top.scanned {
		return nil
	}

	h.top.allNodes = []*Node{h.top}
	if err := h.scanNode(h.top, h.top); err != nil {
		h.resetScan(h.top)
		return err
	}

	return nil
}

// resetScan discards a partial scan so a later call starts over.
func (h *Handler) resetScan(n *Node) {
	for _, c := range n.children {
		h.resetScan(c)
	}
	n.children = nil
	n.allNodes = nil
	n.scanned = false
}

// Top returns the node of the handled structure.
func (h *Handler) Top() *Node { return h.top }

// ByteOrder returns the byte order of the buffer.
func (h *Handler) ByteOrder() endian.EndianEngine { return h.engine }

// Nodes scans if needed and returns the flat node list, top node first.
func (h *Handler) Nodes() ([]*Node, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.scanLocked(); err != nil {
		return nil, err
	}

	return h.top.allNodes, nil
}

// Search returns every node with the given tag and num.
func (h *Handler) Search(tag uint16, num uint8) ([]*Node, error) {
	nodes, err := h.Nodes()
	if err != nil {
		return nil, err
	}

	var found []*Node
	for _, n := range nodes {
		if n.Tag == tag && n.Num == num {
			found = append(found, n)
		}
	}

	return found, nil
}

// SearchName resolves name with dict and returns the matching nodes.
func (h *Handler) SearchName(name string, dict TagNumLookup) ([]*Node, error) {
	if dict == nil {
		return nil, fmt.Errorf("%w: nil dictionary", errs.ErrInvalidArgument)
	}

	tag, num, err := dict.TagNum(name)
	if err != nil {
		return nil, err
	}

	return h.Search(tag, num)
}

// Data returns the payload of n without padding. With copyData the bytes
// are copied; otherwise they alias the handler buffer.
func (h *Handler) Data(n *Node, copyData bool) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkNode(n); err != nil {
		return nil, err
	}

	data := h.buf[n.DataPos : n.DataPos+n.DataBytes()]
	if copyData {
		return bytes.Clone(data), nil
	}

	return data, nil
}

// StructureBytes returns the bytes of n, header included.
func (h *Handler) StructureBytes(n *Node, copyData bool) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkNode(n); err != nil {
		return nil, err
	}

	data := h.buf[n.Pos : n.Pos+n.TotalBytes()]
	if copyData {
		return bytes.Clone(data), nil
	}

	return data, nil
}

func (h *Handler) checkNode(n *Node) error {
	if h.closed {
		return errs.ErrClosed
	}

	if n == nil || n.handler != h {
		return fmt.Errorf("%w: node does not belong to this handler", errs.ErrInvalidArgument)
	}

	return nil
}

// AddStructure appends raw, a serialized child structure, to the end of the
// handled container.
//
// raw is scanned completely before anything changes, so a failed call leaves
// the handler as it was. The handler then switches to a new buffer holding
// only the container, and every node offset shifts by the old container
// position. The container length is patched in both the node and the
// buffer. If the container was scanned, the nodes of the new child are
// appended to it.
//
// Returns an errs.ErrFormat error when raw is empty, not a multiple of 4
// bytes, not exactly one structure or malformed below its header,
// errs.ErrNotContainer for a leaf, and errs.ErrOverflow when a segment or
// tagsegment length would exceed 0xffff words.
func (h *Handler) AddStructure(raw []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errs.ErrClosed
	}

	if len(raw) == 0 || len(raw)%4 != 0 {
		return fmt.Errorf("%w: structure of %d bytes", errs.ErrFormat, len(raw))
	}

	top := h.top
	childKind, ok := top.Type.ChildKind()
	if !ok {
		return fmt.Errorf("%w: %s of type %s", errs.ErrNotContainer, top.Kind, top.Type)
	}

	added := uint32(len(raw) / 4) //nolint:gosec
	newLen := top.Len + added
	if top.Kind != format.KindBank && newLen > section.MaxShortLength {
		return fmt.Errorf("%w: %s length %d > %d", errs.ErrOverflow, top.Kind, newLen, section.MaxShortLength)
	}

	sub, err := newHandler(raw, h.engine, childKind, 0)
	if err != nil {
		return err
	}
	if size := sub.top.TotalBytes(); size != len(raw) {
		return fmt.Errorf("%w: %s declares %d bytes, have %d", errs.ErrInvalidLength, childKind, size, len(raw))
	}
	if err := sub.scanLocked(); err != nil {
		return err
	}

	oldBytes := top.TotalBytes()
	buf := make([]byte, oldBytes+len(raw))
	copy(buf, h.buf[top.Pos:top.Pos+oldBytes])
	copy(buf[oldBytes:], raw)

	if err := section.PatchLength(top.Kind, buf, h.engine, newLen); err != nil {
		return err
	}

	initialPos := top.Pos
	if top.scanned {
		for _, n := range top.allNodes {
			n.shift(initialPos)
		}
	} else {
		top.shift(initialPos)
	}

	top.Len = newLen
	top.DataLen += int(added)
	h.buf = buf

	if !top.scanned {
		return nil
	}

	c := sub.top
	for _, n := range c.allNodes {
		n.shift(-oldBytes)
		n.handler = h
	}
	top.allNodes = append(top.allNodes, c.allNodes...)
	c.allNodes = nil
	c.IsEvent = false
	c.parent = top
	top.children = append(top.children, c)

	return nil
}

// Buffer returns the buffer the handler reads from.
func (h *Handler) Buffer() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.buf
}

// Close releases the buffer. Later calls return errs.ErrClosed.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	h.buf = nil
}
