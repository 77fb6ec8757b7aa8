package scan

import (
	"fmt"

	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/section"
)

// Node records the position and header fields of one structure inside a
// buffer without holding its payload.
type Node struct {
	Pos     int                  // Pos is the byte offset of the header.
	Len     uint32               // Len is the header length field in words.
	Tag     uint16               // Tag is the header tag.
	Num     uint8                // Num is the header num (banks only).
	Pad     uint8                // Pad is the payload padding in bytes.
	Type    format.DataType      // Type is the payload data type.
	Kind    format.StructureKind // Kind is the header layout.
	DataPos int                  // DataPos is the byte offset of the payload.
	DataLen int                  // DataLen is the payload length in words.
	IsEvent bool                 // IsEvent marks a top-level bank.

	handler  *Handler
	parent   *Node
	children []*Node
	allNodes []*Node
	scanned  bool
}

// NodeFromHeader builds a Node for a header located at byte offset pos.
func NodeFromHeader(h section.Header, pos int) *Node {
	return &Node{
		Pos:     pos,
		Len:     h.Length,
		Tag:     h.Tag,
		Num:     h.Num,
		Pad:     h.Pad,
		Type:    h.Type,
		Kind:    h.Kind,
		DataPos: pos + h.HeaderSize(),
		DataLen: int(h.DataLength()),
	}
}

// Parent returns the enclosing node, or nil for the top node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes. It is empty until the node is scanned.
func (n *Node) Children() []*Node { return n.children }

// AllNodes returns the flat pre-order node list of a scanned top node,
// the top node first. It is nil for other nodes.
func (n *Node) AllNodes() []*Node { return n.allNodes }

// IsContainer reports whether the node holds structures.
func (n *Node) IsContainer() bool { return n.Type.IsStructure() }

// TotalBytes returns the size of the structure, header included.
func (n *Node) TotalBytes() int { return 4 * (int(n.Len) + 1) }

// DataBytes returns the payload size in bytes without padding.
func (n *Node) DataBytes() int { return max(4*n.DataLen-int(n.Pad), 0) }

func (n *Node) shift(delta int) {
	n.Pos -= delta
	n.DataPos -= delta
}

func (n *Node) String() string {
	return fmt.Sprintf("%s{tag=%d num=%d type=%s pos=%d len=%d}", n.Kind, n.Tag, n.Num, n.Type, n.Pos, n.Len)
}
