// Package structure provides the evio structure tree: banks, segments and
// tagsegments that hold either typed data or child structures.
//
// A Structure owns its payload as one raw byte slice in its own byte order,
// padding included. Typed views (Int32s, Strings, Composites, ...) are decoded
// from those bytes on demand. Containers hold an ordered child list instead.
//
// Header lengths are derived values. Every mutation marks the node and its
// ancestors dirty and recomputes lengths from the root, so a tree is always
// ready to be written:
//
//	ev := structure.NewBank(1, format.Bank, 0)
//	leaf := structure.NewBank(2, format.Int32, 5)
//	_ = leaf.AppendInt32s([]int32{10, 20, 30})
//	_ = ev.AddChild(leaf)
//
//	buf, err := ev.Bytes(endian.Default())
//
// Parse and ParseEvent rebuild a tree from serialized bytes.
//
// Structures are not safe for concurrent mutation.
package structure
