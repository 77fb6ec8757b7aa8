// Package swap converts serialized evio structures between big-endian and
// little-endian byte order.
//
// Headers are swapped word by word, containers recursively, and leaf payloads
// at their element width. Composite payloads are interpreted with their format
// string so that each field swaps at its own width. 8-bit and string data do
// not change and are only copied when the destination is a separate buffer.
//
//	// in place
//	err := swap.Event(buf, endian.GetLittleEndianEngine(), nil)
//
//	// into another buffer, collecting node positions
//	var nodes []*scan.Node
//	err = swap.Event(src, engine, dst, swap.WithNodes(&nodes))
package swap
