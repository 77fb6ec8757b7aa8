// Package encoding converts between evio payload bytes and typed Go slices.
//
// Every conversion takes an explicit endian.EndianEngine. A nil engine means
// the evio wire default, big-endian.
//
// # Numeric Arrays
//
// Decoders reject input whose length is not a multiple of the element size
// with errs.ErrFormat. Callers trim padding before decoding:
//
//	vals, err := encoding.Int16s(engine, raw[:len(raw)-pad])
//
// Encoders append to a destination slice in the style of the
// binary.AppendByteOrder interface:
//
//	raw = encoding.AppendInt32s(engine, raw, []int32{10, 20, 30})
//
// # Padding
//
// Byte and short payloads are padded to a 4-byte boundary. BytePadding and
// ShortPadding return the pad size recorded in bank and segment headers.
//
// # String Arrays
//
// A CHARSTAR8 payload is each string followed by NUL, then one to four 0x04
// bytes so that the total is a multiple of 4. The trailing 0x04 marks the
// format; data without it is treated as a legacy single string terminated by
// the first NUL.
//
// # Swapping
//
// Swap and SwapInPlace reverse the bytes of each element of a given width.
// They are used by the swap engine and by structure serialization when the
// target byte order differs from the node's.
package encoding
