// Package composite implements the evio COMPOSITE data type.
//
// A composite item pairs a format string such as "N(2I,F)" with the data it
// describes. On the wire it is a tagsegment holding the format as a CHARSTAR8
// string, followed by a bank of type COMPOSITE holding the data:
//
//	+-------------------------------+
//	| tagsegment header (1 word)    |
//	| format string (padded)        |
//	+-------------------------------+
//	| bank header (2 words)         |
//	| data (padded)                 |
//	+-------------------------------+
//
// # Format Language
//
// Each letter names one element type:
//
//	i UINT32   F FLOAT32  a CHARSTAR8  S SHORT16  s USHORT16  C CHAR8
//	c UCHAR8   D DOUBLE64 L LONG64     l ULONG64  I INT32     A HOLLERIT
//
// A number (1-15) before a letter or "(" repeats it, "N" takes the repeat
// count from the data stream, parentheses group items and commas separate
// them. When the format list is exhausted it starts again from the beginning,
// and the last item inside a trailing group repeats until the data ends.
//
// Compile turns a format into opcodes (16*repeat + type code). The same
// automaton drives Decode, Encode and SwapData.
//
// # Basic Usage
//
//	b := composite.NewBuilder()
//	b.AddN(2)
//	b.AddInt32s([]int32{1, 2})
//	b.AddFloat32(1.5)
//
//	d, err := composite.New("N(I),F", 1, b, 2, 3)
//	if err != nil {
//		return err
//	}
//
//	r := d.Reader()
//	n, _ := r.NValue()
//
// # Thread Safety
//
// Compile, Decode, Encode and the swap functions are reentrant. A Data value
// is immutable after construction; a Reader and a Builder are not safe for
// concurrent use.
package composite
