// Package section encodes and decodes the fixed-layout headers of the evio format.
//
// # Structure Headers
//
// Every evio structure starts with a bank, segment or tagsegment header. All
// three are written as 32-bit words in the document byte order, so the byte
// order of the sub-fields follows the word:
//
//	Bank (2 words):       [length:32] [tag:16 | type:6 pad:2 | num:8]
//	Segment (1 word):     [tag:8 | type:6 pad:2 | length:16]
//	TagSegment (1 word):  [tag:12 | type:4 | length:16]
//
// A type byte of exactly 0x40 was used for tagsegments by early evio writers
// and is decoded as TAGSEGMENT with no padding.
//
// Round trip:
//
//	h, _, err := section.ParseBankHeader(raw, engine)
//	out := h.Bytes(engine) // equal to raw[:8]
//
// # Block Headers
//
// BlockHeader is the 8-word header that groups events in files and streams.
// Its last word holds the magic number 0xc0da0100, which also tells readers
// the byte order of the block.
package section
