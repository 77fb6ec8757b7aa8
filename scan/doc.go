// Package scan reads the structure of a serialized evio event without
// decoding payloads.
//
// A Handler wraps one buffer. NewHandler reads only the top header; Scan
// walks every header once and records a Node per structure with its offsets
// and header fields. Data and StructureBytes slice the buffer by node.
//
// AddStructure appends a serialized child to the top container. The handler
// then owns a fresh buffer holding only that container and shifts all
// recorded offsets accordingly.
package scan
