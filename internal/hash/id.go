// Package hash provides the xxHash64 helpers used for dictionary name IDs
// and event content digests.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Digest computes the xxHash64 of raw event bytes.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digester accumulates a digest over several byte regions, such as the
// events of one block.
type Digester struct {
	d *xxhash.Digest
}

// NewDigester creates an empty Digester.
func NewDigester() *Digester {
	return &Digester{d: xxhash.New()}
}

// Add feeds data into the digest.
func (d *Digester) Add(data []byte) {
	_, _ = d.d.Write(data)
}

// Sum returns the digest of everything added so far.
func (d *Digester) Sum() uint64 {
	return d.d.Sum64()
}
