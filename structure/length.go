package structure

import (
	"fmt"
	"math"

	"github.com/arloliu/evio/errs"
)

// RecomputeLengths updates the header length of s and every dirty
// descendant and returns the length of s in words.
//
// A clean node returns its cached length. Leaf payloads are always stored
// padded, so a leaf's data length is its raw size in words; a container adds
// the full size of each child. Totals above math.MaxInt32 return
// errs.ErrOverflow and leave the header untouched.
func (s *Structure) RecomputeLengths() (uint32, error) {
	if !s.dirty {
		return s.header.Length, nil
	}

	total := int64(s.header.HeaderLength() - 1)

	if len(s.children) > 0 {
		for _, c := range s.children {
			n, err := c.RecomputeLengths()
			if err != nil {
				return 0, err
			}

			total += int64(n) + 1
			if total > math.MaxInt32 {
				return 0, fmt.Errorf("%w: %s exceeds %d words", errs.ErrOverflow, s.header.Kind, math.MaxInt32)
			}
		}
	} else {
		total += int64(len(s.raw) / 4)
		if total > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s exceeds %d words", errs.ErrOverflow, s.header.Kind, math.MaxInt32)
		}
	}

	s.header.Length = uint32(total)
	s.dirty = false

	return s.header.Length, nil
}

// TotalBytes returns the serialized size of s, header included.
func (s *Structure) TotalBytes() (int, error) {
	n, err := s.RecomputeLengths()
	if err != nil {
		return 0, err
	}

	return 4 * (int(n) + 1), nil
}
