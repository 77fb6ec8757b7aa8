package structure

import (
	"fmt"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/swap"
)

// Write serializes s into dst in the byte order of engine and returns the
// number of bytes written.
//
// Lengths are recomputed first. Payloads stored in the other byte order are
// swapped element by element while copying.
//
// Returns errs.ErrBufferTooSmall when dst cannot hold TotalBytes, and
// errs.ErrOverflow when a header field does not fit its layout.
func (s *Structure) Write(dst []byte, engine endian.EndianEngine) (int, error) {
	total, err := s.TotalBytes()
	if err != nil {
		return 0, err
	}

	if len(dst) < total {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, total, len(dst))
	}

	return s.write(dst, endian.OrDefault(engine))
}

func (s *Structure) write(dst []byte, engine endian.EndianEngine) (int, error) {
	n, err := s.header.WriteToSlice(dst, engine)
	if err != nil {
		return 0, err
	}

	if len(s.children) > 0 {
		for _, c := range s.children {
			m, err := c.write(dst[n:], engine)
			if err != nil {
				return 0, err
			}
			n += m
		}

		return n, nil
	}

	if endian.Same(engine, s.engine) {
		n += copy(dst[n:], s.raw)
		return n, nil
	}

	if err := swap.Payload(dst[n:n+len(s.raw)], s.raw, s.header.Type, int(s.header.Pad), s.engine); err != nil {
		return 0, err
	}

	return n + len(s.raw), nil
}

// AppendTo appends the serialized form of s to dst.
func (s *Structure) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	total, err := s.TotalBytes()
	if err != nil {
		return dst, err
	}

	start := len(dst)
	dst = append(dst, make([]byte, total)...)
	if _, err := s.write(dst[start:], endian.OrDefault(engine)); err != nil {
		return dst[:start], err
	}

	return dst, nil
}

// Bytes returns the serialized form of s.
func (s *Structure) Bytes(engine endian.EndianEngine) ([]byte, error) {
	total, err := s.TotalBytes()
	if err != nil {
		return nil, err
	}

	return s.AppendTo(make([]byte, 0, total), engine)
}
