package structure

import (
	"bytes"
	"fmt"

	"github.com/arloliu/evio/composite"
	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/section"
)

// ParseEvent parses an event, a bank at the start of data.
func ParseEvent(data []byte, engine endian.EndianEngine) (*Structure, error) {
	return Parse(data, engine, format.KindBank)
}

// Parse builds a tree from the structure of the given kind at the start of
// data. Payload bytes are copied, so data may be reused afterwards. Bytes
// after the structure are ignored.
//
// Legacy single-string payloads are converted to the multi-string format,
// which may change their length.
//
// A length that runs past the available bytes, or a child that does not fit
// its parent, returns an errs.ErrFormat error and no tree.
func Parse(data []byte, engine endian.EndianEngine, kind format.StructureKind) (*Structure, error) {
	engine = endian.OrDefault(engine)

	s, _, err := parseNode(data, engine, kind, 0)
	if err != nil {
		return nil, err
	}

	if s.dirty {
		if _, err := s.RecomputeLengths(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func parseNode(data []byte, engine endian.EndianEngine, kind format.StructureKind, offset int) (*Structure, int, error) {
	h, hs, err := section.Parse(kind, data, engine)
	if err != nil {
		return nil, 0, fmt.Errorf("%s at byte %d: %w", kind, offset, err)
	}

	if kind == format.KindBank && h.Length < 1 {
		return nil, 0, fmt.Errorf("%w: bank at byte %d has length %d", errs.ErrInvalidLength, offset, h.Length)
	}

	total := 4 * (int(h.Length) + 1)
	if total > len(data) {
		return nil, 0, fmt.Errorf("%w: %s at byte %d needs %d bytes, have %d", errs.ErrInvalidLength, kind, offset, total, len(data))
	}

	s := &Structure{header: h, engine: engine}
	payload := data[hs:total]

	if childKind, ok := h.Type.ChildKind(); ok {
		for pos := 0; pos < len(payload); {
			c, n, err := parseNode(payload[pos:], engine, childKind, offset+hs+pos)
			if err != nil {
				return nil, 0, err
			}

			c.parent = s
			s.children = append(s.children, c)
			if c.dirty {
				s.dirty = true
			}
			pos += n
		}

		return s, total, nil
	}

	if int(h.Pad) > len(payload) {
		return nil, 0, fmt.Errorf("%w: %s at byte %d has padding %d but %d payload bytes", errs.ErrInvalidLength, kind, offset, h.Pad, len(payload))
	}

	s.raw = bytes.Clone(payload)

	switch h.Type { //nolint:exhaustive
	case format.CharStar8:
		raw, strs := encoding.NormalizeStrings(s.raw)
		s.strs = strs
		if len(raw) != len(s.raw) || !bytes.Equal(raw, s.raw) {
			s.raw = raw
			s.header.Pad = 0
			s.dirty = true
		}
	case format.Composite:
		comps, err := composite.Parse(s.raw, engine)
		if err != nil {
			return nil, 0, fmt.Errorf("%s at byte %d: %w", kind, offset, err)
		}
		s.comps = comps
	}

	return s, total, nil
}
