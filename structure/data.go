package structure

import (
	"bytes"
	"fmt"

	"github.com/arloliu/evio/composite"
	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

// appendData adds the bytes produced by enc to the payload.
//
// With set, existing data is discarded first and the header is retyped to t
// when its type belongs to another family. Without set, a type outside the
// family of t returns errs.ErrTypeMismatch and leaves s unchanged.
func (s *Structure) appendData(t format.DataType, set bool, enc func(engine endian.EndianEngine, dst []byte) []byte) error {
	if len(s.children) > 0 {
		return fmt.Errorf("%w: %s has %d children", errs.ErrNotLeaf, s.header.Kind, len(s.children))
	}

	if set {
		s.clearData()
		if s.header.Type.Family() != t.Family() {
			s.header.Type = t
		}
	} else if s.header.Type.Family() != t.Family() {
		return fmt.Errorf("%w: cannot add %s data to %s of type %s", errs.ErrTypeMismatch, t, s.header.Kind, s.header.Type)
	}

	// Capacity is capped so enc never writes into a slice from RawBytes.
	n := len(s.raw) - int(s.header.Pad)
	data := enc(s.engine, s.raw[:n:n])
	pad := encoding.PaddedLen(len(data)) - len(data)
	s.raw = encoding.AppendPadding(data, pad)
	s.header.Pad = uint8(pad) //nolint:gosec

	return s.touch()
}

func (s *Structure) clearData() {
	s.raw = nil
	s.strs = nil
	s.comps = nil
	s.header.Pad = 0
}

// AppendInt32s appends INT32 data. The type must be INT32 or UINT32.
func (s *Structure) AppendInt32s(v []int32) error {
	return s.appendData(format.Int32, false, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendInt32s(e, dst, v)
	})
}

// AppendUint32s appends UINT32 data. The type must be INT32 or UINT32.
func (s *Structure) AppendUint32s(v []uint32) error {
	return s.appendData(format.Uint32, false, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendUint32s(e, dst, v)
	})
}

// AppendInt16s appends SHORT16 data. The type must be SHORT16 or USHORT16.
func (s *Structure) AppendInt16s(v []int16) error {
	return s.appendData(format.Short16, false, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendInt16s(e, dst, v)
	})
}

// AppendUint16s appends USHORT16 data. The type must be SHORT16 or USHORT16.
func (s *Structure) AppendUint16s(v []uint16) error {
	return s.appendData(format.Ushort16, false, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendUint16s(e, dst, v)
	})
}

// AppendInt64s appends LONG64 data. The type must be LONG64 or ULONG64.
func (s *Structure) AppendInt64s(v []int64) error {
	return s.appendData(format.Long64, false, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendInt64s(e, dst, v)
	})
}

// AppendUint64s appends ULONG64 data. The type must be LONG64 or ULONG64.
func (s *Structure) AppendUint64s(v []uint64) error {
	return s.appendData(format.Ulong64, false, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendUint64s(e, dst, v)
	})
}

// AppendInt8s appends CHAR8 data. The type must be CHAR8 or UCHAR8.
func (s *Structure) AppendInt8s(v []int8) error {
	return s.appendData(format.Char8, false, func(_ endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendInt8s(dst, v)
	})
}

// AppendUint8s appends UCHAR8 data. The type must be CHAR8 or UCHAR8.
func (s *Structure) AppendUint8s(v []uint8) error {
	return s.appendData(format.Uchar8, false, func(_ endian.EndianEngine, dst []byte) []byte {
		return append(dst, v...)
	})
}

// AppendFloat32s appends FLOAT32 data.
func (s *Structure) AppendFloat32s(v []float32) error {
	return s.appendData(format.Float32, false, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendFloat32s(e, dst, v)
	})
}

// AppendFloat64s appends DOUBLE64 data.
func (s *Structure) AppendFloat64s(v []float64) error {
	return s.appendData(format.Double64, false, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendFloat64s(e, dst, v)
	})
}

// AppendStrings adds strings to a CHARSTAR8 payload. The whole array is
// re-encoded; string padding lives in the data, so the header pad stays 0.
//
// A parsed payload holding no NUL-terminated string cannot be extended and
// returns errs.ErrInvalidStrings. SetStrings replaces it.
func (s *Structure) AppendStrings(strs ...string) error {
	return s.appendStrings(false, strs)
}

func (s *Structure) appendStrings(set bool, strs []string) error {
	if len(s.children) > 0 {
		return fmt.Errorf("%w: %s has %d children", errs.ErrNotLeaf, s.header.Kind, len(s.children))
	}

	if set {
		s.clearData()
		s.header.Type = format.CharStar8
	} else if s.header.Type != format.CharStar8 {
		return fmt.Errorf("%w: cannot add strings to %s of type %s", errs.ErrTypeMismatch, s.header.Kind, s.header.Type)
	} else if s.strs == nil && len(s.raw) > 0 {
		return fmt.Errorf("%w: %d payload bytes hold no terminated string", errs.ErrInvalidStrings, len(s.raw))
	}

	s.strs = append(s.strs, strs...)
	s.raw = encoding.EncodeStrings(s.strs)
	s.header.Pad = 0

	return s.touch()
}

// AppendComposite adds composite items to a COMPOSITE payload. Items in the
// other byte order are swapped into the order of s.
func (s *Structure) AppendComposite(items ...*composite.Data) error {
	return s.appendComposite(false, items)
}

func (s *Structure) appendComposite(set bool, items []*composite.Data) error {
	if len(s.children) > 0 {
		return fmt.Errorf("%w: %s has %d children", errs.ErrNotLeaf, s.header.Kind, len(s.children))
	}

	if set {
		s.clearData()
		s.header.Type = format.Composite
	} else if s.header.Type != format.Composite {
		return fmt.Errorf("%w: cannot add composite data to %s of type %s", errs.ErrTypeMismatch, s.header.Kind, s.header.Type)
	}

	for _, d := range items {
		if d == nil {
			continue
		}

		raw := d.RawBytes()
		if !endian.Same(d.ByteOrder(), s.engine) {
			swapped := make([]byte, len(raw))
			if err := composite.SwapAll(raw, swapped, d.ByteOrder()); err != nil {
				return err
			}

			var err error
			if d, err = composite.NewFromBytes(swapped, s.engine); err != nil {
				return err
			}
			raw = swapped
		}

		s.raw = append(s.raw, raw...)
		s.comps = append(s.comps, d)
	}
	s.header.Pad = 0

	return s.touch()
}

// SetInt32s replaces the payload with INT32 data.
func (s *Structure) SetInt32s(v []int32) error {
	return s.appendData(format.Int32, true, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendInt32s(e, dst, v)
	})
}

// SetUint32s replaces the payload with UINT32 data.
func (s *Structure) SetUint32s(v []uint32) error {
	return s.appendData(format.Uint32, true, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendUint32s(e, dst, v)
	})
}

// SetInt16s replaces the payload with SHORT16 data.
func (s *Structure) SetInt16s(v []int16) error {
	return s.appendData(format.Short16, true, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendInt16s(e, dst, v)
	})
}

// SetUint16s replaces the payload with USHORT16 data.
func (s *Structure) SetUint16s(v []uint16) error {
	return s.appendData(format.Ushort16, true, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendUint16s(e, dst, v)
	})
}

// SetInt64s replaces the payload with LONG64 data.
func (s *Structure) SetInt64s(v []int64) error {
	return s.appendData(format.Long64, true, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendInt64s(e, dst, v)
	})
}

// SetUint64s replaces the payload with ULONG64 data.
func (s *Structure) SetUint64s(v []uint64) error {
	return s.appendData(format.Ulong64, true, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendUint64s(e, dst, v)
	})
}

// SetInt8s replaces the payload with CHAR8 data.
func (s *Structure) SetInt8s(v []int8) error {
	return s.appendData(format.Char8, true, func(_ endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendInt8s(dst, v)
	})
}

// SetUint8s replaces the payload with UCHAR8 data.
func (s *Structure) SetUint8s(v []uint8) error {
	return s.appendData(format.Uchar8, true, func(_ endian.EndianEngine, dst []byte) []byte {
		return append(dst, v...)
	})
}

// SetFloat32s replaces the payload with FLOAT32 data.
func (s *Structure) SetFloat32s(v []float32) error {
	return s.appendData(format.Float32, true, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendFloat32s(e, dst, v)
	})
}

// SetFloat64s replaces the payload with DOUBLE64 data.
func (s *Structure) SetFloat64s(v []float64) error {
	return s.appendData(format.Double64, true, func(e endian.EndianEngine, dst []byte) []byte {
		return encoding.AppendFloat64s(e, dst, v)
	})
}

// SetStrings replaces the payload with a CHARSTAR8 string array.
func (s *Structure) SetStrings(strs ...string) error {
	return s.appendStrings(true, strs)
}

// SetComposite replaces the payload with composite items.
func (s *Structure) SetComposite(items ...*composite.Data) error {
	return s.appendComposite(true, items)
}

// RawBytes returns the payload, padding included, in the byte order of s.
// The slice must not be modified. Later appends do not change it.
func (s *Structure) RawBytes() []byte { return s.raw }

// data returns the payload without padding.
func (s *Structure) data() []byte {
	if int(s.header.Pad) > len(s.raw) {
		return nil
	}

	return s.raw[:len(s.raw)-int(s.header.Pad)]
}

func (s *Structure) checkFamily(t format.DataType) error {
	if s.header.Type.Family() != t.Family() {
		return fmt.Errorf("%w: %s holds %s, not %s", errs.ErrTypeMismatch, s.header.Kind, s.header.Type, t)
	}

	return nil
}

// Int32s decodes INT32 or UINT32 data as int32 values.
func (s *Structure) Int32s() ([]int32, error) {
	if err := s.checkFamily(format.Int32); err != nil {
		return nil, err
	}

	return encoding.Int32s(s.engine, s.data())
}

// Uint32s decodes INT32 or UINT32 data as uint32 values.
func (s *Structure) Uint32s() ([]uint32, error) {
	if err := s.checkFamily(format.Uint32); err != nil {
		return nil, err
	}

	return encoding.Uint32s(s.engine, s.data())
}

// Int16s decodes SHORT16 or USHORT16 data as int16 values.
func (s *Structure) Int16s() ([]int16, error) {
	if err := s.checkFamily(format.Short16); err != nil {
		return nil, err
	}

	return encoding.Int16s(s.engine, s.data())
}

// Uint16s decodes SHORT16 or USHORT16 data as uint16 values.
func (s *Structure) Uint16s() ([]uint16, error) {
	if err := s.checkFamily(format.Ushort16); err != nil {
		return nil, err
	}

	return encoding.Uint16s(s.engine, s.data())
}

// Int64s decodes LONG64 or ULONG64 data as int64 values.
func (s *Structure) Int64s() ([]int64, error) {
	if err := s.checkFamily(format.Long64); err != nil {
		return nil, err
	}

	return encoding.Int64s(s.engine, s.data())
}

// Uint64s decodes LONG64 or ULONG64 data as uint64 values.
func (s *Structure) Uint64s() ([]uint64, error) {
	if err := s.checkFamily(format.Ulong64); err != nil {
		return nil, err
	}

	return encoding.Uint64s(s.engine, s.data())
}

// Int8s returns CHAR8 or UCHAR8 data as int8 values.
func (s *Structure) Int8s() ([]int8, error) {
	if err := s.checkFamily(format.Char8); err != nil {
		return nil, err
	}

	return encoding.Int8s(s.data()), nil
}

// Uint8s returns a copy of CHAR8 or UCHAR8 data.
func (s *Structure) Uint8s() ([]uint8, error) {
	if err := s.checkFamily(format.Uchar8); err != nil {
		return nil, err
	}

	return bytes.Clone(s.data()), nil
}

// Float32s decodes FLOAT32 data.
func (s *Structure) Float32s() ([]float32, error) {
	if err := s.checkFamily(format.Float32); err != nil {
		return nil, err
	}

	return encoding.Float32s(s.engine, s.data())
}

// Float64s decodes DOUBLE64 data.
func (s *Structure) Float64s() ([]float64, error) {
	if err := s.checkFamily(format.Double64); err != nil {
		return nil, err
	}

	return encoding.Float64s(s.engine, s.data())
}

// Strings returns the CHARSTAR8 string array.
func (s *Structure) Strings() ([]string, error) {
	if err := s.checkFamily(format.CharStar8); err != nil {
		return nil, err
	}

	return s.strs, nil
}

// Composites returns the composite items of a COMPOSITE payload.
func (s *Structure) Composites() ([]*composite.Data, error) {
	if err := s.checkFamily(format.Composite); err != nil {
		return nil, err
	}

	return s.comps, nil
}

// NumberDataItems returns the number of data items in s.
//
// For structures with children it is the payload size in bytes. For string
// arrays it is the number of strings, for composite payloads the number of
// composite items, or 1 when they could not be decoded.
func (s *Structure) NumberDataItems() int {
	if len(s.children) > 0 {
		n := 0
		for _, c := range s.children {
			total, err := c.TotalBytes()
			if err != nil {
				return 0
			}
			n += total
		}

		return n
	}

	switch s.header.Type { //nolint:exhaustive
	case format.CharStar8:
		return len(s.strs)
	case format.Composite:
		if len(s.comps) > 0 {
			return len(s.comps)
		}
		if len(s.raw) > 0 {
			return 1
		}

		return 0
	}

	size := s.header.Type.ElementSize()
	if size == 0 {
		return len(s.data())
	}

	return len(s.data()) / size
}
