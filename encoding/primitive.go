package encoding

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
)

func decode[T any](data []byte, size int, read func([]byte) T) ([]T, error) {
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of element size %d", errs.ErrFormat, len(data), size)
	}

	out := make([]T, len(data)/size)
	for i := range out {
		out[i] = read(data[i*size:])
	}

	return out, nil
}

// Int8s reinterprets data as signed bytes.
func Int8s(data []byte) []int8 {
	out := make([]int8, len(data))
	for i, b := range data {
		out[i] = int8(b)
	}

	return out
}

// Int16s decodes data as signed 16-bit integers.
func Int16s(engine endian.EndianEngine, data []byte) ([]int16, error) {
	engine = endian.OrDefault(engine)
	return decode(data, 2, func(b []byte) int16 { return int16(engine.Uint16(b)) }) //nolint:gosec
}

// Uint16s decodes data as unsigned 16-bit integers.
func Uint16s(engine endian.EndianEngine, data []byte) ([]uint16, error) {
	engine = endian.OrDefault(engine)
	return decode(data, 2, engine.Uint16)
}

// Int32s decodes data as signed 32-bit integers.
func Int32s(engine endian.EndianEngine, data []byte) ([]int32, error) {
	engine = endian.OrDefault(engine)
	return decode(data, 4, func(b []byte) int32 { return int32(engine.Uint32(b)) }) //nolint:gosec
}

// Uint32s decodes data as unsigned 32-bit integers.
func Uint32s(engine endian.EndianEngine, data []byte) ([]uint32, error) {
	engine = endian.OrDefault(engine)
	return decode(data, 4, engine.Uint32)
}

// Int64s decodes data as signed 64-bit integers.
func Int64s(engine endian.EndianEngine, data []byte) ([]int64, error) {
	engine = endian.OrDefault(engine)
	return decode(data, 8, func(b []byte) int64 { return int64(engine.Uint64(b)) }) //nolint:gosec
}

// Uint64s decodes data as unsigned 64-bit integers.
func Uint64s(engine endian.EndianEngine, data []byte) ([]uint64, error) {
	engine = endian.OrDefault(engine)
	return decode(data, 8, engine.Uint64)
}

// Float32s decodes data as IEEE 754 single precision floats.
func Float32s(engine endian.EndianEngine, data []byte) ([]float32, error) {
	engine = endian.OrDefault(engine)
	return decode(data, 4, func(b []byte) float32 { return math.Float32frombits(engine.Uint32(b)) })
}

// Float64s decodes data as IEEE 754 double precision floats.
func Float64s(engine endian.EndianEngine, data []byte) ([]float64, error) {
	engine = endian.OrDefault(engine)
	return decode(data, 8, func(b []byte) float64 { return math.Float64frombits(engine.Uint64(b)) })
}

// AppendInt8s appends v to dst as raw bytes.
func AppendInt8s(dst []byte, v []int8) []byte {
	dst = slices.Grow(dst, len(v))
	for _, x := range v {
		dst = append(dst, byte(x))
	}

	return dst
}

// AppendInt16s appends v to dst as 16-bit words.
func AppendInt16s(engine endian.EndianEngine, dst []byte, v []int16) []byte {
	engine = endian.OrDefault(engine)
	dst = slices.Grow(dst, 2*len(v))
	for _, x := range v {
		dst = engine.AppendUint16(dst, uint16(x)) //nolint:gosec
	}

	return dst
}

// AppendUint16s appends v to dst as 16-bit words.
func AppendUint16s(engine endian.EndianEngine, dst []byte, v []uint16) []byte {
	engine = endian.OrDefault(engine)
	dst = slices.Grow(dst, 2*len(v))
	for _, x := range v {
		dst = engine.AppendUint16(dst, x)
	}

	return dst
}

// AppendInt32s appends v to dst as 32-bit words.
func AppendInt32s(engine endian.EndianEngine, dst []byte, v []int32) []byte {
	engine = endian.OrDefault(engine)
	dst = slices.Grow(dst, 4*len(v))
	for _, x := range v {
		dst = engine.AppendUint32(dst, uint32(x)) //nolint:gosec
	}

	return dst
}

// AppendUint32s appends v to dst as 32-bit words.
func AppendUint32s(engine endian.EndianEngine, dst []byte, v []uint32) []byte {
	engine = endian.OrDefault(engine)
	dst = slices.Grow(dst, 4*len(v))
	for _, x := range v {
		dst = engine.AppendUint32(dst, x)
	}

	return dst
}

// AppendInt64s appends v to dst as 64-bit words.
func AppendInt64s(engine endian.EndianEngine, dst []byte, v []int64) []byte {
	engine = endian.OrDefault(engine)
	dst = slices.Grow(dst, 8*len(v))
	for _, x := range v {
		dst = engine.AppendUint64(dst, uint64(x)) //nolint:gosec
	}

	return dst
}

// AppendUint64s appends v to dst as 64-bit words.
func AppendUint64s(engine endian.EndianEngine, dst []byte, v []uint64) []byte {
	engine = endian.OrDefault(engine)
	dst = slices.Grow(dst, 8*len(v))
	for _, x := range v {
		dst = engine.AppendUint64(dst, x)
	}

	return dst
}

// AppendFloat32s appends v to dst in IEEE 754 single precision.
func AppendFloat32s(engine endian.EndianEngine, dst []byte, v []float32) []byte {
	engine = endian.OrDefault(engine)
	dst = slices.Grow(dst, 4*len(v))
	for _, x := range v {
		dst = engine.AppendUint32(dst, math.Float32bits(x))
	}

	return dst
}

// AppendFloat64s appends v to dst in IEEE 754 double precision.
func AppendFloat64s(engine endian.EndianEngine, dst []byte, v []float64) []byte {
	engine = endian.OrDefault(engine)
	dst = slices.Grow(dst, 8*len(v))
	for _, x := range v {
		dst = engine.AppendUint64(dst, math.Float64bits(x))
	}

	return dst
}
