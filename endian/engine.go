// Package endian provides byte order utilities for evio encoding and decoding.
//
// An evio document has one byte order for all of its words. This package wraps
// the standard encoding/binary orders in a single EndianEngine interface so that
// header codecs, primitive codecs and the swap engine can read, write and append
// with the same value.
//
// # Basic Usage
//
// Big-endian is the evio wire default:
//
//	engine := endian.Default()
//	word := engine.Uint32(buf[0:4])
//
// Swapping code asks for the opposite order:
//
//	dst := endian.Opposite(engine)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Default returns the evio wire default, big-endian.
func Default() EndianEngine {
	return binary.BigEndian
}

// OrDefault returns engine, or the big-endian engine when engine is nil.
func OrDefault(engine EndianEngine) EndianEngine {
	if engine == nil {
		return binary.BigEndian
	}

	return engine
}

// IsBigEndian reports whether engine writes the most significant byte first.
// A nil engine is treated as the big-endian default.
func IsBigEndian(engine EndianEngine) bool {
	if engine == nil {
		return true
	}

	return engine.Uint16([]byte{0x01, 0x00}) == 0x0100
}

// Same reports whether two engines use the same byte order.
func Same(a, b EndianEngine) bool {
	return IsBigEndian(a) == IsBigEndian(b)
}

// Opposite returns the engine with the other byte order.
func Opposite(engine EndianEngine) EndianEngine {
	if IsBigEndian(engine) {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

// Name returns "big" or "little".
func Name(engine EndianEngine) string {
	if IsBigEndian(engine) {
		return "big"
	}

	return "little"
}

// Parse maps "big"/"little" (also "be"/"le") to an engine.
// It returns false for any other name.
func Parse(name string) (EndianEngine, bool) {
	switch name {
	case "big", "be", "BIG_ENDIAN":
		return binary.BigEndian, true
	case "little", "le", "LITTLE_ENDIAN":
		return binary.LittleEndian, true
	default:
		return nil, false
	}
}
