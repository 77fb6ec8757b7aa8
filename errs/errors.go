// Package errs defines the sentinel errors returned by the evio packages.
//
// Errors fall into five classes that callers can test with errors.Is:
//
//   - ErrFormat: malformed wire bytes (bad magic, inconsistent lengths, truncated headers)
//   - ErrTypeMismatch: an operation incompatible with a declared data type
//   - ErrOverflow: a length or count that does not fit the 32-bit signed range
//   - ErrBufferTooSmall: a destination region that cannot hold the result
//   - ErrCompile: a malformed composite format string
//
// The more specific errors below wrap one of these classes, so
// errors.Is(errs.ErrInvalidMagicNumber, errs.ErrFormat) reports true.
package errs

import (
	"errors"
	"fmt"
)

// Error classes.
var (
	ErrFormat         = errors.New("evio: bad format")
	ErrTypeMismatch   = errors.New("evio: data type mismatch")
	ErrOverflow       = errors.New("evio: length overflow")
	ErrBufferTooSmall = errors.New("evio: buffer too small")
	ErrCompile        = errors.New("evio: bad composite format")
)

// Format errors.
var (
	ErrInvalidHeaderSize  = fmt.Errorf("%w: invalid header size", ErrFormat)
	ErrInvalidMagicNumber = fmt.Errorf("%w: invalid magic number", ErrFormat)
	ErrInvalidDataType    = fmt.Errorf("%w: invalid data type", ErrFormat)
	ErrInvalidLength      = fmt.Errorf("%w: length inconsistent with buffer size", ErrFormat)
	ErrInvalidStrings     = fmt.Errorf("%w: invalid string data", ErrFormat)
	ErrNoCompositeData    = fmt.Errorf("%w: no composite data", ErrFormat)
	ErrInvalidVersion     = fmt.Errorf("%w: unsupported block version", ErrFormat)
)

// Type errors.
var (
	ErrNotContainer       = fmt.Errorf("%w: structure does not hold structures", ErrTypeMismatch)
	ErrNotLeaf            = fmt.Errorf("%w: structure holds structures", ErrTypeMismatch)
	ErrByteOrderMismatch  = fmt.Errorf("%w: byte order mismatch", ErrTypeMismatch)
	ErrCompositeItemType  = fmt.Errorf("%w: composite item type does not match format", ErrTypeMismatch)
	ErrInvalidCompression = fmt.Errorf("%w: unsupported compression type", ErrTypeMismatch)
)

// Usage errors that do not belong to a wire-level class.
var (
	ErrInvalidArgument   = errors.New("evio: invalid argument")
	ErrClosed            = errors.New("evio: object closed")
	ErrNoDictionaryEntry = errors.New("evio: no dictionary entry")
	ErrDuplicateEntry    = errors.New("evio: duplicate dictionary entry")
	ErrInvalidEntryName  = errors.New("evio: invalid dictionary entry name")
	ErrNoMoreEvents      = errors.New("evio: no more events")
)
