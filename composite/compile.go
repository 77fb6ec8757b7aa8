package composite

import (
	"fmt"

	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
)

// Opcode type codes. A compiled opcode is 16*count + code.
const (
	opGroupEnd = 0
	opUint32   = 1
	opFloat32  = 2
	opChars    = 3
	opShort16  = 4
	opUshort16 = 5
	opChar8    = 6
	opUchar8   = 7
	opDouble64 = 8
	opLong64   = 9
	opUlong64  = 10
	opInt32    = 11
	opHollerit = 12
	opNGroup   = 15

	maxRepeat = 15
)

var letterCodes = map[byte]int{
	'i': opUint32,
	'F': opFloat32,
	'a': opChars,
	'S': opShort16,
	's': opUshort16,
	'C': opChar8,
	'c': opUchar8,
	'D': opDouble64,
	'L': opLong64,
	'l': opUlong64,
	'I': opInt32,
	'A': opHollerit,
}

// opTypes maps an opcode type code to the data type of the items it produces.
var opTypes = [...]format.DataType{
	opUint32:   format.Uint32,
	opFloat32:  format.Float32,
	opChars:    format.CharStar8,
	opShort16:  format.Short16,
	opUshort16: format.Ushort16,
	opChar8:    format.Char8,
	opUchar8:   format.Uchar8,
	opDouble64: format.Double64,
	opLong64:   format.Long64,
	opUlong64:  format.Ulong64,
	opInt32:    format.Int32,
	opHollerit: format.Hollerit,
}

// opWidth returns the element width in bytes of a type code.
func opWidth(code int) int {
	switch code {
	case opDouble64, opLong64, opUlong64:
		return 8
	case opUint32, opFloat32, opInt32, opHollerit:
		return 4
	case opShort16, opUshort16:
		return 2
	default:
		return 1
	}
}

// Compile translates a format string into opcodes.
//
// Each opcode is 16*count + code where code is the type code of a letter,
// 0 closes a group and 15 opens a group whose count is read from the data.
// For example "(2I,1F)" compiles to [16 43 18 0].
//
// Spaces are ignored. All errors wrap errs.ErrCompile.
func Compile(fmtStr string) ([]int, error) {
	ops := make([]int, 0, 2*len(fmtStr))
	nr, nn, lev := 0, 1, 0

	fail := func(pos int, msg string) ([]int, error) {
		return nil, fmt.Errorf("%w: %s at position %d of %q", errs.ErrCompile, msg, pos, fmtStr)
	}

	for pos := 0; pos < len(fmtStr); pos++ {
		ch := fmtStr[pos]

		switch {
		case ch == ' ':
			continue

		case ch >= '0' && ch <= '9':
			if nr < 0 {
				return fail(pos, "no negative repeats")
			}
			nr = 10*max(0, nr) + int(ch-'0')
			if nr > maxRepeat {
				return fail(pos, "no more than 15 repeats allowed")
			}

		case ch == '(':
			if nr < 0 {
				return fail(pos, "no negative repeats")
			}
			lev++
			if nn == 0 {
				ops = append(ops, opNGroup)
			} else {
				ops = append(ops, 16*max(nn, nr))
			}
			nn, nr = 1, 0

		case ch == ')':
			if nr >= 0 {
				return fail(pos, "cannot repeat right parenthesis")
			}
			lev--
			ops = append(ops, opGroupEnd)
			nr = -1

		case ch == ',':
			if nr >= 0 {
				return fail(pos, "cannot repeat comma")
			}
			nr = 0

		case ch == 'N':
			nn = 0

		default:
			code, ok := letterCodes[ch]
			if !ok {
				return fail(pos, fmt.Sprintf("illegal character %q", ch))
			}
			if nr < 0 {
				return fail(pos, "no negative repeats")
			}
			ops = append(ops, 16*max(nn, nr)+code)
			nn, nr = 1, -1
		}
	}

	if lev != 0 {
		return nil, fmt.Errorf("%w: mismatched parentheses in %q", errs.ErrCompile, fmtStr)
	}

	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: empty format %q", errs.ErrCompile, fmtStr)
	}

	return ops, nil
}
