package composite

import "errors"

// repeatForever is the count given to the last item of a trailing group;
// it repeats until the data runs out.
const repeatForever = 999999999

// errItemsDone stops encoding when the item list runs out in the middle of
// the format.
var errItemsDone = errors.New("composite: items exhausted")

type group struct {
	left    int // opcode index of the group opener
	nrepeat int
	irepeat int
}

// walker steps through compiled opcodes. Decode, Encode and SwapData share it
// and differ only in how they obtain N values and consume runs.
type walker struct {
	ops   []int
	imt   int // 1-based index of the current opcode, 0 before the first
	stack []group
}

func newWalker(ops []int) *walker {
	return &walker{ops: ops, stack: make([]group, 0, 4)}
}

// next advances to the next data opcode and returns its type code and repeat
// count. readN is called for every count stored in the data. Groups whose
// count is 0 are skipped together with any groups nested inside them.
func (w *walker) next(readN func() (int, error)) (int, int, error) {
	nfmt := len(w.ops)

	for {
		w.imt++
		if w.imt > nfmt {
			w.imt = 0
			continue
		}

		op := w.ops[w.imt-1]
		if op == opGroupEnd {
			if len(w.stack) == 0 {
				continue
			}

			top := &w.stack[len(w.stack)-1]
			top.irepeat++
			if top.irepeat >= top.nrepeat {
				w.stack = w.stack[:len(w.stack)-1]
			} else {
				w.imt = top.left
			}

			continue
		}

		count, code := op/16, op%16
		if code == opNGroup {
			n, err := readN()
			if err != nil {
				return 0, 0, err
			}
			code, count = opGroupEnd, n
		}

		if code == opGroupEnd {
			if count == 0 {
				w.skipGroup()
				continue
			}

			w.stack = append(w.stack, group{left: w.imt, nrepeat: count})

			continue
		}

		if n := len(w.stack); n > 0 && w.imt == nfmt-1 && w.imt == w.stack[n-1].left+1 {
			count = repeatForever
		}

		if count == 0 {
			n, err := readN()
			if err != nil {
				return 0, 0, err
			}
			count = n
		}

		return code, count, nil
	}
}

// skipGroup moves imt to the close of the group opened at imt.
func (w *walker) skipGroup() {
	depth := 1
	for depth > 0 && w.imt < len(w.ops) {
		w.imt++

		op := w.ops[w.imt-1]
		switch {
		case op == opGroupEnd:
			depth--
		case op%16 == opGroupEnd || op%16 == opNGroup:
			depth++
		}
	}
}

// runBytes returns the byte span of count elements of code starting at pos,
// clamped to end.
func runBytes(code, count, pos, end int) int {
	n := end - pos
	if span := opWidth(code) * count; span < n {
		n = span
	}

	return n
}
