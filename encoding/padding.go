package encoding

var bytePads = [4]int{0, 3, 2, 1}

// BytePadding returns the number of pad bytes that follow n single-byte elements.
func BytePadding(n int) int {
	return bytePads[n%4]
}

// ShortPadding returns the number of pad bytes that follow n 16-bit elements.
func ShortPadding(n int) int {
	if n%2 == 1 {
		return 2
	}

	return 0
}

// PaddedLen rounds n bytes up to a 4-byte boundary.
func PaddedLen(n int) int {
	return n + bytePads[n%4]
}

// AppendPadding appends pad zero bytes to dst.
func AppendPadding(dst []byte, pad int) []byte {
	for range pad {
		dst = append(dst, 0)
	}

	return dst
}
