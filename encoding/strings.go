package encoding

const (
	stringTerminator = 0x00
	stringPad        = 0x04
)

var stringPads = [4]int{4, 3, 2, 1}

// StringsEncodedLen returns the encoded size of strs in bytes, padding included.
// It returns 0 for an empty list.
func StringsEncodedLen(strs []string) int {
	if len(strs) == 0 {
		return 0
	}

	n := 0
	for _, s := range strs {
		n += len(s) + 1
	}

	return n + stringPads[n%4]
}

// EncodeStrings encodes strs as a CHARSTAR8 payload.
// It returns nil for an empty list.
func EncodeStrings(strs []string) []byte {
	if len(strs) == 0 {
		return nil
	}

	return AppendStrings(make([]byte, 0, StringsEncodedLen(strs)), strs)
}

// AppendStrings appends the CHARSTAR8 encoding of strs to dst.
//
// The result always ends in at least one 0x04 byte.
func AppendStrings(dst []byte, strs []string) []byte {
	if len(strs) == 0 {
		return dst
	}

	n := 0
	for _, s := range strs {
		dst = append(dst, s...)
		dst = append(dst, stringTerminator)
		n += len(s) + 1
	}

	for range stringPads[n%4] {
		dst = append(dst, stringPad)
	}

	return dst
}

// IsStringsFormat reports whether data ends in the 0x04 pad byte that marks
// a multi-string payload.
func IsStringsFormat(data []byte) bool {
	return len(data) > 0 && data[len(data)-1] == stringPad
}

// DecodeStrings extracts the strings of a CHARSTAR8 payload.
//
// Without the 0x04 trailer the payload is a legacy single string ending at the
// first NUL. The scan stops at the first control byte that is neither NUL nor
// whitespace. Every NUL-terminated segment before that point is returned,
// empty strings included. It returns nil for empty input or when no NUL is found.
func DecodeStrings(data []byte) []string {
	return scanStrings(data)
}

// NormalizeStrings decodes data and returns it re-encoded in the multi-string
// format. Data already in that format is returned unchanged. When no string
// can be extracted, data is returned as is with a nil list.
func NormalizeStrings(data []byte) ([]byte, []string) {
	strs := scanStrings(data)
	if strs == nil || IsStringsFormat(data) {
		return data, strs
	}

	return EncodeStrings(strs), strs
}

func scanStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	multi := IsStringsFormat(data)

	var strs []string
	start := 0
	for i, c := range data {
		if c == stringTerminator {
			strs = append(strs, string(data[start:i]))
			start = i + 1
			if !multi {
				break
			}

			continue
		}

		if (c < 32 || c == 127) && !isSpace(c) {
			break
		}
	}

	return strs
}

// isSpace matches the ASCII control characters treated as whitespace:
// tab, line feed, vertical tab, form feed, carriage return and the four
// information separators 0x1c-0x1f.
func isSpace(c byte) bool {
	return (c >= '\t' && c <= '\r') || (c >= 0x1c && c <= 0x1f)
}
