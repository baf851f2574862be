package asm

var hex = "0123456789ABCDEF"

// toBytes returns a little-endian representation of value using the
// requested number of bytes (1, 2 or 4).
func toBytes(bytes int, value uint32) []byte {
	switch bytes {
	case 1:
		return []byte{byte(value)}
	case 2:
		return []byte{byte(value), byte(value >> 8)}
	default:
		return []byte{byte(value), byte(value >> 8), byte(value >> 16), byte(value >> 24)}
	}
}

// byteString returns a hexadecimal string representation of a byte slice,
// used by verbose logging to print the bytes an encoder step emitted.
func byteString(b []byte) string {
	if len(b) < 1 {
		return ""
	}

	s := make([]byte, len(b)*3-1)
	i, j := 0, 0
	for n := len(b) - 1; i < n; i, j = i+1, j+3 {
		s[j+0] = hex[(b[i] >> 4)]
		s[j+1] = hex[(b[i] & 0x0f)]
		s[j+2] = ' '
	}
	s[j+0] = hex[(b[i] >> 4)]
	s[j+1] = hex[(b[i] & 0x0f)]
	return string(s)
}
