package utils

import (
	"strings"
)

// The watch renders frames as upper-case hex pairs, sometimes separated by
// spaces and sometimes with a "0x" prefix per byte ("0x28 13 1E 00"). All
// parsing helpers accept any of these renderings.

// HexToBytes converts a hex rendering to a byte slice. Invalid input yields
// nil rather than an error; frames from the watch are untrusted and callers
// treat an empty result as a dropped frame.
func HexToBytes(s string) []byte {
	pairs := splitHexPairs(s)
	if pairs == nil {
		return nil
	}

	out := make([]byte, 0, len(pairs))
	for _, p := range pairs {
		b, ok := parseHexByte(p)
		if !ok {
			return nil
		}
		out = append(out, b)
	}
	return out
}

// ToCompactHex strips spaces and per-byte "0x" prefixes, leaving only the
// hex digits ("0x28 13 1E" -> "28131E").
func ToCompactHex(s string) string {
	var sb strings.Builder
	for _, tok := range strings.Fields(s) {
		sb.WriteString(strings.TrimPrefix(tok, "0x"))
	}
	if sb.Len() == 0 {
		return strings.TrimPrefix(s, "0x")
	}
	return sb.String()
}

// BytesToHex renders bytes as upper-case hex pairs with no separators.
func BytesToHex(data []byte) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		out = append(out, digits[b>>4], digits[b&0x0F])
	}
	return string(out)
}

// BytesToSpacedHex renders bytes the way the watch traces do:
// "0x28 13 1E 00".
func BytesToSpacedHex(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("0x")
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(BytesToHex([]byte{b}))
	}
	return sb.String()
}

// AsciiFromBytes converts a frame to printable ASCII, skipping the leading
// command bytes and dropping NUL padding anywhere in the payload.
func AsciiFromBytes(data []byte, skip int) string {
	if skip < 0 || skip > len(data) {
		return ""
	}
	var sb strings.Builder
	for _, b := range data[skip:] {
		if b == 0x00 {
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

// AsciiToHex renders an ASCII string as upper-case hex pairs.
func AsciiToHex(s string) string {
	return BytesToHex([]byte(s))
}

// PadRight extends s to n characters with pad. Strings already at least n
// long come back unchanged.
func PadRight(s string, n int, pad byte) string {
	if len(s) >= n {
		return s
	}
	var sb strings.Builder
	sb.Grow(n)
	sb.WriteString(s)
	for sb.Len() < n {
		sb.WriteByte(pad)
	}
	return sb.String()
}

func splitHexPairs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.ContainsAny(s, " \t") {
		toks := strings.Fields(s)
		for i, tok := range toks {
			toks[i] = strings.TrimPrefix(tok, "0x")
		}
		return toks
	}

	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		return nil
	}
	pairs := make([]string, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		pairs = append(pairs, s[i:i+2])
	}
	return pairs
}

func parseHexByte(s string) (byte, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	var v byte
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
