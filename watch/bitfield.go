package watch

// ReadBits extracts width bits from buf starting at the given bit offset,
// least significant bit first. Reads past the end of buf yield zero bits.
func ReadBits(buf []byte, bitOffset, width int) uint32 {
	var v uint32
	for i := 0; i < width; i++ {
		pos := bitOffset + i
		idx := pos / 8
		if idx < 0 || idx >= len(buf) {
			continue
		}
		if buf[idx]&(1<<(pos%8)) != 0 {
			v |= 1 << i
		}
	}
	return v
}

// WriteBits stores the low width bits of value into buf starting at the
// given bit offset, least significant bit first. Writes past the end of buf
// are dropped.
func WriteBits(buf []byte, bitOffset, width int, value uint32) {
	for i := 0; i < width; i++ {
		pos := bitOffset + i
		idx := pos / 8
		if idx < 0 || idx >= len(buf) {
			continue
		}
		mask := byte(1 << (pos % 8))
		if value&(1<<i) != 0 {
			buf[idx] |= mask
		} else {
			buf[idx] &^= mask
		}
	}
}
