package watch

// DecodeBatteryLevel decodes a battery reply into a 0..100 percentage. The
// watch reports a coarse half (bit 4 of byte 1) plus a 4-bit fine level in
// byte 2 that fills the remaining 50 points.
func DecodeBatteryLevel(frame []byte) (int, bool) {
	if len(frame) < 3 || Code(frame[0]) != CodeWatchCondition {
		return 0, false
	}
	level := 0
	if frame[1]&0x10 != 0 {
		level = 50
	}
	level += 50 * int(frame[2]&0x0F) / 15
	return level, true
}
