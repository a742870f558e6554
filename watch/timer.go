package watch

// EncodeTimer encodes a countdown duration in seconds. Hours are unbounded
// on the host side; the watch itself caps the timer at 24 hours.
func EncodeTimer(seconds int) []byte {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	rest := seconds % 3600

	rec := make([]byte, 7)
	rec[0] = byte(CodeTimer)
	rec[1] = byte(hours)
	rec[2] = byte(rest / 60)
	rec[3] = byte(rest % 60)
	return rec
}

// DecodeTimer decodes a timer reply frame back into total seconds.
func DecodeTimer(frame []byte) (int, bool) {
	if len(frame) < 4 || Code(frame[0]) != CodeTimer {
		return 0, false
	}
	return int(frame[1])*3600 + int(frame[2])*60 + int(frame[3]), true
}
