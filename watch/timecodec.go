package watch

import "time"

// EncodeCurrentTime encodes a calendar timestamp as the watch expects it:
// 2-byte little-endian year, 1-based month, day, hour, minute, seconds+1,
// ISO weekday (Sunday=7), and a 1/256s sub-second fraction. The seconds
// off-by-one and the weekday mapping are watch firmware quirks; changing
// either breaks time sync on real hardware.
func EncodeCurrentTime(t time.Time) []byte {
	rec := make([]byte, 11)
	rec[0] = byte(CodeCurrentTime)

	year := t.Year()
	rec[1] = byte(year)
	rec[2] = byte(year >> 8)
	rec[3] = byte(t.Month())
	rec[4] = byte(t.Day())
	rec[5] = byte(t.Hour())
	rec[6] = byte(t.Minute())
	rec[7] = byte(t.Second() + 1)
	rec[8] = byte(isoWeekday(t.Weekday()))
	rec[9] = subSecondFraction(t.Nanosecond())
	rec[10] = 1
	return rec
}

// DecodeCurrentTime reverses EncodeCurrentTime, undoing the seconds
// off-by-one. The location of the result is UTC; the watch has no zone
// concept in this record.
func DecodeCurrentTime(frame []byte) (time.Time, bool) {
	if len(frame) < 10 || Code(frame[0]) != CodeCurrentTime {
		return time.Time{}, false
	}
	year := int(frame[1]) | int(frame[2])<<8
	nanos := int(frame[9]) * 1000 / 256 * int(time.Millisecond)
	return time.Date(year, time.Month(frame[3]), int(frame[4]),
		int(frame[5]), int(frame[6]), int(frame[7])-1, nanos, time.UTC), true
}

// isoWeekday maps Go's Sunday=0 weekday onto the watch's Monday=1..Sunday=7.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// subSecondFraction converts nanoseconds-of-second to 1/256s units,
// rounding to nearest and saturating at 255.
func subSecondFraction(nanos int) byte {
	ms := nanos / int(time.Millisecond)
	v := (ms*256 + 500) / 1000
	if v > 255 {
		v = 255
	}
	return byte(v)
}
