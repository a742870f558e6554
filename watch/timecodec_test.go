package watch

import (
	"testing"
	"time"
)

func TestEncodeCurrentTimeLayout(t *testing.T) {
	// Sunday 2023-06-18 14:30:45.500
	ts := time.Date(2023, time.June, 18, 14, 30, 45, 500*int(time.Millisecond), time.UTC)
	frame := EncodeCurrentTime(ts)
	if len(frame) != 11 {
		t.Fatalf("Expected 11-byte record, got %d", len(frame))
	}
	if frame[0] != 0x09 {
		t.Errorf("Expected command byte 0x09, got 0x%02X", frame[0])
	}
	if frame[1] != 0xE7 || frame[2] != 0x07 {
		t.Errorf("Expected year 2023 little-endian (E7 07), got %02X %02X", frame[1], frame[2])
	}
	if frame[3] != 6 || frame[4] != 18 {
		t.Errorf("Expected month 6 day 18, got %d %d", frame[3], frame[4])
	}
	if frame[5] != 14 || frame[6] != 30 {
		t.Errorf("Expected 14:30, got %d:%d", frame[5], frame[6])
	}
	// Seconds travel off by one
	if frame[7] != 46 {
		t.Errorf("Expected seconds byte 46, got %d", frame[7])
	}
	// Sunday maps to 7, not 0
	if frame[8] != 7 {
		t.Errorf("Expected weekday 7 for Sunday, got %d", frame[8])
	}
	// round(500 * 256 / 1000) = 128
	if frame[9] != 128 {
		t.Errorf("Expected fraction 128, got %d", frame[9])
	}
	if frame[10] != 1 {
		t.Errorf("Expected trailing byte 1, got %d", frame[10])
	}
}

func TestEncodeCurrentTimeWeekdays(t *testing.T) {
	// 2023-06-19 is a Monday; walk the whole week
	for i := 0; i < 7; i++ {
		ts := time.Date(2023, time.June, 19+i, 0, 0, 0, 0, time.UTC)
		frame := EncodeCurrentTime(ts)
		if int(frame[8]) != i+1 {
			t.Errorf("Day offset %d: expected weekday %d, got %d", i, i+1, frame[8])
		}
	}
}

func TestSubSecondFractionBounds(t *testing.T) {
	if v := subSecondFraction(0); v != 0 {
		t.Errorf("Expected fraction 0 at second start, got %d", v)
	}
	if v := subSecondFraction(999 * int(time.Millisecond)); v > 255 {
		t.Errorf("Fraction overflowed: %d", v)
	}
}

func TestCurrentTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, time.December, 31, 23, 59, 58, 0, time.UTC)
	decoded, ok := DecodeCurrentTime(EncodeCurrentTime(ts))
	if !ok {
		t.Fatal("Failed to decode time frame")
	}
	if !decoded.Equal(ts) {
		t.Errorf("Expected %v, got %v", ts, decoded)
	}
}
