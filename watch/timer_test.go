package watch

import "testing"

func TestTimerRoundTrip(t *testing.T) {
	cases := []int{0, 1, 59, 60, 61, 3599, 3600, 3661, 45296, 99*3600 + 3599}
	for _, seconds := range cases {
		frame := EncodeTimer(seconds)
		decoded, ok := DecodeTimer(frame)
		if !ok {
			t.Fatalf("Failed to decode timer for %d seconds", seconds)
		}
		if decoded != seconds {
			t.Errorf("Expected %d seconds, got %d", seconds, decoded)
		}
	}
}

func TestEncodeTimerLayout(t *testing.T) {
	frame := EncodeTimer(1*3600 + 2*60 + 3)
	if len(frame) != 7 {
		t.Fatalf("Expected 7-byte record, got %d", len(frame))
	}
	if frame[0] != 0x18 || frame[1] != 1 || frame[2] != 2 || frame[3] != 3 {
		t.Errorf("Unexpected layout % X", frame)
	}
}

func TestEncodeTimerNegative(t *testing.T) {
	decoded, ok := DecodeTimer(EncodeTimer(-5))
	if !ok || decoded != 0 {
		t.Errorf("Expected negative input to clamp to 0, got %d", decoded)
	}
}

func TestDecodeTimerTooShort(t *testing.T) {
	if _, ok := DecodeTimer([]byte{0x18, 0x01}); ok {
		t.Error("Expected decode failure on short frame")
	}
}
