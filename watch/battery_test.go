package watch

import "testing"

func TestDecodeBatteryLevelKnownFrame(t *testing.T) {
	level, ok := DecodeBatteryLevel([]byte{0x28, 0x13, 0x1E, 0x00})
	if !ok {
		t.Fatal("Failed to decode battery frame")
	}
	if level != 96 {
		t.Errorf("Expected 96%%, got %d%%", level)
	}
}

func TestDecodeBatteryLevelBounds(t *testing.T) {
	for b1 := 0; b1 < 256; b1++ {
		for nib := 0; nib < 16; nib++ {
			level, ok := DecodeBatteryLevel([]byte{0x28, byte(b1), byte(nib)})
			if !ok {
				t.Fatal("Decode failed on well-formed frame")
			}
			if level < 0 || level > 100 {
				t.Fatalf("Level out of range: byte1=0x%02X nibble=%d -> %d", b1, nib, level)
			}
		}
	}
}

func TestDecodeBatteryLevelMonotonic(t *testing.T) {
	prev := -1
	for nib := 0; nib < 16; nib++ {
		level, _ := DecodeBatteryLevel([]byte{0x28, 0x00, byte(nib)})
		if level < prev {
			t.Errorf("Level decreased at nibble %d: %d < %d", nib, level, prev)
		}
		prev = level
	}
	low, _ := DecodeBatteryLevel([]byte{0x28, 0x00, 0x0F})
	high, _ := DecodeBatteryLevel([]byte{0x28, 0x10, 0x00})
	if high < low-50 {
		t.Errorf("50%% bit not monotonic: %d vs %d", high, low)
	}
}

func TestDecodeBatteryLevelTooShort(t *testing.T) {
	if _, ok := DecodeBatteryLevel([]byte{0x28, 0x13}); ok {
		t.Error("Expected decode failure on short frame")
	}
	if _, ok := DecodeBatteryLevel([]byte{0x23, 0x13, 0x1E}); ok {
		t.Error("Expected decode failure on wrong command byte")
	}
}
