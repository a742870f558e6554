package watch

import "testing"

func TestSettingsRoundTrip(t *testing.T) {
	s := Settings{
		TimeFormat:      "24h",
		ButtonTone:      true,
		AutoLight:       false,
		PowerSavingMode: true,
		LightDuration:   "4s",
		DateFormat:      "DD:MM",
		Language:        "German",
	}
	frame := EncodeSettings(s)
	if len(frame) != 12 {
		t.Fatalf("Expected 12-byte record, got %d", len(frame))
	}
	decoded, ok := DecodeSettings(frame)
	if !ok {
		t.Fatal("Failed to decode settings")
	}
	if decoded != s {
		t.Errorf("Expected %+v, got %+v", s, decoded)
	}
}

func TestSettingsZeroValueDefaults(t *testing.T) {
	// All-false booleans set their "off" bits; empty strings map to the
	// first option of each enum
	frame := EncodeSettings(Settings{})
	if frame[1]&mask24Hours != 0 {
		t.Error("Empty time format must not set the 24h bit")
	}
	if frame[1]&maskButtonToneOff == 0 {
		t.Error("Disabled button tone must set the off bit")
	}
	if frame[2] != 0 {
		t.Errorf("Expected light duration byte 0, got %d", frame[2])
	}
	if frame[5] != 0 {
		t.Errorf("Expected language ordinal 0, got %d", frame[5])
	}
}

func TestDecodeSettingsLanguages(t *testing.T) {
	for i, want := range languages {
		frame := make([]byte, 12)
		frame[0] = 0x13
		frame[5] = byte(i)
		s, ok := DecodeSettings(frame)
		if !ok {
			t.Fatalf("Failed to decode language ordinal %d", i)
		}
		if s.Language != want {
			t.Errorf("Ordinal %d: expected %s, got %s", i, want, s.Language)
		}
	}
	// Out-of-range ordinal decodes to empty, never panics
	frame := make([]byte, 12)
	frame[0] = 0x13
	frame[5] = 9
	s, _ := DecodeSettings(frame)
	if s.Language != "" {
		t.Errorf("Expected empty language for bad ordinal, got %s", s.Language)
	}
}

func TestDecodeSettingsTooShort(t *testing.T) {
	if _, ok := DecodeSettings([]byte{0x13, 0x01}); ok {
		t.Error("Expected decode failure on short frame")
	}
}
