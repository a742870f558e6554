package watch

import (
	"bytes"
	"testing"
)

func TestEncodeFirstAlarm(t *testing.T) {
	// Known-good frame: enabled, no chime, 06:46
	a := Alarm{Hour: 6, Minute: 46, Enabled: true}
	got := EncodeFirstAlarm(a)
	want := []byte{0x15, 0x40, 0x40, 0x06, 0x2E}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected % X, got % X", want, got)
	}
}

func TestAlarmRoundTrip(t *testing.T) {
	cases := []Alarm{
		{Hour: 0, Minute: 0},
		{Hour: 23, Minute: 59, Enabled: true, HourlyChime: true},
		{Hour: 7, Minute: 30, Enabled: true},
		{Hour: 12, Minute: 15, HourlyChime: true},
	}
	for _, a := range cases {
		decoded, ok := DecodeFirstAlarm(EncodeFirstAlarm(a))
		if !ok {
			t.Fatalf("Failed to decode alarm %+v", a)
		}
		if decoded != a {
			t.Errorf("Expected %+v, got %+v", a, decoded)
		}
	}
}

func TestEncodeSecondaryAlarmsTooFew(t *testing.T) {
	if got := EncodeSecondaryAlarms(nil); got != nil {
		t.Errorf("Expected nil for empty input, got % X", got)
	}
	if got := EncodeSecondaryAlarms([]Alarm{{Hour: 7}}); got != nil {
		t.Errorf("Expected nil for single alarm, got % X", got)
	}
}

func TestSecondaryAlarmsRoundTrip(t *testing.T) {
	alarms := []Alarm{
		{Hour: 6, Minute: 0, Enabled: true},
		{Hour: 7, Minute: 15, Enabled: true, HourlyChime: true},
		{Hour: 8, Minute: 30},
		{Hour: 22, Minute: 45, Enabled: true},
		{Hour: 23, Minute: 59},
	}
	frame := EncodeSecondaryAlarms(alarms)
	decoded := DecodeSecondaryAlarms(frame)
	if len(decoded) != len(alarms)-1 {
		t.Fatalf("Expected %d alarms, got %d", len(alarms)-1, len(decoded))
	}
	for i, a := range decoded {
		if a != alarms[i+1] {
			t.Errorf("Alarm %d: expected %+v, got %+v", i, alarms[i+1], a)
		}
	}
}

func TestDecodeSecondaryAlarmsPartialRecord(t *testing.T) {
	// 4-byte record plus 2 trailing bytes; the partial record is dropped
	frame := []byte{0x16, 0x40, 0x40, 0x07, 0x1E, 0x40, 0x40}
	decoded := DecodeSecondaryAlarms(frame)
	if len(decoded) != 1 {
		t.Fatalf("Expected 1 alarm, got %d", len(decoded))
	}
	if decoded[0].Hour != 7 || decoded[0].Minute != 30 {
		t.Errorf("Expected 07:30, got %02d:%02d", decoded[0].Hour, decoded[0].Minute)
	}
}

func TestDecodeFirstAlarmTooShort(t *testing.T) {
	if _, ok := DecodeFirstAlarm([]byte{0x15, 0x40}); ok {
		t.Error("Expected decode failure on short frame")
	}
}
