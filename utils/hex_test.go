package utils

import (
	"bytes"
	"testing"
)

func TestHexToBytesCompact(t *testing.T) {
	got := HexToBytes("1F004C4F4E444F4E")
	want := []byte{0x1F, 0x00, 0x4C, 0x4F, 0x4E, 0x44, 0x4F, 0x4E}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestHexToBytesSpaced(t *testing.T) {
	got := HexToBytes("0x28 13 1E 00")
	want := []byte{0x28, 0x13, 0x1E, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// lower case and per-byte prefixes are also accepted
	got = HexToBytes("0x1d 0x00 0x01")
	want = []byte{0x1D, 0x00, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestHexToBytesInvalid(t *testing.T) {
	if got := HexToBytes("1F0"); got != nil {
		t.Errorf("Expected nil for odd-length input, got %v", got)
	}
	if got := HexToBytes("zz"); got != nil {
		t.Errorf("Expected nil for non-hex input, got %v", got)
	}
	if got := HexToBytes(""); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}

func TestToCompactHex(t *testing.T) {
	if got := ToCompactHex("0x1E 00 FF"); got != "1E00FF" {
		t.Errorf("Expected 1E00FF, got %s", got)
	}
	if got := ToCompactHex("1E00FF"); got != "1E00FF" {
		t.Errorf("Expected 1E00FF, got %s", got)
	}
}

func TestBytesToHexRoundTrip(t *testing.T) {
	data := []byte{0x00, 0x1F, 0xAB, 0xFF}
	hex := BytesToHex(data)
	if hex != "001FABFF" {
		t.Errorf("Expected 001FABFF, got %s", hex)
	}
	if got := HexToBytes(hex); !bytes.Equal(got, data) {
		t.Errorf("Round trip mismatch: %v != %v", got, data)
	}
}

func TestBytesToSpacedHex(t *testing.T) {
	if got := BytesToSpacedHex([]byte{0x28, 0x13, 0x1E, 0x00}); got != "0x28 13 1E 00" {
		t.Errorf("Expected '0x28 13 1E 00', got %q", got)
	}
	if got := BytesToSpacedHex(nil); got != "" {
		t.Errorf("Expected empty string for nil input, got %q", got)
	}
}

func TestAsciiFromBytes(t *testing.T) {
	frame := append([]byte{0x23}, []byte("CASIO GW-B5600\x00\x00")...)
	if got := AsciiFromBytes(frame, 1); got != "CASIO GW-B5600" {
		t.Errorf("Expected 'CASIO GW-B5600', got %q", got)
	}
	if got := AsciiFromBytes(frame, len(frame)+1); got != "" {
		t.Errorf("Expected empty string for out-of-range skip, got %q", got)
	}
}

func TestAsciiToHex(t *testing.T) {
	if got := AsciiToHex("NEW YORK"); got != "4E455720594F524B" {
		t.Errorf("Expected 4E455720594F524B, got %s", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("1F00", 8, '0'); got != "1F000000" {
		t.Errorf("Expected 1F000000, got %s", got)
	}
	if got := PadRight("1F000000", 4, '0'); got != "1F000000" {
		t.Errorf("Expected input unchanged, got %s", got)
	}
}
