package watch

// Settings mirrors the watch's basic settings record. String fields use the
// same vocabulary as the watch app ("12h"/"24h", "2s"/"4s", "MM:DD"/"DD:MM",
// English..Russian); the zero value of every field maps to a zero bit on the
// wire, so a partially filled struct never corrupts the record.
type Settings struct {
	TimeFormat      string `json:"timeFormat"`
	ButtonTone      bool   `json:"buttonTone"`
	AutoLight       bool   `json:"autoLight"`
	PowerSavingMode bool   `json:"powerSavingMode"`
	LightDuration   string `json:"lightDuration"`
	DateFormat      string `json:"dateFormat"`
	Language        string `json:"language"`
}

const (
	settingsRecordSize = 12

	mask24Hours       = 0b00000001
	maskButtonToneOff = 0b00000010
	maskAutoLightOff  = 0b00000100
	maskPowerSaveOff  = 0b00010000
)

// The byte-5 language ordinal is fixed by the watch firmware.
var languages = []string{"English", "Spanish", "French", "German", "Italian", "Russian"}

// EncodeSettings builds the fixed 12-byte settings record.
func EncodeSettings(s Settings) []byte {
	rec := make([]byte, settingsRecordSize)
	rec[0] = byte(CodeSettings)

	if s.TimeFormat == "24h" {
		rec[1] |= mask24Hours
	}
	if !s.ButtonTone {
		rec[1] |= maskButtonToneOff
	}
	if !s.AutoLight {
		rec[1] |= maskAutoLightOff
	}
	if !s.PowerSavingMode {
		rec[1] |= maskPowerSaveOff
	}
	if s.LightDuration == "4s" {
		rec[2] = 1
	}
	if s.DateFormat == "DD:MM" {
		rec[4] = 1
	}
	for i, lang := range languages {
		if s.Language == lang {
			rec[5] = byte(i)
			break
		}
	}
	return rec
}

// DecodeSettings decodes a settings reply frame.
func DecodeSettings(frame []byte) (Settings, bool) {
	if len(frame) < 6 || Code(frame[0]) != CodeSettings {
		return Settings{}, false
	}

	s := Settings{
		ButtonTone:      frame[1]&maskButtonToneOff == 0,
		AutoLight:       frame[1]&maskAutoLightOff == 0,
		PowerSavingMode: frame[1]&maskPowerSaveOff == 0,
		TimeFormat:      "12h",
		LightDuration:   "2s",
		DateFormat:      "MM:DD",
	}
	if frame[1]&mask24Hours != 0 {
		s.TimeFormat = "24h"
	}
	if frame[2] == 1 {
		s.LightDuration = "4s"
	}
	if frame[4] == 1 {
		s.DateFormat = "DD:MM"
	}
	if int(frame[5]) < len(languages) {
		s.Language = languages[frame[5]]
	}
	return s, true
}
