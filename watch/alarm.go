package watch

// Alarm is one of the watch's five daily alarms.
type Alarm struct {
	Hour        int  `json:"hour"`
	Minute      int  `json:"minute"`
	Enabled     bool `json:"enabled"`
	HourlyChime bool `json:"hasHourlyChime"`
}

const (
	alarmEnabledMask     = 0x40
	alarmHourlyChimeMask = 0x80
	alarmConstant        = 0x40

	alarmRecordSize = 4
)

func alarmFlags(a Alarm) byte {
	var flags byte
	if a.Enabled {
		flags |= alarmEnabledMask
	}
	if a.HourlyChime {
		flags |= alarmHourlyChimeMask
	}
	return flags
}

func appendAlarmRecord(dst []byte, a Alarm) []byte {
	return append(dst, alarmFlags(a), alarmConstant, byte(a.Hour), byte(a.Minute))
}

func decodeAlarmRecord(rec []byte) Alarm {
	return Alarm{
		Hour:        int(rec[2]),
		Minute:      int(rec[3]),
		Enabled:     rec[0]&alarmEnabledMask != 0,
		HourlyChime: rec[0]&alarmHourlyChimeMask != 0,
	}
}

// EncodeFirstAlarm encodes alarm 1, which the watch stores as a singleton
// record behind its own command code.
func EncodeFirstAlarm(a Alarm) []byte {
	return appendAlarmRecord([]byte{byte(CodeFirstAlarm)}, a)
}

// EncodeSecondaryAlarms encodes alarms 2..N as a repeating block. The first
// element of alarms is alarm 1 and is skipped; with fewer than two alarms
// there is nothing to send and the result is empty.
func EncodeSecondaryAlarms(alarms []Alarm) []byte {
	if len(alarms) < 2 {
		return nil
	}
	out := []byte{byte(CodeSecondaryAlarms)}
	for _, a := range alarms[1:] {
		out = appendAlarmRecord(out, a)
	}
	return out
}

// DecodeFirstAlarm decodes a first-alarm reply frame.
func DecodeFirstAlarm(frame []byte) (Alarm, bool) {
	if len(frame) < 1+alarmRecordSize || Code(frame[0]) != CodeFirstAlarm {
		return Alarm{}, false
	}
	return decodeAlarmRecord(frame[1:]), true
}

// DecodeSecondaryAlarms decodes a secondary-alarms reply frame by chunking
// the payload into 4-byte records. A trailing partial record is ignored.
func DecodeSecondaryAlarms(frame []byte) []Alarm {
	if len(frame) < 1 || Code(frame[0]) != CodeSecondaryAlarms {
		return nil
	}
	payload := frame[1:]
	var alarms []Alarm
	for len(payload) >= alarmRecordSize {
		alarms = append(alarms, decodeAlarmRecord(payload[:alarmRecordSize]))
		payload = payload[alarmRecordSize:]
	}
	return alarms
}
