package watch

import "bytes"

// appInfoResetSentinel is what a factory-reset watch reports for its app
// registration record.
var appInfoResetSentinel = []byte{
	byte(CodeAppInfo),
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00,
}

// appInfoRegistration is the fixed registration record written back so the
// watch stops advertising for pairing on every connection.
var appInfoRegistration = []byte{
	byte(CodeAppInfo),
	0x34, 0x88, 0xF4, 0xE5, 0xD5, 0xAF, 0xC8, 0x29, 0xE0, 0x6D, 0x02,
}

// NeedsAppRegistration reports whether an app-info reply is the reset
// sentinel, meaning the registration record must be written back.
func NeedsAppRegistration(frame []byte) bool {
	return bytes.Equal(frame, appInfoResetSentinel)
}

// AppRegistrationRecord returns a copy of the record to write when
// NeedsAppRegistration is true.
func AppRegistrationRecord() []byte {
	out := make([]byte, len(appInfoRegistration))
	copy(out, appInfoRegistration)
	return out
}
