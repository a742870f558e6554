package watch

// Button identifies how the watch initiated the current connection.
type Button string

const (
	ButtonLowerLeft       Button = "LOWER_LEFT"
	ButtonLowerRight      Button = "LOWER_RIGHT"
	ButtonNoButton        Button = "NO_BUTTON"
	ButtonFindPhone       Button = "FIND_PHONE"
	ButtonAlwaysConnected Button = "ALWAYS_CONNECTED"
	ButtonInvalid         Button = "INVALID"
)

// DecodeButton reads the connection-trigger byte out of a BLE-features
// reply. Frames shorter than the full record decode as ButtonInvalid so the
// caller can fall back to a safe default.
func DecodeButton(frame []byte) Button {
	if len(frame) < 19 {
		return ButtonInvalid
	}
	b := frame[8]
	switch {
	case b&0x08 != 0:
		// Auto-connect from an always-connected watch; no button involved.
		return ButtonAlwaysConnected
	case b&0x02 != 0:
		return ButtonFindPhone
	case b == 0 || b&0x01 != 0:
		return ButtonLowerLeft
	case b&0x04 != 0:
		return ButtonLowerRight
	case b == 0x03:
		return ButtonNoButton
	default:
		return ButtonLowerLeft
	}
}

// IsAutoTrigger reports whether the connection happened without the user
// pressing anything, which callers use to skip interactive actions.
func (b Button) IsAutoTrigger() bool {
	return b == ButtonNoButton || b == ButtonAlwaysConnected
}
