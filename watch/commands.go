package watch

// Code identifies a data item on the watch. Every frame on the all-features
// characteristic starts with one of these, both in requests ("send me item
// X") and in replies.
type Code byte

const (
	CodeCurrentTime     Code = 0x09
	CodeBLEFeatures     Code = 0x10 // carries the pressed-button info
	CodeSettings        Code = 0x13
	CodeFirstAlarm      Code = 0x15
	CodeSecondaryAlarms Code = 0x16
	CodeTimer           Code = 0x18
	CodeDSTWatchState   Code = 0x1D
	CodeDSTSetting      Code = 0x1E
	CodeWorldCity       Code = 0x1F
	CodeAppInfo         Code = 0x22
	CodeWatchName       Code = 0x23
	CodeWatchCondition  Code = 0x28 // battery level
	CodeReminderTitle   Code = 0x30
	CodeReminderTime    Code = 0x31
)

func (c Code) String() string {
	switch c {
	case CodeCurrentTime:
		return "CurrentTime"
	case CodeBLEFeatures:
		return "BLEFeatures"
	case CodeSettings:
		return "Settings"
	case CodeFirstAlarm:
		return "FirstAlarm"
	case CodeSecondaryAlarms:
		return "SecondaryAlarms"
	case CodeTimer:
		return "Timer"
	case CodeDSTWatchState:
		return "DSTWatchState"
	case CodeDSTSetting:
		return "DSTSetting"
	case CodeWorldCity:
		return "WorldCity"
	case CodeAppInfo:
		return "AppInfo"
	case CodeWatchName:
		return "WatchName"
	case CodeWatchCondition:
		return "WatchCondition"
	case CodeReminderTitle:
		return "ReminderTitle"
	case CodeReminderTime:
		return "ReminderTime"
	}
	return "Unknown"
}

// wide reports whether replies for this code are keyed on the first two
// bytes instead of just the command byte. The multi-item families (world
// cities, DST settings, DST watch state) reply once per item index, so the
// index byte is part of the match key.
func (c Code) wide() bool {
	switch c {
	case CodeDSTWatchState, CodeDSTSetting, CodeWorldCity:
		return true
	}
	return false
}

// MatchKey pairs an issued request with its reply. Narrow codes use the
// command byte alone; wide codes fold in the item index byte.
type MatchKey uint16

// keyFor derives the match key for a frame. Frames shorter than two bytes
// cannot be classified and are reported as noise.
func keyFor(frame []byte) (MatchKey, bool) {
	if len(frame) < 2 {
		return 0, false
	}
	c := Code(frame[0])
	if c.wide() {
		return MatchKey(uint16(frame[0])<<8 | uint16(frame[1])), true
	}
	return MatchKey(frame[0]), true
}

// requestKey derives the match key for an outgoing request payload, using
// the same wide/narrow rules as reply classification. Unlike replies, a
// single-byte request is a valid narrow key.
func requestKey(req []byte) (MatchKey, bool) {
	if len(req) == 0 {
		return 0, false
	}
	c := Code(req[0])
	if c.wide() {
		if len(req) < 2 {
			return 0, false
		}
		return MatchKey(uint16(req[0])<<8 | uint16(req[1])), true
	}
	return MatchKey(req[0]), true
}
