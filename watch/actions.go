package watch

// ActionKind names a host-side action that can run when the watch connects
// after a button press. The order is the bit layout and must stay stable.
type ActionKind int

const (
	ActionSetTime ActionKind = iota
	ActionSetAlarms
	ActionSetReminders
	ActionSetEvents
	ActionTakePhoto
	ActionFlashlight
	ActionVoiceAssistant
	ActionNextTrack
	ActionFindPhone

	actionCount
)

var actionNames = []string{
	"SET_TIME",
	"SET_ALARMS",
	"SET_REMINDERS",
	"SET_EVENTS",
	"TAKE_PHOTO",
	"FLASHLIGHT",
	"VOICE_ASSISTANT",
	"NEXT_TRACK",
	"FIND_PHONE",
}

func (a ActionKind) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "UNKNOWN"
	}
	return actionNames[a]
}

// ActionFromName is the inverse of ActionKind.String. ok is false for names
// outside the catalog.
func ActionFromName(name string) (ActionKind, bool) {
	for i, n := range actionNames {
		if n == name {
			return ActionKind(i), true
		}
	}
	return 0, false
}

// Nine flag bits fit in two bytes with room left over.
const actionStoreSize = 2

// ActionStore keeps one enabled bit per action inside the shared
// scratchpad.
type ActionStore struct {
	section *Section
}

func NewActionStore(pad *Scratchpad) *ActionStore {
	return &ActionStore{section: pad.Register("actions", actionStoreSize)}
}

// Enabled reports whether an action is switched on. Out-of-range actions
// read as disabled.
func (s *ActionStore) Enabled(a ActionKind) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return s.section.ReadBits(int(a), 1) != 0
}

// SetEnabled flips an action's bit. Out-of-range actions are ignored.
func (s *ActionStore) SetEnabled(a ActionKind, enabled bool) {
	if a < 0 || a >= actionCount {
		return
	}
	var v uint32
	if enabled {
		v = 1
	}
	s.section.WriteBits(int(a), 1, v)
}

// EnabledNames lists the names of every enabled action in bit order.
func (s *ActionStore) EnabledNames() []string {
	var out []string
	for a := ActionKind(0); a < actionCount; a++ {
		if s.Enabled(a) {
			out = append(out, a.String())
		}
	}
	return out
}
