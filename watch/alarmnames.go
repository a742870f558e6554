package watch

const (
	alarmNameSlots    = 6
	alarmNameBits     = 3
	alarmNameSentinel = 0x7

	// Two 3-bit codes share a byte, one in the low nibble and one in the
	// high, so six slots need three bytes.
	alarmNameStoreSize = 3
)

// AlarmNames is the fixed catalog a slot code indexes into. Index 0 is the
// generic label; the rest are the five daily prayers.
var AlarmNames = []string{"Daily", "Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// AlarmNameStore keeps a 3-bit name code per alarm slot inside the shared
// scratchpad. The sentinel code 0x7 means "no name assigned".
type AlarmNameStore struct {
	section *Section
}

// NewAlarmNameStore registers the store's section and marks every slot
// unnamed. Call Scratchpad.Load afterwards to pick up persisted codes.
func NewAlarmNameStore(pad *Scratchpad) *AlarmNameStore {
	s := &AlarmNameStore{section: pad.Register("alarm-names", alarmNameStoreSize)}
	for i := 0; i < alarmNameSlots; i++ {
		s.section.WriteBits(i*4, alarmNameBits, alarmNameSentinel)
	}
	return s
}

// Name returns the label for a slot, or "" when the slot is unnamed or out
// of range.
func (s *AlarmNameStore) Name(slot int) string {
	if slot < 0 || slot >= alarmNameSlots {
		return ""
	}
	code := s.section.ReadBits(slot*4, alarmNameBits)
	if code == alarmNameSentinel || int(code) >= len(AlarmNames) {
		return ""
	}
	return AlarmNames[code]
}

// SetName assigns a catalog label to a slot. An empty name clears the slot.
// Unknown names and out-of-range slots are ignored.
func (s *AlarmNameStore) SetName(slot int, name string) {
	if slot < 0 || slot >= alarmNameSlots {
		return
	}
	if name == "" {
		s.section.WriteBits(slot*4, alarmNameBits, alarmNameSentinel)
		return
	}
	for i, n := range AlarmNames {
		if n == name {
			s.section.WriteBits(slot*4, alarmNameBits, uint32(i))
			return
		}
	}
}

// Names returns the label of every slot in order.
func (s *AlarmNameStore) Names() []string {
	out := make([]string, alarmNameSlots)
	for i := range out {
		out[i] = s.Name(i)
	}
	return out
}
