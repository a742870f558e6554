package watch

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gshocksync/gshockd/utils"
)

// SessionState tracks where a Session is in its handshake.
type SessionState int

const (
	StateIdle SessionState = iota
	StateAwaitingButtonInfo
	StateAwaitingFullState
	StateComplete
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingButtonInfo:
		return "awaiting-button-info"
	case StateAwaitingFullState:
		return "awaiting-full-state"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// Policy decides, from the button that triggered the connection, whether
// the session should stop after the button phase instead of pulling the
// watch's full state. A nil policy always does the full sync.
type Policy func(Button) bool

// State is a point-in-time copy of everything a session has decoded so far.
type State struct {
	State        string      `json:"state"`
	Button       Button      `json:"button"`
	WatchName    string      `json:"watchName"`
	HomeCity     string      `json:"homeCity"`
	Battery      int         `json:"battery"`
	Settings     Settings    `json:"settings"`
	Alarms       []Alarm     `json:"alarms"`
	Reminders    []Reminder  `json:"reminders"`
	TimerSeconds int         `json:"timerSeconds"`
	WorldCities  []WorldCity `json:"worldCities"`
	AppInfo      string      `json:"appInfo,omitempty"`
}

// Session drives the per-connection handshake with the watch and keeps the
// decoded state. One Session serves one connection; build a fresh one when
// the watch reconnects. OnReply must be called sequentially, which the BLE
// notification stream already guarantees.
type Session struct {
	transport Transport
	policy    Policy
	log       zerolog.Logger

	mu          sync.Mutex
	state       SessionState
	pending     map[MatchKey]int
	outstanding int
	observers   []Observer

	button       Button
	watchName    string
	battery      int
	settings     Settings
	alarms       []Alarm
	reminders    map[int]*Reminder
	timerSeconds int
	worldCities  map[int]WorldCity
	appInfo      []byte
	replayBlobs  map[MatchKey][]byte
}

func NewSession(transport Transport, policy Policy, log zerolog.Logger) *Session {
	return &Session{
		transport:   transport,
		policy:      policy,
		log:         log.With().Str("component", "session").Logger(),
		pending:     make(map[MatchKey]int),
		reminders:   make(map[int]*Reminder),
		worldCities: make(map[int]WorldCity),
		replayBlobs: make(map[MatchKey][]byte),
	}
}

// Subscribe registers an observer for session events. Not safe to call
// concurrently with OnReply.
func (s *Session) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Start resets all per-session state and sends the features probe, whose
// reply identifies the button that woke the watch. Calling Start again
// before the prior handshake completes abandons that handshake.
func (s *Session) Start() error {
	s.mu.Lock()
	s.state = StateAwaitingButtonInfo
	s.pending = make(map[MatchKey]int)
	s.outstanding = 0
	s.button = ButtonInvalid
	s.watchName = ""
	s.battery = 0
	s.settings = Settings{}
	s.alarms = nil
	s.reminders = make(map[int]*Reminder)
	s.timerSeconds = 0
	s.worldCities = make(map[int]WorldCity)
	s.appInfo = nil
	s.replayBlobs = make(map[MatchKey][]byte)
	s.mu.Unlock()

	s.log.Debug().Msg("session start, probing features")
	return s.transport.Write(HandleRequest, []byte{byte(CodeBLEFeatures)})
}

// OnReply consumes one inbound frame from the watch. Frames too short to
// carry a match key, and frames with an unknown key, are dropped without
// touching the outstanding count.
func (s *Session) OnReply(frame []byte) {
	key, ok := keyFor(frame)
	if !ok {
		s.log.Debug().Str("frame", utils.BytesToHex(frame)).Msg("dropping noise frame")
		return
	}

	s.mu.Lock()
	var events []Event
	counted := false
	if s.pending[key] > 0 {
		s.pending[key]--
		s.outstanding--
		counted = true
	}

	events = s.dispatchLocked(frame, events)

	s.log.Debug().
		Str("code", Code(frame[0]).String()).
		Bool("counted", counted).
		Int("outstanding", s.outstanding).
		Msg("reply")

	if s.state == StateAwaitingFullState && s.outstanding == 0 {
		s.state = StateComplete
		events = append(events, Event{Kind: EventDataCollected})
		s.replayLocked()
		events = append(events, Event{Kind: EventInitializationCompleted})
	}
	observers := s.observers
	s.mu.Unlock()

	for _, e := range events {
		for _, o := range observers {
			o.HandleWatchEvent(e)
		}
	}
}

// dispatchLocked decodes one frame into the session caches and queues the
// events it implies. Caller holds the mutex.
func (s *Session) dispatchLocked(frame []byte, events []Event) []Event {
	switch Code(frame[0]) {
	case CodeBLEFeatures:
		s.button = DecodeButton(frame)
		events = append(events, Event{Kind: EventButtonPressed, Data: s.button})
		events = s.afterButtonLocked(events)

	case CodeWatchName:
		s.watchName = utils.AsciiFromBytes(frame, 1)
		events = append(events, Event{Kind: EventWatchNameChanged, Data: s.watchName})

	case CodeWatchCondition:
		if level, ok := DecodeBatteryLevel(frame); ok {
			s.battery = level
			events = append(events, Event{Kind: EventBatteryChanged, Data: level})
		}

	case CodeAppInfo:
		s.appInfo = append([]byte(nil), frame...)
		if NeedsAppRegistration(frame) {
			if err := s.transport.Write(HandleResponse, AppRegistrationRecord()); err != nil {
				s.log.Error().Err(err).Msg("app registration write failed")
			}
		}
		events = append(events, Event{Kind: EventAppInfoChanged, Data: s.appInfo})

	case CodeDSTWatchState, CodeDSTSetting:
		if key, ok := keyFor(frame); ok {
			s.replayBlobs[key] = append([]byte(nil), frame...)
		}

	case CodeWorldCity:
		if key, ok := keyFor(frame); ok {
			s.replayBlobs[key] = append([]byte(nil), frame...)
		}
		if city, ok := DecodeWorldCity(frame); ok {
			s.worldCities[city.Slot] = city
			if city.Slot == 0 {
				events = append(events, Event{Kind: EventHomeCityChanged, Data: city})
			}
		}

	case CodeSettings:
		if cfg, ok := DecodeSettings(frame); ok {
			s.settings = cfg
			events = append(events, Event{Kind: EventSettingsChanged, Data: cfg})
		}

	case CodeFirstAlarm:
		if a, ok := DecodeFirstAlarm(frame); ok {
			if len(s.alarms) == 0 {
				s.alarms = make([]Alarm, 1)
			}
			s.alarms[0] = a
			events = append(events, Event{Kind: EventAlarmsChanged, Data: s.alarmsLocked()})
		}

	case CodeSecondaryAlarms:
		if rest := DecodeSecondaryAlarms(frame); rest != nil {
			if len(s.alarms) == 0 {
				s.alarms = make([]Alarm, 1)
			}
			s.alarms = append(s.alarms[:1], rest...)
			events = append(events, Event{Kind: EventAlarmsChanged, Data: s.alarmsLocked()})
		}

	case CodeTimer:
		if seconds, ok := DecodeTimer(frame); ok {
			s.timerSeconds = seconds
			events = append(events, Event{Kind: EventTimerChanged, Data: seconds})
		}

	case CodeReminderTitle:
		if slot, title, ok := DecodeReminderTitle(frame); ok {
			s.reminderAt(slot).Title = title
			events = append(events, Event{Kind: EventRemindersChanged, Data: s.remindersLocked()})
		}

	case CodeReminderTime:
		if slot, r, ok := DecodeReminderTime(frame); ok {
			cur := s.reminderAt(slot)
			title := cur.Title
			*cur = r
			cur.Title = title
			events = append(events, Event{Kind: EventRemindersChanged, Data: s.remindersLocked()})
		}

	default:
		// Unknown codes are dropped; garbled frames are routine on this
		// transport.
	}
	return events
}

// afterButtonLocked runs the policy gate and either finishes the session or
// fans out the full-state read batch.
func (s *Session) afterButtonLocked(events []Event) []Event {
	if s.state != StateAwaitingButtonInfo {
		return events
	}
	if s.policy != nil && s.policy(s.button) {
		s.state = StateComplete
		s.log.Info().Str("button", string(s.button)).Msg("restricted action, skipping full sync")
		return append(events, Event{Kind: EventInitializationCompleted})
	}
	s.state = StateAwaitingFullState
	s.issueFullStateLocked()
	return events
}

// fullStateRequests returns the read batch issued after the button phase.
// All but the battery probe expect a reply; the watch never acks 0x28
// requests reliably, so that one is fire-and-forget.
func fullStateRequests() (counted [][]byte, uncounted [][]byte) {
	counted = [][]byte{
		{byte(CodeDSTWatchState), 0x00},
		{byte(CodeDSTWatchState), 0x02},
		{byte(CodeDSTWatchState), 0x04},
	}
	for i := byte(0); i < 6; i++ {
		counted = append(counted, []byte{byte(CodeDSTSetting), i})
	}
	for i := byte(0); i < 6; i++ {
		counted = append(counted, []byte{byte(CodeWorldCity), i})
	}
	counted = append(counted,
		[]byte{byte(CodeWatchName)},
		[]byte{byte(CodeAppInfo)},
	)
	uncounted = [][]byte{{byte(CodeWatchCondition)}}
	return counted, uncounted
}

func (s *Session) issueFullStateLocked() {
	counted, uncounted := fullStateRequests()
	for _, req := range counted {
		key, ok := requestKey(req)
		if !ok {
			continue
		}
		if err := s.transport.Write(HandleRequest, req); err != nil {
			s.log.Error().Err(err).Str("request", utils.BytesToHex(req)).Msg("request write failed")
			continue
		}
		s.pending[key]++
		s.outstanding++
	}
	for _, req := range uncounted {
		if err := s.transport.Write(HandleRequest, req); err != nil {
			s.log.Error().Err(err).Str("request", utils.BytesToHex(req)).Msg("request write failed")
		}
	}
	s.log.Debug().Int("outstanding", s.outstanding).Msg("full-state batch issued")
}

// replayLocked writes the collected DST and world-city blobs back to the
// watch verbatim. The watch expects this echo before it settles; the writes
// are not acked and not counted.
func (s *Session) replayLocked() {
	keys := make([]int, 0, len(s.replayBlobs))
	for k := range s.replayBlobs {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
	for _, k := range keys {
		if err := s.transport.Write(HandleResponse, s.replayBlobs[MatchKey(k)]); err != nil {
			s.log.Error().Err(err).Msg("replay write failed")
		}
	}
}

func (s *Session) reminderAt(slot int) *Reminder {
	r, ok := s.reminders[slot]
	if !ok {
		r = &Reminder{Period: PeriodNever}
		s.reminders[slot] = r
	}
	return r
}

func (s *Session) alarmsLocked() []Alarm {
	return append([]Alarm(nil), s.alarms...)
}

func (s *Session) remindersLocked() []Reminder {
	slots := make([]int, 0, len(s.reminders))
	for slot := range s.reminders {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	out := make([]Reminder, 0, len(slots))
	for _, slot := range slots {
		out = append(out, *s.reminders[slot])
	}
	return out
}

// Snapshot returns a copy of everything decoded so far.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities := make([]WorldCity, 0, len(s.worldCities))
	for slot := 0; slot < 6; slot++ {
		if c, ok := s.worldCities[slot]; ok {
			cities = append(cities, c)
		}
	}
	st := State{
		State:        s.state.String(),
		Button:       s.button,
		WatchName:    s.watchName,
		HomeCity:     s.worldCities[0].Name,
		Battery:      s.battery,
		Settings:     s.settings,
		Alarms:       s.alarmsLocked(),
		Reminders:    s.remindersLocked(),
		TimerSeconds: s.timerSeconds,
		WorldCities:  cities,
		AppInfo:      utils.BytesToHex(s.appInfo),
	}
	return st
}

// Complete reports whether the handshake has finished.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateComplete
}

// SetTime writes the given timestamp to the watch. The collected DST and
// world-city blobs are echoed back first; the watch rejects a time set
// without that preamble.
func (s *Session) SetTime(t time.Time) error {
	s.mu.Lock()
	s.replayLocked()
	s.mu.Unlock()
	return s.transport.Write(HandleResponse, EncodeCurrentTime(t))
}

// SetAlarms writes the full alarm list: alarm 1 as its own record, the rest
// as one block. An empty list is a no-op.
func (s *Session) SetAlarms(alarms []Alarm) error {
	if len(alarms) == 0 {
		return nil
	}
	if err := s.transport.Write(HandleResponse, EncodeFirstAlarm(alarms[0])); err != nil {
		return err
	}
	if rest := EncodeSecondaryAlarms(alarms); rest != nil {
		if err := s.transport.Write(HandleResponse, rest); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.alarms = append([]Alarm(nil), alarms...)
	s.mu.Unlock()
	return nil
}

// SetSettings writes the basic settings record.
func (s *Session) SetSettings(cfg Settings) error {
	if err := s.transport.Write(HandleResponse, EncodeSettings(cfg)); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = cfg
	s.mu.Unlock()
	return nil
}

// SetTimer writes the countdown timer duration in seconds.
func (s *Session) SetTimer(seconds int) error {
	if err := s.transport.Write(HandleResponse, EncodeTimer(seconds)); err != nil {
		return err
	}
	s.mu.Lock()
	s.timerSeconds = seconds
	s.mu.Unlock()
	return nil
}

// SetReminders writes each reminder's title and time records. Slots are
// 1-based in wire order.
func (s *Session) SetReminders(reminders []Reminder) error {
	for i, r := range reminders {
		slot := i + 1
		if err := s.transport.Write(HandleResponse, EncodeReminderTitle(slot, r)); err != nil {
			return err
		}
		if err := s.transport.Write(HandleResponse, EncodeReminderTime(slot, r)); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.reminders = make(map[int]*Reminder)
	for i := range reminders {
		r := reminders[i]
		s.reminders[i+1] = &r
	}
	s.mu.Unlock()
	return nil
}

// SetHomeCity writes a city name into slot 0.
func (s *Session) SetHomeCity(name string) error {
	city := WorldCity{Slot: 0, Name: name}
	rec := utils.HexToBytes(EncodeWorldCity(city))
	if err := s.transport.Write(HandleResponse, rec); err != nil {
		return err
	}
	s.mu.Lock()
	s.worldCities[0] = city
	s.mu.Unlock()
	return nil
}

// Request asks the watch to send one data item; the reply arrives later
// through OnReply. Useful for on-demand reads after initialization.
func (s *Session) Request(code Code) error {
	return s.transport.Write(HandleRequest, []byte{byte(code)})
}

// RequestReminders asks for every reminder slot's title and time.
func (s *Session) RequestReminders() error {
	for slot := byte(1); slot <= 5; slot++ {
		if err := s.transport.Write(HandleRequest, []byte{byte(CodeReminderTitle), slot}); err != nil {
			return err
		}
		if err := s.transport.Write(HandleRequest, []byte{byte(CodeReminderTime), slot}); err != nil {
			return err
		}
	}
	return nil
}
