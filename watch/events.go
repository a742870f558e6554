package watch

// EventKind enumerates everything a Session reports outward. The set is
// closed; consumers switch on it rather than subscribing by name.
type EventKind int

const (
	// EventButtonPressed carries a Button. Fired once per session, as soon
	// as the features probe is answered.
	EventButtonPressed EventKind = iota
	// EventDataCollected fires when every counted init reply has arrived,
	// before the collected state is replayed to the watch.
	EventDataCollected
	// EventInitializationCompleted fires exactly once per session, after
	// EventDataCollected and the replay writes.
	EventInitializationCompleted
	// EventWatchNameChanged carries a string.
	EventWatchNameChanged
	// EventHomeCityChanged carries a WorldCity (slot 0).
	EventHomeCityChanged
	// EventBatteryChanged carries an int percentage.
	EventBatteryChanged
	// EventAppInfoChanged carries the raw record as []byte.
	EventAppInfoChanged
	// EventSettingsChanged carries a Settings.
	EventSettingsChanged
	// EventAlarmsChanged carries []Alarm.
	EventAlarmsChanged
	// EventRemindersChanged carries []Reminder.
	EventRemindersChanged
	// EventTimerChanged carries an int of seconds.
	EventTimerChanged
)

var eventNames = []string{
	"BUTTON_PRESSED",
	"DATA_COLLECTED",
	"INITIALIZATION_COMPLETED",
	"WATCH_NAME_CHANGED",
	"HOME_CITY_CHANGED",
	"BATTERY_CHANGED",
	"APP_INFO_CHANGED",
	"SETTINGS_CHANGED",
	"ALARMS_CHANGED",
	"REMINDERS_CHANGED",
	"TIMER_CHANGED",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "UNKNOWN"
	}
	return eventNames[k]
}

// Event is one notification from a Session. Data holds the per-kind payload
// documented on the EventKind constants; kinds without a payload carry nil.
type Event struct {
	Kind EventKind
	Data any
}

// Observer receives session events. Callbacks run on the goroutine that
// delivered the triggering frame, after the session's own state is settled,
// so observers may call back into the session.
type Observer interface {
	HandleWatchEvent(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) HandleWatchEvent(e Event) { f(e) }
