package watch

import (
	"testing"

	"github.com/rs/zerolog"
)

// fakeTransport records every write for inspection.
type fakeTransport struct {
	writes []fakeWrite
}

type fakeWrite struct {
	handle Handle
	data   []byte
}

func (f *fakeTransport) Write(handle Handle, data []byte) error {
	f.writes = append(f.writes, fakeWrite{handle, append([]byte(nil), data...)})
	return nil
}

func (f *fakeTransport) requests() [][]byte {
	var out [][]byte
	for _, w := range f.writes {
		if w.handle == HandleRequest {
			out = append(out, w.data)
		}
	}
	return out
}

func newTestSession(policy Policy) (*Session, *fakeTransport) {
	tr := &fakeTransport{}
	return NewSession(tr, policy, zerolog.Nop()), tr
}

// buttonReply is a features frame with the lower-left bit set.
func buttonReply() []byte {
	frame := make([]byte, 19)
	frame[0] = byte(CodeBLEFeatures)
	frame[8] = 0x01
	return frame
}

// fullStateReplies builds one well-formed reply per counted init request.
func fullStateReplies() [][]byte {
	var replies [][]byte
	for _, idx := range []byte{0x00, 0x02, 0x04} {
		replies = append(replies, []byte{byte(CodeDSTWatchState), idx, 0x01, 0x02})
	}
	for i := byte(0); i < 6; i++ {
		replies = append(replies, []byte{byte(CodeDSTSetting), i, 0x03})
	}
	for i := byte(0); i < 6; i++ {
		replies = append(replies, []byte{byte(CodeWorldCity), i, 'C', 'I', 'T', 'Y', '0' + i})
	}
	replies = append(replies,
		append([]byte{byte(CodeWatchName), 0x00}, []byte("CASIO GW-B5600")...),
		[]byte{byte(CodeAppInfo), 0x34, 0x88, 0xF4, 0xE5, 0xD5, 0xAF, 0xC8, 0x29, 0xE0, 0x6D, 0x02},
	)
	return replies
}

func TestSessionHappyPath(t *testing.T) {
	s, tr := newTestSession(nil)

	var got []EventKind
	s.Subscribe(ObserverFunc(func(e Event) {
		got = append(got, e.Kind)
	}))

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(tr.requests()) != 1 || tr.requests()[0][0] != byte(CodeBLEFeatures) {
		t.Fatalf("Expected single features probe, got %v", tr.requests())
	}

	s.OnReply(buttonReply())
	// 17 counted requests plus the battery probe
	if n := len(tr.requests()); n != 1+17+1 {
		t.Fatalf("Expected 19 requests after button reply, got %d", n)
	}

	for _, reply := range fullStateReplies() {
		s.OnReply(reply)
	}

	if !s.Complete() {
		t.Fatal("Session did not complete after all replies")
	}

	completions := 0
	collectedAt, completedAt := -1, -1
	for i, k := range got {
		switch k {
		case EventInitializationCompleted:
			completions++
			completedAt = i
		case EventDataCollected:
			collectedAt = i
		}
	}
	if completions != 1 {
		t.Errorf("Expected exactly 1 completion event, got %d", completions)
	}
	if collectedAt == -1 || collectedAt > completedAt {
		t.Error("DataCollected must fire before InitializationCompleted")
	}

	state := s.Snapshot()
	if state.WatchName != "CASIO GW-B5600" {
		t.Errorf("Expected watch name, got %q", state.WatchName)
	}
	if state.HomeCity != "CITY0" {
		t.Errorf("Expected home city CITY0, got %q", state.HomeCity)
	}
	if len(state.WorldCities) != 6 {
		t.Errorf("Expected 6 world cities, got %d", len(state.WorldCities))
	}
}

func TestSessionRepliesInAnyOrder(t *testing.T) {
	s, _ := newTestSession(nil)
	completions := 0
	s.Subscribe(ObserverFunc(func(e Event) {
		if e.Kind == EventInitializationCompleted {
			completions++
		}
	}))

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.OnReply(buttonReply())

	replies := fullStateReplies()
	// Deliver in reverse order
	for i := len(replies) - 1; i >= 0; i-- {
		s.OnReply(replies[i])
	}
	if completions != 1 {
		t.Errorf("Expected exactly 1 completion, got %d", completions)
	}
}

func TestSessionIgnoresUnknownAndNoise(t *testing.T) {
	s, _ := newTestSession(nil)
	completions := 0
	s.Subscribe(ObserverFunc(func(e Event) {
		if e.Kind == EventInitializationCompleted {
			completions++
		}
	}))

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.OnReply(buttonReply())

	replies := fullStateReplies()
	for _, reply := range replies[:len(replies)-1] {
		s.OnReply(reply)
	}
	// Noise and unknown codes must not tip the count
	s.OnReply(nil)
	s.OnReply([]byte{0x1D})
	s.OnReply([]byte{0x77, 0x01, 0x02})
	if completions != 0 {
		t.Fatal("Completed despite one missing reply")
	}
	// Duplicate of an already-matched reply does not decrement either
	s.OnReply(replies[0])
	if completions != 0 {
		t.Fatal("Duplicate reply decremented the count")
	}

	s.OnReply(replies[len(replies)-1])
	if completions != 1 {
		t.Errorf("Expected exactly 1 completion, got %d", completions)
	}
}

func TestSessionRestrictedPolicySkipsFullSync(t *testing.T) {
	s, tr := newTestSession(func(b Button) bool { return b == ButtonFindPhone })
	var got []EventKind
	s.Subscribe(ObserverFunc(func(e Event) {
		got = append(got, e.Kind)
	}))

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	frame := make([]byte, 19)
	frame[0] = byte(CodeBLEFeatures)
	frame[8] = 0x02
	s.OnReply(frame)

	if !s.Complete() {
		t.Fatal("Restricted session did not complete")
	}
	if len(tr.requests()) != 1 {
		t.Errorf("Expected no full-state requests, got %d", len(tr.requests()))
	}
	if len(got) != 2 || got[0] != EventButtonPressed || got[1] != EventInitializationCompleted {
		t.Errorf("Unexpected event sequence: %v", got)
	}
}

func TestSessionReplaysCollectedBlobs(t *testing.T) {
	s, tr := newTestSession(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.OnReply(buttonReply())
	for _, reply := range fullStateReplies() {
		s.OnReply(reply)
	}

	var replayed int
	for _, w := range tr.writes {
		if w.handle != HandleResponse {
			continue
		}
		switch Code(w.data[0]) {
		case CodeDSTWatchState, CodeDSTSetting, CodeWorldCity:
			replayed++
		}
	}
	// 3 DST states + 6 DST settings + 6 cities
	if replayed != 15 {
		t.Errorf("Expected 15 replay writes, got %d", replayed)
	}
}

func TestSessionAppRegistration(t *testing.T) {
	s, tr := newTestSession(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.OnReply(buttonReply())

	s.OnReply(append([]byte{byte(CodeAppInfo)},
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00))

	found := false
	for _, w := range tr.writes {
		if w.handle == HandleResponse && Code(w.data[0]) == CodeAppInfo {
			found = true
			if w.data[1] != 0x34 || w.data[11] != 0x02 {
				t.Errorf("Unexpected registration record % X", w.data)
			}
		}
	}
	if !found {
		t.Error("Reset sentinel did not trigger the registration write")
	}
}

func TestSessionBatteryDecodedWhenReplyArrives(t *testing.T) {
	s, _ := newTestSession(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.OnReply(buttonReply())
	s.OnReply([]byte{byte(CodeWatchCondition), 0x13, 0x1E, 0x00})

	if got := s.Snapshot().Battery; got != 96 {
		t.Errorf("Expected battery 96, got %d", got)
	}
	if s.Complete() {
		t.Error("Battery reply must not count toward completion")
	}
}
