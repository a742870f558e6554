package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gshocksync/gshockd/watch"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeError(w, http.StatusInternalServerError, "Error encoding response")
	}
}

// currentSession returns the live session or writes a 503.
func (s *Server) currentSession(w http.ResponseWriter) *watch.Session {
	sess := s.session()
	if sess == nil {
		writeError(w, http.StatusServiceUnavailable, "Watch not connected")
	}
	return sess
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.hub.AddClient(conn)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sess := s.currentSession(w)
	if sess == nil {
		return
	}
	writeJSON(w, sess.Snapshot())
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	sess := s.currentSession(w)
	if sess == nil {
		return
	}

	// Default to host time; an explicit timestamp overrides it
	var body struct {
		UnixSeconds *int64 `json:"unixSeconds"`
	}
	t := time.Now()
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.UnixSeconds != nil {
		t = time.Unix(*body.UnixSeconds, 0).UTC()
	}

	if err := sess.SetTime(t); err != nil {
		writeError(w, http.StatusBadGateway, "Failed to write time")
		return
	}
	writeJSON(w, StatusResponse{Status: "ok"})
}

func (s *Server) handleAlarms(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w)
	if sess == nil {
		return
	}
	switch r.Method {
	case "GET":
		// The reply lands asynchronously through OnReply; the body is the
		// last cached list.
		if err := sess.Request(watch.CodeFirstAlarm); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to request alarms")
			return
		}
		if err := sess.Request(watch.CodeSecondaryAlarms); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to request alarms")
			return
		}
		writeJSON(w, sess.Snapshot().Alarms)
	case "POST":
		var alarms []watch.Alarm
		if err := json.NewDecoder(r.Body).Decode(&alarms); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid alarm list")
			return
		}
		if err := sess.SetAlarms(alarms); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to write alarms")
			return
		}
		writeJSON(w, StatusResponse{Status: "ok"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w)
	if sess == nil {
		return
	}
	switch r.Method {
	case "GET":
		// Asynchronous reply; the body is the cached record.
		if err := sess.Request(watch.CodeSettings); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to request settings")
			return
		}
		writeJSON(w, sess.Snapshot().Settings)
	case "POST":
		var cfg watch.Settings
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid settings")
			return
		}
		if err := sess.SetSettings(cfg); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to write settings")
			return
		}
		writeJSON(w, StatusResponse{Status: "ok"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w)
	if sess == nil {
		return
	}
	switch r.Method {
	case "GET":
		// Asynchronous reply; the body is the cached duration.
		if err := sess.Request(watch.CodeTimer); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to request timer")
			return
		}
		writeJSON(w, map[string]int{"seconds": sess.Snapshot().TimerSeconds})
	case "POST":
		var body struct {
			Seconds int `json:"seconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Seconds < 0 {
			writeError(w, http.StatusBadRequest, "Invalid timer duration")
			return
		}
		if err := sess.SetTimer(body.Seconds); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to write timer")
			return
		}
		writeJSON(w, StatusResponse{Status: "ok"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w)
	if sess == nil {
		return
	}
	switch r.Method {
	case "GET":
		// Asynchronous replies; the body is the cached list.
		if err := sess.RequestReminders(); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to request reminders")
			return
		}
		writeJSON(w, sess.Snapshot().Reminders)
	case "POST":
		var reminders []watch.Reminder
		if err := json.NewDecoder(r.Body).Decode(&reminders); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid reminder list")
			return
		}
		if len(reminders) > 5 {
			writeError(w, http.StatusBadRequest, "At most 5 reminders supported")
			return
		}
		if err := sess.SetReminders(reminders); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to write reminders")
			return
		}
		writeJSON(w, StatusResponse{Status: "ok"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleHomeCity(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w)
	if sess == nil {
		return
	}
	switch r.Method {
	case "GET":
		writeJSON(w, map[string]string{"name": sess.Snapshot().HomeCity})
	case "POST":
		// Either a literal city name or an IANA timezone identifier
		var body struct {
			Name     string `json:"name"`
			TimeZone string `json:"timeZone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid body")
			return
		}
		name := body.Name
		if name == "" {
			name = watch.ParseCity(body.TimeZone)
		}
		if name == "" {
			writeError(w, http.StatusBadRequest, "No usable city name")
			return
		}
		if err := sess.SetHomeCity(name); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to write home city")
			return
		}
		writeJSON(w, map[string]string{"name": name})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleAlarmNames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		writeJSON(w, map[string]any{
			"names":   s.names.Names(),
			"catalog": watch.AlarmNames,
		})
	case "PUT":
		var body struct {
			Names []string `json:"names"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid body")
			return
		}
		for slot, name := range body.Names {
			s.names.SetName(slot, name)
		}
		if err := s.saveScratchpad(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to persist scratchpad")
			return
		}
		writeJSON(w, StatusResponse{Status: "ok"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		writeJSON(w, map[string]any{"enabled": s.actions.EnabledNames()})
	case "PUT":
		var body struct {
			Enabled []string `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid body")
			return
		}
		for a := watch.ActionKind(0); a.String() != "UNKNOWN"; a++ {
			s.actions.SetEnabled(a, false)
		}
		for _, name := range body.Enabled {
			if a, ok := watch.ActionFromName(name); ok {
				s.actions.SetEnabled(a, true)
			}
		}
		if err := s.saveScratchpad(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to persist scratchpad")
			return
		}
		writeJSON(w, StatusResponse{Status: "ok"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) saveScratchpad(ctx context.Context) error {
	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.pad.Save(saveCtx)
}
