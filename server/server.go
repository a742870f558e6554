package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gshocksync/gshockd/watch"
)

// SessionProvider returns the current watch session, or nil while no watch
// is connected. Sessions are rebuilt per connection.
type SessionProvider func() *watch.Session

// Server exposes the watch state over HTTP and websocket.
type Server struct {
	addr    string
	session SessionProvider
	hub     *WebSocketHub
	pad     *watch.Scratchpad
	names   *watch.AlarmNameStore
	actions *watch.ActionStore
	router  *http.ServeMux
	log     zerolog.Logger

	httpServer *http.Server
}

func New(addr string, session SessionProvider, hub *WebSocketHub, pad *watch.Scratchpad, names *watch.AlarmNameStore, actions *watch.ActionStore, log zerolog.Logger) *Server {
	s := &Server{
		addr:    addr,
		session: session,
		hub:     hub,
		pad:     pad,
		names:   names,
		actions: actions,
		router:  http.NewServeMux(),
		log:     log.With().Str("component", "http").Logger(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/api/state", corsMiddleware(s.handleState))
	s.router.HandleFunc("/api/time", corsMiddleware(s.handleTime))
	s.router.HandleFunc("/api/alarms", corsMiddleware(s.handleAlarms))
	s.router.HandleFunc("/api/settings", corsMiddleware(s.handleSettings))
	s.router.HandleFunc("/api/timer", corsMiddleware(s.handleTimer))
	s.router.HandleFunc("/api/reminders", corsMiddleware(s.handleReminders))
	s.router.HandleFunc("/api/home-city", corsMiddleware(s.handleHomeCity))
	s.router.HandleFunc("/api/scratchpad/alarm-names", corsMiddleware(s.handleAlarmNames))
	s.router.HandleFunc("/api/scratchpad/actions", corsMiddleware(s.handleActions))
}

// Start begins serving in the background.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal().Err(err).Msg("http server failed")
		}
	}()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
