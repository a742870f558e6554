package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gshocksync/gshockd/bluetooth"
	"github.com/gshocksync/gshockd/config"
	"github.com/gshocksync/gshockd/server"
	"github.com/gshocksync/gshockd/watch"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config error")
	}

	logger := newLogger(cfg.Log)

	store := newFileStore(cfg.Watch.ScratchpadPath)
	pad := watch.NewScratchpad(store)
	names := watch.NewAlarmNameStore(pad)
	actions := watch.NewActionStore(pad)
	if err := pad.Load(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("scratchpad load failed, starting with defaults")
	}

	hub := server.NewWebSocketHub()
	bridge := server.NewEventBridge(hub, logger)

	d := &daemon{
		cfg:        cfg,
		log:        logger,
		bridge:     bridge,
		actions:    actions,
		retryDelay: bluetooth.ReconnectDelay,
	}
	d.connect = d.connectOnce

	srv := server.New(cfg.Server.Addr, d.Session, hub, pad, names, actions, logger)
	srv.Start()

	go d.run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down")
	d.close()
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out = os.Stderr
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.Pretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out})
	}
	return logger
}

// daemon owns the BLE connection loop. One watch session lives per
// connection; the watch drops the link after every sync, so the loop just
// reconnects and rebuilds.
type daemon struct {
	cfg     *config.Config
	log     zerolog.Logger
	bridge  *server.EventBridge
	actions *watch.ActionStore

	connect    func() error
	retryDelay time.Duration

	mu      sync.Mutex
	session *watch.Session
	client  *bluetooth.Client
	closed  bool
}

// Session returns the current session, or nil while disconnected.
func (d *daemon) Session() *watch.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

func (d *daemon) run() {
	failures := 0
	for {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()

		if err := d.connect(); err != nil {
			d.log.Error().Err(err).Msg("connection attempt failed")
			failures++
			if failures >= bluetooth.MaxReconnectAttempts {
				d.log.Error().Int("attempts", failures).Msg("giving up on the watch")
				return
			}
		} else {
			failures = 0
		}
		if !d.cfg.Bluetooth.Reconnect {
			return
		}
		time.Sleep(d.retryDelay)
	}
}

// connectOnce establishes one BLE connection, runs a full session over it
// and returns when the watch disconnects.
func (d *daemon) connectOnce() error {
	client, err := bluetooth.NewClient(d.log)
	if err != nil {
		return err
	}

	client.SetTarget(d.cfg.Bluetooth.Adapter, d.cfg.Bluetooth.Address)

	session := watch.NewSession(client, d.policy(), d.log)
	session.Subscribe(d.bridge)
	session.Subscribe(watch.ObserverFunc(d.onEvent))
	client.SetFrameHandler(session.OnReply)

	done := make(chan struct{})
	client.SetDisconnectHandler(func() { close(done) })

	if err := client.DiscoverAndConnect(); err != nil {
		return err
	}

	d.mu.Lock()
	d.session = session
	d.client = client
	d.mu.Unlock()

	if err := session.Start(); err != nil {
		d.log.Error().Err(err).Msg("session start failed")
	}

	<-done

	d.mu.Lock()
	d.session = nil
	d.client = nil
	d.mu.Unlock()
	return nil
}

// policy builds the restricted-button gate from config.
func (d *daemon) policy() watch.Policy {
	restricted := make(map[watch.Button]bool)
	for _, name := range d.cfg.Watch.RestrictedButtons {
		restricted[watch.Button(name)] = true
	}
	return func(b watch.Button) bool {
		return restricted[b]
	}
}

// onEvent runs configured actions once the watch is fully synced.
func (d *daemon) onEvent(e watch.Event) {
	if e.Kind != watch.EventInitializationCompleted {
		return
	}
	session := d.Session()
	if session == nil {
		return
	}
	button := session.Snapshot().Button
	if button.IsAutoTrigger() {
		return
	}
	if d.actions.Enabled(watch.ActionSetTime) {
		if err := session.SetTime(time.Now()); err != nil {
			d.log.Error().Err(err).Msg("time sync failed")
		} else {
			d.log.Info().Msg("time synced to watch")
		}
	}
}

func (d *daemon) close() {
	d.mu.Lock()
	d.closed = true
	client := d.client
	d.mu.Unlock()
	if client != nil {
		client.Close()
	}
}
