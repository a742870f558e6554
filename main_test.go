package main

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gshocksync/gshockd/bluetooth"
	"github.com/gshocksync/gshockd/config"
)

func testDaemon(connect func() error) *daemon {
	cfg := &config.Config{}
	cfg.Bluetooth.Reconnect = true
	return &daemon{
		cfg:     cfg,
		log:     zerolog.Nop(),
		connect: connect,
	}
}

func TestRunGivesUpAfterRepeatedFailures(t *testing.T) {
	calls := 0
	d := testDaemon(func() error {
		calls++
		return errors.New("no adapter")
	})
	d.run()
	if calls != bluetooth.MaxReconnectAttempts {
		t.Errorf("Expected %d attempts, got %d", bluetooth.MaxReconnectAttempts, calls)
	}
}

func TestRunFailureCountResetsOnSuccess(t *testing.T) {
	calls := 0
	d := testDaemon(func() error {
		calls++
		if calls == 3 {
			return nil
		}
		return errors.New("no adapter")
	})
	d.run()
	// two failures, one clean connection, then a fresh run of failures
	if want := 3 + bluetooth.MaxReconnectAttempts; calls != want {
		t.Errorf("Expected %d attempts, got %d", want, calls)
	}
}

func TestRunStopsWhenReconnectDisabled(t *testing.T) {
	calls := 0
	d := testDaemon(func() error {
		calls++
		return errors.New("no adapter")
	})
	d.cfg.Bluetooth.Reconnect = false
	d.run()
	if calls != 1 {
		t.Errorf("Expected a single attempt, got %d", calls)
	}
}
