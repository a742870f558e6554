package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Watch.ScratchpadPath == "" {
		t.Error("Expected a default scratchpad path")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
bluetooth:
  adapter: hci1
  address: "D8:5D:E2:01:02:03"
  reconnect: true
watch:
  restricted_buttons: ["FIND_PHONE"]
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected :9090, got %s", cfg.Server.Addr)
	}
	if !cfg.Bluetooth.Reconnect {
		t.Error("Expected reconnect enabled")
	}
	if cfg.Bluetooth.Adapter != "hci1" {
		t.Errorf("Expected adapter hci1, got %s", cfg.Bluetooth.Adapter)
	}
	if cfg.Bluetooth.Address != "D8:5D:E2:01:02:03" {
		t.Errorf("Unexpected address: %s", cfg.Bluetooth.Address)
	}
	if len(cfg.Watch.RestrictedButtons) != 1 || cfg.Watch.RestrictedButtons[0] != "FIND_PHONE" {
		t.Errorf("Unexpected restricted buttons: %v", cfg.Watch.RestrictedButtons)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Log.Level)
	}
}

func TestValidateRejectsUnknownButton(t *testing.T) {
	cfg := &Config{}
	cfg.Watch.RestrictedButtons = []string{"UPPER_LEFT"}
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for unknown button")
	}
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "verbose"
	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for unknown log level")
	}
}
