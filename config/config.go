package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Bluetooth BluetoothConfig `yaml:"bluetooth"`
	Watch     WatchConfig     `yaml:"watch"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type BluetoothConfig struct {
	// Adapter pins the client to one controller, e.g. "hci0". Empty
	// means the first adapter BlueZ reports.
	Adapter string `yaml:"adapter"`
	// Address pins the client to one watch instead of scanning by name.
	Address string `yaml:"address"`
	// Reconnect controls whether the daemon waits for the watch to come
	// back after it drops the link, which it does after every sync.
	Reconnect bool `yaml:"reconnect"`
}

type WatchConfig struct {
	// RestrictedButtons lists connection triggers that skip the full
	// state sync (e.g. FIND_PHONE).
	RestrictedButtons []string `yaml:"restricted_buttons"`
	// ScratchpadPath is where the shared scratchpad region is persisted.
	ScratchpadPath string `yaml:"scratchpad_path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

var knownButtons = map[string]bool{
	"LOWER_LEFT":       true,
	"LOWER_RIGHT":      true,
	"NO_BUTTON":        true,
	"FIND_PHONE":       true,
	"ALWAYS_CONNECTED": true,
}

// Load reads and parses a config file. A missing path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	Normalize(cfg)
	return cfg, nil
}

// Validate checks configuration correctness. It does not mutate.
func Validate(cfg *Config) error {
	for _, b := range cfg.Watch.RestrictedButtons {
		if !knownButtons[b] {
			return fmt.Errorf("unknown restricted button %q", b)
		}
	}
	switch cfg.Log.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	return nil
}

// Normalize fills defaults. Call only after Validate.
func Normalize(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Watch.ScratchpadPath == "" {
		cfg.Watch.ScratchpadPath = "/var/lib/gshockd/scratchpad.bin"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
