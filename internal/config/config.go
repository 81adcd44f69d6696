// Package config loads and validates the wayosdd configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/wayosd/internal/daemon"
	"github.com/jmylchreest/wayosd/internal/transport"
)

// Duration is a time.Duration that can be unmarshaled from human-readable
// strings like "3s" or "500ms", or from integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '3s', '500ms' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Position is where the OSD surface anchors on screen.
type Position string

const (
	PositionTop         Position = "top"
	PositionBottom      Position = "bottom"
	PositionCenter      Position = "center"
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTop,
		PositionBottom,
		PositionCenter,
		PositionTopLeft,
		PositionTopRight,
		PositionBottomLeft,
		PositionBottomRight,
	}
}

// Config is the wayosdd configuration, loaded from
// ~/.config/wayosd/config.toml.
type Config struct {
	Pipe    PipeConfig    `toml:"pipe"`
	Display DisplayConfig `toml:"display"`
	DBus    DBusConfig    `toml:"dbus"`
}

// PipeConfig controls the message pipe.
type PipeConfig struct {
	Path         string   `toml:"path"`
	PollInterval Duration `toml:"poll_interval"`
}

// DisplayConfig controls the OSD surface.
type DisplayConfig struct {
	Position    Position `toml:"position"`
	Margin      int      `toml:"margin"`       // Pixels from the anchored edge
	Width       int      `toml:"width"`        // Surface width in pixels
	HideTimeout Duration `toml:"hide_timeout"` // Inactivity window before hiding
}

// DBusConfig controls the org.wayland.Osd ingress.
type DBusConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Pipe: PipeConfig{
			Path:         transport.DefaultPath,
			PollInterval: Duration(daemon.PollInterval),
		},
		Display: DisplayConfig{
			Position:    PositionBottom,
			Margin:      50,
			Width:       300,
			HideTimeout: Duration(daemon.HideTimeout),
		},
		DBus: DBusConfig{
			Enabled: true,
		},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "wayosd", "config.toml"), nil
}

// Load reads the configuration from path, or from the default location
// when path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents.
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path atomically.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Pipe.Path == "" {
		return fmt.Errorf("pipe path must not be empty")
	}
	if !filepath.IsAbs(c.Pipe.Path) {
		return fmt.Errorf("pipe path must be absolute, got %q", c.Pipe.Path)
	}
	if c.Pipe.PollInterval.Duration() < time.Millisecond || c.Pipe.PollInterval.Duration() > time.Second {
		return fmt.Errorf("poll_interval must be between 1ms and 1s, got %s", c.Pipe.PollInterval.Duration())
	}

	validPos := false
	for _, p := range ValidPositions() {
		if c.Display.Position == p {
			validPos = true
			break
		}
	}
	if !validPos {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions())
	}

	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("width must be between 100 and 1000, got %d", c.Display.Width)
	}
	if c.Display.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %d", c.Display.Margin)
	}
	if c.Display.HideTimeout.Duration() <= 0 {
		return fmt.Errorf("hide_timeout must be positive, got %s", c.Display.HideTimeout.Duration())
	}

	return nil
}
