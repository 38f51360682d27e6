// Package config loads the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as a string ("100ms") in TOML.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds choopy configuration.
type Config struct {
	Network NetworkConfig `toml:"network"`
	Music   MusicConfig   `toml:"music"`
	Letters LettersConfig `toml:"letters"`
	Log     LogConfig     `toml:"log"`
}

// NetworkConfig controls the paper network.
type NetworkConfig struct {
	Source      string   `toml:"source"` // file path or http(s) URL
	Radius      float64  `toml:"radius"`
	Size        float64  `toml:"size"`
	LinkFactor  float64  `toml:"link_factor"`
	SettleDelay Duration `toml:"settle_delay"`
	DoubleClick Duration `toml:"double_click"`
	CellWidth   float64  `toml:"cell_width"`
	CellHeight  float64  `toml:"cell_height"`
	// Fallback viewport in pixels, used for the initial scatter before the
	// container is measured.
	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
}

// MusicConfig controls the background player.
type MusicConfig struct {
	Index  string   `toml:"index"` // empty disables music
	Groups []string `toml:"groups"`
	Mode   string   `toml:"mode"` // "order", "random", "repeat-one"
	Volume float64  `toml:"volume"`
}

// LettersConfig locates the letters directory.
type LettersConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // the TUI logs here; empty discards
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			Source:         "Papers.json",
			Radius:         30,
			Size:           60,
			LinkFactor:     3,
			SettleDelay:    Duration{100 * time.Millisecond},
			DoubleClick:    Duration{400 * time.Millisecond},
			CellWidth:      6,
			CellHeight:     12,
			ViewportWidth:  1280,
			ViewportHeight: 800,
		},
		Music: MusicConfig{
			Mode:   "order",
			Volume: 0.7,
		},
		Letters: LettersConfig{Dir: "letters"},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(os.TempDir(), "choopy.log"),
		},
	}
}

// ConfigDir returns the choopy config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "choopy")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path, or DefaultPath when path is empty. A
// missing file yields the defaults; keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, or DefaultPath when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Write(f, cfg)
}

// Write encodes the config as TOML.
func Write(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	n := c.Network
	switch {
	case n.Radius <= 0:
		return fmt.Errorf("%w: network.radius must be positive", ErrInvalid)
	case n.Size <= 0:
		return fmt.Errorf("%w: network.size must be positive", ErrInvalid)
	case n.LinkFactor <= 0:
		return fmt.Errorf("%w: network.link_factor must be positive", ErrInvalid)
	case n.SettleDelay.Duration < 0:
		return fmt.Errorf("%w: network.settle_delay must not be negative", ErrInvalid)
	case n.DoubleClick.Duration < 0:
		return fmt.Errorf("%w: network.double_click must not be negative", ErrInvalid)
	case n.CellWidth <= 0 || n.CellHeight <= 0:
		return fmt.Errorf("%w: network cell size must be positive", ErrInvalid)
	case n.ViewportWidth < 0 || n.ViewportHeight < 0:
		return fmt.Errorf("%w: network viewport must not be negative", ErrInvalid)
	case c.Music.Volume < 0 || c.Music.Volume > 1:
		return fmt.Errorf("%w: music.volume must be within [0, 1]", ErrInvalid)
	}
	switch c.Music.Mode {
	case "", "order", "random", "repeat-one":
	default:
		return fmt.Errorf("%w: unknown music.mode %q", ErrInvalid, c.Music.Mode)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}
