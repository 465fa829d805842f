// Package config loads scout.toml, the settings file of the scout command.
//
//	[wait]
//	timeout = "4s"
//	poll_interval = "50ms"
//
//	[output]
//	color = "auto"   # auto | on | off
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the name searched for by Find.
const FileName = "scout.toml"

// Color modes.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the decoded content of scout.toml.
type Config struct {
	Wait   Wait   `toml:"wait"`
	Output Output `toml:"output"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

// Wait holds polling settings.
type Wait struct {
	Timeout      Duration `toml:"timeout"`
	PollInterval Duration `toml:"poll_interval"`
}

// Output holds display settings.
type Output struct {
	Color string `toml:"color"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		Wait: Wait{
			Timeout:      Duration(4 * time.Second),
			PollInterval: Duration(50 * time.Millisecond),
		},
		Output: Output{Color: ColorAuto},
	}
}

// Find walks up from startDir looking for scout.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path over the defaults. Keys left out keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads explicit when set, otherwise the nearest scout.toml above
// startDir, otherwise the defaults.
func Discover(startDir, explicit string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) validate() error {
	if c.Wait.Timeout <= 0 {
		return fmt.Errorf("[wait].timeout must be positive: %v", time.Duration(c.Wait.Timeout))
	}
	if c.Wait.PollInterval < 0 {
		return fmt.Errorf("[wait].poll_interval must not be negative: %v", time.Duration(c.Wait.PollInterval))
	}
	switch c.Output.Color {
	case ColorAuto, ColorOn, ColorOff:
	default:
		return fmt.Errorf("invalid [output].color %q (expected auto|on|off)", c.Output.Color)
	}
	return nil
}
