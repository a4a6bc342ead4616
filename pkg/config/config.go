// Package config resolves runtime settings from defaults, an optional YAML
// file and GSTACK_* environment variables, in that order. Command-line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/golden_stack/pkg/engine"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GSTACK_"

// Config holds every tunable of the stack and its hosts.
type Config struct {
	// Engine tuning.
	Ease           float64       `yaml:"ease" env:"EASE"`
	WheelDamping   float64       `yaml:"wheel_damping" env:"WHEEL_DAMPING"`
	SnapDelay      time.Duration `yaml:"snap_delay" env:"SNAP_DELAY"`
	SnapTransition time.Duration `yaml:"snap_transition" env:"SNAP_TRANSITION"`
	Phi            float64       `yaml:"phi" env:"PHI"`
	Shrink         float64       `yaml:"shrink" env:"SHRINK"`

	// Terminal host. A cell is CellWidth x CellHeight virtual pixels.
	FrameRate  int     `yaml:"frame_rate" env:"FRAME_RATE"`
	CellWidth  float64 `yaml:"cell_width" env:"CELL_WIDTH"`
	CellHeight float64 `yaml:"cell_height" env:"CELL_HEIGHT"`

	Deck     string `yaml:"deck" env:"DECK"`
	DB       string `yaml:"db" env:"DB"`
	Log      string `yaml:"log" env:"LOG"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Dir returns ~/.config/gstack, or "" when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gstack")
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Default returns the built-in settings.
func Default() Config {
	o := engine.DefaultOptions()
	cfg := Config{
		Ease:           o.Ease,
		WheelDamping:   o.WheelDamping,
		SnapDelay:      o.SnapDelay,
		SnapTransition: o.SnapTransition,
		Phi:            o.Phi,
		Shrink:         o.Shrink,
		FrameRate:      60,
		CellWidth:      8,
		CellHeight:     16,
		LogLevel:       "info",
	}
	if dir := Dir(); dir != "" {
		cfg.DB = filepath.Join(dir, "sessions.db")
	}
	return cfg
}

// Load resolves the configuration. An explicit path must exist; with an
// empty path the default file is read if present. The result is not
// validated, since later layers may still override bad values: call
// Validate once everything is applied.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the engine or hosts cannot run with.
func (c Config) Validate() error {
	var errs []string
	if !(c.Ease > 0 && c.Ease <= 1) {
		errs = append(errs, "ease must be in (0, 1]")
	}
	if !(c.WheelDamping > 0) || math.IsInf(c.WheelDamping, 0) {
		errs = append(errs, "wheel_damping must be positive")
	}
	if c.SnapDelay <= 0 {
		errs = append(errs, "snap_delay must be positive")
	}
	if c.SnapTransition <= 0 {
		errs = append(errs, "snap_transition must be positive")
	}
	if !(c.Phi > 1) || math.IsInf(c.Phi, 0) {
		errs = append(errs, "phi must be greater than 1")
	}
	if !(c.Shrink > 0 && c.Shrink < 1) {
		errs = append(errs, "shrink must be in (0, 1)")
	}
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		errs = append(errs, "frame_rate must be between 1 and 240")
	}
	if !(c.CellWidth > 0) || !(c.CellHeight > 0) {
		errs = append(errs, "cell_width and cell_height must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// FrameInterval is the duration of one frame at FrameRate.
func (c Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

// EngineOptions converts the engine tuning into engine options.
func (c Config) EngineOptions() engine.Options {
	o := engine.DefaultOptions()
	o.Ease = c.Ease
	o.WheelDamping = c.WheelDamping
	o.SnapDelay = c.SnapDelay
	o.SnapTransition = c.SnapTransition
	o.Phi = c.Phi
	o.Shrink = c.Shrink
	return o
}
