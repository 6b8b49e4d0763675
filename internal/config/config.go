// Package config loads pickr's configuration: defaults, then the TOML file,
// then PICKR_* environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/v0xg/pickr/internal/logger"
	"github.com/v0xg/pickr/internal/settings"
)

const (
	AppName               = "pickr"
	DefaultConfigFileName = "config.toml"

	DefaultDebounceMS = 100
	DefaultToastMS    = 2000
	DefaultWidth      = 1280
	DefaultHeight     = 800
	DefaultThumbWidth = 320
)

// Config is the combined configuration.
type Config struct {
	Logger   logger.Config       `toml:"logger"`
	Settings settings.Settings   `toml:"settings"`
	Browser  BrowserConfig       `toml:"browser"`
	Timing   TimingConfig        `toml:"timing"`
	Capture  CaptureConfig       `toml:"capture"`
	Keymap   map[string][]string `toml:"keymap"`
}

// BrowserConfig controls the Chromium instance pickr drives.
type BrowserConfig struct {
	// Bin is the browser executable; empty means look it up.
	Bin        string `toml:"bin"`
	Headless   bool   `toml:"headless"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	ProfileDir string `toml:"profile_dir"`
	// ControlURL attaches to an already running browser instead of launching.
	ControlURL string `toml:"control_url"`
}

// TimingConfig holds UI timings in milliseconds.
type TimingConfig struct {
	DebounceMS int `toml:"debounce_ms"`
	ToastMS    int `toml:"toast_ms"`
}

// CaptureConfig controls the capture action.
type CaptureConfig struct {
	Dir        string `toml:"dir"`
	ThumbWidth uint   `toml:"thumb_width"`
}

// Flags are command-line overrides. Nil fields were not given.
type Flags struct {
	Headless   *bool
	Width      *int
	Height     *int
	ProfileDir *string
	LogLevel   *string
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Logger:   logger.NewConfig(),
		Settings: settings.Defaults(),
		Browser: BrowserConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Timing: TimingConfig{
			DebounceMS: DefaultDebounceMS,
			ToastMS:    DefaultToastMS,
		},
		Capture: CaptureConfig{
			Dir:        filepath.Join(os.TempDir(), AppName),
			ThumbWidth: DefaultThumbWidth,
		},
	}
}

// DefaultPath returns $PICKR_CONFIG, or config.toml under the user config
// directory. It returns "" when neither can be determined.
func DefaultPath() string {
	if p := os.Getenv("PICKR_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// Load builds the effective configuration. A missing file is not an error.
func Load(path string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	applyFlags(cfg, flags)
	cfg.validate()
	return cfg, nil
}

// loadFile decodes path over cfg. Keys absent from the file keep their
// current values.
func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Debugf("config: %s not found, using defaults", path)
		return nil
	} else if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("config: unrecognized keys in %s: %v", path, undecoded)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PICKR_BROWSER"); v != "" {
		cfg.Browser.Bin = v
	}
	if v := os.Getenv("PICKR_CONTROL_URL"); v != "" {
		cfg.Browser.ControlURL = v
	}
	if v := os.Getenv("PICKR_LOG_LEVEL"); v != "" {
		cfg.Logger.LogLevel = v
	}
	if v := os.Getenv("PICKR_CAPTURE_DIR"); v != "" {
		cfg.Capture.Dir = v
	}
	if v := os.Getenv("PICKR_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Browser.Headless = b
		}
	}
}

func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Headless != nil {
		cfg.Browser.Headless = *f.Headless
	}
	if f.Width != nil {
		cfg.Browser.Width = *f.Width
	}
	if f.Height != nil {
		cfg.Browser.Height = *f.Height
	}
	if f.ProfileDir != nil {
		cfg.Browser.ProfileDir = *f.ProfileDir
	}
	if f.LogLevel != nil {
		cfg.Logger.LogLevel = *f.LogLevel
	}
}

// validate resets invalid values to their defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()
	if c.Browser.Width <= 0 {
		c.Browser.Width = defaults.Browser.Width
	}
	if c.Browser.Height <= 0 {
		c.Browser.Height = defaults.Browser.Height
	}
	if c.Timing.DebounceMS <= 0 {
		c.Timing.DebounceMS = defaults.Timing.DebounceMS
	}
	if c.Timing.ToastMS <= 0 {
		c.Timing.ToastMS = defaults.Timing.ToastMS
	}
	if c.Capture.ThumbWidth == 0 {
		c.Capture.ThumbWidth = defaults.Capture.ThumbWidth
	}
	if c.Capture.Dir == "" {
		c.Capture.Dir = defaults.Capture.Dir
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	for cmd, keys := range c.Keymap {
		norm := make([]string, 0, len(keys))
		for _, k := range keys {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				norm = append(norm, k)
			}
		}
		c.Keymap[cmd] = norm
	}
}
