// Package config holds the application settings. A Config is built once in
// main and handed to the components that need it.
package config

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"BossTimers/trigger"
)

// Environment overrides, applied after the file.
const (
	EnvLanguage = "BOSSTIMERS_LANG"
	EnvData     = "BOSSTIMERS_DATA"
	EnvImages   = "BOSSTIMERS_IMAGES"
)

var ErrInvalid = errors.New("config: invalid value")

// Config holds every tunable of the application.
type Config struct {
	// DataFile is the boss catalog. Empty uses the embedded sample.
	DataFile string `yaml:"data_file"`
	ImageDir string `yaml:"image_dir"`
	SoundDir string `yaml:"sound_dir"`

	TickInterval  time.Duration `yaml:"tick_interval"`
	QueueCapacity int           `yaml:"queue_capacity"`
	StopTimeout   time.Duration `yaml:"stop_timeout"`

	MatchThreshold float64 `yaml:"match_threshold"`
	MatchScale     float64 `yaml:"match_scale"`
	CaptureDisplay int     `yaml:"capture_display"`
	// CaptureRegion is [x, y, width, height] in virtual screen coordinates,
	// typically the game window. Empty captures CaptureDisplay whole.
	CaptureRegion []int `yaml:"capture_region"`

	// MaxCascadeDepth limits how many completions a cascade may chain.
	// Zero means unlimited.
	MaxCascadeDepth int `yaml:"max_cascade_depth"`

	Language string `yaml:"language"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ImageDir:       "resources/images",
		SoundDir:       "resources/sounds",
		TickInterval:   10 * time.Millisecond,
		QueueCapacity:  trigger.DefaultCapacity,
		StopTimeout:    trigger.DefaultStopTimeout,
		MatchThreshold: 0.9,
		MatchScale:     0.5,
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Config file %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLanguage)); v != "" {
		c.Language = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvData)); v != "" {
		c.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvImages)); v != "" {
		c.ImageDir = v
	}
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.TickInterval < time.Millisecond {
		errs = append(errs, fmt.Errorf("%w: tick_interval %v is below 1ms", ErrInvalid, c.TickInterval))
	}
	if c.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%w: queue_capacity must be positive", ErrInvalid))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: stop_timeout must be positive", ErrInvalid))
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		errs = append(errs, fmt.Errorf("%w: match_threshold must be in (0, 1]", ErrInvalid))
	}
	if c.MatchScale <= 0 || c.MatchScale > 1 {
		errs = append(errs, fmt.Errorf("%w: match_scale must be in (0, 1]", ErrInvalid))
	}
	if c.CaptureDisplay < 0 {
		errs = append(errs, fmt.Errorf("%w: capture_display must not be negative", ErrInvalid))
	}
	if n := len(c.CaptureRegion); n != 0 && n != 4 {
		errs = append(errs, fmt.Errorf("%w: capture_region needs [x, y, width, height], got %d values", ErrInvalid, n))
	} else if n == 4 && (c.CaptureRegion[2] <= 0 || c.CaptureRegion[3] <= 0) {
		errs = append(errs, fmt.Errorf("%w: capture_region width and height must be positive", ErrInvalid))
	}
	if c.MaxCascadeDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: max_cascade_depth must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}

// Region returns the configured capture rectangle, if any.
func (c Config) Region() (image.Rectangle, bool) {
	if len(c.CaptureRegion) != 4 {
		return image.Rectangle{}, false
	}
	x, y, w, h := c.CaptureRegion[0], c.CaptureRegion[1], c.CaptureRegion[2], c.CaptureRegion[3]
	return image.Rect(x, y, x+w, y+h), true
}
