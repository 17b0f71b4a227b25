// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Backdrop  BackdropConfig  `yaml:"backdrop"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Autopilot AutopilotConfig `yaml:"autopilot"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"` // hex, e.g. "#111827"
}

// FieldConfig holds the particle grid layout and force constants.
type FieldConfig struct {
	Spacing     float64  `yaml:"spacing"`      // Grid cell size in pixels
	MaxDistance float64  `yaml:"max_distance"` // Pointer influence radius
	Strength    float64  `yaml:"strength"`     // Repulsion strength at zero distance
	Spring      float64  `yaml:"spring"`       // Restoring spring constant
	Friction    float64  `yaml:"friction"`     // Per-frame velocity multiplier
	Epsilon     float64  `yaml:"epsilon"`      // Distances below this use the fallback heading
	MinSize     float64  `yaml:"min_size"`     // Particle side length lower bound (inclusive)
	MaxSize     float64  `yaml:"max_size"`     // Particle side length upper bound (exclusive)
	Palette     []string `yaml:"palette"`      // Hex colors
	SentinelX   float64  `yaml:"sentinel_x"`   // Pointer position when the cursor is away
	SentinelY   float64  `yaml:"sentinel_y"`
}

// BackdropConfig holds the faint heading drawn behind the particles.
type BackdropConfig struct {
	Text     string  `yaml:"text"`
	FontSize int     `yaml:"font_size"`
	Color    string  `yaml:"color"`
	Alpha    float64 `yaml:"alpha"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames averaged for perf stats
	BookmarkHistory     int     `yaml:"bookmark_history"`      // Windows kept for bookmark detection
	Snapshots           bool    `yaml:"snapshots"`             // Save a field snapshot with every bookmark
}

// AutopilotConfig drives the scripted pointer used in headless runs.
type AutopilotConfig struct {
	NoiseScale float64 `yaml:"noise_scale"` // Noise frequency per tick
	Frequency  float64 `yaml:"frequency"`   // Smoothing spring angular frequency
	Damping    float64 `yaml:"damping"`     // Smoothing spring damping ratio
	LeaveEvery int     `yaml:"leave_every"` // Ticks between simulated pointer leaves (0 = never)
	LeaveFor   int     `yaml:"leave_for"`   // Ticks the pointer stays away after leaving
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Palette       []color.RGBA
	Background    color.RGBA
	BackdropColor color.RGBA
	DT            float64 // 1 / TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Set replaces the global configuration. Used when a watched file is reloaded.
func Set(cfg *Config) {
	global = cfg
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configured values can drive a stable field.
func (c *Config) Validate() error {
	f := c.Field
	var errs []error
	if f.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("field.spacing must be positive, got %v", f.Spacing))
	}
	if f.MaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("field.max_distance must be positive, got %v", f.MaxDistance))
	}
	if f.Friction <= 0 || f.Friction > 1 {
		errs = append(errs, fmt.Errorf("field.friction must be in (0, 1], got %v", f.Friction))
	}
	if f.Spring < 0 {
		errs = append(errs, fmt.Errorf("field.spring must not be negative, got %v", f.Spring))
	}
	if f.Epsilon <= 0 {
		errs = append(errs, fmt.Errorf("field.epsilon must be positive, got %v", f.Epsilon))
	}
	if f.MinSize <= 0 || f.MinSize > f.MaxSize {
		errs = append(errs, fmt.Errorf("field size range [%v, %v) is invalid", f.MinSize, f.MaxSize))
	}
	if len(f.Palette) == 0 {
		errs = append(errs, errors.New("field.palette must not be empty"))
	}
	if c.Screen.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("screen.target_fps must be positive, got %v", c.Screen.TargetFPS))
	}
	if d := c.SentinelClearance(); f.MaxDistance > 0 && d <= f.MaxDistance {
		errs = append(errs, fmt.Errorf("field.sentinel (%v, %v) is %.1fpx from the canvas, must be beyond max_distance %v",
			f.SentinelX, f.SentinelY, d, f.MaxDistance))
	}
	return errors.Join(errs...)
}

// SentinelClearance returns the distance from the away-pointer position to
// the nearest point of the configured canvas.
func (c *Config) SentinelClearance() float64 {
	w, h := float64(c.Screen.Width), float64(c.Screen.Height)
	x, y := c.Field.SentinelX, c.Field.SentinelY
	dx := math.Max(0, math.Max(-x, x-w))
	dy := math.Max(0, math.Max(-y, y-h))
	return math.Hypot(dx, dy)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Palette = make([]color.RGBA, 0, len(c.Field.Palette))
	for _, hex := range c.Field.Palette {
		rgba, err := ParseHex(hex)
		if err != nil {
			return fmt.Errorf("field.palette: %w", err)
		}
		c.Derived.Palette = append(c.Derived.Palette, rgba)
	}

	bg, err := ParseHex(c.Screen.Background)
	if err != nil {
		return fmt.Errorf("screen.background: %w", err)
	}
	c.Derived.Background = bg

	backdrop, err := ParseHex(c.Backdrop.Color)
	if err != nil {
		return fmt.Errorf("backdrop.color: %w", err)
	}
	backdrop.A = uint8(clamp01(c.Backdrop.Alpha) * 255)
	c.Derived.BackdropColor = backdrop

	c.Derived.DT = 1.0 / float64(c.Screen.TargetFPS)
	return nil
}

// ParseHex converts a "#rrggbb" string into an opaque RGBA color.
func ParseHex(hex string) (color.RGBA, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
