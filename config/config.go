// Package config provides configuration loading and access for the autopilot.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Grid        GridConfig        `yaml:"grid"`
	Autopilot   AutopilotConfig   `yaml:"autopilot"`
	Target      TargetConfig      `yaml:"target"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Speed       SpeedConfig       `yaml:"speed"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Milestones  MilestonesConfig  `yaml:"milestones"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Store       StoreConfig       `yaml:"store"`
	Spectate    SpectateConfig    `yaml:"spectate"`
	Audio       AudioConfig       `yaml:"audio"`
	Terminal    TerminalConfig    `yaml:"terminal"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for graphical mode.
type ScreenConfig struct {
	CellSize  int    `yaml:"cell_size"`  // Pixels per grid cell
	HUDHeight int    `yaml:"hud_height"` // Extra pixels below the board
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// GridConfig holds board dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AutopilotConfig tunes loop detection.
type AutopilotConfig struct {
	HistorySize  int `yaml:"history_size"`  // Head positions remembered
	RepeatLimit  int `yaml:"repeat_limit"`  // Loop when a head repeats more than this
	StallLimit   int `yaml:"stall_limit"`   // Loop after more than this many non-improving ticks
	EpisodeLimit int `yaml:"episode_limit"` // Clear history after more than this many loops
}

// TargetConfig controls food placement.
type TargetConfig struct {
	Attempts int `yaml:"attempts"` // Random samples per placement
}

// ScoringConfig holds score increments.
type ScoringConfig struct {
	PerFood int `yaml:"per_food"`
}

// SpeedConfig holds tick pacing.
type SpeedConfig struct {
	TicksPerSecond int   `yaml:"ticks_per_second"` // Base rate at 1x
	Levels         []int `yaml:"levels"`           // Multipliers cycled by the speed key
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`  // Ticks in the perf rolling average
}

// MilestonesConfig holds thresholds for notable-event detection.
type MilestonesConfig struct {
	LoopStormEscapes int `yaml:"loop_storm_escapes"` // Loop escapes in one episode
	LongRunTicks     int `yaml:"long_run_ticks"`     // Episode length
}

// LeaderboardConfig holds best-episode tracking parameters.
type LeaderboardConfig struct {
	Size int `yaml:"size"`
}

// StoreConfig holds SQLite archive settings.
type StoreConfig struct {
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
}

// SpectateConfig holds WebSocket spectator settings.
type SpectateConfig struct {
	WriteWait  time.Duration `yaml:"write_wait"`
	PongWait   time.Duration `yaml:"pong_wait"`
	SendBuffer int           `yaml:"send_buffer"` // Frames queued per client before it is dropped
}

// AudioConfig holds chime parameters.
type AudioConfig struct {
	SampleRate int           `yaml:"sample_rate"`
	FoodHz     float64       `yaml:"food_hz"`
	CrashHz    float64       `yaml:"crash_hz"`
	Chime      time.Duration `yaml:"chime"`
	Volume     float64       `yaml:"volume"` // 0..1
}

// TerminalConfig holds glyphs for the terminal renderer.
type TerminalConfig struct {
	BodyRune   string `yaml:"body_rune"`
	HeadRune   string `yaml:"head_rune"`
	TargetRune string `yaml:"target_rune"`
	EmptyRune  string `yaml:"empty_rune"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenWidth  int           // Grid.Width * CellSize
	ScreenHeight int           // Grid.Height * CellSize + HUDHeight
	TickInterval time.Duration // Interval between ticks at 1x
	PingPeriod   time.Duration // Spectator ping interval, 9/10 of PongWait
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

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
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
	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.Width < 2 || c.Grid.Height < 2 {
		errs = append(errs, fmt.Errorf("grid must be at least 2x2, got %dx%d", c.Grid.Width, c.Grid.Height))
	}
	if c.Autopilot.HistorySize < 1 {
		errs = append(errs, errors.New("autopilot.history_size must be positive"))
	}
	if c.Target.Attempts < 0 {
		errs = append(errs, errors.New("target.attempts must not be negative"))
	}
	if c.Speed.TicksPerSecond < 1 {
		errs = append(errs, errors.New("speed.ticks_per_second must be positive"))
	}
	if len(c.Speed.Levels) == 0 {
		errs = append(errs, errors.New("speed.levels must not be empty"))
	}
	for _, l := range c.Speed.Levels {
		if l < 1 {
			errs = append(errs, fmt.Errorf("speed level %d must be positive", l))
		}
	}
	if c.Telemetry.WindowTicks < 1 {
		errs = append(errs, errors.New("telemetry.window_ticks must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenWidth = c.Grid.Width * c.Screen.CellSize
	c.Derived.ScreenHeight = c.Grid.Height*c.Screen.CellSize + c.Screen.HUDHeight
	if c.Speed.TicksPerSecond > 0 {
		c.Derived.TickInterval = time.Second / time.Duration(c.Speed.TicksPerSecond)
	}
	c.Derived.PingPeriod = c.Spectate.PongWait * 9 / 10
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
