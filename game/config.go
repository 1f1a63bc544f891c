package game

import (
	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	OutputDir      string // CSV/JSON output, empty = disabled
	SnapshotDir    string // crash snapshots, empty = disabled
	StepsPerUpdate int    // ticks per UpdateHeadless call

	// Config overrides the global config when set.
	Config *config.Config

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
	// EpisodeCallback receives every finished episode.
	EpisodeCallback func(telemetry.EpisodeStats)
}
