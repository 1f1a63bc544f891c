package game

import (
	"log/slog"

	"github.com/pthm-cable/serpent/systems"
	"github.com/pthm-cable/serpent/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.best)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// endEpisode records the finished episode and starts the next one.
// The board is still in its pre-move state when this runs.
func (g *Game) endEpisode(cause telemetry.EndCause, dec systems.Decision) {
	ep := g.tracker.Finish(g.tick, cause, g.score, g.body.Len())

	if g.snapshotDir != "" {
		g.saveSnapshot(ep, dec)
	}

	g.collector.RecordEpisode(ep)
	for _, m := range g.milestones.Check(ep) {
		if g.logStats {
			m.LogMilestone()
		}
		if err := g.outputManager.WriteMilestone(m); err != nil {
			slog.Error("failed to write milestone", "error", err)
		}
	}
	g.leaderboard.Consider(ep)
	if ep.Score > g.best {
		g.best = ep.Score
	}

	if err := g.outputManager.WriteEpisode(ep); err != nil {
		slog.Error("failed to write episode", "error", err)
	}
	if g.episodeCallback != nil {
		g.episodeCallback(ep)
	}

	if g.logStats {
		slog.Info("episode", "stats", ep)
	} else {
		slog.Debug("episode", "stats", ep)
	}

	switch cause {
	case telemetry.CauseBoardFull:
		g.emit(telemetry.EventBoardFull, g.body.Head())
	default:
		g.emit(telemetry.EventCrash, g.body.Head().Step(dec.Dir))
	}

	g.reset()
}

// saveSnapshot writes the board and the move that ended the episode.
func (g *Game) saveSnapshot(ep telemetry.EpisodeStats, dec systems.Decision) {
	snapshot := telemetry.NewSnapshot(g.grid, g.body, g.target)
	snapshot.RNGSeed = g.seed
	snapshot.Tick = g.tick
	snapshot.Episode = ep.Episode
	snapshot.Score = ep.Score
	snapshot.Cause = ep.Cause
	snapshot.Previous = g.dir.String()
	snapshot.Direction = dec.Dir.String()
	snapshot.Tier = dec.Tier.String()

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Debug("snapshot saved", "path", path, "tick", g.tick)
}
