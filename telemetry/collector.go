package telemetry

import "github.com/pthm-cable/serpent/systems"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	decisions [systems.NumTiers]int
	foods     int
	crashes   int
	scores    []float64
	ticks     []float64
}

// NewCollector creates a new stats collector flushing every windowTicks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// RecordDecision counts a move by the tier that produced it.
func (c *Collector) RecordDecision(tier systems.Tier) {
	c.decisions[tier]++
}

// RecordFood records an eaten target.
func (c *Collector) RecordFood() {
	c.foods++
}

// RecordEpisode records a finished episode.
func (c *Collector) RecordEpisode(ep EpisodeStats) {
	c.scores = append(c.scores, float64(ep.Score))
	c.ticks = append(c.ticks, float64(ep.Ticks))
	if ep.Cause == CauseWall || ep.Cause == CauseSelf {
		c.crashes++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// best is the best episode score seen so far in the run.
func (c *Collector) Flush(currentTick int32, best int) WindowStats {
	mean, std, p50, p90, peak := ComputeScoreStats(c.scores)
	ticksMean, _, _, _, _ := ComputeScoreStats(c.ticks)

	var total int
	for _, n := range c.decisions {
		total += n
	}
	share := func(t systems.Tier) float64 {
		if total == 0 {
			return 0
		}
		return float64(c.decisions[t]) / float64(total)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Episodes:    len(c.scores),
		Foods:       c.foods,
		LoopEscapes: c.decisions[systems.TierLoopEscape],
		Crashes:     c.crashes,

		ScoreMean: mean,
		ScoreStd:  std,
		ScoreP50:  p50,
		ScoreP90:  p90,
		ScoreMax:  peak,
		TicksMean: ticksMean,

		LoopShare:      share(systems.TierLoopEscape),
		PathShare:      share(systems.TierPath),
		OpenSpaceShare: share(systems.TierOpenSpace),
		SafetyShare:    share(systems.TierSafety),
		RandomShare:    share(systems.TierRandom),

		BestScore: best,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.decisions = [systems.NumTiers]int{}
	c.foods = 0
	c.crashes = 0
	c.scores = c.scores[:0]
	c.ticks = c.ticks[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
