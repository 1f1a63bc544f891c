package telemetry

import (
	"fmt"
	"log/slog"
)

// MilestoneType identifies the type of milestone.
type MilestoneType string

const (
	MilestoneNewBest   MilestoneType = "new_best"
	MilestoneLoopStorm MilestoneType = "loop_storm"
	MilestoneLongRun   MilestoneType = "long_run"
	MilestoneBoardFull MilestoneType = "board_full"
)

// Milestone marks a notable episode.
type Milestone struct {
	Type        MilestoneType `csv:"type"`
	Tick        int32         `csv:"tick"`
	Episode     int           `csv:"episode"`
	Score       int           `csv:"score"`
	Description string        `csv:"description"`
}

// LogMilestone logs the milestone using slog.
func (m Milestone) LogMilestone() {
	slog.Info("milestone",
		"type", string(m.Type),
		"tick", m.Tick,
		"episode", m.Episode,
		"score", m.Score,
		"description", m.Description,
	)
}

// MilestoneDetector flags episodes worth a second look.
type MilestoneDetector struct {
	loopStormEscapes int
	longRunTicks     int

	best int
}

// NewMilestoneDetector creates a detector. A threshold of zero disables the
// corresponding check.
func NewMilestoneDetector(loopStormEscapes, longRunTicks int) *MilestoneDetector {
	return &MilestoneDetector{
		loopStormEscapes: loopStormEscapes,
		longRunTicks:     longRunTicks,
	}
}

// Check analyses a finished episode and returns any milestones it reached.
func (md *MilestoneDetector) Check(ep EpisodeStats) []Milestone {
	var out []Milestone
	mk := func(t MilestoneType, desc string) {
		out = append(out, Milestone{Type: t, Tick: ep.EndTick, Episode: ep.Episode, Score: ep.Score, Description: desc})
	}

	if ep.Score > md.best {
		mk(MilestoneNewBest, fmt.Sprintf("score %d beats previous best %d", ep.Score, md.best))
		md.best = ep.Score
	}
	if md.loopStormEscapes > 0 && ep.LoopEscapes >= md.loopStormEscapes {
		mk(MilestoneLoopStorm, fmt.Sprintf("%d loop escapes in one episode", ep.LoopEscapes))
	}
	if md.longRunTicks > 0 && ep.Ticks >= md.longRunTicks {
		mk(MilestoneLongRun, fmt.Sprintf("survived %d ticks", ep.Ticks))
	}
	if ep.Cause == CauseBoardFull {
		mk(MilestoneBoardFull, fmt.Sprintf("filled the board at length %d", ep.Length))
	}

	return out
}

// Best returns the best score seen so far.
func (md *MilestoneDetector) Best() int {
	return md.best
}
