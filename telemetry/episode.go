package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/serpent/systems"
)

// EndCause describes why an episode ended.
type EndCause string

const (
	CauseWall      EndCause = "wall"
	CauseSelf      EndCause = "self"
	CauseBoardFull EndCause = "board_full"
	CauseAborted   EndCause = "aborted"
)

// EpisodeStats summarises one life of the snake, from reset to crash.
type EpisodeStats struct {
	Episode   int      `csv:"episode" json:"episode"`
	StartTick int32    `csv:"start_tick" json:"start_tick"`
	EndTick   int32    `csv:"end_tick" json:"end_tick"`
	Ticks     int      `csv:"ticks" json:"ticks"`
	Score     int      `csv:"score" json:"score"`
	Length    int      `csv:"length" json:"length"`
	Foods     int      `csv:"foods" json:"foods"`
	Cause     EndCause `csv:"cause" json:"cause"`

	// Decisions by tier
	LoopEscapes    int `csv:"loop_escapes" json:"loop_escapes"`
	PathMoves      int `csv:"path_moves" json:"path_moves"`
	OpenSpaceMoves int `csv:"open_space_moves" json:"open_space_moves"`
	SafetyMoves    int `csv:"safety_moves" json:"safety_moves"`
	RandomMoves    int `csv:"random_moves" json:"random_moves"`

	MaxRepeats int `csv:"max_repeats" json:"max_repeats"` // highest head repeat count seen
}

// EpisodeTracker accumulates statistics for the running episode.
type EpisodeTracker struct {
	current EpisodeStats
	tiers   [systems.NumTiers]int
}

// NewEpisodeTracker creates a tracker for episode 1 starting at tick 0.
func NewEpisodeTracker() *EpisodeTracker {
	et := &EpisodeTracker{}
	et.Begin(1, 0)
	return et
}

// Begin starts a new episode.
func (et *EpisodeTracker) Begin(episode int, tick int32) {
	et.current = EpisodeStats{Episode: episode, StartTick: tick, Length: 1}
	et.tiers = [systems.NumTiers]int{}
}

// RecordDecision counts the tier that produced a move.
func (et *EpisodeTracker) RecordDecision(dec systems.Decision) {
	et.tiers[dec.Tier]++
	if dec.Repeats > et.current.MaxRepeats {
		et.current.MaxRepeats = dec.Repeats
	}
}

// RecordFood records an eaten target.
func (et *EpisodeTracker) RecordFood(score, length int) {
	et.current.Foods++
	et.current.Score = score
	et.current.Length = length
}

// Current returns the running episode's stats so far.
func (et *EpisodeTracker) Current() EpisodeStats {
	s := et.current
	et.fillTiers(&s)
	return s
}

// Finish closes the running episode and returns its stats.
func (et *EpisodeTracker) Finish(tick int32, cause EndCause, score, length int) EpisodeStats {
	s := et.current
	s.EndTick = tick
	s.Ticks = int(tick - s.StartTick)
	s.Cause = cause
	s.Score = score
	s.Length = length
	et.fillTiers(&s)
	return s
}

func (et *EpisodeTracker) fillTiers(s *EpisodeStats) {
	s.LoopEscapes = et.tiers[systems.TierLoopEscape]
	s.PathMoves = et.tiers[systems.TierPath]
	s.OpenSpaceMoves = et.tiers[systems.TierOpenSpace]
	s.SafetyMoves = et.tiers[systems.TierSafety]
	s.RandomMoves = et.tiers[systems.TierRandom]
}

// LogValue implements slog.LogValuer for structured logging.
func (s EpisodeStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("episode", s.Episode),
		slog.Int("ticks", s.Ticks),
		slog.Int("score", s.Score),
		slog.Int("length", s.Length),
		slog.String("cause", string(s.Cause)),
		slog.Int("loop_escapes", s.LoopEscapes),
		slog.Int("open_space_moves", s.OpenSpaceMoves),
		slog.Int("random_moves", s.RandomMoves),
	)
}
