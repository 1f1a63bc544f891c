package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Events during window
	Episodes    int `csv:"episodes"`
	Foods       int `csv:"foods"`
	LoopEscapes int `csv:"loop_escapes"`
	Crashes     int `csv:"crashes"`

	// Final scores of episodes that ended in the window
	ScoreMean float64 `csv:"score_mean"`
	ScoreStd  float64 `csv:"score_std"`
	ScoreP50  float64 `csv:"score_p50"`
	ScoreP90  float64 `csv:"score_p90"`
	ScoreMax  float64 `csv:"score_max"`
	TicksMean float64 `csv:"ticks_mean"`

	// Share of decisions per tier
	LoopShare      float64 `csv:"loop_share"`
	PathShare      float64 `csv:"path_share"`
	OpenSpaceShare float64 `csv:"open_space_share"`
	SafetyShare    float64 `csv:"safety_share"`
	RandomShare    float64 `csv:"random_share"`

	BestScore int `csv:"best_score"` // best episode score over the whole run
}

// ComputeScoreStats calculates mean, sample standard deviation, empirical
// p50/p90 and max. Returns zeros for an empty slice.
func ComputeScoreStats(values []float64) (mean, std, p50, p90, peak float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	// Sort for quantiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	peak = floats.Max(sorted)

	return mean, std, p50, p90, peak
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("episodes", s.Episodes),
		slog.Int("foods", s.Foods),
		slog.Int("loop_escapes", s.LoopEscapes),
		slog.Float64("score_mean", s.ScoreMean),
		slog.Float64("score_p90", s.ScoreP90),
		slog.Float64("score_max", s.ScoreMax),
		slog.Float64("path_share", s.PathShare),
		slog.Float64("open_space_share", s.OpenSpaceShare),
		slog.Float64("random_share", s.RandomShare),
		slog.Int("best_score", s.BestScore),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"episodes", s.Episodes,
		"foods", s.Foods,
		"loop_escapes", s.LoopEscapes,
		"crashes", s.Crashes,
		"score_mean", s.ScoreMean,
		"score_std", s.ScoreStd,
		"score_p50", s.ScoreP50,
		"score_p90", s.ScoreP90,
		"score_max", s.ScoreMax,
		"ticks_mean", s.TicksMean,
		"loop_share", s.LoopShare,
		"path_share", s.PathShare,
		"open_space_share", s.OpenSpaceShare,
		"safety_share", s.SafetyShare,
		"random_share", s.RandomShare,
		"best_score", s.BestScore,
	)
}
