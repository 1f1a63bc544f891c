package main

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/game"
	"github.com/pthm-cable/serpent/telemetry"
)

// SeedResult summarises one headless run.
type SeedResult struct {
	Seed        int64   `csv:"seed"`
	Ticks       int32   `csv:"ticks"`
	Episodes    int     `csv:"episodes"`
	Crashes     int     `csv:"crashes"`
	BoardFull   int     `csv:"board_full"`
	Foods       int     `csv:"foods"`
	LoopEscapes int     `csv:"loop_escapes"`
	MeanScore   float64 `csv:"mean_score"`
	MaxScore    float64 `csv:"max_score"`

	scores []float64
	best   []telemetry.EpisodeStats
}

// Summary aggregates every finished episode across seeds.
type Summary struct {
	Seeds     int
	Episodes  int
	Crashes   int
	BoardFull int
	Mean      float64
	Std       float64
	Median    float64
	Max       float64
}

// Runner evaluates one config over many seeds in parallel.
type Runner struct {
	cfg      *config.Config
	maxTicks int32
	workers  int
}

// NewRunner creates a runner. workers < 1 means one worker.
func NewRunner(cfg *config.Config, maxTicks int32, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{cfg: cfg, maxTicks: maxTicks, workers: workers}
}

// Run evaluates every seed and returns results in seed order.
func (r *Runner) Run(seeds []int64) []SeedResult {
	results := make([]SeedResult, len(seeds))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.runSeed(seeds[idx])
			}
		}()
	}
	for i := range seeds {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// runSeed plays one headless game until maxTicks.
func (r *Runner) runSeed(seed int64) SeedResult {
	res := SeedResult{Seed: seed}

	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		Config:         r.cfg,
		EpisodeCallback: func(ep telemetry.EpisodeStats) {
			res.Episodes++
			res.Foods += ep.Foods
			res.LoopEscapes += ep.LoopEscapes
			switch ep.Cause {
			case telemetry.CauseBoardFull:
				res.BoardFull++
			default:
				res.Crashes++
			}
			res.scores = append(res.scores, float64(ep.Score))
		},
	})
	defer g.Unload()

	for g.Tick() < r.maxTicks {
		g.UpdateHeadless()
	}

	res.Ticks = g.Tick()
	if len(res.scores) > 0 {
		res.MeanScore = stat.Mean(res.scores, nil)
		res.MaxScore = floats.Max(res.scores)
	}
	res.best = g.Leaderboard().Entries()
	return res
}

// Summarize pools the episode scores of all results.
func Summarize(results []SeedResult) Summary {
	s := Summary{Seeds: len(results)}
	var scores []float64
	for _, r := range results {
		s.Episodes += r.Episodes
		s.Crashes += r.Crashes
		s.BoardFull += r.BoardFull
		scores = append(scores, r.scores...)
	}
	if len(scores) == 0 {
		return s
	}

	s.Mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		s.Std = stat.StdDev(scores, nil)
	}
	sort.Float64s(scores)
	s.Median = stat.Quantile(0.5, stat.Empirical, scores, nil)
	s.Max = floats.Max(scores)
	return s
}

// TopEpisodes merges every seed's best episodes, best first.
func TopEpisodes(results []SeedResult, n int) []telemetry.EpisodeStats {
	lb := telemetry.NewLeaderboard(n)
	for _, r := range results {
		for _, ep := range r.best {
			lb.Consider(ep)
		}
	}
	return lb.Entries()
}
