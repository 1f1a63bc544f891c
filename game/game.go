// Package game drives the autopilot: it applies each decision to the board,
// detects crashes, keeps score and feeds telemetry.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/serpent/board"
	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/renderer"
	"github.com/pthm-cable/serpent/systems"
	"github.com/pthm-cable/serpent/telemetry"
)

// maxCatchUpTicks bounds how many ticks one Update may run after a stall.
const maxCatchUpTicks = 32

// Game owns the board, the autopilot and all per-run bookkeeping.
type Game struct {
	cfg  *config.Config
	grid board.Grid
	rng  *rand.Rand
	seed int64

	pilot *systems.Autopilot

	// Round state
	body   *board.Body
	target board.Cell
	dir    board.Direction
	last   systems.Decision
	score  int

	// Run state
	tick     int32
	episode  int
	best     int
	speedIdx int
	accum    time.Duration

	stepsPerUpdate int
	listeners      []func(telemetry.Event)
	frameSinks     []func(Frame)

	// Graphical mode, created on first Draw
	boardRenderer *renderer.BoardRenderer
	hud           *renderer.HUD

	// Telemetry
	collector       *telemetry.Collector
	perfCollector   *telemetry.PerfCollector
	tracker         *telemetry.EpisodeTracker
	milestones      *telemetry.MilestoneDetector
	leaderboard     *telemetry.Leaderboard
	outputManager   *telemetry.OutputManager
	statsCallback   func(telemetry.WindowStats)
	episodeCallback func(telemetry.EpisodeStats)
	logStats        bool
	snapshotDir     string
}

// StepResult describes what one tick did.
type StepResult struct {
	Decision systems.Decision
	Ate      bool
	Ended    bool
	Cause    telemetry.EndCause
}

// NewGameWithOptions creates a game ready to tick.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	grid := board.Grid{Width: cfg.Grid.Width, Height: cfg.Grid.Height}
	rng := rand.New(rand.NewSource(opts.Seed))

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:  cfg,
		grid: grid,
		rng:  rng,
		seed: opts.Seed,
		pilot: systems.NewAutopilot(grid, systems.LoopParams{
			HistorySize:  cfg.Autopilot.HistorySize,
			RepeatLimit:  cfg.Autopilot.RepeatLimit,
			StallLimit:   cfg.Autopilot.StallLimit,
			EpisodeLimit: cfg.Autopilot.EpisodeLimit,
		}, rng),
		stepsPerUpdate:  steps,
		collector:       telemetry.NewCollector(cfg.Telemetry.WindowTicks),
		perfCollector:   telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		tracker:         telemetry.NewEpisodeTracker(),
		milestones:      telemetry.NewMilestoneDetector(cfg.Milestones.LoopStormEscapes, cfg.Milestones.LongRunTicks),
		leaderboard:     telemetry.NewLeaderboard(cfg.Leaderboard.Size),
		statsCallback:   opts.StatsCallback,
		episodeCallback: opts.EpisodeCallback,
		logStats:        opts.LogStats,
		snapshotDir:     opts.SnapshotDir,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	g.episode = 1
	g.startRound()
	return g
}

// startRound installs a fresh body, target and decision state.
func (g *Game) startRound() {
	r := newRound(g.grid, g.rng, g.cfg.Target.Attempts)
	g.body, g.target, g.dir = r.body, r.target, r.dir
	g.last = systems.Decision{}
	g.score = 0
	g.pilot.Reset()
	g.tracker.Begin(g.episode, g.tick)
}

// reset starts the next episode. Score and speed go back to their
// starting values.
func (g *Game) reset() {
	g.episode++
	g.speedIdx = 0
	g.startRound()
}

// Step runs a single tick: decide, move, and either eat, crash or carry on.
func (g *Game) Step() StepResult {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseDecide)
	dec := g.pilot.Decide(g.body, g.dir, g.target)
	g.tick++
	g.last = dec
	g.collector.RecordDecision(dec.Tier)
	g.tracker.RecordDecision(dec)
	if dec.Tier == systems.TierLoopEscape {
		g.emit(telemetry.EventLoopEscape, g.body.Head())
	}

	g.perfCollector.StartPhase(telemetry.PhaseApply)
	res := StepResult{Decision: dec}
	head := g.body.Head().Step(dec.Dir)

	switch {
	case !g.grid.Contains(head):
		res.Cause = telemetry.CauseWall
	case g.body.Contains(head):
		res.Cause = telemetry.CauseSelf
	}
	if res.Cause != "" {
		res.Ended = true
		g.endEpisode(res.Cause, dec)
		g.finishTick()
		return res
	}

	g.dir = dec.Dir
	if head != g.target {
		if err := g.body.Advance(head); err != nil {
			slog.Error("advance failed", "head", head.String(), "error", err)
		}
		g.finishTick()
		return res
	}

	if err := g.body.Grow(head); err != nil {
		slog.Error("grow failed", "head", head.String(), "error", err)
	}
	g.score += g.cfg.Scoring.PerFood
	res.Ate = true
	g.collector.RecordFood()
	g.tracker.RecordFood(g.score, g.body.Len())
	g.emit(telemetry.EventFood, head)

	g.perfCollector.StartPhase(telemetry.PhaseTarget)
	target, ok := board.PlaceTarget(g.grid, g.body, g.rng, g.cfg.Target.Attempts)
	if !ok {
		res.Ended = true
		res.Cause = telemetry.CauseBoardFull
		g.endEpisode(res.Cause, dec)
		g.finishTick()
		return res
	}
	g.target = target

	g.finishTick()
	return res
}

func (g *Game) finishTick() {
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	if len(g.frameSinks) > 0 {
		g.perfCollector.StartPhase(telemetry.PhasePublish)
		f := g.Frame()
		for _, fn := range g.frameSinks {
			fn(f)
		}
	}
	g.perfCollector.EndTick()
}

// Update advances the game by wall-clock time dt at the current speed.
func (g *Game) Update(dt time.Duration) {
	g.accum += dt
	interval := g.TickInterval()
	for n := 0; g.accum >= interval; n++ {
		if n == maxCatchUpTicks {
			g.accum = 0
			break
		}
		g.accum -= interval
		g.Step()
	}
	g.perfCollector.RecordFrame()
}

// UpdateHeadless runs StepsPerUpdate ticks as fast as possible.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// CycleSpeed moves to the next speed level and returns its multiplier.
func (g *Game) CycleSpeed() int {
	g.speedIdx = (g.speedIdx + 1) % len(g.cfg.Speed.Levels)
	speed := g.Speed()
	slog.Info("speed changed", "multiplier", speed)
	g.listenersEmit(telemetry.Event{Type: telemetry.EventSpeed, Tick: g.tick, Episode: g.episode, Speed: speed})
	return speed
}

// Speed returns the current speed multiplier.
func (g *Game) Speed() int {
	return g.cfg.Speed.Levels[g.speedIdx]
}

// TickRate returns ticks per second at the current speed.
func (g *Game) TickRate() int {
	return g.cfg.Speed.TicksPerSecond * g.Speed()
}

// TickInterval returns the wall-clock time between ticks at current speed.
func (g *Game) TickInterval() time.Duration {
	return time.Second / time.Duration(g.TickRate())
}

// Subscribe registers fn to receive game events.
func (g *Game) Subscribe(fn func(telemetry.Event)) {
	g.listeners = append(g.listeners, fn)
}

// OnFrame registers fn to receive the board after every tick.
func (g *Game) OnFrame(fn func(Frame)) {
	g.frameSinks = append(g.frameSinks, fn)
}

func (g *Game) emit(t telemetry.EventType, cell board.Cell) {
	g.listenersEmit(telemetry.Event{
		Type:    t,
		Tick:    g.tick,
		Episode: g.episode,
		Score:   g.score,
		Length:  g.body.Len(),
		Cell:    cell,
		Speed:   g.Speed(),
	})
}

func (g *Game) listenersEmit(ev telemetry.Event) {
	for _, fn := range g.listeners {
		fn(ev)
	}
}

// Unload flushes final output and releases resources.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.WriteLeaderboard(g.leaderboard); err != nil {
			slog.Error("failed to write leaderboard", "error", err)
		}
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}

// Tick returns the current tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Episode returns the running episode number, starting at 1.
func (g *Game) Episode() int {
	return g.episode
}

// Score returns the running episode's score.
func (g *Game) Score() int {
	return g.score
}

// Best returns the best finished episode score.
func (g *Game) Best() int {
	return g.best
}

// Leaderboard returns the run's best episodes.
func (g *Game) Leaderboard() *telemetry.Leaderboard {
	return g.leaderboard
}

// PerfStats returns timing over the recent tick window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}
