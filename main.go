package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/audio"
	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/game"
	"github.com/pthm-cable/serpent/spectate"
	"github.com/pthm-cable/serpent/store"
	"github.com/pthm-cable/serpent/telemetry"
	"github.com/pthm-cable/serpent/terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	tui := flag.Bool("tui", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Write logs to this file (terminal mode discards logs otherwise)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for end-of-episode snapshots")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Ticks per headless update call")
	dbPath := flag.String("db", "", "SQLite file archiving runs and episodes (empty = disabled)")
	listen := flag.String("listen", "", "Address serving the spectator WebSocket, e.g. :8080 (empty = disabled)")
	sound := flag.Bool("sound", false, "Play chimes on food and crashes")

	flag.Parse()

	if err := setupLogging(*logLevel, *logFile, *tui); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var archive *runArchive
	if *dbPath != "" {
		a, err := openArchive(*dbPath, cfg, rngSeed)
		if err != nil {
			slog.Error("failed to open run archive", "error", err)
			os.Exit(1)
		}
		archive = a
	}

	opts := game.Options{
		Seed:           rngSeed,
		Headless:       *headless,
		LogStats:       *logStats,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		Config:         cfg,
	}
	if archive != nil {
		opts.EpisodeCallback = archive.record
	}

	g := game.NewGameWithOptions(opts)
	defer func() {
		g.Unload()
		if archive != nil {
			archive.finish(g.Tick(), g.Best())
		}
	}()

	if *listen != "" {
		hub := spectate.NewHub(spectate.Settings{
			WriteWait:  cfg.Spectate.WriteWait,
			PongWait:   cfg.Spectate.PongWait,
			PingPeriod: cfg.Derived.PingPeriod,
			SendBuffer: cfg.Spectate.SendBuffer,
		})
		go hub.Run(ctx)
		g.OnFrame(hub.Publish)
		srv := serveSpectators(*listen, hub)
		defer srv.Close()
	}

	if *sound && !*headless {
		player, err := audio.New(cfg.Audio)
		if err != nil {
			// Non-fatal, the game runs without sound
			slog.Warn("audio unavailable", "error", err)
		}
		defer player.Close()
		g.Subscribe(player.HandleEvent)
	}

	slog.Info("starting",
		"seed", rngSeed,
		"grid", cfg.Grid.Width,
		"headless", *headless,
		"tui", *tui,
		"max_ticks", *maxTicks,
	)

	switch {
	case *headless:
		runHeadless(ctx, g, *maxTicks)
	case *tui:
		if err := runTerminal(ctx, g, cfg, *maxTicks); err != nil {
			slog.Error("terminal mode failed", "error", err)
		}
	default:
		runWindow(g, cfg, *maxTicks)
	}
}

func setupLogging(level, path string, tui bool) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		w = f
	case tui:
		w = io.Discard
	}

	// JSON to stdout for structured logging
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return nil
}

func runHeadless(ctx context.Context, g *game.Game, maxTicks int) {
	for ctx.Err() == nil {
		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "best", g.Best())
			return
		}
	}
	slog.Info("interrupted", "tick", g.Tick(), "best", g.Best())
}

func runTerminal(ctx context.Context, g *game.Game, cfg *config.Config, maxTicks int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	terminal.Run(ctx, screen, terminal.NewView(screen, cfg.Terminal), g, maxTicks)
	return nil
}

func runWindow(g *game.Game, cfg *config.Config, maxTicks int) {
	rl.InitWindow(int32(cfg.Derived.ScreenWidth), int32(cfg.Derived.ScreenHeight), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	for !rl.WindowShouldClose() {
		g.UpdateFrame()
		g.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
}

func serveSpectators(addr string, hub *spectate.Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		slog.Info("spectator server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("spectator server failed", "error", err)
		}
	}()
	return srv
}

// runArchive records the current run into the SQLite store.
type runArchive struct {
	db    *store.Store
	runID string
}

func openArchive(path string, cfg *config.Config, seed int64) (*runArchive, error) {
	db, err := store.Open(path, time.Duration(cfg.Store.BusyTimeoutMS)*time.Millisecond)
	if err != nil {
		return nil, err
	}
	id, err := db.CreateRun(seed, cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("archiving run", "run_id", id, "db", path)
	return &runArchive{db: db, runID: id}, nil
}

func (a *runArchive) record(ep telemetry.EpisodeStats) {
	if err := a.db.RecordEpisode(a.runID, ep); err != nil {
		slog.Error("failed to archive episode", "error", err)
	}
}

func (a *runArchive) finish(tick int32, best int) {
	if err := a.db.FinishRun(a.runID, tick, best); err != nil {
		slog.Error("failed to finish run", "error", err)
	}
	if err := a.db.Close(); err != nil {
		slog.Error("failed to close run archive", "error", err)
	}
}
