// Package store archives runs and their finished episodes in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/serpent/telemetry"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
}

// RunRow is one archived run.
type RunRow struct {
	ID         string
	Seed       int64
	GridWidth  int
	GridHeight int
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Ticks      int64
	Episodes   int
	Best       int
}

// Open opens (or creates) the database at path.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout.Milliseconds()),
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		grid_width INTEGER NOT NULL,
		grid_height INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		ticks INTEGER NOT NULL DEFAULT 0,
		best INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS episodes (
		run_id TEXT NOT NULL REFERENCES runs(id),
		episode INTEGER NOT NULL,
		start_tick INTEGER NOT NULL,
		end_tick INTEGER NOT NULL,
		score INTEGER NOT NULL,
		length INTEGER NOT NULL,
		foods INTEGER NOT NULL,
		cause TEXT NOT NULL,
		loop_escapes INTEGER NOT NULL DEFAULT 0,
		path_moves INTEGER NOT NULL DEFAULT 0,
		open_space_moves INTEGER NOT NULL DEFAULT 0,
		safety_moves INTEGER NOT NULL DEFAULT 0,
		random_moves INTEGER NOT NULL DEFAULT 0,
		max_repeats INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, episode)
	);

	CREATE INDEX IF NOT EXISTS idx_episodes_score ON episodes(score DESC);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// CreateRun starts a new run and returns its id.
func (s *Store) CreateRun(seed int64, width, height int) (string, error) {
	id := uuid.NewString()
	_, err := s.conn.Exec(
		"INSERT INTO runs (id, seed, grid_width, grid_height, started_at) VALUES (?, ?, ?, ?, ?)",
		id, seed, width, height, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// RecordEpisode stores a finished episode of runID.
func (s *Store) RecordEpisode(runID string, ep telemetry.EpisodeStats) error {
	_, err := s.conn.Exec(`
		INSERT INTO episodes (run_id, episode, start_tick, end_tick, score, length, foods, cause,
			loop_escapes, path_moves, open_space_moves, safety_moves, random_moves, max_repeats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, ep.Episode, ep.StartTick, ep.EndTick, ep.Score, ep.Length, ep.Foods, string(ep.Cause),
		ep.LoopEscapes, ep.PathMoves, ep.OpenSpaceMoves, ep.SafetyMoves, ep.RandomMoves, ep.MaxRepeats,
	)
	if err != nil {
		return fmt.Errorf("record episode %d: %w", ep.Episode, err)
	}
	return nil
}

// FinishRun marks a run finished with its final tick and best score.
func (s *Store) FinishRun(runID string, ticks int32, best int) error {
	res, err := s.conn.Exec(
		"UPDATE runs SET finished_at = ?, ticks = ?, best = ? WHERE id = ?",
		time.Now().UTC(), ticks, best, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrNotFound)
	}
	return nil
}

// Run returns one run with its episode count.
func (s *Store) Run(id string) (*RunRow, error) {
	row := s.conn.QueryRow(`
		SELECT r.id, r.seed, r.grid_width, r.grid_height, r.started_at, r.finished_at, r.ticks, r.best,
			(SELECT COUNT(*) FROM episodes e WHERE e.run_id = r.id)
		FROM runs r WHERE r.id = ?`,
		id,
	)
	r := &RunRow{}
	err := row.Scan(&r.ID, &r.Seed, &r.GridWidth, &r.GridHeight, &r.StartedAt, &r.FinishedAt,
		&r.Ticks, &r.Best, &r.Episodes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return r, nil
}

// TopEpisodes returns the highest scoring episodes, best first. An empty
// runID searches every run.
func (s *Store) TopEpisodes(runID string, limit int) ([]telemetry.EpisodeStats, error) {
	rows, err := s.conn.Query(`
		SELECT episode, start_tick, end_tick, score, length, foods, cause,
			loop_escapes, path_moves, open_space_moves, safety_moves, random_moves, max_repeats
		FROM episodes
		WHERE ? = '' OR run_id = ?
		ORDER BY score DESC, end_tick - start_tick ASC
		LIMIT ?`,
		runID, runID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top episodes: %w", err)
	}
	defer rows.Close()

	var result []telemetry.EpisodeStats
	for rows.Next() {
		var ep telemetry.EpisodeStats
		var cause string
		if err := rows.Scan(&ep.Episode, &ep.StartTick, &ep.EndTick, &ep.Score, &ep.Length, &ep.Foods, &cause,
			&ep.LoopEscapes, &ep.PathMoves, &ep.OpenSpaceMoves, &ep.SafetyMoves, &ep.RandomMoves, &ep.MaxRepeats); err != nil {
			return nil, fmt.Errorf("top episodes: %w", err)
		}
		ep.Cause = telemetry.EndCause(cause)
		ep.Ticks = int(ep.EndTick - ep.StartTick)
		result = append(result, ep)
	}
	return result, rows.Err()
}
