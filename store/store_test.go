package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/serpent/telemetry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), time.Second)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func episode(n, score int, cause telemetry.EndCause) telemetry.EpisodeStats {
	return telemetry.EpisodeStats{
		Episode:   n,
		StartTick: int32(n * 100),
		EndTick:   int32(n*100 + 50),
		Score:     score,
		Length:    score/10 + 1,
		Foods:     score / 10,
		Cause:     cause,
		PathMoves: 40,
	}
}

func TestCreateAndFinishRun(t *testing.T) {
	s := openTestStore(t)

	id, err := s.CreateRun(42, 20, 20)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	for i, score := range []int{10, 30, 20} {
		if err := s.RecordEpisode(id, episode(i+1, score, telemetry.CauseSelf)); err != nil {
			t.Fatalf("RecordEpisode: %v", err)
		}
	}
	if err := s.FinishRun(id, 350, 30); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	run, err := s.Run(id)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Seed != 42 || run.GridWidth != 20 || run.Ticks != 350 || run.Best != 30 || run.Episodes != 3 {
		t.Errorf("run = %+v", run)
	}
	if !run.FinishedAt.Valid {
		t.Error("finished_at not set")
	}
}

func TestRunNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Run("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Run(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.FinishRun("missing", 1, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("FinishRun(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDuplicateEpisodeRejected(t *testing.T) {
	s := openTestStore(t)
	id, err := s.CreateRun(1, 20, 20)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := s.RecordEpisode(id, episode(1, 10, telemetry.CauseWall)); err != nil {
		t.Fatalf("RecordEpisode: %v", err)
	}
	if err := s.RecordEpisode(id, episode(1, 20, telemetry.CauseWall)); err == nil {
		t.Error("expected error for duplicate episode")
	}
}

func TestTopEpisodes(t *testing.T) {
	s := openTestStore(t)

	a, _ := s.CreateRun(1, 20, 20)
	b, _ := s.CreateRun(2, 20, 20)
	records := []struct {
		run   string
		n     int
		score int
	}{
		{a, 1, 40}, {a, 2, 90}, {a, 3, 10},
		{b, 1, 70}, {b, 2, 120},
	}
	for _, r := range records {
		if err := s.RecordEpisode(r.run, episode(r.n, r.score, telemetry.CauseSelf)); err != nil {
			t.Fatalf("RecordEpisode: %v", err)
		}
	}

	tests := []struct {
		name  string
		run   string
		limit int
		want  []int
	}{
		{"all runs", "", 3, []int{120, 90, 70}},
		{"one run", a, 10, []int{90, 40, 10}},
		{"limit", b, 1, []int{120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.TopEpisodes(tt.run, tt.limit)
			if err != nil {
				t.Fatalf("TopEpisodes: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d episodes, want %d", len(got), len(tt.want))
			}
			for i, ep := range got {
				if ep.Score != tt.want[i] {
					t.Errorf("episode %d score = %d, want %d", i, ep.Score, tt.want[i])
				}
				if ep.Ticks != 50 || ep.Cause != telemetry.CauseSelf || ep.PathMoves != 40 {
					t.Errorf("episode %d = %+v", i, ep)
				}
			}
		})
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path, time.Second)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id, err := s.CreateRun(5, 10, 10)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	s.Close()

	s, err = Open(path, time.Second)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Run(id); err != nil {
		t.Errorf("Run after reopen: %v", err)
	}
}
