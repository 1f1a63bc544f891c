package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/telemetry"
)

func benchConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	// Small board so episodes end quickly.
	cfg.Grid.Width, cfg.Grid.Height = 6, 6
	return cfg
}

func TestRunnerDeterministic(t *testing.T) {
	cfg := benchConfig(t)
	seeds := []int64{1, 2, 3, 4}

	a := NewRunner(cfg, 3000, 4).Run(seeds)
	b := NewRunner(cfg, 3000, 1).Run(seeds)

	for i := range seeds {
		if a[i].Seed != seeds[i] {
			t.Errorf("result %d seed = %d, want %d", i, a[i].Seed, seeds[i])
		}
		if a[i].Ticks != 3000 {
			t.Errorf("seed %d ticks = %d, want 3000", seeds[i], a[i].Ticks)
		}
		if a[i].Episodes != b[i].Episodes || a[i].MeanScore != b[i].MeanScore {
			t.Errorf("seed %d differs between worker counts: %+v vs %+v", seeds[i], a[i], b[i])
		}
		if a[i].Episodes == 0 {
			t.Errorf("seed %d finished no episodes on a 6x6 board", seeds[i])
		}
		if a[i].Crashes+a[i].BoardFull != a[i].Episodes {
			t.Errorf("seed %d: crashes %d + full %d != episodes %d",
				seeds[i], a[i].Crashes, a[i].BoardFull, a[i].Episodes)
		}
	}
}

func TestSummarize(t *testing.T) {
	results := []SeedResult{
		{Episodes: 2, Crashes: 2, scores: []float64{10, 30}},
		{Episodes: 2, Crashes: 1, BoardFull: 1, scores: []float64{20, 40}},
	}
	s := Summarize(results)

	if s.Seeds != 2 || s.Episodes != 4 || s.Crashes != 3 || s.BoardFull != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.Mean != 25 || s.Max != 40 {
		t.Errorf("mean=%v max=%v, want 25 and 40", s.Mean, s.Max)
	}
	if s.Median != 20 {
		t.Errorf("median = %v, want 20", s.Median)
	}
	if s.Std < 12.9 || s.Std > 13.0 {
		t.Errorf("std = %v, want ~12.91", s.Std)
	}

	if empty := Summarize(nil); empty.Mean != 0 || empty.Episodes != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
	if one := Summarize([]SeedResult{{Episodes: 1, scores: []float64{50}}}); one.Std != 0 || one.Mean != 50 {
		t.Errorf("single score summary = %+v", one)
	}
}

func TestTopEpisodes(t *testing.T) {
	results := []SeedResult{
		{best: []telemetry.EpisodeStats{{Episode: 1, Score: 50}, {Episode: 2, Score: 10}}},
		{best: []telemetry.EpisodeStats{{Episode: 1, Score: 30}}},
	}
	top := TopEpisodes(results, 2)
	if len(top) != 2 || top[0].Score != 50 || top[1].Score != 30 {
		t.Errorf("top = %+v", top)
	}
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	results := []SeedResult{{Seed: 7, Ticks: 100, Episodes: 1, MeanScore: 20, MaxScore: 20}}

	if err := writeOutputs(dir, results, 5); err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "bench.csv"))
	if err != nil {
		t.Fatalf("read bench.csv: %v", err)
	}
	if !strings.HasPrefix(string(data), "seed,ticks,episodes") {
		t.Errorf("bench.csv header = %q", strings.SplitN(string(data), "\n", 2)[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "top_episodes.json")); err != nil {
		t.Errorf("top_episodes.json: %v", err)
	}
}
