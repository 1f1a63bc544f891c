// Command bench plays many headless games in parallel and reports how the
// autopilot scores across seeds.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/serpent/config"
)

// formatDuration formats a duration as MmSSs.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%dm%02ds", m, d/time.Second)
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	seeds := flag.Int("seeds", 8, "Number of seeds to run")
	firstSeed := flag.Int64("first-seed", 42, "Seed of the first run; later runs add 1000 each")
	maxTicks := flag.Int("ticks", 100000, "Ticks per run")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Parallel runs")
	outputDir := flag.String("output", "", "Directory for bench.csv and top_episodes.json (empty = none)")
	top := flag.Int("top", 10, "Episodes kept in top_episodes.json")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	runSeeds := make([]int64, *seeds)
	for i := range runSeeds {
		runSeeds[i] = *firstSeed + int64(i)*1000
	}

	fmt.Printf("Running %d seeds x %d ticks on %d workers\n", *seeds, *maxTicks, *workers)
	start := time.Now()

	results := NewRunner(config.Cfg(), int32(*maxTicks), *workers).Run(runSeeds)
	sum := Summarize(results)

	for _, r := range results {
		fmt.Printf("  seed %-8d episodes=%-5d crashes=%-5d full=%-3d mean=%6.1f max=%4.0f\n",
			r.Seed, r.Episodes, r.Crashes, r.BoardFull, r.MeanScore, r.MaxScore)
	}
	fmt.Printf("\n%d episodes in %s\n", sum.Episodes, formatDuration(time.Since(start)))
	fmt.Printf("Score mean=%.2f std=%.2f median=%.0f max=%.0f\n", sum.Mean, sum.Std, sum.Median, sum.Max)
	fmt.Printf("Crashes=%d board_full=%d\n", sum.Crashes, sum.BoardFull)

	if *outputDir == "" {
		return
	}
	if err := writeOutputs(*outputDir, results, *top); err != nil {
		log.Fatalf("failed to write results: %v", err)
	}
	fmt.Printf("Results saved to: %s\n", *outputDir)
}

func writeOutputs(dir string, results []SeedResult, top int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "bench.csv"))
	if err != nil {
		return fmt.Errorf("create bench.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		return fmt.Errorf("write bench.csv: %w", err)
	}

	data, err := json.MarshalIndent(TopEpisodes(results, top), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal top episodes: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "top_episodes.json"), data, 0644); err != nil {
		return fmt.Errorf("write top_episodes.json: %w", err)
	}
	return nil
}
