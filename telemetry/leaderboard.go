package telemetry

import (
	"encoding/json"
	"sort"
)

// Leaderboard keeps the best episodes of a run, highest score first.
// Equal scores keep arrival order.
type Leaderboard struct {
	entries []EpisodeStats
	maxSize int
}

// NewLeaderboard creates a leaderboard holding at most maxSize episodes.
func NewLeaderboard(maxSize int) *Leaderboard {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Leaderboard{
		entries: make([]EpisodeStats, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers a finished episode. Returns true if it was ranked.
func (lb *Leaderboard) Consider(ep EpisodeStats) bool {
	// Find insertion point (sorted descending by score)
	idx := sort.Search(len(lb.entries), func(i int) bool {
		return lb.entries[i].Score < ep.Score
	})

	// If full and entry would be last (lowest), skip it
	if idx >= lb.maxSize {
		return false
	}

	if len(lb.entries) < lb.maxSize {
		lb.entries = append(lb.entries, EpisodeStats{})
	}
	copy(lb.entries[idx+1:], lb.entries[idx:])
	lb.entries[idx] = ep
	return true
}

// Entries returns the ranked episodes.
func (lb *Leaderboard) Entries() []EpisodeStats {
	return lb.entries
}

// MarshalJSON serialises the leaderboard for output.
func (lb *Leaderboard) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		Size    int            `json:"size"`
		Entries []EpisodeStats `json:"entries"`
	}{
		Size:    lb.maxSize,
		Entries: lb.entries,
	}, "", "  ")
}
