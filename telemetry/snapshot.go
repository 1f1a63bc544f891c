package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/serpent/board"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot records the board right before an episode ended so the final
// decision can be replayed.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	Tick    int32    `json:"tick"`
	Episode int      `json:"episode"`
	Score   int      `json:"score"`
	Cause   EndCause `json:"cause"`

	Body      [][2]int `json:"body"` // head first
	Target    [2]int   `json:"target"`
	Previous  string   `json:"previous_direction"`
	Direction string   `json:"direction"`
	Tier      string   `json:"tier"`
}

// NewSnapshot captures body and target.
func NewSnapshot(g board.Grid, body *board.Body, target board.Cell) *Snapshot {
	s := &Snapshot{
		Version:    SnapshotVersion,
		GridWidth:  g.Width,
		GridHeight: g.Height,
		Target:     [2]int{target.X, target.Y},
	}
	for _, c := range body.Cells() {
		s.Body = append(s.Body, [2]int{c.X, c.Y})
	}
	return s
}

// Grid returns the snapshot's grid.
func (s *Snapshot) Grid() board.Grid {
	return board.Grid{Width: s.GridWidth, Height: s.GridHeight}
}

// Restore rebuilds the body and target recorded in the snapshot.
func (s *Snapshot) Restore() (*board.Body, board.Cell, error) {
	if len(s.Body) == 0 {
		return nil, board.Cell{}, fmt.Errorf("snapshot has empty body")
	}
	last := s.Body[len(s.Body)-1]
	body := board.NewBody(board.Cell{X: last[0], Y: last[1]})
	for i := len(s.Body) - 2; i >= 0; i-- {
		c := board.Cell{X: s.Body[i][0], Y: s.Body[i][1]}
		if err := body.Grow(c); err != nil {
			return nil, board.Cell{}, fmt.Errorf("restore body at %v: %w", c, err)
		}
	}
	return body, board.Cell{X: s.Target[0], Y: s.Target[1]}, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("episode_%d_%s.json", snapshot.Episode, snapshot.Cause)
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
