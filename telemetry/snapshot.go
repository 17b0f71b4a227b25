package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/touchfield/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the field state at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Cols   int     `json:"cols"`
	Rows   int     `json:"rows"`

	Tick   int32          `json:"tick"`
	Tuning systems.Tuning `json:"tuning"`

	Particles []ParticleState `json:"particles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one particle's motion state.
type ParticleState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
	VelX    float64 `json:"vel_x"`
	VelY    float64 `json:"vel_y"`
	Size    float64 `json:"size"`
	Color   string  `json:"color"`
}

// CaptureSnapshot records the current state of f.
func CaptureSnapshot(f *systems.Field, tick int32, seed int64) *Snapshot {
	w, h := f.Size()
	cols, rows := f.Grid()
	particles := f.Particles(nil)

	snap := &Snapshot{
		Version:   SnapshotVersion,
		RNGSeed:   seed,
		Width:     w,
		Height:    h,
		Cols:      cols,
		Rows:      rows,
		Tick:      tick,
		Tuning:    f.Tuning(),
		Particles: make([]ParticleState, len(particles)),
	}
	for i, p := range particles {
		c := p.Appearance.Color
		snap.Particles[i] = ParticleState{
			X:       p.Position.X,
			Y:       p.Position.Y,
			OriginX: p.Origin.X,
			OriginY: p.Origin.Y,
			VelX:    p.Velocity.X,
			VelY:    p.Velocity.Y,
			Size:    p.Appearance.Size,
			Color:   fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		}
	}
	return snap
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

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
	return &snapshot, nil
}
