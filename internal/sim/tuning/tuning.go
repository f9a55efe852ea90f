package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz         int `yaml:"tick_rate_hz"`
	LightBatchSize     int `yaml:"light_batch_size"`
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`

	Scene Scene `yaml:"scene"`
}

// Scene describes the universe built on a fresh start.
type Scene struct {
	Space string `yaml:"space"`
	Size  [3]int `yaml:"size"`

	// FloorBlock fills the y=0 layer; a catalog id or a landscape role.
	FloorBlock string `yaml:"floor_block"`
	// Landscape installs the landscape blocks (recursive grass at this resolution).
	LandscapeResolution int `yaml:"landscape_resolution"`

	Placements []Placement `yaml:"placements,omitempty"`
}

type Placement struct {
	Block string `yaml:"block"`
	Cube  [3]int `yaml:"cube"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:         5,
		LightBatchSize:     120,
		SnapshotEveryTicks: 3000,
		Scene: Scene{
			Space:               "main",
			Size:                [3]int{16, 8, 16},
			FloorBlock:          "grass",
			LandscapeResolution: 4,
		},
	}
}

// Load reads path over Defaults. An empty path returns the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t *Tuning) Normalize() {
	t.Scene.Space = strings.TrimSpace(t.Scene.Space)
	t.Scene.FloorBlock = strings.TrimSpace(t.Scene.FloorBlock)
	for i := range t.Scene.Placements {
		t.Scene.Placements[i].Block = strings.TrimSpace(t.Scene.Placements[i].Block)
	}
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 || t.TickRateHz > 1000 {
		return fmt.Errorf("tick_rate_hz out of range: %d", t.TickRateHz)
	}
	if t.LightBatchSize <= 0 {
		return fmt.Errorf("light_batch_size must be > 0")
	}
	if t.SnapshotEveryTicks < 0 {
		return fmt.Errorf("snapshot_every_ticks must be >= 0")
	}
	s := t.Scene
	if s.Space == "" {
		return fmt.Errorf("scene.space is required")
	}
	for i, v := range s.Size {
		if v <= 0 {
			return fmt.Errorf("scene.size[%d] must be > 0", i)
		}
	}
	if s.LandscapeResolution < 0 || s.LandscapeResolution > 255 {
		return fmt.Errorf("scene.landscape_resolution out of range: %d", s.LandscapeResolution)
	}
	for i, p := range s.Placements {
		if p.Block == "" {
			return fmt.Errorf("scene.placements[%d]: block is required", i)
		}
		for k, v := range p.Cube {
			if v < 0 || v >= s.Size[k] {
				return fmt.Errorf("scene.placements[%d]: cube %v outside scene", i, p.Cube)
			}
		}
	}
	return nil
}
