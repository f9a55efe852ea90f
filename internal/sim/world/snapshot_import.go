package world

import (
	"fmt"

	"voxelcore.dev/internal/persistence/snapshot"
)

// ImportSnapshot replaces the universe with the snapshot's.
// It sets the world's tick to snapshotTick+1 (the next tick to simulate).
//
// This must be called only when the world is stopped or from the world loop goroutine.
func (w *World) ImportSnapshot(s snapshot.SnapshotV1) error {
	if s.Header.Version != snapshot.Version {
		return fmt.Errorf("unsupported snapshot version: %d", s.Header.Version)
	}
	if w.cfg.TickRateHz != s.TickRate {
		return fmt.Errorf("snapshot tick_rate_hz mismatch: cfg=%d snap=%d", w.cfg.TickRateHz, s.TickRate)
	}

	// Operational parameters: snapshot is authoritative when present.
	if s.LightBatchSize > 0 {
		w.cfg.LightBatchSize = s.LightBatchSize
	}
	if s.SnapshotEveryTicks > 0 {
		w.cfg.SnapshotEveryTicks = s.SnapshotEveryTicks
	}

	u, err := UniverseFromSnapshot(s)
	if err != nil {
		return err
	}
	w.u = u
	w.applyBatchSize()
	w.tick.Store(s.Header.Tick + 1)
	return nil
}

// UniverseFromSnapshot rebuilds a universe. Spaces and definitions may refer
// to each other, so every object is created before any is filled.
func UniverseFromSnapshot(s snapshot.SnapshotV1) (*Universe, error) {
	u := NewUniverse()
	spaces := make([]*Space, len(s.Spaces))
	for i, sv := range s.Spaces {
		spaces[i] = NewSpace(NewGrid(Vec3iFromArray(sv.Lower), Vec3iFromArray(sv.Size)))
		if _, err := u.Spaces.Insert(nameFromV1(sv.Name), spaces[i]); err != nil {
			return nil, fmt.Errorf("space %v: %w", sv.Name, err)
		}
	}
	for _, dv := range s.BlockDefs {
		if _, err := u.Blocks.Insert(nameFromV1(dv.Name), NewBlockDef(AIR)); err != nil {
			return nil, fmt.Errorf("block def %v: %w", dv.Name, err)
		}
	}
	for _, dv := range s.BlockDefs {
		b, err := u.blockFromV1(dv.Block)
		if err != nil {
			return nil, fmt.Errorf("block def %v: %w", dv.Name, err)
		}
		ref, _ := u.Blocks.Get(nameFromV1(dv.Name))
		if err := checkIndirectCycle(b, ref); err != nil {
			return nil, fmt.Errorf("block def %v: %w", dv.Name, err)
		}
		if err := ref.Write(func(d *BlockDef) error {
			m := d.Modify()
			m.Set(b)
			m.Commit()
			return nil
		}); err != nil {
			return nil, err
		}
	}
	for i, sv := range s.Spaces {
		if err := spaces[i].importContentsV1(u, sv); err != nil {
			return nil, fmt.Errorf("space %v: %w", sv.Name, err)
		}
	}

	// Recursive blocks were evaluated against partially filled spaces; settle
	// them. Each pass fixes at least one more level of nesting.
	for pass := 0; pass <= len(spaces); pass++ {
		changed := false
		for _, sp := range spaces {
			if sp.refreshEvaluations() {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for i, sv := range s.Spaces {
		if err := spaces[i].restoreLightV1(sv); err != nil {
			return nil, fmt.Errorf("space %v: %w", sv.Name, err)
		}
	}
	return u, nil
}
