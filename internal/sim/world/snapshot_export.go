package world

import (
	"voxelcore.dev/internal/persistence/snapshot"
)

func (w *World) ExportSnapshot(nowTick uint64) snapshot.SnapshotV1 {
	// Snapshot must be called from the world loop goroutine.
	snap := snapshot.SnapshotV1{
		Header:             snapshot.Header{Version: snapshot.Version, WorldID: w.cfg.ID, Tick: nowTick},
		TickRate:           w.cfg.TickRateHz,
		LightBatchSize:     w.cfg.LightBatchSize,
		SnapshotEveryTicks: w.cfg.SnapshotEveryTicks,
	}
	for _, n := range w.u.Blocks.Names() {
		ref, _ := w.u.Blocks.Get(n)
		_ = ref.Read(func(d *BlockDef) error {
			snap.BlockDefs = append(snap.BlockDefs, snapshot.BlockDefV1{Name: nameToV1(n), Block: blockToV1(d.block)})
			return nil
		})
	}
	for _, n := range w.u.Spaces.Names() {
		ref, _ := w.u.Spaces.Get(n)
		_ = ref.Read(func(s *Space) error {
			sv := s.exportV1()
			sv.Name = nameToV1(n)
			snap.Spaces = append(snap.Spaces, sv)
			return nil
		})
	}
	return snap
}
