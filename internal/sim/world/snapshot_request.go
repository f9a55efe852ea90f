package world

import (
	"context"
	"errors"
)

var (
	ErrNoSnapshotSink = errors.New("no snapshot sink")
	ErrSnapshotBusy   = errors.New("snapshot sink full")
	ErrNothingStepped = errors.New("no tick has been stepped")
)

type snapshotResult struct {
	tick uint64
	err  error
}

type snapshotReq struct {
	resp chan snapshotResult
}

// RequestSnapshot asks the world loop to export the last completed tick to the snapshot sink.
func (w *World) RequestSnapshot(ctx context.Context) (uint64, error) {
	resp := make(chan snapshotResult, 1)
	select {
	case w.snapshotReq <- snapshotReq{resp: resp}:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case r := <-resp:
		return r.tick, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (w *World) snapshotNow() snapshotResult {
	if w.snapshotSink == nil {
		return snapshotResult{err: ErrNoSnapshotSink}
	}
	next := w.tick.Load()
	if next == 0 {
		return snapshotResult{err: ErrNothingStepped}
	}
	tick := next - 1
	select {
	case w.snapshotSink <- w.ExportSnapshot(tick):
		return snapshotResult{tick: tick}
	default:
		return snapshotResult{tick: tick, err: ErrSnapshotBusy}
	}
}
