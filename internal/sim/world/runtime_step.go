package world

import (
	"time"
)

func (w *World) step(edits []Edit) StepLogEntry {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	// Apply edits in receive order. Failed edits are recorded too; they fail
	// the same way on replay.
	recorded := make([]Edit, 0, len(edits))
	var results []error
	for _, e := range edits {
		err := ApplyEdit(w.u, e)
		if err != nil {
			logger().Printf("[step] tick=%d edit=%s rejected: %v", nowTick, e.Type, err)
		}
		recorded = append(recorded, e)
		results = append(results, err)
	}

	info := w.u.Step()

	spaces := make(map[string]string, len(info.Spaces))
	for _, name := range w.u.Spaces.Names() {
		if d, ok := w.spaceLightDigest(name); ok {
			spaces[nameLabel(name)] = d
		}
	}
	entry := StepLogEntry{
		Tick:   nowTick,
		Edits:  recorded,
		Light:  info.Total().Light,
		Spaces: spaces,
		Digest: w.stateDigest(nowTick),
	}
	if w.stepLogger != nil {
		if err := w.stepLogger.WriteStep(entry); err != nil {
			logger().Printf("[step] tick=%d step log: %v", nowTick, err)
		}
	}

	w.broadcastObservers(nowTick, entry, info, results)

	if w.snapshotSink != nil && w.cfg.SnapshotEveryTicks > 0 && nowTick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
		snap := w.ExportSnapshot(nowTick)
		select {
		case w.snapshotSink <- snap:
		default:
			logger().Printf("[step] tick=%d snapshot sink full; skipped", nowTick)
		}
	}

	if d := time.Since(stepStart); d > time.Second/time.Duration(w.cfg.TickRateHz) {
		logger().Printf("[step] tick=%d slow step: %s", nowTick, d)
	}
	w.tick.Add(1)
	return entry
}
