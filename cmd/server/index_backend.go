package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voxelcore.dev/internal/persistence/indexdb"
	"voxelcore.dev/internal/persistence/snapshot"
	"voxelcore.dev/internal/sim/catalogs"
	"voxelcore.dev/internal/sim/tuning"
	"voxelcore.dev/internal/sim/world"
)

type runtimeIndex interface {
	world.StepLogger
	Close() error
	UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error
	RecordSnapshot(path string, snap snapshot.SnapshotV1)
	Stats() indexdb.Stats
}

func openRuntimeIndex(worldDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("VC_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		return indexdb.OpenSQLite(filepath.Join(worldDir, "index", "world.sqlite"))
	default:
		return nil, fmt.Errorf("unsupported VC_INDEX_BACKEND: %s", backend)
	}
}

type multiStepLogger []world.StepLogger

func (m multiStepLogger) WriteStep(entry world.StepLogEntry) error {
	for _, l := range m {
		if l != nil {
			_ = l.WriteStep(entry)
		}
	}
	return nil
}
