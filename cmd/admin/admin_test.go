package main

import (
	"bytes"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"voxelcore.dev/internal/persistence/indexdb"
	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/world"
)

func TestRenderSlice(t *testing.T) {
	s := world.EmptyPositive(3, 2, 2)
	if err := s.Set(world.V3(0, 1, 0), world.FromColor(color.Black)); err != nil {
		t.Fatalf("set: %v", err)
	}
	for s.LightQueueLen() > 0 {
		s.UpdateLightingFromQueue()
	}
	var buf bytes.Buffer
	if err := renderSlice(&buf, s, 1); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 || len(lines[0]) != 3 {
		t.Fatalf("lines=%q", lines)
	}
	if lines[0][0] != '|' {
		t.Fatalf("opaque cube glyph=%q", lines[0][0])
	}
	// Open cubes next to sky stay fully lit.
	if lines[1][2] != lightRamp[4] {
		t.Fatalf("sky glyph=%q want=%q", lines[1][2], lightRamp[4])
	}
	if err := renderSlice(&buf, s, 5); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestQueryDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.sqlite")
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for tick := uint64(0); tick < 3; tick++ {
		_ = idx.WriteStep(world.StepLogEntry{
			Tick:   tick,
			Edits:  []world.Edit{{Type: world.EditSetBlock, Space: "main", Block: world.BlockSpec{Air: true}}},
			Spaces: map[string]string{"main": "m", "other": "o"},
			Digest: "d",
		})
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var out bytes.Buffer
	if err := queryDB(db, "steps", dbQueryOpts{Limit: 2, Space: "main"}, &out); err != nil {
		t.Fatalf("steps: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"tick":2`) || !strings.Contains(lines[0], `"light_digest":"m"`) {
		t.Fatalf("steps=%q", lines)
	}

	out.Reset()
	if err := queryDB(db, "edits", dbQueryOpts{Since: 1}, &out); err != nil {
		t.Fatalf("edits: %v", err)
	}
	if n := strings.Count(out.String(), "\n"); n != 2 {
		t.Fatalf("edits rows=%d want=2", n)
	}

	if err := queryDB(db, "nope", dbQueryOpts{}, &out); !errors.Is(err, errUnknownQuery) {
		t.Fatalf("err=%v want=%v", err, errUnknownQuery)
	}
}
