package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"voxelcore.dev/internal/sim/world"
)

func TestStepLogger_WriteThenRead(t *testing.T) {
	dir := t.TempDir()
	l := NewStepLogger(dir)
	for tick := uint64(0); tick < 3; tick++ {
		e := world.StepLogEntry{
			Tick:   tick,
			Spaces: map[string]string{"main": "abc"},
			Digest: "d",
		}
		if tick == 1 {
			e.Edits = []world.Edit{{Type: world.EditSetBlock, Space: "main", Cube: [3]int{1, 2, 3}, Block: world.BlockSpec{Air: true}}}
		}
		if err := l.WriteStep(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var got []world.StepLogEntry
	if err := ReadSteps(StepDir(dir), func(e world.StepLogEntry) error {
		got = append(got, e)
		return nil
	}); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("entries=%d want=3", len(got))
	}
	for i, e := range got {
		if e.Tick != uint64(i) {
			t.Fatalf("entry %d tick=%d", i, e.Tick)
		}
	}
	if len(got[1].Edits) != 1 || got[1].Edits[0].Cube != [3]int{1, 2, 3} || !got[1].Edits[0].Block.Air {
		t.Fatalf("edits=%+v", got[1].Edits)
	}
	if got[2].Spaces["main"] != "abc" {
		t.Fatalf("spaces=%v", got[2].Spaces)
	}
}

func TestReadSteps_StopEarly(t *testing.T) {
	dir := t.TempDir()
	l := NewStepLogger(dir)
	for tick := uint64(0); tick < 5; tick++ {
		if err := l.WriteStep(world.StepLogEntry{Tick: tick}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	_ = l.Close()

	n := 0
	err := ReadSteps(StepDir(dir), func(e world.StepLogEntry) error {
		n++
		if e.Tick == 1 {
			return ErrStopReading
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 2 {
		t.Fatalf("n=%d want=2", n)
	}
}

func TestListStepFiles_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"steps-2026-01-02-03.jsonl.zst", "steps-2026-01-01-00.jsonl.zst", "audit-2026-01-01-00.jsonl.zst", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := ListStepFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "steps-2026-01-01-00.jsonl.zst" {
		t.Fatalf("files=%v", files)
	}
}

func TestStepLogger_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	l := NewStepLogger(dir)
	at := time.Date(2026, 3, 4, 5, 59, 0, 0, time.UTC)
	l.now = func() time.Time { return at }

	for tick := uint64(0); tick < 4; tick++ {
		if tick == 2 {
			at = at.Add(2 * time.Minute)
		}
		if err := l.WriteStep(world.StepLogEntry{Tick: tick}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	n := 0
	if err := ReadSteps(StepDir(dir), func(e world.StepLogEntry) error {
		if e.Tick != uint64(n) {
			t.Fatalf("entry %d tick=%d", n, e.Tick)
		}
		n++
		return nil
	}); err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 4 {
		t.Fatalf("entries=%d want=4", n)
	}

	files, err := ListStepFiles(StepDir(dir))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[1]) != "steps-2026-03-04-06.jsonl.zst" {
		t.Fatalf("files=%v", files)
	}
}
