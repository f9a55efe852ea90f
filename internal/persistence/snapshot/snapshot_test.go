package snapshot

import (
	"path/filepath"
	"testing"
)

func TestWriteReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap", "100.snap.zst")
	in := SnapshotV1{
		Header:         Header{Version: Version, WorldID: "w1", Tick: 100},
		TickRate:       5,
		LightBatchSize: 120,
		BlockDefs: []BlockDefV1{
			{Name: NameV1{Specific: "lamp"}, Block: BlockV1{Kind: "ATOM", Color: [4]float32{1, 1, 1, 1}}},
		},
		Spaces: []SpaceV1{{
			Name:       NameV1{Specific: "main"},
			Size:       [3]int{1, 1, 2},
			Palette:    []BlockV1{{Kind: "INDIRECT", Def: NameV1{Specific: "lamp"}}},
			Contents:   "AAI=",
			Light:      []byte{0, 0, 0, 64, 64, 64},
			LightQueue: []LightRequestV1{{Priority: 9, Cube: [3]int{0, 0, 1}}},
		}},
	}
	if err := WriteSnapshot(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if h != in.Header {
		t.Fatalf("header=%+v want=%+v", h, in.Header)
	}

	out, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Header.Tick != 100 || out.LightBatchSize != 120 {
		t.Fatalf("unexpected header fields: %+v", out)
	}
	if len(out.Spaces) != 1 || out.Spaces[0].LightQueue[0].Priority != 9 || string(out.Spaces[0].Light) != string(in.Spaces[0].Light) {
		t.Fatalf("space mismatch: %+v", out.Spaces)
	}
	if out.BlockDefs[0].Block.Color != in.BlockDefs[0].Block.Color {
		t.Fatalf("block def mismatch: %+v", out.BlockDefs)
	}
}

func TestReadSnapshotMissingFile(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error")
	}
}
