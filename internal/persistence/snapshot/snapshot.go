package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	// Operational parameters (captured for deterministic replay/resume).
	TickRate           int `json:"tick_rate_hz"`
	LightBatchSize     int `json:"light_batch_size"`
	SnapshotEveryTicks int `json:"snapshot_every_ticks,omitempty"`

	BlockDefs []BlockDefV1 `json:"block_defs"`
	Spaces    []SpaceV1    `json:"spaces"`
}

// NameV1 is a universe name: Specific, or anonymous number Anon.
type NameV1 struct {
	Specific string `json:"specific,omitempty"`
	Anon     uint64 `json:"anon,omitempty"`
}

type BlockDefV1 struct {
	Name  NameV1  `json:"name"`
	Block BlockV1 `json:"block"`
}

// BlockV1 is one block value. Kind selects which fields apply.
type BlockV1 struct {
	Kind       string       `json:"kind"` // ATOM | RECUR | INDIRECT
	Attributes AttributesV1 `json:"attributes,omitempty"`

	Color [4]float32 `json:"color,omitempty"`

	Offset     [3]int `json:"offset,omitempty"`
	Resolution uint8  `json:"resolution,omitempty"`
	Space      NameV1 `json:"space,omitempty"`

	Def NameV1 `json:"def,omitempty"`
}

type AttributesV1 struct {
	DisplayName   string     `json:"display_name,omitempty"`
	Selectable    bool       `json:"selectable"`
	Solid         bool       `json:"solid"`
	LightEmission [3]float32 `json:"light_emission"`
}

type SpaceV1 struct {
	Name  NameV1 `json:"name"`
	Lower [3]int `json:"lower"`
	Size  [3]int `json:"size"`

	// Palette is in order of first use; Contents is RLE of palette indices, x-major.
	Palette  []BlockV1 `json:"palette"`
	Contents string    `json:"contents"`

	// Light is R,G,B bytes per cube, x-major.
	Light      []byte           `json:"light"`
	LightQueue []LightRequestV1 `json:"light_queue,omitempty"`
}

type LightRequestV1 struct {
	Priority uint8  `json:"priority"`
	Cube     [3]int `json:"cube"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// The header line is only for tools that do not speak gob.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}

// ReadHeader reads only the JSON header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}
