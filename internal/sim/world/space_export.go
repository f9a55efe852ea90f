package world

import (
	"fmt"

	"voxelcore.dev/internal/persistence/snapshot"
	simenc "voxelcore.dev/internal/sim/encoding"
)

// canonicalContents renumbers the palette in order of first use so that two
// spaces with the same blocks export identically whatever their history.
func (s *Space) canonicalContents() ([]Block, []uint16) {
	remap := map[int]uint16{}
	var blocks []Block
	ids := make([]uint16, len(s.contents))
	for i, p := range s.contents {
		id, ok := remap[p]
		if !ok {
			id = uint16(len(blocks))
			remap[p] = id
			blocks = append(blocks, s.palette[p].block)
		}
		ids[i] = id
	}
	return blocks, ids
}

func (s *Space) exportV1() snapshot.SpaceV1 {
	blocks, ids := s.canonicalContents()
	palette := make([]snapshot.BlockV1, len(blocks))
	for i, b := range blocks {
		palette[i] = blockToV1(b)
	}
	light := make([]byte, 0, 3*len(s.lighting))
	for _, l := range s.lighting {
		light = append(light, l.R, l.G, l.B)
	}
	pending := s.PendingLightUpdates()
	queue := make([]snapshot.LightRequestV1, len(pending))
	for i, r := range pending {
		queue[i] = snapshot.LightRequestV1{Priority: r.Priority, Cube: r.Cube.ToArray()}
	}
	return snapshot.SpaceV1{
		Lower:      s.grid.Lower.ToArray(),
		Size:       s.grid.Size.ToArray(),
		Palette:    palette,
		Contents:   simenc.EncodeRLE(ids),
		Light:      light,
		LightQueue: queue,
	}
}

// importContentsV1 fills a fresh space from sv. Light is restored separately
// by restoreLightV1 once every space has its blocks.
func (s *Space) importContentsV1(u *Universe, sv snapshot.SpaceV1) error {
	ids, err := simenc.DecodeRLE(sv.Contents, s.grid.Volume())
	if err != nil {
		return fmt.Errorf("contents: %w", err)
	}
	palette := make([]Block, len(sv.Palette))
	for i, bv := range sv.Palette {
		if palette[i], err = u.blockFromV1(bv); err != nil {
			return fmt.Errorf("palette[%d]: %w", i, err)
		}
	}
	for i, id := range ids {
		if int(id) >= len(palette) {
			return fmt.Errorf("contents[%d]: palette index %d out of range", i, id)
		}
		if err := s.Set(s.grid.CubeAt(i), palette[id]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Space) restoreLightV1(sv snapshot.SpaceV1) error {
	if len(sv.Light) != 3*len(s.lighting) {
		return fmt.Errorf("light: got %d bytes want %d", len(sv.Light), 3*len(s.lighting))
	}
	for i := range s.lighting {
		s.lighting[i] = PackedLight{R: sv.Light[3*i], G: sv.Light[3*i+1], B: sv.Light[3*i+2]}
	}
	s.lightQueue = s.lightQueue[:0]
	clear(s.lightQueued)
	for _, r := range sv.LightQueue {
		s.LightNeedsUpdate(Vec3iFromArray(r.Cube), r.Priority)
	}
	return nil
}

// refreshEvaluations re-evaluates every palette entry in place without
// notifying or queueing light, and forgets pending re-evaluation. It reports
// whether anything changed.
func (s *Space) refreshEvaluations() bool {
	changed := false
	for i := range s.palette {
		e := &s.palette[i]
		if e.count == 0 {
			continue
		}
		ev, err := Evaluate(e.block)
		if err != nil || ev.Equal(e.evaluated) {
			continue
		}
		e.evaluated = ev
		changed = true
	}
	clear(s.todo.blocks)
	return changed
}
