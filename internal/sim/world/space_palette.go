package world

import (
	"slices"
	"weak"

	"voxelcore.dev/internal/sim/listen"
)

type paletteEntry struct {
	block     Block
	evaluated EvaluatedBlock
	count     int
	// gate guards the listener on block; closed when the entry is freed.
	gate *listen.Gate
}

// spaceTodo collects palette entries whose blocks reported a change. Block
// listeners reach it weakly so that a dropped Space is not kept alive.
type spaceTodo struct {
	blocks map[int]struct{}
}

func newSpaceTodo() *spaceTodo { return &spaceTodo{blocks: map[int]struct{}{}} }

// take returns the pending indices in ascending order and clears them.
func (t *spaceTodo) take() []int {
	if len(t.blocks) == 0 {
		return nil
	}
	out := make([]int, 0, len(t.blocks))
	for i := range t.blocks {
		out = append(out, i)
	}
	slices.Sort(out)
	clear(t.blocks)
	return out
}

type paletteListener struct {
	todo  weak.Pointer[spaceTodo]
	index int
}

func (l paletteListener) Receive(BlockChange) {
	if t := l.todo.Value(); t != nil {
		t.blocks[l.index] = struct{}{}
	}
}

func (l paletteListener) Alive() bool { return l.todo.Value() != nil }

// ensureBlockIndex returns the palette index for b, evaluating and
// subscribing to it if it is new. The caller increments count.
func (s *Space) ensureBlockIndex(b Block) (int, error) {
	if idx, ok := s.blockToIndex[b]; ok {
		return idx, nil
	}
	ev, err := Evaluate(b)
	if err != nil {
		return 0, err
	}

	var idx int
	if n := len(s.freeEntries); n > 0 {
		idx = s.freeEntries[n-1]
		s.freeEntries = s.freeEntries[:n-1]
	} else {
		idx = len(s.palette)
		s.palette = append(s.palette, paletteEntry{})
	}
	gate, l := listen.Gated[BlockChange](paletteListener{todo: weak.Make(s.todo), index: idx})
	if err := Listen(b, l); err != nil {
		gate.Close()
		s.freeEntries = append(s.freeEntries, idx)
		return 0, err
	}
	s.palette[idx] = paletteEntry{block: b, evaluated: ev, gate: gate}
	s.blockToIndex[b] = idx
	s.notifier.Notify(SpaceChange{Kind: SpaceNumber, Index: idx, Block: b})
	return idx, nil
}

// releaseEntry drops one use of idx and frees the entry when unused.
func (s *Space) releaseEntry(idx int) {
	e := &s.palette[idx]
	e.count--
	if e.count > 0 {
		return
	}
	e.gate.Close()
	delete(s.blockToIndex, e.block)
	delete(s.todo.blocks, idx)
	b := e.block
	*e = paletteEntry{block: AIR, evaluated: AirEvaluated}
	s.freeEntries = append(s.freeEntries, idx)
	s.notifier.Notify(SpaceChange{Kind: SpaceNumber, Index: idx, Block: b})
}
