package world

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"

	"voxelcore.dev/internal/sim/listen"
)

// Space is a dense grid of blocks with cached evaluations and per-cube light.
//
// A Space has a single writer. Listeners are called synchronously from the
// method that caused the change.
type Space struct {
	grid Grid

	// palette holds each distinct block in the space; contents indexes it.
	palette      []paletteEntry
	blockToIndex map[Block]int
	freeEntries  []int
	contents     []int

	lighting    []PackedLight
	lightQueue  lightQueue
	lightQueued map[Vec3i]struct{}
	batchSize   int
	depsBuf     []Vec3i

	notifier *listen.Notifier[SpaceChange]
	todo     *spaceTodo
}

// NewSpace creates a space full of AIR with every cube lit as INITIAL.
func NewSpace(g Grid) *Space {
	s := &Space{
		grid:         g,
		blockToIndex: map[Block]int{},
		contents:     make([]int, g.Volume()),
		lighting:     make([]PackedLight, g.Volume()),
		lightQueued:  map[Vec3i]struct{}{},
		batchSize:    LightBatchSize,
		notifier:     listen.NewNotifier[SpaceChange](),
		todo:         newSpaceTodo(),
	}
	for i := range s.lighting {
		s.lighting[i] = InitialLight
	}
	s.palette = []paletteEntry{{block: AIR, evaluated: AirEvaluated, count: g.Volume()}}
	s.blockToIndex[AIR] = 0
	return s
}

// EmptyPositive is NewSpace over [0, size).
func EmptyPositive(x, y, z int) *Space {
	return NewSpace(NewGrid(Vec3i{}, Vec3i{X: x, Y: y, Z: z}))
}

func (s *Space) Grid() Grid { return s.grid }

// SetLightBatchSize bounds the requests handled by one UpdateLightingFromQueue.
func (s *Space) SetLightBatchSize(n int) {
	if n <= 0 {
		n = LightBatchSize
	}
	s.batchSize = n
}

func (s *Space) Listen(l listen.Listener[SpaceChange]) { s.notifier.Listen(l) }

// Get returns the block at c, or AIR outside the space.
func (s *Space) Get(c Vec3i) Block {
	i, ok := s.grid.Index(c)
	if !ok {
		return AIR
	}
	return s.palette[s.contents[i]].block
}

// GetEvaluated returns the cached evaluation at c, or AirEvaluated outside.
func (s *Space) GetEvaluated(c Vec3i) EvaluatedBlock {
	i, ok := s.grid.Index(c)
	if !ok {
		return AirEvaluated
	}
	return s.palette[s.contents[i]].evaluated
}

// GetLighting returns the light at c; outside the space is always SkyLight.
func (s *Space) GetLighting(c Vec3i) PackedLight {
	i, ok := s.grid.Index(c)
	if !ok {
		return SkyLight
	}
	return s.lighting[i]
}

// Set replaces the block at c. The cube and its neighbors are queued for
// relighting.
func (s *Space) Set(c Vec3i, b Block) error {
	if b == nil {
		b = AIR
	}
	i, ok := s.grid.Index(c)
	if !ok {
		return &SetCubeError{Kind: SetCubeOutOfBounds, Cube: c, Grid: s.grid}
	}
	old := s.contents[i]
	if s.palette[old].block == b {
		return nil
	}
	idx, err := s.ensureBlockIndex(b)
	if err != nil {
		return &SetCubeError{Kind: SetCubeEvalBlock, Cube: c, Grid: s.grid, Err: err}
	}
	s.contents[i] = idx
	s.palette[idx].count++
	s.releaseEntry(old)

	s.notifier.Notify(SpaceChange{Kind: SpaceBlock, Cube: c})
	s.lightNeedsUpdateAround(c)
	return nil
}

// Fill sets every cube of g for which fn returns a block, and resets the
// light of those cubes to InitialLight. g must lie inside the space.
func (s *Space) Fill(g Grid, fn func(Vec3i) (Block, bool)) error {
	if g.Volume() > 0 && !(s.grid.Contains(g.Lower) && s.grid.Contains(g.Upper().Sub(Vec3i{X: 1, Y: 1, Z: 1}))) {
		return &SetCubeError{Kind: SetCubeOutOfBounds, Cube: g.Lower, Grid: s.grid}
	}
	for c := range g.Cubes() {
		b, ok := fn(c)
		if !ok {
			continue
		}
		if err := s.Set(c, b); err != nil {
			return err
		}
		i, _ := s.grid.Index(c)
		s.lighting[i] = InitialLight
	}
	return nil
}

// FillUniform sets every cube of g to b.
func (s *Space) FillUniform(g Grid, b Block) error {
	return s.Fill(g, func(Vec3i) (Block, bool) { return b, true })
}

// CubeView is what Extract shows the mapping function for each cube.
type CubeView struct {
	Cube      Vec3i
	Block     Block
	Evaluated EvaluatedBlock
	Light     PackedLight
}

// Extract maps every cube of g through fn. Cubes outside the space read as
// AIR lit by SkyLight.
func Extract[T any](s *Space, g Grid, fn func(CubeView) T) GridArray[T] {
	return NewGridArray(g, func(c Vec3i) T {
		v := CubeView{Cube: c, Block: AIR, Evaluated: AirEvaluated, Light: SkyLight}
		if i, ok := s.grid.Index(c); ok {
			e := &s.palette[s.contents[i]]
			v.Block = e.block
			v.Evaluated = e.evaluated
			v.Light = s.lighting[i]
		}
		return fn(v)
	})
}

// SpaceStepInfo summarizes one Step.
type SpaceStepInfo struct {
	// BlocksReevaluated counts palette entries re-evaluated because their
	// block reported a change.
	BlocksReevaluated int
	// BlocksChanged is how many of those evaluated differently.
	BlocksChanged int
	Light         LightUpdateInfo
}

// Step brings cached evaluations up to date and runs one lighting batch.
func (s *Space) Step() SpaceStepInfo {
	var info SpaceStepInfo
	for _, idx := range s.todo.take() {
		if idx >= len(s.palette) || s.palette[idx].count == 0 {
			continue
		}
		e := &s.palette[idx]
		info.BlocksReevaluated++
		ev, err := Evaluate(e.block)
		if err != nil {
			logger().Printf("[space] re-evaluate palette entry failed: index=%d block=%v err=%v", idx, e.block, err)
			continue
		}
		if ev.Equal(e.evaluated) {
			continue
		}
		info.BlocksChanged++
		e.evaluated = ev
		s.notifier.Notify(SpaceChange{Kind: SpaceBlockValue, Index: idx, Block: e.block})
		for i, p := range s.contents {
			if p == idx {
				s.LightNeedsUpdate(s.grid.CubeAt(i), maxLightPriority)
			}
		}
	}
	info.Light = s.UpdateLightingFromQueue()
	return info
}

// DistinctBlocks is the number of palette entries in use.
func (s *Space) DistinctBlocks() int {
	n := 0
	for _, e := range s.palette {
		if e.count > 0 {
			n++
		}
	}
	return n
}

// LightDigest hashes the light buffer. Equal digests mean equal lighting.
func (s *Space) LightDigest() string {
	h := xxh3.New()
	var buf [4]byte
	for _, l := range s.lighting {
		buf[0], buf[1], buf[2] = l.R, l.G, l.B
		_, _ = h.Write(buf[:3])
	}
	binary.LittleEndian.PutUint32(buf[:], uint32(len(s.lightQueued)))
	_, _ = h.Write(buf[:])
	return fmt.Sprintf("%016x", h.Sum64())
}
