package world

import (
	"errors"
	"testing"

	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/listen"
	"voxelcore.dev/internal/sim/universe"
)

func TestGrid_IndexRoundTrip(t *testing.T) {
	g := NewGrid(V3(-2, 3, 1), V3(3, 4, 5))
	i := 0
	for c := range g.Cubes() {
		got, ok := g.Index(c)
		if !ok || got != i {
			t.Fatalf("Index(%v)=%d,%v want=%d", c, got, ok, i)
		}
		if back := g.CubeAt(i); back != c {
			t.Fatalf("CubeAt(%d)=%v want=%v", i, back, c)
		}
		i++
	}
	if i != g.Volume() {
		t.Fatalf("iterated=%d volume=%d", i, g.Volume())
	}
	if _, ok := g.Index(V3(1, 3, 1)); ok {
		t.Fatalf("upper bound must be exclusive")
	}
}

func TestGrid_Divide(t *testing.T) {
	g := NewGrid(V3(-3, 0, 0), V3(6, 4, 5))
	d := g.Divide(4)
	if d.Lower != V3(-1, 0, 0) || d.Upper() != V3(1, 1, 2) {
		t.Fatalf("divide=%v..%v", d.Lower, d.Upper())
	}
}

func TestGrid_NegativeSizeClamps(t *testing.T) {
	if v := NewGrid(V3(0, 0, 0), V3(-1, 2, 2)).Volume(); v != 0 {
		t.Fatalf("volume=%d want=0", v)
	}
}

func TestSpace_SetGet(t *testing.T) {
	s := EmptyPositive(2, 2, 2)
	white := FromColor(color.White)
	if err := s.Set(V3(1, 1, 1), white); err != nil {
		t.Fatalf("set: %v", err)
	}
	if s.Get(V3(1, 1, 1)) != white {
		t.Fatalf("get=%v", s.Get(V3(1, 1, 1)))
	}
	if !s.GetEvaluated(V3(1, 1, 1)).Opaque {
		t.Fatalf("evaluation not cached")
	}
	if s.Get(V3(5, 5, 5)) != AIR || !s.GetEvaluated(V3(-1, 0, 0)).Equal(AirEvaluated) {
		t.Fatalf("outside must read as AIR")
	}
	if s.GetLighting(V3(9, 9, 9)) != SkyLight {
		t.Fatalf("outside must read as sky")
	}
	if s.DistinctBlocks() != 2 {
		t.Fatalf("distinct=%d want=2", s.DistinctBlocks())
	}

	// Replacing the only use frees the entry.
	if err := s.Set(V3(1, 1, 1), AIR); err != nil {
		t.Fatalf("set: %v", err)
	}
	if s.DistinctBlocks() != 1 {
		t.Fatalf("distinct=%d want=1", s.DistinctBlocks())
	}
}

func TestSpace_SetOutOfBounds(t *testing.T) {
	s := EmptyPositive(1, 1, 1)
	err := s.Set(V3(1, 0, 0), AIR)
	var se *SetCubeError
	if !errors.As(err, &se) || se.Kind != SetCubeOutOfBounds {
		t.Fatalf("err=%v want OutOfBounds", err)
	}
}

func TestSpace_SetEvalFailure(t *testing.T) {
	u := NewUniverse()
	ref, _ := u.InsertBlockDef("gone", AIR)
	_ = u.Blocks.Delete(universe.Specific("gone"))

	s := EmptyPositive(1, 1, 1)
	err := s.Set(V3(0, 0, 0), Indirect{Def: ref})
	var se *SetCubeError
	if !errors.As(err, &se) || se.Kind != SetCubeEvalBlock || !errors.Is(err, universe.ErrNotFound) {
		t.Fatalf("err=%v want EvalBlock wrapping NotFound", err)
	}
	if s.Get(V3(0, 0, 0)) != AIR {
		t.Fatalf("failed set must not change the cube")
	}
}

func TestSpace_SetNotifiesAndQueuesNeighbors(t *testing.T) {
	s := EmptyPositive(3, 3, 3)
	sink := listen.NewSink[SpaceChange]()
	s.Listen(sink.Listener())

	if err := s.Set(V3(1, 1, 1), FromColor(color.White)); err != nil {
		t.Fatalf("set: %v", err)
	}
	sawBlock := false
	for _, c := range sink.Drain() {
		if c.Kind == SpaceBlock && c.Cube == V3(1, 1, 1) {
			sawBlock = true
		}
	}
	if !sawBlock {
		t.Fatalf("no block change")
	}
	if n := s.LightQueueLen(); n != 7 {
		t.Fatalf("queued=%d want=7", n)
	}

	// Corner: only in-bounds neighbors.
	s2 := EmptyPositive(3, 3, 3)
	_ = s2.Set(V3(0, 0, 0), FromColor(color.White))
	if n := s2.LightQueueLen(); n != 4 {
		t.Fatalf("queued=%d want=4", n)
	}
}

func TestSpace_FillResetsLight(t *testing.T) {
	s := EmptyPositive(2, 1, 1)
	white := FromColor(color.White)
	_ = s.Set(V3(0, 0, 0), white)
	s.UpdateLightingFromQueue()
	if s.GetLighting(V3(0, 0, 0)) != ZeroLight {
		t.Fatalf("opaque cube light=%v want zero", s.GetLighting(V3(0, 0, 0)))
	}

	err := s.Fill(s.Grid(), func(c Vec3i) (Block, bool) { return AIR, c.X == 0 })
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if s.GetLighting(V3(0, 0, 0)) != InitialLight {
		t.Fatalf("light=%v want initial", s.GetLighting(V3(0, 0, 0)))
	}

	if err := s.Fill(NewGrid(V3(1, 0, 0), V3(2, 1, 1)), func(Vec3i) (Block, bool) { return AIR, true }); err == nil {
		t.Fatalf("fill outside bounds should fail")
	}
}

func TestSpace_ExtractOutsideReadsSky(t *testing.T) {
	s := EmptyPositive(1, 1, 1)
	_ = s.Set(V3(0, 0, 0), FromColor(color.White))
	a := Extract(s, NewGrid(V3(0, 0, 0), V3(2, 1, 1)), func(v CubeView) bool { return v.Evaluated.Opaque })
	if in, _ := a.Get(V3(0, 0, 0)); !in {
		t.Fatalf("inside cube should be opaque")
	}
	if out, _ := a.Get(V3(1, 0, 0)); out {
		t.Fatalf("outside cube should be air")
	}
}

func TestSpace_StepReevaluatesChangedDefinitions(t *testing.T) {
	u := NewUniverse()
	defRef, _ := u.InsertBlockDef("d", FromColor(color.Transparent))
	s := EmptyPositive(2, 2, 2)
	sref, _ := u.InsertSpace("s", s)
	_ = sref.Write(func(s *Space) error {
		return s.Set(V3(0, 0, 0), Indirect{Def: defRef})
	})
	u.Step()
	for s.LightQueueLen() > 0 {
		s.UpdateLightingFromQueue()
	}

	sink := listen.NewSink[SpaceChange]()
	s.Listen(sink.Listener())
	if err := u.ModifyBlockDef("d", FromColor(color.White)); err != nil {
		t.Fatalf("modify: %v", err)
	}
	if s.GetEvaluated(V3(0, 0, 0)).Opaque {
		t.Fatalf("evaluation refreshed before step")
	}

	info := u.Step().Spaces[universe.Specific("s")]
	if info.BlocksReevaluated != 1 || info.BlocksChanged != 1 {
		t.Fatalf("info=%+v", info)
	}
	if !s.GetEvaluated(V3(0, 0, 0)).Opaque {
		t.Fatalf("evaluation not refreshed by step")
	}
	sawValue := false
	for _, c := range sink.Drain() {
		if c.Kind == SpaceBlockValue {
			sawValue = true
		}
	}
	if !sawValue {
		t.Fatalf("no BlockValue change")
	}
	if s.GetLighting(V3(0, 0, 0)) != ZeroLight {
		t.Fatalf("now-opaque cube was not relit")
	}
}

func TestSpaceToBlocks(t *testing.T) {
	u := NewUniverse()
	big := EmptyPositive(4, 4, 2)
	_ = big.Set(V3(3, 3, 1), FromColor(color.White))
	ref, _ := u.InsertSpace("big", big)

	small, err := SpaceToBlocks(2, DefaultAttributes, ref)
	if err != nil {
		t.Fatalf("to blocks: %v", err)
	}
	if small.Grid() != NewGrid(V3(0, 0, 0), V3(2, 2, 1)) {
		t.Fatalf("grid=%+v", small.Grid())
	}
	r, ok := small.Get(V3(1, 1, 0)).(Recur)
	if !ok || r.Offset != V3(2, 2, 0) || r.Resolution != 2 {
		t.Fatalf("block=%+v", small.Get(V3(1, 1, 0)))
	}
	ev := small.GetEvaluated(V3(1, 1, 0))
	if c, _ := ev.Voxels.Get(V3(1, 1, 1)); c != color.White {
		t.Fatalf("voxel=%v want white", c)
	}
}
