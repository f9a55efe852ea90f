package world

import (
	"fmt"

	"voxelcore.dev/internal/sim/universe"
)

// Universe owns every BlockDef and Space of a world.
type Universe struct {
	Blocks *universe.Table[BlockDef]
	Spaces *universe.Table[Space]
}

func NewUniverse() *Universe {
	return &Universe{
		Blocks: universe.NewTable[BlockDef](),
		Spaces: universe.NewTable[Space](),
	}
}

func (u *Universe) InsertBlockDef(name string, b Block) (universe.URef[BlockDef], error) {
	return u.Blocks.Insert(universe.Specific(name), NewBlockDef(b))
}

func (u *Universe) InsertSpace(name string, s *Space) (universe.URef[Space], error) {
	return u.Spaces.Insert(universe.Specific(name), s)
}

func (u *Universe) BlockDef(name string) (universe.URef[BlockDef], bool) {
	return u.Blocks.Get(universe.Specific(name))
}

func (u *Universe) Space(name string) (universe.URef[Space], bool) {
	return u.Spaces.Get(universe.Specific(name))
}

// ModifyBlockDef replaces the block of the named definition. A block that
// refers back to the definition is rejected with ErrCycle.
func (u *Universe) ModifyBlockDef(name string, b Block) error {
	ref, ok := u.BlockDef(name)
	if !ok {
		return &universe.RefError{Name: universe.Specific(name), Err: universe.ErrNotFound}
	}
	if err := checkIndirectCycle(b, ref); err != nil {
		return err
	}
	return ref.Write(func(d *BlockDef) error {
		m := d.Modify()
		m.Set(b)
		m.Commit()
		return nil
	})
}

// UniverseStepInfo is keyed by space name.
type UniverseStepInfo struct {
	Spaces map[universe.Name]SpaceStepInfo
}

func (i UniverseStepInfo) Total() SpaceStepInfo {
	var t SpaceStepInfo
	for _, s := range i.Spaces {
		t.BlocksReevaluated += s.BlocksReevaluated
		t.BlocksChanged += s.BlocksChanged
		t.Light.UpdateCount += s.Light.UpdateCount
		t.Light.QueueCount += s.Light.QueueCount
		t.Light.MaxUpdateDifference = max(t.Light.MaxUpdateDifference, s.Light.MaxUpdateDifference)
	}
	return t
}

// Step steps every space, in name order.
func (u *Universe) Step() UniverseStepInfo {
	info := UniverseStepInfo{Spaces: map[universe.Name]SpaceStepInfo{}}
	for _, name := range u.Spaces.Names() {
		ref, ok := u.Spaces.Get(name)
		if !ok {
			continue
		}
		err := ref.Write(func(s *Space) error {
			info.Spaces[name] = s.Step()
			return nil
		})
		if err != nil {
			logger().Printf("[universe] step space %s: %v", name, err)
		}
	}
	return info
}

// WithSpace runs fn with exclusive access to the named space.
func (u *Universe) WithSpace(name string, fn func(*Space) error) error {
	ref, ok := u.Space(name)
	if !ok {
		return fmt.Errorf("space %q: %w", name, &universe.RefError{Name: universe.Specific(name), Err: universe.ErrNotFound})
	}
	return ref.Write(fn)
}
