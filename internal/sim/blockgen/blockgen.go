// Package blockgen builds small sets of blocks for scenes and tests.
package blockgen

import (
	"strconv"

	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/world"
)

// BlockGen makes recursive blocks of a fixed resolution in a universe.
type BlockGen struct {
	Universe   *world.Universe
	Resolution world.Resolution
}

// BlockFromFunction fills a new anonymous space from fn and returns a Recur
// block over it.
func (g BlockGen) BlockFromFunction(attributes world.BlockAttributes, fn func(world.Vec3i) world.Block) (world.Block, error) {
	b, err := world.Builder().Attributes(attributes).VoxelsFn(g.Universe, g.Resolution, fn)
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// MakeSomeBlocks returns count distinct opaque grey atoms, from black to
// white. A single block is mid grey.
func MakeSomeBlocks(count int) []world.Block {
	out := make([]world.Block, 0, max(count, 0))
	for i := 0; i < count; i++ {
		lum := float32(0.5)
		if count > 1 {
			lum = float32(i) / float32(count-1)
		}
		attrs := world.DefaultAttributes
		attrs.DisplayName = strconv.Itoa(i)
		out = append(out, world.Atom{Attributes: attrs, Color: color.NewRGBA(lum, lum, lum, 1)})
	}
	return out
}

// LandscapeBlocks are the blocks with roles in outdoor scenes.
type LandscapeBlocks struct {
	Air    world.Block
	Grass  world.Block
	Dirt   world.Block
	Stone  world.Block
	Trunk  world.Block
	Leaves world.Block
}

func colorAndName(r, g, b float32, name string) world.Block {
	attrs := world.DefaultAttributes
	attrs.DisplayName = name
	return world.Atom{Attributes: attrs, Color: color.NewRGBA(r, g, b, 1)}
}

// DefaultLandscapeBlocks uses single-color blocks.
func DefaultLandscapeBlocks() LandscapeBlocks {
	return LandscapeBlocks{
		Air:    world.AIR,
		Grass:  colorAndName(0.3, 0.8, 0.3, "Grass"),
		Dirt:   colorAndName(0.4, 0.2, 0.2, "Dirt"),
		Stone:  colorAndName(0.5, 0.5, 0.5, "Stone"),
		Trunk:  colorAndName(0.6, 0.3, 0.6, "Wood"),
		Leaves: colorAndName(0.0, 0.7, 0.2, "Leaves"),
	}
}

// NewLandscapeBlocks is DefaultLandscapeBlocks with grass made recursive: a
// layer of grass over dirt.
func NewLandscapeBlocks(g BlockGen) (LandscapeBlocks, error) {
	lb := DefaultLandscapeBlocks()
	grass, dirt := lb.Grass, lb.Dirt
	top := int(max(g.Resolution, 1)) - 1

	attrs := world.DefaultAttributes
	attrs.DisplayName = grass.(world.Atom).Attributes.DisplayName
	b, err := g.BlockFromFunction(attrs, func(c world.Vec3i) world.Block {
		if c.Y >= top {
			return grass
		}
		return dirt
	})
	if err != nil {
		return LandscapeBlocks{}, err
	}
	lb.Grass = b
	return lb, nil
}

// Named returns the blocks keyed by the names scenes refer to them by.
func (lb LandscapeBlocks) Named() map[string]world.Block {
	return map[string]world.Block{
		"air":    lb.Air,
		"grass":  lb.Grass,
		"dirt":   lb.Dirt,
		"stone":  lb.Stone,
		"trunk":  lb.Trunk,
		"leaves": lb.Leaves,
	}
}
