package world

import (
	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/universe"
)

// BlockBuilder assembles a Block. The zero color is opaque black.
type BlockBuilder struct {
	attributes BlockAttributes
	color      color.RGBA

	recur      bool
	resolution Resolution
	offset     Vec3i
	space      universe.URef[Space]
}

func Builder() *BlockBuilder {
	return &BlockBuilder{attributes: DefaultAttributes, color: color.Black}
}

func (b *BlockBuilder) Attributes(a BlockAttributes) *BlockBuilder {
	b.attributes = a
	return b
}

func (b *BlockBuilder) DisplayName(name string) *BlockBuilder {
	b.attributes.DisplayName = name
	return b
}

func (b *BlockBuilder) Selectable(v bool) *BlockBuilder {
	b.attributes.Selectable = v
	return b
}

func (b *BlockBuilder) Solid(v bool) *BlockBuilder {
	b.attributes.Solid = v
	return b
}

func (b *BlockBuilder) LightEmission(c color.RGB) *BlockBuilder {
	b.attributes.LightEmission = c
	return b
}

// Color makes the block an Atom of c.
func (b *BlockBuilder) Color(c color.RGBA) *BlockBuilder {
	b.color = c
	b.recur = false
	return b
}

// VoxelsRef makes the block a Recur over an existing space.
func (b *BlockBuilder) VoxelsRef(resolution Resolution, space universe.URef[Space]) *BlockBuilder {
	b.recur = true
	b.resolution = max(resolution, 1)
	b.space = space
	return b
}

// VoxelsFn fills a new anonymous space in u from fn and makes the block a
// Recur over it.
func (b *BlockBuilder) VoxelsFn(u *Universe, resolution Resolution, fn func(Vec3i) Block) (*BlockBuilder, error) {
	resolution = max(resolution, 1)
	s := NewSpace(GridForBlock(resolution))
	if err := s.Fill(s.Grid(), func(c Vec3i) (Block, bool) { return fn(c), true }); err != nil {
		return nil, err
	}
	return b.VoxelsRef(resolution, u.Spaces.InsertAnonymous(s)), nil
}

func (b *BlockBuilder) Offset(o Vec3i) *BlockBuilder {
	b.offset = o
	return b
}

func (b *BlockBuilder) Build() Block {
	if b.recur {
		return Recur{Attributes: b.attributes, Offset: b.offset, Resolution: b.resolution, Space: b.space}
	}
	return Atom{Attributes: b.attributes, Color: b.color}
}

// IntoNamedDefinition stores the built block as a BlockDef and returns an
// Indirect to it.
func (b *BlockBuilder) IntoNamedDefinition(u *Universe, name string) (Block, error) {
	ref, err := u.InsertBlockDef(name, b.Build())
	if err != nil {
		return nil, err
	}
	return Indirect{Def: ref}, nil
}
