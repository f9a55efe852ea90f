package world

import (
	"fmt"

	"voxelcore.dev/internal/persistence/snapshot"
	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/universe"
)

const (
	blockKindAtom     = "ATOM"
	blockKindRecur    = "RECUR"
	blockKindIndirect = "INDIRECT"
)

func nameToV1(n universe.Name) snapshot.NameV1 {
	return snapshot.NameV1{Specific: n.Specific, Anon: n.Anon}
}

func nameFromV1(n snapshot.NameV1) universe.Name {
	return universe.Name{Specific: n.Specific, Anon: n.Anon}
}

func attributesToV1(a BlockAttributes) snapshot.AttributesV1 {
	e := a.LightEmission
	return snapshot.AttributesV1{
		DisplayName:   a.DisplayName,
		Selectable:    a.Selectable,
		Solid:         a.Solid,
		LightEmission: [3]float32{e.R, e.G, e.B},
	}
}

func attributesFromV1(a snapshot.AttributesV1) BlockAttributes {
	return BlockAttributes{
		DisplayName:   a.DisplayName,
		Selectable:    a.Selectable,
		Solid:         a.Solid,
		LightEmission: color.RGB{R: a.LightEmission[0], G: a.LightEmission[1], B: a.LightEmission[2]},
	}
}

func blockToV1(b Block) snapshot.BlockV1 {
	switch v := b.(type) {
	case Atom:
		c := v.Color
		return snapshot.BlockV1{Kind: blockKindAtom, Attributes: attributesToV1(v.Attributes), Color: [4]float32{c.R, c.G, c.B, c.A}}
	case Recur:
		return snapshot.BlockV1{
			Kind:       blockKindRecur,
			Attributes: attributesToV1(v.Attributes),
			Offset:     v.Offset.ToArray(),
			Resolution: uint8(v.Resolution),
			Space:      nameToV1(v.Space.Name()),
		}
	case Indirect:
		return snapshot.BlockV1{Kind: blockKindIndirect, Def: nameToV1(v.Def.Name())}
	default:
		return blockToV1(AIR)
	}
}

func (u *Universe) blockFromV1(b snapshot.BlockV1) (Block, error) {
	switch b.Kind {
	case blockKindAtom:
		c := b.Color
		return Atom{Attributes: attributesFromV1(b.Attributes), Color: color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}}, nil
	case blockKindRecur:
		name := nameFromV1(b.Space)
		ref, ok := u.Spaces.Get(name)
		if !ok {
			return nil, &universe.RefError{Name: name, Err: universe.ErrNotFound}
		}
		return Recur{
			Attributes: attributesFromV1(b.Attributes),
			Offset:     Vec3iFromArray(b.Offset),
			Resolution: Resolution(b.Resolution),
			Space:      ref,
		}, nil
	case blockKindIndirect:
		name := nameFromV1(b.Def)
		ref, ok := u.Blocks.Get(name)
		if !ok {
			return nil, &universe.RefError{Name: name, Err: universe.ErrNotFound}
		}
		return Indirect{Def: ref}, nil
	default:
		return nil, fmt.Errorf("unknown block kind %q", b.Kind)
	}
}
