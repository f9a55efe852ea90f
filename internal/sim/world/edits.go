package world

import (
	"fmt"

	"github.com/chewxy/math32"

	"voxelcore.dev/internal/sim/color"
)

// Edit types, applied at tick boundaries in receive order.
const (
	EditSetBlock = "SET_BLOCK"
	EditFill     = "FILL"
	EditSetDef   = "SET_DEF"
)

// Edit is a recorded change to the universe.
type Edit struct {
	Type  string `json:"type"`
	Space string `json:"space,omitempty"`

	Cube [3]int `json:"cube,omitempty"`

	Lower [3]int `json:"lower,omitempty"`
	Size  [3]int `json:"size,omitempty"`

	Def string `json:"def,omitempty"`

	Block BlockSpec `json:"block"`
}

// BlockSpec describes a block by data: a reference to a named BlockDef, AIR,
// or a uniform colored block.
type BlockSpec struct {
	Ref string `json:"ref,omitempty"`
	Air bool   `json:"air,omitempty"`

	Color         [4]float32 `json:"color,omitempty"`
	LightEmission [3]float32 `json:"light_emission,omitempty"`
	DisplayName   string     `json:"display_name,omitempty"`
	Selectable    *bool      `json:"selectable,omitempty"`
	Solid         *bool      `json:"solid,omitempty"`
}

// Resolve turns the spec into a Block of u.
func (b BlockSpec) Resolve(u *Universe) (Block, error) {
	if b.Ref != "" {
		ref, ok := u.BlockDef(b.Ref)
		if !ok {
			return nil, fmt.Errorf("unknown block def %q", b.Ref)
		}
		return Indirect{Def: ref}, nil
	}
	if b.Air {
		return AIR, nil
	}
	for _, v := range append(b.Color[:], b.LightEmission[:]...) {
		if math32.IsNaN(v) {
			return nil, fmt.Errorf("block spec has NaN component")
		}
	}
	bb := Builder().
		DisplayName(b.DisplayName).
		Color(color.RGBA{R: b.Color[0], G: b.Color[1], B: b.Color[2], A: b.Color[3]}).
		LightEmission(color.RGB{R: b.LightEmission[0], G: b.LightEmission[1], B: b.LightEmission[2]})
	if b.Selectable != nil {
		bb.Selectable(*b.Selectable)
	}
	if b.Solid != nil {
		bb.Solid(*b.Solid)
	}
	return bb.Build(), nil
}

// ApplyEdit performs e against u.
func ApplyEdit(u *Universe, e Edit) error {
	switch e.Type {
	case EditSetBlock:
		b, err := e.Block.Resolve(u)
		if err != nil {
			return err
		}
		return u.WithSpace(e.Space, func(s *Space) error {
			return s.Set(Vec3iFromArray(e.Cube), b)
		})
	case EditFill:
		b, err := e.Block.Resolve(u)
		if err != nil {
			return err
		}
		g := NewGrid(Vec3iFromArray(e.Lower), Vec3iFromArray(e.Size))
		return u.WithSpace(e.Space, func(s *Space) error {
			return s.FillUniform(g, b)
		})
	case EditSetDef:
		b, err := e.Block.Resolve(u)
		if err != nil {
			return err
		}
		return u.ModifyBlockDef(e.Def, b)
	default:
		return fmt.Errorf("unknown edit type %q", e.Type)
	}
}
