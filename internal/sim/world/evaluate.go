package world

import (
	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/listen"
	"voxelcore.dev/internal/sim/universe"
)

// EvaluatedBlock is a Block flattened to the values consumers need. It is
// never modified after construction.
type EvaluatedBlock struct {
	Attributes BlockAttributes
	// Color is a representative color for the whole block.
	Color color.RGBA
	// Voxels is set only for recursive blocks.
	Voxels *GridArray[color.RGBA]
	// Opaque blocks hide everything behind them from every side.
	Opaque bool
	// Visible is false only for blocks that draw nothing at all.
	Visible bool
}

// RecurPlaceholderColor is the representative color of every recursive block.
//
// TODO: derive it from the voxels (an average weighted by coverage) once the
// renderer stops depending on it being constant.
var RecurPlaceholderColor = color.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1.0}

func (e EvaluatedBlock) Equal(o EvaluatedBlock) bool {
	if e.Attributes != o.Attributes || e.Color != o.Color || e.Opaque != o.Opaque || e.Visible != o.Visible {
		return false
	}
	if (e.Voxels == nil) != (o.Voxels == nil) {
		return false
	}
	return e.Voxels == nil || EqualGridArrays(*e.Voxels, *o.Voxels)
}

func (a Atom) Evaluate() (EvaluatedBlock, error) {
	return EvaluatedBlock{
		Attributes: a.Attributes,
		Color:      a.Color,
		Opaque:     a.Color.FullyOpaque(),
		Visible:    !a.Color.FullyTransparent(),
	}, nil
}

func (a Atom) Listen(listen.Listener[BlockChange]) error { return nil }

func (r Recur) Evaluate() (EvaluatedBlock, error) {
	g, err := r.Space.TryBorrow()
	if err != nil {
		return EvaluatedBlock{}, err
	}
	defer g.Release()

	vg := GridForBlock(r.resolution())
	voxels := Extract(g.Get(), vg.Translate(r.Offset), func(v CubeView) color.RGBA {
		return v.Evaluated.Color
	}).Translate(r.Offset.Neg())

	opaque, visible := true, false
	i := 0
	for c := range vg.Cubes() {
		col := voxels.contents[i]
		i++
		if vg.OnBoundary(c) && !col.FullyOpaque() {
			opaque = false
		}
		if !col.FullyTransparent() {
			visible = true
		}
	}
	return EvaluatedBlock{
		Attributes: r.Attributes,
		Color:      RecurPlaceholderColor,
		Voxels:     &voxels,
		Opaque:     opaque,
		Visible:    visible,
	}, nil
}

// Listen forwards changes of which block is where, or of what a block
// evaluates to, in the referenced Space. Lighting changes are not forwarded.
func (r Recur) Listen(l listen.Listener[BlockChange]) error {
	return r.Space.Read(func(s *Space) error {
		s.Listen(listen.Filter(l, func(c SpaceChange) (BlockChange, bool) {
			switch c.Kind {
			case SpaceBlock, SpaceBlockValue:
				return BlockChange{}, true
			}
			return BlockChange{}, false
		}))
		return nil
	})
}

func (i Indirect) Evaluate() (EvaluatedBlock, error) {
	b, err := followIndirect(i)
	if err != nil {
		return EvaluatedBlock{}, err
	}
	return Evaluate(b)
}

// followIndirect walks a chain of definitions to the first block that is not
// an Indirect. A chain that comes back to a definition fails with ErrCycle.
func followIndirect(i Indirect) (Block, error) {
	seen := map[universe.URef[BlockDef]]bool{}
	for {
		if seen[i.Def] {
			return nil, &universe.RefError{Name: i.Def.Name(), Err: universe.ErrCycle}
		}
		seen[i.Def] = true
		var next Block
		if err := i.Def.Read(func(d *BlockDef) error {
			next = d.block
			return nil
		}); err != nil {
			return nil, err
		}
		ind, ok := next.(Indirect)
		if !ok {
			return next, nil
		}
		i = ind
	}
}

func (i Indirect) Listen(l listen.Listener[BlockChange]) error {
	return i.Def.Read(func(d *BlockDef) error {
		d.Listen(l)
		return nil
	})
}
