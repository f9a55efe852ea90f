package world

import (
	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/listen"
	"voxelcore.dev/internal/sim/universe"
)

// Block is an immutable description of the contents of one cube.
//
// The concrete variants are Atom, Recur and Indirect. All of them are
// comparable, so blocks may be used as map keys and compared with ==.
type Block interface {
	// Evaluate flattens the block into the data needed to render and light it.
	// It has no side effects.
	Evaluate() (EvaluatedBlock, error)
	// Listen arranges for l to be told when Evaluate's result may have changed.
	Listen(l listen.Listener[BlockChange]) error

	isBlock()
}

// BlockChange is the (contentless) message that a block's evaluation may differ.
type BlockChange struct{}

// Resolution is the number of voxels along each edge of a recursive block.
type Resolution uint8

// BlockAttributes are the properties of a block other than its appearance.
type BlockAttributes struct {
	DisplayName string `json:"display_name,omitempty"`
	Selectable  bool   `json:"selectable"`
	Solid       bool   `json:"solid"`
	// LightEmission is added to the light of faces that see this block.
	LightEmission color.RGB `json:"light_emission"`
}

// DefaultAttributes is used by every constructor that is not given attributes.
var DefaultAttributes = BlockAttributes{
	DisplayName:   "",
	Selectable:    true,
	Solid:         true,
	LightEmission: color.ZeroRGB,
}

// Atom is a block of a single uniform color.
type Atom struct {
	Attributes BlockAttributes
	Color      color.RGBA
}

// Recur is a block whose voxels are the cubes of a region of another Space.
type Recur struct {
	Attributes BlockAttributes
	// Offset is the cube in Space that becomes voxel (0, 0, 0).
	Offset     Vec3i
	Resolution Resolution
	Space      universe.URef[Space]
}

// Indirect is a block defined by a shared, mutable BlockDef.
type Indirect struct {
	Def universe.URef[BlockDef]
}

func (Atom) isBlock()     {}
func (Recur) isBlock()    {}
func (Indirect) isBlock() {}

// AIR is the block of empty space. Spaces are created full of it.
var AIR Block = Atom{
	Attributes: BlockAttributes{
		DisplayName:   "<air>",
		Selectable:    false,
		Solid:         false,
		LightEmission: color.ZeroRGB,
	},
	Color: color.Transparent,
}

// AirEvaluated is AIR's evaluation, also what cubes outside a Space read as.
var AirEvaluated = EvaluatedBlock{
	Attributes: AIR.(Atom).Attributes,
	Color:      color.Transparent,
	Opaque:     false,
	Visible:    false,
}

// FromColor builds an Atom with default attributes.
func FromColor(c color.RGBA) Block {
	return Atom{Attributes: DefaultAttributes, Color: c}
}

// Evaluate is b.Evaluate; a nil block evaluates as AIR.
func Evaluate(b Block) (EvaluatedBlock, error) {
	if b == nil {
		return AirEvaluated, nil
	}
	return b.Evaluate()
}

// Listen is b.Listen; a nil block never changes.
func Listen(b Block, l listen.Listener[BlockChange]) error {
	if b == nil {
		return nil
	}
	return b.Listen(l)
}

func (r Recur) resolution() Resolution { return max(r.Resolution, 1) }
