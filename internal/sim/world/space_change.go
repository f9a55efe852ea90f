package world

import "fmt"

type SpaceChangeKind uint8

const (
	// SpaceBlock: the block at Cube was replaced.
	SpaceBlock SpaceChangeKind = iota + 1
	// SpaceLighting: the light at Cube changed.
	SpaceLighting
	// SpaceNumber: palette entry Index started or stopped being used.
	SpaceNumber
	// SpaceBlockValue: palette entry Index (Block) now evaluates differently.
	SpaceBlockValue
)

func (k SpaceChangeKind) String() string {
	switch k {
	case SpaceBlock:
		return "BLOCK"
	case SpaceLighting:
		return "LIGHTING"
	case SpaceNumber:
		return "NUMBER"
	case SpaceBlockValue:
		return "BLOCK_VALUE"
	default:
		return fmt.Sprintf("SpaceChangeKind(%d)", uint8(k))
	}
}

// SpaceChange is the message a Space sends its listeners.
type SpaceChange struct {
	Kind  SpaceChangeKind
	Cube  Vec3i
	Index int
	Block Block
}

func (c SpaceChange) String() string {
	switch c.Kind {
	case SpaceBlock, SpaceLighting:
		return fmt.Sprintf("%s%v", c.Kind, c.Cube.ToArray())
	default:
		return fmt.Sprintf("%s#%d", c.Kind, c.Index)
	}
}
