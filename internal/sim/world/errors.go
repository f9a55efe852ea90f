package world

import "fmt"

type SetCubeErrorKind uint8

const (
	SetCubeOutOfBounds SetCubeErrorKind = iota + 1
	SetCubeEvalBlock
)

// SetCubeError is returned when a Space refuses a block.
type SetCubeError struct {
	Kind SetCubeErrorKind
	Cube Vec3i
	Grid Grid
	// Err is the evaluation failure for SetCubeEvalBlock.
	Err error
}

func (e *SetCubeError) Error() string {
	switch e.Kind {
	case SetCubeOutOfBounds:
		return fmt.Sprintf("cube %v out of bounds of %v..%v", e.Cube.ToArray(), e.Grid.Lower.ToArray(), e.Grid.Upper().ToArray())
	case SetCubeEvalBlock:
		return fmt.Sprintf("block for cube %v failed to evaluate: %v", e.Cube.ToArray(), e.Err)
	default:
		return "set cube failed"
	}
}

func (e *SetCubeError) Unwrap() error { return e.Err }
