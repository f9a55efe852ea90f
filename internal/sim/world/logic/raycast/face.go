package raycast

import "github.com/go-gl/mathgl/mgl64"

// Face names one side of a unit cube, or Within for "no face" (the ray's
// starting cube).
type Face uint8

const (
	Within Face = iota
	NX
	NY
	NZ
	PX
	PY
	PZ
)

var AllSix = [6]Face{NX, NY, NZ, PX, PY, PZ}

func (f Face) Normal() [3]int {
	switch f {
	case NX:
		return [3]int{-1, 0, 0}
	case NY:
		return [3]int{0, -1, 0}
	case NZ:
		return [3]int{0, 0, -1}
	case PX:
		return [3]int{1, 0, 0}
	case PY:
		return [3]int{0, 1, 0}
	case PZ:
		return [3]int{0, 0, 1}
	}
	return [3]int{}
}

func (f Face) NormalVec() mgl64.Vec3 {
	n := f.Normal()
	return mgl64.Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
}

func (f Face) Opposite() Face {
	switch f {
	case NX:
		return PX
	case NY:
		return PY
	case NZ:
		return PZ
	case PX:
		return NX
	case PY:
		return NY
	case PZ:
		return NZ
	}
	return Within
}

// Basis is a rotation taking +Z to the face normal, with right-handed
// (right, up, normal) columns.
func (f Face) Basis() mgl64.Mat3 {
	var right, up mgl64.Vec3
	switch f {
	case NX:
		right, up = mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}
	case NY:
		right, up = mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}
	case NZ:
		right, up = mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 1, 0}
	case PX:
		right, up = mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}
	case PY:
		right, up = mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}
	case PZ:
		right, up = mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}
	default:
		return mgl64.Ident3()
	}
	return mgl64.Mat3FromCols(right, up, f.NormalVec())
}

func (f Face) String() string {
	return [...]string{"WITHIN", "NX", "NY", "NZ", "PX", "PY", "PZ"}[f]
}
