package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelcore.dev/internal/sim/world/logic/raycast"
)

type lightRay struct {
	// origin is relative to the cube's lower corner.
	origin    mgl64.Vec3
	direction mgl64.Vec3
}

// lightRays are cast from inside each cube: a 3x3 fan through each face,
// starting a quarter cube in from that face.
var lightRays = buildLightRays()

func buildLightRays() []lightRay {
	center := mgl64.Vec3{0.5, 0.5, 0.5}
	rays := make([]lightRay, 0, 6*9)
	for _, f := range raycast.AllSix {
		origin := center.Sub(f.NormalVec().Mul(0.25))
		basis := f.Basis()
		for rx := -1; rx <= 1; rx++ {
			for ry := -1; ry <= 1; ry++ {
				dir := basis.Mul3x1(mgl64.Vec3{float64(rx), float64(ry), 1})
				rays = append(rays, lightRay{origin: origin, direction: dir})
			}
		}
	}
	return rays
}
