// Package raycast walks the unit cubes a ray passes through, in order.
package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is a box of cubes; Upper is exclusive.
type Bounds struct {
	Lower [3]int
	Upper [3]int
}

func (b Bounds) Contains(c [3]int) bool {
	for i := 0; i < 3; i++ {
		if c[i] < b.Lower[i] || c[i] >= b.Upper[i] {
			return false
		}
	}
	return true
}

// Hit is one cube along the ray. Face is the face of Cube the ray entered
// through, or Within for the cube containing the origin.
type Hit struct {
	Cube [3]int
	Face Face
	T    float64
}

// PreviousCube is the cube the ray was in before Cube (Cube itself for the
// starting cube).
func (h Hit) PreviousCube() [3]int {
	n := h.Face.Normal()
	return [3]int{h.Cube[0] + n[0], h.Cube[1] + n[1], h.Cube[2] + n[2]}
}

// Raycaster yields the cubes of a ray that lie within its bounds, stopping at
// the first cube after the ray leaves them.
type Raycaster struct {
	bounds  Bounds
	cube    [3]int
	step    [3]int
	tMax    [3]float64
	tDelta  [3]float64
	t       float64
	face    Face
	started bool
	done    bool
}

func New(origin, direction mgl64.Vec3, bounds Bounds) *Raycaster {
	r := &Raycaster{bounds: bounds, face: Within}
	for i := 0; i < 3; i++ {
		r.cube[i] = int(math.Floor(origin[i]))
		d := direction[i]
		switch {
		case d > 0:
			r.step[i] = 1
			r.tDelta[i] = 1 / d
			r.tMax[i] = (float64(r.cube[i]+1) - origin[i]) / d
		case d < 0:
			r.step[i] = -1
			r.tDelta[i] = -1 / d
			r.tMax[i] = (origin[i] - float64(r.cube[i])) / -d
		default:
			r.tDelta[i] = math.Inf(1)
			r.tMax[i] = math.Inf(1)
		}
	}
	return r
}

// Next returns the next in-bounds cube, or false once the ray has left the
// bounds (or can never enter them).
func (r *Raycaster) Next() (Hit, bool) {
	for !r.done {
		if r.started {
			if !r.advance() {
				r.done = true
				break
			}
		}
		r.started = true

		if r.bounds.Contains(r.cube) {
			return Hit{Cube: r.cube, Face: r.face, T: r.t}, true
		}
		if r.unreachable() {
			r.done = true
		}
	}
	return Hit{}, false
}

// advance steps along the axis with the nearest boundary; ties go to the lower
// axis index so traversal is deterministic on exact corners.
func (r *Raycaster) advance() bool {
	axis := -1
	best := math.Inf(1)
	for i := 0; i < 3; i++ {
		if r.step[i] != 0 && r.tMax[i] < best {
			best = r.tMax[i]
			axis = i
		}
	}
	if axis < 0 {
		return false
	}
	wasInside := r.bounds.Contains(r.cube)
	r.cube[axis] += r.step[axis]
	r.t = r.tMax[axis]
	r.tMax[axis] += r.tDelta[axis]
	r.face = enteredFace(axis, r.step[axis])
	if wasInside && !r.bounds.Contains(r.cube) {
		return false
	}
	return true
}

// unreachable reports whether a cube outside the bounds can never reach them;
// each coordinate moves monotonically.
func (r *Raycaster) unreachable() bool {
	for i := 0; i < 3; i++ {
		if r.cube[i] < r.bounds.Lower[i] && r.step[i] <= 0 {
			return true
		}
		if r.cube[i] >= r.bounds.Upper[i] && r.step[i] >= 0 {
			return true
		}
	}
	return false
}

func enteredFace(axis, step int) Face {
	// Moving in +axis enters the new cube through its negative face.
	neg := [3]Face{NX, NY, NZ}
	pos := [3]Face{PX, PY, PZ}
	if step > 0 {
		return neg[axis]
	}
	return pos[axis]
}
