package world

import (
	"iter"
	"slices"

	"voxelcore.dev/internal/sim/world/logic/mathx"
	"voxelcore.dev/internal/sim/world/logic/raycast"
)

// Grid is an axis-aligned box of cubes: Lower inclusive, Lower+Size exclusive.
type Grid struct {
	Lower Vec3i
	Size  Vec3i
}

// NewGrid clamps negative sizes to zero.
func NewGrid(lower, size Vec3i) Grid {
	size.X = max(size.X, 0)
	size.Y = max(size.Y, 0)
	size.Z = max(size.Z, 0)
	return Grid{Lower: lower, Size: size}
}

// GridForBlock is the voxel grid of a recursive block at the given resolution.
func GridForBlock(resolution Resolution) Grid {
	r := int(max(resolution, 1))
	return NewGrid(Vec3i{}, Vec3i{X: r, Y: r, Z: r})
}

func (g Grid) Upper() Vec3i { return g.Lower.Add(g.Size) }

func (g Grid) Volume() int { return g.Size.X * g.Size.Y * g.Size.Z }

func (g Grid) Contains(c Vec3i) bool {
	u := g.Upper()
	return c.X >= g.Lower.X && c.X < u.X &&
		c.Y >= g.Lower.Y && c.Y < u.Y &&
		c.Z >= g.Lower.Z && c.Z < u.Z
}

// Index is the dense array index of c, x-major.
func (g Grid) Index(c Vec3i) (int, bool) {
	if !g.Contains(c) {
		return 0, false
	}
	d := c.Sub(g.Lower)
	return (d.X*g.Size.Y+d.Y)*g.Size.Z + d.Z, true
}

// CubeAt is the inverse of Index.
func (g Grid) CubeAt(i int) Vec3i {
	z := i % g.Size.Z
	i /= g.Size.Z
	y := i % g.Size.Y
	x := i / g.Size.Y
	return g.Lower.Add(Vec3i{X: x, Y: y, Z: z})
}

// Cubes iterates in Index order.
func (g Grid) Cubes() iter.Seq[Vec3i] {
	return func(yield func(Vec3i) bool) {
		u := g.Upper()
		for x := g.Lower.X; x < u.X; x++ {
			for y := g.Lower.Y; y < u.Y; y++ {
				for z := g.Lower.Z; z < u.Z; z++ {
					if !yield(Vec3i{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}

// OnBoundary reports whether c is in the outermost layer of cubes.
func (g Grid) OnBoundary(c Vec3i) bool {
	u := g.Upper()
	return c.X == g.Lower.X || c.X == u.X-1 ||
		c.Y == g.Lower.Y || c.Y == u.Y-1 ||
		c.Z == g.Lower.Z || c.Z == u.Z-1
}

func (g Grid) Translate(v Vec3i) Grid { return Grid{Lower: g.Lower.Add(v), Size: g.Size} }

// Divide scales the grid down by n, covering every cube that any part of g
// falls into.
func (g Grid) Divide(n int) Grid {
	u := g.Upper()
	lower := Vec3i{X: mathx.FloorDiv(g.Lower.X, n), Y: mathx.FloorDiv(g.Lower.Y, n), Z: mathx.FloorDiv(g.Lower.Z, n)}
	upper := Vec3i{X: mathx.CeilDiv(u.X, n), Y: mathx.CeilDiv(u.Y, n), Z: mathx.CeilDiv(u.Z, n)}
	return NewGrid(lower, upper.Sub(lower))
}

func (g Grid) bounds() raycast.Bounds {
	return raycast.Bounds{Lower: g.Lower.ToArray(), Upper: g.Upper().ToArray()}
}

// GridArray is a dense value per cube of a Grid.
type GridArray[T any] struct {
	grid     Grid
	contents []T
}

func NewGridArray[T any](g Grid, fn func(Vec3i) T) GridArray[T] {
	a := GridArray[T]{grid: g, contents: make([]T, 0, g.Volume())}
	for c := range g.Cubes() {
		a.contents = append(a.contents, fn(c))
	}
	return a
}

func (a GridArray[T]) Grid() Grid { return a.grid }

func (a GridArray[T]) Get(c Vec3i) (T, bool) {
	i, ok := a.grid.Index(c)
	if !ok {
		var zero T
		return zero, false
	}
	return a.contents[i], true
}

// Translate moves the array without copying its contents.
func (a GridArray[T]) Translate(v Vec3i) GridArray[T] {
	return GridArray[T]{grid: a.grid.Translate(v), contents: a.contents}
}

// Values is in Index order; callers must not modify it.
func (a GridArray[T]) Values() []T { return a.contents }

// EqualGridArrays compares grids and contents.
func EqualGridArrays[T comparable](a, b GridArray[T]) bool {
	return a.grid == b.grid && slices.Equal(a.contents, b.contents)
}
