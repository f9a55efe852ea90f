package world

import (
	"container/heap"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"

	"voxelcore.dev/internal/sim/color"
	"voxelcore.dev/internal/sim/world/logic/raycast"
)

// LightUnit is the PackedLight value of 1.0.
const LightUnit = 64

// LightBatchSize is the default cap on requests per UpdateLightingFromQueue.
const LightBatchSize = 120

const maxLightPriority = 255

// PackedLight is linear light quantized to LightUnit steps per channel.
type PackedLight struct {
	R, G, B uint8
}

var (
	ZeroLight = PackedLight{}
	// SkyLight is what a ray that leaves the space contributes.
	SkyLight = PackedLight{R: LightUnit, G: LightUnit, B: LightUnit}
	// InitialLight is the light of a cube nobody has computed yet.
	InitialLight = SkyLight
)

// PackLight quantizes c, truncating toward zero and saturating. NaN packs to 0.
func PackLight(c color.RGB) PackedLight {
	return PackedLight{R: packChannel(c.R), G: packChannel(c.G), B: packChannel(c.B)}
}

func packChannel(v float32) uint8 {
	if math32.IsNaN(v) {
		return 0
	}
	return uint8(math32.Max(0, math32.Min(255, math32.Trunc(v*LightUnit))))
}

func (l PackedLight) Value() color.RGB {
	return color.RGB{R: float32(l.R) / LightUnit, G: float32(l.G) / LightUnit, B: float32(l.B) / LightUnit}
}

// Difference is the largest per-channel distance between l and o.
func (l PackedLight) Difference(o PackedLight) uint8 {
	return max(absDiff(l.R, o.R), absDiff(l.G, o.G), absDiff(l.B, o.B))
}

func (l PackedLight) String() string { return fmt.Sprintf("PackedLight(%d, %d, %d)", l.R, l.G, l.B) }

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// LightUpdateRequest asks for the light at Cube to be recomputed.
type LightUpdateRequest struct {
	Priority uint8
	Cube     Vec3i
}

// before orders requests by descending priority, then descending coordinates.
func (r LightUpdateRequest) before(o LightUpdateRequest) bool {
	if r.Priority != o.Priority {
		return r.Priority > o.Priority
	}
	return o.Cube.Less(r.Cube)
}

type lightQueue []LightUpdateRequest

func (q lightQueue) Len() int           { return len(q) }
func (q lightQueue) Less(i, j int) bool { return q[i].before(q[j]) }
func (q lightQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *lightQueue) Push(x any)        { *q = append(*q, x.(LightUpdateRequest)) }
func (q *lightQueue) Pop() any {
	old := *q
	n := len(old)
	r := old[n-1]
	*q = old[:n-1]
	return r
}

// LightUpdateInfo reports one UpdateLightingFromQueue call.
type LightUpdateInfo struct {
	UpdateCount         int   `json:"update_count"`
	QueueCount          int   `json:"queue_count"`
	MaxUpdateDifference uint8 `json:"max_update_difference"`
}

func (i LightUpdateInfo) String() string {
	return fmt.Sprintf("%d lighting updates (%d queued), max diff %d", i.UpdateCount, i.QueueCount, i.MaxUpdateDifference)
}

// LightNeedsUpdate queues c for recomputation. Cubes outside the space and
// cubes already queued are ignored; the earlier request keeps its priority.
func (s *Space) LightNeedsUpdate(c Vec3i, priority uint8) {
	if !s.grid.Contains(c) {
		return
	}
	if _, ok := s.lightQueued[c]; ok {
		return
	}
	s.lightQueued[c] = struct{}{}
	heap.Push(&s.lightQueue, LightUpdateRequest{Priority: priority, Cube: c})
}

func (s *Space) lightNeedsUpdateAround(c Vec3i) {
	s.LightNeedsUpdate(c, maxLightPriority)
	for _, f := range raycast.AllSix {
		s.LightNeedsUpdate(c.Add(Vec3iFromArray(f.Normal())), maxLightPriority)
	}
}

// LightQueueLen is the number of cubes waiting for recomputation.
func (s *Space) LightQueueLen() int { return len(s.lightQueued) }

// PendingLightUpdates returns the queued requests in processing order.
func (s *Space) PendingLightUpdates() []LightUpdateRequest {
	out := make([]LightUpdateRequest, len(s.lightQueue))
	copy(out, s.lightQueue)
	q := lightQueue(out)
	heap.Init(&q)
	sorted := make([]LightUpdateRequest, 0, len(out))
	for q.Len() > 0 {
		sorted = append(sorted, heap.Pop(&q).(LightUpdateRequest))
	}
	return sorted
}

// UpdateLightingFromQueue recomputes up to the batch size of the most urgent
// queued cubes.
func (s *Space) UpdateLightingFromQueue() LightUpdateInfo {
	var info LightUpdateInfo
	for info.UpdateCount < s.batchSize && s.lightQueue.Len() > 0 {
		req := heap.Pop(&s.lightQueue).(LightUpdateRequest)
		delete(s.lightQueued, req.Cube)
		info.UpdateCount++
		info.MaxUpdateDifference = max(info.MaxUpdateDifference, s.updateLightingNowOn(req.Cube))
	}
	info.QueueCount = len(s.lightQueued)
	return info
}

// updateLightingNowOn recomputes one cube and returns how much it changed.
func (s *Space) updateLightingNowOn(cube Vec3i) uint8 {
	i, ok := s.grid.Index(cube)
	if !ok {
		return 0
	}
	newLight, deps := s.computeLighting(cube)
	old := s.lighting[i]
	diff := newLight.Difference(old)
	if diff == 0 {
		return 0
	}
	s.lighting[i] = newLight
	s.notifier.Notify(SpaceChange{Kind: SpaceLighting, Cube: cube})
	for _, d := range deps {
		s.LightNeedsUpdate(d, diff)
	}
	return diff
}

// computeLighting averages the light seen by the fixed set of sample rays and
// returns the cubes whose light was read. The returned slice is reused.
func (s *Space) computeLighting(cube Vec3i) (PackedLight, []Vec3i) {
	deps := s.depsBuf[:0]
	if s.GetEvaluated(cube).Opaque {
		s.depsBuf = deps
		return PackLight(color.ZeroRGB), deps
	}

	var total color.RGB
	var count float32
	bounds := s.grid.bounds()
	base := mgl64.Vec3{float64(cube.X), float64(cube.Y), float64(cube.Z)}
	for _, ray := range lightRays {
		count++
		rc := raycast.New(base.Add(ray.origin), ray.direction, bounds)
		hitOpaque := false
		for {
			hit, ok := rc.Next()
			if !ok {
				break
			}
			if hit.Face == raycast.Within {
				continue
			}
			hc := Vec3iFromArray(hit.Cube)
			ev := s.GetEvaluated(hc)
			if !ev.Opaque {
				continue
			}
			prev := Vec3iFromArray(hit.PreviousCube())
			total = total.Add(ev.Attributes.LightEmission).Add(s.GetLighting(prev).Value())
			deps = append(deps, prev)
			hitOpaque = true
			break
		}
		if !hitOpaque {
			total = total.Add(SkyLight.Value())
		}
	}
	s.depsBuf = deps
	return PackLight(total.Div(count)), deps
}
