// Package obstacle implements the static and time-parameterised obstacle
// model the planner's samplers score candidate trajectories against, plus
// WorldInformation, the per-tick collection of obstacles for one robot.
package obstacle

import (
	"math"

	"github.com/rcssl/trajectory/geo"
)

// Zone classifies a zoned-distance query result.
type Zone int

const (
	// Far means the query point is further than nearRadius from the
	// obstacle's boundary (or, for time-parameterised obstacles, outside
	// the obstacle's active time interval) — the returned distance is a
	// cheap sentinel, not exact.
	Far Zone = iota
	// Near means the exact distance (positive, outside the obstacle) was
	// computed and is within nearRadius.
	Near
	// In means the query point is inside the obstacle (distance <= 0).
	In
)

// FarDistance is the sentinel distance returned for a Far zone.
const FarDistance = float32(math.MaxFloat32)

// Obstacle is the uniform interface every static and time-parameterised
// obstacle shape implements.
type Obstacle interface {
	// Priority ranks how important this obstacle is to avoid; higher is
	// more important (see the escape sampler's lexicographic scoring).
	Priority() int32
	// BoundingBox conservatively encloses the obstacle across its entire
	// time range.
	BoundingBox() geo.BoundingBox
	// ZonedDistance returns the exact distance from pos (at time t, for
	// time-parameterised obstacles) to the obstacle's boundary when that
	// distance is less than nearRadius; otherwise it may return
	// (FarDistance, Far) without doing the exact computation.
	// nearRadius == +Inf disables the far-future cutoff for
	// time-parameterised obstacles (see Far's time-interval semantics).
	ZonedDistance(pos geo.Vector, t float32, nearRadius float32) (float32, Zone)
	// ProjectOut moves pos to just outside the obstacle's surface (plus
	// extraDistance of clearance). Shapes with no natural notion of "just
	// outside" (e.g. a friendly-robot-trajectory reference) may return pos
	// unchanged.
	ProjectOut(pos geo.Vector, extraDistance float32) geo.Vector
}

// Distance returns the exact distance from pos (at time t) to the
// obstacle's boundary, ignoring the near/far optimisation.
func Distance(o Obstacle, pos geo.Vector, t float32) float32 {
	d, zone := o.ZonedDistance(pos, t, float32(math.Inf(1)))
	if zone == Far {
		return FarDistance
	}
	return d
}

// Intersects reports whether pos (at time t) lies inside the obstacle.
func Intersects(o Obstacle, pos geo.Vector, t float32) bool {
	d, zone := o.ZonedDistance(pos, t, 0)
	return zone != Far && d <= 0
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
