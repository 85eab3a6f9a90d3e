package obstacle

import (
	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/trajectory"
)

// FriendlyRobotTrajectory treats another friendly robot's already-planned
// path as a moving obstacle: its own planner committed to that trajectory
// last tick, so this tick's candidates are scored against where that robot
// is expected to be, sampled at a fixed time step and indexed by floor
// division; once the referenced trajectory ends, its last sample is held
// indefinitely (the other robot is assumed to stop, not vanish).
type FriendlyRobotTrajectory struct {
	Points   []trajectory.TrajectoryPoint
	Radius   float32
	priority int32
}

// NewFriendlyRobotTrajectory builds a FriendlyRobotTrajectory obstacle from
// a previously sampled trajectory. points must be sorted by ascending Time
// and evenly spaced, as produced by trajectory.Trajectory.Sample.
func NewFriendlyRobotTrajectory(points []trajectory.TrajectoryPoint, radius float32, priority int32) FriendlyRobotTrajectory {
	return FriendlyRobotTrajectory{Points: points, Radius: radius, priority: priority}
}

func (f FriendlyRobotTrajectory) Priority() int32 { return f.priority }

func (f FriendlyRobotTrajectory) BoundingBox() geo.BoundingBox {
	if len(f.Points) == 0 {
		return geo.EmptyBoundingBox()
	}
	box := geo.NewBoundingBox(f.Points[0].Position, f.Points[0].Position)
	for _, p := range f.Points[1:] {
		box = box.MergePoint(p.Position)
	}
	return box.AddExtraRadius(f.Radius)
}

// positionAt returns the referenced robot's expected position at time t,
// via floor-division indexing into the fixed-step sample buffer.
func (f FriendlyRobotTrajectory) positionAt(t float32) (geo.Vector, bool) {
	n := len(f.Points)
	if n == 0 {
		return geo.Zero, false
	}
	if n == 1 || t <= f.Points[0].Time {
		return f.Points[0].Position, true
	}
	if t >= f.Points[n-1].Time {
		return f.Points[n-1].Position, true
	}
	step := f.Points[1].Time - f.Points[0].Time
	if step <= 0 {
		return f.Points[0].Position, true
	}
	idx := int((t - f.Points[0].Time) / step)
	if idx < 0 {
		idx = 0
	}
	if idx >= n-1 {
		idx = n - 2
	}
	a, b := f.Points[idx], f.Points[idx+1]
	span := b.Time - a.Time
	if span <= 0 {
		return a.Position, true
	}
	frac := clamp01((t - a.Time) / span)
	return a.Position.Add(b.Position.Sub(a.Position).Scale(frac)), true
}

func (f FriendlyRobotTrajectory) ZonedDistance(pos geo.Vector, t float32, nearRadius float32) (float32, Zone) {
	center, ok := f.positionAt(t)
	if !ok {
		return FarDistance, Far
	}
	d := pos.DistanceTo(center) - f.Radius
	return zoneFor(d, nearRadius)
}

// ProjectOut is a no-op for a friendly-trajectory reference: there is no
// single "outside" since the obstacle moves with time, so callers that need
// to escape one should instead wait for the referenced robot to clear or
// resample with a later start time.
func (f FriendlyRobotTrajectory) ProjectOut(pos geo.Vector, _ float32) geo.Vector {
	return pos
}
