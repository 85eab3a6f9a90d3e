package obstacle

import (
	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/trajectory"
)

// WorldInformation is the per-tick collection of obstacles, the field
// boundary, and the planning robot's own radius, built fresh by the caller
// before each CalculateTrajectory call.
type WorldInformation struct {
	robotRadius        float32
	boundary           geo.BoundingBox
	outOfFieldPriority int32
	obstacles          []Obstacle
}

// NewWorldInformation returns an empty WorldInformation with no boundary set
// (IsTrajectoryInObstacle and MinObstacleDistance ignore an unset boundary).
func NewWorldInformation() *WorldInformation {
	return &WorldInformation{boundary: geo.EmptyBoundingBox()}
}

// SetRadius sets the planning robot's own radius, used when inflating
// obstacles so that candidates can be checked as if the robot were a point.
func (w *WorldInformation) SetRadius(r float32) { w.robotRadius = r }

// RobotRadius returns the robot radius set by SetRadius.
func (w *WorldInformation) RobotRadius() float32 { return w.robotRadius }

// SetBoundary sets the playable-field rectangle; positions outside it are
// treated as colliding with an implicit out-of-field obstacle whose
// priority is set by SetOutOfFieldPriority.
func (w *WorldInformation) SetBoundary(box geo.BoundingBox) { w.boundary = box }

// SetOutOfFieldPriority sets the priority assigned to the implicit
// out-of-field boundary violation.
func (w *WorldInformation) SetOutOfFieldPriority(p int32) { w.outOfFieldPriority = p }

// ClearObstacles empties the obstacle list, keeping the boundary and radius.
func (w *WorldInformation) ClearObstacles() { w.obstacles = w.obstacles[:0] }

// Obstacles returns the current obstacle list.
func (w *WorldInformation) Obstacles() []Obstacle { return w.obstacles }

// AddCircle adds a Circle obstacle already inflated by the robot's radius.
func (w *WorldInformation) AddCircle(center geo.Vector, radius float32, priority int32) {
	w.obstacles = append(w.obstacles, NewCircle(center, radius+w.robotRadius, priority))
}

// AddLine adds a Line obstacle already inflated by the robot's radius.
func (w *WorldInformation) AddLine(p1, p2 geo.Vector, radius float32, priority int32) {
	w.obstacles = append(w.obstacles, NewLine(p1, p2, radius+w.robotRadius, priority))
}

// AddRect adds a Rectangle obstacle already inflated by the robot's radius.
func (w *WorldInformation) AddRect(min, max geo.Vector, radius float32, priority int32) {
	w.obstacles = append(w.obstacles, NewRectangle(min, max, radius+w.robotRadius, priority))
}

// AddTriangle adds a Triangle obstacle already inflated by the robot's radius.
func (w *WorldInformation) AddTriangle(a, b, c geo.Vector, radius float32, priority int32) {
	w.obstacles = append(w.obstacles, NewTriangle(a, b, c, radius+w.robotRadius, priority))
}

// AddMovingCircle adds a MovingCircle obstacle already inflated by the
// robot's radius.
func (w *WorldInformation) AddMovingCircle(startPos, velocity, acceleration geo.Vector, startTime, endTime, radius float32, priority int32) {
	w.obstacles = append(w.obstacles, NewMovingCircle(startPos, velocity, acceleration, startTime, endTime, radius+w.robotRadius, priority))
}

// AddMovingLine adds a MovingLine obstacle already inflated by the robot's
// radius.
func (w *WorldInformation) AddMovingLine(p1Start, p1Vel, p1Acc, p2Start, p2Vel, p2Acc geo.Vector, startTime, endTime, radius float32, priority int32) {
	w.obstacles = append(w.obstacles, NewMovingLine(p1Start, p1Vel, p1Acc, p2Start, p2Vel, p2Acc, startTime, endTime, radius+w.robotRadius, priority))
}

// AddOpponent adds an OpponentRobot obstacle already inflated by the robot's
// radius.
func (w *WorldInformation) AddOpponent(startPos, velocity geo.Vector, radius, activeUntil float32, priority int32) {
	w.obstacles = append(w.obstacles, NewOpponentRobot(startPos, velocity, radius+w.robotRadius, activeUntil, priority))
}

// AddFriendlyTrajectory adds a FriendlyRobotTrajectory obstacle already
// inflated by the robot's radius.
func (w *WorldInformation) AddFriendlyTrajectory(points []trajectory.TrajectoryPoint, radius float32, priority int32) {
	w.obstacles = append(w.obstacles, NewFriendlyRobotTrajectory(points, radius+w.robotRadius, priority))
}

// resampleCount is how many equispaced-in-time points a trajectory is
// sampled at for collision and distance queries.
const resampleCount = 40

// standStillFuture is how far past a near-zero-speed endpoint the endpoint
// distance query additionally looks, to catch a moving obstacle arriving
// shortly after the robot would otherwise have stopped.
const standStillFuture = 0.5

// nearZeroSpeed is the threshold below which an endpoint speed is treated as
// "standing still" for the purpose of the extra standStillFuture sampling.
const nearZeroSpeed = 0.05

// IsTrajectoryInObstacle samples tr at resampleCount equispaced times
// (offset by t0, the trajectory's start time within the current tick) and
// reports whether any sample lies outside the field boundary or inside an
// obstacle, first filtering obstacles whose bounding box does not intersect
// tr's.
func (w *WorldInformation) IsTrajectoryInObstacle(tr trajectory.Trajectory, t0 float32) (inObstacle bool, priority int32, atTime float32) {
	trBox := tr.BoundingBox()
	relevant := w.relevantObstacles(trBox)
	for _, p := range tr.Sample(resampleCount) {
		t := p.Time + t0
		if w.hasBoundary() && !w.boundary.IsInside(p.Position) {
			return true, w.outOfFieldPriority, p.Time
		}
		for _, o := range relevant {
			if Intersects(o, p.Position, t) {
				return true, o.Priority(), p.Time
			}
		}
	}
	return false, 0, 0
}

// MinObstacleDistance samples tr the same way as IsTrajectoryInObstacle and
// returns both the minimum distance found along the whole path and the
// distance at the trajectory's endpoint specifically; when the endpoint
// speed is near zero, the endpoint query additionally samples
// standStillFuture seconds of the robot remaining stationary there, since a
// moving obstacle may still arrive shortly after.
func (w *WorldInformation) MinObstacleDistance(tr trajectory.Trajectory, t0, nearRadius float32) (worstAlongPath, atEndpoint float32) {
	worstAlongPath, atEndpoint = FarDistance, FarDistance
	trBox := tr.BoundingBox()
	relevant := w.relevantObstacles(trBox)
	points := tr.Sample(resampleCount)
	for _, p := range points {
		d, _ := w.pointDistance(relevant, p.Position, p.Time+t0, nearRadius)
		if d < worstAlongPath {
			worstAlongPath = d
		}
	}
	end := points[len(points)-1]
	atEndpoint, _ = w.pointDistance(relevant, end.Position, end.Time+t0, nearRadius)
	if end.Velocity.Length() < nearZeroSpeed {
		const futureSamples = 5
		for i := 1; i <= futureSamples; i++ {
			t := end.Time + t0 + standStillFuture*float32(i)/futureSamples
			d, _ := w.pointDistance(relevant, end.Position, t, nearRadius)
			if d < atEndpoint {
				atEndpoint = d
			}
		}
	}
	return worstAlongPath, atEndpoint
}

// PointInObstacle reports whether pos (at time t) lies inside the field
// boundary violation or any obstacle, along with the highest-priority
// obstacle among those found to intersect.
func (w *WorldInformation) PointInObstacle(pos geo.Vector, t float32) (bool, int32) {
	inside := false
	var priority int32
	if w.hasBoundary() && !w.boundary.IsInside(pos) {
		inside = true
		priority = w.outOfFieldPriority
	}
	for _, o := range w.obstacles {
		if Intersects(o, pos, t) {
			inside = true
			if o.Priority() > priority {
				priority = o.Priority()
			}
		}
	}
	return inside, priority
}

// PointObstacleDistance returns the minimum zoned distance from pos (at time
// t) to any obstacle (and the field boundary, if set), along with that
// obstacle's priority; exposed for samplers that score individual candidate
// points rather than a whole trajectory (e.g. the standard sampler's
// score).
func (w *WorldInformation) PointObstacleDistance(pos geo.Vector, t, nearRadius float32) (distance float32, priority int32) {
	return w.pointDistance(w.obstacles, pos, t, nearRadius)
}

func (w *WorldInformation) pointDistance(obstacles []Obstacle, pos geo.Vector, t, nearRadius float32) (distance float32, priority int32) {
	distance = FarDistance
	if w.hasBoundary() {
		if d := boundaryDistance(w.boundary, pos); d < distance {
			distance, priority = d, w.outOfFieldPriority
		}
	}
	for _, o := range obstacles {
		d, zone := o.ZonedDistance(pos, t, nearRadius)
		if zone == Far {
			continue
		}
		if d < distance {
			distance, priority = d, o.Priority()
		}
	}
	return distance, priority
}

// relevantObstacles filters to obstacles whose bounding box intersects box,
// the cheap pre-filter named for the obstacle-sampling hot loop.
func (w *WorldInformation) relevantObstacles(box geo.BoundingBox) []Obstacle {
	out := make([]Obstacle, 0, len(w.obstacles))
	for _, o := range w.obstacles {
		if o.BoundingBox().Intersects(box) {
			out = append(out, o)
		}
	}
	return out
}

func (w *WorldInformation) hasBoundary() bool {
	return w.boundary.Max.X >= w.boundary.Min.X && w.boundary.Max.Y >= w.boundary.Min.Y
}

// boundaryDistance returns the signed distance from pos to leaving the
// playable field: positive (clearance) while inside, negative (already a
// violation) once outside. This is the Rectangle convention inverted, since
// for a boundary "inside" is safe rather than colliding.
func boundaryDistance(boundary geo.BoundingBox, pos geo.Vector) float32 {
	return -rectSignedDistance(pos, boundary.Min, boundary.Max)
}
