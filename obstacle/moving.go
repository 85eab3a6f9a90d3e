package obstacle

import (
	"github.com/rcssl/trajectory/geo"
)

// MovingCircle is a disc that follows a constant-acceleration trajectory
// between StartTime and EndTime; outside that window it contributes nothing
// (Far).
type MovingCircle struct {
	StartPos     geo.Vector
	Velocity     geo.Vector
	Acceleration geo.Vector
	StartTime    float32
	EndTime      float32
	Radius       float32
	priority     int32
}

// NewMovingCircle builds a time-parameterised Circle obstacle.
func NewMovingCircle(startPos, velocity, acceleration geo.Vector, startTime, endTime, radius float32, priority int32) MovingCircle {
	return MovingCircle{
		StartPos: startPos, Velocity: velocity, Acceleration: acceleration,
		StartTime: startTime, EndTime: endTime, Radius: radius, priority: priority,
	}
}

func (m MovingCircle) Priority() int32 { return m.priority }

// BoundingBox samples the motion at a coarse resolution across its active
// window, matching how the static obstacle shapes are swept for moving
// pieces elsewhere in the corpus.
func (m MovingCircle) BoundingBox() geo.BoundingBox {
	const samples = 8
	box := geo.NewBoundingBox(m.positionAt(m.StartTime), m.positionAt(m.StartTime))
	for i := 0; i <= samples; i++ {
		t := m.StartTime + (m.EndTime-m.StartTime)*float32(i)/samples
		box = box.MergePoint(m.positionAt(t))
	}
	return box.AddExtraRadius(m.Radius)
}

func (m MovingCircle) positionAt(t float32) geo.Vector {
	dt := t - m.StartTime
	return m.StartPos.Add(m.Velocity.Scale(dt)).Add(m.Acceleration.Scale(0.5 * dt * dt))
}

func (m MovingCircle) ZonedDistance(pos geo.Vector, t float32, nearRadius float32) (float32, Zone) {
	if t < m.StartTime || t > m.EndTime {
		return FarDistance, Far
	}
	d := pos.DistanceTo(m.positionAt(t)) - m.Radius
	return zoneFor(d, nearRadius)
}

func (m MovingCircle) ProjectOut(pos geo.Vector, extraDistance float32) geo.Vector {
	center := m.positionAt(m.StartTime)
	dir := pos.Sub(center)
	if dir.IsZero() {
		dir = geo.New(1, 0)
	}
	return center.Add(dir.Normalized().Scale(m.Radius + extraDistance))
}

// movingPoint is one endpoint of a MovingLine: a point under constant
// acceleration, active over the line's shared time window.
type movingPoint struct {
	StartPos     geo.Vector
	Velocity     geo.Vector
	Acceleration geo.Vector
}

func (p movingPoint) at(dt float32) geo.Vector {
	return p.StartPos.Add(p.Velocity.Scale(dt)).Add(p.Acceleration.Scale(0.5 * dt * dt))
}

// MovingLine is a thickened segment between two independently moving
// endpoints, e.g. a pass lane between two robots.
type MovingLine struct {
	P1, P2    movingPoint
	StartTime float32
	EndTime   float32
	Radius    float32
	priority  int32
}

// NewMovingLine builds a time-parameterised Line obstacle between two
// independently moving endpoints.
func NewMovingLine(p1Start, p1Vel, p1Acc, p2Start, p2Vel, p2Acc geo.Vector, startTime, endTime, radius float32, priority int32) MovingLine {
	return MovingLine{
		P1:        movingPoint{p1Start, p1Vel, p1Acc},
		P2:        movingPoint{p2Start, p2Vel, p2Acc},
		StartTime: startTime, EndTime: endTime, Radius: radius, priority: priority,
	}
}

func (m MovingLine) Priority() int32 { return m.priority }

func (m MovingLine) BoundingBox() geo.BoundingBox {
	const samples = 8
	box := geo.NewBoundingBox(m.P1.at(0), m.P2.at(0))
	for i := 0; i <= samples; i++ {
		dt := (m.EndTime - m.StartTime) * float32(i) / samples
		box = box.MergePoint(m.P1.at(dt)).MergePoint(m.P2.at(dt))
	}
	return box.AddExtraRadius(m.Radius)
}

func (m MovingLine) segmentAt(t float32) geo.LineSegment {
	dt := t - m.StartTime
	return geo.NewLineSegment(m.P1.at(dt), m.P2.at(dt))
}

func (m MovingLine) ZonedDistance(pos geo.Vector, t float32, nearRadius float32) (float32, Zone) {
	if t < m.StartTime || t > m.EndTime {
		return FarDistance, Far
	}
	d := m.segmentAt(t).Distance(pos) - m.Radius
	return zoneFor(d, nearRadius)
}

func (m MovingLine) ProjectOut(pos geo.Vector, extraDistance float32) geo.Vector {
	seg := m.segmentAt(m.StartTime)
	cp := seg.ClosestPoint(pos)
	dir := pos.Sub(cp)
	if dir.IsZero() {
		dir = geo.New(1, 0)
	}
	return cp.Add(dir.Normalized().Scale(m.Radius + extraDistance))
}

// speedBuffer and maxSpeedBuffer implement the scaling safety margin added
// around opponent robots: up to maxSpeedBuffer of extra clearance, reached
// at referenceSpeed of relative speed, scaling linearly below that.
const (
	maxSpeedBuffer = 0.1
	referenceSpeed = 1.25
)

func speedBuffer(speed float32) float32 {
	buf := speed * (maxSpeedBuffer / referenceSpeed)
	if buf > maxSpeedBuffer {
		return maxSpeedBuffer
	}
	if buf < 0 {
		return 0
	}
	return buf
}

// OpponentRobot models an opposing robot coasting at constant velocity,
// inflated by a speed-dependent safety buffer, active only for the near
// future (it becomes unreliable quickly since opponents aren't controlled by
// this planner).
type OpponentRobot struct {
	StartPos geo.Vector
	Velocity geo.Vector
	Radius   float32
	// ActiveUntil bounds how far into the future this linear extrapolation
	// is trusted.
	ActiveUntil float32
	priority    int32
}

// NewOpponentRobot builds an OpponentRobot obstacle.
func NewOpponentRobot(startPos, velocity geo.Vector, radius, activeUntil float32, priority int32) OpponentRobot {
	return OpponentRobot{StartPos: startPos, Velocity: velocity, Radius: radius, ActiveUntil: activeUntil, priority: priority}
}

func (o OpponentRobot) Priority() int32 { return o.priority }

func (o OpponentRobot) effectiveRadius() float32 {
	return o.Radius + speedBuffer(o.Velocity.Length())
}

func (o OpponentRobot) BoundingBox() geo.BoundingBox {
	end := o.StartPos.Add(o.Velocity.Scale(o.ActiveUntil))
	return geo.NewBoundingBox(o.StartPos, end).AddExtraRadius(o.effectiveRadius())
}

func (o OpponentRobot) ZonedDistance(pos geo.Vector, t float32, nearRadius float32) (float32, Zone) {
	if t > o.ActiveUntil {
		return FarDistance, Far
	}
	center := o.StartPos.Add(o.Velocity.Scale(t))
	d := pos.DistanceTo(center) - o.effectiveRadius()
	return zoneFor(d, nearRadius)
}

func (o OpponentRobot) ProjectOut(pos geo.Vector, extraDistance float32) geo.Vector {
	dir := pos.Sub(o.StartPos)
	if dir.IsZero() {
		dir = geo.New(1, 0)
	}
	return o.StartPos.Add(dir.Normalized().Scale(o.effectiveRadius() + extraDistance))
}
