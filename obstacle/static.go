package obstacle

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/rcssl/trajectory/geo"
)

// Circle is a static disc obstacle.
type Circle struct {
	Center   geo.Vector
	Radius   float32
	priority int32
}

// NewCircle builds a static Circle obstacle with the given priority.
func NewCircle(center geo.Vector, radius float32, priority int32) Circle {
	return Circle{Center: center, Radius: radius, priority: priority}
}

func (c Circle) Priority() int32 { return c.priority }

func (c Circle) BoundingBox() geo.BoundingBox {
	r := geo.Vector{X: c.Radius, Y: c.Radius}
	return geo.NewBoundingBox(c.Center.Sub(r), c.Center.Add(r))
}

func (c Circle) ZonedDistance(pos geo.Vector, _ float32, nearRadius float32) (float32, Zone) {
	d := pos.DistanceTo(c.Center) - c.Radius
	return zoneFor(d, nearRadius)
}

func (c Circle) ProjectOut(pos geo.Vector, extraDistance float32) geo.Vector {
	dir := pos.Sub(c.Center)
	if dir.IsZero() {
		dir = geo.New(1, 0)
	}
	return c.Center.Add(dir.Normalized().Scale(c.Radius + extraDistance))
}

// Rectangle is an axis-aligned static rectangle obstacle, inflated by Radius
// (e.g. the robot's own footprint) on every side.
type Rectangle struct {
	Min, Max geo.Vector
	Radius   float32
	priority int32
}

// NewRectangle builds a static Rectangle obstacle.
func NewRectangle(min, max geo.Vector, radius float32, priority int32) Rectangle {
	return Rectangle{Min: min, Max: max, Radius: radius, priority: priority}
}

func (r Rectangle) Priority() int32 { return r.priority }

func (r Rectangle) BoundingBox() geo.BoundingBox {
	pad := geo.Vector{X: r.Radius, Y: r.Radius}
	return geo.NewBoundingBox(r.Min.Sub(pad), r.Max.Add(pad))
}

func (r Rectangle) ZonedDistance(pos geo.Vector, _ float32, nearRadius float32) (float32, Zone) {
	d := rectSignedDistance(pos, r.Min, r.Max) - r.Radius
	return zoneFor(d, nearRadius)
}

func (r Rectangle) ProjectOut(pos geo.Vector, extraDistance float32) geo.Vector {
	return projectOutOfRect(pos, r.Min, r.Max, r.Radius+extraDistance)
}

func rectSignedDistance(p, lo, hi geo.Vector) float32 {
	dx := maxf(lo.X-p.X, p.X-hi.X)
	dy := maxf(lo.Y-p.Y, p.Y-hi.Y)
	if dx <= 0 && dy <= 0 {
		return maxf(dx, dy)
	}
	ox, oy := maxf(dx, 0), maxf(dy, 0)
	return float32(math.Hypot(float64(ox), float64(oy)))
}

func projectOutOfRect(p, lo, hi geo.Vector, clearance float32) geo.Vector {
	cx := (lo.X + hi.X) / 2
	cy := (lo.Y + hi.Y) / 2
	hx := (hi.X - lo.X) / 2
	hy := (hi.Y - lo.Y) / 2
	dx := p.X - cx
	dy := p.Y - cy
	// scale so the point lands just outside the inflated box along the
	// axis it's furthest along, matching the nearest-face exit.
	sx := absf(dx) / maxf(hx+clearance, 1e-6)
	sy := absf(dy) / maxf(hy+clearance, 1e-6)
	if sx >= sy {
		sign := float32(1)
		if dx < 0 {
			sign = -1
		}
		return geo.Vector{X: cx + sign*(hx+clearance), Y: p.Y}
	}
	sign := float32(1)
	if dy < 0 {
		sign = -1
	}
	return geo.Vector{X: p.X, Y: cy + sign*(hy+clearance)}
}

// Triangle is a static triangular obstacle, inflated by Radius.
type Triangle struct {
	A, B, C  geo.Vector
	Radius   float32
	priority int32
}

// NewTriangle builds a static Triangle obstacle.
func NewTriangle(a, b, c geo.Vector, radius float32, priority int32) Triangle {
	return Triangle{A: a, B: b, C: c, Radius: radius, priority: priority}
}

func (t Triangle) Priority() int32 { return t.priority }

func (t Triangle) BoundingBox() geo.BoundingBox {
	box := geo.NewBoundingBox(t.A, t.A)
	box = box.MergePoint(t.B)
	box = box.MergePoint(t.C)
	return box.AddExtraRadius(t.Radius)
}

func (t Triangle) ZonedDistance(pos geo.Vector, _ float32, nearRadius float32) (float32, Zone) {
	edges := [3]geo.LineSegment{
		geo.NewLineSegment(t.A, t.B),
		geo.NewLineSegment(t.B, t.C),
		geo.NewLineSegment(t.C, t.A),
	}
	edgeDist := edges[0].Distance(pos)
	for _, e := range edges[1:] {
		if d := e.Distance(pos); d < edgeDist {
			edgeDist = d
		}
	}
	d := edgeDist
	if pointInTriangle(pos, t.A, t.B, t.C) {
		d = -d
	}
	return zoneFor(d-t.Radius, nearRadius)
}

func (t Triangle) ProjectOut(pos geo.Vector, extraDistance float32) geo.Vector {
	edges := [3]geo.LineSegment{
		geo.NewLineSegment(t.A, t.B),
		geo.NewLineSegment(t.B, t.C),
		geo.NewLineSegment(t.C, t.A),
	}
	best := edges[0].ClosestPoint(pos)
	bestDist := best.DistanceTo(pos)
	for _, e := range edges[1:] {
		cp := e.ClosestPoint(pos)
		if d := cp.DistanceTo(pos); d < bestDist {
			best, bestDist = cp, d
		}
	}
	centroid := t.A.Add(t.B).Add(t.C).Scale(1.0 / 3)
	dir := best.Sub(centroid)
	if dir.IsZero() {
		dir = geo.New(1, 0)
	}
	return best.Add(dir.Normalized().Scale(t.Radius + extraDistance))
}

func pointInTriangle(p, a, b, c geo.Vector) bool {
	s1 := cross(b.Sub(a), p.Sub(a))
	s2 := cross(c.Sub(b), p.Sub(b))
	s3 := cross(a.Sub(c), p.Sub(c))
	hasNeg := s1 < 0 || s2 < 0 || s3 < 0
	hasPos := s1 > 0 || s2 > 0 || s3 > 0
	return !(hasNeg && hasPos)
}

// cross returns the Z component of a x b, lifting both into r3.Vector and
// using the teacher's 3-D cross product rather than hand-rolling the 2-D
// determinant.
func cross(a, b geo.Vector) float32 {
	return float32(a.ToR3().Cross(b.ToR3()).Z)
}

// Line is a static thickened-segment obstacle.
type Line struct {
	Segment  geo.LineSegment
	Radius   float32
	priority int32
}

// NewLine builds a static Line obstacle.
func NewLine(p1, p2 geo.Vector, radius float32, priority int32) Line {
	return Line{Segment: geo.NewLineSegment(p1, p2), Radius: radius, priority: priority}
}

func (l Line) Priority() int32 { return l.priority }

func (l Line) BoundingBox() geo.BoundingBox {
	return l.Segment.BoundingBox().AddExtraRadius(l.Radius)
}

func (l Line) ZonedDistance(pos geo.Vector, _ float32, nearRadius float32) (float32, Zone) {
	d := l.Segment.Distance(pos) - l.Radius
	return zoneFor(d, nearRadius)
}

func (l Line) ProjectOut(pos geo.Vector, extraDistance float32) geo.Vector {
	cp := l.Segment.ClosestPoint(pos)
	dir := pos.Sub(cp)
	if dir.IsZero() {
		dir = l.Segment.P2.Sub(l.Segment.P1).Perpendicular()
		if dir.IsZero() {
			dir = geo.New(1, 0)
		}
	}
	return cp.Add(dir.Normalized().Scale(l.Radius + extraDistance))
}

func zoneFor(d, nearRadius float32) (float32, Zone) {
	if d <= 0 {
		return d, In
	}
	if d <= nearRadius {
		return d, Near
	}
	return FarDistance, Far
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
