package planner

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/logging"
)

func newTestPlanner(seed uint64) *Planner {
	return New(1, seed, logging.NewTestLogger(), "")
}

func TestStraightLineFree(t *testing.T) {
	p := newTestPlanner(1)
	points := p.CalculateTrajectory(geo.New(0, 0), geo.Zero, geo.New(1, 0), geo.Zero, 2, 3)

	test.That(t, len(points), test.ShouldBeGreaterThanOrEqualTo, MinResamplePoints)
	test.That(t, points[0].Time, test.ShouldAlmostEqual, float32(0))

	last := points[len(points)-1]
	test.That(t, last.Position.X, test.ShouldAlmostEqual, float32(1), 0.05)
	test.That(t, last.Position.Y, test.ShouldAlmostEqual, float32(0), 0.05)

	expectedDuration := float32(2 * math.Sqrt(1.0/3.0))
	test.That(t, last.Time, test.ShouldAlmostEqual, expectedDuration, 0.3)
}

func TestWallDetour(t *testing.T) {
	p := newTestPlanner(2)
	p.World().AddLine(geo.New(0.5, -2), geo.New(0.5, 0.05), 0.1, 10)

	points := p.CalculateTrajectory(geo.New(0, 0), geo.Zero, geo.New(1, 0), geo.Zero, 2, 3)
	test.That(t, len(points), test.ShouldBeGreaterThanOrEqualTo, MinResamplePoints)

	for _, pt := range points {
		d, _ := p.World().PointObstacleDistance(pt.Position, pt.Time, 0)
		test.That(t, d, test.ShouldBeGreaterThanOrEqualTo, float32(-0.02))
	}
}

func TestTargetInsideCircle(t *testing.T) {
	p := newTestPlanner(3)
	center := geo.New(2, 2)
	p.World().AddCircle(center, 1.0, 5)

	points := p.CalculateTrajectory(geo.New(0, 0), geo.Zero, center, geo.Zero, 2, 3)
	test.That(t, len(points) >= 1, test.ShouldBeTrue)

	last := points[len(points)-1]
	dist := last.Position.DistanceTo(center)
	test.That(t, dist, test.ShouldAlmostEqual, float32(1.0), 0.2)
}

func TestStuckInsideObstacle(t *testing.T) {
	p := newTestPlanner(4)
	p.World().AddRect(geo.New(-5, -5), geo.New(5, 5), 0, 50)

	points := p.CalculateTrajectory(geo.New(0, 0), geo.Zero, geo.New(-9, 5), geo.Zero, 2, 3)
	test.That(t, len(points) >= 2, test.ShouldBeTrue)
	test.That(t, p.LastHighestObstaclePriority(), test.ShouldEqual, int32(50))

	last := points[len(points)-1]
	dir := last.Position.Sub(points[0].Position)
	if dir.X != 0 {
		ratio := float64(dir.Y) / float64(dir.X)
		if ratio < 0 {
			ratio = -ratio
		}
		test.That(t, ratio, test.ShouldBeLessThanOrEqualTo, 0.5)
	}
}

func TestOpponentInterception(t *testing.T) {
	p := newTestPlanner(5)
	p.World().SetRadius(0.09)
	p.World().AddOpponent(geo.New(2, 0), geo.New(-1, 0), 0.09, 100, 3)

	points := p.CalculateTrajectory(geo.New(0, 0), geo.Zero, geo.New(5, 0), geo.Zero, 2, 3)
	test.That(t, len(points) >= 2, test.ShouldBeTrue)

	minDist := float32(1e9)
	for _, pt := range points {
		d, _ := p.World().PointObstacleDistance(pt.Position, pt.Time, 0)
		if d < minDist {
			minDist = d
		}
	}
	test.That(t, minDist, test.ShouldBeGreaterThanOrEqualTo, float32(-0.12))
}

func TestDeterminism(t *testing.T) {
	p1 := New(1, 42, logging.NewTestLogger(), "")
	p2 := New(1, 42, logging.NewTestLogger(), "")

	p1.World().AddLine(geo.New(0.5, -2), geo.New(0.5, 0.05), 0.1, 10)
	p2.World().AddLine(geo.New(0.5, -2), geo.New(0.5, 0.05), 0.1, 10)

	a := p1.CalculateTrajectory(geo.New(0, 0), geo.Zero, geo.New(1, 0), geo.Zero, 2, 3)
	b := p2.CalculateTrajectory(geo.New(0, 0), geo.Zero, geo.New(1, 0), geo.Zero, 2, 3)

	test.That(t, len(a), test.ShouldEqual, len(b))
	for i := range a {
		test.That(t, a[i].Position.X, test.ShouldAlmostEqual, b[i].Position.X)
		test.That(t, a[i].Position.Y, test.ShouldAlmostEqual, b[i].Position.Y)
		test.That(t, a[i].Time, test.ShouldAlmostEqual, b[i].Time)
	}
}

func TestInvalidInputStandsStill(t *testing.T) {
	p := newTestPlanner(6)
	points := p.CalculateTrajectory(geo.New(0, 0), geo.Zero, geo.New(1, 0), geo.Zero, 0, 3)
	test.That(t, len(points), test.ShouldEqual, 2)
	test.That(t, points[0].Position.X, test.ShouldAlmostEqual, float32(0))
	test.That(t, points[1].Position.X, test.ShouldAlmostEqual, float32(0))
}
