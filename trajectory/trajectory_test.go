package trajectory

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/floats"

	"github.com/rcssl/trajectory/geo"
)

func TestCalculateTrajectoryStartSpeedMatches(t *testing.T) {
	v0 := geo.New(0, 0)
	v1 := geo.New(1, -1)
	tr, err := CalculateTrajectory(v0, v1, 1.0, 0.7, 3, 2, 0, ExactEndSpeed)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tr.X.StartSpeed(), test.ShouldAlmostEqual, v0.X)
	test.That(t, tr.Y.StartSpeed(), test.ShouldAlmostEqual, v0.Y)
}

func TestCalculatePositionConsistentWithCalculateTrajectory(t *testing.T) {
	v0 := geo.New(0.5, -0.2)
	v1 := geo.New(-0.3, 0.4)
	const tTime, alpha, acc, vMax = 1.2, 1.1, 3.0, 2.0

	tr, err := CalculateTrajectory(v0, v1, tTime, alpha, acc, vMax, 0, ExactEndSpeed)
	test.That(t, err, test.ShouldBeNil)
	endPos, _, err := CalculatePosition(v0, v1, tTime, alpha, acc, vMax, 0, ExactEndSpeed)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, floats.EqualWithinAbs(float64(tr.EndPosition().X), float64(endPos.X), 1e-4), test.ShouldBeTrue)
	test.That(t, floats.EqualWithinAbs(float64(tr.EndPosition().Y), float64(endPos.Y), 1e-4), test.ShouldBeTrue)
}

func TestCalculatePositionConsistentWithSlowDown(t *testing.T) {
	v0 := geo.New(0.5, -0.2)
	v1 := geo.New(-0.3, 0.4)
	const tTime, alpha, acc, vMax, slowDown = 1.2, 1.1, 3.0, 2.0, 0.15

	tr, err := CalculateTrajectory(v0, v1, tTime, alpha, acc, vMax, slowDown, ExactEndSpeed)
	test.That(t, err, test.ShouldBeNil)
	endPos, _, err := CalculatePosition(v0, v1, tTime, alpha, acc, vMax, slowDown, ExactEndSpeed)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, floats.EqualWithinAbsOrRel(float64(tr.EndPosition().X), float64(endPos.X), 0.35, 0.1), test.ShouldBeTrue)
	test.That(t, floats.EqualWithinAbsOrRel(float64(tr.EndPosition().Y), float64(endPos.Y), 0.35, 0.1), test.ShouldBeTrue)
}

func TestFindTrajectoryStraightLine(t *testing.T) {
	start := TrajectoryEndpoint{Position: geo.New(0, 0), Velocity: geo.New(0, 0)}
	target := TrajectoryEndpoint{Position: geo.New(1, 0), Velocity: geo.New(0, 0)}

	tr, ok := FindTrajectory(start, target, 3, 2, 0, ExactEndSpeed, false)
	test.That(t, ok, test.ShouldBeTrue)
	end := tr.EndPosition()
	test.That(t, end.X, test.ShouldAlmostEqual, float32(1), 0.08)
	test.That(t, end.Y, test.ShouldAlmostEqual, float32(0), 0.08)
}

func TestFindTrajectoryConvergesForRandomPairs(t *testing.T) {
	type pair struct{ sx, sy, tx, ty float32 }
	pairs := []pair{
		{0, 0, 2, 1},
		{0, 0, -1, 2},
		{1, 1, 1, -1},
		{-2, -2, 2, 2},
		{0, 0, 0.1, 0.1},
	}
	successes := 0
	for _, p := range pairs {
		start := TrajectoryEndpoint{Position: geo.New(p.sx, p.sy), Velocity: geo.New(0, 0)}
		target := TrajectoryEndpoint{Position: geo.New(p.tx, p.ty), Velocity: geo.New(0, 0)}
		_, ok := FindTrajectory(start, target, 3, 2, 0, ExactEndSpeed, false)
		if ok {
			successes++
		}
	}
	test.That(t, successes, test.ShouldBeGreaterThanOrEqualTo, len(pairs)-1)
}

func TestSampleStartsAtZeroTime(t *testing.T) {
	v0 := geo.New(0, 0)
	v1 := geo.New(1, 0)
	tr, err := CalculateTrajectory(v0, v1, 1, 0, 3, 2, 0, ExactEndSpeed)
	test.That(t, err, test.ShouldBeNil)
	points := tr.Sample(40)
	test.That(t, len(points), test.ShouldBeGreaterThanOrEqualTo, 40)
	test.That(t, points[0].Time, test.ShouldAlmostEqual, float32(0))
}

func TestBoundingBoxContainsSamples(t *testing.T) {
	v0 := geo.New(0.3, -0.2)
	v1 := geo.New(-0.1, 0.5)
	tr, err := CalculateTrajectory(v0, v1, 1.0, 2.0, 3, 2, 0.1, ExactEndSpeed)
	test.That(t, err, test.ShouldBeNil)
	box := tr.BoundingBox()
	for _, p := range tr.Sample(50) {
		test.That(t, box.AddExtraRadius(0.01).IsInside(p.Position), test.ShouldBeTrue)
	}
}
