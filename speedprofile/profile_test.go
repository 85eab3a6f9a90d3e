package speedprofile

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/floats"
)

func TestDirectProfileInvariants(t *testing.T) {
	p := DirectProfile(1, 3, 2)
	test.That(t, p.StartSpeed(), test.ShouldAlmostEqual, float32(1))
	test.That(t, p.EndSpeed(), test.ShouldAlmostEqual, float32(3))
	test.That(t, p.EndTime(), test.ShouldAlmostEqual, float32(1))
	test.That(t, p.SpeedAt(0.5), test.ShouldAlmostEqual, float32(2))
}

func TestPositionAtMatchesTrapezoidArea(t *testing.T) {
	p := DirectProfile(0, 4, 2)
	// triangle area under v(t) from 0 to end time
	test.That(t, p.PositionAt(p.EndTime()), test.ShouldAlmostEqual, float32(4), 1e-4)
	test.That(t, p.PositionAt(1), test.ShouldAlmostEqual, float32(1), 1e-4)
}

func TestLimitToTime(t *testing.T) {
	p := CreateTrajectory1DMust(t, 0, 0, 2, 2, 3)
	full := p.PositionAt(p.EndTime())
	p.LimitToTime(p.EndTime() / 2)
	test.That(t, p.EndTime() < full, test.ShouldBeTrue)
	test.That(t, p.EndSpeed(), test.ShouldAlmostEqual, p.SpeedAt(p.EndTime()))
}

func TestCreateTrajectory1DConsistentWithEndPos(t *testing.T) {
	cases := []struct{ v0, v1, hint, acc, vMax float32 }{
		{0, 0, 1.0, 3, 2},
		{1, -1, 0.2, 2, 3},
		{0, 0, -0.3, 3, 2},
		{2, 2, 3.0, 3, 2.5},
		{-1, 1, -0.5, 4, 1.5},
	}
	for _, c := range cases {
		profile, err := CreateTrajectory1D(c.v0, c.v1, c.hint, c.acc, c.vMax)
		test.That(t, err, test.ShouldBeNil)
		endPos, err := EndPos1D(c.v0, c.v1, c.hint, c.acc, c.vMax)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, floats.EqualWithinAbs(float64(profile.PositionAt(profile.EndTime())), float64(endPos), 1e-3), test.ShouldBeTrue)
		test.That(t, profile.StartSpeed(), test.ShouldAlmostEqual, c.v0)
		test.That(t, profile.EndSpeed(), test.ShouldAlmostEqual, c.v1, 1e-3)
	}
}

func TestCreateTrajectory1DAccelerationBounded(t *testing.T) {
	profile, err := CreateTrajectory1D(0, 0, 5.0, 3, 2)
	test.That(t, err, test.ShouldBeNil)
	records := profile.Records()
	for i := 0; i < len(records)-1; i++ {
		dt := records[i+1].T - records[i].T
		if dt <= 0 {
			continue
		}
		acc := (records[i+1].V - records[i].V) / dt
		test.That(t, absf(acc) <= 3*1.01, test.ShouldBeTrue)
	}
}

func TestSlowDownTailTimeSpeedPositionAgree(t *testing.T) {
	profile, err := CreateTrajectory1D(0, 2, 0.4, 3, 4)
	test.That(t, err, test.ShouldBeNil)
	slowDown := float32(0.15)

	endTime := profile.TimeWithSlowDown(slowDown)
	test.That(t, endTime, test.ShouldAlmostEqual, profile.EndTime()+(SlowDownTime-slowDown))

	// speed should be continuous going into the tail window
	tailStart := profile.EndTime() - slowDown
	test.That(t, profile.SpeedAtWithSlowDown(tailStart, slowDown), test.ShouldAlmostEqual, profile.SpeedAt(tailStart), 1e-4)

	// sample many points and check position is the integral of speed (finite-difference check)
	const steps = 50
	dt := endTime / steps
	pos := float32(0)
	for i := 0; i < steps; i++ {
		t0 := float32(i) * dt
		t1 := float32(i+1) * dt
		v0 := profile.SpeedAtWithSlowDown(t0, slowDown)
		v1 := profile.SpeedAtWithSlowDown(t1, slowDown)
		pos += (v0 + v1) * 0.5 * dt
	}
	got := profile.PositionAtWithSlowDown(endTime, slowDown)
	test.That(t, floats.EqualWithinAbs(float64(got), float64(pos), 0.02), test.ShouldBeTrue)
}

func TestBoundingIntervalContainsEndpoints(t *testing.T) {
	profile, err := CreateTrajectory1D(1, -1, 0.1, 2, 3)
	test.That(t, err, test.ShouldBeNil)
	min, max := profile.BoundingInterval(0)
	test.That(t, min <= 0, test.ShouldBeTrue)
	test.That(t, max >= profile.PositionAt(profile.EndTime()) || max >= 0, test.ShouldBeTrue)
}

func TestFastEndSpeedClampsWithinBox(t *testing.T) {
	profile, err := FastEndSpeedProfile(2, 1, 0, 3, 4)
	test.That(t, err, test.ShouldBeNil)
	// v0=2 is already within [min(0,1),max(0,1)] = [0,1]? no, 2 > 1, so clamp to 1.
	test.That(t, profile.EndSpeed(), test.ShouldAlmostEqual, float32(1), 1e-3)
}

func TestAccelerationByDistance(t *testing.T) {
	profile, err := AccelerationByDistance(2, 0, 1.0, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, profile.StartSpeed(), test.ShouldAlmostEqual, float32(2))
	test.That(t, profile.EndSpeed(), test.ShouldAlmostEqual, float32(0), 1e-2)
	test.That(t, profile.EndTime(), test.ShouldAlmostEqual, float32(1.0))
}

// CreateTrajectory1DMust is a small test helper: build a profile or fail
// the test immediately.
func CreateTrajectory1DMust(t *testing.T, v0, v1, hint, acc, vMax float32) Profile1D {
	t.Helper()
	p, err := CreateTrajectory1D(v0, v1, hint, acc, vMax)
	test.That(t, err, test.ShouldBeNil)
	return p
}
