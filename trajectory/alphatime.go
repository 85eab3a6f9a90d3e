package trajectory

import (
	"math"

	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/speedprofile"
)

// CalculateTrajectory builds the alpha-time trajectory that starts at
// velocity v0 and, over T seconds split between the axes at angle alpha,
// reaches v1 (ExactEndSpeed) or the closest axis-compatible end speed
// (FastEndSpeed). acc is split as (acc*sin(alpha), acc*cos(alpha)).
func CalculateTrajectory(
	v0, v1 geo.Vector,
	tTime, alpha, acc, vMax, slowDownTime float32,
	mode EndSpeedMode,
) (Trajectory, error) {
	dv := v1.Sub(v0)
	adjusted := adjustAlpha(alpha, dv.X, dv.Y, tTime, acc)
	accX := acc * float32(math.Sin(float64(adjusted)))
	accY := acc * float32(math.Cos(float64(adjusted)))

	hintX, hintY := axisHints(v0, v1, tTime, accX, accY)

	var xProfile, yProfile speedprofile.Profile1D
	var err error
	switch mode {
	case FastEndSpeed:
		xProfile, err = speedprofile.FastEndSpeedProfile(v0.X, v1.X, hintX, absf(accX), vMax)
		if err != nil {
			return Trajectory{}, err
		}
		yProfile, err = speedprofile.FastEndSpeedProfile(v0.Y, v1.Y, hintY, absf(accY), vMax)
		if err != nil {
			return Trajectory{}, err
		}
	default:
		xProfile, err = speedprofile.CreateTrajectory1D(v0.X, v1.X, hintX, absf(accX), vMax)
		if err != nil {
			return Trajectory{}, err
		}
		yProfile, err = speedprofile.CreateTrajectory1D(v0.Y, v1.Y, hintY, absf(accY), vMax)
		if err != nil {
			return Trajectory{}, err
		}
	}

	return Trajectory{
		X:            xProfile,
		Y:            yProfile,
		SlowDownTime: slowDownTime,
	}, nil
}

// axisHints derives the per-axis "extra distance beyond the direct
// transition" hint from the requested time budget T: a candidate that
// spends longer than the direct v0->v1 transition on an axis is given the
// remaining time as cruise-equivalent distance at the midpoint speed,
// matching the "centre-time offset" construction named for FindTrajectory's
// seed step.
func axisHints(v0, v1 geo.Vector, tTime, accX, accY float32) (hintX, hintY float32) {
	midX := (v0.X + v1.X) / 2
	midY := (v0.Y + v1.Y) / 2
	directTX := absf(v1.X-v0.X) / maxf(absf(accX), 1e-6)
	directTY := absf(v1.Y-v0.Y) / maxf(absf(accY), 1e-6)
	extraTX := tTime - directTX
	extraTY := tTime - directTY
	if extraTX < 0 {
		extraTX = 0
	}
	if extraTY < 0 {
		extraTY = 0
	}
	return midX * extraTX, midY * extraTY
}

// CalculatePosition is the cheap position-only query used inside the
// search loop: it must stay numerically consistent with CalculateTrajectory
// for the same inputs (a tested invariant, see trajectory_test.go).
func CalculatePosition(
	v0, v1 geo.Vector,
	tTime, alpha, acc, vMax, slowDownTime float32,
	mode EndSpeedMode,
) (endPos, refSpeed geo.Vector, err error) {
	tr, err := CalculateTrajectory(v0, v1, tTime, alpha, acc, vMax, slowDownTime, mode)
	if err != nil {
		return geo.Zero, geo.Zero, err
	}
	return tr.EndPosition(), tr.ContinuationSpeed(), nil
}

// FindTrajectory solves the inverse problem: find (T, alpha) such that the
// alpha-time trajectory from start to target's velocity arrives at
// target's position. It is not Newton's method — the end-position
// function has discontinuities near the cardinal-direction gaps — but a
// bespoke adaptive two-parameter walk that the caller (a sampler) can
// simply retry on failure.
func FindTrajectory(
	start, target TrajectoryEndpoint,
	acc, vMax, slowDownTime float32,
	mode EndSpeedMode,
	highPrecision bool,
) (Trajectory, bool) {
	precision := float32(RegularPrecision)
	if highPrecision {
		precision = HighPrecision
	}

	delta := target.Position.Sub(start.Position)
	tTime := delta.Length() / maxf(acc, 1e-6)
	if tTime < 1e-3 {
		tTime = 1e-3
	}
	centreOffset := start.Velocity.Add(target.Velocity).Scale(0.5).Scale(tTime)
	alpha := centreOffset.Angle()
	if centreOffset.IsZero() {
		alpha = delta.Angle()
	}

	tStep := tTime * 0.3
	if tStep <= 0 {
		tStep = 0.1
	}
	alphaStep := float32(0.3)

	var lastRadialSign, lastAngularSign float32

	for i := 0; i < MaxSearchIterations; i++ {
		endPos, _, err := CalculatePosition(start.Velocity, target.Velocity, tTime, alpha, acc, vMax, slowDownTime, mode)
		if err != nil {
			tTime += tStep
			if tTime <= 0 {
				tTime = 1e-3
			}
			continue
		}
		errVec := target.Position.Sub(start.Position.Add(endPos))
		if errVec.Length() < precision {
			tr, err := CalculateTrajectory(start.Velocity, target.Velocity, tTime, alpha, acc, vMax, slowDownTime, mode)
			if err != nil {
				return Trajectory{}, false
			}
			tr.StartPosition = start.Position
			tr.CorrectionOffsetPerSecond = errVec.Scale(1 / maxf(tr.DurationWithSlowDown(), 1e-3))
			return tr, true
		}

		radialSign := float32(1)
		if errVec.Dot(delta) < 0 {
			radialSign = -1
		}
		if i > 0 && radialSign != lastRadialSign {
			tStep *= 0.5
		} else if i > 0 {
			tStep *= 1.05
		}
		lastRadialSign = radialSign
		tTime += radialSign * tStep
		if tTime < 1e-3 {
			tTime = 1e-3
		}

		angularErr := angleDiff(errVec.Angle(), alpha)
		angularSign := float32(1)
		if angularErr < 0 {
			angularSign = -1
		}
		if i > 0 && angularSign != lastAngularSign {
			alphaStep *= 0.5
		} else if i > 0 {
			alphaStep *= 1.05
		}
		lastAngularSign = angularSign
		alpha = normalizeAngle(alpha + angularSign*alphaStep)
	}
	return Trajectory{}, false
}

// TrajectoryEndpoint bundles a position and velocity for FindTrajectory's
// start/target arguments.
type TrajectoryEndpoint struct {
	Position geo.Vector
	Velocity geo.Vector
}
