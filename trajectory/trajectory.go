// Package trajectory implements the two-dimensional "alpha-time"
// trajectory family: a direction angle alpha and a scalar time T split
// acceleration between the x and y axes, each of which is then a
// one-dimensional speed profile from package speedprofile.
package trajectory

import (
	"math"

	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/speedprofile"
)

// EndSpeedMode selects whether calculate_trajectory must land on the
// exact requested end velocity, or may accept any lower-magnitude
// velocity compatible with the start-to-end direction.
type EndSpeedMode int

const (
	// ExactEndSpeed requires v_end == v1.
	ExactEndSpeed EndSpeedMode = iota
	// FastEndSpeed accepts v_end = clamp(v0, min(0, v1), max(0, v1)) per
	// axis — see the design note on the fast-end-speed clamping rule.
	FastEndSpeed
)

// MaxSearchIterations bounds FindTrajectory's (T, alpha) iteration.
const MaxSearchIterations = 60

// RegularPrecision and HighPrecision are FindTrajectory's two convergence
// tolerances on |end_pos - target|.
const (
	RegularPrecision = 0.08
	HighPrecision    = 0.008
)

// gapEpsilon pads the "gap" carved out of alpha near the cardinal
// directions so numerical noise doesn't land exactly on the boundary.
const gapEpsilon = 1e-4

// TrajectoryPoint is one sample of a trajectory: a kinematic state at a
// time (seconds from the trajectory's start).
type TrajectoryPoint struct {
	Position geo.Vector
	Velocity geo.Vector
	Time     float32
}

// Trajectory is a pair of 1-D speed profiles (x and y), a start position,
// a small per-second correction applied to cancel numerical drift so the
// trajectory lands exactly on the requested target, and an optional
// trailing slow-down window.
type Trajectory struct {
	X, Y                      speedprofile.Profile1D
	StartPosition             geo.Vector
	CorrectionOffsetPerSecond geo.Vector
	SlowDownTime              float32
}

// Duration returns the trajectory's nominal duration (ignoring slow-down).
func (tr Trajectory) Duration() float32 {
	return maxf(tr.X.EndTime(), tr.Y.EndTime())
}

// DurationWithSlowDown returns the effective duration once the slow-down
// tail is applied.
func (tr Trajectory) DurationWithSlowDown() float32 {
	return maxf(tr.X.TimeWithSlowDown(tr.SlowDownTime), tr.Y.TimeWithSlowDown(tr.SlowDownTime))
}

// StateAtTime returns the position and velocity at time t, including the
// correction offset and slow-down taper.
func (tr Trajectory) StateAtTime(t float32) (position, velocity geo.Vector) {
	var px, py, vx, vy float32
	if tr.SlowDownTime > 0 {
		px = tr.X.PositionAtWithSlowDown(t, tr.SlowDownTime)
		py = tr.Y.PositionAtWithSlowDown(t, tr.SlowDownTime)
		vx = tr.X.SpeedAtWithSlowDown(t, tr.SlowDownTime)
		vy = tr.Y.SpeedAtWithSlowDown(t, tr.SlowDownTime)
	} else {
		px = tr.X.PositionAt(t)
		py = tr.Y.PositionAt(t)
		vx = tr.X.SpeedAt(t)
		vy = tr.Y.SpeedAt(t)
	}
	correction := tr.CorrectionOffsetPerSecond.Scale(t)
	position = tr.StartPosition.Add(geo.Vector{X: px, Y: py}).Add(correction)
	velocity = geo.Vector{X: vx, Y: vy}
	return position, velocity
}

// EndPosition returns the trajectory's final position.
func (tr Trajectory) EndPosition() geo.Vector {
	pos, _ := tr.StateAtTime(tr.DurationWithSlowDown())
	return pos
}

// EndSpeed returns the trajectory's final velocity (ignoring slow-down,
// which only tapers acceleration, not the nominal commanded end-speed).
func (tr Trajectory) EndSpeed() geo.Vector {
	return geo.Vector{X: tr.X.EndSpeed(), Y: tr.Y.EndSpeed()}
}

// ContinuationSpeed returns the speed of the middle record of each axis
// profile; CalculatePosition returns it as its reference speed.
func (tr Trajectory) ContinuationSpeed() geo.Vector {
	xr, yr := tr.X.Records(), tr.Y.Records()
	return geo.Vector{X: xr[len(xr)/2].V, Y: yr[len(yr)/2].V}
}

// LimitToTime truncates both axis profiles at t.
func (tr *Trajectory) LimitToTime(t float32) {
	tr.X.LimitToTime(t)
	tr.Y.LimitToTime(t)
}

// BoundingBox conservatively encloses the trajectory across its entire
// duration, including the slow-down tail.
func (tr Trajectory) BoundingBox() geo.BoundingBox {
	xMin, xMax := tr.X.BoundingInterval(tr.SlowDownTime)
	yMin, yMax := tr.Y.BoundingInterval(tr.SlowDownTime)
	lo := tr.StartPosition.Add(geo.Vector{X: xMin, Y: yMin})
	hi := tr.StartPosition.Add(geo.Vector{X: xMax, Y: yMax})
	// the correction offset grows linearly with t, so the box of its final
	// shift covers every intermediate one
	shift := tr.CorrectionOffsetPerSecond.Scale(tr.DurationWithSlowDown())
	return geo.NewBoundingBox(lo, hi).Merge(geo.NewBoundingBox(lo.Add(shift), hi.Add(shift)))
}

// Sample resamples the trajectory into n equidistant-in-time points,
// starting at t=0 (i.e. the first point is exactly the start state).
func (tr Trajectory) Sample(n int) []TrajectoryPoint {
	if n < 2 {
		n = 2
	}
	duration := tr.DurationWithSlowDown()
	points := make([]TrajectoryPoint, n)
	for i := 0; i < n; i++ {
		t := duration * float32(i) / float32(n-1)
		pos, vel := tr.StateAtTime(t)
		points[i] = TrajectoryPoint{Position: pos, Velocity: vel, Time: t}
	}
	return points
}

// adjustAlpha remaps a raw candidate angle to skip the "gap" regions
// around the cardinal directions whose half-widths are
// asin(|dv_i|/(T*acc)) + eps, as described for the axis split: without
// this remapping a candidate near a cardinal direction could starve one
// axis of the acceleration budget it needs to cover its own delta-v.
func adjustAlpha(alpha float32, dvx, dvy, tTime, acc float32) float32 {
	if tTime <= 0 || acc <= 0 {
		return alpha
	}
	gapX := gapHalfWidth(dvx, tTime, acc)
	gapY := gapHalfWidth(dvy, tTime, acc)

	// Four cardinal gaps at 0, pi/2, pi, 3pi/2: accX = acc*sin(alpha) hits
	// zero at 0 and pi, starving the X axis, so those centers guard against
	// dvx (gapX); accY = acc*cos(alpha) hits zero at pi/2 and 3pi/2,
	// starving the Y axis, so those centers guard against dvy (gapY).
	norm := normalizeAngle(alpha)
	centers := [4]float32{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
	gaps := [4]float32{gapX, gapY, gapX, gapY}
	for i, c := range centers {
		g := gaps[i]
		if g <= 0 {
			continue
		}
		d := angleDiff(norm, c)
		if absf(d) < g {
			if d >= 0 {
				return normalizeAngle(c + g)
			}
			return normalizeAngle(c - g)
		}
	}
	return norm
}

func gapHalfWidth(dv, tTime, acc float32) float32 {
	ratio := absf(dv) / (tTime * acc)
	if ratio > 1 {
		ratio = 1
	}
	return float32(math.Asin(float64(ratio))) + gapEpsilon
}

func normalizeAngle(a float32) float32 {
	twoPi := float32(2 * math.Pi)
	for a < 0 {
		a += twoPi
	}
	for a >= twoPi {
		a -= twoPi
	}
	return a
}

func angleDiff(a, b float32) float32 {
	d := a - b
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
