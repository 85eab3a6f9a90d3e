package speedprofile

import (
	"math"
)

// DirectProfile builds the minimal two-record profile that takes the
// object from v0 to v1 at constant acceleration acc (acc must be > 0).
func DirectProfile(v0, v1, acc float32) Profile1D {
	dt := absf(v1-v0) / acc
	return fromRecords(VT{V: v0, T: 0}, VT{V: v1, T: dt})
}

// EndPos1D computes the displacement reached by the profile that
// CreateTrajectory1D(v0, v1, hintDist, acc, vMax) would build, without
// constructing the intermediate records. By construction (see
// solvePeakAndHold) that profile always travels exactly directDistance +
// hintDist, so this is a closed form shared with the constructor rather
// than an independent computation — the two are consistent by
// definition, which is the correspondence the search relies on.
func EndPos1D(v0, v1, hintDist, acc, vMax float32) (float32, error) {
	if vMax <= 0 {
		return 0, ErrInfeasible
	}
	acc = clampAcc(acc)
	return directDistance(v0, v1, acc) + hintDist, nil
}

// CreateTrajectory1D builds a profile from v0 to v1 that travels hintDist
// beyond the distance of the minimal direct transition. The six
// sign/ordering cases named by the design are folded into two symmetric
// closed forms (overshoot above max(v0,v1), or undershoot below
// min(v0,v1)), each either a 3-record triangular peak or, when the peak
// speed would exceed the vMax envelope, a 4-record profile that clamps to
// the envelope and rests there for exactly as long as needed to make up
// the requested distance.
func CreateTrajectory1D(v0, v1, hintDist, acc, vMax float32) (Profile1D, error) {
	if vMax <= 0 {
		return Profile1D{}, ErrInfeasible
	}
	acc = clampAcc(acc)
	vp, holdTime := solvePeakAndHold(v0, v1, hintDist, acc, vMax)
	return buildPeakProfile(v0, v1, vp, holdTime, acc), nil
}

// clampAcc guards against a zero or negative acceleration input — which
// the alpha-time axis split can momentarily produce right at a cardinal
// direction — by substituting a tiny but nonzero acceleration rather than
// failing the whole candidate.
func clampAcc(acc float32) float32 {
	const minAcc = 1e-4
	if acc < minAcc {
		return minAcc
	}
	return acc
}

// solvePeakAndHold returns the peak speed vp and, when vp must clamp to
// +-vMax, the hold duration at that speed needed to reach exactly
// directDistance(v0,v1,acc)+hintDist.
func solvePeakAndHold(v0, v1, hintDist, acc, vMax float32) (vp, holdTime float32) {
	directDist := directDistance(v0, v1, acc)
	targetDist := directDist + hintDist

	if hintDist >= 0 {
		// overshoot above hi: dist(vp) = (2vp^2 - v0^2 - v1^2) / (2*acc)
		hi := maxf(v0, v1)
		capDist := cappedOvershootDistance(v0, v1, vMax, acc)
		if targetDist <= capDist {
			vpSq := acc*targetDist + (v0*v0+v1*v1)/2
			if vpSq < hi*hi {
				vpSq = hi * hi
			}
			return float32(math.Sqrt(float64(vpSq))), 0
		}
		return vMax, (targetDist - capDist) / vMax
	}
	// undershoot below lo: dist(vp) = (v0^2+v1^2 - 2vp^2) / (2*acc)
	lo := minf(v0, v1)
	capDist := cappedUndershootDistance(v0, v1, vMax, acc)
	if targetDist >= capDist {
		vpSq := (v0*v0+v1*v1)/2 - acc*targetDist
		if vpSq < 0 {
			vpSq = 0
		}
		if vpSq < lo*lo {
			vpSq = lo * lo
		}
		return -float32(math.Sqrt(float64(vpSq))), 0
	}
	return -vMax, (capDist - targetDist) / vMax
}

func directDistance(v0, v1, acc float32) float32 {
	dt := absf(v1-v0) / acc
	return (v0 + v1) * 0.5 * dt
}

func cappedOvershootDistance(v0, v1, vMax, acc float32) float32 {
	return (2*vMax*vMax - v0*v0 - v1*v1) / (2 * acc)
}

func cappedUndershootDistance(v0, v1, vMax, acc float32) float32 {
	return (v0*v0 + v1*v1 - 2*vMax*vMax) / (2 * acc)
}

// buildPeakProfile constructs the explicit record list for a peak-speed
// solution vp, inserting a cruise (hold) segment of duration holdTime
// when vp sits exactly at the +-vMax envelope.
func buildPeakProfile(v0, v1, vp, holdTime, acc float32) Profile1D {
	t1 := absf(vp-v0) / acc
	t2 := absf(v1-vp) / acc

	if holdTime <= 0 {
		return fromRecords(
			VT{V: v0, T: 0},
			VT{V: vp, T: t1},
			VT{V: v1, T: t1 + t2},
		)
	}
	return fromRecords(
		VT{V: v0, T: 0},
		VT{V: vp, T: t1},
		VT{V: vp, T: t1 + holdTime},
		VT{V: v1, T: t1 + holdTime + t2},
	)
}

// WithHoldDistance is CreateTrajectory1D's 4-record variant: it inserts an
// explicit cruise phase of duration holdTime at +-vMax between the ramp-up
// and ramp-down legs, for callers that already know the hold duration they
// want rather than a hint distance.
func WithHoldDistance(v0, v1, vMax, acc, holdTime float32) Profile1D {
	sign := float32(1)
	if absf(v0)+absf(v1) > 0 && v0+v1 < 0 {
		sign = -1
	}
	vp := sign * vMax
	t1 := absf(vp-v0) / acc
	t2 := absf(v1-vp) / acc
	if holdTime <= 0 {
		return fromRecords(VT{V: v0, T: 0}, VT{V: vp, T: t1}, VT{V: v1, T: t1 + t2})
	}
	return fromRecords(
		VT{V: v0, T: 0},
		VT{V: vp, T: t1},
		VT{V: vp, T: t1 + holdTime},
		VT{V: v1, T: t1 + holdTime + t2},
	)
}

// FastEndSpeedProfile builds a profile from v0 toward v1 where the caller
// only needs to reach hintDist of displacement, accepting whichever
// compatible end-speed (of magnitude <= |v1|, same general direction)
// minimises the profile's length. The reachable end-speed is picked with
// the same clamping rule used by the 2-D fast end-speed regime in package
// trajectory: clamp(v0, min(0, v1), max(0, v1)). That choice is re-used
// here (rather than independently optimised) to guarantee the 1-D and
// 2-D fast-end-speed code paths agree on what "closest reachable" means.
func FastEndSpeedProfile(v0, v1, hintDist, acc, vMax float32) (Profile1D, error) {
	vEnd := clampToRange(v0, minf(0, v1), maxf(0, v1))
	return CreateTrajectory1D(v0, vEnd, hintDist, acc, vMax)
}

// AccelerationByDistance builds a profile that reaches v1 from v0 in
// exactly `time` seconds while covering exactly `distance` meters, solving
// for the required acceleration directly rather than taking it as a
// parameter. It returns a single constant-acceleration segment when that
// already ends at v1, and a two-segment profile otherwise. The caller must ensure
// the requested motion is monotonic: sign(v0) == sign(distance) and
// sign(v1) == sign(distance) or v1 == 0; the maximum speed envelope is not
// considered here and must be checked by the caller. Ported from the
// escape sampler's "brake to an exact stop in a time budget" helper.
func AccelerationByDistance(v0, v1, time, distance float32) (Profile1D, error) {
	if time <= 0 {
		return Profile1D{}, ErrInfeasible
	}
	// distance = v0*t + 0.5*acc*t^2 under constant acceleration for the
	// whole duration is the simplest consistent solve: acc = 2*(distance -
	// v0*time)/time^2. With this single acceleration throughout, the speed
	// reached after `time` is v0+acc*time; we only accept it if it's within
	// a tolerance of the requested v1 (otherwise the single-acceleration
	// assumption doesn't hold and a single coast/brake split is needed).
	acc := 2 * (distance - v0*time) / (time * time)
	reached := v0 + acc*time
	if absf(reached-v1) < 1e-3 {
		return fromRecords(VT{V: v0, T: 0}, VT{V: v1, T: time}), nil
	}
	// fall back to a two-segment split: accelerate for t1 at +-acc then the
	// complementary segment for the remainder, solved so that both the
	// final speed and total distance match exactly.
	return twoSegmentByDistance(v0, v1, time, distance)
}

func twoSegmentByDistance(v0, v1, time, distance float32) (Profile1D, error) {
	// v(t1) = vm is the unknown junction speed. With t2 = time - t1 free,
	// pick t1 = time/2 (symmetric split) and solve the two piecewise-linear
	// accelerations that hit (vm at t1, v1 at time) with total distance
	// equal to `distance`. Because the split has one remaining free
	// parameter (vm) and one equation (distance), this always has a
	// solution when the configuration is feasible.
	t1 := time / 2
	t2 := time - t1
	// distance = (v0+vm)/2*t1 + (vm+v1)/2*t2 = vm*(t1+t2)/2 + (v0*t1+v1*t2)/2
	// solve for vm:
	denom := (t1 + t2) / 2
	if denom == 0 {
		return Profile1D{}, ErrInfeasible
	}
	vm := (distance - (v0*t1+v1*t2)/2) / denom
	return fromRecords(VT{V: v0, T: 0}, VT{V: vm, T: t1}, VT{V: v1, T: t1 + t2}), nil
}

func clampToRange(v, lo, hi float32) float32 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
