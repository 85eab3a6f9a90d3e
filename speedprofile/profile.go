// Package speedprofile implements the one-dimensional, piecewise-linear
// velocity-vs-time schedule ("SpeedProfile1D") that the two-dimensional
// alpha-time trajectory family is built from.
package speedprofile

import (
	"github.com/pkg/errors"
)

// SlowDownTime is the fixed width of the trailing window, in seconds, over
// which acceleration is tapered when a trajectory requests a slow-down
// tail.
const SlowDownTime = 0.2

// MinAccFactor is the acceleration multiplier reached at the far end of the
// slow-down tail (t_end + (0.2 - slowDownTime)).
const MinAccFactor = 0.3

// maxRecords bounds the number of (v, t) records a profile can hold. The
// construction algorithms in this package never need more than four.
const maxRecords = 6

// VT is one record of a speed profile: the instantaneous speed v at
// cumulative time t (measured from the start of the profile).
type VT struct {
	V, T float32
}

// Profile1D is an ordered, non-decreasing-in-time sequence of VT records.
// Speed varies linearly between consecutive records (constant
// acceleration per segment).
type Profile1D struct {
	records [maxRecords]VT
	n       int
}

// fromRecords builds a profile from an explicit, already-valid slice of
// records.
func fromRecords(records ...VT) Profile1D {
	var p Profile1D
	for _, r := range records {
		p.records[p.n] = r
		p.n++
	}
	return p
}

// Records returns a copy of the profile's records, in order.
func (p Profile1D) Records() []VT {
	out := make([]VT, p.n)
	copy(out, p.records[:p.n])
	return out
}

// Len returns the number of records in the profile.
func (p Profile1D) Len() int {
	return p.n
}

// StartSpeed returns the speed at t=0.
func (p Profile1D) StartSpeed() float32 {
	return p.records[0].V
}

// EndSpeed returns the speed of the final record.
func (p Profile1D) EndSpeed() float32 {
	return p.records[p.n-1].V
}

// EndTime returns the cumulative duration of the profile.
func (p Profile1D) EndTime() float32 {
	return p.records[p.n-1].T
}

// InitialAcceleration returns the (signed) acceleration of the first
// segment.
func (p Profile1D) InitialAcceleration() float32 {
	if p.n < 2 {
		return 0
	}
	dt := p.records[1].T - p.records[0].T
	if dt <= 0 {
		return 0
	}
	return (p.records[1].V - p.records[0].V) / dt
}

// segmentIndexAt returns the index i such that t falls within
// [records[i].T, records[i+1].T], clamping to the profile's domain.
func (p Profile1D) segmentIndexAt(t float32) int {
	if t <= p.records[0].T {
		return 0
	}
	for i := 0; i < p.n-1; i++ {
		if p.records[i+1].T >= t {
			return i
		}
	}
	return p.n - 2
}

// SpeedAt returns the instantaneous speed at time t, clamped to the
// profile's domain at either end.
func (p Profile1D) SpeedAt(t float32) float32 {
	if t <= p.records[0].T {
		return p.records[0].V
	}
	if t >= p.EndTime() {
		return p.EndSpeed()
	}
	i := p.segmentIndexAt(t)
	a, b := p.records[i], p.records[i+1]
	if b.T == a.T {
		return b.V
	}
	frac := (t - a.T) / (b.T - a.T)
	return a.V + frac*(b.V-a.V)
}

// PositionAt integrates the velocity curve from 0 to t, returning the
// displacement reached. t is clamped to the profile's domain.
func (p Profile1D) PositionAt(t float32) float32 {
	if t <= p.records[0].T {
		return 0
	}
	var pos float32
	last := p.records[0]
	for i := 0; i < p.n-1; i++ {
		next := p.records[i+1]
		if t < next.T {
			frac := float32(0)
			if next.T != last.T {
				frac = (t - last.T) / (next.T - last.T)
			}
			vAtT := last.V + frac*(next.V-last.V)
			pos += (last.V + vAtT) * 0.5 * (t - last.T)
			return pos
		}
		pos += (last.V + next.V) * 0.5 * (next.T - last.T)
		last = next
	}
	return pos
}

// LimitToTime truncates the profile at tMax, inserting a new final record
// whose speed is linearly interpolated. It is a no-op if tMax is at or
// beyond the profile's current end time.
func (p *Profile1D) LimitToTime(tMax float32) {
	if tMax >= p.EndTime() {
		return
	}
	for i := 0; i < p.n-1; i++ {
		if p.records[i+1].T >= tMax {
			a, b := p.records[i], p.records[i+1]
			frac := float32(1)
			if b.T != a.T {
				frac = (tMax - a.T) / (b.T - a.T)
			}
			speed := a.V + frac*(b.V-a.V)
			p.records[i+1] = VT{V: speed, T: tMax}
			p.n = i + 2
			return
		}
	}
}

// TimeWithSlowDown returns the profile's effective duration once the
// trailing slow-down taper is applied: the taper always extends the
// profile by (0.2 - slowDownTime) seconds beyond EndTime, since the
// taper's acceleration factor only reaches 1 at (EndTime - slowDownTime)
// and decays to MinAccFactor at (EndTime + (SlowDownTime - slowDownTime)).
func (p Profile1D) TimeWithSlowDown(slowDownTime float32) float32 {
	if slowDownTime <= 0 {
		return p.EndTime()
	}
	return p.EndTime() + (SlowDownTime - slowDownTime)
}

// taperFactor returns the acceleration multiplier at time t for a profile
// whose un-tapered end time is endTime and whose slow-down window is
// slowDownTime seconds wide. It is 1 before the taper window begins, and
// decays linearly to MinAccFactor by endTime + (SlowDownTime-slowDownTime).
func taperFactor(t, endTime, slowDownTime float32) float32 {
	tailStart := endTime - slowDownTime
	if t <= tailStart {
		return 1
	}
	frac := (t - tailStart) / SlowDownTime
	if frac > 1 {
		frac = 1
	}
	return MinAccFactor + (1-MinAccFactor)*(1-frac)
}

// SpeedAtWithSlowDown evaluates the profile's speed at time t, applying
// the acceleration taper over the trailing slowDownTime window. Past the
// nominal end time, the (now reduced) acceleration of the final segment is
// integrated forward using the closed form of the linear taper.
func (p Profile1D) SpeedAtWithSlowDown(t float32, slowDownTime float32) float32 {
	if slowDownTime <= 0 {
		return p.SpeedAt(t)
	}
	endTime := p.EndTime()
	tailStart := endTime - slowDownTime
	if t <= tailStart {
		return p.SpeedAt(t)
	}
	v0 := p.SpeedAt(tailStart)
	finalAcc := p.finalSegmentAcceleration()
	return integrateTaperedSpeed(v0, finalAcc, t-tailStart, slowDownTime)
}

// PositionAtWithSlowDown is the position-domain counterpart of
// SpeedAtWithSlowDown.
func (p Profile1D) PositionAtWithSlowDown(t float32, slowDownTime float32) float32 {
	if slowDownTime <= 0 {
		return p.PositionAt(t)
	}
	endTime := p.EndTime()
	tailStart := endTime - slowDownTime
	if t <= tailStart {
		return p.PositionAt(t)
	}
	posAtTail := p.PositionAt(tailStart)
	v0 := p.SpeedAt(tailStart)
	finalAcc := p.finalSegmentAcceleration()
	return posAtTail + integrateTaperedPosition(v0, finalAcc, t-tailStart, slowDownTime)
}

// finalSegmentAcceleration returns the (signed) acceleration of the
// profile's last segment, which is the one the slow-down taper modulates.
func (p Profile1D) finalSegmentAcceleration() float32 {
	if p.n < 2 {
		return 0
	}
	a, b := p.records[p.n-2], p.records[p.n-1]
	dt := b.T - a.T
	if dt <= 0 {
		return 0
	}
	return (b.V - a.V) / dt
}

// integrateTaperedSpeed returns v0 + integral_0^dt of acc*taper(s) ds,
// where taper(s) = MinAccFactor + (1-MinAccFactor)*(1 - s/SlowDownTime)
// clamped to s <= SlowDownTime. This is the closed form of the linear
// acceleration taper described for the trailing slow-down window.
func integrateTaperedSpeed(v0, acc, dt, slowDownTime float32) float32 {
	s := dt
	if s > SlowDownTime {
		s = SlowDownTime
	}
	if s < 0 {
		s = 0
	}
	// integral of (MinAccFactor + (1-MinAccFactor)*(1 - s/T)) ds from 0 to s
	k := float32(1 - MinAccFactor)
	integral := MinAccFactor*s + k*(s-s*s/(2*SlowDownTime))
	v := v0 + acc*integral
	if dt > SlowDownTime {
		// beyond the taper window the acceleration has decayed to MinAccFactor
		v += acc * MinAccFactor * (dt - SlowDownTime)
	}
	return v
}

// integrateTaperedPosition returns the displacement from 0 to dt of the
// velocity curve whose derivative is the tapered acceleration above,
// starting from speed v0.
func integrateTaperedPosition(v0, acc, dt, slowDownTime float32) float32 {
	// integrate speed(s) ds from 0 to dt, where speed(s) = integrateTaperedSpeed(v0, acc, s, slowDownTime)
	// Use closed form by integrating the taper twice.
	s := dt
	if s > SlowDownTime {
		s = SlowDownTime
	}
	if s < 0 {
		s = 0
	}
	k := float32(1 - MinAccFactor)
	// position(s) = v0*s + acc * [ MinAccFactor*s^2/2 + k*(s^2/2 - s^3/(6*SlowDownTime)) ]
	pos := v0*s + acc*(MinAccFactor*s*s/2+k*(s*s/2-s*s*s/(6*SlowDownTime)))
	if dt > SlowDownTime {
		extra := dt - SlowDownTime
		vAtTaperEnd := integrateTaperedSpeed(v0, acc, SlowDownTime, slowDownTime)
		pos += vAtTaperEnd*extra + acc*MinAccFactor*extra*extra/2
	}
	return pos
}

// BoundingInterval returns the tight [min, max] position reached over the
// profile's full duration (including the slow-down tail, if any). Because
// position is piecewise-monotonic between velocity zero-crossings, the
// extrema occur either at the endpoints or at a zero-crossing of speed.
func (p Profile1D) BoundingInterval(slowDownTime float32) (min, max float32) {
	endTime := p.TimeWithSlowDown(slowDownTime)
	candidates := []float32{0, endTime}
	for i := 1; i < p.n; i++ {
		a, b := p.records[i-1], p.records[i]
		if (a.V < 0 && b.V > 0) || (a.V > 0 && b.V < 0) {
			// linear interpolation for the zero crossing of speed
			frac := -a.V / (b.V - a.V)
			candidates = append(candidates, a.T+frac*(b.T-a.T))
		}
	}
	min, max = 0, 0
	for i, t := range candidates {
		pos := p.PositionAtWithSlowDown(t, slowDownTime)
		if i == 0 || pos < min {
			min = pos
		}
		if i == 0 || pos > max {
			max = pos
		}
	}
	return min, max
}

// ErrInfeasible is returned by the construction algorithms when no valid
// profile satisfies the requested speeds/distance under the given
// acceleration and speed limit.
var ErrInfeasible = errors.New("speedprofile: no feasible profile for the requested parameters")
