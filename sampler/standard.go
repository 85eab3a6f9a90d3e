package sampler

import (
	"github.com/rcssl/trajectory/internal/precomp"
	"github.com/rcssl/trajectory/obstacle"
	"github.com/rcssl/trajectory/trajectory"
)

// tableSamplesPerTick bounds how many of the precomputed table's bucket
// entries are tried (perturbed around) per Compute call, on top of the
// biased and uniform budgets.
const tableSamplesPerTick = 20

// standardBudget splits the ~120 samples a tick allows between the three
// strategies named for the standard sampler: one replay of the previous
// tick's best, a majority biased around the running best with Gaussian
// noise, and a minority drawn uniformly over the feasible cube.
const (
	standardBiasedSamples  = 100
	standardUniformSamples = 19
)

// standardParams is a single (T, alpha, v_mid) candidate: the second leg's
// duration and acceleration-split angle, and the scalar speed (along the
// start-target direction) the trajectory passes through at the leg
// boundary.
type standardParams struct {
	T, Alpha, VMid float32
}

// standardCandidate is a fully materialised two-leg trajectory plus its
// score, kept only long enough to pick the best of the tick's samples.
type standardCandidate struct {
	params standardParams
	leg1   trajectory.Trajectory
	leg2   trajectory.Trajectory
	score  float32
}

// StandardSampler searches over (T, alpha, v_mid) for a two-leg alpha-time
// trajectory from start to target, scoring each candidate by total time
// with a penalty for passing close to an obstacle.
type StandardSampler struct {
	lastBest *standardParams
	best     standardCandidate
	table    *precomp.Table
}

// NewStandardSampler returns an empty StandardSampler with no prior best
// and no precomputed seed table.
func NewStandardSampler() *StandardSampler {
	return &StandardSampler{}
}

// SetTable wires a standardsampler.prec table into the sampler: a subset of
// the bucket matching the current start-target distance is tried (as
// (T, alpha, v_mid) seeds normalised to the start-target axis) alongside
// the Gaussian-biased and uniform samples every tick.
func (s *StandardSampler) SetTable(t precomp.Table) {
	s.table = &t
}

func (s *StandardSampler) buildCandidate(input Input, p standardParams) (standardCandidate, bool) {
	dir := directionTo(input.Start.Position, input.Target.Position)
	vMidVec := dir.Scale(p.VMid)

	leg2, err := trajectory.CalculateTrajectory(
		vMidVec, input.Target.Velocity, p.T, p.Alpha,
		input.Acceleration, input.MaxSpeed, input.SlowDownTime, input.Mode,
	)
	if err != nil {
		return standardCandidate{}, false
	}

	midPointGlobal := input.Target.Position.Sub(leg2.EndPosition())
	leg1, ok := trajectory.FindTrajectory(
		input.Start,
		trajectory.TrajectoryEndpoint{Position: midPointGlobal, Velocity: vMidVec},
		input.Acceleration, input.MaxSpeed, input.SlowDownTime, input.Mode, false,
	)
	if !ok {
		return standardCandidate{}, false
	}
	leg1.StartPosition = input.Start.Position
	leg2.StartPosition = leg1.EndPosition()

	score := s.score(input, leg1, leg2)
	return standardCandidate{params: p, leg1: leg1, leg2: leg2, score: score}, true
}

// score implements `total_time * (1 + bonus)`, where bonus rises as the
// candidate's closest obstacle approach drops below ObstacleAvoidanceRadius,
// cancelled back to zero when the endpoint itself is clear.
func (s *StandardSampler) score(input Input, leg1, leg2 trajectory.Trajectory) float32 {
	totalTime := leg1.DurationWithSlowDown() + leg2.DurationWithSlowDown()
	if input.World == nil {
		return totalTime
	}

	minDist := obstacle.FarDistance
	sample := func(tr trajectory.Trajectory, t0 float32) {
		for _, pt := range tr.Sample(10) {
			d, _ := input.World.PointObstacleDistance(pt.Position, pt.Time+t0, ObstacleAvoidanceRadius)
			if d < minDist {
				minDist = d
			}
		}
	}
	sample(leg1, 0)
	sample(leg2, leg1.DurationWithSlowDown())

	endpointDist, _ := input.World.PointObstacleDistance(
		leg2.EndPosition(), leg1.DurationWithSlowDown()+leg2.DurationWithSlowDown(), ObstacleAvoidanceRadius,
	)
	if endpointDist >= ObstacleAvoidanceRadius || minDist >= ObstacleAvoidanceRadius {
		return totalTime
	}
	bonus := (ObstacleAvoidanceRadius - minDist) / ObstacleAvoidanceRadius
	if bonus < 0 {
		bonus = 0
	}
	return totalTime * (1 + bonus)
}

// Compute evaluates up to standardBiasedSamples+standardUniformSamples+1
// candidates, plus up to tableSamplesPerTick table seeds when a table is
// set, and keeps the lowest-scoring feasible one.
func (s *StandardSampler) Compute(input Input) bool {
	directDist := input.Start.Position.DistanceTo(input.Target.Position)
	seedT := directDist / maxf(input.Acceleration, 1e-6)
	seedAlpha := directionTo(input.Start.Position, input.Target.Position).Angle()
	seedVMid := (input.Start.Velocity.Length() + input.Target.Velocity.Length()) / 2

	var best *standardCandidate
	consider := func(p standardParams) {
		c, ok := s.buildCandidate(input, p)
		if !ok {
			return
		}
		if best == nil || c.score < best.score {
			best = &c
		}
	}

	if s.lastBest != nil {
		consider(*s.lastBest)
	}

	biasMean := standardParams{T: seedT, Alpha: seedAlpha, VMid: seedVMid}
	if s.lastBest != nil {
		biasMean = *s.lastBest
	}
	for i := 0; i < standardBiasedSamples; i++ {
		mean := biasMean
		if best != nil {
			mean = best.params
		}
		consider(standardParams{
			T:     maxf(gaussianAround(input.Rng, mean.T, seedT*0.2+0.05), 1e-3),
			Alpha: normalizeAngle(gaussianAround(input.Rng, mean.Alpha, 0.3)),
			VMid:  gaussianAround(input.Rng, mean.VMid, input.MaxSpeed*0.3),
		})
	}

	for i := 0; i < standardUniformSamples; i++ {
		consider(standardParams{
			T:     uniformRange(input.Rng, 0.1, maxf(seedT*2, 1)),
			Alpha: uniformRange(input.Rng, 0, 6.2831853),
			VMid:  uniformRange(input.Rng, -input.MaxSpeed, input.MaxSpeed),
		})
	}

	if s.table != nil {
		if bucket, ok := s.table.BucketFor(directDist); ok {
			axisAngle := seedAlpha
			for i, entry := range bucket.Samples {
				if i >= tableSamplesPerTick {
					break
				}
				consider(standardParams{
					T:     maxf(gaussianAround(input.Rng, entry.T, entry.T*0.1+0.02), 1e-3),
					Alpha: normalizeAngle(axisAngle + gaussianAround(input.Rng, entry.Alpha, 0.05)),
					VMid:  gaussianAround(input.Rng, entry.VMid, input.MaxSpeed*0.1),
				})
			}
		}
	}

	if best == nil {
		return false
	}
	s.lastBest = &best.params
	s.best = *best
	return true
}

// Result returns the winning candidate as its two legs, matching the
// two-part-trajectory description of the standard sampler.
func (s *StandardSampler) Result() []trajectory.Trajectory {
	return []trajectory.Trajectory{s.best.leg1, s.best.leg2}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
