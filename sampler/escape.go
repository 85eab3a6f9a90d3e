package sampler

import (
	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/obstacle"
	"github.com/rcssl/trajectory/trajectory"
)

// escapeCandidates is how many random (T, alpha) pairs each stage of the
// escape sampler evaluates, on top of the previous tick's best.
const escapeCandidates = 25

// escapeParams is a single candidate's free parameters: duration and
// acceleration-split angle of a trajectory driven to a standstill.
type escapeParams struct {
	T, Alpha float32
}

// escapeScore is the lexicographic (priority, time-in-obstacle) key a
// candidate is ranked by; lower is better on both fields, with exitTime as
// the final tie-break.
type escapeScore struct {
	maxPriority    int32
	timeAtPriority float32
	exitTime       float32
}

func (a escapeScore) less(b escapeScore) bool {
	if a.maxPriority != b.maxPriority {
		return a.maxPriority < b.maxPriority
	}
	if a.timeAtPriority != b.timeAtPriority {
		return a.timeAtPriority < b.timeAtPriority
	}
	return a.exitTime < b.exitTime
}

// EscapeSampler drives the robot out of an obstacle it already started
// inside, independent of the original target. It evaluates the true start
// velocity and a braked standstill alternative, preferring whichever has
// the less adversarial outcome.
type EscapeSampler struct {
	lastBestWithSpeed   *escapeParams
	lastBestStandstill  *escapeParams

	best     trajectory.Trajectory
	haveBest bool
}

// NewEscapeSampler returns an empty EscapeSampler.
func NewEscapeSampler() *EscapeSampler {
	return &EscapeSampler{}
}

func (s *EscapeSampler) evaluate(input Input, v0 geo.Vector, p escapeParams) (trajectory.Trajectory, escapeScore, bool) {
	tr, err := trajectory.CalculateTrajectory(
		v0, geo.Zero, p.T, p.Alpha, input.Acceleration, input.MaxSpeed, input.SlowDownTime, input.Mode,
	)
	if err != nil {
		return trajectory.Trajectory{}, escapeScore{}, false
	}
	tr.StartPosition = input.Start.Position

	duration := tr.DurationWithSlowDown()
	score := escapeScore{exitTime: duration}
	if input.World == nil {
		return tr, score, true
	}

	const samples = 40
	step := duration / samples
	timePerPriority := map[int32]float32{}
	exitTime := float32(0)
	anyHit := false
	for _, pt := range tr.Sample(samples) {
		hit := false
		for _, o := range input.World.Obstacles() {
			if obstacle.Intersects(o, pt.Position, pt.Time) {
				timePerPriority[o.Priority()] += step
				if o.Priority() > score.maxPriority {
					score.maxPriority = o.Priority()
				}
				hit = true
			}
		}
		if hit {
			exitTime = pt.Time
			anyHit = true
		}
	}
	if anyHit {
		score.exitTime = exitTime
	} else {
		score.exitTime = 0
	}
	score.timeAtPriority = timePerPriority[score.maxPriority]
	return tr, score, true
}

func (s *EscapeSampler) search(input Input, v0 geo.Vector, lastBest **escapeParams) (trajectory.Trajectory, escapeScore, bool) {
	var best trajectory.Trajectory
	var bestScore escapeScore
	var bestParams escapeParams
	found := false

	consider := func(p escapeParams) {
		tr, score, ok := s.evaluate(input, v0, p)
		if !ok {
			return
		}
		if !found || score.less(bestScore) {
			best, bestScore, bestParams, found = tr, score, p, true
		}
	}

	if *lastBest != nil {
		consider(**lastBest)
	}
	for i := 0; i < escapeCandidates; i++ {
		consider(escapeParams{
			T:     uniformRange(input.Rng, 0.1, 2.0),
			Alpha: uniformRange(input.Rng, 0, 6.2831853),
		})
	}

	if found {
		*lastBest = &bestParams
		best.LimitToTime(maxf(bestScore.exitTime, 0.1))
	}
	return best, bestScore, found
}

// planWithStartSpeed runs the escape search using the robot's actual
// current velocity.
func (s *EscapeSampler) planWithStartSpeed(input Input) (trajectory.Trajectory, escapeScore, bool) {
	return s.search(input, input.Start.Velocity, &s.lastBestWithSpeed)
}

// planFromStandstill runs the "brake then escape" alternative, as if the
// robot had already come to a stop before starting the escape manoeuvre.
func (s *EscapeSampler) planFromStandstill(input Input) (trajectory.Trajectory, escapeScore, bool) {
	return s.search(input, geo.Zero, &s.lastBestStandstill)
}

// initialAccelerationOpposes reports whether tr's initial acceleration
// points against v0, the "brake-first is safer" tell named for preferring
// the standstill plan over the true-speed plan.
func initialAccelerationOpposes(tr trajectory.Trajectory, v0 geo.Vector) bool {
	const eps = 0.01
	_, vEps := tr.StateAtTime(eps)
	delta := vEps.Sub(v0)
	return delta.Dot(v0) < 0
}

// Compute runs both escape stages and keeps the preferred result: the
// true-speed plan unless its initial acceleration opposes the current
// velocity, in which case the standstill plan is used.
func (s *EscapeSampler) Compute(input Input) bool {
	withSpeed, _, okSpeed := s.planWithStartSpeed(input)
	standstill, _, okStill := s.planFromStandstill(input)

	switch {
	case okSpeed && !initialAccelerationOpposes(withSpeed, input.Start.Velocity):
		s.best, s.haveBest = withSpeed, true
	case okStill:
		s.best, s.haveBest = standstill, true
	case okSpeed:
		s.best, s.haveBest = withSpeed, true
	default:
		s.haveBest = false
	}
	return s.haveBest
}

// Result returns the chosen escape trajectory, if any.
func (s *EscapeSampler) Result() []trajectory.Trajectory {
	if !s.haveBest {
		return nil
	}
	return []trajectory.Trajectory{s.best}
}
