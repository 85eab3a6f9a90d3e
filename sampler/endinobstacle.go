package sampler

import (
	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/trajectory"
)

// endInObstacleIterations bounds the endpoint search.
const endInObstacleIterations = 60

// staticClearance is the minimum distance a candidate endpoint trajectory
// must keep from every obstacle to be accepted.
const staticClearance = 0.03

// midSearchResetAt is the iteration at which, if nothing feasible has been
// found yet, the radius of the uniform candidates around the target is
// tripled, widening the search rather than continuing to sample close to an
// infeasible original target.
const midSearchResetAt = 30

// EndInObstacleSampler looks for the reachable point closest to an
// unreachable target, used when the direct trajectory and the standard
// sampler both fail because the target itself sits inside (or past)
// obstacles.
type EndInObstacleSampler struct {
	lastBestEndpoint *geo.Vector
	best             trajectory.Trajectory
	haveBest         bool
}

// NewEndInObstacleSampler returns an empty EndInObstacleSampler.
func NewEndInObstacleSampler() *EndInObstacleSampler {
	return &EndInObstacleSampler{}
}

func (s *EndInObstacleSampler) brakingPosition(input Input) geo.Vector {
	speed := input.Start.Velocity.Length()
	if speed < 1e-6 || input.Acceleration <= 0 {
		return input.Start.Position
	}
	dist := speed * speed / (2 * input.Acceleration)
	return input.Start.Position.Add(input.Start.Velocity.Normalized().Scale(dist))
}

func (s *EndInObstacleSampler) candidateEndpoint(input Input, iteration int, searchRadius float32) geo.Vector {
	switch iteration % 4 {
	case 0:
		return input.Target.Position
	case 1:
		if s.lastBestEndpoint != nil {
			return *s.lastBestEndpoint
		}
		return input.Target.Position
	case 2:
		return s.brakingPosition(input)
	default:
		if input.World != nil {
			return geo.New(
				uniformRange(input.Rng, -searchRadius, searchRadius),
				uniformRange(input.Rng, -searchRadius, searchRadius),
			).Add(input.Target.Position)
		}
		return input.Target.Position
	}
}

// Compute runs up to endInObstacleIterations candidate endpoints, accepting
// the closest-to-target one whose alpha-time trajectory stays clear of
// every obstacle by at least staticClearance.
func (s *EndInObstacleSampler) Compute(input Input) bool {
	searchRadius := float32(1.0)
	bestDist := float32(1e9)
	found := false

	for i := 0; i < endInObstacleIterations; i++ {
		if i == midSearchResetAt && !found {
			searchRadius *= 3
		}
		endpoint := s.candidateEndpoint(input, i, searchRadius)
		tr, ok := trajectory.FindTrajectory(
			input.Start,
			trajectory.TrajectoryEndpoint{Position: endpoint, Velocity: geo.Zero},
			input.Acceleration, input.MaxSpeed, input.SlowDownTime, input.Mode, false,
		)
		if !ok {
			continue
		}
		tr.StartPosition = input.Start.Position

		if input.World != nil {
			worst, _ := input.World.MinObstacleDistance(tr, 0, staticClearance*4)
			if worst < staticClearance {
				continue
			}
		}

		dist := endpoint.DistanceTo(input.Target.Position)
		if dist < bestDist {
			bestDist = dist
			s.best = tr
			found = true
			ep := tr.EndPosition()
			s.lastBestEndpoint = &ep
		}
	}

	s.haveBest = found
	return found
}

// Result returns the best feasible endpoint trajectory found, if any.
func (s *EndInObstacleSampler) Result() []trajectory.Trajectory {
	if !s.haveBest {
		return nil
	}
	return []trajectory.Trajectory{s.best}
}
