// Package sampler implements the three randomized fallback strategies the
// planner falls through to when the direct alpha-time trajectory to the
// target is infeasible or blocked: the standard sampler (reach the target
// around obstacles), the end-in-obstacle sampler (settle for a reachable
// point near an unreachable target), and the escape sampler (drive out of
// an obstacle the robot already started inside).
package sampler

import (
	"math"
	"math/rand"

	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/obstacle"
	"github.com/rcssl/trajectory/trajectory"
)

// ObstacleAvoidanceRadius is the clearance the standard sampler's score
// function rewards candidates for keeping.
const ObstacleAvoidanceRadius = 0.1

// Input bundles the parameters shared by all three samplers for one
// invocation.
type Input struct {
	Start, Target trajectory.TrajectoryEndpoint
	Acceleration  float32
	MaxSpeed      float32
	SlowDownTime  float32
	Mode          trajectory.EndSpeedMode
	World         *obstacle.WorldInformation
	Rng           *rand.Rand
}

// Sampler is the interface the three concrete samplers implement, matching
// the uniform compute/result shape described for the sampler family.
type Sampler interface {
	Compute(input Input) bool
	Result() []trajectory.Trajectory
}

func directionTo(from, to geo.Vector) geo.Vector {
	d := to.Sub(from)
	if d.IsZero() {
		return geo.New(1, 0)
	}
	return d.Normalized()
}

func uniformRange(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

func gaussianAround(rng *rand.Rand, mean, sigma float32) float32 {
	return mean + float32(rng.NormFloat64())*sigma
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
