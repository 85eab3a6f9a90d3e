// Package planner implements the per-robot orchestrator described for
// calculate_trajectory: it owns one robot's WorldInformation, its three
// samplers, its seeded PRNG, and the last trajectory it produced, and
// sequences the escape-sampler / direct-trajectory / standard-sampler /
// end-in-obstacle chain on every tick.
package planner

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/rcssl/trajectory/geo"
	"github.com/rcssl/trajectory/internal/precomp"
	"github.com/rcssl/trajectory/internal/prng"
	"github.com/rcssl/trajectory/logging"
	"github.com/rcssl/trajectory/obstacle"
	"github.com/rcssl/trajectory/sampler"
	"github.com/rcssl/trajectory/trajectory"
)

// Tunables. These are plain constants rather than environment-driven
// configuration: no part of this package reads the environment.
const (
	// ObstacleAvoidanceRadius is the clearance the direct trajectory and the
	// standard sampler's score function require.
	ObstacleAvoidanceRadius = sampler.ObstacleAvoidanceRadius
	// TargetProjectionClearance is the extra distance project_out leaves
	// when relocating a target that starts inside a static obstacle.
	TargetProjectionClearance = 0.03
	// DefaultSlowDownTime is the trailing window every trajectory this
	// planner builds tapers acceleration over.
	DefaultSlowDownTime = 0.1
	// MinResamplePoints is the minimum number of equispaced-in-time points
	// the final trajectory is resampled into.
	MinResamplePoints = 40
	// StandStillHorizon is the duration of the two-point fallback
	// trajectory returned when every strategy fails.
	StandStillHorizon = 0.1
)

// error kinds from the planner's error handling design: none of these are
// ever returned to the caller, they are only logged (PrecomputationMissing)
// or drive a fallback (the rest) - see the table in the spec this package
// implements.
const (
	kindSampleInfeasible      = "sample_infeasible"
	kindTrajectoryInObstacle  = "trajectory_in_obstacle"
	kindNoFeasibleTrajectory  = "no_feasible_trajectory"
	kindPrecomputationMissing = "precomputation_missing"
	kindInvalidInput          = "invalid_input"
)

// Planner orchestrates one robot's trajectory computation: it owns the
// robot's WorldInformation, its three samplers, a PRNG seeded once at
// construction (never reseeded per tick), and bookkeeping about the last
// trajectory it produced.
type Planner struct {
	robotID int
	logger  logging.Logger
	rng     *rand.Rand

	world         *obstacle.WorldInformation
	standard      *sampler.StandardSampler
	endInObstacle *sampler.EndInObstacleSampler
	escape        *sampler.EscapeSampler

	lastHighestPriority  int32
	lastTrajectory       []trajectory.TrajectoryPoint
	previousMidSpeed     geo.Vector
	havePreviousMidSpeed bool
}

// New returns a Planner for robotID, seeded deterministically from seed. If
// precomputationPath names a readable standardsampler.prec file it is
// loaded and wired into the standard sampler; a missing or malformed file
// is logged once (PrecomputationMissing) and the sampler falls back to
// live-only sampling, never an error returned to the caller.
func New(robotID int, seed uint64, logger logging.Logger, precomputationPath string) *Planner {
	named := logger.Named(fmt.Sprintf("planner.%d", robotID))
	p := &Planner{
		robotID:       robotID,
		logger:        named,
		rng:           rand.New(prng.NewXorshift128Plus(seed)),
		world:         obstacle.NewWorldInformation(),
		standard:      sampler.NewStandardSampler(),
		endInObstacle: sampler.NewEndInObstacleSampler(),
		escape:        sampler.NewEscapeSampler(),
	}

	if precomputationPath != "" {
		table, err := loadTable(precomputationPath)
		if err != nil {
			named.Warnf("%s: %v", kindPrecomputationMissing, err)
		} else {
			p.standard.SetTable(table)
		}
	}

	return p
}

func loadTable(path string) (precomp.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return precomp.Table{}, err
	}
	defer f.Close()
	return precomp.ReadTable(f)
}

// World returns the WorldInformation the caller populates (SetRadius,
// SetBoundary, the Add* obstacle builders) before each CalculateTrajectory
// call. WorldInformation must not be mutated while CalculateTrajectory is
// running.
func (p *Planner) World() *obstacle.WorldInformation {
	return p.world
}

// LastHighestObstaclePriority returns the highest-priority obstacle found
// intersecting the start position on the most recent CalculateTrajectory
// call that had to escape one, or zero otherwise - exposed so a higher
// layer can decide whether the breach is tolerable (e.g. defence-area
// rules).
func (p *Planner) LastHighestObstaclePriority() int32 {
	return p.lastHighestPriority
}

// LastTrajectory returns the most recently produced trajectory buffer, so
// that another planner may cite it as a FriendlyRobotTrajectory obstacle in
// the same or a following tick, per the fixed ascending-robot-id planning
// order.
func (p *Planner) LastTrajectory() []trajectory.TrajectoryPoint {
	return p.lastTrajectory
}

// CalculateTrajectory computes a feasible trajectory from (startPos,
// startSpeed) to (targetPos, targetSpeed) under the given maxSpeed and
// acceleration, falling through escape / direct / standard / end-in-obstacle
// strategies as described for the orchestrator. It always returns at least
// two points with point[0].Time == 0; on total failure it returns the robot
// standing still at startPos rather than propagating any error.
func (p *Planner) CalculateTrajectory(
	startPos, startSpeed, targetPos, targetSpeed geo.Vector,
	maxSpeed, acceleration float32,
) []trajectory.TrajectoryPoint {
	p.lastHighestPriority = 0

	if !validInput(startPos, startSpeed, targetPos, targetSpeed, maxSpeed, acceleration) {
		p.logger.Warnf("%s: rejecting planner input", kindInvalidInput)
		return p.finishStandStill(startPos)
	}

	const mode = trajectory.ExactEndSpeed
	start := trajectory.TrajectoryEndpoint{Position: startPos, Velocity: startSpeed}
	target := trajectory.TrajectoryEndpoint{Position: targetPos, Velocity: targetSpeed}

	if inside, priority := p.world.PointInObstacle(startPos, 0); inside {
		p.lastHighestPriority = priority
		input := p.samplerInput(start, target, maxSpeed, acceleration, mode)
		if p.escape.Compute(input) {
			return p.finish(p.escape.Result())
		}
		p.logger.Warnf("%s: escape sampler found no exit", kindNoFeasibleTrajectory)
		return p.finishStandStill(startPos)
	}

	if p.targetInsideStaticObstacle(target.Position) {
		target.Position = p.projectTargetOut(target.Position)
		if p.targetInsideStaticObstacle(target.Position) {
			input := p.samplerInput(start, target, maxSpeed, acceleration, mode)
			if p.endInObstacle.Compute(input) {
				return p.finish(p.endInObstacle.Result())
			}
			p.logger.Warnf("%s: end-in-obstacle sampler found no endpoint", kindNoFeasibleTrajectory)
			return p.finishStandStill(startPos)
		}
	}

	if direct, ok := trajectory.FindTrajectory(start, target, acceleration, maxSpeed, DefaultSlowDownTime, mode, false); ok {
		if p.directTrajectoryClear(direct) {
			return p.finish([]trajectory.Trajectory{direct})
		}
	} else {
		p.logger.Debugf("%s: direct alpha-time search did not converge", kindSampleInfeasible)
	}

	input := p.samplerInput(start, target, maxSpeed, acceleration, mode)
	if p.standard.Compute(input) {
		return p.finish(p.standard.Result())
	}
	p.logger.Debugf("%s: standard sampler found no feasible candidate", kindTrajectoryInObstacle)

	if p.endInObstacle.Compute(input) {
		return p.finish(p.endInObstacle.Result())
	}

	p.logger.Warnf("%s: all strategies exhausted", kindNoFeasibleTrajectory)
	return p.finishStandStill(startPos)
}

func (p *Planner) samplerInput(start, target trajectory.TrajectoryEndpoint, maxSpeed, acceleration float32, mode trajectory.EndSpeedMode) sampler.Input {
	return sampler.Input{
		Start:        start,
		Target:       target,
		Acceleration: acceleration,
		MaxSpeed:     maxSpeed,
		SlowDownTime: DefaultSlowDownTime,
		Mode:         mode,
		World:        p.world,
		Rng:          p.rng,
	}
}

// directTrajectoryClear reports whether the direct alpha-time trajectory
// may be returned as-is: either its closest approach to any obstacle over
// its whole path stays at or beyond ObstacleAvoidanceRadius, or it touches
// no obstacle at all and its endpoint specifically keeps that clearance
// (the latter matters most for moving obstacles that have already passed
// by the time the robot arrives).
func (p *Planner) directTrajectoryClear(tr trajectory.Trajectory) bool {
	worst, atEndpoint := p.world.MinObstacleDistance(tr, 0, ObstacleAvoidanceRadius)
	return worst >= ObstacleAvoidanceRadius || (worst > 0 && atEndpoint >= ObstacleAvoidanceRadius)
}

func (p *Planner) targetInsideStaticObstacle(pos geo.Vector) bool {
	for _, o := range p.world.Obstacles() {
		if !isStaticObstacle(o) {
			continue
		}
		if obstacle.Intersects(o, pos, 0) {
			return true
		}
	}
	return false
}

func (p *Planner) projectTargetOut(pos geo.Vector) geo.Vector {
	for _, o := range p.world.Obstacles() {
		if !isStaticObstacle(o) {
			continue
		}
		if obstacle.Intersects(o, pos, 0) {
			pos = o.ProjectOut(pos, TargetProjectionClearance)
		}
	}
	return pos
}

func isStaticObstacle(o obstacle.Obstacle) bool {
	switch o.(type) {
	case obstacle.Circle, obstacle.Rectangle, obstacle.Triangle, obstacle.Line:
		return true
	default:
		return false
	}
}

// finish resamples the winning leg(s) into the final output buffer and
// records it as this tick's LastTrajectory.
func (p *Planner) finish(legs []trajectory.Trajectory) []trajectory.TrajectoryPoint {
	points := concatTrajectories(legs, MinResamplePoints)
	p.lastTrajectory = points
	if len(legs) > 1 {
		p.previousMidSpeed = legs[0].EndSpeed()
		p.havePreviousMidSpeed = true
	} else {
		p.havePreviousMidSpeed = false
	}
	return points
}

func (p *Planner) finishStandStill(pos geo.Vector) []trajectory.TrajectoryPoint {
	points := []trajectory.TrajectoryPoint{
		{Position: pos, Velocity: geo.Zero, Time: 0},
		{Position: pos, Velocity: geo.Zero, Time: StandStillHorizon},
	}
	p.lastTrajectory = points
	p.havePreviousMidSpeed = false
	return points
}

func validInput(startPos, startSpeed, targetPos, targetSpeed geo.Vector, maxSpeed, acceleration float32) bool {
	if maxSpeed <= 0 || acceleration <= 0 {
		return false
	}
	return startPos.IsFinite() && startSpeed.IsFinite() && targetPos.IsFinite() && targetSpeed.IsFinite()
}

// concatTrajectories resamples one or two chained legs into n
// equispaced-in-time points covering their combined duration, the first
// exactly at t = 0.
func concatTrajectories(legs []trajectory.Trajectory, n int) []trajectory.TrajectoryPoint {
	if len(legs) == 0 {
		return nil
	}
	if n < 2 {
		n = 2
	}
	var totalDuration float32
	for _, leg := range legs {
		totalDuration += leg.DurationWithSlowDown()
	}
	if totalDuration <= 0 {
		totalDuration = 1e-3
	}

	points := make([]trajectory.TrajectoryPoint, n)
	for i := 0; i < n; i++ {
		t := totalDuration * float32(i) / float32(n-1)
		pos, vel := stateAtGlobalTime(legs, t)
		points[i] = trajectory.TrajectoryPoint{Position: pos, Velocity: vel, Time: t}
	}
	return points
}

func stateAtGlobalTime(legs []trajectory.Trajectory, target float32) (geo.Vector, geo.Vector) {
	var elapsed float32
	for i, leg := range legs {
		d := leg.DurationWithSlowDown()
		last := i == len(legs)-1
		if target <= elapsed+d || last {
			local := target - elapsed
			if local < 0 {
				local = 0
			}
			if local > d {
				local = d
			}
			return leg.StateAtTime(local)
		}
		elapsed += d
	}
	return geo.Zero, geo.Zero
}
