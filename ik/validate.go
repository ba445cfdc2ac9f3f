package ik

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	frame "github.com/ikshell-dev/ikcore/referenceframe"
	"github.com/ikshell-dev/ikcore/spatialmath"
)

// UserFilter is a caller-supplied predicate invoked on a fully-configured
// robot pose; it may accept (Success), reject (any Reject* bit), or abort
// the entire call (Quit). ctx exposes the transient per-call state the
// GetSolutionIndices/GetRobotLinkStateRepeatCount text commands answer.
type UserFilter func(values []frame.Input, solutionIndex int, ctx *CallContext) (Action, FilterReturn)

// CallContext is the per-call transient state spec.md SS4.F and SS9 call for
// instead of solver-instance-level mutable fields. It is created once per
// Solve* search and never shared between calls; a Solver still rejects a
// nested or concurrent Solve* call with a panic (see Solver).
type CallContext struct {
	id                   string
	solutionIndices      []int
	sameStateRepeatCount int
	lastMaterializedKey  string
	inFilter             bool
}

// NewCallContext creates a fresh per-call context, tagged with a random
// correlation id (returned by ID). Nothing in this package logs the id.
func NewCallContext() *CallContext {
	return &CallContext{id: uuid.NewString()}
}

// ID returns the call-scoped correlation id.
func (c *CallContext) ID() string { return c.id }

// SolutionIndices returns the opaque solution-index vector for the candidate
// currently being validated by a user filter. Valid only while a filter is
// executing (spec.md SS6, GetSolutionIndices).
func (c *CallContext) SolutionIndices() ([]int, bool) {
	if !c.inFilter {
		return nil, false
	}
	return append([]int(nil), c.solutionIndices...), true
}

// SameStateRepeatCount returns how many times in a row a filter has been
// called with the same robot pose. Valid only while a filter is executing
// (spec.md SS6, GetRobotLinkStateRepeatCount).
func (c *CallContext) SameStateRepeatCount() (int, bool) {
	if !c.inFilter {
		return 0, false
	}
	return c.sameStateRepeatCount, true
}

// Validator implements spec.md SS4.E: given a raw kernel solution and an
// assembled free vector, it materializes, unwraps, filters, and checks
// collisions and workspace precision, in the normative stage order.
type Validator struct {
	Manipulator *frame.Manipulator
	Robot       Robot
	Guard       *EndEffectorGuard
	Flags       Flags
	Param       spatialmath.Parameterization
	Seed        []float64 // full arity, or nil/empty if unseeded
	Filters     []UserFilter

	// AllSolutions, if non-nil, accumulates every surviving candidate
	// (SolveAll mode). Best, if non-nil, tracks the single best candidate
	// by distance to Seed (SolveOne mode). Exactly one of the two is set.
	AllSolutions *[]Candidate
	Best         *bestSoFar
}

// Validate runs one raw solution through the full validator pipeline.
func (v *Validator) Validate(ctx *CallContext, raw RawSolution, free []float64) (Action, error) {
	materialized := materialize(raw, free)

	var candidates []Candidate
	if v.Flags.has(IgnoreJointLimits) {
		candidates = []Candidate{{Values: frame.FloatsToInputs(materialized), WrapID: 0}}
	} else {
		cands, action, err := Canonicalize(v.Manipulator, materialized)
		if err != nil {
			return Reject, err
		}
		if action.IsReject() {
			return action, nil
		}
		candidates = cands
	}

	hasSeed := len(v.Seed) == len(v.Manipulator.Joints)
	if hasSeed && v.Best != nil {
		candidates = v.pruneAgainstBest(candidates)
		if len(candidates) == 0 {
			return Reject, nil
		}
	}

	lastAction := Action(Reject)
	for _, cand := range candidates {
		action, filterReturn, err := v.validateCandidate(ctx, raw, cand, hasSeed)
		if err != nil {
			return Reject, err
		}
		if action.IsQuit() {
			return action, nil
		}
		if action == Success {
			v.record(cand, filterReturn, hasSeed)
		}
		lastAction = action
	}
	return lastAction, nil
}

func (v *Validator) validateCandidate(ctx *CallContext, raw RawSolution, cand Candidate, hasSeed bool) (Action, FilterReturn, error) {
	if !v.Flags.has(IgnoreCustomFilters) {
		action, fr, err := v.runFilters(ctx, raw, cand)
		if err != nil || action != Success {
			return action, fr, err
		}
	}

	if !v.Flags.has(IgnoreSelfCollisions) {
		cb, err := v.Guard.SetSelfCollisionState()
		if err != nil {
			return Reject, nil, err
		}
		if err := v.Robot.SetInputs(cand.Values); err != nil {
			return Reject, nil, err
		}
		collides, err := v.Robot.SelfCollision(cb)
		if err != nil {
			return Reject, nil, err
		}
		if collides {
			return Reject | RejectSelfCollision, nil, nil
		}
	}

	if v.Flags.has(CheckEnvCollisions) {
		if err := v.Guard.SetEnvironmentCollisionState(); err != nil {
			return Reject, nil, err
		}
		if err := v.Robot.SetInputs(cand.Values); err != nil {
			return Reject, nil, err
		}

		if v.poseFullyDetermined() && !v.Guard.EndEffectorCollisionChecked() {
			v.Guard.MarkEndEffectorCollisionChecked()
			eeCollides, err := v.Robot.EndEffectorCollision()
			if err != nil {
				return Reject, nil, err
			}
			if eeCollides {
				// No other kernel branch can help: every branch shares this
				// end-effector pose. Abandon the entire Solve* call.
				return Quit | QuitEndEffectorCollision, nil, nil
			}
		}

		envCollides, err := v.Robot.EnvironmentCollision()
		if err != nil {
			return Reject, nil, err
		}
		if envCollides {
			return Reject | RejectEnvCollision, nil, nil
		}
	}

	// Materialize unconditionally: the filter/self-collision/env stages above
	// only write cand.Values to the robot when their own flag enables them,
	// so with IgnoreCustomFilters|IgnoreSelfCollisions set and
	// CheckEnvCollisions unset, none of them runs -- without this, Transform
	// below would read whatever DOFs a prior call happened to leave behind.
	if err := v.Robot.SetInputs(cand.Values); err != nil {
		return Reject, nil, err
	}

	eetrans, eerot, err := v.Robot.Transform()
	if err != nil {
		return Reject, nil, err
	}
	fkPose := spatialmath.NewPose(toR3(eetrans), spatialmath.RotationMatrixToQuaternion(eerot))
	if v.Param.PoseDistance(fkPose) > v.Manipulator.IKThreshold {
		return Reject | RejectKinematicsPrecision, nil, nil
	}

	return Success, nil, nil
}

// runFilters writes the candidate into the robot's active DOFs -- so that
// any pose a filter asks the robot for is the forward-kinematics-derived,
// self-consistent one, not the original target (which floating point drift
// may have moved away from; spec.md SS4.E item 3) -- then invokes the
// filter chain in order.
func (v *Validator) runFilters(ctx *CallContext, raw RawSolution, cand Candidate) (Action, FilterReturn, error) {
	if err := v.Robot.SetInputs(cand.Values); err != nil {
		return Reject, nil, err
	}

	solutionIndices := make([]int, len(raw.BranchIndices))
	for i, base := range raw.BranchIndices {
		solutionIndices[i] = base | (cand.WrapID << 16)
	}

	key := materializedKey(cand.Values)
	if key == ctx.lastMaterializedKey {
		ctx.sameStateRepeatCount++
	} else {
		ctx.sameStateRepeatCount = 0
		ctx.lastMaterializedKey = key
	}
	ctx.lastMaterializedKey = key
	ctx.solutionIndices = solutionIndices
	ctx.inFilter = true
	defer func() { ctx.inFilter = false }()

	for _, filter := range v.Filters {
		action, fr := filter(cand.Values, encodeSolutionIndex(solutionIndices), ctx)
		if action != Success {
			return action, fr, nil
		}
	}
	return Success, nil, nil
}

func (v *Validator) pruneAgainstBest(candidates []Candidate) []Candidate {
	kept := candidates[:0]
	for _, cand := range candidates {
		dist := weightedSquaredDistance(v.Manipulator, v.Robot, frame.InputsToFloats(cand.Values), v.Seed)
		if !v.Best.have || dist < v.Best.distance {
			kept = append(kept, cand)
		}
	}
	return append([]Candidate(nil), kept...)
}

func (v *Validator) record(cand Candidate, fr FilterReturn, hasSeed bool) {
	if v.AllSolutions != nil {
		*v.AllSolutions = append(*v.AllSolutions, cand)
		return
	}
	dist := weightedSquaredDistance(v.Manipulator, v.Robot, frame.InputsToFloats(cand.Values), v.Seed)
	v.Best.consider(cand, dist, fr, hasSeed)
}

// poseFullyDetermined reports whether Param leaves no free dimension: either
// it is the normative Transform6D flavor, or its DOF count is at least the
// arm's DOF count.
func (v *Validator) poseFullyDetermined() bool {
	return v.Param.Flavor == spatialmath.Transform6D || v.Param.Flavor.DOF() >= len(v.Manipulator.Joints)
}

func materialize(raw RawSolution, free []float64) []float64 {
	out := append([]float64(nil), raw.Values...)
	for i, slot := range raw.FreeSlots {
		if i < len(free) {
			out[slot] = free[i]
		}
	}
	return out
}

func materializedKey(values []frame.Input) string {
	return fmt.Sprint(frame.InputsToFloats(values))
}

func encodeSolutionIndex(indices []int) int {
	if len(indices) == 0 {
		return 0
	}
	return indices[0]
}

// weightedSquaredDistance computes Sum(weight_j * (q_j - seed_j)^2), with
// circular joints subtracted modulo 2*pi (spec.md SS4.E).
func weightedSquaredDistance(m *frame.Manipulator, robot Robot, q, seed []float64) float64 {
	if len(seed) != len(q) {
		return 0
	}
	diffs := make([]float64, len(q))
	for i := range q {
		d := q[i] - seed[i]
		if robot != nil && robot.IsJointCircular(i) {
			d = wrapToPi(d)
		}
		diffs[i] = d * d * robot.JointWeight(i)
	}
	return floats.Sum(diffs)
}

func wrapToPi(d float64) float64 {
	for d > 3.141592653589793 {
		d -= 2 * 3.141592653589793
	}
	for d < -3.141592653589793 {
		d += 2 * 3.141592653589793
	}
	return d
}

func toR3(v [3]float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
