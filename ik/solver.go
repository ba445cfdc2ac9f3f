package ik

import (
	"sort"
	"sync/atomic"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	frame "github.com/ikshell-dev/ikcore/referenceframe"
	"github.com/ikshell-dev/ikcore/spatialmath"
)

// Solver is the public entry point of spec.md SS4.F: it wraps a Manipulator
// binding, a Kernel, and a Robot collaborator (whose Transform supplies
// forward kinematics), exposing the four Solve* signatures of spec.md SS6.
//
// A single Solver is not safe for concurrent Solve* calls -- they would drive
// the same Robot's active DOFs and link state (spec.md SS5). entered guards
// against that with a
// panic, the language-level equivalent of the original's documented
// single-entry assumption.
type Solver struct {
	Manipulator *frame.Manipulator
	Kernel      Kernel
	Robot       Robot
	Logger      golog.Logger
	Filters     []UserFilter

	entered atomic.Bool
}

func (s *Solver) enter() func() {
	if !s.entered.CompareAndSwap(false, true) {
		panic("ik: concurrent Solve* call on the same Solver instance")
	}
	return func() { s.entered.Store(false) }
}

// SolveOne returns the single candidate configuration closest to seed that
// satisfies flags, or ok=false if none does.
func (s *Solver) SolveOne(pose spatialmath.Parameterization, seed []frame.Input, flags Flags) (bool, []frame.Input, FilterReturn, error) {
	return s.solveOne(pose, seed, nil, flags)
}

// SolveOneWithFree is SolveOne with explicit free-parameter values, each
// normalized to [0,1] against its joint's range (spec.md SS6).
func (s *Solver) SolveOneWithFree(pose spatialmath.Parameterization, seed []frame.Input, freeNorm []float64, flags Flags) (bool, []frame.Input, FilterReturn, error) {
	return s.solveOne(pose, seed, freeNorm, flags)
}

// SolveAll returns every accepted configuration, sorted farthest-from-limits
// first (spec.md SS4.F).
func (s *Solver) SolveAll(pose spatialmath.Parameterization, flags Flags) ([][]frame.Input, error) {
	return s.solveAll(pose, nil, flags)
}

// SolveAllWithFree is SolveAll with explicit free-parameter values.
func (s *Solver) SolveAllWithFree(pose spatialmath.Parameterization, freeNorm []float64, flags Flags) ([][]frame.Input, error) {
	return s.solveAll(pose, freeNorm, flags)
}

func (s *Solver) solveOne(pose spatialmath.Parameterization, seed []frame.Input, freeNorm []float64, flags Flags) (bool, []frame.Input, FilterReturn, error) {
	defer s.enter()()

	if err := s.checkParameterization(pose); err != nil {
		s.Logger.Warnf("SolveOne: parameterization mismatch: %v", err)
		return false, nil, nil, nil
	}

	saver, guard, err := s.beginCall(flags)
	if err != nil {
		return false, nil, nil, err
	}
	defer guard.Close()
	defer saver.Close()

	seedFloats := frame.InputsToFloats(seed)
	best := &bestSoFar{}
	validator := &Validator{
		Manipulator: s.Manipulator,
		Robot:       s.Robot,
		Guard:       guard,
		Flags:       flags,
		Param:       pose,
		Seed:        seedFloats,
		Filters:     s.Filters,
		Best:        best,
	}

	stopOnFirstSuccess := len(seedFloats) != len(s.Manipulator.Joints)

	action, err := s.search(validator, seedFloats, freeNorm, stopOnFirstSuccess)
	if err != nil {
		return false, nil, nil, err
	}
	if action.IsQuit() {
		s.Logger.Infof("SolveOne: aborted, action=%v", action)
	}
	if !best.have {
		return false, nil, nil, nil
	}
	return true, best.candidate.Values, best.filterReturn, nil
}

func (s *Solver) solveAll(pose spatialmath.Parameterization, freeNorm []float64, flags Flags) ([][]frame.Input, error) {
	defer s.enter()()

	if err := s.checkParameterization(pose); err != nil {
		s.Logger.Warnf("SolveAll: parameterization mismatch: %v", err)
		return nil, nil
	}

	saver, guard, err := s.beginCall(flags)
	if err != nil {
		return nil, err
	}
	defer guard.Close()
	defer saver.Close()

	var all []Candidate
	validator := &Validator{
		Manipulator:  s.Manipulator,
		Robot:        s.Robot,
		Guard:        guard,
		Flags:        flags,
		Param:        pose,
		Filters:      s.Filters,
		AllSolutions: &all,
	}

	if _, err := s.search(validator, nil, freeNorm, false); err != nil {
		return nil, err
	}

	s.sortByDistanceFromLimits(all)

	out := make([][]frame.Input, len(all))
	for i, c := range all {
		out[i] = c.Values
	}
	return out, nil
}

func (s *Solver) beginCall(flags Flags) (ActiveDOFSaver, *EndEffectorGuard, error) {
	armIndices := make([]int, len(s.Manipulator.Joints))
	for i := range s.Manipulator.Joints {
		armIndices[i] = i
	}
	saver, err := s.Robot.SetActiveDOFs(armIndices)
	if err != nil {
		return nil, nil, err
	}
	guard := NewEndEffectorGuard(s.Robot, s.Manipulator.ChildLinks, s.Manipulator.IndependentLinks, flags)
	return saver, guard, nil
}

// search either sweeps the manipulator's free joints from seed (freeNorm
// nil) or maps the caller-supplied normalized free values onto physical
// values and validates directly once (spec.md SS4.F).
func (s *Solver) search(validator *Validator, seed []float64, freeNorm []float64, stopOnFirstSuccess bool) (Action, error) {
	ctx := NewCallContext()

	if freeNorm != nil {
		if len(freeNorm) != len(s.Manipulator.FreeIndices) {
			return Reject, newError(InvalidArguments, "explicit free parameter arity mismatch")
		}
		free := make([]float64, len(freeNorm))
		for i, n := range freeNorm {
			v, err := s.Manipulator.NormalizedToPhysical(i, n)
			if err != nil {
				return Reject, err
			}
			free[i] = v
		}
		return s.validateLeaf(ctx, validator, free, stopOnFirstSuccess)
	}

	return SweepFreeParameters(s.Manipulator, seed, func(free []float64) (Action, error) {
		return s.validateLeaf(ctx, validator, free, stopOnFirstSuccess)
	})
}

func (s *Solver) validateLeaf(ctx *CallContext, validator *Validator, free []float64, stopOnFirstSuccess bool) (Action, error) {
	raws, action, err := CallKernel(s.Kernel, validator.Param, free)
	if err != nil {
		s.Logger.Debugf("kernel rejected free-parameter assembly: %v", err)
		return action, nil
	}

	for _, raw := range raws {
		result, err := validator.Validate(ctx, raw, free)
		if err != nil {
			return Reject, err
		}
		if result.IsQuit() {
			return result, nil
		}
		if result == Success && stopOnFirstSuccess {
			return Success, nil
		}
	}
	return Reject, nil
}

func (s *Solver) checkParameterization(pose spatialmath.Parameterization) error {
	// The manipulator binding names a single supported flavor by string tag;
	// here the bound type is carried directly on the Parameterization, so
	// mismatch detection is a structural no-op unless the binding records a
	// narrower tag than "any".
	if s.Manipulator.ParameterizationType == "" {
		return nil
	}
	if flavorName(pose.Flavor) != s.Manipulator.ParameterizationType {
		return errors.Errorf("parameterization %s not supported by this binding (wants %s)",
			flavorName(pose.Flavor), s.Manipulator.ParameterizationType)
	}
	return nil
}

// sortByDistanceFromLimits implements spec.md SS4.F's SolveAll ordering:
// score = -min(distanceToLower, distanceToUpper) per joint, weighted, summed,
// stable-sorted ascending so farthest-from-limits candidates come first.
func (s *Solver) sortByDistanceFromLimits(all []Candidate) {
	scores := make([]float64, len(all))
	for i, c := range all {
		scores[i] = -s.distanceFromLimitsScore(c.Values)
	}
	sort.SliceStable(all, func(i, j int) bool { return scores[i] < scores[j] })
}

func (s *Solver) distanceFromLimitsScore(values []frame.Input) float64 {
	best := 0.0
	for i, j := range s.Manipulator.Joints {
		v := values[i].Value
		toLower := (v - j.Limit.Min) * (v - j.Limit.Min) * j.Weight
		toUpper := (j.Limit.Max - v) * (j.Limit.Max - v) * j.Weight
		closest := toLower
		if toUpper < closest {
			closest = toUpper
		}
		best += closest
	}
	return best
}

func flavorName(f spatialmath.Flavor) string {
	names := map[spatialmath.Flavor]string{
		spatialmath.Transform6D:                "transform6d",
		spatialmath.Rotation3D:                 "rotation3d",
		spatialmath.Translation3D:              "translation3d",
		spatialmath.Direction3D:                "direction3d",
		spatialmath.Ray4D:                      "ray4d",
		spatialmath.LookAt3D:                   "lookat3d",
		spatialmath.TranslationDirection5D:     "translationdirection5d",
		spatialmath.TranslationXY2D:            "translationxy2d",
		spatialmath.TranslationXYOrientation3D: "translationxyorientation3d",
		spatialmath.TranslationLocalGlobal6D:   "translationlocalglobal6d",
		spatialmath.TranslationAxisAngleX4D:    "translationaxisanglex4d",
		spatialmath.TranslationAxisAngleY4D:    "translationaxisangley4d",
		spatialmath.TranslationAxisAngleZ4D:    "translationaxisanglez4d",
	}
	if name, ok := names[f]; ok {
		return name
	}
	return "unknown"
}
