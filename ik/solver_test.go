package ik_test

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/ikshell-dev/ikcore/ik"
	"github.com/ikshell-dev/ikcore/internal/faketest"
	frame "github.com/ikshell-dev/ikcore/referenceframe"
	"github.com/ikshell-dev/ikcore/spatialmath"
)

// twoJointSolverFixture builds a trivial planar 2-joint "kernel" whose first
// joint is free and whose second joint is driven directly by target X, so
// SolveOne/SolveAll exercise the real sweep and validate pipeline end to end.
func twoJointSolverFixture(t *testing.T) (*ik.Solver, *faketest.Robot) {
	m, err := frame.Init(
		[]frame.Joint{
			{Name: "free", Kind: frame.Revolute, Limit: frame.Limit{Min: -1, Max: 1}, Weight: 1},
			{Name: "driven", Kind: frame.Revolute, Limit: frame.Limit{Min: -1, Max: 1}, Weight: 1},
		},
		[]int{0}, nil, nil, "", "translation3d",
	)
	test.That(t, err, test.ShouldBeNil)
	m.FreeIncrement[0] = 0.5

	robot := faketest.NewRobot(2)
	robot.Transformer = func(values []frame.Input) ([3]float64, [9]float64, error) {
		return [3]float64{values[1].Value, 0, 0}, spatialmath.NewZeroPose().RotationMatrix(), nil
	}

	kernel := func(eetrans, eerot, free []float64) ([]ik.RawSolution, error) {
		return []ik.RawSolution{{Values: []float64{free[0], eetrans[0]}}}, nil
	}

	solver := &ik.Solver{
		Manipulator: m,
		Kernel:      kernel,
		Robot:       robot,
		Logger:      golog.NewTestLogger(t),
	}
	return solver, robot
}

func TestSolveOneFindsAcceptedConfiguration(t *testing.T) {
	solver, _ := twoJointSolverFixture(t)
	pose := spatialmath.Parameterization{Flavor: spatialmath.Translation3D, Translation: r3.Vector{X: 0.5}}
	ok, values, _, err := solver.SolveOne(pose, nil, ik.Flags(0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, values[1].Value, test.ShouldAlmostEqual, 0.5)
}

func TestSolveOneRejectsWhenUnreachable(t *testing.T) {
	solver, _ := twoJointSolverFixture(t)
	// 3 rad does not wrap into [-1, 1]: reducing by 2*pi once undershoots
	// past -1, and re-adding 2*pi overshoots past 1.
	pose := spatialmath.Parameterization{Flavor: spatialmath.Translation3D, Translation: r3.Vector{X: 3}}
	ok, _, _, err := solver.SolveOne(pose, nil, ik.Flags(0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestSolveAllSwitchesToArmActiveDOFsOnce(t *testing.T) {
	solver, robot := twoJointSolverFixture(t)
	pose := spatialmath.Parameterization{Flavor: spatialmath.Translation3D, Translation: r3.Vector{X: 0.5}}
	_, err := solver.SolveAll(pose, ik.Flags(0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(robot.ActiveDOFHistory), test.ShouldEqual, 1)
	test.That(t, robot.ActiveDOFHistory[0], test.ShouldResemble, []int{0, 1})
}

func TestSolveOnePanicsOnReentrantCall(t *testing.T) {
	// A kernel that calls back into the same Solver is the simplest
	// deterministic way to exercise the single-entry guard (spec.md SS5):
	// the nested call must panic rather than silently corrupt shared state.
	var solver *ik.Solver
	solver = &ik.Solver{
		Manipulator: mustManipulator(t),
		Robot:       faketest.NewRobot(1),
		Logger:      golog.NewTestLogger(t),
		Kernel: func(eetrans, eerot, free []float64) ([]ik.RawSolution, error) {
			solver.SolveOne(spatialmath.Parameterization{Flavor: spatialmath.Translation3D}, nil, ik.Flags(0))
			return nil, nil
		},
	}

	didPanic := false
	func() {
		defer func() {
			if recover() != nil {
				didPanic = true
			}
		}()
		solver.SolveOne(spatialmath.Parameterization{Flavor: spatialmath.Translation3D}, nil, ik.Flags(0))
	}()
	test.That(t, didPanic, test.ShouldBeTrue)
}

func mustManipulator(t *testing.T) *frame.Manipulator {
	m, err := frame.Init(
		[]frame.Joint{{Name: "j0", Kind: frame.Revolute, Limit: frame.Limit{Min: -1, Max: 1}, Weight: 1}},
		nil, nil, nil, "", "translation3d",
	)
	test.That(t, err, test.ShouldBeNil)
	return m
}
