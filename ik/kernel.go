package ik

import (
	"github.com/pkg/errors"

	"github.com/ikshell-dev/ikcore/spatialmath"
)

// Kernel is the pure function ABI spec.md SS6 describes: a (possibly nil)
// translation, a (possibly nil) rotation matrix, and a (possibly empty) free
// vector in, a list of raw solutions out. The kernel is an external
// collaborator -- generated per-robot, never implemented here.
type Kernel func(eetrans, eerot, free []float64) ([]RawSolution, error)

// ForwardKernel is the companion fk function pointer of the kernel ABI.
type ForwardKernel func(q []float64) (eetrans [3]float64, eerot [9]float64, err error)

// CallKernel is the kernel adapter of spec.md SS4.A: it translates a pose
// parameterization into the scalar arrays the analytical kernel expects,
// invokes the kernel, and collects the raw solutions. Failures here do not
// abort the enclosing Solve*; they return a reject action alongside the
// error so callers can continue the search.
func CallKernel(kernel Kernel, param spatialmath.Parameterization, free []float64) ([]RawSolution, Action, error) {
	eetrans, eerot, err := param.KernelArrays()
	if err != nil {
		return nil, Reject | RejectKinematics, errors.Wrap(ErrUnsupportedParameterization, err.Error())
	}

	solutions, err := kernel(eetrans, eerot, free)
	if err != nil {
		return nil, Reject | RejectKinematics, errors.Wrap(err, "kernel invocation failed")
	}
	return solutions, Success, nil
}
