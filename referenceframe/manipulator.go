package referenceframe

import (
	"math"

	"github.com/pkg/errors"
)

// Joint describes one joint driven by a manipulator, in the order the
// analytical kernel expects.
type Joint struct {
	Name   string
	Kind   JointKind
	Limit  Limit
	Weight float64
}

// BigRange records a revolute, non-circular joint whose range exceeds one
// full turn. maxWraps bounds how many physically-equivalent representatives
// the canonicalizer may emit for this joint; cumProduct is the running
// product of maxWraps across all big-range joints seen so far, used to
// encode the wrap-id as a single integer (spec.md SS3).
type BigRange struct {
	// ArmSlot is the index of this joint within Manipulator.Joints.
	ArmSlot int
	// MaxWraps is 1 + floor((upper-lower)/2*pi).
	MaxWraps int
	// CumProduct is the multiplier this joint's chosen wrap index is scaled
	// by when composing the overall wrap-id.
	CumProduct int
}

// Manipulator is the immutable binding an IK solver is constructed around:
// the joints it drives, which of those are free, the end-effector cluster of
// links, and the precision/step-size defaults. It is built once via Init.
// Its exported fields stay writable afterward: ik.CommandChannel's
// SetIkThreshold, for one, overwrites IKThreshold on a live binding.
type Manipulator struct {
	Joints      []Joint
	FreeIndices []int
	// FreeIncrement is the per-free-joint scan step used by the free
	// parameter composer (default 0.1 rad revolute, 0.01 prismatic).
	FreeIncrement []float64

	// ChildLinks are links strictly downstream of the last driven joint --
	// the end-effector cluster.
	ChildLinks []string
	// IndependentLinks are links unaffected by the driven joints.
	IndependentLinks []string

	// KinematicsHash identifies the kinematic structure the bound kernel was
	// generated against. Init stores it as given; nothing in this module
	// compares it against a kernel or logs a mismatch.
	KinematicsHash string
	// ParameterizationType is the pose flavor this binding supports.
	ParameterizationType string
	// IKThreshold is the workspace-precision epsilon the validator checks
	// the accepted solution's FK against (default 1e-4).
	IKThreshold float64

	bigRanges []BigRange
}

// JointLimitEpsilon widens joint-range checks to absorb floating point error
// accumulated by the kernel and by wrap arithmetic.
const JointLimitEpsilon = 1e-6

const (
	defaultRevoluteIncrement  = 0.1
	defaultPrismaticIncrement = 0.01
	defaultIKThreshold        = 1e-4
)

// Init validates and derives the big-range records for a manipulator
// binding. It must be called once before the binding is used by an ik.Solver.
func Init(joints []Joint, freeIndices []int, childLinks, independentLinks []string,
	kinematicsHash, parameterizationType string,
) (*Manipulator, error) {
	m := &Manipulator{
		Joints:               joints,
		FreeIndices:          append([]int(nil), freeIndices...),
		ChildLinks:           append([]string(nil), childLinks...),
		IndependentLinks:     append([]string(nil), independentLinks...),
		KinematicsHash:       kinematicsHash,
		ParameterizationType: parameterizationType,
		IKThreshold:          defaultIKThreshold,
	}

	for _, fi := range m.FreeIndices {
		if fi < 0 || fi >= len(joints) {
			return nil, errors.Errorf("free index %d out of bounds for %d joints", fi, len(joints))
		}
	}

	m.FreeIncrement = make([]float64, len(m.FreeIndices))
	for i, fi := range m.FreeIndices {
		if joints[fi].Kind == Prismatic {
			m.FreeIncrement[i] = defaultPrismaticIncrement
		} else {
			m.FreeIncrement[i] = defaultRevoluteIncrement
		}
	}

	cumProduct := 1
	for i, j := range joints {
		if j.Kind == Circular {
			continue
		}
		rng := j.Limit.Range()
		if j.Kind == Revolute && rng > twoPi {
			maxWraps := 1 + int(math.Floor(rng/twoPi))
			m.bigRanges = append(m.bigRanges, BigRange{
				ArmSlot:    i,
				MaxWraps:   maxWraps,
				CumProduct: cumProduct,
			})
			cumProduct *= maxWraps
		}
	}

	return m, nil
}

// BigRanges returns the derived big-range joint records, in ascending
// ArmSlot order.
func (m *Manipulator) BigRanges() []BigRange {
	return m.bigRanges
}

// FreeParameterCount reports how many free joints this binding sweeps.
func (m *Manipulator) FreeParameterCount() int {
	return len(m.FreeIndices)
}

// FreeParameterIncrements exposes the per-free-joint scan step.
func (m *Manipulator) FreeParameterIncrements() []float64 {
	return append([]float64(nil), m.FreeIncrement...)
}

// JointMidpoints returns 0.5*(lower+upper) for each joint. Unused by the
// solver core itself; see the note on Limit.Mid.
func (m *Manipulator) JointMidpoints() []float64 {
	mids := make([]float64, len(m.Joints))
	for i, j := range m.Joints {
		mids[i] = j.Limit.Mid()
	}
	return mids
}

// NormalizedToPhysical maps a [0,1] free-parameter value onto the physical
// range of the i-th free joint (spec.md SS6, explicit free-parameter entry
// points).
func (m *Manipulator) NormalizedToPhysical(freeSlot int, norm float64) (float64, error) {
	if freeSlot < 0 || freeSlot >= len(m.FreeIndices) {
		return 0, errors.Errorf("free slot %d out of bounds for %d free joints", freeSlot, len(m.FreeIndices))
	}
	lim := m.Joints[m.FreeIndices[freeSlot]].Limit
	return lim.Min + norm*(lim.Max-lim.Min), nil
}
