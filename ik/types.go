// Package ik implements the outer solver shell that wraps a generated,
// per-robot analytical IK kernel: free-parameter sweeping, joint-angle
// unwrapping, collision-aware validation, and ranked candidate selection.
package ik

import frame "github.com/ikshell-dev/ikcore/referenceframe"

// Flags controls which validation stages SolveOne/SolveAll run (spec.md SS6).
type Flags uint8

const (
	// CheckEnvCollisions runs environment collision; otherwise it is skipped.
	CheckEnvCollisions Flags = 1 << iota
	// IgnoreSelfCollisions skips the self-collision stage entirely.
	IgnoreSelfCollisions
	// IgnoreJointLimits emits raw kernel outputs without unwrapping.
	IgnoreJointLimits
	// IgnoreCustomFilters skips the user filter chain.
	IgnoreCustomFilters
	// IgnoreEndEffectorCollisions treats the end-effector cluster and
	// grabbed bodies as non-colliding with the environment.
	IgnoreEndEffectorCollisions
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Action is the bit-combinable result of an inner validation stage
// (spec.md SS7).
type Action uint16

const (
	// Success marks a candidate for emission.
	Success Action = 0
	// Reject is a generic rejection; the search continues.
	Reject Action = 1 << iota
	// RejectKinematics means the kernel itself refused the query.
	RejectKinematics
	// RejectJointLimits means no in-range unwrapping exists.
	RejectJointLimits
	// RejectSelfCollision means the candidate is in self-collision.
	RejectSelfCollision
	// RejectEnvCollision means the candidate collides with the environment.
	RejectEnvCollision
	// RejectKinematicsPrecision means FK of the accepted solution did not
	// reproduce the target within ikThreshold.
	RejectKinematicsPrecision
	// QuitEndEffectorCollision aborts the entire Solve* call: the
	// end-effector cluster is in collision and no other branch can help.
	QuitEndEffectorCollision
	// Quit is a generic "stop the search" bit a user filter may set.
	Quit
)

// IsReject reports whether a is any rejection (but not Success and not a
// Quit bit).
func (a Action) IsReject() bool {
	return a != Success && a&Quit == 0
}

// IsQuit reports whether the Quit bit is set, meaning this action must
// propagate all the way up through the free-parameter composer and the
// orchestrator immediately.
func (a Action) IsQuit() bool {
	return a&Quit != 0
}

// RawSolution is one output vector of the analytical kernel: a
// fully-or-partially specified joint vector plus the kernel's internal
// branch-selection vector (spec.md SS3).
type RawSolution struct {
	Values          []float64
	FreeSlots       []int // indices into Values still unspecified by the kernel
	BranchIndices   []int // opaque per-branch selector, same length contract as spec.md invariant 3
}

// Candidate is a fully-specified joint vector plus the wrap-id identifying
// which 2*pi unwrapping was chosen on each big-range joint.
type Candidate struct {
	Values []frame.Input
	WrapID int
}

// FilterReturn is whatever payload a user filter attached to the candidate
// that was ultimately accepted.
type FilterReturn interface{}

// bestSoFar tracks the best candidate found in single-result mode.
type bestSoFar struct {
	have         bool
	candidate    Candidate
	distance     float64
	filterReturn FilterReturn
}

func (b *bestSoFar) consider(cand Candidate, dist float64, fr FilterReturn, hasSeed bool) bool {
	if !b.have || !hasSeed || dist < b.distance {
		b.have = true
		b.candidate = cand
		b.distance = dist
		b.filterReturn = fr
		return true
	}
	return false
}
