package ik

import frame "github.com/ikshell-dev/ikcore/referenceframe"

// CollisionPair identifies the two links (or grabbed bodies) a collision
// report concerns.
type CollisionPair struct {
	LinkA string
	LinkB string
}

// CollisionVerdict is returned by a CollisionCallback to short-circuit (or
// not) a single candidate collision pair.
type CollisionVerdict int

const (
	// CollisionDefault lets the collision checker's normal report stand.
	CollisionDefault CollisionVerdict = iota
	// CollisionIgnore forces the pair to be treated as non-colliding.
	CollisionIgnore
)

// CollisionCallback is installed by the end-effector state guard to ignore
// child-link vs independent-link pairs during self-collision checks
// (spec.md SS4.D).
type CollisionCallback func(pair CollisionPair) CollisionVerdict

// CollisionChecker is the subset of the robot/collision runtime the IK core
// depends on. It is an external collaborator (spec.md SS1) -- the IK core
// never implements collision detection itself.
type CollisionChecker interface {
	// SelfCollision reports whether the robot, at its current active-DOF
	// configuration, is in self-collision. cb, if non-nil, is consulted for
	// every candidate colliding pair before it is counted.
	SelfCollision(cb CollisionCallback) (bool, error)
	// EnvironmentCollision reports whether the robot, at its current
	// active-DOF configuration, collides with the static environment.
	EnvironmentCollision() (bool, error)
	// EndEffectorCollision reports whether the end-effector cluster alone
	// collides with the static environment.
	EndEffectorCollision() (bool, error)
}

// ActiveDOFSaver is a scoped guard restoring a robot's active-DOF
// configuration on Close, mirroring the robot runtime's state-saver pattern
// (spec.md SS4.F, SS9 "scoped restoration").
type ActiveDOFSaver interface {
	Close() error
}

// Robot is the subset of the robot/collision runtime the IK core depends on:
// forward kinematics via SetInputs/Transform, link and grabbed-body
// enable state, and collision mode switches. All of it is an external
// collaborator; this module supplies only the interface contract and a
// fake implementation for tests (internal/faketest).
type Robot interface {
	CollisionChecker

	// SetActiveDOFs switches the robot into driving exactly armIndices,
	// returning a saver that restores the prior active-DOF configuration.
	SetActiveDOFs(armIndices []int) (ActiveDOFSaver, error)
	// SetInputs writes a full joint vector into the robot's active DOFs.
	SetInputs(values []frame.Input) error
	// Transform returns the current end-effector pose via forward
	// kinematics at the robot's current active-DOF configuration.
	Transform() (eetrans [3]float64, eerot [9]float64, err error)

	// JointWeight returns the per-joint weight used by the seed-distance
	// metric (spec.md SS4.H, "per-joint weight vector").
	JointWeight(armSlot int) float64
	// IsJointCircular reports whether the given armSlot is a continuously
	// rotating (circular) joint, which subtracts distances modulo 2*pi.
	IsJointCircular(armSlot int) bool

	// LinkEnabled/SetLinkEnabled and GrabbedBodyEnabled/SetGrabbedBodyEnabled
	// back the end-effector state guard's snapshot/restore contract.
	LinkEnabled(link string) bool
	SetLinkEnabled(link string, enabled bool) error
	GrabbedBodies() []string
	GrabbedBodyEnabled(body string) bool
	SetGrabbedBodyEnabled(body string, enabled bool) error

	// SetSelfCollisionMode and SetEnvironmentCollisionMode switch the
	// collision checker's active mode; see the end-effector guard (SS4.D)
	// for the side effects each transition carries.
	SetSelfCollisionMode() error
	SetEnvironmentCollisionMode() error
}
