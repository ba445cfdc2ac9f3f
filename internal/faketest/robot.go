// Package faketest implements a fake ik.Robot for use by the ik package
// tests. It is read-and-set only, mirroring the
// style of a fake arm component: no real forward kinematics or collision
// geometry, just enough state to drive the solver shell's control flow.
package faketest

import (
	"github.com/ikshell-dev/ikcore/collision"
	"github.com/ikshell-dev/ikcore/ik"
	frame "github.com/ikshell-dev/ikcore/referenceframe"
	"github.com/ikshell-dev/ikcore/spatialmath"
)

// TransformFunc computes forward kinematics for the robot's current active
// DOFs. Tests supply one matching whatever kernel/manipulator they are
// exercising; a nil TransformFunc always returns the zero pose.
type TransformFunc func(values []frame.Input) (eetrans [3]float64, eerot [9]float64, err error)

// Robot is a fake ik.Robot: it tracks active DOFs, link/grabbed-body enable
// state, and collision mode, and lets a test script choose which pairs
// collide.
type Robot struct {
	Transformer TransformFunc

	current []frame.Input
	weights []float64
	circ    []bool

	linkEnabled map[string]bool
	bodyEnabled map[string]bool
	bodies      []string

	// SelfCollidingPairs and EnvCollides drive the two collision hooks;
	// EndEffectorCollides drives the end-effector-only hook.
	SelfCollidingPairs  []ik.CollisionPair
	EnvCollides         bool
	EndEffectorCollides bool

	mode string // "self" or "env", set by SetSelfCollisionMode/SetEnvironmentCollisionMode

	ActiveDOFHistory [][]int
	SetInputsCount   int
}

// NewRobot constructs a fake robot with numJoints DOFs, uniform weight 1, and
// no circular joints.
func NewRobot(numJoints int) *Robot {
	weights := make([]float64, numJoints)
	circ := make([]bool, numJoints)
	for i := range weights {
		weights[i] = 1
	}
	return &Robot{
		weights:     weights,
		circ:        circ,
		linkEnabled: make(map[string]bool),
		bodyEnabled: make(map[string]bool),
	}
}

// SetJointWeight overrides the seed-distance weight for one joint.
func (r *Robot) SetJointWeight(armSlot int, weight float64) {
	r.weights[armSlot] = weight
}

// SetJointCircular marks one joint as continuously rotating.
func (r *Robot) SetJointCircular(armSlot int, circular bool) {
	r.circ[armSlot] = circular
}

// AddSelfCollidingPair registers a link pair that SelfCollision reports as
// colliding, unless a CollisionCallback ignores it.
func (r *Robot) AddSelfCollidingPair(a, b string) {
	r.SelfCollidingPairs = append(r.SelfCollidingPairs, ik.CollisionPair{LinkA: a, LinkB: b})
}

// RegisterLink seeds a child/independent link's initial enable state.
func (r *Robot) RegisterLink(link string, enabled bool) {
	r.linkEnabled[link] = enabled
}

// RegisterGrabbedBody seeds a grabbed body's initial enable state.
func (r *Robot) RegisterGrabbedBody(body string, enabled bool) {
	if _, ok := r.bodyEnabled[body]; !ok {
		r.bodies = append(r.bodies, body)
	}
	r.bodyEnabled[body] = enabled
}

// -- ik.CollisionChecker --

func (r *Robot) SelfCollision(cb ik.CollisionCallback) (bool, error) {
	entities := make([]string, 0, len(r.SelfCollidingPairs)*2)
	seen := make(map[string]bool)
	want := make(map[collision.Pair]bool, len(r.SelfCollidingPairs))
	for _, p := range r.SelfCollidingPairs {
		want[normalizePair(p.LinkA, p.LinkB)] = true
		for _, link := range []string{p.LinkA, p.LinkB} {
			if !seen[link] {
				seen[link] = true
				entities = append(entities, link)
			}
		}
	}

	graph, err := collision.NewGraph(entities, func(a, b string) (bool, error) {
		return want[normalizePair(a, b)], nil
	})
	if err != nil {
		return false, err
	}

	pairs, err := graph.Collisions()
	if err != nil {
		return false, err
	}
	for _, p := range pairs {
		verdict := ik.CollisionDefault
		if cb != nil {
			verdict = cb(ik.CollisionPair{LinkA: p.A, LinkB: p.B})
		}
		if verdict != ik.CollisionIgnore {
			return true, nil
		}
	}
	return false, nil
}

func normalizePair(a, b string) collision.Pair {
	if a <= b {
		return collision.Pair{A: a, B: b}
	}
	return collision.Pair{A: b, B: a}
}

func (r *Robot) EnvironmentCollision() (bool, error) {
	return r.EnvCollides, nil
}

func (r *Robot) EndEffectorCollision() (bool, error) {
	return r.EndEffectorCollides, nil
}

// -- ik.Robot --

func (r *Robot) SetActiveDOFs(armIndices []int) (ik.ActiveDOFSaver, error) {
	r.ActiveDOFHistory = append(r.ActiveDOFHistory, append([]int(nil), armIndices...))
	return closerFunc(func() error { return nil }), nil
}

func (r *Robot) SetInputs(values []frame.Input) error {
	r.current = append([]frame.Input(nil), values...)
	r.SetInputsCount++
	return nil
}

func (r *Robot) Transform() (eetrans [3]float64, eerot [9]float64, err error) {
	if r.Transformer == nil {
		eerot = spatialmath.NewZeroPose().RotationMatrix()
		return eetrans, eerot, nil
	}
	return r.Transformer(r.current)
}

func (r *Robot) JointWeight(armSlot int) float64 { return r.weights[armSlot] }

func (r *Robot) IsJointCircular(armSlot int) bool { return r.circ[armSlot] }

func (r *Robot) LinkEnabled(link string) bool { return r.linkEnabled[link] }

func (r *Robot) SetLinkEnabled(link string, enabled bool) error {
	r.linkEnabled[link] = enabled
	return nil
}

func (r *Robot) GrabbedBodies() []string { return append([]string(nil), r.bodies...) }

func (r *Robot) GrabbedBodyEnabled(body string) bool { return r.bodyEnabled[body] }

func (r *Robot) SetGrabbedBodyEnabled(body string, enabled bool) error {
	r.bodyEnabled[body] = enabled
	return nil
}

func (r *Robot) SetSelfCollisionMode() error {
	r.mode = "self"
	return nil
}

func (r *Robot) SetEnvironmentCollisionMode() error {
	r.mode = "env"
	return nil
}

// Mode reports which collision mode the robot is currently in, for test
// assertions.
func (r *Robot) Mode() string { return r.mode }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
