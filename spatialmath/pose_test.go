package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/test"
)

func TestRotationMatrixRoundTrip(t *testing.T) {
	// A 90 degree rotation about Z.
	half := math.Pi / 4
	q := quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)}
	pose := NewPose(r3.Vector{X: 1, Y: 2, Z: 3}, q)

	m := pose.RotationMatrix()
	back := RotationMatrixToQuaternion(m)

	test.That(t, OrientationDistance(q, back), test.ShouldBeLessThan, 1e-9)
}

func TestNewPoseNormalizesOrientation(t *testing.T) {
	q := quat.Number{Real: 2} // not unit length
	pose := NewPose(r3.Vector{}, q)
	test.That(t, quat.Abs(pose.Orientation()), test.ShouldAlmostEqual, 1.0)
}

func TestNewPoseFromPointHasIdentityOrientation(t *testing.T) {
	pose := NewPoseFromPoint(r3.Vector{X: 5, Y: 6, Z: 7})
	test.That(t, pose.Point(), test.ShouldResemble, r3.Vector{X: 5, Y: 6, Z: 7})
	test.That(t, pose.Orientation(), test.ShouldResemble, quat.Number{Real: 1})
}

func TestOrientationDistanceZeroForEqualOrientations(t *testing.T) {
	q := quat.Number{Real: math.Cos(0.3), Imag: math.Sin(0.3)}
	test.That(t, OrientationDistance(q, q), test.ShouldBeLessThan, 1e-12)
}

func TestRotateVectorIdentity(t *testing.T) {
	identity := quat.Number{Real: 1}
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	out := rotateVector(identity, v)
	test.That(t, out.X, test.ShouldAlmostEqual, v.X)
	test.That(t, out.Y, test.ShouldAlmostEqual, v.Y)
	test.That(t, out.Z, test.ShouldAlmostEqual, v.Z)
}

func TestRotateVectorQuarterTurnAboutZ(t *testing.T) {
	half := math.Pi / 4
	q := quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)}
	out := rotateVector(q, r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, out.X, test.ShouldAlmostEqual, 0)
	test.That(t, out.Y, test.ShouldAlmostEqual, 1)
	test.That(t, out.Z, test.ShouldAlmostEqual, 0)
}

func TestDeriv(t *testing.T) {
	q := quat.Number{Real: math.Cos(0.2), Imag: math.Sin(0.2)}
	ds := deriv(q)
	test.That(t, len(ds), test.ShouldEqual, 3)
	for _, d := range ds {
		test.That(t, math.IsNaN(d.Real), test.ShouldBeFalse)
	}
}

func TestPoseAlmostEqual(t *testing.T) {
	a := NewPoseFromPoint(r3.Vector{X: 1, Y: 1, Z: 1})
	b := NewPoseFromPoint(r3.Vector{X: 1 + 1e-9, Y: 1, Z: 1})
	test.That(t, PoseAlmostEqual(a, b), test.ShouldBeTrue)

	c := NewPoseFromPoint(r3.Vector{X: 2, Y: 1, Z: 1})
	test.That(t, PoseAlmostEqual(a, c), test.ShouldBeFalse)
}
