// Package spatialmath provides the pose and rotation representations the IK
// solver core exchanges with its kernel and forward-kinematics collaborators.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a rigid transform: a translation plus an orientation, expressed
// internally as a quaternion so that slerp-free distance metrics and
// row-major rotation-matrix export are both cheap.
type Pose struct {
	point       r3.Vector
	orientation quat.Number
}

// NewPose builds a pose from a translation and a unit quaternion.
func NewPose(point r3.Vector, orientation quat.Number) Pose {
	return Pose{point: point, orientation: quat.Scale(1/quat.Abs(orientation), orientation)}
}

// NewPoseFromPoint builds a pose with identity orientation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return Pose{point: point, orientation: quat.Number{Real: 1}}
}

// NewZeroPose returns the identity pose.
func NewZeroPose() Pose {
	return Pose{orientation: quat.Number{Real: 1}}
}

// Point returns the translation component.
func (p Pose) Point() r3.Vector { return p.point }

// Orientation returns the rotation component as a unit quaternion.
func (p Pose) Orientation() quat.Number { return p.orientation }

// RotationMatrix returns the row-major 3x3 rotation matrix the kernel ABI
// expects in eerot (spec.md SS4.A).
func (p Pose) RotationMatrix() [9]float64 {
	q := p.orientation
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return [9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	}
}

// RotationMatrixToQuaternion converts a row-major 3x3 rotation matrix (as
// returned by the kernel's fk routine) into a unit quaternion.
func RotationMatrixToQuaternion(m [9]float64) quat.Number {
	trace := m[0] + m[4] + m[8]
	var w, x, y, z float64
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		w = 0.25 / s
		x = (m[7] - m[5]) * s
		y = (m[2] - m[6]) * s
		z = (m[3] - m[1]) * s
	case m[0] > m[4] && m[0] > m[8]:
		s := 2 * math.Sqrt(1+m[0]-m[4]-m[8])
		w = (m[7] - m[5]) / s
		x = 0.25 * s
		y = (m[1] + m[3]) / s
		z = (m[2] + m[6]) / s
	case m[4] > m[8]:
		s := 2 * math.Sqrt(1+m[4]-m[0]-m[8])
		w = (m[2] - m[6]) / s
		x = (m[1] + m[3]) / s
		y = 0.25 * s
		z = (m[5] + m[7]) / s
	default:
		s := 2 * math.Sqrt(1+m[8]-m[0]-m[4])
		w = (m[3] - m[1]) / s
		x = (m[2] + m[6]) / s
		y = (m[5] + m[7]) / s
		z = 0.25 * s
	}
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	return quat.Scale(1/quat.Abs(q), q)
}

// deriv returns the three partial derivatives of a unit quaternion with
// respect to an infinitesimal rotation about x, y, z -- used by forward
// kinematics collaborators (out of scope here, exercised only by FK test
// fixtures in this package) the same way the teacher's ik.deriv does.
func deriv(q quat.Number) []quat.Number {
	return []quat.Number{
		quat.Mul(quat.Number{Imag: 1}, q),
		quat.Mul(quat.Number{Jmag: 1}, q),
		quat.Mul(quat.Number{Kmag: 1}, q),
	}
}

// OrientationDistance returns a slerp-free distance between two orientations:
// the squared angle (radians) of the relative rotation between them.
func OrientationDistance(a, b quat.Number) float64 {
	rel := quat.Mul(quat.Conj(a), b)
	// clamp for acos safety
	w := math.Max(-1, math.Min(1, rel.Real))
	angle := 2 * math.Acos(math.Abs(w))
	return angle * angle
}

// rotateVector rotates v by the unit quaternion q: v' = q * v * conj(q).
func rotateVector(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// PoseAlmostEqual reports whether two poses are within a small default
// tolerance of one another.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps reports whether two poses are within eps (position in
// native distance units, orientation in the OrientationDistance metric).
func PoseAlmostEqualEps(a, b Pose, eps float64) bool {
	return a.point.Sub(b.point).Norm2() <= eps*eps && OrientationDistance(a.orientation, b.orientation) <= eps
}
