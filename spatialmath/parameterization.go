package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Flavor tags the pose-parameterization variants the kernel adapter
// understands (spec.md SS4.A table). DOF varies from 2 to 6.
type Flavor int

const (
	// Transform6D is the normative case: full position + orientation.
	Transform6D Flavor = iota
	Rotation3D
	Translation3D
	Direction3D
	Ray4D
	LookAt3D
	TranslationDirection5D
	TranslationXY2D
	TranslationXYOrientation3D
	TranslationLocalGlobal6D
	TranslationAxisAngleX4D
	TranslationAxisAngleY4D
	TranslationAxisAngleZ4D
)

// DOF reports the degrees of freedom this flavor specifies.
func (f Flavor) DOF() int {
	switch f {
	case Transform6D, TranslationLocalGlobal6D:
		return 6
	case Rotation3D, Translation3D, LookAt3D:
		return 3
	case Ray4D, TranslationAxisAngleX4D, TranslationAxisAngleY4D, TranslationAxisAngleZ4D:
		return 4
	case TranslationDirection5D:
		return 5
	case TranslationXY2D:
		return 2
	case TranslationXYOrientation3D:
		return 3
	default:
		return 0
	}
}

// Parameterization is a tagged, possibly-partial specification of the
// end-effector pose (spec.md GLOSSARY).
type Parameterization struct {
	Flavor      Flavor
	Translation r3.Vector
	Rotation    [9]float64 // row-major, only the flavors that use a full rotation populate all 9
	Direction   r3.Vector
	Angle       float64 // axis-angle magnitude, or planar theta
	LocalAxes   r3.Vector
}

// KernelArrays builds the two fixed-size scalar arrays the analytical kernel
// expects: eetrans (0 or 3 elements) and eerot (0 or 9 elements). This is the
// kernel adapter of spec.md SS4.A.
func (p Parameterization) KernelArrays() (eetrans []float64, eerot []float64, err error) {
	switch p.Flavor {
	case Transform6D:
		return vec3(p.Translation), p.Rotation[:], nil
	case Rotation3D:
		return nil, p.Rotation[:], nil
	case Translation3D:
		return vec3(p.Translation), nil, nil
	case Direction3D:
		return nil, packDirection(p.Direction), nil
	case Ray4D:
		return vec3(p.Translation), packDirection(p.Direction), nil
	case LookAt3D:
		return vec3(p.Translation), nil, nil
	case TranslationDirection5D:
		return vec3(p.Translation), packDirection(p.Direction), nil
	case TranslationXY2D:
		return []float64{p.Translation.X, p.Translation.Y, 0}, nil, nil
	case TranslationXYOrientation3D:
		return []float64{p.Translation.X, p.Translation.Y, p.Angle}, nil, nil
	case TranslationLocalGlobal6D:
		rot := [9]float64{}
		rot[0], rot[4], rot[8] = p.LocalAxes.X, p.LocalAxes.Y, p.LocalAxes.Z
		return vec3(p.Translation), rot[:], nil
	case TranslationAxisAngleX4D, TranslationAxisAngleY4D, TranslationAxisAngleZ4D,
		translationAxisAngleXNorm4D, translationAxisAngleYNorm4D, translationAxisAngleZNorm4D:
		rot := [9]float64{}
		rot[0] = p.Angle
		return vec3(p.Translation), rot[:], nil
	default:
		return nil, nil, errors.Errorf("unsupported pose parameterization flavor %v", p.Flavor)
	}
}

// The *Norm variants of the 4D translation+axis-angle flavor share layout
// with their non-normalized counterparts; they are distinguished only by how
// the caller produced the angle (normalized axis vs raw), not by wire shape.
const (
	translationAxisAngleXNorm4D Flavor = 100 + iota
	translationAxisAngleYNorm4D
	translationAxisAngleZNorm4D
)

func vec3(v r3.Vector) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

var flavorNames = map[string]Flavor{
	"transform6d":                Transform6D,
	"rotation3d":                 Rotation3D,
	"translation3d":              Translation3D,
	"direction3d":                Direction3D,
	"ray4d":                      Ray4D,
	"lookat3d":                   LookAt3D,
	"translationdirection5d":     TranslationDirection5D,
	"translationxy2d":            TranslationXY2D,
	"translationxyorientation3d": TranslationXYOrientation3D,
	"translationlocalglobal6d":   TranslationLocalGlobal6D,
	"translationaxisanglex4d":    TranslationAxisAngleX4D,
	"translationaxisangley4d":    TranslationAxisAngleY4D,
	"translationaxisanglez4d":    TranslationAxisAngleZ4D,
}

// ParseFlavor converts a manipulator config's parameterizationType string
// into a Flavor, the inverse of the kernel adapter's own name table.
func ParseFlavor(name string) (Flavor, error) {
	if f, ok := flavorNames[name]; ok {
		return f, nil
	}
	return 0, errors.Errorf("unrecognized pose flavor %q", name)
}

func packDirection(d r3.Vector) []float64 {
	return []float64{d.X, d.Y, d.Z, 0, 0, 0, 0, 0, 0}
}

// PoseDistance returns the parameterization-specific squared distance
// between the requested pose (as a Parameterization) and a fully resolved
// end-effector Pose, used by the workspace-precision check (spec.md SS4.E
// item 6).
func (p Parameterization) PoseDistance(fk Pose) float64 {
	switch p.Flavor {
	case Rotation3D:
		return OrientationDistance(RotationMatrixToQuaternion(p.Rotation), fk.Orientation())
	case Direction3D, Ray4D, TranslationDirection5D:
		linear := 0.0
		if p.Flavor != Direction3D {
			linear = p.Translation.Sub(fk.Point()).Norm2()
		}
		fkDir := rotateVector(fk.Orientation(), r3Vec(0, 0, 1))
		dd := p.Direction.Sub(fkDir)
		return linear + dd.Dot(dd)
	case TranslationXY2D:
		dx := p.Translation.X - fk.Point().X
		dy := p.Translation.Y - fk.Point().Y
		return dx*dx + dy*dy
	case TranslationXYOrientation3D:
		dx := p.Translation.X - fk.Point().X
		dy := p.Translation.Y - fk.Point().Y
		return dx*dx + dy*dy
	case Translation3D, LookAt3D:
		return p.Translation.Sub(fk.Point()).Norm2()
	default:
		return p.Translation.Sub(fk.Point()).Norm2() + OrientationDistance(RotationMatrixToQuaternion(p.Rotation), fk.Orientation())
	}
}

func r3Vec(x, y, z float64) r3.Vector { return r3.Vector{X: x, Y: y, Z: z} }
