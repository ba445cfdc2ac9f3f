package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"

	"go.viam.com/test"
)

func TestFlavorDOF(t *testing.T) {
	cases := []struct {
		flavor Flavor
		dof    int
	}{
		{Transform6D, 6},
		{TranslationLocalGlobal6D, 6},
		{Rotation3D, 3},
		{Translation3D, 3},
		{LookAt3D, 3},
		{Ray4D, 4},
		{TranslationAxisAngleX4D, 4},
		{TranslationDirection5D, 5},
		{TranslationXY2D, 2},
		{TranslationXYOrientation3D, 3},
	}
	for _, c := range cases {
		test.That(t, c.flavor.DOF(), test.ShouldEqual, c.dof)
	}
}

func TestKernelArraysTransform6D(t *testing.T) {
	p := Parameterization{
		Flavor:      Transform6D,
		Translation: r3.Vector{X: 1, Y: 2, Z: 3},
		Rotation:    [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
	}
	eetrans, eerot, err := p.KernelArrays()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, eetrans, test.ShouldResemble, []float64{1, 2, 3})
	test.That(t, eerot, test.ShouldResemble, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func TestKernelArraysTranslation3D(t *testing.T) {
	p := Parameterization{Flavor: Translation3D, Translation: r3.Vector{X: 4, Y: 5, Z: 6}}
	eetrans, eerot, err := p.KernelArrays()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, eetrans, test.ShouldResemble, []float64{4, 5, 6})
	test.That(t, eerot, test.ShouldBeNil)
}

func TestKernelArraysUnsupportedFlavor(t *testing.T) {
	p := Parameterization{Flavor: Flavor(999)}
	_, _, err := p.KernelArrays()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPoseDistanceTranslation3D(t *testing.T) {
	p := Parameterization{Flavor: Translation3D, Translation: r3.Vector{X: 1, Y: 0, Z: 0}}
	fk := NewPoseFromPoint(r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, p.PoseDistance(fk), test.ShouldAlmostEqual, 1.0)
}

func TestPoseDistanceTranslationXY2D(t *testing.T) {
	p := Parameterization{Flavor: TranslationXY2D, Translation: r3.Vector{X: 3, Y: 4}}
	fk := NewPoseFromPoint(r3.Vector{X: 0, Y: 0, Z: 100}) // Z ignored for this flavor
	test.That(t, p.PoseDistance(fk), test.ShouldAlmostEqual, 25.0)
}

func TestPoseDistanceExactMatchIsZero(t *testing.T) {
	p := Parameterization{
		Flavor:      Transform6D,
		Translation: r3.Vector{X: 1, Y: 2, Z: 3},
		Rotation:    [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
	}
	fk := NewPose(r3.Vector{X: 1, Y: 2, Z: 3}, RotationMatrixToQuaternion([9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}))
	test.That(t, p.PoseDistance(fk), test.ShouldBeLessThan, 1e-9)
}
