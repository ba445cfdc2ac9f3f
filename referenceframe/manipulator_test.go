package referenceframe

import (
	"testing"

	"go.viam.com/test"
)

func sixAxisJoints() []Joint {
	return []Joint{
		{Name: "j0", Kind: Revolute, Limit: Limit{Min: -3.14, Max: 3.14}, Weight: 1},
		{Name: "j1", Kind: Revolute, Limit: Limit{Min: -2, Max: 2}, Weight: 1},
		{Name: "j2", Kind: Revolute, Limit: Limit{Min: -2, Max: 2}, Weight: 1},
		{Name: "j3", Kind: Revolute, Limit: Limit{Min: -6.28, Max: 6.28}, Weight: 1},
		{Name: "j4", Kind: Revolute, Limit: Limit{Min: -2, Max: 2}, Weight: 1},
		{Name: "j5", Kind: Circular, Limit: Limit{Min: -1e9, Max: 1e9}, Weight: 1},
	}
}

func TestManipulatorInitBigRanges(t *testing.T) {
	m, err := Init(sixAxisJoints(), []int{3}, nil, nil, "hash1", "transform6d")
	test.That(t, err, test.ShouldBeNil)

	// j3 spans 12.56 rad, just under 2*2*pi -> 1 + floor(12.56/2pi) = 2 wraps.
	test.That(t, len(m.BigRanges()), test.ShouldEqual, 1)
	test.That(t, m.BigRanges()[0].ArmSlot, test.ShouldEqual, 3)
	test.That(t, m.BigRanges()[0].MaxWraps, test.ShouldEqual, 2)
	test.That(t, m.BigRanges()[0].CumProduct, test.ShouldEqual, 1)

	// j5 is circular, never counted as big-range even though its range is huge.
	for _, br := range m.BigRanges() {
		test.That(t, br.ArmSlot, test.ShouldNotEqual, 5)
	}
}

func TestManipulatorInitRejectsOutOfBoundsFreeIndex(t *testing.T) {
	_, err := Init(sixAxisJoints(), []int{99}, nil, nil, "hash1", "transform6d")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestManipulatorFreeIncrementDefaults(t *testing.T) {
	joints := []Joint{
		{Name: "prismatic", Kind: Prismatic, Limit: Limit{Min: 0, Max: 10}, Weight: 1},
		{Name: "revolute", Kind: Revolute, Limit: Limit{Min: -1, Max: 1}, Weight: 1},
	}
	m, err := Init(joints, []int{0, 1}, nil, nil, "", "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.FreeIncrement[0], test.ShouldEqual, defaultPrismaticIncrement)
	test.That(t, m.FreeIncrement[1], test.ShouldEqual, defaultRevoluteIncrement)
}

func TestNormalizedToPhysical(t *testing.T) {
	joints := []Joint{
		{Name: "j0", Kind: Revolute, Limit: Limit{Min: -1, Max: 3}, Weight: 1},
	}
	m, err := Init(joints, []int{0}, nil, nil, "", "")
	test.That(t, err, test.ShouldBeNil)

	v, err := m.NormalizedToPhysical(0, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, -1.0)

	v, err = m.NormalizedToPhysical(0, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 3.0)

	v, err = m.NormalizedToPhysical(0, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 1.0)

	_, err = m.NormalizedToPhysical(5, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLimitMidIsArithmeticMean(t *testing.T) {
	l := Limit{Min: -2, Max: 6}
	test.That(t, l.Mid(), test.ShouldEqual, 2.0)
}

func TestLimitContainsWidensByEpsilon(t *testing.T) {
	l := Limit{Min: 0, Max: 1}
	test.That(t, l.Contains(1+JointLimitEpsilon/2, JointLimitEpsilon), test.ShouldBeTrue)
	test.That(t, l.Contains(1+JointLimitEpsilon*2, JointLimitEpsilon), test.ShouldBeFalse)
}
