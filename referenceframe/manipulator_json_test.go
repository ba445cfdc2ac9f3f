package referenceframe

import (
	"testing"

	"go.viam.com/test"
)

const testManipulatorJSON = `{
	"name": "test-arm",
	"parameterizationType": "transform6d",
	"kinematicsHash": "abc123",
	"childLinks": ["wrist", "gripper"],
	"independentLinks": ["base"],
	"joints": [
		{"name": "j0", "type": "revolute", "min": -3.14, "max": 3.14},
		{"name": "j1", "type": "prismatic", "min": 0, "max": 10, "free": true}
	]
}`

func TestUnmarshalManipulatorJSON(t *testing.T) {
	m, err := UnmarshalManipulatorJSON([]byte(testManipulatorJSON))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(m.Joints), test.ShouldEqual, 2)
	test.That(t, m.Joints[0].Kind, test.ShouldEqual, Revolute)
	test.That(t, m.Joints[1].Kind, test.ShouldEqual, Prismatic)
	test.That(t, m.Joints[1].Weight, test.ShouldEqual, 1.0)
	test.That(t, m.FreeIndices, test.ShouldResemble, []int{1})
	test.That(t, m.ChildLinks, test.ShouldResemble, []string{"wrist", "gripper"})
	test.That(t, m.KinematicsHash, test.ShouldEqual, "abc123")
}

func TestUnmarshalManipulatorJSONEmpty(t *testing.T) {
	_, err := UnmarshalManipulatorJSON(nil)
	test.That(t, err, test.ShouldEqual, ErrNoManipulatorInformation)
}

func TestUnmarshalManipulatorJSONMissingParameterizationType(t *testing.T) {
	_, err := UnmarshalManipulatorJSON([]byte(`{"joints": []}`))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUnmarshalManipulatorJSONUnsupportedJointType(t *testing.T) {
	bad := `{"parameterizationType": "transform6d", "joints": [{"name": "j0", "type": "spherical"}]}`
	_, err := UnmarshalManipulatorJSON([]byte(bad))
	test.That(t, err, test.ShouldNotBeNil)
}
