package ik_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/ikshell-dev/ikcore/ik"
	frame "github.com/ikshell-dev/ikcore/referenceframe"
)

func TestCommandChannelSetIkThreshold(t *testing.T) {
	m, err := frame.Init(nil, nil, nil, nil, "", "transform6d")
	test.That(t, err, test.ShouldBeNil)
	ch := &ik.CommandChannel{Manipulator: m}

	reply, err := ch.Command(nil, "SetIkThreshold 0.001")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reply, test.ShouldEqual, "")
	test.That(t, m.IKThreshold, test.ShouldEqual, 0.001)
}

func TestCommandChannelSetIkThresholdRejectsBadArity(t *testing.T) {
	m, err := frame.Init(nil, nil, nil, nil, "", "transform6d")
	test.That(t, err, test.ShouldBeNil)
	ch := &ik.CommandChannel{Manipulator: m}

	_, err = ch.Command(nil, "SetIkThreshold")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCommandChannelGetSolutionIndicesOutsideFilterErrors(t *testing.T) {
	m, err := frame.Init(nil, nil, nil, nil, "", "transform6d")
	test.That(t, err, test.ShouldBeNil)
	ch := &ik.CommandChannel{Manipulator: m}

	_, err = ch.Command(nil, "GetSolutionIndices")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCommandChannelUnrecognizedCommand(t *testing.T) {
	m, err := frame.Init(nil, nil, nil, nil, "", "transform6d")
	test.That(t, err, test.ShouldBeNil)
	ch := &ik.CommandChannel{Manipulator: m}

	_, err = ch.Command(nil, "DoesNotExist")
	test.That(t, err, test.ShouldNotBeNil)
}
