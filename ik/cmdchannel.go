package ik

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	frame "github.com/ikshell-dev/ikcore/referenceframe"
)

// CommandChannel implements spec.md SS6's line-oriented text command
// interface, grounded in the original RegisterCommand table: each line is a
// command name followed by whitespace-delimited arguments, and the reply is
// a single string.
//
// SetIkThreshold is channel-global and mutates the bound Manipulator.
// GetSolutionIndices and GetRobotLinkStateRepeatCount are only meaningful
// while a user filter is executing, since they read the CallContext that
// filter was invoked with.
type CommandChannel struct {
	Manipulator *frame.Manipulator
}

// Command dispatches one command line against ctx (the CallContext of the
// user filter currently executing, or nil outside a filter) and returns the
// text reply, mirroring the original's single-string RegisterCommand
// contract.
func (c *CommandChannel) Command(ctx *CallContext, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", errors.New("empty command")
	}

	switch fields[0] {
	case "SetIkThreshold":
		if len(fields) != 2 {
			return "", errors.New("SetIkThreshold takes exactly one argument")
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return "", errors.Wrap(err, "SetIkThreshold: invalid float")
		}
		c.Manipulator.IKThreshold = v
		return "", nil

	case "GetSolutionIndices":
		if ctx == nil {
			return "", errors.New("GetSolutionIndices: not executing inside a filter")
		}
		indices, ok := ctx.SolutionIndices()
		if !ok {
			return "", errors.New("GetSolutionIndices: no solution indices available")
		}
		return strconv.Itoa(len(indices)) + " " + joinInts(indices), nil

	case "GetRobotLinkStateRepeatCount":
		if ctx == nil {
			return "", errors.New("GetRobotLinkStateRepeatCount: not executing inside a filter")
		}
		count, ok := ctx.SameStateRepeatCount()
		if !ok {
			return "", errors.New("GetRobotLinkStateRepeatCount: no repeat count available")
		}
		return strconv.Itoa(count), nil

	default:
		return "", errors.Errorf("unrecognized command %q", fields[0])
	}
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
