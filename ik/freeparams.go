package ik

import frame "github.com/ikshell-dev/ikcore/referenceframe"

// SweepContinuation is invoked once the free-parameter composer has
// assembled a complete free vector; it typically wraps CallKernel followed
// by Canonicalize/Validate (spec.md SS4.E).
type SweepContinuation func(free []float64) (Action, error)

// SweepFreeParameters recursively sweeps m's free joint dimensions outward
// from seed (spec.md SS4.C), invoking continuation once per depth-|free|
// leaf. It returns the first result whose Action is not a Reject; any Quit
// bit propagates immediately. If seed is empty, every free joint starts its
// sweep at 0.
func SweepFreeParameters(m *frame.Manipulator, seed []float64, continuation SweepContinuation) (Action, error) {
	free := make([]float64, len(m.FreeIndices))
	return sweepDepth(m, seed, free, 0, continuation)
}

func sweepDepth(m *frame.Manipulator, seed, free []float64, depth int, continuation SweepContinuation) (Action, error) {
	if depth >= len(m.FreeIndices) {
		return continuation(free)
	}

	armSlot := m.FreeIndices[depth]
	lim := m.Joints[armSlot].Limit
	increment := m.FreeIncrement[depth]

	startPhi := 0.0
	if len(seed) == len(m.Joints) {
		startPhi = seed[armSlot]
	}

	deltaPhi := 0.0
	iter := 0
	for {
		var curPhi float64
		increasing := iter&1 != 0
		if increasing {
			curPhi = startPhi + deltaPhi
			if curPhi > lim.Max {
				if startPhi-deltaPhi < lim.Min {
					break
				}
				iter++
				continue
			}
		} else {
			curPhi = startPhi - deltaPhi
			if curPhi < lim.Min {
				if startPhi+deltaPhi > lim.Max {
					break
				}
				deltaPhi += increment
				iter++
				continue
			}
			deltaPhi += increment
		}
		iter++

		free[depth] = curPhi
		res, err := sweepDepth(m, seed, free, depth+1, continuation)
		if err != nil {
			return res, err
		}
		if !res.IsReject() {
			return res, nil
		}
	}

	// Explicitly probe phi = 0: many kernels have 0-centered singularities
	// worth checking even when it isn't reached by the outward sweep.
	if lim.Min <= 0 && lim.Max >= 0 {
		free[depth] = 0
		res, err := sweepDepth(m, seed, free, depth+1, continuation)
		if err != nil {
			return res, err
		}
		if !res.IsReject() {
			return res, nil
		}
	}

	return Reject, nil
}
