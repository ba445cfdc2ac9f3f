package ik

import (
	frame "github.com/ikshell-dev/ikcore/referenceframe"
)

// Canonicalize implements spec.md SS4.B: wrap every revolute slot into its
// legal range, then enumerate every additional legal 2*pi wrap on each
// big-range joint, returning the Cartesian product as Candidates. It rejects
// with RejectJointLimits if no in-range representative exists for some slot,
// and returns a non-nil *Error (InconsistentConstraints) if the kernel and
// the bound manipulator disagree about a joint's range -- a condition the
// precomputed wrap cap should make impossible.
func Canonicalize(m *frame.Manipulator, values []float64) ([]Candidate, Action, error) {
	wrapped := make([]float64, len(values))
	copy(wrapped, values)

	for i, j := range m.Joints {
		if j.Kind != frame.Revolute {
			continue
		}
		for wrapped[i] > j.Limit.Max {
			wrapped[i] -= twoPi
		}
		for wrapped[i] < j.Limit.Min {
			wrapped[i] += twoPi
		}
	}

	for i, j := range m.Joints {
		if !j.Limit.Contains(wrapped[i], frame.JointLimitEpsilon) {
			return nil, Reject | RejectJointLimits, nil
		}
	}

	bigRanges := m.BigRanges()
	if len(bigRanges) == 0 {
		return []Candidate{{Values: frame.FloatsToInputs(wrapped), WrapID: 0}}, Success, nil
	}

	perJointWraps := make([][]float64, len(bigRanges))
	for k, br := range bigRanges {
		lim := m.Joints[br.ArmSlot].Limit
		orig := wrapped[br.ArmSlot]
		values := []float64{orig}
		for f := orig - twoPi; f >= lim.Min; f -= twoPi {
			values = append(values, f)
		}
		for f := orig + twoPi; f <= lim.Max; f += twoPi {
			values = append(values, f)
		}
		if len(values) > br.MaxWraps {
			return nil, Reject, newError(InconsistentConstraints,
				"exceeded precomputed max wrap count for joint "+m.Joints[br.ArmSlot].Name)
		}
		perJointWraps[k] = values
	}

	total := 1
	for _, vals := range perJointWraps {
		total *= len(vals)
	}

	candidates := make([]Candidate, total)
	for i := 0; i < total; i++ {
		row := make([]float64, len(wrapped))
		copy(row, wrapped)
		wrapID := 0
		for k, br := range bigRanges {
			vals := perJointWraps[k]
			idx := (i / divisor(perJointWraps, k)) % len(vals)
			row[br.ArmSlot] = vals[idx]
			wrapID += idx * br.CumProduct
		}
		candidates[i] = Candidate{Values: frame.FloatsToInputs(row), WrapID: wrapID}
	}

	return candidates, Success, nil
}

// divisor returns the product of the sizes of perJointWraps[0:k], the
// "repeat" stride used to decode the i-th entry of the Cartesian product.
func divisor(perJointWraps [][]float64, k int) int {
	d := 1
	for j := 0; j < k; j++ {
		d *= len(perJointWraps[j])
	}
	return d
}
