package probability

import "math/bits"

// InclusionExclusion computes P(at least one of the given independent events)
// exactly: the alternating sum over all 2^k - 1 non-empty subsets of the
// subset products.
//
// The cost is exponential in len(values). Join nodes with many independent
// parents dominate propagation time through this function; callers facing
// k beyond ~20 should expect it to be the bottleneck. The subset mask is a
// uint64, so 63 values is the hard limit; more than that panics.
func InclusionExclusion[T Value[T]](values []T) T {
	if len(values) > 63 {
		panic("probability: inclusion-exclusion over more than 63 values")
	}
	var result T
	if len(values) == 0 {
		return result
	}
	result = values[0].Zero()

	for mask := uint64(1); mask < uint64(1)<<len(values); mask++ {
		term := values[0].One()
		for i := 0; i < len(values); i++ {
			if mask&(1<<i) != 0 {
				term = term.Mul(values[i])
			}
		}
		if bits.OnesCount64(mask)%2 == 1 {
			result = result.Add(term)
		} else {
			result = result.Sub(term)
		}
	}
	return result
}
