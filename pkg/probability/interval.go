package probability

import "fmt"

// Interval is a closed-interval probability [Lo, Hi].
type Interval struct {
	Lo float64
	Hi float64
}

// NewInterval builds an interval probability.
func NewInterval(lo, hi float64) Interval {
	return Interval{Lo: lo, Hi: hi}
}

func (i Interval) Add(o Interval) Interval {
	return Interval{Lo: i.Lo + o.Lo, Hi: i.Hi + o.Hi}
}

// Sub uses the dependency-free interval difference: the result bounds every
// x - y with x in i and y in o. Inclusion-exclusion relies on this being
// conservative rather than tight.
func (i Interval) Sub(o Interval) Interval {
	return Interval{Lo: i.Lo - o.Hi, Hi: i.Hi - o.Lo}
}

// Mul takes the min/max of the four endpoint products. Intermediate
// inclusion-exclusion terms can be negative, so the general form is required
// even though input probabilities are non-negative.
func (i Interval) Mul(o Interval) Interval {
	a, b, c, d := i.Lo*o.Lo, i.Lo*o.Hi, i.Hi*o.Lo, i.Hi*o.Hi
	return Interval{Lo: min4(a, b, c, d), Hi: max4(a, b, c, d)}
}

func (i Interval) Complement() Interval {
	return Interval{Lo: 1 - i.Hi, Hi: 1 - i.Lo}
}

func (Interval) Zero() Interval { return Interval{} }
func (Interval) One() Interval  { return Interval{Lo: 1, Hi: 1} }

// Validate checks ordering and the [0,1] envelope.
func (i Interval) Validate() error {
	if i.Lo > i.Hi {
		return fmt.Errorf("%w: [%v, %v]", ErrInvertedBounds, i.Lo, i.Hi)
	}
	if i.Lo < 0 || i.Hi > 1 {
		return rangeErrorf("interval [%v, %v] outside [0,1]", i.Lo, i.Hi)
	}
	return nil
}

func min4(a, b, c, d float64) float64 {
	return min(min(a, b), min(c, d))
}

func max4(a, b, c, d float64) float64 {
	return max(max(a, b), max(c, d))
}
