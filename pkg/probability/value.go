package probability

// Value is the closed arithmetic contract shared by every probability
// representation the engine supports. All downstream packages are generic
// over this constraint and never assume scalar arithmetic directly.
//
// Zero and One are methods rather than package functions because PBox
// values carry a discretization width that fresh values must inherit.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T

	// Complement returns 1 - x.
	Complement() T

	Zero() T
	One() T

	// Validate reports whether the value is a well-formed probability.
	// Intermediate inclusion-exclusion terms may leave [0,1]; Validate is
	// only meaningful for input values, checked before propagation begins.
	Validate() error
}

// Float64 is the scalar probability representation.
type Float64 float64

func (f Float64) Add(o Float64) Float64 { return f + o }
func (f Float64) Sub(o Float64) Float64 { return f - o }
func (f Float64) Mul(o Float64) Float64 { return f * o }

func (f Float64) Complement() Float64 { return 1 - f }

func (Float64) Zero() Float64 { return 0 }
func (Float64) One() Float64  { return 1 }

// Validate checks that the scalar lies in [0,1].
func (f Float64) Validate() error {
	if f < 0 || f > 1 {
		return rangeErrorf("scalar %v outside [0,1]", float64(f))
	}
	return nil
}
