package probability

import "fmt"

// DefaultPBoxSteps is the discretization width used when a fresh p-box is
// derived from an empty receiver.
const DefaultPBoxSteps = 10

// PBox is a discretized probability box: paired lower and upper bounding
// envelopes of equal length. Arithmetic is element-wise interval arithmetic
// over corresponding envelope slots.
type PBox struct {
	Lo []float64
	Hi []float64
}

// NewPBox builds a p-box from lower and upper envelopes.
func NewPBox(lo, hi []float64) PBox {
	return PBox{Lo: lo, Hi: hi}
}

// UniformPBox builds a degenerate p-box whose every slot is [lo, hi].
func UniformPBox(lo, hi float64, steps int) PBox {
	if steps <= 0 {
		steps = DefaultPBoxSteps
	}
	p := PBox{Lo: make([]float64, steps), Hi: make([]float64, steps)}
	for i := 0; i < steps; i++ {
		p.Lo[i] = lo
		p.Hi[i] = hi
	}
	return p
}

func (p PBox) steps() int {
	if len(p.Lo) == 0 {
		return DefaultPBoxSteps
	}
	return len(p.Lo)
}

func (p PBox) zipWith(o PBox, f func(a, b Interval) Interval) PBox {
	n := p.steps()
	out := PBox{Lo: make([]float64, n), Hi: make([]float64, n)}
	for i := 0; i < n; i++ {
		r := f(p.slot(i), o.slot(i))
		out.Lo[i] = r.Lo
		out.Hi[i] = r.Hi
	}
	return out
}

func (p PBox) slot(i int) Interval {
	if i >= len(p.Lo) {
		return Interval{}
	}
	return Interval{Lo: p.Lo[i], Hi: p.Hi[i]}
}

func (p PBox) Add(o PBox) PBox { return p.zipWith(o, Interval.Add) }
func (p PBox) Sub(o PBox) PBox { return p.zipWith(o, Interval.Sub) }
func (p PBox) Mul(o PBox) PBox { return p.zipWith(o, Interval.Mul) }

func (p PBox) Complement() PBox {
	n := p.steps()
	out := PBox{Lo: make([]float64, n), Hi: make([]float64, n)}
	for i := 0; i < n; i++ {
		c := p.slot(i).Complement()
		out.Lo[i] = c.Lo
		out.Hi[i] = c.Hi
	}
	return out
}

func (p PBox) Zero() PBox { return UniformPBox(0, 0, p.steps()) }
func (p PBox) One() PBox  { return UniformPBox(1, 1, p.steps()) }

// Validate checks envelope pairing, per-slot ordering, and the [0,1] range.
func (p PBox) Validate() error {
	if len(p.Lo) != len(p.Hi) {
		return fmt.Errorf("%w: %d lower vs %d upper slots", ErrEnvelopeMismatch, len(p.Lo), len(p.Hi))
	}
	if len(p.Lo) == 0 {
		return fmt.Errorf("%w: empty envelopes", ErrEnvelopeMismatch)
	}
	for i := range p.Lo {
		if err := p.slot(i).Validate(); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return nil
}
