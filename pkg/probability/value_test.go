package probability

import (
	"errors"
	"math"
	"testing"
)

// TestFloat64Validate tests scalar range validation
func TestFloat64Validate(t *testing.T) {
	if err := Float64(0.5).Validate(); err != nil {
		t.Fatalf("0.5 should be valid: %v", err)
	}
	if err := Float64(0).Validate(); err != nil {
		t.Fatalf("0 should be valid: %v", err)
	}
	if err := Float64(1).Validate(); err != nil {
		t.Fatalf("1 should be valid: %v", err)
	}

	if err := Float64(1.1).Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("1.1 should fail with ErrOutOfRange, got %v", err)
	}
	if err := Float64(-0.1).Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("-0.1 should fail with ErrOutOfRange, got %v", err)
	}
}

// TestFloat64Arithmetic tests the scalar algebra operations
func TestFloat64Arithmetic(t *testing.T) {
	if got := Float64(0.3).Add(0.2); math.Abs(float64(got)-0.5) > 1e-12 {
		t.Errorf("0.3+0.2 = %v, want 0.5", got)
	}
	if got := Float64(0.5).Mul(0.5); math.Abs(float64(got)-0.25) > 1e-12 {
		t.Errorf("0.5*0.5 = %v, want 0.25", got)
	}
	if got := Float64(0.9).Complement(); math.Abs(float64(got)-0.1) > 1e-12 {
		t.Errorf("complement(0.9) = %v, want 0.1", got)
	}
	if got := Float64(0.7).Zero(); got != 0 {
		t.Errorf("Zero() = %v, want 0", got)
	}
	if got := Float64(0.7).One(); got != 1 {
		t.Errorf("One() = %v, want 1", got)
	}
}

// TestIntervalValidate tests interval bound validation
func TestIntervalValidate(t *testing.T) {
	if err := NewInterval(0.2, 0.4).Validate(); err != nil {
		t.Fatalf("[0.2,0.4] should be valid: %v", err)
	}

	if err := NewInterval(0.4, 0.2).Validate(); !errors.Is(err, ErrInvertedBounds) {
		t.Errorf("[0.4,0.2] should fail with ErrInvertedBounds, got %v", err)
	}
	if err := NewInterval(-0.1, 0.5).Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("[-0.1,0.5] should fail with ErrOutOfRange, got %v", err)
	}
	if err := NewInterval(0.5, 1.2).Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("[0.5,1.2] should fail with ErrOutOfRange, got %v", err)
	}
}

// TestIntervalArithmetic tests interval operations preserve containment
func TestIntervalArithmetic(t *testing.T) {
	a := NewInterval(0.2, 0.4)
	b := NewInterval(0.1, 0.3)

	sum := a.Add(b)
	if sum.Lo != 0.2+0.1 || sum.Hi != 0.4+0.3 {
		t.Errorf("Add = %+v", sum)
	}

	prod := a.Mul(b)
	if math.Abs(prod.Lo-0.02) > 1e-12 || math.Abs(prod.Hi-0.12) > 1e-12 {
		t.Errorf("Mul = %+v, want [0.02, 0.12]", prod)
	}

	comp := a.Complement()
	if math.Abs(comp.Lo-0.6) > 1e-12 || math.Abs(comp.Hi-0.8) > 1e-12 {
		t.Errorf("Complement = %+v, want [0.6, 0.8]", comp)
	}

	// Subtraction must be conservative: a - a contains zero
	diff := a.Sub(a)
	if diff.Lo > 0 || diff.Hi < 0 {
		t.Errorf("a-a = %+v does not contain 0", diff)
	}
}

// TestPBoxValidate tests envelope validation
func TestPBoxValidate(t *testing.T) {
	if err := UniformPBox(0.2, 0.4, 5).Validate(); err != nil {
		t.Fatalf("uniform pbox should be valid: %v", err)
	}

	mismatched := NewPBox([]float64{0.1, 0.2}, []float64{0.3})
	if err := mismatched.Validate(); !errors.Is(err, ErrEnvelopeMismatch) {
		t.Errorf("mismatched envelopes should fail, got %v", err)
	}

	empty := NewPBox(nil, nil)
	if err := empty.Validate(); !errors.Is(err, ErrEnvelopeMismatch) {
		t.Errorf("empty envelopes should fail, got %v", err)
	}

	inverted := NewPBox([]float64{0.5}, []float64{0.2})
	if err := inverted.Validate(); !errors.Is(err, ErrInvertedBounds) {
		t.Errorf("inverted slot should fail, got %v", err)
	}
}

// TestPBoxArithmetic tests element-wise envelope arithmetic
func TestPBoxArithmetic(t *testing.T) {
	a := UniformPBox(0.2, 0.4, 4)
	b := UniformPBox(0.1, 0.3, 4)

	prod := a.Mul(b)
	for i := range prod.Lo {
		if math.Abs(prod.Lo[i]-0.02) > 1e-12 || math.Abs(prod.Hi[i]-0.12) > 1e-12 {
			t.Fatalf("slot %d = [%v, %v], want [0.02, 0.12]", i, prod.Lo[i], prod.Hi[i])
		}
	}

	one := a.One()
	if len(one.Lo) != 4 {
		t.Errorf("One() should inherit discretization width, got %d slots", len(one.Lo))
	}
	for i := range one.Lo {
		if one.Lo[i] != 1 || one.Hi[i] != 1 {
			t.Fatalf("One() slot %d = [%v, %v]", i, one.Lo[i], one.Hi[i])
		}
	}
}
