package dsp

import "testing"

func TestShiftFractionalIntegerShift(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	out := ShiftFractional(x, 2)
	want := []float64{0, 0, 1, 2, 3}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("index %d: got %g want %g", i, out[i], want[i])
		}
	}
}

func TestShiftFractionalHalfSample(t *testing.T) {
	x := []float64{0, 10, 20, 30}
	out := ShiftFractional(x, 1.5)
	// out[2] should sit halfway between x[0] and x[1]
	if got, want := out[2], 5.0; got != want {
		t.Errorf("out[2] = %g, want %g", got, want)
	}
}

func TestShiftFractionalZeroIsIdentity(t *testing.T) {
	x := []float64{1, 2, 3}
	out := ShiftFractional(x, 0)
	for i := range x {
		if out[i] != x[i] {
			t.Errorf("index %d: got %g want %g", i, out[i], x[i])
		}
	}
}
