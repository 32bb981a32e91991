package fft

import (
	"math"
	"math/rand"
	"testing"
)

func maxAbsDiff(a, b []float64) float64 {
	var m float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > m {
			m = d
		}
	}
	return m
}

func maxAbs(x []float64) float64 {
	var m float64
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// TestRoundTripTolerance pins testable property #2: for real vectors
// of length <= 2^16, max|ifft(fft(v)) - v| <= 1e-9 * max|v|.
func TestRoundTripTolerance(t *testing.T) {
	sizes := []int{1, 2, 3, 7, 16, 100, 257, 1024, 4096}
	rng := rand.New(rand.NewSource(1))

	for _, n := range sizes {
		re := make([]float64, n)
		im := make([]float64, n)
		for i := range re {
			re[i] = rng.NormFloat64() * 10
		}

		fre, fim, err := FFT(re, im)
		if err != nil {
			t.Fatalf("n=%d: FFT error: %v", n, err)
		}
		rre, rim, err := IFFT(fre, fim)
		if err != nil {
			t.Fatalf("n=%d: IFFT error: %v", n, err)
		}

		// IFFT(FFT(v)) reproduces v in the first n samples (the rest
		// is the zero-padded tail up to Np).
		got := rre[:n]
		gotIm := rim[:n]

		tol := 1e-9 * maxAbs(re)
		if tol == 0 {
			tol = 1e-9
		}
		if d := maxAbsDiff(got, re); d > tol {
			t.Errorf("n=%d: round-trip real error %.3e exceeds tolerance %.3e", n, d, tol)
		}
		if d := maxAbs(gotIm); d > tol {
			t.Errorf("n=%d: round-trip imaginary residual %.3e exceeds tolerance %.3e", n, d, tol)
		}
	}
}

func TestEmptyInputFails(t *testing.T) {
	if _, _, err := FFT(nil, nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestApplyWindowLengths(t *testing.T) {
	data := make([]float64, 8)
	for i := range data {
		data[i] = 1
	}
	for _, w := range []Window{WindowNone, WindowHanning, WindowHamming, WindowBlackman} {
		out := ApplyWindow(data, w)
		if len(out) != len(data) {
			t.Fatalf("window %v: length changed", w)
		}
	}
	// Hanning window must taper to (near) zero at both ends.
	out := ApplyWindow(data, WindowHanning)
	if out[0] > 1e-9 || out[len(out)-1] > 1e-9 {
		t.Errorf("hanning window does not taper at edges: %v", out)
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 1024: 1024, 1025: 2048}
	for in, want := range cases {
		if got := NextPow2(in); got != want {
			t.Errorf("NextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}
