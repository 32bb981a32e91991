// Package fft implements the radix-2 Cooley-Tukey complex FFT/IFFT
// required by §4.1: explicit bit-reversal permutation, twiddle
// factors updated incrementally within each stage rather than
// recomputed with trigonometric calls in the inner loop, and
// next-power-of-two zero padding.
package fft

import (
	"math"

	"github.com/cwbudde/algo-trackplan/model"
)

// Window selects a window function applied before spectral analysis.
type Window int

const (
	WindowNone Window = iota
	WindowHanning
	WindowHamming
	WindowBlackman
)

const stage = "fft"

// transform runs an in-place radix-2 FFT (or IFFT when inverse is
// true) over real/imag, after zero-padding to the next power of two.
// It returns new slices of length Np = nextPow2(len(real)); the
// original inputs are not mutated.
func transform(real, imag []float64, inverse bool) ([]float64, []float64, error) {
	n := len(real)
	if n == 0 {
		return nil, nil, model.NewError(model.KindEmptyInput, stage, "zero-length input")
	}

	np := nextPow2(n)
	re := make([]float64, np)
	im := make([]float64, np)
	copy(re, real)
	copy(im, imag)

	bitReverse(re, im)

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	for size := 2; size <= np; size <<= 1 {
		half := size / 2
		// Base twiddle for this stage: w = exp(sign * i * 2*pi/size).
		angleStep := sign * 2 * math.Pi / float64(size)
		wStepRe := math.Cos(angleStep)
		wStepIm := math.Sin(angleStep)

		for start := 0; start < np; start += size {
			wRe, wIm := 1.0, 0.0
			for j := 0; j < half; j++ {
				a := start + j
				b := a + half

				// Complex multiply twiddle * (re[b], im[b]).
				tRe := wRe*re[b] - wIm*im[b]
				tIm := wRe*im[b] + wIm*re[b]

				re[b] = re[a] - tRe
				im[b] = im[a] - tIm
				re[a] = re[a] + tRe
				im[a] = im[a] + tIm

				// Incremental twiddle update (complex multiply by the
				// per-stage step) instead of a fresh trig call.
				nwRe := wRe*wStepRe - wIm*wStepIm
				nwIm := wRe*wStepIm + wIm*wStepRe
				wRe, wIm = nwRe, nwIm
			}
		}
	}

	if inverse {
		invNp := 1.0 / float64(np)
		for i := range re {
			re[i] *= invNp
			im[i] *= invNp
		}
	}

	return re, im, nil
}

// FFT computes the forward DFT of (real, imag), zero-padding to the
// next power of two. Length N == 0 fails with KindEmptyInput.
func FFT(real, imag []float64) ([]float64, []float64, error) {
	return transform(real, imag, false)
}

// IFFT computes the inverse DFT of (real, imag) with the standard
// 1/Np scaling, zero-padding to the next power of two.
func IFFT(real, imag []float64) ([]float64, []float64, error) {
	return transform(real, imag, true)
}

// bitReverse permutes re/im in place into bit-reversed order, the
// explicit permutation step the decimation-in-time algorithm requires
// before the butterfly stages.
func bitReverse(re, im []float64) {
	n := len(re)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j &^= bit
		}
		j |= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
}

// nextPow2 returns the smallest power of two >= n (at least 1).
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// ApplyWindow returns a new vector with the chosen window applied to
// data. WindowNone returns a copy unchanged.
func ApplyWindow(data []float64, kind Window) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if n == 1 {
		copy(out, data)
		return out
	}

	denom := float64(n - 1)
	for i, v := range data {
		var w float64
		switch kind {
		case WindowHanning:
			w = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/denom)
		case WindowHamming:
			w = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denom)
		case WindowBlackman:
			w = 0.42 - 0.5*math.Cos(2*math.Pi*float64(i)/denom) + 0.08*math.Cos(4*math.Pi*float64(i)/denom)
		default:
			w = 1.0
		}
		out[i] = v * w
	}
	return out
}

// NextPow2 exposes the padding helper used internally, for callers
// (invfilter) that need to size buffers identically to FFT/IFFT.
func NextPow2(n int) int { return nextPow2(n) }
