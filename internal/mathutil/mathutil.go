// Package mathutil collects small numeric helpers shared across the
// sibling domain packages, in the same role internal/fitcommon plays
// in the teacher repo.
package mathutil

import (
	"math"
	"sort"
)

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0, or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// NextPow2 returns the smallest power of two >= n (at least 1).
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// Variance returns the population variance of x around its own mean.
func Variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := Mean(x)
	var sum float64
	for _, v := range x {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(x))
}

// StdDev returns the population standard deviation of x.
func StdDev(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// RMS returns the root-mean-square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// MinMax returns the minimum and maximum of x.
func MinMax(x []float64) (min, max float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max = x[0], x[0]
	for _, v := range x[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// PeakToPeak returns max(x) - min(x).
func PeakToPeak(x []float64) float64 {
	min, max := MinMax(x)
	return max - min
}

// Stats holds Mean/StdDev/RMS/Min/Max/PeakToPeak and the sample count,
// as filled by ComputeStats, or by ComputeStatsExcludingZero for the
// legacy convention of excluding exactly-zero samples from versine
// vectors that include boundary zeros.
type Stats struct {
	Mean        float64
	StdDev      float64
	RMS         float64
	Min         float64
	Max         float64
	PeakToPeak  float64
	SampleCount int
}

// ComputeStats returns population statistics over x.
func ComputeStats(x []float64) Stats {
	min, max := MinMax(x)
	return Stats{
		Mean:        Mean(x),
		StdDev:      StdDev(x),
		RMS:         RMS(x),
		Min:         min,
		Max:         max,
		PeakToPeak:  max - min,
		SampleCount: len(x),
	}
}

// ComputeStatsExcludingZero is ComputeStats restricted to the
// non-zero-valued samples of x.
func ComputeStatsExcludingZero(x []float64) Stats {
	nonZero := make([]float64, 0, len(x))
	for _, v := range x {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}
	return ComputeStats(nonZero)
}

// Percentile returns the linear-interpolated p-th percentile (p in
// [0,100]) of x. x is copied and sorted; the input is not mutated.
func Percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SolveTridiagonal solves the tridiagonal system with sub-diagonal a,
// diagonal b, super-diagonal c, and right-hand side d, all length n,
// via the standard Thomas algorithm. a[0] and c[n-1] are ignored. The
// input slices are not mutated; the solution is returned as a new
// slice.
func SolveTridiagonal(a, b, c, d []float64) []float64 {
	n := len(d)
	if n == 0 {
		return nil
	}

	cPrime := make([]float64, n)
	dPrime := make([]float64, n)

	cPrime[0] = c[0] / b[0]
	dPrime[0] = d[0] / b[0]
	for i := 1; i < n; i++ {
		denom := b[i] - a[i]*cPrime[i-1]
		if denom == 0 {
			denom = 1e-12
		}
		if i < n-1 {
			cPrime[i] = c[i] / denom
		}
		dPrime[i] = (d[i] - a[i]*dPrime[i-1]) / denom
	}

	x := make([]float64, n)
	x[n-1] = dPrime[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dPrime[i] - cPrime[i]*x[i+1]
	}
	return x
}

// MovingAverageCentered applies a centred moving average of window
// width (odd, clamped to at least 1) over x, extending with edge
// values at the boundary, and returns a new slice.
func MovingAverageCentered(x []float64, width int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if width < 1 {
		width = 1
	}
	half := width / 2
	for i := 0; i < n; i++ {
		lo := i - half
		hi := i + half
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += x[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
