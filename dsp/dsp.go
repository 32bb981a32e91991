// Package dsp provides fractional-sample interpolation for shifting a
// longitudinal series by a distance that is not an exact multiple of
// the sampling interval.
package dsp

import "math"

// ShiftFractional shifts x by shiftSamples samples (positive toward
// higher indices), linearly interpolating when shiftSamples is not an
// integer, zero-filling positions that fall outside the original
// series. Used to apply an MTT front offset that does not land on an
// exact multiple of the sampling interval.
func ShiftFractional(x []float64, shiftSamples float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	whole := math.Floor(shiftSamples)
	frac := shiftSamples - whole
	wholeInt := int(whole)

	at := func(idx int) float64 {
		if idx < 0 || idx >= n {
			return 0
		}
		return x[idx]
	}

	for i := 0; i < n; i++ {
		src := i - wholeInt
		a := at(src)
		b := at(src - 1)
		out[i] = a + frac*(b-a)
	}
	return out
}
