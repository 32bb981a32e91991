// Package invfilter designs and applies the inverse bandpass filter
// that undoes a chord-based measurement car's long-wavelength
// attenuation, per §4.2.
package invfilter

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/conv"
	"github.com/cwbudde/algo-trackplan/fft"
	"github.com/cwbudde/algo-trackplan/model"
)

const stage = "invfilter"

// DefaultLowerWavelength and DefaultUpperWavelength are the default
// 6-40 m bandpass endpoints.
const (
	DefaultLowerWavelength = 6.0
	DefaultUpperWavelength = 40.0
)

// directConvThreshold is the impulse-response length below which the
// direct O(N*M) sum is used instead of an FFT-accelerated overlap-save
// convolution; short kernels don't amortize the FFT setup cost,
// mirroring the fail-safe fallback shape of piano.SoundboardConvolver.
const directConvThreshold = 64

// Filter is a designed inverse-filter impulse response, ready to be
// applied to any series sampled at the same interval.
type Filter struct {
	Impulse          []float64
	SamplingInterval float64
	LowerWavelength  float64
	UpperWavelength  float64
}

// Design builds the impulse response for an N-sample series sampled
// at samplingInterval, passing wavelengths in [lambdaLower,
// lambdaUpper]. It implements §4.2 step 1-3: band mask in the
// frequency domain with Hermitian symmetry, then an inverse FFT
// truncated to N samples.
func Design(n int, samplingInterval, lambdaLower, lambdaUpper float64) (Filter, error) {
	if n <= 0 {
		return Filter{}, model.NewError(model.KindEmptyInput, stage, "zero-length series")
	}
	if lambdaLower <= 0 || lambdaUpper <= 0 || lambdaLower >= lambdaUpper {
		return Filter{}, model.NewError(model.KindInvalidBand, stage, "invalid band [%g,%g]", lambdaLower, lambdaUpper)
	}
	if samplingInterval <= 0 {
		samplingInterval = model.DefaultSamplingInterval
	}

	np := fft.NextPow2(n)

	kLow := int(math.Ceil(float64(np) * samplingInterval / lambdaUpper))
	if kLow < 1 {
		kLow = 1
	}
	kHigh := int(math.Floor(float64(np) * samplingInterval / lambdaLower))
	if kHigh > np/2 {
		kHigh = np / 2
	}

	maskRe := make([]float64, np)
	maskIm := make([]float64, np)
	for k := kLow; k <= kHigh && k <= np/2; k++ {
		maskRe[k] = 1
		mirror := np - k
		if mirror != k && mirror >= 0 && mirror < np {
			maskRe[mirror] = 1 // real mask: Hermitian conjugate of a real value is itself
		}
	}

	impRe, _, err := fft.IFFT(maskRe, maskIm)
	if err != nil {
		return Filter{}, model.WithStage(err, stage)
	}

	impulse := make([]float64, n)
	copy(impulse, impRe[:n])

	return Filter{
		Impulse:          impulse,
		SamplingInterval: samplingInterval,
		LowerWavelength:  lambdaLower,
		UpperWavelength:  lambdaUpper,
	}, nil
}

// Apply convolves series against the filter's impulse response with
// left zero-extension, returning the restored waveform truncated to
// len(series). This is §4.2's application step: x[n] = sum_k I[k]
// y[n-k], zero-extended for n-k < 0, which is exactly the first N
// samples of the full linear convolution of y with I.
func Apply(series model.Series, filt Filter) (model.Series, error) {
	n := series.Len()
	if n == 0 {
		return model.Series{}, model.NewError(model.KindEmptyInput, stage, "empty series")
	}

	var full []float64
	var err error
	if len(filt.Impulse) >= directConvThreshold {
		full, err = convolveOverlapSave(series.Values, filt.Impulse)
	}
	if err != nil || len(filt.Impulse) < directConvThreshold {
		full = convolveDirect(series.Values, filt.Impulse)
	}

	restored := make([]float64, n)
	copy(restored, full[:n])
	return series.WithValues(restored), nil
}

// convolveOverlapSave applies the FFT-accelerated overlap-save
// convolver from algo-dsp, the same engine piano.SoundboardConvolver
// wires in for IR convolution, truncated to the causal linear
// convolution length.
func convolveOverlapSave(x, h []float64) ([]float64, error) {
	cv, err := conv.NewOverlapSave(h, 0)
	if err != nil {
		return nil, err
	}
	return cv.Process(x)
}

// convolveDirect computes the full linear convolution of x and h by
// direct summation, used for short impulse responses where an FFT
// block would not pay for itself.
func convolveDirect(x, h []float64) []float64 {
	n, m := len(x), len(h)
	out := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		for k := 0; k < m; k++ {
			out[i+k] += xi * h[k]
		}
	}
	return out
}
