// Package versine computes mid-chord offsets (versines) and
// theoretical versines from curve geometry, per §4.3.
package versine

import (
	"math"

	"github.com/cwbudde/algo-trackplan/curvemodel"
	"github.com/cwbudde/algo-trackplan/internal/mathutil"
	"github.com/cwbudde/algo-trackplan/model"
)

const stage = "versine"

// ChordTag names a standard measurement chord length.
type ChordTag string

const (
	Chord10m ChordTag = "10m"
	Chord20m ChordTag = "20m"
	Chord40m ChordTag = "40m"
)

// StandardChordLength returns the chord length in metres for a
// standard tag, or 0/false if tag is not one of the standard chords.
func StandardChordLength(tag ChordTag) (float64, bool) {
	switch tag {
	case Chord10m:
		return 10, true
	case Chord20m:
		return 20, true
	case Chord40m:
		return 40, true
	default:
		return 0, false
	}
}

// MidChordOffset computes the measured versine of series at chord
// length L: V[i] = (y[i-h]+y[i+h])/2 - y[i], with h =
// round((L/2)/Δd); boundary samples (i<h or i+h>=N) are 0.
func MidChordOffset(series model.Series, chordLength float64) (model.Series, error) {
	n := series.Len()
	if n == 0 {
		return model.Series{}, model.NewError(model.KindEmptyInput, stage, "empty series")
	}
	if chordLength <= 0 {
		return model.Series{}, model.NewError(model.KindUnknown, stage, "chord length must be > 0")
	}

	h := int(math.Round((chordLength / 2) / series.SamplingInterval))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i-h < 0 || i+h >= n {
			out[i] = 0
			continue
		}
		out[i] = (series.Values[i-h]+series.Values[i+h])/2 - series.Values[i]
	}
	return series.WithValues(out), nil
}

// TheoreticalVersine evaluates the theoretical versine at chord length
// L for every sample position of series, using curve geometry from m.
// Outside any curve element the versine is 0; inside a circular
// element V = 1000*L^2/(8R) mm (L in metres). Inside a transition
// element a clothoid uses the circular formula at the local radius
// from curvemodel.LocalRadius (R/p), with no further weight; a cubic
// scales the circular-section versine by the curvemodel.TransitionWeight
// smoothstep, and a linear transition scales it by p.
func TheoreticalVersine(series model.Series, chordLength float64, cm *curvemodel.Model) (model.Series, error) {
	n := series.Len()
	if n == 0 {
		return model.Series{}, model.NewError(model.KindEmptyInput, stage, "empty series")
	}
	if chordLength <= 0 {
		return model.Series{}, model.NewError(model.KindUnknown, stage, "chord length must be > 0")
	}

	out := make([]float64, n)
	for i, pos := range series.Positions {
		e, ok := cm.ElementAt(pos)
		if !ok {
			out[i] = 0
			continue
		}
		if e.Transition == nil {
			out[i] = circularVersine(chordLength, e.Radius)
			continue
		}

		vMax := circularVersine(chordLength, e.Radius)
		p := fractionAlong(e, pos)
		switch e.Transition.Type {
		case model.TransitionClothoid:
			r, _ := cm.LocalRadius(pos)
			out[i] = circularVersine(chordLength, r)
		case model.TransitionCubic:
			out[i] = curvemodel.TransitionWeight(model.TransitionCubic, p) * vMax
		default: // linear
			out[i] = p * vMax
		}
	}
	return series.WithValues(out), nil
}

// circularVersine returns the theoretical mid-chord versine in mm for
// a circular arc of radius R (metres) and chord L (metres).
func circularVersine(chordLength, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return 1000 * chordLength * chordLength / (8 * radius)
}

func fractionAlong(e model.CurveElement, pos float64) float64 {
	if e.Transition == nil || e.Transition.Length <= 0 {
		return 1
	}
	p := (pos - e.StartPos) / e.Transition.Length
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// CantRamp evaluates the linear/smoothstep cant ramp at pos for the
// curve element covering it via cm.CantAt; ok is false outside any
// element.
func CantRamp(cm *curvemodel.Model, pos float64) (float64, bool) {
	return cm.CantAt(pos)
}

// CorrectionRateMin and CorrectionRateMax bound the multiplicative
// measurement-car correction rate. Per the Open Questions in §9, the
// [0.8,1.3] clamp is resolved as authoritative, not merely advisory.
const (
	CorrectionRateMin = 0.8
	CorrectionRateMax = 1.3
)

// ApplyCorrectionRate scales series by rate, clamped unconditionally
// into [CorrectionRateMin, CorrectionRateMax].
func ApplyCorrectionRate(series model.Series, rate float64) model.Series {
	rate = mathutil.Clamp(rate, CorrectionRateMin, CorrectionRateMax)
	out := make([]float64, series.Len())
	for i, v := range series.Values {
		out[i] = v * rate
	}
	return series.WithValues(out)
}

// Statistics computes population statistics over a versine series,
// excluding exactly-zero samples per the legacy convention (boundary
// and outside-curve samples are structural zeros, not measurements).
func Statistics(series model.Series) mathutil.Stats {
	return mathutil.ComputeStatsExcludingZero(series.Values)
}
