// Package mtt derives front-offset-optimised, capacity-clamped
// guidance for a maintenance-tamper machine from a movement series,
// per §4.7.
package mtt

import (
	"math"

	"github.com/cwbudde/algo-trackplan/dsp"
	"github.com/cwbudde/algo-trackplan/internal/mathutil"
	"github.com/cwbudde/algo-trackplan/model"
)

const stage = "mtt"

// Objective selects the quantity the front-offset grid search
// minimises.
type Objective int

const (
	ObjectiveEnergy Objective = iota
	ObjectivePeak
	ObjectiveRMS
)

// Options configures a guidance pass.
type Options struct {
	Direction        model.MTTDirection
	SearchRange      float64
	Step             float64
	Objective        Objective
	SamplingInterval float64
}

// DefaultOptions returns a ±5 m search at a 0.5 m step minimising
// total energy, at the standard 0.25 m sampling interval.
func DefaultOptions() Options {
	return Options{
		Direction:        model.MTTForward,
		SearchRange:      5,
		Step:             0.5,
		Objective:        ObjectiveEnergy,
		SamplingInterval: model.DefaultSamplingInterval,
	}
}

// Result bundles the offset-optimised, capacity-clamped correction and
// its derived efficiency figures and recommendations.
type Result struct {
	Offset          float64
	Tamping         []float64
	Lining          []float64
	CapacityLimited []bool
	Efficiency      Efficiency
	Recommendations []string
}

// Efficiency is §4.7 step 3's derived pass-efficiency summary.
type Efficiency struct {
	TotalLength   float64
	EstimatedTime float64
	LimitedRatio  float64
	TampingCycles int
}

// Guide runs the §4.7 sequence: grid-search the front offset, apply
// the per-sample direction shift, correction-factor scaling and
// capacity clamp at the winning offset, then derive efficiency and
// recommendations.
func Guide(tampingIn, liningIn []float64, profile model.MTTProfile, opts Options) (Result, error) {
	if err := profile.Validate(); err != nil {
		return Result{}, model.WithStage(err, stage)
	}
	if len(tampingIn) != len(liningIn) {
		return Result{}, model.NewError(model.KindUnknown, stage, "tamping/lining length mismatch: %d vs %d", len(tampingIn), len(liningIn))
	}
	n := len(tampingIn)
	if n == 0 {
		return Result{}, model.NewError(model.KindEmptyInput, stage, "empty movement series")
	}
	if opts.Step <= 0 {
		opts.Step = 0.5
	}
	if opts.SamplingInterval <= 0 {
		opts.SamplingInterval = model.DefaultSamplingInterval
	}

	offset := optimizeFrontOffset(tampingIn, liningIn, profile, opts)
	tamping, lining, limited := applyCorrection(tampingIn, liningIn, profile, offset, opts)

	eff := deriveEfficiency(n, opts.SamplingInterval, profile, limited)
	recs := recommendations(tamping, lining, profile, eff)

	return Result{
		Offset:          offset,
		Tamping:         tamping,
		Lining:          lining,
		CapacityLimited: limited,
		Efficiency:      eff,
		Recommendations: recs,
	}, nil
}

// optimizeFrontOffset grid-searches offset in
// [P.frontOffset-searchRange, P.frontOffset+searchRange] at opts.Step,
// evaluating the chosen objective over the fully-corrected result at
// each candidate and selecting the minimiser (ties favour the smaller
// offset, found first by the ascending scan).
func optimizeFrontOffset(tamping, lining []float64, profile model.MTTProfile, opts Options) float64 {
	lo := profile.FrontOffset - opts.SearchRange
	hi := profile.FrontOffset + opts.SearchRange

	best := profile.FrontOffset
	bestScore := math.Inf(1)
	for offset := lo; offset <= hi+1e-9; offset += opts.Step {
		t, l, _ := applyCorrection(tamping, lining, profile, offset, opts)
		score := objectiveValue(opts.Objective, t, l)
		if score < bestScore {
			bestScore = score
			best = offset
		}
	}
	return best
}

func objectiveValue(obj Objective, tamping, lining []float64) float64 {
	switch obj {
	case ObjectivePeak:
		var peak float64
		for _, v := range tamping {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
		for _, v := range lining {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
		return peak
	case ObjectiveRMS:
		combined := make([]float64, 0, len(tamping)+len(lining))
		combined = append(combined, tamping...)
		combined = append(combined, lining...)
		return mathutil.RMS(combined)
	default: // energy
		var sum float64
		for i := range tamping {
			sum += tamping[i]*tamping[i] + lining[i]*lining[i]
		}
		return sum
	}
}

// applyCorrection shifts tamping/lining by offset (forward shifts
// toward higher indices, backward toward lower, zero-filling the
// vacated end), scales by the profile's correction factors, and
// clamps to the lift/alignment capacities. The shift is applied at
// fractional-sample precision so an offset that does not land on an
// exact multiple of the sampling interval is still honoured exactly,
// rather than rounded to the nearest sample.
func applyCorrection(tampingIn, liningIn []float64, profile model.MTTProfile, offset float64, opts Options) (tamping, lining []float64, limited []bool) {
	n := len(tampingIn)
	shiftSamples := offset / opts.SamplingInterval
	if opts.Direction == model.MTTBackward {
		shiftSamples = -shiftSamples
	}

	shiftedTamping := dsp.ShiftFractional(tampingIn, shiftSamples)
	shiftedLining := dsp.ShiftFractional(liningIn, shiftSamples)

	tamping = make([]float64, n)
	lining = make([]float64, n)
	limited = make([]bool, n)
	for i := 0; i < n; i++ {
		t := shiftedTamping[i] * profile.CorrectionFactors.Level
		l := shiftedLining[i] * profile.CorrectionFactors.Alignment

		var clippedT, clippedL bool
		if math.Abs(t) > profile.LiftCapacity {
			t = profile.LiftCapacity * mathutil.Sign(t)
			clippedT = true
		}
		if math.Abs(l) > profile.AlignmentCapacity {
			l = profile.AlignmentCapacity * mathutil.Sign(l)
			clippedL = true
		}

		tamping[i] = t
		lining[i] = l
		limited[i] = clippedT || clippedL
	}
	return tamping, lining, limited
}

func deriveEfficiency(n int, samplingInterval float64, profile model.MTTProfile, limited []bool) Efficiency {
	totalLength := float64(n) * samplingInterval / 1000
	estimatedTime := totalLength / profile.WorkingSpeed

	var limitedCount int
	for _, l := range limited {
		if l {
			limitedCount++
		}
	}
	limitedRatio := float64(limitedCount) / float64(n)

	tampingCycles := int(math.Ceil(totalLength * 1000 / (profile.TampingUnits * 0.6)))

	return Efficiency{
		TotalLength:   totalLength,
		EstimatedTime: estimatedTime,
		LimitedRatio:  limitedRatio,
		TampingCycles: tampingCycles,
	}
}

func recommendations(tamping, lining []float64, profile model.MTTProfile, eff Efficiency) []string {
	var recs []string
	if eff.LimitedRatio > 0.20 {
		recs = append(recs, "more than 20% of samples are capacity-limited; consider a multi-pass correction")
	}
	_, maxTamping := mathutil.MinMax(absAll(tamping))
	if maxTamping > 0.9*profile.LiftCapacity {
		recs = append(recs, "peak tamping approaches lift capacity; verify machine setup before the pass")
	}
	_, maxLining := mathutil.MinMax(absAll(lining))
	if maxLining > 0.9*profile.AlignmentCapacity {
		recs = append(recs, "peak lining approaches alignment capacity; verify machine setup before the pass")
	}
	return recs
}

func absAll(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v)
	}
	return out
}
