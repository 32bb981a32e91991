package model

import "math"

// DefaultSamplingInterval is the default longitudinal spacing in
// metres between adjacent samples.
const DefaultSamplingInterval = 0.25

// SamplingTolerance is the maximum allowed deviation, in metres,
// between a sample's actual spacing and SamplingInterval before the
// series is rejected as non-uniform.
const SamplingTolerance = 1e-3

// Channel tags which physical quantity a Series carries. It replaces
// the legacy value-fallback-chain shape ("versine || alignment || 0")
// with a single fixed shape per the Design Notes.
type Channel int

const (
	ChannelLevel Channel = iota
	ChannelAlignment
	ChannelCant
	ChannelGauge
)

func (c Channel) String() string {
	switch c {
	case ChannelLevel:
		return "level"
	case ChannelAlignment:
		return "alignment"
	case ChannelCant:
		return "cant"
	case ChannelGauge:
		return "gauge"
	default:
		return "unknown"
	}
}

// Series is a finite ordered sequence of uniformly spaced longitudinal
// samples: Positions[i] in metres, Values[i] in mm.
type Series struct {
	Positions        []float64
	Values           []float64
	SamplingInterval float64
	Channel          Channel
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Values) }

// NewSeries validates and constructs a Series from parallel position
// and value slices, enforcing the §3 invariants: strictly increasing
// positions, uniform spacing within SamplingTolerance, and finite
// values.
func NewSeries(positions, values []float64, channel Channel) (Series, error) {
	const stage = "model.NewSeries"
	if len(positions) == 0 || len(values) == 0 {
		return Series{}, NewError(KindEmptyInput, stage, "empty series")
	}
	if len(positions) != len(values) {
		return Series{}, NewError(KindUnknown, stage, "positions and values length mismatch: %d vs %d", len(positions), len(values))
	}

	var interval float64
	if len(positions) > 1 {
		interval = positions[1] - positions[0]
	} else {
		interval = DefaultSamplingInterval
	}
	if interval <= 0 {
		return Series{}, NewError(KindNonUniformSampling, stage, "non-positive sample spacing %g", interval)
	}

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Series{}, NewError(KindUnknown, stage, "non-finite value at index %d", i)
		}
		if i > 0 {
			gap := positions[i] - positions[i-1]
			if gap <= 0 {
				return Series{}, NewError(KindNonUniformSampling, stage, "positions not strictly increasing at index %d", i)
			}
			if math.Abs(gap-interval) > SamplingTolerance {
				return Series{}, NewError(KindNonUniformSampling, stage, "spacing %g at index %d deviates from %g by more than %g", gap, i, interval, SamplingTolerance)
			}
		}
	}

	return Series{
		Positions:        append([]float64(nil), positions...),
		Values:           append([]float64(nil), values...),
		SamplingInterval: interval,
		Channel:          channel,
	}, nil
}

// NewUniformSeries builds a Series from values alone, synthesising
// positions 0, Δd, 2Δd, ... This is the common case for in-memory
// pipeline inputs that are already known-uniform.
func NewUniformSeries(values []float64, samplingInterval float64, channel Channel) (Series, error) {
	const stage = "model.NewUniformSeries"
	if len(values) == 0 {
		return Series{}, NewError(KindEmptyInput, stage, "empty series")
	}
	if samplingInterval <= 0 {
		samplingInterval = DefaultSamplingInterval
	}
	positions := make([]float64, len(values))
	for i := range values {
		positions[i] = float64(i) * samplingInterval
	}
	return NewSeries(positions, values, channel)
}

// WithValues returns a copy of s with Values replaced; Positions,
// SamplingInterval and Channel are preserved. Used by downstream
// stages that produce a same-shape series (restored waveform, plan
// line, predicted waveform).
func (s Series) WithValues(values []float64) Series {
	return Series{
		Positions:        s.Positions,
		Values:           values,
		SamplingInterval: s.SamplingInterval,
		Channel:          s.Channel,
	}
}

// DualSeries pairs a level (vertical) and lateral (alignment) series
// of equal length and sampling, the "Both" case of the Design Notes'
// tagged-variant redesign. Vertical and lateral are processed as two
// independent same-shape pipeline passes.
type DualSeries struct {
	Level   Series
	Lateral Series
}
