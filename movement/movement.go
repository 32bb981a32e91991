// Package movement derives per-sample movement/predicted vectors,
// improvement statistics, movement-limit violators, peaks, and
// work-section partitions from a restored/plan pair, per §4.6.
package movement

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-trackplan/internal/mathutil"
	"github.com/cwbudde/algo-trackplan/model"
)

const stage = "movement"

// DefaultWindowSize is the default local-extremum search radius for
// PeakExtractor.
const DefaultWindowSize = 10

// DefaultPeakCount is the number of top peaks reported.
const DefaultPeakCount = 10

// Vectors holds the per-sample derived movement and predicted series
// alongside the improvement rate computed from their statistics.
type Vectors struct {
	Movement        []float64
	Predicted       []float64
	ImprovementRate float64
}

// Derive computes movement[i]=plan[i]-restored[i] and
// predicted[i]=restored[i]+movement[i] (identically plan, exposed for
// stages that may perturb movement post-hoc), and the improvement
// rate (σ_restored−σ_predicted)/σ_restored·100, 0 when σ_restored==0.
func Derive(restored model.Series, plan []float64) (Vectors, error) {
	if restored.Len() != len(plan) {
		return Vectors{}, model.NewError(model.KindUnknown, stage, "length mismatch: restored=%d plan=%d", restored.Len(), len(plan))
	}
	n := restored.Len()
	if n == 0 {
		return Vectors{}, model.NewError(model.KindEmptyInput, stage, "empty series")
	}

	movement := make([]float64, n)
	predicted := make([]float64, n)
	for i := range movement {
		movement[i] = plan[i] - restored.Values[i]
		predicted[i] = restored.Values[i] + movement[i]
	}

	sigmaRestored := mathutil.StdDev(restored.Values)
	var rate float64
	if sigmaRestored != 0 {
		sigmaPredicted := mathutil.StdDev(predicted)
		rate = (sigmaRestored - sigmaPredicted) / sigmaRestored * 100
	}

	return Vectors{Movement: movement, Predicted: predicted, ImprovementRate: rate}, nil
}

// Violators groups movement-limit breaches into standard- and
// maximum-exceeded buckets, by sample index.
type Violators struct {
	StandardExceeded []int
	MaximumExceeded  []int
}

// FindViolators classifies every movement against the standard and
// maximum absolute thresholds.
func FindViolators(movements []float64, standard, maximum float64) Violators {
	var v Violators
	for i, m := range movements {
		abs := math.Abs(m)
		if abs > standard {
			v.StandardExceeded = append(v.StandardExceeded, i)
		}
		if abs > maximum {
			v.MaximumExceeded = append(v.MaximumExceeded, i)
		}
	}
	return v
}

// Peak is one local extremum of a movement series.
type Peak struct {
	Index int
	Value float64
}

// ExtractPeaks reports up to DefaultPeakCount local extrema: a sample
// whose |value| strictly exceeds |value| of every sample within
// ±windowSize, sorted descending by |value|. windowSize<=0 defaults to
// DefaultWindowSize.
func ExtractPeaks(values []float64, windowSize int) []Peak {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	n := len(values)
	var peaks []Peak
	for i := 0; i < n; i++ {
		abs := math.Abs(values[i])
		isPeak := true
		for j := i - windowSize; j <= i+windowSize; j++ {
			if j < 0 || j >= n || j == i {
				continue
			}
			if math.Abs(values[j]) >= abs {
				isPeak = false
				break
			}
		}
		if isPeak {
			peaks = append(peaks, Peak{Index: i, Value: values[i]})
		}
	}
	sort.Slice(peaks, func(a, b int) bool {
		return math.Abs(peaks[a].Value) > math.Abs(peaks[b].Value)
	})
	if len(peaks) > DefaultPeakCount {
		peaks = peaks[:DefaultPeakCount]
	}
	return peaks
}

// WorkSection is a contiguous run of samples, none of which exceeds
// maxMovement, with its peak and mean absolute movement.
type WorkSection struct {
	StartIndex int
	EndIndex   int
	Max        float64
	Mean       float64
}

// PartitionWorkSections splits movements into contiguous runs such
// that no sample in a run exceeds maxMovement; a sample that itself
// exceeds maxMovement cannot belong to any valid run and is emitted as
// its own single-sample section instead.
func PartitionWorkSections(movements []float64, maxMovement float64) []WorkSection {
	n := len(movements)
	var sections []WorkSection
	start := 0
	for start < n {
		end := start + 1
		if math.Abs(movements[start]) <= maxMovement {
			for end < n && math.Abs(movements[end]) <= maxMovement {
				end++
			}
		}

		var sum, peak float64
		for k := start; k < end; k++ {
			abs := math.Abs(movements[k])
			if abs > peak {
				peak = abs
			}
			sum += abs
		}
		sections = append(sections, WorkSection{
			StartIndex: start,
			EndIndex:   end - 1,
			Max:        peak,
			Mean:       sum / float64(end-start),
		})
		start = end
	}
	return sections
}
