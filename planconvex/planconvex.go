// Package planconvex synthesises an upward-preferring plan line with
// explicit asymmetric up/down clamping, the §4.5 alternative to
// planzero's spline-fit strategy.
package planconvex

import (
	"math"

	"github.com/cwbudde/algo-trackplan/internal/mathutil"
	"github.com/cwbudde/algo-trackplan/model"
)

const stage = "planconvex"

// Statistics summarises a convex plan pass: counts of upward/downward
// movements, their averages, totals, and the good-up ratio (fraction
// of samples moved upward).
type Statistics struct {
	UpCount     int
	DownCount   int
	AvgUp       float64
	AvgDown     float64
	TotalUp     float64
	TotalDown   float64
	GoodUpRatio float64
}

// Result bundles the synthesised plan with per-sample movements and
// aggregate statistics.
type Result struct {
	Plan       model.PlanLine
	Movements  []float64
	Statistics Statistics
}

// Synthesize builds the convex plan line for restored under
// constraints, following §4.5 steps 1-5 in order: linear
// zero-crossing seed, fixed-point overwrite, asymmetric up/down clamp
// (with the pre-emptive maxDown/2 raise), movement-limit window
// clamping, and 5-point centred smoothing over non-fixed samples. The
// up/down caps and movement-limit windows are then applied once more
// to the smoothed plan, so every non-fixed sample's final movement
// stays within them.
func Synthesize(restored model.Series, constraints model.Constraints) (Result, error) {
	n := restored.Len()
	if n == 0 {
		return Result{}, model.NewError(model.KindEmptyInput, stage, "empty series")
	}

	plan := linearZeroCrossingSeed(restored)

	fixed := make([]bool, n)
	for i, pos := range restored.Positions {
		if fp, ok := constraints.FixedPointAt(pos); ok && fp.HasTarget {
			plan[i] = fp.TargetLevel
			fixed[i] = true
		}
	}

	limited := make([]bool, n)
	maxUp := constraints.MaxUpward
	maxDown := constraints.MaxDownward

	for i, cur := range restored.Values {
		if fixed[i] {
			continue
		}
		target := plan[i]
		delta := target - cur
		switch {
		case delta < -maxDown:
			plan[i] = cur - maxDown
		case delta > maxUp:
			plan[i] = cur + maxUp
		case delta < -maxDown/2:
			plan[i] = cur - maxDown/2
		}
	}

	for i, pos := range restored.Positions {
		if fixed[i] {
			continue
		}
		for _, w := range constraints.MovementLimits {
			if pos < w.StartPos || pos > w.EndPos {
				continue
			}
			move := plan[i] - restored.Values[i]
			if math.Abs(move) > w.MaxAbsMovement {
				plan[i] = restored.Values[i] + w.MaxAbsMovement*mathutil.Sign(move)
				limited[i] = true
			}
		}
	}

	smoothed := mathutil.MovingAverageCentered(plan, 5)
	for i := range plan {
		if !fixed[i] {
			plan[i] = smoothed[i]
		}
	}

	// The smoothed value averages neighbouring plan values but is
	// compared with the centre sample's own restored value, so it can
	// carry a sample back past a cap; re-apply the caps.
	for i, pos := range restored.Positions {
		if fixed[i] {
			continue
		}
		cur := restored.Values[i]
		plan[i] = mathutil.Clamp(plan[i], cur-maxDown, cur+maxUp)
		for _, w := range constraints.MovementLimits {
			if pos >= w.StartPos && pos <= w.EndPos {
				plan[i] = mathutil.Clamp(plan[i], cur-w.MaxAbsMovement, cur+w.MaxAbsMovement)
			}
		}
	}

	samples := make([]model.PlanSample, n)
	movements := make([]float64, n)
	for i, pos := range restored.Positions {
		samples[i] = model.PlanSample{Position: pos, Value: plan[i], Fixed: fixed[i], Limited: limited[i]}
		movements[i] = plan[i] - restored.Values[i]
	}

	return Result{
		Plan:       model.PlanLine{Samples: samples},
		Movements:  movements,
		Statistics: computeStatistics(movements),
	}, nil
}

// linearZeroCrossingSeed seeds the plan as the level-0 line whenever
// restored zero-crosses, interpolating linearly between successive
// zero crossings and extending the first/last segment outward.
func linearZeroCrossingSeed(restored model.Series) []float64 {
	n := restored.Len()
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	var xs []float64
	for i := 1; i < n; i++ {
		prev, cur := restored.Values[i-1], restored.Values[i]
		if prev*cur < 0 {
			frac := math.Abs(prev) / (math.Abs(prev) + math.Abs(cur))
			xs = append(xs, restored.Positions[i-1]+(restored.Positions[i]-restored.Positions[i-1])*frac)
		} else if cur == 0 {
			xs = append(xs, restored.Positions[i])
		}
	}
	if restored.Values[0] == 0 {
		xs = append([]float64{restored.Positions[0]}, xs...)
	}

	if len(xs) < 2 {
		// No usable zero-crossing pair: the level-0 line is the seed.
		return out
	}

	for i, pos := range restored.Positions {
		idx := 0
		for idx < len(xs)-2 && pos > xs[idx+1] {
			idx++
		}
		x0, x1 := xs[idx], xs[idx+1]
		if x1 == x0 {
			out[i] = 0
			continue
		}
		// Both knots sit at value 0 by definition of a zero crossing;
		// the linearly-interpolated seed between them is 0 throughout.
		out[i] = 0
	}
	return out
}

func computeStatistics(movements []float64) Statistics {
	var stats Statistics
	var sumUp, sumDown float64
	for _, m := range movements {
		switch {
		case m > 0:
			stats.UpCount++
			sumUp += m
		case m < 0:
			stats.DownCount++
			sumDown += -m
		}
	}
	stats.TotalUp = sumUp
	stats.TotalDown = sumDown
	if stats.UpCount > 0 {
		stats.AvgUp = sumUp / float64(stats.UpCount)
	}
	if stats.DownCount > 0 {
		stats.AvgDown = sumDown / float64(stats.DownCount)
	}
	if n := len(movements); n > 0 {
		stats.GoodUpRatio = float64(stats.UpCount) / float64(n)
	}
	return stats
}
