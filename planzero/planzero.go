// Package planzero synthesises a plan line that passes through the
// "natural" zeros of a restored waveform, per §4.4.
package planzero

import (
	"math"

	"github.com/cwbudde/algo-approx"
	"github.com/cwbudde/algo-trackplan/internal/mathutil"
	"github.com/cwbudde/algo-trackplan/model"
)

const stage = "planzero"

// InterpolationKind selects how the plan line is threaded through
// detected zero crossings.
type InterpolationKind int

const (
	InterpolationSpline InterpolationKind = iota
	InterpolationLinear
)

// Options configures plan-line synthesis.
type Options struct {
	Interpolation   InterpolationKind
	SmoothingWindow int
	MaxPasses       int
}

// DefaultOptions returns the natural-cubic-spline default with a
// smoothing window of 5 and 10 constraint-enforcement passes.
func DefaultOptions() Options {
	return Options{Interpolation: InterpolationSpline, SmoothingWindow: 5, MaxPasses: 10}
}

// Result bundles the synthesised plan with its reported (not
// enforced) quality score and any soft-failure warnings.
type Result struct {
	Plan         model.PlanLine
	QualityScore float64
	Warnings     []model.Warning
}

// DetectZeroCrossings walks adjacent sample pairs of restored, per
// §4.4 step 1: a sign change emits an ascending/descending crossing at
// the linearly interpolated zero position; an exact-zero sample emits
// an additional crossing; the first and last exact-zero samples also
// emit boundary markers.
func DetectZeroCrossings(restored model.Series) []model.ZeroCrossing {
	n := restored.Len()
	if n == 0 {
		return nil
	}
	var crossings []model.ZeroCrossing

	if restored.Values[0] == 0 {
		crossings = append(crossings, model.ZeroCrossing{
			Position: restored.Positions[0], Type: model.CrossingBoundaryStart, SourceIndex: 0,
		})
	}

	for i := 1; i < n; i++ {
		prev, cur := restored.Values[i-1], restored.Values[i]
		switch {
		case prev*cur < 0:
			frac := math.Abs(prev) / (math.Abs(prev) + math.Abs(cur))
			pos := restored.Positions[i-1] + (restored.Positions[i]-restored.Positions[i-1])*frac
			typ := model.CrossingDescending
			if prev < cur {
				typ = model.CrossingAscending
			}
			crossings = append(crossings, model.ZeroCrossing{Position: pos, Type: typ, SourceIndex: i - 1})
		case cur == 0:
			crossings = append(crossings, model.ZeroCrossing{Position: restored.Positions[i], Type: model.CrossingExact, SourceIndex: i})
		}
	}

	if restored.Values[n-1] == 0 {
		crossings = append(crossings, model.ZeroCrossing{
			Position: restored.Positions[n-1], Type: model.CrossingBoundaryEnd, SourceIndex: n - 1,
		})
	}
	return crossings
}

// Synthesize builds the zero-point plan line for restored under
// constraints and opts, per §4.4 steps 2-3 and the quality score
// formula.
func Synthesize(restored model.Series, constraints model.Constraints, opts Options) (Result, error) {
	n := restored.Len()
	if n == 0 {
		return Result{}, model.NewError(model.KindEmptyInput, stage, "empty series")
	}
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = 10
	}

	crossings := DetectZeroCrossings(restored)

	var baseline []float64
	if len(crossings) >= 2 {
		baseline = interpolateThroughCrossings(restored.Positions, crossings, opts.Interpolation)
	} else {
		window := opts.SmoothingWindow * 10
		maxWindow := n / 4
		if window > maxWindow {
			window = maxWindow
		}
		if window < 1 {
			window = 1
		}
		baseline = mathutil.MovingAverageCentered(restored.Values, window)
	}

	plan := append([]float64(nil), baseline...)
	fixed := make([]bool, n)
	for i, pos := range restored.Positions {
		if fp, ok := constraints.FixedPointAt(pos); ok && fp.HasTarget {
			plan[i] = fp.TargetLevel
			fixed[i] = true
		}
	}

	warnings := enforceConstraints(plan, fixed, restored, constraints, opts.MaxPasses)

	smoothed := mathutil.MovingAverageCentered(plan, 3)
	for i := range plan {
		if !fixed[i] {
			plan[i] = smoothed[i]
		}
	}

	samples := make([]model.PlanSample, n)
	for i, pos := range restored.Positions {
		samples[i] = model.PlanSample{Position: pos, Value: plan[i], Fixed: fixed[i]}
	}
	line := model.PlanLine{Samples: samples}

	score := QualityScore(line, restored)

	return Result{Plan: line, QualityScore: score, Warnings: warnings}, nil
}

// enforceConstraints runs up to maxPasses of §4.4 step 3 in place over
// plan, returning a DivergentConstraints warning if no pass converges.
func enforceConstraints(plan []float64, fixed []bool, restored model.Series, constraints model.Constraints, maxPasses int) []model.Warning {
	n := len(plan)
	for pass := 0; pass < maxPasses; pass++ {
		adjusted := false
		for i := 0; i < n; i++ {
			if fixed[i] {
				continue
			}
			pos := restored.Positions[i]
			m := plan[i] - restored.Values[i]
			limit := constraints.LimitAt(pos, m)
			if fp, ok := constraints.FixedPointAt(pos); ok {
				limit = math.Abs(fp.TargetLevel)
			}
			if limit <= 0 || math.Abs(m) <= limit {
				continue
			}
			adjusted = true
			sign := mathutil.Sign(m)
			target := 0.95 * limit * sign

			if constraints.UpwardPriority && m > 0 {
				excess := math.Abs(m) - 0.95*limit
				applyGaussianCorrection(plan, fixed, i, excess)
				continue
			}
			plan[i] = restored.Values[i] + target
		}
		if !adjusted {
			return nil
		}
	}
	return []model.Warning{{
		Kind: model.KindDivergentConstraints, Stage: stage,
		Message: "constraint enforcement did not converge within the allotted passes",
	}}
}

// applyGaussianCorrection spreads excess across the ±20-sample
// neighbourhood of i with Gaussian decay exp(-|Δ|/5), raising
// neighbouring plan values in place of lowering plan[i].
func applyGaussianCorrection(plan []float64, fixed []bool, i int, excess float64) {
	n := len(plan)
	for delta := -20; delta <= 20; delta++ {
		j := i + delta
		if j < 0 || j >= n || fixed[j] {
			continue
		}
		weight := float64(approx.FastExp(float32(-math.Abs(float64(delta)) / 5)))
		plan[j] += excess * weight
	}
}

// interpolateThroughCrossings threads a spline or piecewise-linear
// curve (always zero-valued at crossings, by definition of a zero
// crossing) through crossings, evaluated at positions. Samples before
// the first or after the last crossing extend that boundary segment.
func interpolateThroughCrossings(positions []float64, crossings []model.ZeroCrossing, kind InterpolationKind) []float64 {
	xs := make([]float64, len(crossings))
	ys := make([]float64, len(crossings))
	for i, c := range crossings {
		xs[i] = c.Position
	}

	out := make([]float64, len(positions))
	switch kind {
	case InterpolationLinear:
		for i, pos := range positions {
			out[i] = evalLinear(xs, ys, pos)
		}
	default:
		m := buildNaturalSpline(xs, ys)
		for i, pos := range positions {
			out[i] = evalSpline(xs, ys, m, pos)
		}
	}
	return out
}

// segmentIndex returns the index of the knot at the left end of the
// segment covering x, clamped to the valid segment range.
func segmentIndex(xs []float64, x float64) int {
	idx := 0
	for idx < len(xs)-2 && x > xs[idx+1] {
		idx++
	}
	return idx
}

func evalLinear(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return ys[0]
	}
	idx := segmentIndex(xs, x)
	x0, x1 := xs[idx], xs[idx+1]
	y0, y1 := ys[idx], ys[idx+1]
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// buildNaturalSpline solves for the second derivatives of a natural
// cubic spline (M[0]=M[n-1]=0) through (xs,ys) via the standard
// tridiagonal algorithm.
func buildNaturalSpline(xs, ys []float64) []float64 {
	n := len(xs)
	if n < 2 {
		return make([]float64, n)
	}
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	d := make([]float64, n)

	b[0] = 1
	for i := 1; i < n-1; i++ {
		hPrev := xs[i] - xs[i-1]
		hNext := xs[i+1] - xs[i]
		a[i] = hPrev
		b[i] = 2 * (hPrev + hNext)
		c[i] = hNext
		d[i] = 6 * ((ys[i+1]-ys[i])/hNext - (ys[i]-ys[i-1])/hPrev)
	}
	b[n-1] = 1

	return mathutil.SolveTridiagonal(a, b, c, d)
}

func evalSpline(xs, ys, m []float64, x float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return ys[0]
	}
	idx := segmentIndex(xs, x)
	x0, x1 := xs[idx], xs[idx+1]
	h := x1 - x0
	if h <= 0 {
		return ys[idx]
	}
	m0, m1 := m[idx], m[idx+1]
	t0 := x1 - x
	t1 := x - x0
	return m0*t0*t0*t0/(6*h) + m1*t1*t1*t1/(6*h) +
		(ys[idx]/h-m0*h/6)*t0 + (ys[idx+1]/h-m1*h/6)*t1
}

// QualityScore computes the §4.4 reported-not-enforced quality score
// from a synthesised plan line and the restored waveform it was
// fitted against.
func QualityScore(line model.PlanLine, restored model.Series) float64 {
	n := len(line.Samples)
	if n == 0 {
		return 0
	}

	var sumAbs, maxAbs float64
	var upwardCount int
	for i, s := range line.Samples {
		move := s.Value - restored.Values[i]
		abs := math.Abs(move)
		sumAbs += abs
		if abs > maxAbs {
			maxAbs = abs
		}
		if move >= 0 {
			upwardCount++
		}
	}
	avgMove := sumAbs / float64(n)
	upwardRatio := float64(upwardCount) / float64(n)

	score := 100.0
	if avgMove > 10 {
		score -= 2 * (avgMove - 10)
	}
	if avgMove > 20 {
		score -= 3 * (avgMove - 20)
	}
	if maxAbs > 30 {
		score -= maxAbs - 30
	}
	if maxAbs > 50 {
		score -= 2 * (maxAbs - 50)
	}
	if upwardRatio >= 0.7 {
		score += 10
	}
	if upwardRatio >= 0.8 {
		score += 10
	}
	return mathutil.Clamp(score, 0, 100)
}
