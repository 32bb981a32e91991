// Package pipeline orchestrates the fixed eight-step sequence from
// raw samples through inverse filtering, versine computation, plan
// synthesis, movement derivation, optional MTT guidance, and quality
// verification, per §4.9.
package pipeline

import (
	"github.com/cwbudde/algo-trackplan/curvemodel"
	"github.com/cwbudde/algo-trackplan/invfilter"
	"github.com/cwbudde/algo-trackplan/model"
	"github.com/cwbudde/algo-trackplan/movement"
	"github.com/cwbudde/algo-trackplan/mtt"
	"github.com/cwbudde/algo-trackplan/planconvex"
	"github.com/cwbudde/algo-trackplan/planzero"
	"github.com/cwbudde/algo-trackplan/quality"
	"github.com/cwbudde/algo-trackplan/versine"
)

const stage = "pipeline"

// LogSink receives stage lifecycle and warning events from a Run
// invocation. It is the Design Notes' redesign of console-logging
// configuration singletons: decisions are reported through this
// interface (and accumulated into Result), never written to stdout or
// stderr directly. A nil sink is a valid no-op.
type LogSink interface {
	StageStarted(name string)
	StageCompleted(name string)
	Warning(w model.Warning)
}

func notify(sink LogSink, fn func(LogSink)) {
	if sink != nil {
		fn(sink)
	}
}

// PlanStrategy selects between the zero-point spline/linear synthesis
// of §4.4 and the asymmetric convex optimiser of §4.5.
type PlanStrategy int

const (
	PlanStrategyZeroPoint PlanStrategy = iota
	PlanStrategyConvex
)

// Options enumerates the external tunables of §6.
type Options struct {
	PlanStrategy       PlanStrategy
	Interpolation      planzero.InterpolationKind
	LambdaLower        float64
	LambdaUpper        float64
	SamplingInterval   float64
	UpwardPriority     bool
	OptimizationMethod mtt.Objective
	ChordLengths       []float64
	PlanzeroOptions    planzero.Options
	MTTOptions         mtt.Options
}

// DefaultOptions returns the zero-point/spline strategy over the
// standard 6-40m band at the 0.25m sampling interval, with the
// standard 10m measurement chord.
func DefaultOptions() Options {
	return Options{
		PlanStrategy:     PlanStrategyZeroPoint,
		Interpolation:    planzero.InterpolationSpline,
		LambdaLower:      invfilter.DefaultLowerWavelength,
		LambdaUpper:      invfilter.DefaultUpperWavelength,
		SamplingInterval: model.DefaultSamplingInterval,
		ChordLengths:     []float64{10},
		PlanzeroOptions:  planzero.DefaultOptions(),
		MTTOptions:       mtt.DefaultOptions(),
	}
}

// Input bundles everything one pipeline invocation needs, per §6.
type Input struct {
	Samples        model.Series
	CurveElements  []model.CurveElement
	VerticalCurves []model.VerticalCurve
	Constraints    model.Constraints
	MTTProfile     *model.MTTProfile
	// CompanionMovements optionally supplies the paired channel's
	// movement vector (tamping when Samples.Channel is Alignment,
	// lining otherwise) for MTT guidance; omitted, it is treated as
	// all-zero, per the two-independent-passes resolution of §9.
	CompanionMovements []float64
	Options            Options
}

// Result is the typed bag of every intermediate artefact from one run,
// per §6's PipelineResult.
type Result struct {
	Restored            model.Series
	Versines            map[float64]model.Series
	TheoreticalVersines map[float64]model.Series
	Plan                model.PlanLine
	Movements           []float64
	Predicted           []float64
	Statistics          movement.Vectors
	MTT                 *mtt.Result
	Quality             quality.Report
	Warnings            []model.Warning
	Incomplete          bool
}

// Run executes the fixed §4.9 sequence. It short-circuits on the
// first hard failure, annotating which stage produced it; warnings
// are accumulated into Result rather than raised.
func Run(input Input, sink LogSink) (Result, error) {
	opts := input.Options
	if opts.SamplingInterval <= 0 {
		opts.SamplingInterval = model.DefaultSamplingInterval
	}
	if len(opts.ChordLengths) == 0 {
		opts.ChordLengths = []float64{10}
	}

	var result Result
	var warnings []model.Warning

	notify(sink, func(s LogSink) { s.StageStarted("invfilter") })
	filt, err := invfilter.Design(input.Samples.Len(), opts.SamplingInterval, opts.LambdaLower, opts.LambdaUpper)
	if err != nil {
		return Result{}, model.WithStage(err, stage)
	}
	restored, err := invfilter.Apply(input.Samples, filt)
	if err != nil {
		return Result{}, model.WithStage(err, stage)
	}
	result.Restored = restored
	notify(sink, func(s LogSink) { s.StageCompleted("invfilter") })

	notify(sink, func(s LogSink) { s.StageStarted("versine") })
	versines, theoreticalVersines, err := computeVersines(restored, input.CurveElements, input.VerticalCurves, opts.ChordLengths)
	if err != nil {
		return Result{}, model.WithStage(err, stage)
	}
	result.Versines = versines
	result.TheoreticalVersines = theoreticalVersines
	notify(sink, func(s LogSink) { s.StageCompleted("versine") })

	notify(sink, func(s LogSink) { s.StageStarted("plan") })
	plan, planWarnings, err := synthesizePlan(restored, input.Constraints, opts)
	if err != nil {
		return Result{}, model.WithStage(err, stage)
	}
	result.Plan = plan
	warnings = append(warnings, planWarnings...)
	notify(sink, func(s LogSink) { s.StageCompleted("plan") })

	notify(sink, func(s LogSink) { s.StageStarted("movement") })
	vectors, err := movement.Derive(restored, plan.Values())
	if err != nil {
		return Result{}, model.WithStage(err, stage)
	}
	result.Movements = vectors.Movement
	result.Predicted = vectors.Predicted
	result.Statistics = vectors
	notify(sink, func(s LogSink) { s.StageCompleted("movement") })

	if input.MTTProfile != nil {
		notify(sink, func(s LogSink) { s.StageStarted("mtt") })
		mttResult, err := runMTT(input, vectors.Movement, opts)
		if err != nil {
			return Result{}, model.WithStage(err, stage)
		}
		result.MTT = &mttResult
		notify(sink, func(s LogSink) { s.StageCompleted("mtt") })
	}

	notify(sink, func(s LogSink) { s.StageStarted("quality") })
	predictedSeries := restored.WithValues(vectors.Predicted)
	qualityReport, err := quality.Verify(predictedSeries)
	if err != nil {
		return Result{}, model.WithStage(err, stage)
	}
	result.Quality = qualityReport
	notify(sink, func(s LogSink) { s.StageCompleted("quality") })

	for _, w := range warnings {
		notify(sink, func(s LogSink) { s.Warning(w) })
	}
	result.Warnings = warnings

	return result, nil
}

func computeVersines(restored model.Series, elements []model.CurveElement, verticalCurves []model.VerticalCurve, chordLengths []float64) (measured, theoretical map[float64]model.Series, err error) {
	measured = make(map[float64]model.Series, len(chordLengths))
	var cm *curvemodel.Model
	if len(elements) > 0 || len(verticalCurves) > 0 {
		cm, err = curvemodel.New(elements, verticalCurves)
		if err != nil {
			return nil, nil, err
		}
		theoretical = make(map[float64]model.Series, len(chordLengths))
	}

	for _, chord := range chordLengths {
		m, err := versine.MidChordOffset(restored, chord)
		if err != nil {
			return nil, nil, err
		}
		measured[chord] = m

		if cm == nil {
			continue
		}
		th, err := versine.TheoreticalVersine(restored, chord, cm)
		if err != nil {
			return nil, nil, err
		}
		theoretical[chord] = th
	}
	return measured, theoretical, nil
}

func synthesizePlan(restored model.Series, constraints model.Constraints, opts Options) (model.PlanLine, []model.Warning, error) {
	switch opts.PlanStrategy {
	case PlanStrategyConvex:
		result, err := planconvex.Synthesize(restored, constraints)
		if err != nil {
			return model.PlanLine{}, nil, err
		}
		return result.Plan, nil, nil
	default:
		zeroOpts := opts.PlanzeroOptions
		zeroOpts.Interpolation = opts.Interpolation
		constraints.UpwardPriority = opts.UpwardPriority || constraints.UpwardPriority
		result, err := planzero.Synthesize(restored, constraints, zeroOpts)
		if err != nil {
			return model.PlanLine{}, nil, err
		}
		return result.Plan, result.Warnings, nil
	}
}

func runMTT(input Input, movements []float64, opts Options) (mtt.Result, error) {
	n := len(movements)
	companion := input.CompanionMovements
	if companion == nil {
		companion = make([]float64, n)
	}

	var tamping, lining []float64
	if input.Samples.Channel == model.ChannelAlignment {
		lining = movements
		tamping = companion
	} else {
		tamping = movements
		lining = companion
	}

	mttOpts := opts.MTTOptions
	mttOpts.SamplingInterval = opts.SamplingInterval
	mttOpts.Objective = opts.OptimizationMethod
	return mtt.Guide(tamping, lining, *input.MTTProfile, mttOpts)
}
