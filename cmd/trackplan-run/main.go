package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-trackplan/config"
	"github.com/cwbudde/algo-trackplan/model"
	"github.com/cwbudde/algo-trackplan/pipeline"
)

// samplesFile is the JSON schema for the --samples input: one
// longitudinal channel, optionally accompanied by the curve geometry
// needed for theoretical versine comparison.
type samplesFile struct {
	Channel            string                 `json:"channel"`
	Values             []float64              `json:"values"`
	SamplingInterval   float64                `json:"sampling_interval"`
	CompanionMovements []float64              `json:"companion_movements"`
	CurveElements      []curveElementSetting  `json:"curve_elements"`
	VerticalCurves     []verticalCurveSetting `json:"vertical_curves"`
}

type curveElementSetting struct {
	StartPos  float64 `json:"start_pos"`
	EndPos    float64 `json:"end_pos"`
	Radius    float64 `json:"radius"`
	Cant      float64 `json:"cant"`
	Direction string  `json:"direction"`
}

type verticalCurveSetting struct {
	StartPos         float64 `json:"start_pos"`
	EndPos           float64 `json:"end_pos"`
	GradeChangePoint float64 `json:"grade_change_point"`
	GradeBefore      float64 `json:"grade_before"`
	GradeAfter       float64 `json:"grade_after"`
	Radius           float64 `json:"radius"`
}

func main() {
	samplesPath := flag.String("samples", "", "Path to samples JSON (required)")
	configPath := flag.String("config", "", "Path to run config JSON (plan strategy, band, constraints, MTT profile)")
	outputPath := flag.String("output", "", "Path to write result JSON (default: stdout)")
	flag.Parse()

	if *samplesPath == "" {
		die("--samples is required")
	}

	samples, curveElements, verticalCurves, companion, err := loadSamples(*samplesPath)
	if err != nil {
		die("failed to load samples: %v", err)
	}

	opts := pipeline.DefaultOptions()
	var constraints model.Constraints
	var profile *model.MTTProfile
	if *configPath != "" {
		opts, constraints, profile, err = config.LoadJSON(*configPath)
		if err != nil {
			die("failed to load config: %v", err)
		}
	}

	input := pipeline.Input{
		Samples:            samples,
		CurveElements:      curveElements,
		VerticalCurves:     verticalCurves,
		Constraints:        constraints,
		MTTProfile:         profile,
		CompanionMovements: companion,
		Options:            opts,
	}

	sink := &consoleSink{}
	result, err := pipeline.Run(input, sink)
	if err != nil {
		die("pipeline run failed: %v", err)
	}

	out, err := json.MarshalIndent(resultView(result), "", "  ")
	if err != nil {
		die("failed to encode result: %v", err)
	}

	if *outputPath == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(*outputPath, out, 0o644); err != nil {
		die("failed to write output: %v", err)
	}
	fmt.Printf("wrote %s\n", *outputPath)
}

func loadSamples(path string) (model.Series, []model.CurveElement, []model.VerticalCurve, []float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Series{}, nil, nil, nil, err
	}
	var f samplesFile
	if err := json.Unmarshal(b, &f); err != nil {
		return model.Series{}, nil, nil, nil, err
	}

	channel := parseChannel(f.Channel)
	series, err := model.NewUniformSeries(f.Values, f.SamplingInterval, channel)
	if err != nil {
		return model.Series{}, nil, nil, nil, err
	}

	elements := make([]model.CurveElement, len(f.CurveElements))
	for i, e := range f.CurveElements {
		dir := model.DirectionLeft
		if e.Direction == "right" {
			dir = model.DirectionRight
		}
		elements[i] = model.CurveElement{
			StartPos:  e.StartPos,
			EndPos:    e.EndPos,
			Radius:    e.Radius,
			Cant:      e.Cant,
			Direction: dir,
		}
	}
	if err := model.ValidateCurveElements(elements); err != nil {
		return model.Series{}, nil, nil, nil, err
	}

	vcurves := make([]model.VerticalCurve, len(f.VerticalCurves))
	for i, v := range f.VerticalCurves {
		vcurves[i] = model.VerticalCurve{
			StartPos:         v.StartPos,
			EndPos:           v.EndPos,
			GradeChangePoint: v.GradeChangePoint,
			GradeBefore:      v.GradeBefore,
			GradeAfter:       v.GradeAfter,
			Radius:           v.Radius,
		}
		if err := vcurves[i].Validate(); err != nil {
			return model.Series{}, nil, nil, nil, err
		}
	}

	return series, elements, vcurves, f.CompanionMovements, nil
}

func parseChannel(s string) model.Channel {
	switch s {
	case "alignment":
		return model.ChannelAlignment
	case "cant":
		return model.ChannelCant
	case "gauge":
		return model.ChannelGauge
	default:
		return model.ChannelLevel
	}
}

type resultJSON struct {
	RestoredLength int       `json:"restored_length"`
	Plan           []float64 `json:"plan"`
	Movements      []float64 `json:"movements"`
	Predicted      []float64 `json:"predicted"`
	QualityScore   float64   `json:"quality_score"`
	QualityGrade   string    `json:"quality_grade"`
	MTTEfficiency  *float64  `json:"mtt_lift_total_length,omitempty"`
	Warnings       []string  `json:"warnings"`
}

func resultView(result pipeline.Result) resultJSON {
	warnings := make([]string, len(result.Warnings))
	for i, w := range result.Warnings {
		warnings[i] = w.String()
	}
	view := resultJSON{
		RestoredLength: result.Restored.Len(),
		Plan:           result.Plan.Values(),
		Movements:      result.Movements,
		Predicted:      result.Predicted,
		QualityScore:   result.Quality.CompositeScore,
		QualityGrade:   result.Quality.Grade.String(),
		Warnings:       warnings,
	}
	if result.MTT != nil {
		total := result.MTT.Efficiency.TotalLength
		view.MTTEfficiency = &total
	}
	return view
}

type consoleSink struct{}

func (consoleSink) StageStarted(name string)   { fmt.Fprintf(os.Stderr, "-> %s\n", name) }
func (consoleSink) StageCompleted(name string) { fmt.Fprintf(os.Stderr, "<- %s\n", name) }
func (consoleSink) Warning(w model.Warning)    { fmt.Fprintf(os.Stderr, "warning: %s\n", w.String()) }

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
