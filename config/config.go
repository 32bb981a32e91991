// Package config loads pipeline options, constraints, and an optional
// MTT profile from a JSON file, in the pointer-field "was it set"
// shape preset.File/ApplyFile uses for piano presets.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-trackplan/model"
	"github.com/cwbudde/algo-trackplan/mtt"
	"github.com/cwbudde/algo-trackplan/pipeline"
	"github.com/cwbudde/algo-trackplan/planzero"
)

// FixedPointSetting is one fixed-point entry in a constraints file.
type FixedPointSetting struct {
	Position    float64 `json:"position"`
	TargetLevel float64 `json:"target_level"`
	MustKeep    bool    `json:"must_keep"`
}

// MovementLimitSetting is one movement-limit-window entry in a
// constraints file.
type MovementLimitSetting struct {
	StartPos       float64 `json:"start_pos"`
	EndPos         float64 `json:"end_pos"`
	MaxAbsMovement float64 `json:"max_abs_movement"`
}

// ConstraintsFile is the JSON schema for a Constraints override.
type ConstraintsFile struct {
	MaxUpward      *float64               `json:"max_upward"`
	MaxDownward    *float64               `json:"max_downward"`
	UpwardPriority *bool                  `json:"upward_priority"`
	FixedPoints    []FixedPointSetting    `json:"fixed_points"`
	MovementLimits []MovementLimitSetting `json:"movement_limits"`
}

// CorrectionFactorsSetting mirrors model.CorrectionFactors in JSON.
type CorrectionFactorsSetting struct {
	Level     float64 `json:"level"`
	Alignment float64 `json:"alignment"`
	Cant      float64 `json:"cant"`
	Gauge     float64 `json:"gauge"`
}

// EccentricitySetting mirrors model.Eccentricity in JSON.
type EccentricitySetting struct {
	BCDistance float64 `json:"bc_distance"`
	CDDistance float64 `json:"cd_distance"`
}

// MTTProfileFile is the JSON schema for an MTT profile.
type MTTProfileFile struct {
	Name              string                   `json:"name"`
	FrontOffset       float64                  `json:"front_offset"`
	WorkingSpeed      float64                  `json:"working_speed"`
	LiftCapacity      float64                  `json:"lift_capacity"`
	AlignmentCapacity float64                  `json:"alignment_capacity"`
	TampingUnits      float64                  `json:"tamping_units"`
	MeasurementChord  float64                  `json:"measurement_chord"`
	CorrectionFactors CorrectionFactorsSetting `json:"correction_factors"`
	Eccentricity      EccentricitySetting      `json:"eccentricity"`
}

// File is the JSON schema accepted by LoadJSON: a pipeline.Options
// override, an optional Constraints override, and an optional MTT
// profile.
type File struct {
	PlanStrategy       *string          `json:"plan_strategy"`
	Interpolation      *string          `json:"interpolation"`
	LambdaLower        *float64         `json:"lambda_lower"`
	LambdaUpper        *float64         `json:"lambda_upper"`
	SamplingInterval   *float64         `json:"sampling_interval"`
	UpwardPriority     *bool            `json:"upward_priority"`
	OptimizationMethod *string          `json:"optimization_method"`
	ChordLengths       []float64        `json:"chord_lengths"`
	Constraints        *ConstraintsFile `json:"constraints"`
	MTTProfile         *MTTProfileFile  `json:"mtt_profile"`
}

// LoadJSON reads path and applies it on top of pipeline.DefaultOptions()
// and a zero-value model.Constraints.
func LoadJSON(path string) (pipeline.Options, model.Constraints, *model.MTTProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Options{}, model.Constraints{}, nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return pipeline.Options{}, model.Constraints{}, nil, err
	}

	opts := pipeline.DefaultOptions()
	var constraints model.Constraints
	profile, err := ApplyFile(&opts, &constraints, &f)
	if err != nil {
		return pipeline.Options{}, model.Constraints{}, nil, err
	}
	return opts, constraints, profile, nil
}

// ApplyFile applies a parsed File onto existing opts and constraints,
// returning the decoded MTT profile (nil if the file carries none).
func ApplyFile(opts *pipeline.Options, constraints *model.Constraints, f *File) (*model.MTTProfile, error) {
	if opts == nil || constraints == nil {
		return nil, fmt.Errorf("nil destination opts or constraints")
	}
	if f == nil {
		return nil, nil
	}

	if f.PlanStrategy != nil {
		switch *f.PlanStrategy {
		case "zero_point":
			opts.PlanStrategy = pipeline.PlanStrategyZeroPoint
		case "convex":
			opts.PlanStrategy = pipeline.PlanStrategyConvex
		default:
			return nil, fmt.Errorf("plan_strategy must be one of zero_point, convex; got %q", *f.PlanStrategy)
		}
	}
	if f.Interpolation != nil {
		switch *f.Interpolation {
		case "spline":
			opts.Interpolation = planzero.InterpolationSpline
		case "linear":
			opts.Interpolation = planzero.InterpolationLinear
		default:
			return nil, fmt.Errorf("interpolation must be one of spline, linear; got %q", *f.Interpolation)
		}
	}
	if f.LambdaLower != nil {
		if *f.LambdaLower <= 0 {
			return nil, fmt.Errorf("lambda_lower must be > 0")
		}
		opts.LambdaLower = *f.LambdaLower
	}
	if f.LambdaUpper != nil {
		if *f.LambdaUpper <= 0 {
			return nil, fmt.Errorf("lambda_upper must be > 0")
		}
		opts.LambdaUpper = *f.LambdaUpper
	}
	if f.SamplingInterval != nil {
		if *f.SamplingInterval <= 0 {
			return nil, fmt.Errorf("sampling_interval must be > 0")
		}
		opts.SamplingInterval = *f.SamplingInterval
	}
	if f.UpwardPriority != nil {
		opts.UpwardPriority = *f.UpwardPriority
	}
	if f.OptimizationMethod != nil {
		switch *f.OptimizationMethod {
		case "energy":
			opts.OptimizationMethod = mtt.ObjectiveEnergy
		case "peak":
			opts.OptimizationMethod = mtt.ObjectivePeak
		case "rms":
			opts.OptimizationMethod = mtt.ObjectiveRMS
		default:
			return nil, fmt.Errorf("optimization_method must be one of energy, peak, rms; got %q", *f.OptimizationMethod)
		}
	}
	if len(f.ChordLengths) > 0 {
		opts.ChordLengths = append([]float64(nil), f.ChordLengths...)
	}

	if f.Constraints != nil {
		if err := applyConstraints(constraints, f.Constraints); err != nil {
			return nil, err
		}
	}

	if f.MTTProfile == nil {
		return nil, nil
	}
	profile := model.MTTProfile{
		Name:              f.MTTProfile.Name,
		FrontOffset:       f.MTTProfile.FrontOffset,
		WorkingSpeed:      f.MTTProfile.WorkingSpeed,
		LiftCapacity:      f.MTTProfile.LiftCapacity,
		AlignmentCapacity: f.MTTProfile.AlignmentCapacity,
		TampingUnits:      f.MTTProfile.TampingUnits,
		MeasurementChord:  f.MTTProfile.MeasurementChord,
		CorrectionFactors: model.CorrectionFactors{
			Level:     f.MTTProfile.CorrectionFactors.Level,
			Alignment: f.MTTProfile.CorrectionFactors.Alignment,
			Cant:      f.MTTProfile.CorrectionFactors.Cant,
			Gauge:     f.MTTProfile.CorrectionFactors.Gauge,
		},
		Eccentricity: model.Eccentricity{
			BCDistance: f.MTTProfile.Eccentricity.BCDistance,
			CDDistance: f.MTTProfile.Eccentricity.CDDistance,
		},
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

func applyConstraints(dst *model.Constraints, f *ConstraintsFile) error {
	if f.MaxUpward != nil {
		if *f.MaxUpward < 0 {
			return fmt.Errorf("max_upward must be >= 0")
		}
		dst.MaxUpward = *f.MaxUpward
	}
	if f.MaxDownward != nil {
		if *f.MaxDownward < 0 {
			return fmt.Errorf("max_downward must be >= 0")
		}
		dst.MaxDownward = *f.MaxDownward
	}
	if f.UpwardPriority != nil {
		dst.UpwardPriority = *f.UpwardPriority
	}
	for _, fp := range f.FixedPoints {
		dst.FixedPoints = append(dst.FixedPoints, model.FixedPoint{
			Position:    fp.Position,
			TargetLevel: fp.TargetLevel,
			HasTarget:   true,
			MustKeep:    fp.MustKeep,
		})
	}
	for _, w := range f.MovementLimits {
		if w.MaxAbsMovement < 0 {
			return fmt.Errorf("movement_limits[].max_abs_movement must be >= 0")
		}
		dst.MovementLimits = append(dst.MovementLimits, model.MovementLimitWindow{
			StartPos:       w.StartPos,
			EndPos:         w.EndPos,
			MaxAbsMovement: w.MaxAbsMovement,
		})
	}
	return nil
}
