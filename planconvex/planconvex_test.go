package planconvex

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-trackplan/model"
)

// TestConvexCapsApplied pins S4: a triangle wave with maxUpward=50,
// maxDownward=10, upwardPriority=true never moves a sample down by
// more than maxDownward.
func TestConvexCapsApplied(t *testing.T) {
	n := 800
	values := make([]float64, n)
	period := 40.0
	for i := range values {
		pos := float64(i) * 0.25
		phase := math.Mod(pos, period) / period
		var v float64
		if phase < 0.5 {
			v = 30 * (4*phase - 1)
		} else {
			v = 30 * (3 - 4*phase)
		}
		values[i] = v
	}
	series, err := model.NewUniformSeries(values, 0.25, model.ChannelLevel)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}

	constraints := model.Constraints{MaxUpward: 50, MaxDownward: 10, UpwardPriority: true}
	result, err := Synthesize(series, constraints)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	for i, m := range result.Movements {
		if m < -10-1e-6 {
			t.Errorf("index %d: movement %g below -maxDownward", i, m)
		}
	}
}

func TestFixedPointOverwrite(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i%5) - 2
	}
	series, err := model.NewUniformSeries(values, 1.0, model.ChannelLevel)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}
	constraints := model.Constraints{
		MaxUpward: 20, MaxDownward: 20,
		FixedPoints: []model.FixedPoint{{Position: 10, TargetLevel: 99, HasTarget: true}},
	}
	result, err := Synthesize(series, constraints)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if result.Plan.Samples[10].Value != 99 {
		t.Errorf("expected fixed point overwrite, got %g", result.Plan.Samples[10].Value)
	}
	if !result.Plan.Samples[10].Fixed {
		t.Error("expected fixed flag set")
	}
}

// TestMovementLimitWindowClamps checks that a movement-limit window
// covering the whole series bounds every final movement, including
// after the 5-point smoothing pass. No fixed point is used, since
// fixed samples are exempt from the window.
func TestMovementLimitWindowClamps(t *testing.T) {
	n := 50
	values := make([]float64, n)
	for i := range values {
		values[i] = 20 * math.Sin(float64(i)*0.3)
	}
	series, err := model.NewUniformSeries(values, 1.0, model.ChannelLevel)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}
	constraints := model.Constraints{
		MaxUpward: 40, MaxDownward: 40,
		MovementLimits: []model.MovementLimitWindow{{StartPos: 0, EndPos: 49, MaxAbsMovement: 5}},
	}
	result, err := Synthesize(series, constraints)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	for i, m := range result.Movements {
		if math.Abs(m) > 5+1e-6 {
			t.Errorf("index %d: movement %g exceeds window limit 5", i, m)
		}
	}
}

func TestEmptySeriesRejected(t *testing.T) {
	if _, err := Synthesize(model.Series{}, model.Constraints{}); err == nil {
		t.Fatal("expected error for empty series")
	}
}
