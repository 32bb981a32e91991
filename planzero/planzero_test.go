package planzero

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-trackplan/model"
)

func TestDetectZeroCrossingsSignChange(t *testing.T) {
	series, err := model.NewUniformSeries([]float64{-1, 1, -1}, 1.0, model.ChannelLevel)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}
	crossings := DetectZeroCrossings(series)
	if len(crossings) != 2 {
		t.Fatalf("expected 2 crossings, got %d", len(crossings))
	}
	if crossings[0].Type != model.CrossingAscending {
		t.Errorf("expected first crossing ascending, got %v", crossings[0].Type)
	}
	if crossings[1].Type != model.CrossingDescending {
		t.Errorf("expected second crossing descending, got %v", crossings[1].Type)
	}
	if math.Abs(crossings[0].Position-0.5) > 1e-9 {
		t.Errorf("expected crossing at 0.5, got %g", crossings[0].Position)
	}
}

func TestDetectZeroCrossingsBoundaryMarkers(t *testing.T) {
	series, err := model.NewUniformSeries([]float64{0, 1, 2, 0}, 1.0, model.ChannelLevel)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}
	crossings := DetectZeroCrossings(series)
	if crossings[0].Type != model.CrossingBoundaryStart {
		t.Errorf("expected boundary-start marker first, got %v", crossings[0].Type)
	}
	last := crossings[len(crossings)-1]
	if last.Type != model.CrossingBoundaryEnd {
		t.Errorf("expected boundary-end marker last, got %v", last.Type)
	}
}

// TestPlanPassesThroughCrossings checks testable property #5 at sample
// resolution: at each detected crossing's SourceIndex (the sample at
// or just before the crossing) the plan value is within 0.05 mm of 0.
func TestPlanPassesThroughCrossings(t *testing.T) {
	n := 200
	values := make([]float64, n)
	for i := range values {
		values[i] = 10 * math.Sin(2*math.Pi*float64(i)*0.25/20)
	}
	series, err := model.NewUniformSeries(values, 0.25, model.ChannelAlignment)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}

	constraints := model.Constraints{MaxUpward: 50, MaxDownward: 50}
	result, err := Synthesize(series, constraints, DefaultOptions())
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	crossings := DetectZeroCrossings(series)
	for _, c := range crossings {
		idx := c.SourceIndex
		if idx < 0 || idx >= len(result.Plan.Samples) {
			continue
		}
		if math.Abs(result.Plan.Samples[idx].Value) > 0.05 {
			t.Errorf("plan at crossing index %d (pos %.2f) = %g, want ~0", idx, c.Position, result.Plan.Samples[idx].Value)
		}
	}
}

// TestZeroCrossingFallback pins S6: a strictly positive restored
// waveform has no crossings, and synthesis falls back to a moving
// average without error.
func TestZeroCrossingFallback(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := range values {
		values[i] = 5 + math.Sin(float64(i)*0.1)
	}
	series, err := model.NewUniformSeries(values, 0.25, model.ChannelLevel)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}
	constraints := model.Constraints{MaxUpward: 50, MaxDownward: 50}
	result, err := Synthesize(series, constraints, DefaultOptions())
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(result.Plan.Samples) != n {
		t.Fatalf("expected length %d, got %d", n, len(result.Plan.Samples))
	}
}

// TestUpwardPreference pins testable property #6.
func TestUpwardPreference(t *testing.T) {
	n := 400
	values := make([]float64, n)
	for i := range values {
		values[i] = 30 * math.Sin(2*math.Pi*float64(i)*0.25/40)
	}
	series, err := model.NewUniformSeries(values, 0.25, model.ChannelLevel)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}
	constraints := model.Constraints{MaxUpward: 50, MaxDownward: 10, UpwardPriority: true}
	result, err := Synthesize(series, constraints, DefaultOptions())
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	for i, s := range result.Plan.Samples {
		move := s.Value - series.Values[i]
		if move < -constraints.MaxDownward-1e-6 {
			t.Errorf("index %d: movement %g below -maxDownward %g", i, move, -constraints.MaxDownward)
		}
	}
}

func TestQualityScoreClamped(t *testing.T) {
	line := model.PlanLine{Samples: []model.PlanSample{
		{Value: 0}, {Value: 0}, {Value: 0},
	}}
	series, _ := model.NewUniformSeries([]float64{0, 0, 0}, 1.0, model.ChannelLevel)
	score := QualityScore(line, series)
	if score < 0 || score > 100 {
		t.Fatalf("score %g out of [0,100]", score)
	}
}

func TestEmptySeriesRejected(t *testing.T) {
	if _, err := Synthesize(model.Series{}, model.Constraints{}, DefaultOptions()); err == nil {
		t.Fatal("expected error for empty series")
	}
}
