package quality

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-trackplan/model"
)

func TestDetectJumps(t *testing.T) {
	values := []float64{0, 1, 30, 31, 2}
	jumps := detectJumps(values)
	if len(jumps) != 2 {
		t.Fatalf("expected 2 jumps, got %d: %v", len(jumps), jumps)
	}
	if jumps[0] != 2 {
		t.Errorf("expected jump at index 2, got %d", jumps[0])
	}
}

func TestDetectFlatRegions(t *testing.T) {
	values := make([]float64, 20)
	for i := 0; i < 15; i++ {
		values[i] = 5.0
	}
	for i := 15; i < 20; i++ {
		values[i] = float64(i)
	}
	regions := detectFlatRegions(values)
	if len(regions) != 1 {
		t.Fatalf("expected 1 flat region, got %d: %+v", len(regions), regions)
	}
	if regions[0].StartIndex != 0 || regions[0].EndIndex != 14 {
		t.Errorf("expected flat region [0,14], got %+v", regions[0])
	}
}

func TestConsecutiveAnomalyRuns(t *testing.T) {
	anomalous := []bool{false, true, true, true, true, true, false, true, true}
	runs := consecutiveAnomalyRuns(anomalous, 5)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run of length >= 5, got %d: %v", len(runs), runs)
	}
	if runs[0] != [2]int{1, 5} {
		t.Errorf("expected run [1,5], got %v", runs[0])
	}
}

func TestVerifyCleanSeriesIsExcellent(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := range values {
		values[i] = 0.5 * math.Sin(float64(i)*0.1)
	}
	series, err := model.NewUniformSeries(values, 0.25, model.ChannelAlignment)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}
	report, err := Verify(series)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if report.Grade != GradeExcellent {
		t.Errorf("expected excellent grade for a clean small-amplitude series, got %v", report.Grade)
	}
	if report.CompositeScore < 90 {
		t.Errorf("expected a high composite score, got %g", report.CompositeScore)
	}
}

func TestVerifyEmptyRejected(t *testing.T) {
	if _, err := Verify(model.Series{}); err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestZScoreSeverityThreshold(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 0
	}
	values[25] = 100 // far outlier drives a large sigma and a clean z-score split
	series, err := model.NewUniformSeries(values, 1.0, model.ChannelLevel)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}
	report, err := Verify(series)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	found := false
	for _, a := range report.ZScoreOutliers {
		if a.Index == 25 {
			found = true
		}
	}
	if !found {
		t.Error("expected the single large outlier to be flagged")
	}
}
