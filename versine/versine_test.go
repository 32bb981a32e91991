package versine

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-trackplan/curvemodel"
	"github.com/cwbudde/algo-trackplan/model"
)

func TestMidChordOffsetBoundaryZero(t *testing.T) {
	n := 40
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Sin(float64(i) * 0.2)
	}
	series, err := model.NewUniformSeries(values, 1.0, model.ChannelAlignment)
	if err != nil {
		t.Fatalf("NewUniformSeries failed: %v", err)
	}

	out, err := MidChordOffset(series, 10)
	if err != nil {
		t.Fatalf("MidChordOffset failed: %v", err)
	}
	h := 5
	for i := 0; i < h; i++ {
		if out.Values[i] != 0 {
			t.Errorf("expected boundary zero at %d, got %g", i, out.Values[i])
		}
	}
	for i := n - h; i < n; i++ {
		if out.Values[i] != 0 {
			t.Errorf("expected boundary zero at %d, got %g", i, out.Values[i])
		}
	}
}

func TestMidChordOffsetConstantIsZero(t *testing.T) {
	n := 30
	values := make([]float64, n)
	for i := range values {
		values[i] = 7.0
	}
	series, _ := model.NewUniformSeries(values, 1.0, model.ChannelLevel)
	out, err := MidChordOffset(series, 10)
	if err != nil {
		t.Fatalf("MidChordOffset failed: %v", err)
	}
	for i, v := range out.Values {
		if math.Abs(v) > 1e-9 {
			t.Errorf("index %d: expected zero versine on a constant line, got %g", i, v)
		}
	}
}

func TestCircularVersineFormula(t *testing.T) {
	v := circularVersine(20, 500)
	want := 1000 * 20.0 * 20.0 / (8 * 500)
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("circularVersine = %g, want %g", v, want)
	}
	if v := circularVersine(20, 0); v != 0 {
		t.Errorf("expected zero versine for zero radius, got %g", v)
	}
}

func TestTheoreticalVersineOutsideCurveIsZero(t *testing.T) {
	m, err := curvemodel.New([]model.CurveElement{
		{StartPos: 100, EndPos: 200, Radius: 400},
	}, nil)
	if err != nil {
		t.Fatalf("curvemodel.New failed: %v", err)
	}

	n := 20
	positions := make([]float64, n)
	values := make([]float64, n)
	for i := range positions {
		positions[i] = float64(i) * 5 // 0..95, entirely outside [100,200)
	}
	series, err := model.NewSeries(positions, values, model.ChannelAlignment)
	if err != nil {
		t.Fatalf("NewSeries failed: %v", err)
	}

	out, err := TheoreticalVersine(series, 20, m)
	if err != nil {
		t.Fatalf("TheoreticalVersine failed: %v", err)
	}
	for i, v := range out.Values {
		if v != 0 {
			t.Errorf("index %d outside curve: expected 0, got %g", i, v)
		}
	}
}

func TestTheoreticalVersineInsideCircularElement(t *testing.T) {
	m, err := curvemodel.New([]model.CurveElement{
		{StartPos: 0, EndPos: 200, Radius: 500},
	}, nil)
	if err != nil {
		t.Fatalf("curvemodel.New failed: %v", err)
	}
	series, err := model.NewSeries([]float64{50}, []float64{0}, model.ChannelAlignment)
	if err != nil {
		t.Fatalf("NewSeries failed: %v", err)
	}
	out, err := TheoreticalVersine(series, 20, m)
	if err != nil {
		t.Fatalf("TheoreticalVersine failed: %v", err)
	}
	want := circularVersine(20, 500)
	if math.Abs(out.Values[0]-want) > 1e-9 {
		t.Errorf("theoretical versine = %g, want %g", out.Values[0], want)
	}
}

func TestApplyCorrectionRateClampsBounds(t *testing.T) {
	series, _ := model.NewUniformSeries([]float64{1, 2, 3}, 1.0, model.ChannelAlignment)

	low := ApplyCorrectionRate(series, 0.2)
	for i, v := range low.Values {
		want := series.Values[i] * CorrectionRateMin
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("low clamp index %d: got %g, want %g", i, v, want)
		}
	}

	high := ApplyCorrectionRate(series, 5.0)
	for i, v := range high.Values {
		want := series.Values[i] * CorrectionRateMax
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("high clamp index %d: got %g, want %g", i, v, want)
		}
	}
}

func TestStandardChordLength(t *testing.T) {
	if l, ok := StandardChordLength(Chord20m); !ok || l != 20 {
		t.Errorf("Chord20m = %g, ok=%v, want 20,true", l, ok)
	}
	if _, ok := StandardChordLength("bogus"); ok {
		t.Error("expected bogus chord tag to be rejected")
	}
}

func TestStatisticsExcludesZero(t *testing.T) {
	series, _ := model.NewUniformSeries([]float64{0, 0, 2, -2, 0}, 1.0, model.ChannelAlignment)
	st := Statistics(series)
	if st.SampleCount != 2 {
		t.Errorf("expected 2 non-zero samples counted, got %d", st.SampleCount)
	}
}
