package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"suspensim/internal/control"
	"suspensim/internal/dynamo"
	"suspensim/internal/integrators"
	"suspensim/internal/qcar"
	"suspensim/internal/road"
	"suspensim/internal/signal"
	"suspensim/internal/sim"
)

func TestComfortHandComputed(t *testing.T) {
	records := []sim.StepRecord{
		{SprungDisp: 0.10, Jerk: 0},
		{SprungDisp: 0.13, Jerk: 2},
		{SprungDisp: 0.06, Jerk: -4},
	}

	// displacement relative to the first sample: 0, 0.03, -0.04
	rmsDisp := math.Sqrt((0 + 0.03*0.03 + 0.04*0.04) / 3)
	rmsJerk := math.Sqrt((0 + 4.0 + 16.0) / 3)
	want := 0.5*rmsDisp + 1.0*0.04 + 0.5*rmsJerk + 1.0*4

	score, err := ScoreTrace(records, DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(score.Total-want) > 1e-12 {
		t.Errorf("total: got %.12f, want %.12f", score.Total, want)
	}
	if math.Abs(score.Components["rms_zs"]-rmsDisp) > 1e-12 {
		t.Errorf("rms_zs: got %g, want %g", score.Components["rms_zs"], rmsDisp)
	}
	if score.Components["max_zs"] != 0.04 {
		t.Errorf("max_zs: got %g, want 0.04", score.Components["max_zs"])
	}
	if score.Components["max_jerk"] != 4 {
		t.Errorf("max_jerk: got %g, want 4", score.Components["max_jerk"])
	}
}

func TestComfortEmptyTrace(t *testing.T) {
	_, err := NewComfort(DefaultWeights()).Finalize()
	if !errors.Is(err, dynamo.ErrEmptyTrace) {
		t.Errorf("expected ErrEmptyTrace, got %v", err)
	}
}

func TestComfortWeightsScaleComponents(t *testing.T) {
	records := []sim.StepRecord{
		{SprungDisp: 0, Jerk: 0},
		{SprungDisp: 0.02, Jerk: 3},
	}

	flat, err := ScoreTrace(records, Weights{})
	if err != nil {
		t.Fatal(err)
	}
	if flat.Total != 0 {
		t.Errorf("zero weights should give zero total, got %g", flat.Total)
	}

	jerkOnly, err := ScoreTrace(records, Weights{PeakJerk: 2})
	if err != nil {
		t.Fatal(err)
	}
	if jerkOnly.Total != 6 {
		t.Errorf("expected 2 x peak jerk = 6, got %g", jerkOnly.Total)
	}
}

func TestComfortReset(t *testing.T) {
	c := NewComfort(DefaultWeights())
	c.Accumulate(sim.StepRecord{SprungDisp: 1, Jerk: 100})
	c.Reset()

	if _, err := c.Finalize(); !errors.Is(err, dynamo.ErrEmptyTrace) {
		t.Errorf("reset accumulator should report an empty trace, got %v", err)
	}

	c.Accumulate(sim.StepRecord{SprungDisp: 0.5, Jerk: 0})
	score, err := c.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	// single sample at the reference point scores zero
	if score.Total != 0 {
		t.Errorf("expected zero score after reset, got %g", score.Total)
	}
}

func TestSideMetrics(t *testing.T) {
	effort := NewControlEffort()
	travel := NewSuspensionTravel()
	holding := NewRoadHolding()

	x := dynamo.State{0.02, 0.5, 0.005, -0.5}
	u := dynamo.Control{1000, 0.001}

	for _, m := range []dynamo.Metric{effort, travel, holding} {
		m.Observe(x, u, 0)
	}

	if got := effort.Value(); math.Abs(got-1000.0) > 1e-12 {
		t.Errorf("control effort: got %g, want 1000 (|1000 x 1.0|)", got)
	}
	if got := travel.Value(); math.Abs(got-0.015) > 1e-12 {
		t.Errorf("suspension travel: got %g, want 0.015", got)
	}
	if got := holding.Value(); math.Abs(got-0.004) > 1e-12 {
		t.Errorf("road holding: got %g, want 0.004", got)
	}

	for _, m := range []dynamo.Metric{effort, travel, holding} {
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s should read zero after reset, got %g", m.Name(), m.Value())
		}
	}
}

// Full pipeline on the benchmark corner: light sedan corner over a 5 cm
// step, scored with the default weights.
func TestBenchmarkStepScenario(t *testing.T) {
	p := qcar.Params{Ms: 250, Mu: 35, Ks: 16000, Kt: 190000, CMin: 0, CMax: 3000}
	cfg := sim.Config{Dt: 0.001, DelaySteps: 1}

	model, err := qcar.NewModel(p)
	if err != nil {
		t.Fatal(err)
	}
	ctrl, err := control.NewSkyhook(p, control.DefaultGains(),
		control.DefaultBodyCutoffHz, control.DefaultWheelCutoffHz, cfg.Dt)
	if err != nil {
		t.Fatal(err)
	}
	filter, err := signal.NewBandPass(0.5, 8.0, cfg.Dt)
	if err != nil {
		t.Fatal(err)
	}

	s := sim.New(model, integrators.NewHeun(), ctrl, filter)
	profile := road.StepInput(6000, cfg.Dt, 0.05, 0.5)

	res, err := s.Run(context.Background(), nil, profile, cfg)
	if err != nil {
		t.Fatal(err)
	}

	score, err := ScoreTrace(res.Records, DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(score.Total) || math.IsInf(score.Total, 0) || score.Total <= 0 {
		t.Fatalf("implausible comfort score %g", score.Total)
	}

	// the body should have settled onto the new road level
	final := res.Records[len(res.Records)-1].SprungDisp
	if math.Abs(final-0.05) > 0.005 {
		t.Errorf("body should settle at the step height: final zs = %g", final)
	}

	// the controlled peak overshoot stays well below twice the step height
	if peak := score.Components["max_zs"]; peak > 0.09 {
		t.Errorf("excessive overshoot: max zs deviation %g", peak)
	}

	// scoring must be reproducible
	again, err := s.Run(context.Background(), nil, profile, cfg)
	if err != nil {
		t.Fatal(err)
	}
	scoreAgain, err := ScoreTrace(again.Records, DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}
	if score.Total != scoreAgain.Total {
		t.Errorf("score not reproducible: %v vs %v", score.Total, scoreAgain.Total)
	}
}
