package batch

import (
	"context"
	"errors"
	"testing"

	"suspensim/internal/control"
	"suspensim/internal/integrators"
	"suspensim/internal/metrics"
	"suspensim/internal/qcar"
	"suspensim/internal/road"
	"suspensim/internal/signal"
	"suspensim/internal/sim"
)

func testFactory(t *testing.T, cfg sim.Config) func() (*sim.Simulator, error) {
	t.Helper()
	p := qcar.DefaultParams()

	return func() (*sim.Simulator, error) {
		model, err := qcar.NewModel(p)
		if err != nil {
			return nil, err
		}
		ctrl, err := control.NewSkyhook(p, control.DefaultGains(),
			control.DefaultBodyCutoffHz, control.DefaultWheelCutoffHz, cfg.Dt)
		if err != nil {
			return nil, err
		}
		filter, err := signal.NewBandPass(0.5, 8.0, cfg.Dt)
		if err != nil {
			return nil, err
		}
		return sim.New(model, integrators.NewHeun(), ctrl, filter), nil
	}
}

func TestRunKeepsJobOrder(t *testing.T) {
	cfg := sim.DefaultConfig()
	jobs := []Job{
		{Name: "smooth", Profile: road.Sine(1000, cfg.Dt, 0.005, 1.0)},
		{Name: "bump", Profile: road.Bump(1000, cfg.Dt, 0.04, 1.0, 0.3)},
		{Name: "step", Profile: road.StepInput(1000, cfg.Dt, 0.05, 1.0)},
		{Name: "flat", Profile: road.Flat(1000, cfg.Dt, 0)},
	}

	r := New(testFactory(t, cfg), cfg, metrics.DefaultWeights())
	outcomes, err := r.Run(context.Background(), jobs)
	if err != nil {
		t.Fatal(err)
	}

	if len(outcomes) != len(jobs) {
		t.Fatalf("expected %d outcomes, got %d", len(jobs), len(outcomes))
	}
	for i, o := range outcomes {
		if o.Name != jobs[i].Name {
			t.Errorf("outcome %d: expected %s, got %s", i, jobs[i].Name, o.Name)
		}
		if o.Result == nil || len(o.Result.Records) != 1000 {
			t.Errorf("outcome %s: missing or short trace", o.Name)
		}
	}

	// the rougher roads must cost more than the flat one
	flatScore := outcomes[3].Score.Total
	for _, o := range outcomes[:3] {
		if o.Score.Total <= flatScore {
			t.Errorf("%s should score worse than flat: %g vs %g",
				o.Name, o.Score.Total, flatScore)
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	cfg := sim.DefaultConfig()
	jobs := []Job{
		{Name: "a", Profile: road.Sine(800, cfg.Dt, 0.01, 1.2)},
		{Name: "b", Profile: road.Sine(800, cfg.Dt, 0.02, 2.4)},
		{Name: "c", Profile: road.Bump(800, cfg.Dt, 0.03, 0.5, 0.4)},
	}

	factory := testFactory(t, cfg)
	r := New(factory, cfg, metrics.DefaultWeights())
	parallel, err := r.Run(context.Background(), jobs)
	if err != nil {
		t.Fatal(err)
	}

	for i, job := range jobs {
		s, err := factory()
		if err != nil {
			t.Fatal(err)
		}
		result, err := s.Run(context.Background(), nil, job.Profile, cfg)
		if err != nil {
			t.Fatal(err)
		}
		score, err := metrics.ScoreTrace(result.Records, metrics.DefaultWeights())
		if err != nil {
			t.Fatal(err)
		}
		if parallel[i].Score.Total != score.Total {
			t.Errorf("%s: parallel score %v differs from serial %v",
				job.Name, parallel[i].Score.Total, score.Total)
		}
	}
}

func TestRunFailsOnBadJob(t *testing.T) {
	cfg := sim.DefaultConfig()
	jobs := []Job{
		{Name: "good", Profile: road.Flat(100, cfg.Dt, 0)},
		{Name: "empty", Profile: road.Profile{}},
	}

	r := New(testFactory(t, cfg), cfg, metrics.DefaultWeights())
	outcomes, err := r.Run(context.Background(), jobs)
	if err == nil {
		t.Fatal("expected the empty job to fail the batch")
	}
	if outcomes != nil {
		t.Error("no partial outcomes on failure")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	cfg := sim.DefaultConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(testFactory(t, cfg), cfg, metrics.DefaultWeights())
	_, err := r.Run(ctx, []Job{{Name: "a", Profile: road.Flat(100, cfg.Dt, 0)}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
