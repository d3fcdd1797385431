// Package batch scores many road profiles concurrently. Each run owns its
// own simulator, filter state and aggregator, so no locking is needed.
package batch

import (
	"context"
	"sync"

	"suspensim/internal/metrics"
	"suspensim/internal/road"
	"suspensim/internal/sim"
)

// Job is one named road profile to score.
type Job struct {
	Name    string
	Profile road.Profile
}

// Outcome pairs a job with its trace and score.
type Outcome struct {
	Name   string
	Result *sim.Result
	Score  metrics.Score
}

// Runner fans jobs out over goroutines. The factory must return a fresh
// simulator per call; simulators hold per-run filter and delay state and
// must never be shared between concurrent runs.
type Runner struct {
	factory func() (*sim.Simulator, error)
	cfg     sim.Config
	weights metrics.Weights
}

func New(factory func() (*sim.Simulator, error), cfg sim.Config, weights metrics.Weights) *Runner {
	return &Runner{factory: factory, cfg: cfg, weights: weights}
}

// Run scores all jobs. Outcomes keep job order. The first error wins and
// no partial outcome set is returned.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := r.factory()
			if err != nil {
				errs[idx] = err
				return
			}

			result, err := s.Run(ctx, nil, jobs[idx].Profile, r.cfg)
			if err != nil {
				errs[idx] = err
				return
			}

			score, err := metrics.ScoreTrace(result.Records, r.weights)
			if err != nil {
				errs[idx] = err
				return
			}

			outcomes[idx] = Outcome{Name: jobs[idx].Name, Result: result, Score: score}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}
