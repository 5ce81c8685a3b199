package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poupaenergia/poupa/internal/logging"
	"github.com/poupaenergia/poupa/internal/savings"
)

// DefaultConcurrency is used when a Runner is built with a limit below 1.
const DefaultConcurrency = 4

// Estimator runs one estimate. *savings.Engine satisfies it.
type Estimator interface {
	Estimate(ctx context.Context, req savings.Request) (*savings.Estimate, error)
}

// Result is the outcome of one scenario. Exactly one of Estimate and Err is set.
type Result struct {
	Scenario Scenario          `json:"scenario"`
	Estimate *savings.Estimate `json:"estimate,omitempty"`
	Err      error             `json:"-"`
	Duration time.Duration     `json:"duration"`
}

// Failed reports whether the scenario produced no estimate.
func (r Result) Failed() bool { return r.Err != nil }

// Runner evaluates scenarios against an Estimator.
type Runner struct {
	estimator   Estimator
	concurrency int
	onProgress  ProgressCallback
}

// NewRunner creates a Runner evaluating at most concurrency scenarios at once.
func NewRunner(estimator Estimator, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Runner{estimator: estimator, concurrency: concurrency}
}

// WithProgressCallback sets a callback invoked after each scenario.
// The callback may be called from several goroutines.
func (r *Runner) WithProgressCallback(callback ProgressCallback) *Runner {
	r.onProgress = callback
	return r
}

// Run evaluates every scenario and returns results in input order.
//
// Scenario failures are recorded on their Result. Run itself fails only
// when there is nothing to run or ctx is cancelled, in which case scenarios
// not yet started carry the context error.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	if len(scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	log := logging.FromContext(ctx)
	results := make([]Result, len(scenarios))
	progress := NewProgress(len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, sc := range scenarios {
		results[i].Scenario = sc
		if gctx.Err() != nil {
			results[i].Err = gctx.Err()
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			start := time.Now()
			est, err := r.estimator.Estimate(gctx, sc.Request())
			results[i].Duration = time.Since(start)
			if err != nil {
				results[i].Err = err
			} else {
				results[i].Estimate = est
			}

			snap := progress.record(err != nil)
			if r.onProgress != nil {
				r.onProgress(snap)
			}
			return nil
		})
	}

	_ = g.Wait()

	snap := progress.Snapshot()
	log.Debug().Ctx(ctx).
		Int("scenarios", snap.Total).
		Int("failed", snap.Failed).
		Dur("elapsed", snap.Elapsed).
		Msg("batch complete")

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch cancelled after %d of %d scenarios: %w", snap.Completed, snap.Total, err)
	}
	return results, nil
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total     int
	Succeeded int
	Invalid   int
	Failed    int
}

// Summarize counts results, separating validation failures from others.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err == nil:
			s.Succeeded++
		case errors.Is(r.Err, savings.ErrInvalidNumber):
			s.Invalid++
		default:
			s.Failed++
		}
	}
	return s
}
