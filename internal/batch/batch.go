// Package batch runs many independent optimizations concurrently. Each
// solve is dispatched to its own worker so one long solve cannot stall the
// others, with an optional token-bucket throttle on solve starts.
package batch

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nexusfield/missionpack/internal/optimizer"
)

const defaultConcurrency = 4

// Job is one optimization request in a batch. An empty ID gets a generated
// UUID so outcomes stay attributable.
type Job struct {
	ID      string
	Request optimizer.Request
}

// Outcome pairs a job with its result or error. Outcomes preserve job
// order regardless of completion order.
type Outcome struct {
	ID     string
	Result optimizer.Result
	Err    error
}

// Runner fans a batch of jobs out over a bounded worker pool.
type Runner struct {
	opt         *optimizer.Optimizer
	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency bounds the number of in-flight solves.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithRateLimit throttles solve starts to ratePerSecond with the given
// burst. A non-positive rate disables throttling.
func WithRateLimit(ratePerSecond float64, burst int) RunnerOption {
	return func(r *Runner) {
		if ratePerSecond <= 0 {
			r.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner constructs a Runner around an optimizer.
func NewRunner(opt *optimizer.Optimizer, opts ...RunnerOption) *Runner {
	r := &Runner{
		opt:         opt,
		concurrency: defaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes every job and returns one outcome per job, in job order.
// Individual job failures (invalid items, unknown presets) are recorded in
// their outcome; Run itself only fails when the context is cancelled before
// the batch drains.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		outcomes[i] = Outcome{ID: job.ID}

		i, job := i, job
		group.Go(func() error {
			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					outcomes[i].Err = err
					return err
				}
			}

			result, err := r.opt.Optimize(ctx, job.Request)
			outcomes[i].Result = result
			outcomes[i].Err = err
			if err != nil {
				r.logger.Warn("batch job failed",
					zap.String("job_id", job.ID),
					zap.Error(err),
				)
			}
			// Job-level failures stay in the outcome; they must not
			// cancel sibling solves.
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
