// Package optimizer is the entry point of the mission-packing engine. It
// wires scoring, constraint resolution, the solver, and result assembly
// into a single stateless call.
package optimizer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nexusfield/missionpack/internal/constraint"
	"github.com/nexusfield/missionpack/internal/manifest"
	"github.com/nexusfield/missionpack/internal/metrics"
	"github.com/nexusfield/missionpack/internal/scoring"
	"github.com/nexusfield/missionpack/internal/solver"
)

// Optimizer is safe for concurrent use: every Optimize call operates on its
// own local data and no state survives between calls.
type Optimizer struct {
	registry   *constraint.Registry
	weights    scoring.Weights
	solverOpts solver.Options
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger attaches a structured logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Optimizer) {
		o.logger = logger
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Optimizer) {
		o.metrics = m
	}
}

// WithWeights replaces the default scoring weights.
func WithWeights(w scoring.Weights) Option {
	return func(o *Optimizer) {
		o.weights = w
	}
}

// WithSolverOptions replaces the default solver tuning.
func WithSolverOptions(opts solver.Options) Option {
	return func(o *Optimizer) {
		o.solverOpts = opts
	}
}

// New constructs an Optimizer around a preset registry.
func New(registry *constraint.Registry, opts ...Option) *Optimizer {
	o := &Optimizer{
		registry:   registry,
		weights:    scoring.DefaultWeights(),
		solverOpts: solver.DefaultOptions(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Request describes one optimization call. Constraints resolve from exactly
// one of: an explicit Constraints object, a Preset name (optionally with
// Overrides), or a mission duration. Weights optionally replace the
// optimizer's scoring weights for this call only.
type Request struct {
	Items         []manifest.Item
	Preset        string
	Overrides     *constraint.Overrides
	Constraints   *constraint.Constraints
	DurationHours int
	Weights       *scoring.Weights
}

// Optimize validates the candidate items, resolves the packing constraints,
// scores every candidate, runs the solver, and assembles the structured
// result. Infeasibility is not an error: the result carries
// feasible=false along with the best-effort packing. A context deadline
// bounds the exact solver path; it never aborts the call.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	if err := manifest.ValidateAll(req.Items); err != nil {
		return Result{}, err
	}

	constraints, err := o.resolveConstraints(req)
	if err != nil {
		return Result{}, err
	}

	weights := o.weights
	if req.Weights != nil {
		weights = *req.Weights
	}
	if err := weights.Validate(); err != nil {
		return Result{}, err
	}

	candidates := make([]solver.Candidate, 0, len(req.Items))
	for _, it := range req.Items {
		candidates = append(candidates, solver.Candidate{
			Item:    it,
			Utility: scoring.Score(it, weights),
		})
	}
	o.logger.Debug("candidates scored",
		zap.Int("count", len(candidates)),
		zap.String("preset", constraints.PresetName),
	)

	solution := solver.Solve(ctx, candidates, constraints, o.solverOpts)
	elapsed := time.Since(start)
	result := assemble(solution, constraints, elapsed)

	o.observe(result, elapsed)
	o.logger.Info("optimization complete",
		zap.Int("selected", len(result.Selected)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Float64("total_weight", result.TotalWeight),
		zap.Float64("total_utility", result.TotalUtility),
		zap.String("strategy", string(result.Strategy)),
		zap.Bool("feasible", result.Feasible),
		zap.Int64("elapsed_ms", result.ElapsedMs),
	)
	return result, nil
}

func (o *Optimizer) resolveConstraints(req Request) (constraint.Constraints, error) {
	switch {
	case req.Constraints != nil:
		c := req.Constraints.Clone()
		if err := c.Validate(); err != nil {
			return constraint.Constraints{}, err
		}
		return c, nil
	case req.Preset != "":
		if req.Overrides != nil {
			return o.registry.Merge(req.Preset, *req.Overrides)
		}
		return o.registry.Resolve(req.Preset)
	case req.DurationHours > 0:
		return o.registry.ResolveByDuration(req.DurationHours)
	default:
		return constraint.Constraints{}, fmt.Errorf("%w: no preset, duration, or explicit constraints supplied", constraint.ErrInvalidConstraint)
	}
}

func (o *Optimizer) observe(result Result, elapsed time.Duration) {
	if o.metrics == nil {
		return
	}
	o.metrics.ObserveSolve(string(result.Strategy), elapsed)
	if result.DeadlineFallback {
		o.metrics.IncDeadlineFallback()
	}
	if !result.Feasible {
		o.metrics.IncInfeasibleResult()
	}
}
