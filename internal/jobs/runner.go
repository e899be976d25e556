package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/metrics"
)

const defaultCadence = 24 * time.Hour

// RunnerParams configure a scheduled job runner.
type RunnerParams struct {
	Logger   *logger.Logger
	Registry *Registry
	// Lock is optional. Without one every instance runs every cycle, which
	// is what an in-process runner over instance-local state wants.
	Lock    Lock
	Metrics *metrics.JobMetrics
	Cadence time.Duration
}

// Runner executes the registered jobs on a fixed cadence.
type Runner struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.JobMetrics
	cadence  time.Duration
}

// NewRunner builds a runner.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	cadence := params.Cadence
	if cadence <= 0 {
		cadence = defaultCadence
	}
	return &Runner{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		cadence:  cadence,
	}, nil
}

// Run executes a cycle immediately and then on every tick until the context
// is canceled.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.cycle(ctx); err != nil {
		r.logg.Error(ctx, "job cycle finished with errors", err)
	}

	ticker := time.NewTicker(r.cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logg.Info(ctx, "job runner stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := r.cycle(ctx); err != nil {
				r.logg.Error(ctx, "job cycle finished with errors", err)
			}
		}
	}
}

// cycle runs every registered job and returns their failures combined. One
// failing job never stops the others.
func (r *Runner) cycle(ctx context.Context) error {
	if r.lock != nil {
		held, err := r.lock.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire job lock: %w", err)
		}
		if !held {
			r.logg.Info(ctx, "another instance holds the job lock, skipping cycle")
			return nil
		}
		defer func() {
			if err := r.lock.Release(ctx); err != nil {
				r.logg.Error(ctx, "failed to release job lock", err)
			}
		}()
	}

	var errs error
	for _, job := range r.registry.Jobs() {
		errs = multierr.Append(errs, r.runJob(ctx, job))
	}
	return errs
}

func (r *Runner) runJob(ctx context.Context, job Job) error {
	jobCtx := r.logg.WithField(ctx, "job", job.Name())
	start := time.Now()
	err := job.Run(jobCtx)
	elapsed := time.Since(start)
	r.metrics.ObserveDuration(job.Name(), elapsed)

	jobCtx = r.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		r.logg.Error(jobCtx, "job failed", err)
		r.metrics.IncFailure(job.Name())
		return fmt.Errorf("%s: %w", job.Name(), err)
	}
	r.logg.Info(jobCtx, "job completed")
	r.metrics.IncSuccess(job.Name())
	return nil
}
