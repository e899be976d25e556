package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

const defaultRetentionDays = 90

// eventPruner is the slice of the analytics repository the job drives.
type eventPruner interface {
	DeleteTypeBefore(ctx context.Context, eventType enums.AnalyticsEventType, cutoff time.Time) (int64, error)
}

type eventsRetentionJob struct {
	repo eventPruner
	logg *logger.Logger
	days int
	now  func() time.Time
}

// NewEventsRetentionJob prunes analytics events older than the retention
// horizon, one event type at a time.
func NewEventsRetentionJob(repo eventPruner, logg *logger.Logger, retentionDays int) (Job, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &eventsRetentionJob{
		repo: repo,
		logg: logg,
		days: retentionDays,
		now:  time.Now,
	}, nil
}

func (j *eventsRetentionJob) Name() string { return "events-retention" }

// Run sweeps each event type independently so one failing delete does not
// abandon the rest of the sweep.
func (j *eventsRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.days)

	var errs error
	var pruned int64
	for _, eventType := range enums.AnalyticsEventTypes() {
		removed, err := j.repo.DeleteTypeBefore(ctx, eventType, cutoff)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("prune %s: %w", eventType, err))
			continue
		}
		pruned += removed
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"pruned":         pruned,
		"retention_days": j.days,
	})
	j.logg.Info(logCtx, "event retention sweep complete")
	return errs
}
