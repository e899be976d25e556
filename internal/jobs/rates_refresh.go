package jobs

import (
	"context"
	"fmt"
)

// ratesRefresher is the slice of the currency service the job drives.
type ratesRefresher interface {
	Refresh(ctx context.Context) error
}

type ratesRefreshJob struct {
	rates ratesRefresher
}

// NewRatesRefreshJob wraps the exchange-rate refresh as a scheduled job.
func NewRatesRefreshJob(rates ratesRefresher) (Job, error) {
	if rates == nil {
		return nil, fmt.Errorf("rates service required")
	}
	return &ratesRefreshJob{rates: rates}, nil
}

func (j *ratesRefreshJob) Name() string { return "rates-refresh" }

// Run fetches the provider table. A failed fetch is reported to the runner
// but leaves the served table untouched.
func (j *ratesRefreshJob) Run(ctx context.Context) error {
	return j.rates.Refresh(ctx)
}
