package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records outcomes of the outbound HTTP client policies.
type ClientMetrics struct {
	retries      *prometheus.CounterVec
	authFailures prometheus.Counter
}

// NewClientMetrics registers the client metrics on the provided registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "client_request_retries_total",
		Help: "Outbound requests retried after a transient failure.",
	}, []string{"host"})
	authFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "client_auth_failures_total",
		Help: "Outbound requests rejected with an authentication failure.",
	})
	reg.MustRegister(retries, authFailures)
	return &ClientMetrics{
		retries:      retries,
		authFailures: authFailures,
	}
}

// IncRetry increments the retry counter for the target host.
func (c *ClientMetrics) IncRetry(host string) {
	if c == nil || c.retries == nil {
		return
	}
	c.retries.WithLabelValues(normalizeLabel(host)).Inc()
}

// IncAuthFailure increments the forced-logout counter.
func (c *ClientMetrics) IncAuthFailure() {
	if c == nil || c.authFailures == nil {
		return
	}
	c.authFailures.Inc()
}

// RatesMetrics tracks exchange-rate refresh outcomes.
type RatesMetrics struct {
	success prometheus.Counter
	failure prometheus.Counter
}

// NewRatesMetrics registers the rate-refresh metrics on the provided registerer.
func NewRatesMetrics(reg prometheus.Registerer) *RatesMetrics {
	if reg == nil {
		return &RatesMetrics{}
	}
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exchange_rate_refresh_success_total",
		Help: "Successful exchange-rate table refreshes.",
	})
	failure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exchange_rate_refresh_failure_total",
		Help: "Failed exchange-rate table refreshes.",
	})
	reg.MustRegister(success, failure)
	return &RatesMetrics{success: success, failure: failure}
}

// IncSuccess increments the refresh success counter.
func (r *RatesMetrics) IncSuccess() {
	if r == nil || r.success == nil {
		return
	}
	r.success.Inc()
}

// IncFailure increments the refresh failure counter.
func (r *RatesMetrics) IncFailure() {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
