package httpclient

import (
	"net/http"
	"sync"
	"time"

	"github.com/fabrikline/wholesale-backend/pkg/config"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/metrics"
)

// Policy decorates a RoundTripper with one cross-cutting request behavior.
// Policies compose outermost-first: New(base, a, b) runs a around b around base.
type Policy func(next http.RoundTripper) http.RoundTripper

// TokenSource exposes the stored bearer credential to client policies.
type TokenSource interface {
	// Token returns the current credential, or "" when none is stored.
	Token() string
	// Clear removes the stored credential.
	Clear()
}

// New builds an http.Client whose transport applies the provided policies in order.
func New(base http.RoundTripper, timeout time.Duration, policies ...Policy) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	transport := base
	for i := len(policies) - 1; i >= 0; i-- {
		if policies[i] == nil {
			continue
		}
		transport = policies[i](transport)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// NewAuthenticated assembles the standard authenticated pipeline:
// attach-credential, then handle-401, then retry-once.
func NewAuthenticated(base http.RoundTripper, cfg config.ClientConfig, source TokenSource, onAuthFailure func(), logg *logger.Logger, m *metrics.ClientMetrics) *http.Client {
	return New(base, cfg.Timeout,
		BearerCredential(source),
		AuthFailure(source, onAuthFailure, logg, m),
		RetryOnce(cfg.RetryDelay, logg, m),
	)
}

// StaticToken holds a fixed credential, typically loaded from configuration.
// Clear drops it for the rest of the process lifetime.
type StaticToken struct {
	mu    sync.Mutex
	token string
}

// NewStaticToken wraps a configured credential as a TokenSource.
func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: token}
}

func (s *StaticToken) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *StaticToken) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
