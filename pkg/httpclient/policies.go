package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/metrics"
)

// BearerCredential attaches the stored credential to every outgoing request.
// Requests go out unauthenticated when no credential is stored.
func BearerCredential(source TokenSource) Policy {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if source != nil {
				if token := source.Token(); token != "" {
					clone := r.Clone(r.Context())
					clone.Header.Set("Authorization", "Bearer "+token)
					return next.RoundTrip(clone)
				}
			}
			return next.RoundTrip(r)
		})
	}
}

// AuthFailure clears the stored credential and invokes the forced-logout hook
// when the server rejects the request as unauthenticated.
func AuthFailure(source TokenSource, onAuthFailure func(), logg *logger.Logger, m *metrics.ClientMetrics) Policy {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(r)
			if err != nil {
				return resp, err
			}
			if resp.StatusCode == http.StatusUnauthorized {
				if source != nil {
					source.Clear()
				}
				m.IncAuthFailure()
				if logg != nil {
					logg.Warn(r.Context(), "credential rejected, forcing logout")
				}
				if onAuthFailure != nil {
					onAuthFailure()
				}
			}
			return resp, nil
		})
	}
}

// RetryOnce retries a request exactly once after a fixed delay when the
// transport fails or the server answers with a 5xx. The outcome of the second
// attempt is surfaced to the caller unchanged, success or not.
func RetryOnce(delay time.Duration, logg *logger.Logger, m *metrics.ClientMetrics) Policy {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			var resp *http.Response
			attempt := 0

			backoff := retry.WithMaxRetries(1, retry.NewConstant(delay))
			err := retry.Do(r.Context(), backoff, func(ctx context.Context) error {
				attempt++
				req, reqErr := replayableRequest(r, attempt)
				if reqErr != nil {
					return reqErr
				}

				var rtErr error
				resp, rtErr = next.RoundTrip(req)
				if rtErr != nil {
					if attempt > 1 {
						return rtErr
					}
					if logg != nil {
						logg.Warn(r.Context(), "request transport failure, retrying once")
					}
					m.IncRetry(r.URL.Host)
					return retry.RetryableError(rtErr)
				}
				if resp.StatusCode >= http.StatusInternalServerError && attempt == 1 {
					drainBody(resp)
					if logg != nil {
						logg.Warn(r.Context(), "server failure response, retrying once")
					}
					m.IncRetry(r.URL.Host)
					return retry.RetryableError(fmt.Errorf("server returned %d", resp.StatusCode))
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return resp, nil
		})
	}
}

func replayableRequest(r *http.Request, attempt int) (*http.Request, error) {
	if attempt == 1 || r.Body == nil || r.GetBody == nil {
		return r, nil
	}
	body, err := r.GetBody()
	if err != nil {
		return nil, err
	}
	clone := r.Clone(r.Context())
	clone.Body = body
	return clone, nil
}

func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
