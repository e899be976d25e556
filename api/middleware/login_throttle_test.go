package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

type fakeWindowLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeWindowLimiter() *fakeWindowLimiter {
	return &fakeWindowLimiter{counts: map[string]int64{}}
}

func (f *fakeWindowLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	count := f.counts[scope]
	return count <= limit, count, nil
}

func loginRequest(email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"`+email+`","password":"secret"}`))
	req.RemoteAddr = "10.0.0.9:41234"
	return req
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Error.Code
}

func TestThrottlePassesBodyThrough(t *testing.T) {
	limiter := newFakeWindowLimiter()
	policy := ThrottlePolicy{Surface: "login", Window: time.Minute, PerAddress: 5, PerAccount: 5}
	handler := Throttle(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"email":"buyer@example.com"`) {
			t.Fatalf("handler saw truncated body: %s", string(body))
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("buyer@example.com"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestThrottleBlocksExhaustedAccount(t *testing.T) {
	limiter := newFakeWindowLimiter()
	policy := ThrottlePolicy{Surface: "login", Window: time.Minute, PerAccount: 2}
	handler := Throttle(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("Blocked@Example.com"))

		if i < 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("attempt %d: expected success before limit, got %d", i+1, rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 once exhausted, got %d", rec.Code)
		}
		if code := decodeErrorCode(t, rec.Body.Bytes()); code != string(pkgerrors.CodeRateLimit) {
			t.Fatalf("unexpected error code %s", code)
		}
	}
}

func TestThrottleAccountScopeIsCaseInsensitive(t *testing.T) {
	limiter := newFakeWindowLimiter()
	policy := ThrottlePolicy{Surface: "login", Window: time.Minute, PerAccount: 1}
	handler := Throttle(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("buyer@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("BUYER@example.com"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("case variant should share the counter, got %d", rec.Code)
	}
}

func TestThrottleBlocksExhaustedAddress(t *testing.T) {
	limiter := newFakeWindowLimiter()
	policy := ThrottlePolicy{Surface: "login", Window: time.Minute, PerAddress: 1}
	handler := Throttle(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("a@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", rec.Code)
	}

	// Different account, same source address.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("b@example.com"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected address counter to block, got %d", rec.Code)
	}
}

func TestThrottleFailsOpenOnLimiterError(t *testing.T) {
	limiter := newFakeWindowLimiter()
	limiter.err = errors.New("redis down")
	policy := ThrottlePolicy{Surface: "login", Window: time.Minute, PerAddress: 1, PerAccount: 1}
	handler := Throttle(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("buyer@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("limiter outage must not block logins, got %d", rec.Code)
	}
}

func TestThrottleDisabledPolicyIsTransparent(t *testing.T) {
	handler := Throttle(ThrottlePolicy{}, newFakeWindowLimiter(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("buyer@example.com"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("inactive policy should pass through, got %d", rec.Code)
	}
}
