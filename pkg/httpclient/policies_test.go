package httpclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fabrikline/wholesale-backend/pkg/config"
)

type staticSource struct {
	token   string
	cleared atomic.Bool
}

func (s *staticSource) Token() string {
	if s.cleared.Load() {
		return ""
	}
	return s.token
}

func (s *staticSource) Clear() { s.cleared.Store(true) }

func TestBearerCredentialAttachesToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(nil, time.Second, BearerCredential(&staticSource{token: "abc123"}))
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer abc123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestBearerCredentialEmptyTokenLeavesRequestBare(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(nil, time.Second, BearerCredential(&staticSource{token: ""}))
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestAuthFailureClearsCredentialAndNotifies(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	source := &staticSource{token: "stale"}
	var notified atomic.Bool
	client := New(nil, time.Second, AuthFailure(source, func() { notified.Store(true) }, nil, nil))

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 to be surfaced, got %d", resp.StatusCode)
	}
	if source.Token() != "" {
		t.Fatalf("expected credential to be cleared")
	}
	if !notified.Load() {
		t.Fatalf("expected forced-logout hook to fire")
	}
}

func TestAuthFailureIgnoresSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	source := &staticSource{token: "fresh"}
	client := New(nil, time.Second, AuthFailure(source, nil, nil, nil))

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if source.Token() != "fresh" {
		t.Fatalf("credential should survive a successful response")
	}
}

func TestRetryOnceRecoversFromServerFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(nil, 5*time.Second, RetryOnce(time.Millisecond, nil, nil))
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected success after retry, got %d", resp.StatusCode)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly two attempts, got %d", calls.Load())
	}
}

func TestRetryOnceDoesNotRetryTwice(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(nil, 5*time.Second, RetryOnce(time.Millisecond, nil, nil))
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected final failure to surface, got %d", resp.StatusCode)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly two attempts, got %d", calls.Load())
	}
}

func TestRetryOnceReplaysRequestBody(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	bodies := make([]string, 0, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		bodies = append(bodies, string(buf[:n]))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(nil, 5*time.Second, RetryOnce(time.Millisecond, nil, nil))
	resp, err := client.Post(server.URL, "application/json", strings.NewReader(`{"ok":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if len(bodies) != 2 || bodies[0] != bodies[1] {
		t.Fatalf("expected identical body on both attempts, got %v", bodies)
	}
}

func TestRetryOnceLeavesClientErrorsAlone(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(nil, time.Second, RetryOnce(time.Millisecond, nil, nil))
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if calls.Load() != 1 {
		t.Fatalf("4xx responses must not be retried, got %d attempts", calls.Load())
	}
}

func TestNewAuthenticatedAssemblesFullPipeline(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.ClientConfig{Timeout: 5 * time.Second, RetryDelay: time.Millisecond}
	client := NewAuthenticated(nil, cfg, NewStaticToken("rates-key"), nil, nil, nil)

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected retried success, got %d", resp.StatusCode)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly two attempts, got %d", calls.Load())
	}
	if gotAuth != "Bearer rates-key" {
		t.Fatalf("expected credential on retried request, got %q", gotAuth)
	}
}

func TestNewAuthenticatedClearsCredentialOnRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	source := NewStaticToken("revoked-key")
	var notified atomic.Bool
	cfg := config.ClientConfig{Timeout: time.Second, RetryDelay: time.Millisecond}
	client := NewAuthenticated(nil, cfg, source, func() { notified.Store(true) }, nil, nil)

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if source.Token() != "" {
		t.Fatalf("expected stored credential to be cleared")
	}
	if !notified.Load() {
		t.Fatalf("expected auth-failure hook to fire")
	}
}
