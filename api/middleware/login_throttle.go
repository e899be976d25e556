package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fabrikline/wholesale-backend/api/responses"
	"github.com/fabrikline/wholesale-backend/pkg/config"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

// Credential bodies larger than this are counted by address only.
const throttleBodyLimit = 4 << 10

// windowLimiter is the slice of the redis client used for throttling.
type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// ThrottlePolicy caps attempts against a credential surface, counted per
// source address and per submitted account within a fixed window.
type ThrottlePolicy struct {
	Surface    string
	Window     time.Duration
	PerAddress int64
	PerAccount int64
}

// LoginThrottlePolicy maps the login rate-limit configuration onto a policy.
func LoginThrottlePolicy(cfg config.AuthRateLimitConfig) ThrottlePolicy {
	return ThrottlePolicy{
		Surface:    "login",
		Window:     cfg.LoginWindow,
		PerAddress: int64(cfg.LoginIPLimit),
		PerAccount: int64(cfg.LoginEmailLimit),
	}
}

func (p ThrottlePolicy) active() bool {
	return p.Window > 0 && (p.PerAddress > 0 || p.PerAccount > 0)
}

func (p ThrottlePolicy) surface() string {
	s := strings.ToLower(strings.TrimSpace(p.Surface))
	if s == "" {
		return "auth"
	}
	return s
}

func (p ThrottlePolicy) addressScope(addr string) string {
	return p.surface() + ":addr:" + addr
}

func (p ThrottlePolicy) accountScope(digest string) string {
	return p.surface() + ":acct:" + digest
}

// Throttle rejects requests once either counter for the policy's surface is
// exhausted. A limiter outage fails open: counting loses to availability on
// the login path.
func Throttle(policy ThrottlePolicy, limiter windowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.active() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.PerAddress > 0 {
				if addr := remoteAddress(r); addr != "" {
					if blocked := checkWindow(ctx, limiter, logg, policy, policy.addressScope(addr), policy.PerAddress, w); blocked {
						return
					}
				}
			}

			if policy.PerAccount > 0 {
				if digest, ok := accountDigest(r); ok {
					if blocked := checkWindow(ctx, limiter, logg, policy, policy.accountScope(digest), policy.PerAccount, w); blocked {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkWindow counts the attempt and writes the 429 response when the scope
// is exhausted. Returns true when the request must not proceed.
func checkWindow(ctx context.Context, limiter windowLimiter, logg *logger.Logger, policy ThrottlePolicy, scope string, limit int64, w http.ResponseWriter) bool {
	allowed, count, err := limiter.FixedWindowAllow(ctx, scope, limit, policy.Window)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "scope", scope), "throttle counter unavailable, admitting request")
		}
		return false
	}
	if allowed {
		return false
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.Window.Seconds()),
		})
		logg.Warn(logCtx, "login.throttled")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return true
}

// accountDigest peeks at the JSON body for the submitted email and returns
// its sha256 digest. The body is re-buffered so the handler can read it.
func accountDigest(r *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, throttleBodyLimit))
	if err != nil {
		return "", false
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))

	var creds struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &creds); err != nil {
		return "", false
	}
	account := strings.ToLower(strings.TrimSpace(creds.Email))
	if account == "" {
		return "", false
	}
	sum := sha256.Sum256([]byte(account))
	return hex.EncodeToString(sum[:]), true
}

// remoteAddress resolves the client address, trusting proxy headers first.
func remoteAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}
	if addr := strings.TrimSpace(r.Header.Get("X-Real-IP")); addr != "" {
		return addr
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
