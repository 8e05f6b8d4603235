package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/woodkari/woodkari-backend/api/responses"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy throttles an auth surface with two independent
// counters: one per client IP and one per (hashed) email address, so
// neither a single botnet IP nor a targeted account gets hammered.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	if p.window <= 0 {
		return false
	}
	return p.ipLimit > 0 || p.emailLimit > 0
}

func (p AuthRateLimitPolicy) surface() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

// AuthRateLimit enforces the policy's counters for auth endpoints.
// With a nil store or a disabled policy it is a no-op.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		limiter := authLimiter{policy: policy, store: store, logg: logg}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.admit(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

type authLimiter struct {
	policy AuthRateLimitPolicy
	store  rateLimiterStore
	logg   *logger.Logger
}

// admit runs the IP counter first, then the email counter. It reports
// whether the request may proceed; when false the response has already
// been written.
func (l authLimiter) admit(w http.ResponseWriter, r *http.Request) bool {
	ctx := r.Context()

	if l.policy.ipLimit > 0 {
		ip := clientIP(r)
		if ip != "" {
			key := fmt.Sprintf("rl:ip:%s:%s", l.policy.surface(), ip)
			ok := l.bump(ctx, w, key, l.policy.ipLimit, map[string]any{"scope": "ip", "ip": ip})
			if !ok {
				return false
			}
		}
	}

	if l.policy.emailLimit > 0 {
		email, ok := l.peekEmail(ctx, w, r)
		if !ok {
			return false
		}
		if email != "" {
			hash := hashValue(email)
			key := fmt.Sprintf("rl:email:%s:%s", l.policy.surface(), hash)
			if !l.bump(ctx, w, key, l.policy.emailLimit, map[string]any{"scope": "email", "email_hash": hash}) {
				return false
			}
		}
	}

	return true
}

// bump increments one counter and writes the 429 (or 503 on a broken
// store) when the request must be rejected.
func (l authLimiter) bump(ctx context.Context, w http.ResponseWriter, key string, limit int, fields map[string]any) bool {
	count, err := l.store.IncrWithTTL(ctx, key, l.policy.window)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if count <= int64(limit) {
		return true
	}

	if l.logg != nil {
		fields["policy"] = l.policy.surface()
		fields["attempts"] = count
		fields["limit"] = limit
		fields["window_seconds"] = int(l.policy.window.Seconds())
		l.logg.Warn(l.logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return false
}

// peekEmail reads the body to extract the email field, then restores
// the body so the handler downstream can decode it again.
func (l authLimiter) peekEmail(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
		return "", false
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", true
	}
	return strings.ToLower(strings.TrimSpace(payload.Email)), true
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
