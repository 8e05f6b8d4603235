package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(email, remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"`+email+`","password":"secret"}`))
	req.RemoteAddr = remoteAddr
	return req
}

func TestAuthRateLimitRestoresBodyAndAllowsUnderLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 2)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"email":"tester@example.com"`) {
			t.Fatalf("body not restored for downstream handler: %s", string(body))
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("tester@example.com", "1.2.3.4:5678"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRateLimitEmailCounterBlocksThirdAttempt(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(okHandler())

	for attempt := 1; attempt <= 3; attempt++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("blocked@example.com", "1.2.3.4:5678"))

		if attempt <= 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("attempt %d: expected 200, got %d", attempt, rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("attempt %d: expected 429, got %d", attempt, rec.Code)
		}
		var payload struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
			t.Fatalf("unexpected error code %q", payload.Error.Code)
		}
	}
}

func TestAuthRateLimitIPCounterBlocksSecondAttempt(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, loginRequest("foo@example.com", "5.6.7.8:1234"))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request through, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, loginRequest("bar@example.com", "5.6.7.8:1234"))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second request from same ip, got %d", second.Code)
	}
}

func TestAuthRateLimitCountsEmailsSeparately(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(okHandler())

	for _, email := range []string{"first@example.com", "second@example.com"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(email, "1.2.3.4:5678"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", email, rec.Code)
		}
	}
}

func TestAuthRateLimitDisabledPolicyIsPassthrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	handler := AuthRateLimit(policy, nil, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("anyone@example.com", "9.9.9.9:1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
}
