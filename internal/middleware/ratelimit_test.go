package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestRateLimiter(t *testing.T, config RateLimiterConfig) *RateLimiter {
	t.Helper()
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	rl := NewRateLimiter(config)
	t.Cleanup(rl.Stop)
	return rl
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// バースト上限を超えたリクエストが429になること
func TestSignupMiddleware_LimitsPerIP(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		SignupRate:  rate.Limit(10.0 / 60.0),
		SignupBurst: 3,
	})
	handler := rl.SignupMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/signup", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if !strings.Contains(w.Body.String(), "Too many requests") {
		t.Errorf("body = %q", w.Body.String())
	}
}

// IPごとに独立したリミッターが使われること
func TestSignupMiddleware_IsolatesIPs(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		SignupRate:  rate.Limit(10.0 / 60.0),
		SignupBurst: 1,
	})
	handler := rl.SignupMiddleware()(okHandler())

	// 1つ目のIPは上限に達する
	for _, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/signup", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("first IP: status = %d, want %d", w.Code, want)
		}
	}

	// 別のIPは影響を受けない
	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	req.RemoteAddr = "192.0.2.2:12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("second IP: status = %d, want 200", w.Code)
	}

	if got := rl.SignupLimiterCount(); got != 2 {
		t.Errorf("limiter count = %d, want 2", got)
	}
}

// 認証済みリミッターはコンテキストのユーザーIDをキーにすること
func TestGeneralMiddleware_LimitsPerUser(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:  rate.Limit(2),
		GeneralBurst: 1,
	})
	handler := rl.GeneralMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

// ユーザーIDがないリクエストは401になること
func TestGeneralMiddleware_RequiresUserID(t *testing.T) {
	rl := newTestRateLimiter(t, DefaultRateLimiterConfig())
	handler := rl.GeneralMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// 古いエントリがクリーンアップされること
func TestRateLimiter_Cleanup(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		SignupRate:      rate.Limit(1),
		SignupBurst:     1,
		CleanupInterval: 10 * time.Millisecond,
	})
	handler := rl.SignupMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := rl.SignupLimiterCount(); got != 1 {
		t.Fatalf("limiter count = %d, want 1", got)
	}

	// クリーンアップ間隔より古くなるまで待つ
	deadline := time.Now().Add(time.Second)
	for rl.SignupLimiterCount() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := rl.SignupLimiterCount(); got != 0 {
		t.Errorf("limiter count = %d, want 0 after cleanup", got)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Errorf("clientIP = %q, want %q", got, "192.0.2.1")
	}

	req.RemoteAddr = "no-port"
	if got := clientIP(req); got != "no-port" {
		t.Errorf("clientIP = %q, want %q", got, "no-port")
	}
}
