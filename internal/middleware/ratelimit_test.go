package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// --- GeneralMiddleware (書籍API全般) のテスト ---

func TestGeneralMiddleware_AllowsRequestsWithinBurst(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     2,
		GeneralBurst:    5,
		AuthRate:        1,
		AuthBurst:       10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handlerCallCount := 0
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), 1))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestGeneralMiddleware_Returns429WhenBurstExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    2,
		AuthRate:        1,
		AuthBurst:       10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), 1))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// バースト分（2回）は通る
	for i := 0; i < 2; i++ {
		if w := doRequest(); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}

	// 3回目は429
	w := doRequest()
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestGeneralMiddleware_LimitsPerUser(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		AuthRate:        1,
		AuthBurst:       10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), userID))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// ユーザー1がバーストを使い切る
	if w := doRequest(1); w.Code != http.StatusOK {
		t.Fatalf("user 1 first request: status = %d", w.Code)
	}
	if w := doRequest(1); w.Code != http.StatusTooManyRequests {
		t.Errorf("user 1 second request: status = %d, want 429", w.Code)
	}

	// ユーザー2は影響を受けない
	if w := doRequest(2); w.Code != http.StatusOK {
		t.Errorf("user 2 request: status = %d, want 200", w.Code)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("general limiter count = %d, want 2", got)
	}
}

func TestGeneralMiddleware_RejectsWithoutUserID(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	handlerCalled := false
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	// 認証ミドルウェアを通っていないリクエスト
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if handlerCalled {
		t.Error("handler should not be called")
	}
}

// --- AuthMiddleware (登録・ログイン) のテスト ---

func TestRateLimiterAuthMiddleware_LimitsPerIP(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    10,
		AuthRate:        1,
		AuthBurst:       2,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.AuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// 同一IPからバースト分（2回）は通り、3回目で429
	for i := 0; i < 2; i++ {
		if w := doRequest("10.0.0.1:12345"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	if w := doRequest("10.0.0.1:54321"); w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}

	// 別IPは独立してカウントされる
	if w := doRequest("10.0.0.2:12345"); w.Code != http.StatusOK {
		t.Errorf("different IP: status = %d, want 200", w.Code)
	}

	if got := rl.AuthLimiterCount(); got != 2 {
		t.Errorf("auth limiter count = %d, want 2", got)
	}
}

// --- クリーンアップのテスト ---

func TestRateLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		AuthRate:        1,
		AuthBurst:       1,
		CleanupInterval: 10 * time.Millisecond,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	// エントリを作成
	rl.getOrCreate(&rl.generalMu, rl.generalLimiters, "1", cfg.GeneralRate, cfg.GeneralBurst)
	if got := rl.GeneralLimiterCount(); got != 1 {
		t.Fatalf("general limiter count = %d, want 1", got)
	}

	// CleanupInterval*2 を超えて放置されたエントリは削除される
	rl.generalMu.Lock()
	rl.generalLimiters["1"].lastAccess = time.Now().Add(-time.Minute)
	rl.generalMu.Unlock()

	rl.cleanup()

	if got := rl.GeneralLimiterCount(); got != 0 {
		t.Errorf("general limiter count after cleanup = %d, want 0", got)
	}
}

// --- Retry-After の算出テスト ---

func TestWriteRateLimitResponse_RetryAfter(t *testing.T) {
	tests := []struct {
		name      string
		rate      rate.Limit
		wantRetry string
	}{
		{"毎秒2リクエスト", 2, "1"},
		{"毎分10リクエスト", rate.Limit(10.0 / 60.0), "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeRateLimitResponse(w, tt.rate)

			if w.Code != http.StatusTooManyRequests {
				t.Errorf("status = %d, want 429", w.Code)
			}
			if got := w.Header().Get("Retry-After"); got != tt.wantRetry {
				t.Errorf("Retry-After = %q, want %q", got, tt.wantRetry)
			}
		})
	}
}
