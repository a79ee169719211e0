package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder はリクエストメトリクスの記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type RequestRecorder interface {
	RecordRequest(statusCode int, duration time.Duration)
}

// NewMetricsMiddleware は完了したリクエストごとに1回メトリクスを記録する
// ミドルウェアを返す。
func NewMetricsMiddleware(recorder RequestRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordRequest(rec.statusCode, time.Since(start))
		})
	}
}
