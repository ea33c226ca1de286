package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shop-recommend-app/internal/metrics"
)

// Metrics リクエスト数とレイテンシを記録するミドルウェア
//
// パス変数でラベルが増えないよう、chiのルートパターンで集計する。
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.RecordAPIRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
