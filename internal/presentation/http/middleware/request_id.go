package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"shop-recommend-app/internal/logging"
)

// HeaderRequestID リクエストIDのヘッダー名
const HeaderRequestID = "X-Request-ID"

// RequestID リクエストIDと相関IDをコンテキストに付与する
//
// 受け取ったX-Request-IDがあればそれを使い、無ければ生成してレスポンスにも返す。
func RequestID(next http.Handler) http.Handler {
	chiRequestID := chimiddleware.RequestID(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
			r.Header.Set(HeaderRequestID, requestID)
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())

		chiRequestID.ServeHTTP(w, r.WithContext(ctx))
	})
}
