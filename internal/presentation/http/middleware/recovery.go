package middleware

import (
	"net/http"
	"runtime/debug"

	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/presentation/http/response"
)

// Recovery パニックリカバリーミドルウェア
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Ctx(r.Context()).Error().
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
