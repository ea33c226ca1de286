package middleware

import (
	"context"
	"net/http"
	"strings"

	"shop-recommend-app/internal/modules/account/usecase"
	"shop-recommend-app/internal/presentation/http/response"
)

type claimsKey struct{}

// TokenValidator トークン検証のインターフェース
type TokenValidator interface {
	Authenticate(token string) (*usecase.Claims, error)
}

// RequireAuth Bearerトークンを必須にするミドルウェア
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized, response.MsgUnauthorized)
				return
			}

			claims, err := validator.Authenticate(token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, response.MsgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext 認証済みのクレームを取得
func ClaimsFromContext(ctx context.Context) (*usecase.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*usecase.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
