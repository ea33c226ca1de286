package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authmw "shop-recommend-app/internal/modules/account/presentation/middleware"
	"shop-recommend-app/internal/presentation/di"
	"shop-recommend-app/internal/presentation/http/middleware"
	"shop-recommend-app/internal/presentation/http/response"
)

// NewRouter 新しいルーターを作成
func NewRouter(container *di.Container) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.LoggerWithHealthCheck)
	r.Use(middleware.Metrics)
	// panicの500もアクセスログとメトリクスに残るよう内側で回復する
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, response.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, response.MsgMethodNotAllowed)
	})

	// Health check / Prometheus
	r.Method(http.MethodGet, "/health", container.HealthHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Chat API（パスは旧クライアント互換のため /chat_ia/ も残す）
	chatHandler := container.ChatHandler()
	limit := container.Config().RateLimit
	r.Group(func(r chi.Router) {
		if limit.Enabled {
			r.Use(middleware.RateLimitByIP(limit.Requests, limit.Window))
		}
		r.HandleFunc("/chat_ia/", chatHandler.HandleChat)
		r.HandleFunc("/api/v1/chat", chatHandler.HandleChat)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/recommendations/history", databaseOnly(container, chatHandler.HandleHistory))

		if catalog := container.CatalogHandler(); catalog != nil {
			r.Get("/products", catalog.HandleList)
			r.Get("/products/{id}", catalog.HandleGet)
		}

		if account := container.AccountHandler(); account != nil {
			r.Post("/login", account.HandleLogin)
			r.With(authmw.RequireAuth(container.AuthUseCase())).Get("/me", account.HandleMe)
			r.Get("/sellers/{username}", account.HandleSeller)
		}
	})

	return r
}

// databaseOnly MySQL無効時は503を返す
func databaseOnly(container *di.Container, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !container.DatabaseEnabled() {
			response.Error(w, http.StatusServiceUnavailable, response.MsgServiceDisabled)
			return
		}
		next(w, r)
	}
}
