package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"shop-recommend-app/internal/presentation/http/response"
)

// Version アプリケーションのバージョン
const Version = "1.0.0"

const healthCheckTimeout = 2 * time.Second

// Pinger 依存先の疎通確認
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc 関数をPingerとして扱う
type PingFunc func(ctx context.Context) error

// Ping fを呼ぶ
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler ヘルスチェックのハンドラー
type HealthHandler struct {
	textProvider  string
	imageProvider string
	checks        map[string]Pinger
}

// NewHealthHandler 新しいHealthHandlerを作成
func NewHealthHandler(textProvider, imageProvider string) *HealthHandler {
	return &HealthHandler{
		textProvider:  textProvider,
		imageProvider: imageProvider,
		checks:        make(map[string]Pinger),
	}
}

// AddCheck 依存先の疎通確認を追加
func (h *HealthHandler) AddCheck(name string, p Pinger) {
	h.checks[name] = p
}

// HealthResponse ヘルスチェックのレスポンス
type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Provider      string            `json:"provider"`
	ImageProvider string            `json:"image_provider"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// ServeHTTP ヘルスチェックを処理
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		response.Error(w, http.StatusMethodNotAllowed, response.MsgMethodNotAllowed)
		return
	}

	resp := HealthResponse{
		Status:        "ok",
		Version:       Version,
		Provider:      h.textProvider,
		ImageProvider: h.imageProvider,
	}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		names := make([]string, 0, len(h.checks))
		for name := range h.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		resp.Checks = make(map[string]string, len(names))
		for _, name := range names {
			if err := h.checks[name].Ping(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, resp)
}
