package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/modules/recommendation/domain"
	"shop-recommend-app/internal/modules/recommendation/usecase"
	"shop-recommend-app/internal/presentation/http/response"
)

const (
	// maxBodyBytes リクエストボディの上限
	maxBodyBytes = 1 << 20

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	HeaderOutcome = "X-Recommendation-Outcome"
	HeaderCause   = "X-Recommendation-Cause"
)

// ChatHandler チャット推薦のハンドラー
type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

// NewChatHandler 新しいChatHandlerを作成
func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUseCase: chatUseCase}
}

// ChatRequest チャットリクエスト
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse チャットレスポンス
type ChatResponse struct {
	Producto string  `json:"producto"`
	Imagen   *string `json:"imagen"`
	Status   string  `json:"status"`
}

// HistoryEntry 推薦履歴の1件
type HistoryEntry struct {
	ID          string    `json:"id"`
	Descripcion string    `json:"descripcion"`
	Producto    string    `json:"producto"`
	Degradado   bool      `json:"degradado"`
	Causa       string    `json:"causa"`
	ConImagen   bool      `json:"con_imagen"`
	Proveedor   string    `json:"proveedor"`
	CreadoEn    time.Time `json:"creado_en"`
}

// HistoryResponse 推薦履歴レスポンス
type HistoryResponse struct {
	Historial []HistoryEntry `json:"historial"`
	Status    string         `json:"status"`
}

// HandleChat 説明文から商品を推薦する
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed, response.MsgMethodNotAllowed)
		return
	}

	ctx := r.Context()

	description, err := parseMessage(w, r)
	if err != nil {
		if isMalformedRequest(err) {
			logging.Ctx(ctx).Debug().Err(err).Msg("Rejected chat request body")
			response.Error(w, http.StatusBadRequest, response.MsgInvalidJSON)
			return
		}
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to read chat request")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	result, err := h.chatUseCase.Chat(ctx, description)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Chat request failed")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	outcome := "ok"
	if result.Outcome.Degraded {
		outcome = "degraded"
	}
	w.Header().Set(HeaderOutcome, outcome)
	w.Header().Set(HeaderCause, string(result.Outcome.Cause))

	response.JSON(w, http.StatusOK, ChatResponse{
		Producto: result.Outcome.Text,
		Imagen:   result.ImageBase64,
		Status:   response.StatusSuccess,
	})
}

// HandleHistory 最近の推薦履歴を返す
func (h *ChatHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, response.MsgMethodNotAllowed)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(w, http.StatusBadRequest, response.MsgInvalidParameter)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	logs, err := h.chatUseCase.History(r.Context(), limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to load history")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	entries := make([]HistoryEntry, len(logs))
	for i, l := range logs {
		entries[i] = HistoryEntry{
			ID:          l.ID,
			Descripcion: l.Description,
			Producto:    l.ProductText,
			Degradado:   l.Degraded,
			Causa:       string(l.Cause),
			ConImagen:   l.HasImage,
			Proveedor:   l.Provider,
			CreadoEn:    l.CreatedAt,
		}
	}

	response.JSON(w, http.StatusOK, HistoryResponse{Historial: entries, Status: response.StatusSuccess})
}

// parseMessage JSONまたはフォームから message を取り出す
//
// message が無い場合は空文字列をそのまま返す。
func parseMessage(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var req ChatRequest
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			return "", &domain.MalformedRequestError{Err: err}
		}
		// 本文は単一のJSONドキュメントであること
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			if err == nil {
				err = errors.New("unexpected data after JSON document")
			}
			return "", &domain.MalformedRequestError{Err: err}
		}
		return req.Message, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return "", &domain.MalformedRequestError{Err: err}
		}
	default:
		if err := r.ParseForm(); err != nil {
			return "", &domain.MalformedRequestError{Err: err}
		}
	}

	return r.PostFormValue("message"), nil
}

// isMalformedRequest エラーが不正なリクエストボディによるものか判定
func isMalformedRequest(err error) bool {
	var malformed *domain.MalformedRequestError
	return errors.As(err, &malformed)
}
