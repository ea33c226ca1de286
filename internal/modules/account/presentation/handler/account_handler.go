package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/modules/account/domain"
	"shop-recommend-app/internal/modules/account/presentation/middleware"
	"shop-recommend-app/internal/modules/account/usecase"
	"shop-recommend-app/internal/presentation/http/response"
)

// maxLoginBodyBytes ログインリクエストボディの上限
const maxLoginBodyBytes = 1 << 20

const (
	msgLoginSuccess    = "Inicio de sesión exitoso"
	msgMissingFields   = "Usuario y contraseña son obligatorios"
	msgWelcomeTemplate = "Bienvenido, %s, has iniciado sesión correctamente"
)

// AccountHandler ログインとプロフィールのハンドラー
type AccountHandler struct {
	authUseCase *usecase.AuthUseCase
	validate    *validator.Validate
}

// NewAccountHandler 新しいAccountHandlerを作成
func NewAccountHandler(authUseCase *usecase.AuthUseCase) *AccountHandler {
	return &AccountHandler{
		authUseCase: authUseCase,
		validate:    validator.New(),
	}
}

// LoginRequest ログインリクエスト
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginResponse ログインレスポンス
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// MeResponse ログイン中の利用者
type MeResponse struct {
	Usuario  string `json:"usuario"`
	Vendedor bool   `json:"vendedor"`
	Message  string `json:"message"`
	Status   string `json:"status"`
}

// SellerResponse 出品者プロフィール
type SellerResponse struct {
	Perfil *domain.SellerProfile `json:"perfil"`
	Status string                `json:"status"`
}

// HandleLogin ログインしてトークンを返す
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogin(w, r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidJSON)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	token, err := h.authUseCase.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		logging.Ctx(r.Context()).Info().Str("username", req.Username).Msg("Login rejected")
		response.Error(w, http.StatusUnauthorized, response.MsgInvalidCredential)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Login failed")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	response.JSON(w, http.StatusOK, LoginResponse{
		Token:   token,
		Message: msgLoginSuccess,
		Status:  response.StatusSuccess,
	})
}

// HandleMe ログイン中の利用者を返す（RequireAuthの後ろで使う）
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, response.MsgUnauthorized)
		return
	}

	response.JSON(w, http.StatusOK, MeResponse{
		Usuario:  claims.Username,
		Vendedor: claims.Seller,
		Message:  fmt.Sprintf(msgWelcomeTemplate, claims.Username),
		Status:   response.StatusSuccess,
	})
}

// HandleSeller 出品者プロフィールを返す
func (h *AccountHandler) HandleSeller(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.authUseCase.SellerProfile(r.Context(), username)
	if errors.Is(err, domain.ErrUserNotFound) {
		response.Error(w, http.StatusNotFound, response.MsgNotFound)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("seller", username).Msg("Failed to load seller profile")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	response.JSON(w, http.StatusOK, SellerResponse{Perfil: profile, Status: response.StatusSuccess})
}

// parseLogin JSONまたはフォームからログイン情報を読む
func parseLogin(w http.ResponseWriter, r *http.Request) (*LoginRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, nil
}
