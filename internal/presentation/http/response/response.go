package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// 利用者向けのエラーメッセージ
const (
	MsgInvalidJSON       = "JSON inválido"
	MsgInternalError     = "Error interno del servidor"
	MsgMethodNotAllowed  = "Método no permitido"
	MsgNotFound          = "Recurso no encontrado"
	MsgInvalidParameter  = "Parámetro inválido"
	MsgUnauthorized      = "No autorizado"
	MsgTooManyRequests   = "Demasiadas solicitudes, intenta más tarde"
	MsgServiceDisabled   = "Servicio no disponible"
	MsgInvalidCredential = "Usuario o contraseña incorrectos"
)

// ErrorResponse エラー応答の共通形式
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// JSON 値をJSONで書き出す
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error エラー応答を書き出す
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message, Status: StatusError})
}
