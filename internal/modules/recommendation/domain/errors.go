package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind 劣化の原因種別
type ErrorKind string

const (
	KindNone              ErrorKind = "none"
	KindRemoteStatus      ErrorKind = "remote_status"
	KindTimeout           ErrorKind = "timeout"
	KindTransport         ErrorKind = "transport"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindEmptyResponse     ErrorKind = "empty_response"
	KindCircuitOpen       ErrorKind = "circuit_open"
)

var (
	// ErrTimeout 推論API呼び出しのタイムアウト
	ErrTimeout = errors.New("inference call timed out")
	// ErrCircuitOpen サーキットブレーカーが開いている
	ErrCircuitOpen = errors.New("inference circuit open")
	// ErrMalformedResponse 推論APIのレスポンス形式が不正
	ErrMalformedResponse = errors.New("malformed inference response")
)

// RemoteServiceError 推論APIが2xx以外を返した
type RemoteServiceError struct {
	StatusCode int
	Body       string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service returned status %d: %s", e.StatusCode, e.Body)
}

// MalformedRequestError リクエストボディを解析できない
type MalformedRequestError struct {
	Err error
}

func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed request body: %v", e.Err)
}

func (e *MalformedRequestError) Unwrap() error {
	return e.Err
}

// ClassifyError エラーを劣化原因に分類
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var remoteErr *RemoteServiceError
	switch {
	case errors.As(err, &remoteErr):
		return KindRemoteStatus
	case errors.Is(err, ErrCircuitOpen):
		return KindCircuitOpen
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	default:
		return KindTransport
	}
}
