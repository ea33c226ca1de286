package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"shop-recommend-app/internal/metrics"
	"shop-recommend-app/internal/modules/recommendation/domain"
)

// maxErrorBody エラーレスポンス本文の保持上限
const maxErrorBody = 512

// Sender 推論APIへの送信インターフェース
type Sender interface {
	// Send JSONを送信し、パース済みのJSONを返す
	Send(ctx context.Context, url string, payload any) (any, error)

	// SendRaw JSONを送信し、レスポンス本文をそのまま返す
	SendRaw(ctx context.Context, url string, payload any) ([]byte, error)
}

// Client 推論APIのHTTPクライアント
//
// タイムアウトは呼び出し側がコンテキストで指定する。リトライは行わない。
type Client struct {
	apiKey     string
	upstream   string
	httpClient *http.Client
}

// NewClient 新しいClientを作成
func NewClient(apiKey, upstream string) *Client {
	return &Client{
		apiKey:     apiKey,
		upstream:   upstream,
		httpClient: &http.Client{},
	}
}

// SetHTTPClient テスト用にHTTPクライアントを設定（テストコードからのみ使用）
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Send JSONを送信し、パース済みのJSONを返す
func (c *Client) Send(ctx context.Context, url string, payload any) (any, error) {
	body, err := c.post(ctx, url, payload)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return parsed, nil
}

// SendRaw JSONを送信し、レスポンス本文をそのまま返す
func (c *Client) SendRaw(ctx context.Context, url string, payload any) ([]byte, error) {
	return c.post(ctx, url, payload)
}

// post 共通のPOST処理
func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("inference url is empty")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	body, err := c.do(req)
	result := metrics.InferenceResultOK
	if err != nil {
		result = string(domain.ClassifyError(err))
	}
	metrics.RecordInferenceCall(c.upstream, result, time.Since(start))

	return body, err
}

// do リクエストを実行し、2xxの本文を返す
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &domain.RemoteServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
