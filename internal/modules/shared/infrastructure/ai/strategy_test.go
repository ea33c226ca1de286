package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"shop-recommend-app/internal/config"
	"shop-recommend-app/internal/metrics"
	"shop-recommend-app/internal/modules/recommendation/domain"
	"shop-recommend-app/internal/modules/shared/infrastructure/inference"
)

// mockSender テスト用のSender
type mockSender struct {
	sendFunc    func(ctx context.Context, url string, payload any) (any, error)
	sendRawFunc func(ctx context.Context, url string, payload any) ([]byte, error)
}

func (m *mockSender) Send(ctx context.Context, url string, payload any) (any, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, url, payload)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSender) SendRaw(ctx context.Context, url string, payload any) ([]byte, error) {
	if m.sendRawFunc != nil {
		return m.sendRawFunc(ctx, url, payload)
	}
	return nil, errors.New("not implemented")
}

func testRecommendationConfig(textURL, imageURL string) *config.RecommendationConfig {
	return &config.RecommendationConfig{
		Provider:           "huggingface",
		ImageProvider:      "huggingface",
		APIKey:             "hf_test",
		TextURL:            textURL,
		ImageURL:           imageURL,
		OpenAIModel:        "gpt-4o-mini",
		Temperature:        0.7,
		MaxNewTokens:       50,
		ImageWidth:         512,
		ImageHeight:        512,
		ImageInferenceStep: 20,
		TextTimeout:        2 * time.Second,
		ImageTimeout:       2 * time.Second,
	}
}

func TestHuggingFaceTextStrategy_Generate(t *testing.T) {
	tests := []struct {
		name         string
		result       any
		err          error
		wantText     string
		wantDegraded bool
		wantCause    domain.ErrorKind
	}{
		{
			name: "正常系: 商品を推薦",
			result: []any{map[string]any{
				"generated_text": "User: necesito un cuaderno\nAssistant: \"Cuaderno profesional: 200 hojas con espiral\"",
			}},
			wantText:  "Cuaderno profesional: 200 hojas con espiral",
			wantCause: domain.KindNone,
		},
		{
			name:         "異常系: 上流が503",
			err:          &domain.RemoteServiceError{StatusCode: http.StatusServiceUnavailable},
			wantText:     domain.NotFoundMessage,
			wantDegraded: true,
			wantCause:    domain.KindRemoteStatus,
		},
		{
			name:         "異常系: タイムアウト",
			err:          domain.ErrTimeout,
			wantText:     domain.UnavailableMessage,
			wantDegraded: true,
			wantCause:    domain.KindTimeout,
		},
		{
			name:         "異常系: 接続エラー",
			err:          errors.New("connection refused"),
			wantText:     domain.UnavailableMessage,
			wantDegraded: true,
			wantCause:    domain.KindTransport,
		},
		{
			name:         "異常系: リストではないレスポンス",
			result:       map[string]any{"error": "loading"},
			wantText:     domain.NotFoundMessage,
			wantDegraded: true,
			wantCause:    domain.KindMalformedResponse,
		},
		{
			name:         "異常系: 空のリスト",
			result:       []any{},
			wantText:     domain.NotFoundMessage,
			wantDegraded: true,
			wantCause:    domain.KindMalformedResponse,
		},
		{
			name:         "異常系: 回答が空",
			result:       []any{map[string]any{"generated_text": "User: x\nAssistant: \"\""}},
			wantText:     domain.NotFoundMessage,
			wantDegraded: true,
			wantCause:    domain.KindEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &mockSender{
				sendFunc: func(ctx context.Context, url string, payload any) (any, error) {
					return tt.result, tt.err
				},
			}
			strategy := NewHuggingFaceTextStrategy(sender, testRecommendationConfig("http://text", "http://image"))

			got := strategy.Generate(context.Background(), "necesito un cuaderno")

			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Degraded != tt.wantDegraded {
				t.Errorf("Degraded = %v, want %v", got.Degraded, tt.wantDegraded)
			}
			if got.Cause != tt.wantCause {
				t.Errorf("Cause = %v, want %v", got.Cause, tt.wantCause)
			}
		})
	}
}

func TestHuggingFaceTextStrategy_RequestPayload(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`[{"generated_text":"Assistant: Mochila: impermeable"}]`))
	}))
	defer server.Close()

	cfg := testRecommendationConfig(server.URL, server.URL)
	strategy := NewHuggingFaceTextStrategy(inference.NewClient(cfg.APIKey, "text"), cfg)

	got := strategy.Generate(context.Background(), "una mochila")
	if got.Degraded || got.Text != "Mochila: impermeable" {
		t.Fatalf("Generate() = %+v", got)
	}

	params, ok := body["parameters"].(map[string]any)
	if !ok {
		t.Fatalf("parameters missing in body: %v", body)
	}
	if params["max_new_tokens"] != float64(50) {
		t.Errorf("max_new_tokens = %v, want 50", params["max_new_tokens"])
	}
	if params["temperature"] != 0.7 {
		t.Errorf("temperature = %v, want 0.7", params["temperature"])
	}
	if params["do_sample"] != true {
		t.Errorf("do_sample = %v, want true", params["do_sample"])
	}
}

func TestHuggingFaceTextStrategy_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := testRecommendationConfig(server.URL, server.URL)
	cfg.TextTimeout = 50 * time.Millisecond
	strategy := NewHuggingFaceTextStrategy(inference.NewClient("", "text"), cfg)

	got := strategy.Generate(context.Background(), "algo")
	if got.Cause != domain.KindTimeout {
		t.Errorf("Cause = %v, want %v", got.Cause, domain.KindTimeout)
	}
	if got.Text != domain.UnavailableMessage {
		t.Errorf("Text = %q, want %q", got.Text, domain.UnavailableMessage)
	}
}

func TestHuggingFaceImageStrategy_Synthesize(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		err       error
		wantOK    bool
		wantCause domain.ErrorKind
	}{
		{
			name:      "正常系: 画像を取得",
			data:      []byte{0x89, 0x50, 0x4E, 0x47},
			wantOK:    true,
			wantCause: domain.KindNone,
		},
		{
			name:      "異常系: 上流がエラー",
			err:       &domain.RemoteServiceError{StatusCode: http.StatusInternalServerError},
			wantCause: domain.KindRemoteStatus,
		},
		{
			name:      "異常系: ブレーカーが開いている",
			err:       domain.ErrCircuitOpen,
			wantCause: domain.KindCircuitOpen,
		},
		{
			name:      "異常系: 空のボディ",
			data:      []byte{},
			wantCause: domain.KindEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPayload any
			sender := &mockSender{
				sendRawFunc: func(ctx context.Context, url string, payload any) ([]byte, error) {
					gotPayload = payload
					return tt.data, tt.err
				},
			}
			strategy := NewHuggingFaceImageStrategy(sender, testRecommendationConfig("http://text", "http://image"))

			got := strategy.Synthesize(context.Background(), "Cuaderno profesional")

			if got.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", got.OK(), tt.wantOK)
			}
			if got.Cause != tt.wantCause {
				t.Errorf("Cause = %v, want %v", got.Cause, tt.wantCause)
			}
			req, ok := gotPayload.(imageGenerationRequest)
			if !ok {
				t.Fatalf("payload type = %T", gotPayload)
			}
			if req.Parameters.Width != 512 || req.Parameters.Height != 512 || req.Parameters.NumInferenceSteps != 20 {
				t.Errorf("parameters = %+v", req.Parameters)
			}
		})
	}
}

// openAICalls OpenAI呼び出しヒストグラムの観測数を返す
func openAICalls(t *testing.T, result string) uint64 {
	t.Helper()

	obs, err := metrics.InferenceCallDuration.GetMetricWithLabelValues("openai", result)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues() error = %v", err)
	}
	var m dto.Metric
	if err := obs.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestOpenAITextStrategy_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "resp_1",
			"object": "response",
			"created_at": 1,
			"status": "completed",
			"model": "gpt-4o-mini",
			"output": [{
				"type": "message",
				"id": "msg_1",
				"status": "completed",
				"role": "assistant",
				"content": [{"type": "output_text", "text": "\"Cuaderno profesional: 200 hojas\"", "annotations": []}]
			}]
		}`))
	}))
	defer server.Close()

	cfg := testRecommendationConfig("http://text", "http://image")
	cfg.OpenAIBaseURL = server.URL + "/"
	cfg.OpenAIAPIKey = "sk-test"

	before := openAICalls(t, metrics.InferenceResultOK)
	got := NewOpenAITextStrategy(cfg).Generate(context.Background(), "necesito un cuaderno")

	if got.Degraded {
		t.Fatalf("Generate() degraded: %+v", got)
	}
	if delta := openAICalls(t, metrics.InferenceResultOK) - before; delta != 1 {
		t.Errorf("ok observations = %d, want 1", delta)
	}
	if got.Text != "Cuaderno profesional: 200 hojas" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestOpenAITextStrategy_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	cfg := testRecommendationConfig("http://text", "http://image")
	cfg.OpenAIBaseURL = server.URL + "/"

	before := openAICalls(t, string(domain.KindRemoteStatus))
	got := NewOpenAITextStrategy(cfg).Generate(context.Background(), "algo")

	if delta := openAICalls(t, string(domain.KindRemoteStatus)) - before; delta != 1 {
		t.Errorf("remote_status observations = %d, want 1", delta)
	}
	if !got.Degraded || got.Cause != domain.KindRemoteStatus {
		t.Errorf("Generate() = %+v, want remote_status degradation", got)
	}
	if got.Text != domain.NotFoundMessage {
		t.Errorf("Text = %q, want %q", got.Text, domain.NotFoundMessage)
	}
}

func TestStubStrategies(t *testing.T) {
	text := NewStubTextStrategy().Generate(context.Background(), "cualquier cosa")
	if text.Degraded || text.Text != StubAnswer {
		t.Errorf("stub Generate() = %+v", text)
	}

	img := NewStubImageStrategy().Synthesize(context.Background(), "Cuaderno")
	if !img.OK() {
		t.Error("stub Synthesize() returned no image")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := NewStubTextStrategy().Generate(ctx, "x"); !got.Degraded {
		t.Error("stub Generate() with canceled ctx should degrade")
	}
}

func TestFactory(t *testing.T) {
	tests := []struct {
		name          string
		provider      string
		imageProvider string
		wantText      string
		wantImage     string
		wantErr       bool
	}{
		{name: "正常系: huggingface", provider: "huggingface", imageProvider: "huggingface", wantText: "huggingface", wantImage: "huggingface"},
		{name: "正常系: openai", provider: "openai", imageProvider: "stub", wantText: "openai", wantImage: "stub"},
		{name: "正常系: stub", provider: "stub", imageProvider: "stub", wantText: "stub", wantImage: "stub"},
		{name: "異常系: 不明なprovider", provider: "unknown", imageProvider: "stub", wantErr: true},
		{name: "異常系: 不明なimage provider", provider: "stub", imageProvider: "unknown", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testRecommendationConfig("http://text", "http://image")
			cfg.Provider = tt.provider
			cfg.ImageProvider = tt.imageProvider
			cfg.Breaker = config.BreakerConfig{Enabled: true, MinRequests: 5, FailureRatio: 0.6, Interval: time.Minute, OpenTimeout: time.Second}

			text, textErr := NewRecommendationStrategy(cfg)
			image, imageErr := NewImageStrategy(cfg)

			if tt.wantErr {
				if textErr == nil && imageErr == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if textErr != nil || imageErr != nil {
				t.Fatalf("unexpected errors: %v, %v", textErr, imageErr)
			}
			if text.Name() != tt.wantText {
				t.Errorf("text Name() = %q, want %q", text.Name(), tt.wantText)
			}
			if image.Name() != tt.wantImage {
				t.Errorf("image Name() = %q, want %q", image.Name(), tt.wantImage)
			}
		})
	}
}
