package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"shop-recommend-app/internal/config"
	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/metrics"
	"shop-recommend-app/internal/modules/recommendation/domain"
)

// OpenAITextStrategy OpenAI Responses APIによる推薦戦略
type OpenAITextStrategy struct {
	client      openai.Client
	model       openai.ChatModel
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewOpenAITextStrategy 新しいOpenAITextStrategyを作成
func NewOpenAITextStrategy(cfg *config.RecommendationConfig, opts ...option.RequestOption) *OpenAITextStrategy {
	requestOpts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIAPIKey),
		// 再試行はブレーカーと利用者側に任せる
		option.WithMaxRetries(0),
	}
	if cfg.OpenAIBaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	requestOpts = append(requestOpts, opts...)

	return &OpenAITextStrategy{
		client:      openai.NewClient(requestOpts...),
		model:       openai.ChatModel(cfg.OpenAIModel),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxNewTokens,
		timeout:     cfg.TextTimeout,
	}
}

// Generate 説明文から推薦テキストを生成
func (s *OpenAITextStrategy) Generate(ctx context.Context, description string) domain.Outcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: s.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(BuildRecommendationPrompt(description)),
		},
		Temperature:     openai.Float(s.temperature),
		MaxOutputTokens: openai.Int(int64(s.maxTokens)),
	})
	if err != nil {
		err = translateOpenAIError(ctx, err)
		kind := domain.ClassifyError(err)
		metrics.RecordInferenceCall("openai", string(kind), time.Since(start))
		logging.Ctx(ctx).Warn().Err(err).Str("strategy", s.Name()).Msg("Text generation failed")
		return domain.Degraded(kind)
	}
	metrics.RecordInferenceCall("openai", metrics.InferenceResultOK, time.Since(start))

	answer := ExtractAnswer(resp.OutputText())
	if answer == "" {
		return domain.Degraded(domain.KindEmptyResponse)
	}

	return domain.OK(answer)
}

// Name 戦略名を返す
func (s *OpenAITextStrategy) Name() string {
	return "openai"
}

// translateOpenAIError SDKのエラーをドメインのエラーに変換
func translateOpenAIError(ctx context.Context, err error) error {
	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		return &domain.RemoteServiceError{StatusCode: apiErr.StatusCode, Body: apiErr.Message}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	default:
		return err
	}
}
