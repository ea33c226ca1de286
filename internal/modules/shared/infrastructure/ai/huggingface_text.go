package ai

import (
	"context"
	"time"

	"shop-recommend-app/internal/config"
	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/modules/recommendation/domain"
	"shop-recommend-app/internal/modules/shared/infrastructure/inference"
)

// textGenerationRequest テキスト生成APIのリクエスト
type textGenerationRequest struct {
	Inputs     string                   `json:"inputs"`
	Parameters textGenerationParameters `json:"parameters"`
}

type textGenerationParameters struct {
	Temperature  float64 `json:"temperature"`
	MaxNewTokens int     `json:"max_new_tokens"`
	DoSample     bool    `json:"do_sample"`
}

// HuggingFaceTextStrategy Hugging Face推論APIによる推薦戦略
type HuggingFaceTextStrategy struct {
	sender       inference.Sender
	url          string
	temperature  float64
	maxNewTokens int
	timeout      time.Duration
}

// NewHuggingFaceTextStrategy 新しいHuggingFaceTextStrategyを作成
func NewHuggingFaceTextStrategy(sender inference.Sender, cfg *config.RecommendationConfig) *HuggingFaceTextStrategy {
	return &HuggingFaceTextStrategy{
		sender:       sender,
		url:          cfg.TextURL,
		temperature:  cfg.Temperature,
		maxNewTokens: cfg.MaxNewTokens,
		timeout:      cfg.TextTimeout,
	}
}

// Generate 説明文から推薦テキストを生成
func (s *HuggingFaceTextStrategy) Generate(ctx context.Context, description string) domain.Outcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	request := textGenerationRequest{
		Inputs: BuildRecommendationPrompt(description),
		Parameters: textGenerationParameters{
			Temperature:  s.temperature,
			MaxNewTokens: s.maxNewTokens,
			DoSample:     true,
		},
	}

	result, err := s.sender.Send(ctx, s.url, request)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("strategy", s.Name()).Msg("Text generation failed")
		return domain.DegradedFromError(err)
	}

	text, ok := generatedText(result)
	if !ok {
		logging.Ctx(ctx).Warn().Str("strategy", s.Name()).Msg("Unexpected text generation response shape")
		return domain.Degraded(domain.KindMalformedResponse)
	}

	answer := ExtractAnswer(text)
	if answer == "" {
		return domain.Degraded(domain.KindEmptyResponse)
	}

	return domain.OK(answer)
}

// Name 戦略名を返す
func (s *HuggingFaceTextStrategy) Name() string {
	return "huggingface"
}

// generatedText [{"generated_text": "..."}] 形式から先頭のテキストを取り出す
func generatedText(result any) (string, bool) {
	list, ok := result.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := first["generated_text"].(string)
	return text, ok
}
