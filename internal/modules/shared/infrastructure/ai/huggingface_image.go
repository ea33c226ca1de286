package ai

import (
	"context"
	"time"

	"shop-recommend-app/internal/config"
	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/modules/recommendation/domain"
	"shop-recommend-app/internal/modules/shared/infrastructure/inference"
)

// imageGenerationRequest 画像生成APIのリクエスト
type imageGenerationRequest struct {
	Inputs     string                    `json:"inputs"`
	Parameters imageGenerationParameters `json:"parameters"`
}

type imageGenerationParameters struct {
	Width             int `json:"width"`
	Height            int `json:"height"`
	NumInferenceSteps int `json:"num_inference_steps"`
}

// HuggingFaceImageStrategy Hugging Face推論APIによる画像生成戦略
type HuggingFaceImageStrategy struct {
	sender  inference.Sender
	url     string
	width   int
	height  int
	steps   int
	timeout time.Duration
}

// NewHuggingFaceImageStrategy 新しいHuggingFaceImageStrategyを作成
func NewHuggingFaceImageStrategy(sender inference.Sender, cfg *config.RecommendationConfig) *HuggingFaceImageStrategy {
	return &HuggingFaceImageStrategy{
		sender:  sender,
		url:     cfg.ImageURL,
		width:   cfg.ImageWidth,
		height:  cfg.ImageHeight,
		steps:   cfg.ImageInferenceStep,
		timeout: cfg.ImageTimeout,
	}
}

// Synthesize 商品名から画像を生成（失敗時は画像なし）
func (s *HuggingFaceImageStrategy) Synthesize(ctx context.Context, productName string) domain.ImageOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	request := imageGenerationRequest{
		Inputs: BuildImagePrompt(productName),
		Parameters: imageGenerationParameters{
			Width:             s.width,
			Height:            s.height,
			NumInferenceSteps: s.steps,
		},
	}

	data, err := s.sender.SendRaw(ctx, s.url, request)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("product", productName).Msg("Image synthesis failed")
		return domain.ImageFailed(domain.ClassifyError(err))
	}
	if len(data) == 0 {
		return domain.ImageFailed(domain.KindEmptyResponse)
	}

	return domain.ImageOK(data)
}

// Name 戦略名を返す
func (s *HuggingFaceImageStrategy) Name() string {
	return "huggingface"
}
