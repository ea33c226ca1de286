package ai

import (
	"fmt"

	"shop-recommend-app/internal/config"
	"shop-recommend-app/internal/modules/recommendation/domain"
	"shop-recommend-app/internal/modules/shared/infrastructure/inference"
)

// NewRecommendationStrategy 設定に応じた推薦戦略を作成
func NewRecommendationStrategy(cfg *config.RecommendationConfig) (domain.RecommendationStrategy, error) {
	switch cfg.Provider {
	case "huggingface":
		return NewHuggingFaceTextStrategy(newSender(cfg, "text"), cfg), nil
	case "openai":
		return NewOpenAITextStrategy(cfg), nil
	case "stub":
		return NewStubTextStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown recommendation provider: %q", cfg.Provider)
	}
}

// NewImageStrategy 設定に応じた画像生成戦略を作成
func NewImageStrategy(cfg *config.RecommendationConfig) (domain.ImageStrategy, error) {
	switch cfg.ImageProvider {
	case "huggingface":
		return NewHuggingFaceImageStrategy(newSender(cfg, "image"), cfg), nil
	case "stub":
		return NewStubImageStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown image provider: %q", cfg.ImageProvider)
	}
}

// newSender 推論APIクライアントを作成（有効ならブレーカーで包む）
func newSender(cfg *config.RecommendationConfig, upstream string) inference.Sender {
	client := inference.NewClient(cfg.APIKey, upstream)
	if !cfg.Breaker.Enabled {
		return client
	}
	return inference.NewBreakerSender(client, "huggingface-"+upstream, cfg.Breaker)
}
