package usecase

import (
	"context"

	"shop-recommend-app/internal/modules/recommendation/domain"
)

// RecommendationService 推薦戦略を保持して処理を委譲する
type RecommendationService struct {
	strategy domain.RecommendationStrategy
}

// NewRecommendationService 新しいRecommendationServiceを作成
func NewRecommendationService(strategy domain.RecommendationStrategy) *RecommendationService {
	return &RecommendationService{strategy: strategy}
}

// Recommend 説明文から推薦を取得
func (s *RecommendationService) Recommend(ctx context.Context, description string) domain.Outcome {
	return s.strategy.Generate(ctx, description)
}

// StrategyName 使用中の戦略名を返す
func (s *RecommendationService) StrategyName() string {
	return s.strategy.Name()
}
