package usecase

import (
	"context"
	"fmt"
	"time"

	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/metrics"
	"shop-recommend-app/internal/modules/recommendation/domain"
)

// persistTimeout 履歴保存に使う時間の上限
const persistTimeout = 3 * time.Second

// ChatUseCase チャットによる商品推薦のユースケース
type ChatUseCase struct {
	recommender *RecommendationService
	images      *ImageSynthesisService
	logs        domain.RecommendationLogRepository
}

// NewChatUseCase 新しいChatUseCaseを作成（logsはnil可）
func NewChatUseCase(recommender *RecommendationService, images *ImageSynthesisService, logs domain.RecommendationLogRepository) *ChatUseCase {
	return &ChatUseCase{
		recommender: recommender,
		images:      images,
		logs:        logs,
	}
}

// Chat 説明文から商品を推薦し、可能なら画像を添える
func (uc *ChatUseCase) Chat(ctx context.Context, description string) (*domain.ChatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("chat request aborted: %w", err)
	}

	outcome := uc.recommender.Recommend(ctx, description)
	provider := uc.recommender.StrategyName()
	metrics.RecordRecommendation(provider, outcome.Degraded, string(outcome.Cause))

	result := &domain.ChatResult{Outcome: outcome}

	if outcome.Degraded {
		logging.Ctx(ctx).Warn().
			Str("provider", provider).
			Str("cause", string(outcome.Cause)).
			Msg("Recommendation degraded")
	}

	if outcome.WantsImage() {
		result.ImageBase64 = uc.images.Synthesize(ctx, outcome.ProductName())
	}

	uc.persist(ctx, description, result, provider)

	return result, nil
}

// History 最近の推薦履歴を取得
func (uc *ChatUseCase) History(ctx context.Context, limit int) ([]*domain.RecommendationLog, error) {
	if uc.logs == nil {
		return []*domain.RecommendationLog{}, nil
	}
	logs, err := uc.logs.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation history: %w", err)
	}
	return logs, nil
}

// HistoryEnabled 履歴が保存されるか判定
func (uc *ChatUseCase) HistoryEnabled() bool {
	return uc.logs != nil
}

// persist 履歴を保存（失敗しても応答は変えない）
func (uc *ChatUseCase) persist(ctx context.Context, description string, result *domain.ChatResult, provider string) {
	if uc.logs == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	entry := domain.NewRecommendationLog(description, result, provider)
	if err := uc.logs.Create(ctx, entry); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("log_id", entry.ID).Msg("Failed to persist recommendation log")
	}
}
