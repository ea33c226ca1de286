package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatResult チャットエンドポイントの結果
type ChatResult struct {
	Outcome Outcome
	// ImageBase64 画像がない場合は nil
	ImageBase64 *string
}

// RecommendationLog 推薦履歴のエンティティ
type RecommendationLog struct {
	ID          string
	Description string
	ProductText string
	Degraded    bool
	Cause       ErrorKind
	HasImage    bool
	Provider    string
	CreatedAt   time.Time
}

// NewRecommendationLog 新しいRecommendationLogを作成
func NewRecommendationLog(description string, result *ChatResult, provider string) *RecommendationLog {
	return &RecommendationLog{
		ID:          uuid.New().String(),
		Description: description,
		ProductText: result.Outcome.Text,
		Degraded:    result.Outcome.Degraded,
		Cause:       result.Outcome.Cause,
		HasImage:    result.ImageBase64 != nil,
		Provider:    provider,
		CreatedAt:   time.Now(),
	}
}

// RecommendationLogRepository 推薦履歴リポジトリのインターフェース
type RecommendationLogRepository interface {
	Create(ctx context.Context, log *RecommendationLog) error
	FindRecent(ctx context.Context, limit int) ([]*RecommendationLog, error)
}

// CacheRepository キャッシュリポジトリのインターフェース
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}
