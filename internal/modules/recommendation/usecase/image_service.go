package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/metrics"
	"shop-recommend-app/internal/modules/recommendation/domain"
)

// imageCacheKeyPrefix 画像キャッシュのキー接頭辞
const imageCacheKeyPrefix = "recommend:image:"

// ImageSynthesisService 商品画像の生成とキャッシュ
type ImageSynthesisService struct {
	strategy domain.ImageStrategy
	cache    domain.CacheRepository
	ttl      time.Duration
}

// NewImageSynthesisService 新しいImageSynthesisServiceを作成（cacheはnil可）
func NewImageSynthesisService(strategy domain.ImageStrategy, cache domain.CacheRepository, ttl time.Duration) *ImageSynthesisService {
	return &ImageSynthesisService{
		strategy: strategy,
		cache:    cache,
		ttl:      ttl,
	}
}

// Synthesize 商品名から画像を生成し、base64文字列で返す（失敗時はnil）
func (s *ImageSynthesisService) Synthesize(ctx context.Context, productName string) *string {
	key := imageCacheKey(productName)

	if cached, ok := s.lookup(ctx, key); ok {
		encoded := base64.StdEncoding.EncodeToString(cached)
		return &encoded
	}

	outcome := s.strategy.Synthesize(ctx, productName)
	metrics.RecordImage(s.strategy.Name(), string(outcome.Cause))
	if !outcome.OK() {
		logging.Ctx(ctx).Warn().
			Str("product", productName).
			Str("cause", string(outcome.Cause)).
			Msg("Image unavailable")
		return nil
	}

	// 形式が判定できなくても上流のバイト列はそのまま返す
	if format, err := domain.ImageFormat(outcome.Data); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("product", productName).Msg("Upstream image has unexpected format")
	} else {
		logging.Ctx(ctx).Debug().Str("format", format).Int("bytes", len(outcome.Data)).Msg("Image synthesized")
	}

	s.store(ctx, key, outcome.Data)

	encoded := base64.StdEncoding.EncodeToString(outcome.Data)
	return &encoded
}

// StrategyName 使用中の戦略名を返す
func (s *ImageSynthesisService) StrategyName() string {
	return s.strategy.Name()
}

func (s *ImageSynthesisService) lookup(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		metrics.ImageCacheMisses.Inc()
		return nil, false
	}
	metrics.ImageCacheHits.Inc()
	return data, true
}

// store キャッシュ書き込みの失敗は応答に影響させない
func (s *ImageSynthesisService) store(ctx context.Context, key string, data []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to cache image")
	}
}

// imageCacheKey 商品名（大文字小文字・前後空白を無視）からキャッシュキーを作成
func imageCacheKey(productName string) string {
	normalized := strings.ToLower(strings.TrimSpace(productName))
	sum := sha256.Sum256([]byte(normalized))
	return imageCacheKeyPrefix + hex.EncodeToString(sum[:])
}
