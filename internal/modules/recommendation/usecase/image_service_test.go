package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"shop-recommend-app/internal/modules/recommendation/domain"
)

func TestImageSynthesisService_CachesSuccessfulImages(t *testing.T) {
	strategy := &MockImageStrategy{}
	cache := NewMockCacheRepository()
	service := NewImageSynthesisService(strategy, cache, 24*time.Hour)
	ctx := context.Background()

	first := service.Synthesize(ctx, "Cuaderno profesional")
	second := service.Synthesize(ctx, "  cuaderno PROFESIONAL ")

	if first == nil || second == nil {
		t.Fatal("Synthesize() returned nil")
	}
	if *first != *second {
		t.Errorf("cached image differs: %q vs %q", *first, *second)
	}
	if calls := strategy.Calls(); len(calls) != 1 {
		t.Errorf("strategy calls = %v, want exactly one", calls)
	}
	if *first != base64.StdEncoding.EncodeToString([]byte("png-bytes")) {
		t.Errorf("image = %q", *first)
	}
}

func TestImageSynthesisService_FailureNotCached(t *testing.T) {
	strategy := &MockImageStrategy{
		SynthesizeFunc: func(ctx context.Context, productName string) domain.ImageOutcome {
			return domain.ImageFailed(domain.KindTimeout)
		},
	}
	cache := NewMockCacheRepository()
	service := NewImageSynthesisService(strategy, cache, time.Hour)

	if got := service.Synthesize(context.Background(), "Mochila"); got != nil {
		t.Errorf("Synthesize() = %q, want nil", *got)
	}
	if _, err := cache.Get(context.Background(), imageCacheKey("Mochila")); err == nil {
		t.Error("failed image should not be cached")
	}
}

func TestImageSynthesisService_CacheWriteErrorIgnored(t *testing.T) {
	cache := NewMockCacheRepository()
	cache.SetErr = errors.New("redis down")
	service := NewImageSynthesisService(&MockImageStrategy{}, cache, time.Hour)

	if got := service.Synthesize(context.Background(), "Lápiz"); got == nil {
		t.Error("Synthesize() = nil, want image despite cache error")
	}
}

func TestImageCacheKey(t *testing.T) {
	if imageCacheKey("Lápiz") != imageCacheKey(" lápiz ") {
		t.Error("keys should ignore case and surrounding spaces")
	}
	if imageCacheKey("Lápiz") == imageCacheKey("Mochila") {
		t.Error("different products should have different keys")
	}
}
