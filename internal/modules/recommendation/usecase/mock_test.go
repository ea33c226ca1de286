package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"shop-recommend-app/internal/modules/recommendation/domain"
)

// MockRecommendationStrategy モック推薦戦略
type MockRecommendationStrategy struct {
	GenerateFunc func(ctx context.Context, description string) domain.Outcome
	NameValue    string
}

func (m *MockRecommendationStrategy) Generate(ctx context.Context, description string) domain.Outcome {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, description)
	}
	return domain.OK("Cuaderno profesional: 200 hojas con espiral")
}

func (m *MockRecommendationStrategy) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

// MockImageStrategy モック画像生成戦略
type MockImageStrategy struct {
	SynthesizeFunc func(ctx context.Context, productName string) domain.ImageOutcome
	mu             sync.Mutex
	calls          []string
}

func (m *MockImageStrategy) Synthesize(ctx context.Context, productName string) domain.ImageOutcome {
	m.mu.Lock()
	m.calls = append(m.calls, productName)
	m.mu.Unlock()
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, productName)
	}
	return domain.ImageOK([]byte("png-bytes"))
}

func (m *MockImageStrategy) Name() string {
	return "mock"
}

func (m *MockImageStrategy) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockCacheRepository モックキャッシュ
type MockCacheRepository struct {
	mu     sync.Mutex
	data   map[string][]byte
	SetErr error
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: map[string][]byte{}}
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

// MockRecommendationLogRepository モック履歴リポジトリ
type MockRecommendationLogRepository struct {
	CreateFunc     func(ctx context.Context, log *domain.RecommendationLog) error
	FindRecentFunc func(ctx context.Context, limit int) ([]*domain.RecommendationLog, error)
	mu             sync.Mutex
	created        []*domain.RecommendationLog
}

func (m *MockRecommendationLogRepository) Create(ctx context.Context, log *domain.RecommendationLog) error {
	m.mu.Lock()
	m.created = append(m.created, log)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	return nil
}

func (m *MockRecommendationLogRepository) FindRecent(ctx context.Context, limit int) ([]*domain.RecommendationLog, error) {
	if m.FindRecentFunc != nil {
		return m.FindRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockRecommendationLogRepository) Created() []*domain.RecommendationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.RecommendationLog(nil), m.created...)
}
