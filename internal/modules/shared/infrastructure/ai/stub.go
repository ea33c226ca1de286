package ai

import (
	"context"
	"encoding/base64"

	"shop-recommend-app/internal/modules/recommendation/domain"
)

// StubAnswer スタブ戦略が返す推薦テキスト
const StubAnswer = "Cuaderno profesional: 200 hojas con espiral metálico"

// stubPNG 1x1の透明PNG
var stubPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

// StubTextStrategy 外部APIを呼ばずに固定の推薦を返す（開発・デモ用）
type StubTextStrategy struct{}

// NewStubTextStrategy 新しいStubTextStrategyを作成
func NewStubTextStrategy() *StubTextStrategy {
	return &StubTextStrategy{}
}

// Generate 固定の推薦テキストを返す
func (s *StubTextStrategy) Generate(ctx context.Context, description string) domain.Outcome {
	if err := ctx.Err(); err != nil {
		return domain.DegradedFromError(err)
	}
	return domain.OK(StubAnswer)
}

// Name 戦略名を返す
func (s *StubTextStrategy) Name() string {
	return "stub"
}

// StubImageStrategy 固定の画像を返す
type StubImageStrategy struct{}

// NewStubImageStrategy 新しいStubImageStrategyを作成
func NewStubImageStrategy() *StubImageStrategy {
	return &StubImageStrategy{}
}

// Synthesize 固定のPNGを返す
func (s *StubImageStrategy) Synthesize(ctx context.Context, productName string) domain.ImageOutcome {
	if err := ctx.Err(); err != nil {
		return domain.ImageFailed(domain.ClassifyError(err))
	}
	data := make([]byte, len(stubPNG))
	copy(data, stubPNG)
	return domain.ImageOK(data)
}

// Name 戦略名を返す
func (s *StubImageStrategy) Name() string {
	return "stub"
}
