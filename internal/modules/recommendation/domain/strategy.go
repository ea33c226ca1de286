package domain

import "context"

// RecommendationStrategy 商品推薦の戦略インターフェース
//
// 実装はエラーを返さず、失敗時は劣化した Outcome を返す。
type RecommendationStrategy interface {
	// Generate 説明文から推薦テキストを生成
	Generate(ctx context.Context, description string) Outcome

	// Name 戦略（プロバイダー）名を返す
	Name() string
}

// ImageStrategy 商品画像生成の戦略インターフェース
type ImageStrategy interface {
	// Synthesize 商品名から画像を生成
	Synthesize(ctx context.Context, productName string) ImageOutcome

	// Name 戦略（プロバイダー）名を返す
	Name() string
}
