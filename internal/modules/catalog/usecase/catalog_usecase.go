package usecase

import (
	"context"
	"fmt"

	"shop-recommend-app/internal/modules/catalog/domain"
)

const (
	// DefaultPageSize 一覧の既定件数
	DefaultPageSize = 20
	// MaxPageSize 一覧の最大件数
	MaxPageSize = 100
)

// CatalogUseCase 商品カタログのユースケース
type CatalogUseCase struct {
	productRepo domain.ProductRepository
}

// NewCatalogUseCase 新しいCatalogUseCaseを作成
func NewCatalogUseCase(productRepo domain.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{productRepo: productRepo}
}

// List 商品一覧を取得
func (uc *CatalogUseCase) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset = max(offset, 0)

	products, err := uc.productRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get 商品を取得
func (uc *CatalogUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrProductNotFound, id)
	}
	product, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}
