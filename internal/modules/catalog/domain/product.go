package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound 商品が存在しない
var ErrProductNotFound = errors.New("product not found")

// Product 商品エンティティ
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imagen_url,omitempty"`
	SellerID    *int64          `json:"vendedor_id,omitempty"`
	CreatedAt   time.Time       `json:"creado_en"`
}

// InStock 在庫があるか判定
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// ProductRepository 商品リポジトリ
type ProductRepository interface {
	FindAll(ctx context.Context, limit, offset int) ([]*Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
}
