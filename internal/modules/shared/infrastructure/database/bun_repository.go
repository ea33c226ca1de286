package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	accountdomain "shop-recommend-app/internal/modules/account/domain"
	catalogdomain "shop-recommend-app/internal/modules/catalog/domain"
	recdomain "shop-recommend-app/internal/modules/recommendation/domain"
)

// BunProductRepository BUN実装
type BunProductRepository struct {
	db *bun.DB
}

// NewBunProductRepository 新しいBunProductRepositoryを作成
func NewBunProductRepository(db *bun.DB) *BunProductRepository {
	return &BunProductRepository{db: db}
}

// FindAll 商品一覧を取得
func (r *BunProductRepository) FindAll(ctx context.Context, limit, offset int) ([]*catalogdomain.Product, error) {
	var models []Product
	query := r.db.NewSelect().
		Model(&models).
		Order("id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	products := make([]*catalogdomain.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}
	return products, nil
}

// FindByID IDで商品を検索
func (r *BunProductRepository) FindByID(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	model := &Product{}
	err := r.db.NewSelect().
		Model(model).
		Where("id = ?", id).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", catalogdomain.ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return toProductEntity(model), nil
}

// toProductEntity モデルをエンティティに変換
func toProductEntity(model *Product) *catalogdomain.Product {
	product := &catalogdomain.Product{
		ID:        model.ID,
		Name:      model.Name,
		Price:     model.Price,
		Stock:     model.Stock,
		SellerID:  model.SellerID,
		CreatedAt: model.CreatedAt,
	}
	if model.Description != nil {
		product.Description = *model.Description
	}
	if model.ImageURL != nil {
		product.ImageURL = *model.ImageURL
	}
	return product
}

// BunUserRepository BUN実装
type BunUserRepository struct {
	db *bun.DB
}

// NewBunUserRepository 新しいBunUserRepositoryを作成
func NewBunUserRepository(db *bun.DB) *BunUserRepository {
	return &BunUserRepository{db: db}
}

// FindByUsername ユーザー名で検索
func (r *BunUserRepository) FindByUsername(ctx context.Context, username string) (*accountdomain.User, error) {
	model := &User{}
	err := r.db.NewSelect().
		Model(model).
		Where("username = ?", username).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", accountdomain.ErrUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return toUserEntity(model), nil
}

// Create ユーザーを作成
func (r *BunUserRepository) Create(ctx context.Context, user *accountdomain.User) error {
	model := &User{
		Username:     user.Username,
		FullName:     user.FullName,
		PasswordHash: user.PasswordHash,
		Followers:    user.Followers,
		Following:    user.Following,
		IsSeller:     user.IsSeller,
		CreatedAt:    user.CreatedAt,
	}
	if user.Bio != "" {
		model.Bio = &user.Bio
	}
	if user.AvatarURL != "" {
		model.AvatarURL = &user.AvatarURL
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}

	if _, err := r.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = model.ID
	return nil
}

// toUserEntity モデルをエンティティに変換
func toUserEntity(model *User) *accountdomain.User {
	user := &accountdomain.User{
		ID:           model.ID,
		Username:     model.Username,
		FullName:     model.FullName,
		PasswordHash: model.PasswordHash,
		Followers:    model.Followers,
		Following:    model.Following,
		IsSeller:     model.IsSeller,
		CreatedAt:    model.CreatedAt,
	}
	if model.Bio != nil {
		user.Bio = *model.Bio
	}
	if model.AvatarURL != nil {
		user.AvatarURL = *model.AvatarURL
	}
	return user
}

// BunRecommendationLogRepository BUN実装
type BunRecommendationLogRepository struct {
	db *bun.DB
}

// NewBunRecommendationLogRepository 新しいBunRecommendationLogRepositoryを作成
func NewBunRecommendationLogRepository(db *bun.DB) *BunRecommendationLogRepository {
	return &BunRecommendationLogRepository{db: db}
}

// Create 推薦履歴を保存
func (r *BunRecommendationLogRepository) Create(ctx context.Context, log *recdomain.RecommendationLog) error {
	model := &RecommendationLog{
		ID:          log.ID,
		Description: log.Description,
		ProductText: log.ProductText,
		Degraded:    log.Degraded,
		Cause:       string(log.Cause),
		HasImage:    log.HasImage,
		Provider:    log.Provider,
		CreatedAt:   log.CreatedAt,
	}

	if _, err := r.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create recommendation log: %w", err)
	}
	return nil
}

// FindRecent 新しい順に推薦履歴を取得
func (r *BunRecommendationLogRepository) FindRecent(ctx context.Context, limit int) ([]*recdomain.RecommendationLog, error) {
	var models []RecommendationLog
	query := r.db.NewSelect().
		Model(&models).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to find recommendation logs: %w", err)
	}

	logs := make([]*recdomain.RecommendationLog, len(models))
	for i, model := range models {
		logs[i] = &recdomain.RecommendationLog{
			ID:          model.ID,
			Description: model.Description,
			ProductText: model.ProductText,
			Degraded:    model.Degraded,
			Cause:       recdomain.ErrorKind(model.Cause),
			HasImage:    model.HasImage,
			Provider:    model.Provider,
			CreatedAt:   model.CreatedAt,
		}
	}
	return logs, nil
}
