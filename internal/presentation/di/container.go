package di

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"shop-recommend-app/internal/config"
	"shop-recommend-app/internal/logging"
	accountHandler "shop-recommend-app/internal/modules/account/presentation/handler"
	accountUsecase "shop-recommend-app/internal/modules/account/usecase"
	catalogHandler "shop-recommend-app/internal/modules/catalog/presentation/handler"
	catalogUsecase "shop-recommend-app/internal/modules/catalog/usecase"
	recDomain "shop-recommend-app/internal/modules/recommendation/domain"
	recHandler "shop-recommend-app/internal/modules/recommendation/presentation/handler"
	recUsecase "shop-recommend-app/internal/modules/recommendation/usecase"
	sharedAI "shop-recommend-app/internal/modules/shared/infrastructure/ai"
	sharedCache "shop-recommend-app/internal/modules/shared/infrastructure/cache"
	sharedDB "shop-recommend-app/internal/modules/shared/infrastructure/database"
	"shop-recommend-app/internal/presentation/http/handler"
)

const migrateTimeout = 30 * time.Second

// Container DIコンテナ
type Container struct {
	cfg *config.Config

	// Shared Infrastructure
	cacheRepo *sharedCache.RedisRepository
	db        *bun.DB

	// Recommendation Module
	recommender *recUsecase.RecommendationService
	images      *recUsecase.ImageSynthesisService
	chatUseCase *recUsecase.ChatUseCase
	chatHandler *recHandler.ChatHandler

	// Catalog Module（MySQL有効時のみ）
	catalogHandler *catalogHandler.CatalogHandler

	// Account Module（MySQL有効時のみ）
	authUseCase    *accountUsecase.AuthUseCase
	accountHandler *accountHandler.AccountHandler

	healthHandler *handler.HealthHandler
}

// NewContainer 新しいContainerを作成
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{cfg: cfg}

	// Recommendation Module: Strategies
	textStrategy, err := sharedAI.NewRecommendationStrategy(&cfg.Recommendation)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize recommendation strategy: %w", err)
	}
	imageStrategy, err := sharedAI.NewImageStrategy(&cfg.Recommendation)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image strategy: %w", err)
	}

	container.healthHandler = handler.NewHealthHandler(textStrategy.Name(), imageStrategy.Name())

	// Shared Infrastructure: Cache Repository
	var imageCache recDomain.CacheRepository
	if cfg.Redis.Enabled {
		cacheRepo, err := sharedCache.NewRedisRepository(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache repository: %w", err)
		}
		container.cacheRepo = cacheRepo
		imageCache = cacheRepo
		container.healthHandler.AddCheck("redis", cacheRepo)
	}

	// Shared Infrastructure: Database
	var logRepo recDomain.RecommendationLogRepository
	if cfg.MySQL.Enabled {
		if err := container.initDatabase(); err != nil {
			_ = container.Close()
			return nil, err
		}
		logRepo = sharedDB.NewBunRecommendationLogRepository(container.db)
	}

	// Recommendation Module: UseCase / Handler
	container.recommender = recUsecase.NewRecommendationService(textStrategy)
	container.images = recUsecase.NewImageSynthesisService(imageStrategy, imageCache, cfg.Redis.ImageTTL)
	container.chatUseCase = recUsecase.NewChatUseCase(container.recommender, container.images, logRepo)
	container.chatHandler = recHandler.NewChatHandler(container.chatUseCase)

	logging.Info().
		Str("provider", textStrategy.Name()).
		Str("image_provider", imageStrategy.Name()).
		Bool("redis", cfg.Redis.Enabled).
		Bool("mysql", cfg.MySQL.Enabled).
		Msg("Container initialized")

	return container, nil
}

// initDatabase MySQLに接続してカタログ・アカウント機能を組み立てる
func (c *Container) initDatabase() error {
	db, err := sharedDB.Open(&c.cfg.MySQL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.db = db
	c.healthHandler.AddCheck("mysql", handler.PingFunc(db.PingContext))

	if c.cfg.MySQL.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		defer cancel()
		if err := sharedDB.CreateTables(ctx, db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if c.cfg.MySQL.Seed {
		if err := c.seedDatabase(); err != nil {
			return err
		}
	}

	// Catalog Module
	catalogUC := catalogUsecase.NewCatalogUseCase(sharedDB.NewBunProductRepository(db))
	c.catalogHandler = catalogHandler.NewCatalogHandler(catalogUC)

	// Account Module
	tokens, err := accountUsecase.NewTokenManager(&c.cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}
	c.authUseCase = accountUsecase.NewAuthUseCase(sharedDB.NewBunUserRepository(db), tokens)
	c.accountHandler = accountHandler.NewAccountHandler(c.authUseCase)

	return nil
}

// seedDatabase デモデータを投入
func (c *Container) seedDatabase() error {
	if c.cfg.Auth.SeedPassword == "" {
		return fmt.Errorf("auth.seed_password is required when mysql.seed is enabled")
	}
	hash, err := accountUsecase.HashPassword(c.cfg.Auth.SeedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	seeded, err := sharedDB.SeedDemoData(ctx, c.db, hash)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if seeded {
		logging.Info().Str("seller", sharedDB.DemoSellerUsername).Msg("Demo data seeded")
	}
	return nil
}

// Config 設定を取得
func (c *Container) Config() *config.Config {
	return c.cfg
}

// ChatHandler チャットハンドラーを取得
func (c *Container) ChatHandler() *recHandler.ChatHandler {
	return c.chatHandler
}

// ChatUseCase チャットユースケースを取得
func (c *Container) ChatUseCase() *recUsecase.ChatUseCase {
	return c.chatUseCase
}

// ProviderName 推薦戦略名を取得
func (c *Container) ProviderName() string {
	return c.recommender.StrategyName()
}

// ImageProviderName 画像生成戦略名を取得
func (c *Container) ImageProviderName() string {
	return c.images.StrategyName()
}

// CatalogHandler カタログハンドラーを取得（MySQL無効時はnil）
func (c *Container) CatalogHandler() *catalogHandler.CatalogHandler {
	return c.catalogHandler
}

// AccountHandler アカウントハンドラーを取得（MySQL無効時はnil）
func (c *Container) AccountHandler() *accountHandler.AccountHandler {
	return c.accountHandler
}

// AuthUseCase 認証ユースケースを取得（MySQL無効時はnil）
func (c *Container) AuthUseCase() *accountUsecase.AuthUseCase {
	return c.authUseCase
}

// HealthHandler ヘルスチェックハンドラーを取得
func (c *Container) HealthHandler() *handler.HealthHandler {
	return c.healthHandler
}

// DatabaseEnabled MySQLが有効か
func (c *Container) DatabaseEnabled() bool {
	return c.db != nil
}

// Close リソースをクローズ
func (c *Container) Close() error {
	if c.cacheRepo != nil {
		if err := c.cacheRepo.Close(); err != nil {
			return fmt.Errorf("failed to close cache repository: %w", err)
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
