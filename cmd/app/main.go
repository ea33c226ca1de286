package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"shop-recommend-app/internal/config"
	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/presentation/di"
	"shop-recommend-app/internal/presentation/http/router"
)

// AppConfig アプリケーション設定
type AppConfig struct {
	ConfigPath string
	// Port 指定時は設定ファイルのポートより優先
	Port string
}

// ServerInterface サーバーインターフェース（Seam化）
type ServerInterface interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// App アプリケーション構造体（Seamパターン）
type App struct {
	config     *AppConfig
	cfg        *config.Config
	container  *di.Container
	server     *http.Server
	serverSeam ServerInterface // テスト用のSeam
}

// NewApp 新しいAppを作成
func NewApp(appCfg *AppConfig) (*App, error) {
	// ファイルが無ければデフォルト設定、読めない・不正な設定は起動しない
	cfg, err := config.Load(appCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", appCfg.ConfigPath, err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	if appCfg.Port == "" {
		appCfg.Port = cfg.Server.Port
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DI container: %w", err)
	}

	server := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router.NewRouter(container),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	app := &App{
		config:    appCfg,
		cfg:       cfg,
		container: container,
		server:    server,
	}
	app.serverSeam = server

	return app, nil
}

// Start サーバーを起動
func (a *App) Start() error {
	a.printStartupMessage()
	return a.serverSeam.ListenAndServe()
}

// printStartupMessage 起動メッセージを出力
func (a *App) printStartupMessage() {
	fmt.Println("=== Shop Recommendation Server ===")
	fmt.Printf("Recommendation provider: %s\n", a.container.ProviderName())
	fmt.Printf("Image provider: %s\n", a.container.ImageProviderName())
	fmt.Printf("Server listening on http://0.0.0.0:%s\n", a.config.Port)
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /health                          - Health check")
	fmt.Println("  GET  /metrics                         - Prometheus metrics")
	fmt.Println("  POST /chat_ia/                        - Chat recommendation")
	fmt.Println("  POST /api/v1/chat                     - Chat recommendation")
	if a.container.DatabaseEnabled() {
		fmt.Println("  GET  /api/v1/recommendations/history  - Recommendation history")
		fmt.Println("  GET  /api/v1/products                 - Product catalog")
		fmt.Println("  GET  /api/v1/products/{id}            - Product detail")
		fmt.Println("  POST /api/v1/login                    - Login")
		fmt.Println("  GET  /api/v1/me                       - Current user")
		fmt.Println("  GET  /api/v1/sellers/{username}       - Seller profile")
	}
	fmt.Println()
}

// Shutdown サーバーをシャットダウン
func (a *App) Shutdown(ctx context.Context) error {
	logging.Info().Msg("Shutting down server...")

	if err := a.serverSeam.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := a.container.Close(); err != nil {
		return fmt.Errorf("container close failed: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}

// Run アプリケーションを実行（グレースフルシャットダウン付き）
func (a *App) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		if err := a.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		return a.Shutdown(ctx)
	}
}

// defaultConfigPath 設定ファイルの場所（CONFIG_PATH優先）
func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to get home directory, using current directory")
		homeDir = "."
	}
	return filepath.Join(homeDir, ".shop-recommend-app", "config.yaml")
}

// realMain 実際のmain処理（テスト可能にするため分離）
func realMain() error {
	app, err := NewApp(&AppConfig{
		ConfigPath: defaultConfigPath(),
		Port:       os.Getenv("PORT"),
	})
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	return app.Run()
}

func main() {
	if err := realMain(); err != nil {
		logging.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
