package testcontainer

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"shop-recommend-app/internal/config"
)

// RedisContainer Redisコンテナのラッパー
type RedisContainer struct {
	Container *rediscontainer.RedisContainer
	Host      string
	Port      string
}

// MySQLContainer MySQLコンテナのラッパー
type MySQLContainer struct {
	Container *mysql.MySQLContainer
	Host      string
	Port      string
	Database  string
	User      string
	Password  string
}

// requireDocker -short 指定時やDockerが使えない環境ではテストをスキップ
func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// StartRedis Redisコンテナを起動（終了はt.Cleanupで行う）
func StartRedis(ctx context.Context, t *testing.T) *RedisContainer {
	t.Helper()
	requireDocker(t)

	container, err := rediscontainer.Run(ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get redis host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get redis port: %v", err)
	}

	return &RedisContainer{
		Container: container,
		Host:      host,
		Port:      port.Port(),
	}
}

// StartMySQL MySQLコンテナを起動（終了はt.Cleanupで行う）
func StartMySQL(ctx context.Context, t *testing.T) *MySQLContainer {
	t.Helper()
	requireDocker(t)

	const (
		database = "tienda_test"
		user     = "testuser"
		password = "testpass"
	)

	container, err := mysql.Run(ctx,
		"mysql:8.0",
		mysql.WithDatabase(database),
		mysql.WithUsername(user),
		mysql.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start mysql container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get mysql host: %v", err)
	}

	port, err := container.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("failed to get mysql port: %v", err)
	}

	return &MySQLContainer{
		Container: container,
		Host:      host,
		Port:      port.Port(),
		Database:  database,
		User:      user,
		Password:  password,
	}
}

// ConnectionString MySQL接続文字列を取得
func (m *MySQLContainer) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

// RedisConfig コンテナに接続するRedis設定を作成
func (r *RedisContainer) RedisConfig() *config.RedisConfig {
	port, _ := strconv.Atoi(r.Port)
	return &config.RedisConfig{
		Enabled:  true,
		Host:     r.Host,
		Port:     port,
		ImageTTL: time.Hour,
	}
}

// MySQLConfig コンテナに接続するMySQL設定を作成
func (m *MySQLContainer) MySQLConfig() *config.MySQLConfig {
	port, _ := strconv.Atoi(m.Port)
	return &config.MySQLConfig{
		Enabled:  true,
		Host:     m.Host,
		Port:     port,
		User:     m.User,
		Password: m.Password,
		Database: m.Database,
	}
}
