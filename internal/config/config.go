package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config アプリケーション全体の設定
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Log            LogConfig            `yaml:"log"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
	Redis          RedisConfig          `yaml:"redis"`
	MySQL          MySQLConfig          `yaml:"mysql"`
	Auth           AuthConfig           `yaml:"auth"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
}

// ServerConfig HTTPサーバーの設定
type ServerConfig struct {
	Port            string        `yaml:"port" validate:"required,numeric"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig ログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// RecommendationConfig 推論API（テキスト生成・画像生成）の設定
type RecommendationConfig struct {
	// Provider テキスト生成の戦略（huggingface, openai, stub）
	Provider string `yaml:"provider" validate:"required,oneof=huggingface openai stub"`
	// ImageProvider 画像生成の戦略（huggingface, stub）
	ImageProvider string `yaml:"image_provider" validate:"required,oneof=huggingface stub"`
	APIKey        string `yaml:"api_key"`
	TextURL       string `yaml:"text_url" validate:"required,url"`
	ImageURL      string `yaml:"image_url" validate:"required,url"`

	OpenAIBaseURL string `yaml:"openai_base_url" validate:"omitempty,url"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`

	Temperature  float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxNewTokens int     `yaml:"max_new_tokens" validate:"gt=0"`

	ImageWidth         int `yaml:"image_width" validate:"gt=0"`
	ImageHeight        int `yaml:"image_height" validate:"gt=0"`
	ImageInferenceStep int `yaml:"image_inference_steps" validate:"gt=0"`

	TextTimeout  time.Duration `yaml:"text_timeout" validate:"gt=0"`
	ImageTimeout time.Duration `yaml:"image_timeout" validate:"gt=0"`

	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig サーキットブレーカーの設定
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MinRequests  uint32        `yaml:"min_requests"`
	FailureRatio float64       `yaml:"failure_ratio" validate:"gte=0,lte=1"`
	Interval     time.Duration `yaml:"interval"`
	OpenTimeout  time.Duration `yaml:"open_timeout"`
}

// RedisConfig Redisの設定
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port" validate:"gte=0,lte=65535"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ImageTTL time.Duration `yaml:"image_ttl"`
}

// MySQLConfig MySQLの設定
type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// AutoMigrate 起動時にテーブルを作成する
	AutoMigrate bool `yaml:"auto_migrate"`
	// Seed usersテーブルが空ならデモ用の出品者と商品を投入する
	Seed bool `yaml:"seed"`
}

// AuthConfig ログイン・JWTの設定
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// SeedPassword デモ用出品者のパスワード
	SeedPassword string `yaml:"seed_password"`
}

// RateLimitConfig チャットエンドポイントのレート制限
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests" validate:"gte=0"`
	Window   time.Duration `yaml:"window"`
}

// Load 設定ファイルを読み込む
func Load(configPath string) (*Config, error) {
	// .env があれば環境変数に反映（存在しない場合は無視）
	_ = godotenv.Load()

	// 設定ファイルが存在しない場合はデフォルト設定を返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 環境変数の展開
	dataStr := os.ExpandEnv(string(data))

	// ファイルに無い項目はデフォルト値を維持する
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(dataStr), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig デフォルト設定を返す
func DefaultConfig() *Config {
	// Redis/MySQLのホストはテスト環境では localhost を使用
	redisHost := "redis"
	mysqlHost := "mysql"
	if os.Getenv("GO_ENV") == "test" {
		redisHost = "localhost"
		mysqlHost = "localhost"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	provider := os.Getenv("RECOMMEND_PROVIDER")
	if provider == "" {
		provider = "huggingface"
	}

	return &Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Recommendation: RecommendationConfig{
			Provider:           provider,
			ImageProvider:      "huggingface",
			APIKey:             os.Getenv("HUGGINGFACE_API_KEY"),
			TextURL:            "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.1",
			ImageURL:           "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-xl-base-1.0",
			OpenAIBaseURL:      "https://api.openai.com/v1/",
			OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:        "gpt-4o-mini",
			Temperature:        0.7,
			MaxNewTokens:       50,
			ImageWidth:         512,
			ImageHeight:        512,
			ImageInferenceStep: 20,
			TextTimeout:        25 * time.Second,
			ImageTimeout:       30 * time.Second,
			Breaker: BreakerConfig{
				Enabled:      true,
				MinRequests:  5,
				FailureRatio: 0.6,
				Interval:     time.Minute,
				OpenTimeout:  30 * time.Second,
			},
		},
		Redis: RedisConfig{
			Enabled:  false,
			Host:     redisHost,
			Port:     6379,
			Password: "",
			DB:       0,
			ImageTTL: 24 * time.Hour,
		},
		MySQL: MySQLConfig{
			Enabled:  false,
			Host:     mysqlHost,
			Port:     3306,
			User:     "root",
			Password: os.Getenv("MYSQL_ROOT_PASSWORD"),
			Database: "tienda",
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			TokenTTL:     24 * time.Hour,
			SeedPassword: os.Getenv("SEED_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 30,
			Window:   time.Minute,
		},
	}
}

// Validate 設定値を検証する
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save 設定をファイルに保存する
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
