// Package logging zerologベースの共通ロガー
//
// アプリケーション全体で1つのグローバルロガーを共有する。
// main() で Init を呼び出して出力形式とレベルを設定する。
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("provider", name).Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Image synthesis degraded")
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config ロギング設定
type Config struct {
	// Level 最小ログレベル（debug, info, warn, error）
	Level string
	// Format 出力形式（json, console）
	Format string
	// Output 出力先（未指定時は os.Stderr）
	Output io.Writer
}

// DefaultConfig デフォルトのロギング設定を返す
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	cfg := DefaultConfig()
	if os.Getenv("GO_ENV") == "test" {
		cfg.Level = "error"
	}
	initLogger(cfg)
}

// Init グローバルロガーを初期化（複数回呼び出し可）
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

// initLogger ロガーを構築（mu保持中に呼ぶこと）
func initLogger(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	log = zerolog.New(output).With().Timestamp().Logger()
}

// ParseLevel 文字列のレベルをzerolog.Levelに変換
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger グローバルロガーのコピーを返す
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug デバッグレベルのイベントを開始
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// Info 情報レベルのイベントを開始
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn 警告レベルのイベントを開始
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error エラーレベルのイベントを開始
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}
