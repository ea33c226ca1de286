package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"

	"shop-recommend-app/internal/config"
	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/metrics"
	"shop-recommend-app/internal/modules/recommendation/domain"
)

// BreakerSender サーキットブレーカー付きのSender
//
// 上流の障害が続く間は推論APIを呼ばずに ErrCircuitOpen を返す。
type BreakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreakerSender 新しいBreakerSenderを作成
func NewBreakerSender(next Sender, name string, cfg config.BreakerConfig) *BreakerSender {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		// 利用者の切断や4xxは上流障害として数えない
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var remoteErr *domain.RemoteServiceError
			if errors.As(err, &remoteErr) {
				return remoteErr.StatusCode < http.StatusInternalServerError &&
					remoteErr.StatusCode != http.StatusTooManyRequests
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerSender{next: next, cb: cb, name: name}
}

// Send ブレーカー経由でSendを実行
func (b *BreakerSender) Send(ctx context.Context, url string, payload any) (any, error) {
	return b.execute(func() (any, error) {
		return b.next.Send(ctx, url, payload)
	})
}

// SendRaw ブレーカー経由でSendRawを実行
func (b *BreakerSender) SendRaw(ctx context.Context, url string, payload any) ([]byte, error) {
	result, err := b.execute(func() (any, error) {
		return b.next.SendRaw(ctx, url, payload)
	})
	if err != nil {
		return nil, err
	}
	data, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return data, nil
}

// State 現在の状態を返す
func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerSender) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCircuitOpen, b.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// stateToFloat メトリクス用に状態を数値化
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
