package lottery

import (
	"context"
	"errors"
	"sync"

	"github.com/sony/gobreaker"
)

// BreakerSharer 带熔断器的分享器
type BreakerSharer struct {
	sharer Sharer

	mu      sync.RWMutex
	breaker *gobreaker.CircuitBreaker
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewBreakerSharer 创建带熔断器的分享器
func NewBreakerSharer(sharer Sharer, config *CircuitBreakerConfig, logger Logger) *BreakerSharer {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	b := &BreakerSharer{sharer: sharer, logger: logger, config: config}
	if config.Enabled {
		b.breaker = newBreaker(config, logger)
	}
	// 未启用时为透传包装器
	return b
}

func newBreaker(config *CircuitBreakerConfig, logger Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当请求数达到最小要求且失败率超过阈值时触发熔断
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange {
				logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
		// 重复分享说明下游可用, 不计为失败
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrShareDuplicate) || errors.Is(err, ErrInvalidParameters)
		},
	})
}

// executeWithBreaker 使用熔断器执行操作
func (b *BreakerSharer) executeWithBreaker(operation func() error) error {
	b.mu.RLock()
	breaker := b.breaker
	b.mu.RUnlock()

	if breaker == nil {
		return operation()
	}

	_, err := breaker.Execute(func() (any, error) {
		return nil, operation()
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		return ErrCircuitBreakerOpen.WithDetails("circuit breaker is open, shares are being rejected")
	}
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitBreakerOpen.WithDetails("too many requests, circuit breaker is half-open")
	}
	return err
}

// Share 通过熔断器分享
func (b *BreakerSharer) Share(ctx context.Context, record *ShareRecord) error {
	return b.executeWithBreaker(func() error {
		return b.sharer.Share(ctx, record)
	})
}

// State 获取熔断器状态
func (b *BreakerSharer) State() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.breaker == nil {
		return "disabled"
	}

	switch b.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts 获取熔断器统计信息
func (b *BreakerSharer) Counts() gobreaker.Counts {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.breaker == nil {
		return gobreaker.Counts{}
	}
	return b.breaker.Counts()
}

// Reset 重置熔断器 (gobreaker 没有 Reset 方法, 重新创建实例)
func (b *BreakerSharer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.breaker == nil {
		return
	}
	b.breaker = newBreaker(b.config, b.logger)
	b.logger.Info("Circuit breaker '%s' has been reset (recreated)", b.config.Name)
}

// Health 熔断器健康检查
func (b *BreakerSharer) Health() map[string]any {
	result := map[string]any{
		"circuit_breaker_enabled": b.config.Enabled,
	}

	state := b.State()
	if state == "disabled" {
		result["state"] = state
		result["healthy"] = true
		return result
	}

	counts := b.Counts()
	result["state"] = state
	result["requests"] = counts.Requests
	result["total_successes"] = counts.TotalSuccesses
	result["total_failures"] = counts.TotalFailures
	result["consecutive_failures"] = counts.ConsecutiveFailures

	if counts.Requests > 0 {
		result["failure_rate"] = float64(counts.TotalFailures) / float64(counts.Requests)
	} else {
		result["failure_rate"] = 0.0
	}

	healthy := true
	switch state {
	case "open":
		healthy = false
	case "half-open":
		// 半开状态下连续失败过多视为不健康
		healthy = counts.ConsecutiveFailures <= 2
	}
	result["healthy"] = healthy
	return result
}

// stateToNumeric 将状态转换为数值, 供指标导出
func stateToNumeric(state string) float64 {
	switch state {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
