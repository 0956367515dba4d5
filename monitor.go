package lottery

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PerformanceMetrics 性能指标收集器
type PerformanceMetrics struct {
	// 揭示统计
	TotalReveals      int64 `json:"total_reveals"`      // 总揭示次数
	SuccessfulReveals int64 `json:"successful_reveals"` // 成功揭示次数
	CancelledReveals  int64 `json:"cancelled_reveals"`  // 被重置或切换取消的揭示
	FailedReveals     int64 `json:"failed_reveals"`     // 失败揭示次数

	// 抽奖统计
	Finalizations int64 `json:"finalizations"` // 完成的抽奖数
	Resets        int64 `json:"resets"`        // 重置次数

	// 分享统计
	SharesSucceeded int64 `json:"shares_succeeded"`
	SharesFailed    int64 `json:"shares_failed"`

	// 性能统计
	AverageRevealTime int64 `json:"average_reveal_time"` // 平均揭示时间(纳秒)
	TotalRevealTime   int64 `json:"total_reveal_time"`   // 总揭示时间(纳秒)

	// Redis统计
	RedisErrors int64 `json:"redis_errors"` // Redis错误数

	// 时间戳
	StartTime      int64 `json:"start_time"`       // 开始时间
	LastUpdateTime int64 `json:"last_update_time"` // 最后更新时间
}

// GetSuccessRate 获取揭示成功率
func (pm *PerformanceMetrics) GetSuccessRate() float64 {
	total := atomic.LoadInt64(&pm.TotalReveals)
	if total == 0 {
		return 0.0
	}
	successful := atomic.LoadInt64(&pm.SuccessfulReveals)
	return float64(successful) / float64(total) * 100.0
}

// GetThroughput 获取吞吐量(每秒完成的抽奖数)
func (pm *PerformanceMetrics) GetThroughput() float64 {
	startTime := atomic.LoadInt64(&pm.StartTime)
	lastUpdate := atomic.LoadInt64(&pm.LastUpdateTime)
	if startTime == 0 || lastUpdate <= startTime {
		return 0.0
	}

	duration := time.Duration(lastUpdate - startTime)
	return float64(atomic.LoadInt64(&pm.Finalizations)) / duration.Seconds()
}

// Reset 重置性能指标
func (pm *PerformanceMetrics) Reset() {
	atomic.StoreInt64(&pm.TotalReveals, 0)
	atomic.StoreInt64(&pm.SuccessfulReveals, 0)
	atomic.StoreInt64(&pm.CancelledReveals, 0)
	atomic.StoreInt64(&pm.FailedReveals, 0)
	atomic.StoreInt64(&pm.Finalizations, 0)
	atomic.StoreInt64(&pm.Resets, 0)
	atomic.StoreInt64(&pm.SharesSucceeded, 0)
	atomic.StoreInt64(&pm.SharesFailed, 0)
	atomic.StoreInt64(&pm.AverageRevealTime, 0)
	atomic.StoreInt64(&pm.TotalRevealTime, 0)
	atomic.StoreInt64(&pm.RedisErrors, 0)
	atomic.StoreInt64(&pm.StartTime, time.Now().UnixNano())
	atomic.StoreInt64(&pm.LastUpdateTime, time.Now().UnixNano())
}

// ================================================================================

// PerformanceMonitor 性能监控器, 同时实现 prometheus.Collector
type PerformanceMonitor struct {
	metrics *PerformanceMetrics
	mu      sync.RWMutex
	enabled bool
	breaker *BreakerSharer
}

// NewPerformanceMonitor 创建新的性能监控器
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		metrics: &PerformanceMetrics{},
		enabled: true,
	}
	pm.metrics.Reset()
	return pm
}

// Enable 启用性能监控
func (pm *PerformanceMonitor) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = true
}

// Disable 禁用性能监控
func (pm *PerformanceMonitor) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = false
}

// IsEnabled 检查是否启用了性能监控
func (pm *PerformanceMonitor) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.enabled
}

// TrackBreaker 导出熔断器状态
func (pm *PerformanceMonitor) TrackBreaker(b *BreakerSharer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.breaker = b
}

func (pm *PerformanceMonitor) touch() {
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordReveal 记录一次揭示, err 为 ErrRevealCancelled 时计为取消
func (pm *PerformanceMonitor) RecordReveal(err error, duration time.Duration) {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.TotalReveals, 1)
	switch {
	case err == nil:
		atomic.AddInt64(&pm.metrics.SuccessfulReveals, 1)
		atomic.AddInt64(&pm.metrics.TotalRevealTime, int64(duration))

		successful := atomic.LoadInt64(&pm.metrics.SuccessfulReveals)
		totalTime := atomic.LoadInt64(&pm.metrics.TotalRevealTime)
		atomic.StoreInt64(&pm.metrics.AverageRevealTime, totalTime/successful)
	case errors.Is(err, ErrRevealCancelled):
		atomic.AddInt64(&pm.metrics.CancelledReveals, 1)
	default:
		atomic.AddInt64(&pm.metrics.FailedReveals, 1)
	}

	pm.touch()
}

// RecordFinalize 记录一次完成
func (pm *PerformanceMonitor) RecordFinalize() {
	if !pm.IsEnabled() {
		return
	}
	atomic.AddInt64(&pm.metrics.Finalizations, 1)
	pm.touch()
}

// RecordReset 记录一次重置
func (pm *PerformanceMonitor) RecordReset() {
	if !pm.IsEnabled() {
		return
	}
	atomic.AddInt64(&pm.metrics.Resets, 1)
	pm.touch()
}

// RecordShare 记录分享结果
func (pm *PerformanceMonitor) RecordShare(success bool) {
	if !pm.IsEnabled() {
		return
	}
	if success {
		atomic.AddInt64(&pm.metrics.SharesSucceeded, 1)
	} else {
		atomic.AddInt64(&pm.metrics.SharesFailed, 1)
	}
	pm.touch()
}

// RecordRedisError 记录Redis错误
func (pm *PerformanceMonitor) RecordRedisError() {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.RedisErrors, 1)
	pm.touch()
}

// GetMetrics 获取性能指标的副本
func (pm *PerformanceMonitor) GetMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		TotalReveals:      atomic.LoadInt64(&pm.metrics.TotalReveals),
		SuccessfulReveals: atomic.LoadInt64(&pm.metrics.SuccessfulReveals),
		CancelledReveals:  atomic.LoadInt64(&pm.metrics.CancelledReveals),
		FailedReveals:     atomic.LoadInt64(&pm.metrics.FailedReveals),
		Finalizations:     atomic.LoadInt64(&pm.metrics.Finalizations),
		Resets:            atomic.LoadInt64(&pm.metrics.Resets),
		SharesSucceeded:   atomic.LoadInt64(&pm.metrics.SharesSucceeded),
		SharesFailed:      atomic.LoadInt64(&pm.metrics.SharesFailed),
		AverageRevealTime: atomic.LoadInt64(&pm.metrics.AverageRevealTime),
		TotalRevealTime:   atomic.LoadInt64(&pm.metrics.TotalRevealTime),
		RedisErrors:       atomic.LoadInt64(&pm.metrics.RedisErrors),
		StartTime:         atomic.LoadInt64(&pm.metrics.StartTime),
		LastUpdateTime:    atomic.LoadInt64(&pm.metrics.LastUpdateTime),
	}
}

// ResetMetrics 重置性能指标
func (pm *PerformanceMonitor) ResetMetrics() { pm.metrics.Reset() }

// ================================================================================

var (
	revealsDesc = prometheus.NewDesc(
		"lottopick_reveals_total", "Reveals by outcome.", []string{"outcome"}, nil)
	finalizationsDesc = prometheus.NewDesc(
		"lottopick_finalizations_total", "Draws that reached their required total.", nil, nil)
	resetsDesc = prometheus.NewDesc(
		"lottopick_resets_total", "Explicit resets and profile or mode switches.", nil, nil)
	sharesDesc = prometheus.NewDesc(
		"lottopick_shares_total", "Share attempts by outcome.", []string{"outcome"}, nil)
	redisErrorsDesc = prometheus.NewDesc(
		"lottopick_redis_errors_total", "Failed Redis commands.", nil, nil)
	revealTimeDesc = prometheus.NewDesc(
		"lottopick_reveal_seconds_total", "Time spent in successful reveals.", nil, nil)
	breakerStateDesc = prometheus.NewDesc(
		"lottopick_circuit_breaker_state", "Share circuit breaker state (0 closed, 1 half-open, 2 open).", nil, nil)
)

// Describe implements prometheus.Collector
func (pm *PerformanceMonitor) Describe(ch chan<- *prometheus.Desc) {
	ch <- revealsDesc
	ch <- finalizationsDesc
	ch <- resetsDesc
	ch <- sharesDesc
	ch <- redisErrorsDesc
	ch <- revealTimeDesc
	ch <- breakerStateDesc
}

// Collect implements prometheus.Collector
func (pm *PerformanceMonitor) Collect(ch chan<- prometheus.Metric) {
	m := pm.GetMetrics()

	counter := func(desc *prometheus.Desc, v int64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), labels...)
	}
	counter(revealsDesc, m.SuccessfulReveals, "success")
	counter(revealsDesc, m.CancelledReveals, "cancelled")
	counter(revealsDesc, m.FailedReveals, "failed")
	counter(finalizationsDesc, m.Finalizations)
	counter(resetsDesc, m.Resets)
	counter(sharesDesc, m.SharesSucceeded, "success")
	counter(sharesDesc, m.SharesFailed, "failed")
	counter(redisErrorsDesc, m.RedisErrors)

	ch <- prometheus.MustNewConstMetric(revealTimeDesc, prometheus.CounterValue,
		time.Duration(m.TotalRevealTime).Seconds())

	pm.mu.RLock()
	breaker := pm.breaker
	pm.mu.RUnlock()
	if breaker != nil {
		ch <- prometheus.MustNewConstMetric(breakerStateDesc, prometheus.GaugeValue, stateToNumeric(breaker.State()))
	}
}
