package lottery

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceMonitor(t *testing.T) {
	pm := NewPerformanceMonitor()

	pm.RecordReveal(nil, 10*time.Millisecond)
	pm.RecordReveal(nil, 30*time.Millisecond)
	pm.RecordReveal(ErrRevealCancelled.WithDetails("reset"), time.Millisecond)
	pm.RecordReveal(errors.New("boom"), time.Millisecond)
	pm.RecordFinalize()
	pm.RecordReset()
	pm.RecordShare(true)
	pm.RecordShare(false)
	pm.RecordRedisError()

	m := pm.GetMetrics()
	assert.Equal(t, int64(4), m.TotalReveals)
	assert.Equal(t, int64(2), m.SuccessfulReveals)
	assert.Equal(t, int64(1), m.CancelledReveals)
	assert.Equal(t, int64(1), m.FailedReveals)
	assert.Equal(t, int64(20*time.Millisecond), m.AverageRevealTime)
	assert.Equal(t, int64(1), m.Finalizations)
	assert.Equal(t, int64(1), m.Resets)
	assert.Equal(t, int64(1), m.SharesSucceeded)
	assert.Equal(t, int64(1), m.SharesFailed)
	assert.Equal(t, int64(1), m.RedisErrors)
	assert.InDelta(t, 50.0, m.GetSuccessRate(), 0.001)

	pm.ResetMetrics()
	assert.Zero(t, pm.GetMetrics().TotalReveals)
	assert.Zero(t, (&PerformanceMetrics{}).GetSuccessRate())
}

func TestPerformanceMonitor_Disabled(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.Disable()
	assert.False(t, pm.IsEnabled())

	pm.RecordReveal(nil, time.Millisecond)
	pm.RecordFinalize()
	pm.RecordShare(true)
	assert.Zero(t, pm.GetMetrics().TotalReveals)
	assert.Zero(t, pm.GetMetrics().Finalizations)

	pm.Enable()
	pm.RecordFinalize()
	assert.Equal(t, int64(1), pm.GetMetrics().Finalizations)
}

func TestPerformanceMonitor_Collector(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.RecordReveal(nil, time.Second)
	pm.RecordFinalize()
	pm.RecordShare(false)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(pm))

	// 未跟踪熔断器时不导出状态
	assert.Equal(t, 3, testutil.CollectAndCount(pm, "lottopick_reveals_total"))
	assert.Equal(t, 0, testutil.CollectAndCount(pm, "lottopick_circuit_breaker_state"))

	expected := `
# HELP lottopick_finalizations_total Draws that reached their required total.
# TYPE lottopick_finalizations_total counter
lottopick_finalizations_total 1
# HELP lottopick_shares_total Share attempts by outcome.
# TYPE lottopick_shares_total counter
lottopick_shares_total{outcome="failed"} 1
lottopick_shares_total{outcome="success"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"lottopick_finalizations_total", "lottopick_shares_total"))

	pm.TrackBreaker(NewBreakerSharer(&recordingSharer{}, testBreakerConfig(), nil))
	assert.Equal(t, 1, testutil.CollectAndCount(pm, "lottopick_circuit_breaker_state"))
}
