package lottery

import (
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finalizeRecorder struct {
	calls   atomic.Int32
	results chan GeneratedNumbers
}

func newFinalizeRecorder() *finalizeRecorder {
	return &finalizeRecorder{results: make(chan GeneratedNumbers, 8)}
}

func (r *finalizeRecorder) onFinalize(result GeneratedNumbers) {
	r.calls.Add(1)
	r.results <- result
}

func (r *finalizeRecorder) wait(t *testing.T) GeneratedNumbers {
	t.Helper()
	select {
	case res := <-r.results:
		return res
	case <-time.After(time.Second):
		t.Fatal("finalize was not called")
		return GeneratedNumbers{}
	}
}

func TestAggregator_FinalizesOnceAtTransition(t *testing.T) {
	rec := newFinalizeRecorder()
	a := NewAggregator(6, 0, rec.onFinalize)

	drawn := []int{33, 4, 41, 17, 8, 25}
	a.Update(nil, nil)
	for k := 1; k <= 6; k++ {
		fired := a.Update(drawn[:k], nil)
		assert.Equal(t, k == 6, fired, "count %d", k)
	}

	res := rec.wait(t)
	assert.Equal(t, []int{4, 8, 17, 25, 33, 41}, res.MainNumbers)
	assert.Nil(t, res.BonusNumbers)

	// 6 -> 6 must not fire again
	assert.False(t, a.Update(drawn, nil))
	assert.False(t, a.Update(drawn, nil))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), rec.calls.Load())
	assert.Equal(t, 1, a.Finalizations())
	assert.True(t, a.Surfaced())
}

func TestAggregator_MainPlusBonus(t *testing.T) {
	rec := newFinalizeRecorder()
	a := NewAggregator(powerball(t).TotalRequired(), 0, rec.onFinalize)

	main := []int{12, 65, 3, 40, 27}
	for k := 1; k <= 5; k++ {
		assert.False(t, a.Update(main[:k], nil))
	}
	assert.Equal(t, Progress{Revealed: 5, Total: 6}, a.Progress())
	_, ok := a.Result()
	assert.False(t, ok)

	assert.True(t, a.Update(main, []int{9}))

	res := rec.wait(t)
	assert.Equal(t, []int{3, 12, 27, 40, 65}, res.MainNumbers)
	assert.Equal(t, []int{9}, res.BonusNumbers)
	assert.Equal(t, 1, a.Finalizations())
}

func TestAggregator_Result(t *testing.T) {
	a := NewAggregator(3, time.Hour, nil)

	a.Update([]int{3, 1}, nil)
	live := a.Revealed()
	assert.Equal(t, []int{3, 1}, live.MainNumbers, "in reveal order while incomplete")

	a.Update([]int{3, 1, 2}, nil)
	res, ok := a.Result()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, res.MainNumbers)
	assert.Equal(t, []int{1, 2, 3}, a.Revealed().MainNumbers, "sorted once complete")
	assert.True(t, a.IsComplete())

	// finalize delay not elapsed
	assert.False(t, a.Surfaced())

	res.MainNumbers[0] = 99
	again, _ := a.Result()
	assert.Equal(t, 1, again.MainNumbers[0])
}

func TestAggregator_ResetSuppressesPendingFinalize(t *testing.T) {
	rec := newFinalizeRecorder()
	a := NewAggregator(2, 50*time.Millisecond, rec.onFinalize)

	require.True(t, a.Update([]int{1, 2}, nil))
	a.Reset()

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), rec.calls.Load())
	assert.Equal(t, Progress{Revealed: 0, Total: 2}, a.Progress())
	_, ok := a.Result()
	assert.False(t, ok)
	assert.False(t, a.Surfaced())

	// the next draw finalizes normally
	a.SetFinalizeDelay(0)
	require.True(t, a.Update([]int{5, 4}, nil))
	assert.Equal(t, []int{4, 5}, rec.wait(t).MainNumbers)
}

func TestAggregator_Configure(t *testing.T) {
	rec := newFinalizeRecorder()
	a := NewAggregator(6, 0, rec.onFinalize)

	a.Update([]int{1, 2, 3}, nil)
	a.Configure(2)
	assert.Equal(t, Progress{Revealed: 0, Total: 2}, a.Progress())

	assert.False(t, a.Update([]int{7}, nil))
	assert.True(t, a.Update([]int{7}, []int{1}))
	assert.Equal(t, []int{7}, rec.wait(t).MainNumbers)
}

func TestAggregator_RepeatedDrawsAfterReset(t *testing.T) {
	rec := newFinalizeRecorder()
	a := NewAggregator(1, 0, rec.onFinalize)

	for i := range 3 {
		require.True(t, a.Update([]int{i + 1}, nil))
		rec.wait(t)
		a.Reset()
	}
	assert.Equal(t, 3, a.Finalizations())
}

func TestAggregator_FeedFromPresenter(t *testing.T) {
	rec := newFinalizeRecorder()
	game := korea(t)
	a := NewAggregator(game.TotalRequired(), 0, rec.onFinalize)

	p := newTestPresenter(t, ModeSlot, game, func(main, bonus []int) { a.Update(main, bonus) })
	revealAll(t, p)

	res := rec.wait(t)
	require.NoError(t, res.Validate(game))
	assert.True(t, slices.IsSorted(res.MainNumbers))
	assert.Equal(t, p.Revealed().Sorted(), res)
}
