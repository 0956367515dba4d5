package lottery

import (
	"slices"
	"sync"
	"time"
)

// FinalizeFunc receives the sorted result once a draw completes
type FinalizeFunc func(result GeneratedNumbers)

// Aggregator owns the combined reveal state of main and bonus numbers and
// detects completion exactly once per draw.
type Aggregator struct {
	mu sync.Mutex

	total int
	main  []int
	bonus []int

	// prevTotal is the combined count seen by the previous Update; finalize
	// fires only on the transition from below total to total.
	prevTotal int

	result   *GeneratedNumbers
	surfaced bool

	generation    uint64
	finalizeDelay time.Duration
	timer         *time.Timer
	onFinalize    FinalizeFunc

	finalizations int
}

// NewAggregator creates an aggregator expecting total numbers. onFinalize runs
// on its own goroutine finalizeDelay after completion, unless a reset comes first.
func NewAggregator(total int, finalizeDelay time.Duration, onFinalize FinalizeFunc) *Aggregator {
	return &Aggregator{
		total:         total,
		finalizeDelay: finalizeDelay,
		onFinalize:    onFinalize,
	}
}

// Update replaces the revealed sequences and reports whether this call
// completed the draw.
func (a *Aggregator) Update(main, bonus []int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.main = slices.Clone(main)
	a.bonus = slices.Clone(bonus)

	current := len(a.main) + len(a.bonus)
	prev := a.prevTotal
	a.prevTotal = current

	if current != a.total || prev >= a.total || current == 0 {
		return false
	}

	result := GeneratedNumbers{MainNumbers: a.main, BonusNumbers: a.bonus}.Sorted()
	a.result = &result
	a.finalizations++
	a.scheduleLocked(result)
	return true
}

func (a *Aggregator) scheduleLocked(result GeneratedNumbers) {
	gen := a.generation
	a.timer = time.AfterFunc(max(a.finalizeDelay, 0), func() {
		a.mu.Lock()
		if gen != a.generation {
			a.mu.Unlock()
			return
		}
		a.surfaced = true
		cb := a.onFinalize
		a.mu.Unlock()

		if cb != nil {
			cb(result.Sorted())
		}
	})
}

// Reset clears revealed numbers and any result, and suppresses a pending finalize
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
}

// Configure resets and sets a new required total (profile change)
func (a *Aggregator) Configure(total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
	a.total = total
}

// SetFinalizeDelay changes the delay used by future completions
func (a *Aggregator) SetFinalizeDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finalizeDelay = d
}

func (a *Aggregator) resetLocked() {
	a.generation++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.main = nil
	a.bonus = nil
	a.prevTotal = 0
	a.result = nil
	a.surfaced = false
}

// Result returns the sorted final numbers once the draw completed
func (a *Aggregator) Result() (GeneratedNumbers, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.result == nil {
		return GeneratedNumbers{}, false
	}
	return a.result.Sorted(), true
}

// Surfaced reports whether the finalize delay has elapsed for the current result
func (a *Aggregator) Surfaced() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.surfaced
}

// Revealed returns the live numbers in reveal order, sorted once complete
func (a *Aggregator) Revealed() GeneratedNumbers {
	a.mu.Lock()
	defer a.mu.Unlock()

	live := GeneratedNumbers{MainNumbers: slices.Clone(a.main), BonusNumbers: slices.Clone(a.bonus)}
	if a.total > 0 && live.Total() == a.total {
		return live.Sorted()
	}
	return live
}

// Progress returns combined revealed count against the required total
func (a *Aggregator) Progress() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Progress{Revealed: len(a.main) + len(a.bonus), Total: a.total}
}

// IsComplete reports whether the combined count reached the total
func (a *Aggregator) IsComplete() bool {
	return a.Progress().Complete()
}

// Finalizations returns how many times finalize fired since creation
func (a *Aggregator) Finalizations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finalizations
}
