package lottery

import (
	"context"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func korea(t *testing.T) GameProfile {
	t.Helper()
	g, err := DefaultCatalog().Find(DefaultGameID)
	require.NoError(t, err)
	return g
}

func powerball(t *testing.T) GameProfile {
	t.Helper()
	g, err := DefaultCatalog().Find("us-powerball")
	require.NoError(t, err)
	return g
}

func newTestPresenter(t *testing.T, mode Mode, game GameProfile, update UpdateFunc) Presenter {
	t.Helper()
	p, err := NewPresenter(mode, game, PresenterOptions{
		Generator: NewGenerator(nil),
		Reveal:    InstantRevealConfig(),
		Update:    update,
	})
	require.NoError(t, err)
	return p
}

func revealAll(t *testing.T, p Presenter) []RevealStep {
	t.Helper()
	var steps []RevealStep
	for !p.Progress().Complete() {
		step, err := p.Reveal(context.Background())
		require.NoError(t, err)
		steps = append(steps, step)
	}
	return steps
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(" " + string(m) + " ")
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMode("pachinko")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestProgress(t *testing.T) {
	assert.False(t, Progress{}.Complete())
	assert.False(t, Progress{Revealed: 5, Total: 6}.Complete())
	assert.True(t, Progress{Revealed: 6, Total: 6}.Complete())
	assert.Equal(t, 50.0, Progress{Revealed: 3, Total: 6}.Percent())
	assert.Equal(t, 0.0, Progress{}.Percent())
}

func TestPresenters_RevealWholeDraw(t *testing.T) {
	for _, mode := range Modes {
		for _, game := range []GameProfile{korea(t), powerball(t)} {
			t.Run(string(mode)+"/"+game.ID, func(t *testing.T) {
				var updates int
				p := newTestPresenter(t, mode, game, func(main, bonus []int) { updates++ })
				assert.Equal(t, mode, p.Mode())
				assert.Equal(t, game.ID, p.Game().ID)

				steps := revealAll(t, p)
				require.Len(t, steps, game.TotalRequired())
				assert.Equal(t, game.TotalRequired(), updates)

				for i, step := range steps {
					assert.Equal(t, mode, step.Mode)
					assert.Equal(t, i+1, step.Index)
					assert.Equal(t, game.TotalRequired(), step.Total)
					assert.Equal(t, i >= game.MainNumbers.Count, step.Bonus)
				}

				revealed := p.Revealed()
				require.NoError(t, revealed.Sorted().Validate(game))

				_, err := p.Reveal(context.Background())
				assert.ErrorIs(t, err, ErrRevealComplete)
			})
		}
	}
}

func TestPresenters_Reset(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			p := newTestPresenter(t, mode, korea(t), nil)

			for range 3 {
				_, err := p.Reveal(context.Background())
				require.NoError(t, err)
			}
			assert.Equal(t, 3, p.Progress().Revealed)

			require.NoError(t, p.Reset())
			assert.Equal(t, Progress{Revealed: 0, Total: 6}, p.Progress())
			assert.Empty(t, p.Revealed().MainNumbers)

			revealAll(t, p)
			assert.Equal(t, 6, p.Progress().Revealed)
		})
	}
}

func TestPresenters_Cancellation(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode)+"/reset_during_delay", func(t *testing.T) {
			rc := InstantRevealConfig()
			rc.BallDelay, rc.WheelDelay, rc.ReelDelay = time.Second, time.Second, time.Second

			var mu sync.Mutex
			var updates int
			p, err := NewPresenter(mode, korea(t), PresenterOptions{Reveal: rc, Update: func(main, bonus []int) {
				mu.Lock()
				updates++
				mu.Unlock()
			}})
			require.NoError(t, err)

			done := make(chan error, 1)
			go func() {
				_, err := p.Reveal(context.Background())
				done <- err
			}()

			require.Eventually(t, func() bool { return isPending(p) }, 500*time.Millisecond, time.Millisecond)

			// a second caller must not start another reveal
			_, err = p.Reveal(context.Background())
			assert.ErrorIs(t, err, ErrRevealInProgress)

			start := time.Now()
			require.NoError(t, p.Reset())

			select {
			case err := <-done:
				assert.ErrorIs(t, err, ErrRevealCancelled)
				assert.Less(t, time.Since(start), 500*time.Millisecond)
			case <-time.After(2 * time.Second):
				t.Fatal("reveal did not return after reset")
			}

			assert.Equal(t, 0, p.Progress().Revealed)
			mu.Lock()
			assert.Equal(t, 0, updates)
			mu.Unlock()
		})

		t.Run(string(mode)+"/context_deadline", func(t *testing.T) {
			rc := InstantRevealConfig()
			rc.BallDelay, rc.WheelDelay, rc.ReelDelay = time.Second, time.Second, time.Second
			p, err := NewPresenter(mode, korea(t), PresenterOptions{Reveal: rc})
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			_, err = p.Reveal(ctx)
			assert.ErrorIs(t, err, ErrRevealCancelled)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Equal(t, 0, p.Progress().Revealed)

			// the guard is released, so a new reveal is not "in progress"
			_, err = p.Reveal(ctx)
			assert.ErrorIs(t, err, ErrRevealCancelled)
			assert.NotErrorIs(t, err, ErrRevealInProgress)
		})
	}
}

func TestNewPresenter_Errors(t *testing.T) {
	_, err := NewPresenter(Mode("pachinko"), korea(t), PresenterOptions{})
	assert.ErrorIs(t, err, ErrUnknownMode)

	bad := GameProfile{ID: "bad", GameName: "Bad", MainNumbers: NumberRule{Min: 1, Max: 5, Count: 6}}
	for _, mode := range Modes {
		_, err := NewPresenter(mode, bad, PresenterOptions{})
		assert.ErrorIs(t, err, ErrRangeExhausted, "mode %s", mode)
	}
}

func TestBallPresenter_RevealsPreDrawnSequence(t *testing.T) {
	var last []int
	p, err := NewBallPresenter(korea(t), NewGenerator(nil), 0, func(main, bonus []int) { last = main })
	require.NoError(t, err)

	seq := slices.Clone(p.sequence.MainNumbers)
	revealAll(t, p)

	assert.Equal(t, seq, p.Revealed().MainNumbers)
	assert.Equal(t, seq, last)

	// mutating the callback slice must not leak into the presenter
	last[0] = -1
	assert.Equal(t, seq, p.Revealed().MainNumbers)
}

func TestWheelPresenter(t *testing.T) {
	t.Run("segments", func(t *testing.T) {
		tests := []struct {
			name string
			game GameProfile
			want int
		}{
			{"korea", korea(t), WheelMainSegments},
			{"powerball", powerball(t), WheelMainSegments + WheelBonusSegments},
			{"vikinglotto_bonus_pool_is_whole_range", mustFind(t, "viking-lotto"), WheelMainSegments + 5},
			{"small", GameProfile{ID: "s", GameName: "S", MainNumbers: NumberRule{Min: 1, Max: 4, Count: 3}}, 4},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p, err := NewWheelPresenter(tt.game, NewGenerator(nil), 0, nil)
				require.NoError(t, err)

				segs := p.Segments()
				require.Len(t, segs, tt.want)
				assert.Equal(t, 0.0, segs[0].StartAngle)
				assert.InDelta(t, 360.0, segs[len(segs)-1].EndAngle, 1e-9)
				for _, s := range segs {
					assert.Equal(t, ClassifyNumber(s.Number), s.Color)
				}
			})
		}
	})

	t.Run("pool_never_smaller_than_count", func(t *testing.T) {
		assert.Equal(t, 20, wheelPoolSize(NumberRule{Min: 1, Max: 90, Count: 20}, WheelMainSegments))
		assert.Equal(t, 5, wheelPoolSize(NumberRule{Min: 1, Max: 5, Count: 1}, WheelBonusSegments))
		assert.Equal(t, 3, wheelPoolSize(NumberRule{Min: 1, Max: 3, Count: 1}, WheelBonusSegments))
	})

	t.Run("lands_on_pool_segments", func(t *testing.T) {
		p, err := NewWheelPresenter(korea(t), NewGenerator(nil), 0, nil)
		require.NoError(t, err)

		pool := make([]int, 0)
		for _, s := range p.Segments() {
			pool = append(pool, s.Number)
		}

		prev := 0.0
		for _, step := range revealAll(t, p) {
			assert.Contains(t, pool, step.Number)

			turned := step.Rotation - prev
			assert.Greater(t, turned, float64(WheelMinSpins*360))
			assert.LessOrEqual(t, turned, float64((WheelMinSpins+WheelSpinJitter)*360))
			prev = step.Rotation
		}
		assert.Equal(t, prev, p.Rotation())

		require.NoError(t, p.Reset())
		assert.Equal(t, 0.0, p.Rotation())
	})

	t.Run("cancelled_spin_keeps_angle", func(t *testing.T) {
		p, err := NewWheelPresenter(korea(t), NewGenerator(nil), time.Second, nil)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err = p.Reveal(ctx)
		assert.ErrorIs(t, err, ErrRevealCancelled)
		assert.Equal(t, 0.0, p.Rotation())
		assert.Equal(t, 0, p.Progress().Revealed)

		p.delay = 0
		step, err := p.Reveal(context.Background())
		require.NoError(t, err)
		assert.Equal(t, step.Rotation, p.Rotation())
		assert.Greater(t, p.Rotation(), float64(WheelMinSpins*360))
	})
}

func isPending(p Presenter) bool {
	var s *revealState
	switch v := p.(type) {
	case *BallPresenter:
		s = &v.revealState
	case *WheelPresenter:
		s = &v.revealState
	case *ReelPresenter:
		s = &v.revealState
	default:
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func mustFind(t *testing.T, id string) GameProfile {
	t.Helper()
	g, err := DefaultCatalog().Find(id)
	require.NoError(t, err)
	return g
}

func TestWheelTarget(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		index    int
		segments int
		u        float64
		want     float64
	}{
		{"first_segment_from_zero", 0, 0, 15, 0, 5*360 + 360},
		{"quarter", 0, 3, 12, 0.5, 6*360 + 270},
		{"from_previous_spin", 2430, 0, 12, 0, 2430 + 5*360 + 90},
		{"max_jitter", 0, 6, 12, 0.99, 7*360 + 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wheelTarget(tt.current, tt.index, tt.segments, tt.u)
			assert.InDelta(t, tt.want, got, 1e-9)

			// the chosen segment ends up under the pointer
			angle := float64(tt.index) * 360 / float64(tt.segments)
			assert.InDelta(t, 0, math.Mod(got+angle, 360), 1e-9)
		})
	}
}

func TestReelPresenter(t *testing.T) {
	p := NewReelPresenter(korea(t), NewGenerator(nil), 0, 8, nil)

	for _, step := range revealAll(t, p) {
		require.Len(t, step.Frames, 9)
		assert.Equal(t, step.Number, step.Frames[len(step.Frames)-1])
		for _, f := range step.Frames {
			assert.GreaterOrEqual(t, f, 1)
			assert.LessOrEqual(t, f, 45)
		}
	}

	t.Run("fills_whole_range", func(t *testing.T) {
		g := GameProfile{ID: "full", GameName: "Full", MainNumbers: NumberRule{Min: 1, Max: 4, Count: 4}}
		p := NewReelPresenter(g, NewGenerator(nil), 0, 0, nil)
		revealAll(t, p)

		got := p.Revealed().Sorted().MainNumbers
		assert.Equal(t, []int{1, 2, 3, 4}, got)
	})
}
