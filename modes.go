package lottery

import (
	"context"
	"math"
	"slices"
	"time"
)

// BallPresenter is the sequential ball machine: the whole draw is made up
// front and revealed main numbers first, then bonus numbers.
type BallPresenter struct {
	revealState

	sequence GeneratedNumbers
}

// NewBallPresenter draws the sequence for game and returns an idle presenter
func NewBallPresenter(game GameProfile, gen *Generator, delay time.Duration, update UpdateFunc) (*BallPresenter, error) {
	p := &BallPresenter{revealState: newRevealState(ModeLottery, game, gen, delay, update)}
	if err := p.drawSequenceLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *BallPresenter) drawSequenceLocked() error {
	main, err := p.gen.Unique(p.game.MainNumbers.Min, p.game.MainNumbers.Max, p.game.MainNumbers.Count)
	if err != nil {
		return err
	}
	seq := GeneratedNumbers{MainNumbers: main}
	if b := p.game.BonusNumbers; b != nil {
		if seq.BonusNumbers, err = p.gen.Unique(b.Min, b.Max, b.Count); err != nil {
			return err
		}
	}
	p.sequence = seq
	return nil
}

// Reveal shows the next ball of the sequence
func (p *BallPresenter) Reveal(ctx context.Context) (RevealStep, error) {
	return p.reveal(ctx, func(bonus bool, _ NumberRule, selected []int) (RevealStep, error) {
		src := p.sequence.MainNumbers
		if bonus {
			src = p.sequence.BonusNumbers
		}
		return RevealStep{Number: src[len(selected)]}, nil
	})
}

// Reset cancels a pending reveal and draws a fresh sequence
func (p *BallPresenter) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bumpLocked()
	return p.drawSequenceLocked()
}

// WheelSegment is one slice of the roulette wheel
type WheelSegment struct {
	Number     int         `json:"number"`
	Color      ColorBucket `json:"color"`
	StartAngle float64     `json:"start_angle"`
	EndAngle   float64     `json:"end_angle"`
}

// WheelPresenter spins a wheel showing a reduced sample of each pool. Every
// spin lands on an unselected segment inside the current group's range.
type WheelPresenter struct {
	revealState

	pool     []int
	rotation float64
}

// NewWheelPresenter builds the wheel pool for game
func NewWheelPresenter(game GameProfile, gen *Generator, delay time.Duration, update UpdateFunc) (*WheelPresenter, error) {
	p := &WheelPresenter{revealState: newRevealState(ModeRoulette, game, gen, delay, update)}
	// 仅在揭示成功后转动, 取消的旋转保持原角度
	p.commit = func(step RevealStep) { p.rotation = step.Rotation }
	if err := p.buildPoolLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

// wheelPoolSize caps a group's segments at limit but never below what must be drawn
func wheelPoolSize(r NumberRule, limit int) int {
	return max(min(limit, r.Cardinality()), r.Count)
}

func (p *WheelPresenter) buildPoolLocked() error {
	m := p.game.MainNumbers
	pool, err := p.gen.Unique(m.Min, m.Max, wheelPoolSize(m, WheelMainSegments))
	if err != nil {
		return err
	}
	if b := p.game.BonusNumbers; b != nil {
		bonusPool, err := p.gen.Unique(b.Min, b.Max, wheelPoolSize(*b, WheelBonusSegments))
		if err != nil {
			return err
		}
		pool = append(pool, bonusPool...)
	}
	p.pool = pool
	p.rotation = 0
	return nil
}

// Segments returns the wheel layout
func (p *WheelPresenter) Segments() []WheelSegment {
	p.mu.Lock()
	defer p.mu.Unlock()

	angle := 360.0 / float64(len(p.pool))
	segs := make([]WheelSegment, len(p.pool))
	for i, n := range p.pool {
		segs[i] = WheelSegment{
			Number:     n,
			Color:      ClassifyNumber(n),
			StartAngle: float64(i) * angle,
			EndAngle:   float64(i+1) * angle,
		}
	}
	return segs
}

// Rotation returns the current wheel angle in degrees
func (p *WheelPresenter) Rotation() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rotation
}

// Reveal spins the wheel and lands on one candidate segment
func (p *WheelPresenter) Reveal(ctx context.Context) (RevealStep, error) {
	return p.reveal(ctx, func(_ bool, rule NumberRule, selected []int) (RevealStep, error) {
		var candidates []int
		for _, n := range p.pool {
			if rule.Contains(n) && !slices.Contains(selected, n) && !slices.Contains(candidates, n) {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			return RevealStep{}, ErrRangeExhausted.WithDetails("no wheel segment left for this group")
		}

		i, err := p.gen.InRange(0, len(candidates)-1)
		if err != nil {
			return RevealStep{}, err
		}
		n := candidates[i]

		u, err := p.gen.Float()
		if err != nil {
			return RevealStep{}, err
		}
		target := wheelTarget(p.rotation, slices.Index(p.pool, n), len(p.pool), u)
		return RevealStep{Number: n, Rotation: target}, nil
	})
}

// wheelTarget returns the rotation that puts segment index under the pointer
// after 5-7 full turns from current. u is a uniform float in [0, 1).
func wheelTarget(current float64, index, segments int, u float64) float64 {
	segmentAngle := 360.0 / float64(segments)
	targetAngle := float64(index) * segmentAngle

	fullRotations := math.Floor(WheelMinSpins+u*WheelSpinJitter) * 360

	desired := math.Mod(360-targetAngle, 360)
	currentAngle := math.Mod(current, 360)

	needed := math.Mod(desired-currentAngle+360, 360)
	if needed == 0 {
		needed = 360
	}
	return current + fullRotations + needed
}

// Reset cancels a pending spin, zeroes the wheel and samples a new pool
func (p *WheelPresenter) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bumpLocked()
	return p.buildPoolLocked()
}

// ReelPresenter is the slot machine: the reel cycles through random symbols
// of the group range and stops on a number not yet revealed in that group.
type ReelPresenter struct {
	revealState

	frames int
}

// NewReelPresenter returns an idle slot machine for game
func NewReelPresenter(game GameProfile, gen *Generator, delay time.Duration, frames int, update UpdateFunc) *ReelPresenter {
	if frames <= 0 {
		frames = DefaultReelFrames
	}
	return &ReelPresenter{
		revealState: newRevealState(ModeSlot, game, gen, delay, update),
		frames:      frames,
	}
}

// Reveal spins the reel once
func (p *ReelPresenter) Reveal(ctx context.Context) (RevealStep, error) {
	return p.reveal(ctx, func(_ bool, rule NumberRule, selected []int) (RevealStep, error) {
		frames := make([]int, 0, p.frames+1)
		for range p.frames {
			n, err := p.gen.InRange(rule.Min, rule.Max)
			if err != nil {
				return RevealStep{}, err
			}
			frames = append(frames, n)
		}

		n, err := p.gen.Excluding(rule.Min, rule.Max, selected)
		if err != nil {
			return RevealStep{}, err
		}
		return RevealStep{Number: n, Frames: append(frames, n)}, nil
	})
}

// Reset cancels a pending pull and clears the reels
func (p *ReelPresenter) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bumpLocked()
	return nil
}
