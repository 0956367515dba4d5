package lottery

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Mode is a visual generator variant
type Mode string

const (
	// ModeLottery reveals balls from a pre-drawn sequence
	ModeLottery Mode = "lottery"
	// ModeRoulette spins a wheel of sample segments
	ModeRoulette Mode = "roulette"
	// ModeSlot spins reels that stop on an unused number
	ModeSlot Mode = "slot"
)

// Modes lists every presentation mode in menu order
var Modes = []Mode{ModeLottery, ModeRoulette, ModeSlot}

// ParseMode converts a name to a Mode
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Modes, m) {
		return "", ErrUnknownMode.WithDetails(s)
	}
	return m, nil
}

// LabelKey returns the translation key naming the mode
func (m Mode) LabelKey() string {
	return "generatorTypes." + string(m)
}

// ActionKey returns the translation key of the button that triggers a reveal
func (m Mode) ActionKey() string {
	switch m {
	case ModeRoulette:
		return KeyButtonSpin
	case ModeSlot:
		return KeyButtonPull
	default:
		return KeyButtonDraw
	}
}

// UpdateFunc receives the full revealed sequences after every reveal
type UpdateFunc func(main, bonus []int)

// Progress is k of N numbers revealed
type Progress struct {
	Revealed int `json:"revealed"`
	Total    int `json:"total"`
}

// Complete reports whether every number has been revealed
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Revealed >= p.Total
}

// Percent returns progress in [0, 100]
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Revealed) / float64(p.Total) * 100.0
}

// RevealStep describes one revealed number
type RevealStep struct {
	Mode     Mode    `json:"mode"`
	Number   int     `json:"number"`
	Bonus    bool    `json:"bonus"`
	Index    int     `json:"index"` // 1-based position over main then bonus
	Total    int     `json:"total"`
	Rotation float64 `json:"rotation,omitempty"` // wheel angle in degrees after the spin
	Frames   []int   `json:"frames,omitempty"`   // reel symbols shown while spinning, last is Number
}

// Presenter stages one draw into view, one number at a time.
// State machine: Idle -> Revealing(k/N) -> Idle, k returns to 0 on Reset.
type Presenter interface {
	Mode() Mode
	Game() GameProfile

	// Reveal waits the mode's delay and reveals exactly one number
	Reveal(ctx context.Context) (RevealStep, error)

	// Progress returns how many numbers are revealed
	Progress() Progress

	// Revealed returns copies of the revealed numbers in reveal order
	Revealed() GeneratedNumbers

	// Reset discards progress and cancels a pending reveal
	Reset() error
}

// pickFunc chooses the next number for a group. Called with the presenter lock held.
type pickFunc func(bonus bool, rule NumberRule, selected []int) (RevealStep, error)

// revealState is the part shared by every presenter: revealed numbers, the
// generation token and the single-reveal guard.
type revealState struct {
	mu sync.Mutex

	mode   Mode
	game   GameProfile
	gen    *Generator
	delay  time.Duration
	update UpdateFunc
	// commit runs with the lock held once a step has been appended
	commit func(RevealStep)

	main  []int
	bonus []int

	generation uint64
	cancelCh   chan struct{} // closed when generation moves on
	pending    bool
}

func newRevealState(mode Mode, game GameProfile, gen *Generator, delay time.Duration, update UpdateFunc) revealState {
	return revealState{
		mode:     mode,
		game:     game,
		gen:      gen,
		delay:    delay,
		update:   update,
		cancelCh: make(chan struct{}),
	}
}

func (s *revealState) Mode() Mode { return s.mode }

func (s *revealState) Game() GameProfile { return s.game.clone() }

func (s *revealState) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{Revealed: len(s.main) + len(s.bonus), Total: s.game.TotalRequired()}
}

func (s *revealState) Revealed() GeneratedNumbers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return GeneratedNumbers{MainNumbers: slices.Clone(s.main), BonusNumbers: slices.Clone(s.bonus)}
}

// bumpLocked starts a new generation. Any reveal waiting on the old one gives up.
func (s *revealState) bumpLocked() {
	s.generation++
	close(s.cancelCh)
	s.cancelCh = make(chan struct{})
	s.pending = false
	s.main = nil
	s.bonus = nil
}

// reveal runs one delay-then-append cycle
func (s *revealState) reveal(ctx context.Context, pick pickFunc) (RevealStep, error) {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return RevealStep{}, ErrRevealInProgress
	}
	total := s.game.TotalRequired()
	revealed := len(s.main) + len(s.bonus)
	if revealed >= total {
		s.mu.Unlock()
		return RevealStep{}, ErrRevealComplete
	}

	isBonus := len(s.main) >= s.game.MainNumbers.Count
	rule, selected := s.game.MainNumbers, s.main
	if isBonus {
		rule, selected = *s.game.BonusNumbers, s.bonus
	}

	step, err := pick(isBonus, rule, selected)
	if err != nil {
		s.mu.Unlock()
		return RevealStep{}, err
	}
	step.Mode = s.mode
	step.Bonus = isBonus
	step.Index = revealed + 1
	step.Total = total

	gen, cancelCh := s.generation, s.cancelCh
	s.pending = true
	s.mu.Unlock()

	waitErr := wait(ctx, s.delay, cancelCh)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return RevealStep{}, ErrRevealCancelled
	}
	s.pending = false
	if waitErr != nil {
		return RevealStep{}, ErrRevealCancelled.WithCause(waitErr)
	}

	if isBonus {
		s.bonus = append(s.bonus, step.Number)
	} else {
		s.main = append(s.main, step.Number)
	}
	if s.commit != nil {
		s.commit(step)
	}
	if s.update != nil {
		s.update(slices.Clone(s.main), slices.Clone(s.bonus))
	}
	return step, nil
}

// wait sleeps for d unless ctx ends or the generation is cancelled
func wait(ctx context.Context, d time.Duration, cancelCh <-chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-cancelCh:
		return ErrRevealCancelled
	case <-t.C:
		return nil
	}
}

// PresenterOptions configures NewPresenter
type PresenterOptions struct {
	Generator  *Generator
	Reveal     *RevealConfig
	Update     UpdateFunc
	ReelFrames int
}

// NewPresenter builds the presenter for mode
func NewPresenter(mode Mode, game GameProfile, opts PresenterOptions) (Presenter, error) {
	if err := game.Validate(); err != nil {
		return nil, err
	}
	gen := opts.Generator
	if gen == nil {
		gen = NewGenerator(nil)
	}
	rc := opts.Reveal
	if rc == nil {
		rc = DefaultRevealConfig()
	}

	switch mode {
	case ModeLottery:
		p, err := NewBallPresenter(game, gen, rc.BallDelay, opts.Update)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ModeRoulette:
		p, err := NewWheelPresenter(game, gen, rc.WheelDelay, opts.Update)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ModeSlot:
		frames := opts.ReelFrames
		if frames <= 0 {
			frames = rc.ReelFrames
		}
		return NewReelPresenter(game, gen, rc.ReelDelay, frames, opts.Update), nil
	default:
		return nil, ErrUnknownMode.WithDetails(fmt.Sprint(mode))
	}
}
