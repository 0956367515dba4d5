package lottery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
)

// Session is the shared parent of one picker: the selected game and mode, the
// active presenter, the completion aggregator and the localization context.
// Switching game or mode discards all draw state.
type Session struct {
	mu sync.Mutex

	catalog    *Catalog
	gen        *Generator
	logger     Logger
	monitor    *PerformanceMonitor
	sharer     Sharer
	translator *Translator
	selector   *LocaleSelector
	reveal     *RevealConfig
	onResult   FinalizeFunc

	game      GameProfile
	mode      Mode
	localizer *Localizer
	presenter Presenter
	agg       *Aggregator
	resultID  string

	// epoch invalidates update callbacks of replaced presenters
	epoch atomic.Uint64
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithCatalog sets the game catalog
func WithCatalog(c *Catalog) SessionOption {
	return func(s *Session) { s.catalog = c }
}

// WithGenerator sets the number generator
func WithGenerator(g *Generator) SessionOption {
	return func(s *Session) { s.gen = g }
}

// WithLogger sets the logger
func WithLogger(l Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithSharer sets the share path
func WithSharer(sh Sharer) SessionOption {
	return func(s *Session) { s.sharer = sh }
}

// WithMonitor sets the performance monitor
func WithMonitor(m *PerformanceMonitor) SessionOption {
	return func(s *Session) { s.monitor = m }
}

// WithRevealConfig sets reveal delays
func WithRevealConfig(rc *RevealConfig) SessionOption {
	return func(s *Session) { s.reveal = rc }
}

// WithTranslator sets the translation catalog
func WithTranslator(t *Translator) SessionOption {
	return func(s *Session) { s.translator = t }
}

// WithLocaleSelector sets the country to language table
func WithLocaleSelector(ls *LocaleSelector) SessionOption {
	return func(s *Session) { s.selector = ls }
}

// WithResultHandler is called once per draw after the finalize delay
func WithResultHandler(fn FinalizeFunc) SessionOption {
	return func(s *Session) { s.onResult = fn }
}

// WithMode sets the initial presentation mode
func WithMode(m Mode) SessionOption {
	return func(s *Session) { s.mode = m }
}

// NewSession creates a session on the catalog's default game
func NewSession(opts ...SessionOption) (*Session, error) {
	s := &Session{mode: ModeLottery}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = DefaultCatalog()
	}
	if s.gen == nil {
		s.gen = NewGenerator(nil)
	}
	if s.logger == nil {
		s.logger = NewSilentLogger()
	}
	if s.monitor == nil {
		s.monitor = NewPerformanceMonitor()
	}
	if s.sharer == nil {
		s.sharer = NewClipboardSharer(nil)
	}
	if s.selector == nil {
		s.selector = NewLocaleSelector(language.English)
	}
	if s.reveal == nil {
		s.reveal = DefaultRevealConfig()
	}
	if err := s.reveal.Validate(); err != nil {
		return nil, err
	}
	if s.translator == nil {
		t, err := NewTranslator()
		if err != nil {
			return nil, err
		}
		s.translator = t
	}
	if _, err := ParseMode(string(s.mode)); err != nil {
		return nil, err
	}

	s.game = s.catalog.Default()
	s.agg = NewAggregator(s.game.TotalRequired(), s.reveal.FinalizeDelay, s.handleFinalize)
	s.localizer = s.translator.Localizer(s.selector.ForCountry(s.game.CountryCode))

	p, err := s.newPresenterLocked(s.game, s.mode, s.epoch.Load())
	if err != nil {
		return nil, err
	}
	s.presenter = p

	s.logger.Debug("Session started: game=%s, mode=%s, locale=%s", s.game.ID, s.mode, s.localizer.Tag())
	return s, nil
}

// handleFinalize runs on the aggregator's timer goroutine and must not take s.mu
func (s *Session) handleFinalize(result GeneratedNumbers) {
	s.monitor.RecordFinalize()
	s.logger.Info("Draw complete: main=%v, bonus=%v", result.MainNumbers, result.BonusNumbers)
	if s.onResult != nil {
		s.onResult(result)
	}
}

func (s *Session) newPresenterLocked(game GameProfile, mode Mode, epoch uint64) (Presenter, error) {
	agg := s.agg
	update := func(main, bonus []int) {
		if s.epoch.Load() != epoch {
			return
		}
		agg.Update(main, bonus)
	}

	return NewPresenter(mode, game, PresenterOptions{
		Generator: s.gen,
		Reveal:    s.reveal,
		Update:    update,
	})
}

// rebuildLocked builds a presenter for game and mode, cancels the active one
// and zeroes the aggregator. On error nothing changes.
func (s *Session) rebuildLocked(game GameProfile, mode Mode) error {
	next := s.epoch.Load() + 1
	p, err := s.newPresenterLocked(game, mode, next)
	if err != nil {
		return err
	}

	s.epoch.Store(next)
	if err := s.presenter.Reset(); err != nil {
		s.logger.Error("Failed to reset %s presenter: %v", s.presenter.Mode(), err)
	}
	s.agg.Configure(game.TotalRequired())
	s.resultID = ""

	s.game = game
	s.mode = mode
	s.presenter = p
	s.monitor.RecordReset()
	return nil
}

// SelectGame switches to the profile with id. An unknown id leaves the session untouched.
func (s *Session) SelectGame(id string) error {
	game, err := s.catalog.Find(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rebuildLocked(game, s.mode); err != nil {
		return err
	}
	s.localizer = s.translator.Localizer(s.selector.ForCountry(game.CountryCode))

	s.logger.Info("Selected game %s (%s), locale %s", game.ID, game.DisplayName(), s.localizer.Tag())
	return nil
}

// SelectMode switches the presentation mode
func (s *Session) SelectMode(mode Mode) error {
	m, err := ParseMode(string(mode))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rebuildLocked(s.game, m); err != nil {
		return err
	}
	s.logger.Info("Selected mode %s", m)
	return nil
}

// Reset discards progress and any result, keeping game and mode
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rebuildLocked(s.game, s.mode)
}

// Reveal reveals one number through the active presenter. A switch or reset
// during the delay makes it return ErrRevealCancelled.
func (s *Session) Reveal(ctx context.Context) (RevealStep, error) {
	s.mu.Lock()
	p := s.presenter
	epoch := s.epoch.Load()
	s.mu.Unlock()

	start := time.Now()
	step, err := p.Reveal(ctx)
	if err == nil && s.epoch.Load() != epoch {
		err = ErrRevealCancelled
	}
	if !errors.Is(err, ErrRevealInProgress) && !errors.Is(err, ErrRevealComplete) {
		s.monitor.RecordReveal(err, time.Since(start))
	}
	if err != nil {
		return RevealStep{}, err
	}

	s.logger.Debug("Revealed %d (%d/%d, bonus=%t)", step.Number, step.Index, step.Total, step.Bonus)
	return step, nil
}

// RunToCompletion reveals until the draw is complete and returns the sorted result
func (s *Session) RunToCompletion(ctx context.Context, onStep StepFunc) (GeneratedNumbers, error) {
	for !s.agg.IsComplete() {
		step, err := s.Reveal(ctx)
		if err != nil {
			return GeneratedNumbers{}, err
		}
		if onStep != nil {
			onStep(step, s.agg.Progress())
		}
	}

	result, ok := s.agg.Result()
	if !ok {
		return GeneratedNumbers{}, ErrNoResult
	}
	return result, nil
}

// Result returns the finalized numbers, sorted ascending
func (s *Session) Result() (GeneratedNumbers, bool) {
	return s.agg.Result()
}

// Progress returns the combined revealed count
func (s *Session) Progress() Progress {
	return s.agg.Progress()
}

// Game returns the selected profile
func (s *Session) Game() GameProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.clone()
}

// Mode returns the selected presentation mode
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Presenter returns the active presenter
func (s *Session) Presenter() Presenter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presenter
}

// Localizer returns the localization context for the selected game
func (s *Session) Localizer() *Localizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localizer
}

// Catalog returns the game catalog
func (s *Session) Catalog() *Catalog { return s.catalog }

// Monitor returns the performance monitor
func (s *Session) Monitor() *PerformanceMonitor { return s.monitor }

// Snapshot is a point-in-time view of a session
type Snapshot struct {
	Game     GameProfile       `json:"game"`
	Mode     Mode              `json:"mode"`
	Locale   string            `json:"locale"`
	Progress Progress          `json:"progress"`
	Revealed GeneratedNumbers  `json:"revealed"`
	Result   *GeneratedNumbers `json:"result,omitempty"`
	Surfaced bool              `json:"surfaced"`
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Game:     s.game.clone(),
		Mode:     s.mode,
		Locale:   s.localizer.Tag().String(),
		Progress: s.agg.Progress(),
		Revealed: s.agg.Revealed(),
		Surfaced: s.agg.Surfaced(),
	}
	if result, ok := s.agg.Result(); ok {
		snap.Result = &result
	}
	return snap
}

// ShareText returns the localized text of the finalized result
func (s *Session) ShareText() (string, error) {
	record, err := s.shareRecord()
	if err != nil {
		return "", err
	}
	return record.Text, nil
}

func (s *Session) shareRecord() (*ShareRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.agg.Result()
	if !ok {
		return nil, ErrNoResult
	}
	if s.resultID == "" {
		s.resultID = generateShareID()
	}
	return NewShareRecord(s.resultID, s.game, s.mode, s.localizer, result), nil
}

// Share publishes the finalized result. Sharing the same result twice is not an error.
func (s *Session) Share(ctx context.Context) (*ShareRecord, error) {
	record, err := s.shareRecord()
	if err != nil {
		return nil, err
	}

	err = s.sharer.Share(ctx, record)
	if errors.Is(err, ErrShareDuplicate) {
		err = nil
	}
	s.monitor.RecordShare(err == nil)
	if err != nil {
		s.logger.Error("Failed to share result %s: %v", record.ID, err)
		return nil, err
	}
	return record, nil
}

// ApplyConfig updates reveal delays and the locale fallback. Delays apply from
// the next reset or switch.
func (s *Session) ApplyConfig(cfg *Config) error {
	if cfg == nil || cfg.Reveal == nil {
		return ErrConfigInvalid.WithDetails("missing reveal section")
	}
	if err := cfg.Reveal.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rc := *cfg.Reveal
	s.reveal = &rc
	s.agg.SetFinalizeDelay(rc.FinalizeDelay)
	if cfg.Locale != nil {
		s.selector = NewLocaleSelector(cfg.Locale.Tag())
		s.localizer = s.translator.Localizer(s.selector.ForCountry(s.game.CountryCode))
	}

	s.logger.Info("Applied config: ball=%v, wheel=%v, reel=%v, finalize=%v",
		rc.BallDelay, rc.WheelDelay, rc.ReelDelay, rc.FinalizeDelay)
	return nil
}
