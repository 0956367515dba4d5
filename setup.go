package lottery

import (
	"os"

	"github.com/go-redis/redis/v8"
)

// NewSharerFromConfig wires the share paths. With sharing enabled and a Redis
// client, results go to Redis behind a circuit breaker and fall back to the
// clipboard; otherwise only the clipboard is used.
func NewSharerFromConfig(cfg *Config, client *redis.Client, logger Logger, monitor *PerformanceMonitor) Sharer {
	clipboard := NewClipboardSharer(os.Stdout)
	if cfg == nil || cfg.Share == nil || !cfg.Share.Enabled || client == nil {
		return clipboard
	}

	store := NewRedisShareStoreWithConfig(client, logger, cfg.Share)
	if monitor != nil {
		store.SetMonitor(monitor)
	}

	breaker := NewBreakerSharer(store, cfg.CircuitBreaker, logger)
	if monitor != nil {
		monitor.TrackBreaker(breaker)
	}
	return NewFallbackSharer(breaker, clipboard, logger)
}

// NewSessionFromConfig creates a session using the catalog, locale and reveal
// sections of cfg. Extra options are applied last.
func NewSessionFromConfig(cfg *Config, opts ...SessionOption) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog := DefaultCatalog()
	if cfg.Catalog.File != "" {
		c, err := LoadCatalogFile(cfg.Catalog.File)
		if err != nil {
			return nil, err
		}
		catalog = c
	}
	if cfg.Catalog.DefaultGame != "" {
		c, err := catalog.WithDefault(cfg.Catalog.DefaultGame)
		if err != nil {
			return nil, err
		}
		catalog = c
	}

	mode := ModeLottery
	if cfg.Catalog.DefaultMode != "" {
		m, err := ParseMode(cfg.Catalog.DefaultMode)
		if err != nil {
			return nil, err
		}
		mode = m
	}

	rc := *cfg.Reveal
	base := []SessionOption{
		WithCatalog(catalog),
		WithMode(mode),
		WithRevealConfig(&rc),
		WithLocaleSelector(NewLocaleSelector(cfg.Locale.Tag())),
		WithLogger(NewDefaultLogger(cfg.Log.Level)),
	}
	return NewSession(append(base, opts...)...)
}
