// Package resumator runs one profile capture from start to finish.
//
// Basic usage:
//
//	st, _ := store.Open(store.DefaultDir())
//	defer st.Close()
//	rec, err := resumator.Run(ctx, page, resumator.WithStore(st))
//
// Run drops a stale record left over from a different profile, scrapes the
// page, saves the result, announces it on the configured publisher, and
// returns the page to the profile if skills expansion navigated away.
package resumator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codeGROOVE-dev/resumator/pkg/dom"
	"github.com/codeGROOVE-dev/resumator/pkg/linkedin"
	"github.com/codeGROOVE-dev/resumator/pkg/profile"
	"github.com/codeGROOVE-dev/resumator/pkg/relay"
	"github.com/codeGROOVE-dev/resumator/pkg/store"
)

// Option configures Run.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	store     *store.Store
	publisher relay.Publisher
	extractor *linkedin.Extractor
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithStore persists the record. Without a store nothing is saved or invalidated.
func WithStore(s *store.Store) Option {
	return func(c *config) { c.store = s }
}

// WithPublisher receives the SAVE_PROFILE message. Defaults to relay.Discard.
func WithPublisher(p relay.Publisher) Option {
	return func(c *config) { c.publisher = p }
}

// WithExtractor overrides the extractor. Defaults to linkedin.New with the run's logger.
func WithExtractor(e *linkedin.Extractor) Option {
	return func(c *config) { c.extractor = e }
}

// Run captures the profile shown by page.
//
// The returned record is non-nil even if saving or publishing it failed. The
// page is returned to the profile whatever the outcome.
func Run(ctx context.Context, page dom.Page, opts ...Option) (*profile.Record, error) {
	cfg := &config{logger: slog.Default(), publisher: relay.Discard{}}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.extractor == nil {
		cfg.extractor = linkedin.New(linkedin.WithLogger(cfg.logger))
	}

	startURL, err := page.URL(ctx)
	if err != nil {
		cfg.logger.DebugContext(ctx, "page url unavailable", "error", err)
	}

	defer returnToProfile(ctx, cfg.logger, page, startURL)

	if cfg.store != nil {
		if _, err := cfg.store.Invalidate(ctx, startURL); err != nil {
			cfg.logger.WarnContext(ctx, "stale record cleanup failed", "url", startURL, "error", err)
		}
	}

	rec := cfg.extractor.Scrape(ctx, page)

	if cfg.store != nil {
		if err := cfg.store.Save(ctx, rec); err != nil {
			return rec, err
		}
	}
	if err := cfg.publisher.Publish(ctx, relay.SaveProfile(rec)); err != nil {
		return rec, fmt.Errorf("publish record: %w", err)
	}

	return rec, nil
}

// returnToProfile navigates back to startURL if the page has moved, which
// happens when skills were read from the details subpage.
func returnToProfile(ctx context.Context, logger *slog.Logger, page dom.Page, startURL string) {
	if startURL == "" {
		return
	}
	current, err := page.URL(ctx)
	if err != nil || profile.CanonicalURL(current) == profile.CanonicalURL(startURL) {
		return
	}
	if err := page.Navigate(ctx, startURL); err != nil {
		logger.WarnContext(ctx, "navigating back to profile failed", "url", startURL, "error", err)
	}
}

// Discard removes the saved record for url. An empty url discards the latest
// record. Discarding when nothing is saved is not an error.
func Discard(ctx context.Context, st *store.Store, url string) error {
	if url == "" {
		latest, err := st.Latest(ctx)
		if errors.Is(err, profile.ErrNoRecord) {
			return nil
		}
		if err != nil {
			return err
		}
		url = latest.URL
	}
	return st.Remove(ctx, url)
}
