// Package store persists scraped profile records on local disk.
//
// Records are kept per canonical profile URL, plus one "latest" slot that
// always names the most recently saved record. The latest slot is what a
// review step shows and what stale-navigation cleanup removes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/resumator/pkg/profile"
	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

const (
	latestKey    = "profileData"
	recordPrefix = "record:"
)

// Store is a disk-backed key-value store of profile records.
type Store struct {
	cache  *sfcache.TieredCache[string, []byte]
	logger *slog.Logger
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*config)

type config struct {
	logger *slog.Logger
	ttl    time.Duration
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTTL expires records after d. Zero keeps them forever.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// DefaultDir returns the default store location under the user cache directory.
func DefaultDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "resumator", "records")
}

// Open opens or creates a store at dir.
func Open(dir string, opts ...Option) (*Store, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	persist, err := localfs.New[string, []byte]("resumator-records", dir)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}
	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(cfg.ttl))
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return &Store{cache: tc, logger: cfg.logger, ttl: cfg.ttl}, nil
}

// NewMemory creates a store that keeps records in memory only.
func NewMemory(opts ...Option) *Store {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		panic("sfcache.NewTiered with null store: " + err.Error())
	}
	return &Store{cache: tc, logger: cfg.logger, ttl: cfg.ttl}
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	return s.cache.Close()
}

func recordKey(url string) string {
	return recordPrefix + profile.CanonicalURL(url)
}

// Save stores rec under its URL and makes it the latest record.
func (s *Store) Save(ctx context.Context, rec *profile.Record) error {
	if rec == nil {
		return errors.New("nil record")
	}
	cp := *rec
	cp.Normalize()
	data, err := json.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if err := s.cache.Set(ctx, recordKey(cp.URL), data, s.ttl); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	if err := s.cache.Set(ctx, latestKey, data, s.ttl); err != nil {
		return fmt.Errorf("save latest record: %w", err)
	}
	s.logger.DebugContext(ctx, "record saved", "url", cp.URL, "bytes", len(data))
	return nil
}

// Load returns the record saved for url.
func (s *Store) Load(ctx context.Context, url string) (*profile.Record, error) {
	return s.get(ctx, recordKey(url))
}

// Latest returns the most recently saved record.
func (s *Store) Latest(ctx context.Context) (*profile.Record, error) {
	return s.get(ctx, latestKey)
}

func (s *Store) get(ctx context.Context, key string) (*profile.Record, error) {
	data, found, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !found || len(data) == 0 {
		return nil, profile.ErrNoRecord
	}
	var rec profile.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	rec.Normalize()
	return &rec, nil
}

// Remove deletes the record for url. If it is also the latest record, the
// latest slot is cleared too.
func (s *Store) Remove(ctx context.Context, url string) error {
	if latest, err := s.Latest(ctx); err == nil && latest.URL == profile.CanonicalURL(url) {
		if err := s.cache.Delete(ctx, latestKey); err != nil {
			return fmt.Errorf("remove latest record: %w", err)
		}
	}
	if err := s.cache.Delete(ctx, recordKey(url)); err != nil {
		return fmt.Errorf("remove record: %w", err)
	}
	s.logger.DebugContext(ctx, "record removed", "url", url)
	return nil
}

// Invalidate drops the latest record when the browser has moved on to a
// different profile. currentURL is the page now showing. It reports whether
// anything was removed. Pages that are not profiles, and subpages of the
// stored profile such as its skills details, leave the record in place.
func (s *Store) Invalidate(ctx context.Context, currentURL string) (bool, error) {
	if !profile.Match(currentURL) {
		return false, nil
	}
	latest, err := s.Latest(ctx)
	if errors.Is(err, profile.ErrNoRecord) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if sameProfile(currentURL, latest.URL) {
		return false, nil
	}
	if err := s.cache.Delete(ctx, latestKey); err != nil {
		return false, fmt.Errorf("remove latest record: %w", err)
	}
	s.logger.InfoContext(ctx, "stale profile record removed", "stored", latest.URL, "current", currentURL)
	return true, nil
}

// sameProfile reports whether current is stored or a page beneath it.
func sameProfile(current, stored string) bool {
	stored = strings.TrimSuffix(stored, "/")
	if stored == "" {
		return false
	}
	rest, ok := strings.CutPrefix(current, stored)
	return ok && (rest == "" || strings.ContainsRune("/?#", rune(rest[0])))
}
