// Package linkedin extracts a structured profile record from a rendered LinkedIn profile page.
//
// The extractor reads whatever the page shows. Missing sections, missing fields
// and timeouts while waiting for lazy content all produce empty values, never
// errors, so the returned record is always well formed.
package linkedin

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/resumator/pkg/dom"
	"github.com/codeGROOVE-dev/resumator/pkg/htmlutil"
	"github.com/codeGROOVE-dev/resumator/pkg/profile"
	"golang.org/x/net/html"
)

const (
	// DefaultWaitTimeout bounds each wait for lazily loaded skills.
	DefaultWaitTimeout = 2 * time.Second

	// DefaultMaxPages caps how many times "load more" is clicked.
	DefaultMaxPages = 100
)

// Match returns true if the URL is a LinkedIn profile URL.
func Match(urlStr string) bool { return profile.Match(urlStr) }

// EntryFilter reports whether a complete experience entry is boilerplate that
// should be dropped.
type EntryFilter func(e profile.Experience) bool

// Extractor turns a dom.Page into a profile.Record.
type Extractor struct {
	logger       *slog.Logger
	boilerplate  EntryFilter
	sel          Selectors
	noise        []*regexp.Regexp
	waitTimeout  time.Duration
	pollInterval time.Duration
	maxPages     int
}

// Option configures an Extractor.
type Option func(*config)

type config struct {
	logger       *slog.Logger
	boilerplate  EntryFilter
	sel          *Selectors
	noise        []*regexp.Regexp
	waitTimeout  time.Duration
	pollInterval time.Duration
	maxPages     int
	noiseSet     bool
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithSelectors replaces the default selector set.
func WithSelectors(sel Selectors) Option {
	return func(c *config) { c.sel = &sel }
}

// WithNoisePatterns replaces the patterns used to drop non-skill text from the
// skills list. Passing no patterns disables noise filtering.
func WithNoisePatterns(patterns ...*regexp.Regexp) Option {
	return func(c *config) {
		c.noise = patterns
		c.noiseSet = true
	}
}

// WithEntryFilter replaces the referral boilerplate predicate applied to
// experience entries. Entries missing a title or company are always dropped.
func WithEntryFilter(f EntryFilter) Option {
	return func(c *config) { c.boilerplate = f }
}

// WithWaitTimeout sets how long each skills wait may take.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *config) { c.waitTimeout = d }
}

// WithPollInterval sets how often waits re-check the page.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) { c.pollInterval = d }
}

// WithMaxPages caps the number of "load more" clicks.
func WithMaxPages(n int) Option {
	return func(c *config) { c.maxPages = n }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	cfg := &config{
		logger:       slog.Default(),
		boilerplate:  IsReferral,
		waitTimeout:  DefaultWaitTimeout,
		pollInterval: dom.DefaultPollInterval,
		maxPages:     DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	sel := DefaultSelectors()
	if cfg.sel != nil {
		sel = *cfg.sel
	}
	noise := DefaultNoisePatterns()
	if cfg.noiseSet {
		noise = cfg.noise
	}
	if cfg.boilerplate == nil {
		cfg.boilerplate = func(profile.Experience) bool { return false }
	}

	return &Extractor{
		logger:       cfg.logger,
		boilerplate:  cfg.boilerplate,
		sel:          sel,
		noise:        noise,
		waitTimeout:  cfg.waitTimeout,
		pollInterval: cfg.pollInterval,
		maxPages:     cfg.maxPages,
	}
}

// topCard holds the scalar fields read from the profile header and About section.
type topCard struct {
	fullName string
	headline string
	location string
	about    string
}

// Scrape reads the profile shown by page.
//
// Scalars, experience and education are read from one snapshot before skills
// expansion starts clicking. The record is assembled only after skills are
// done, so no partially built record is ever visible. If ctx is cancelled the
// remaining waits end early and Scrape returns what it has.
func (e *Extractor) Scrape(ctx context.Context, page dom.Page) *profile.Record {
	rawURL, err := page.URL(ctx)
	if err != nil {
		e.logger.DebugContext(ctx, "page url unavailable", "error", err)
	}
	pageURL := profile.CanonicalURL(rawURL)
	e.logger.InfoContext(ctx, "scraping linkedin profile", "url", pageURL)

	doc := e.snapshot(ctx, page)
	top := e.topCard(doc)
	exp := e.experience(doc)
	edu := e.education(doc)

	sk := e.ExpandSkills(ctx, page)

	rec := compose(pageURL, top, exp, edu, sk.Skills)
	e.logger.InfoContext(ctx, "linkedin profile scraped",
		"url", rec.URL,
		"experience", len(rec.Experience),
		"education", len(rec.Education),
		"skills", len(rec.Skills),
		"load_more_clicks", sk.LoadMoreClicks)
	return rec
}

// ScrapeAsync runs Scrape in a goroutine. The channel receives exactly one
// record once skills are ready, then closes.
func (e *Extractor) ScrapeAsync(ctx context.Context, page dom.Page) <-chan *profile.Record {
	ch := make(chan *profile.Record, 1)
	go func() {
		defer close(ch)
		ch <- e.Scrape(ctx, page)
	}()
	return ch
}

func compose(pageURL string, top topCard, exp []profile.Experience, edu []profile.Education, skills []string) *profile.Record {
	rec := &profile.Record{
		URL:        pageURL,
		FullName:   top.fullName,
		Headline:   top.headline,
		Location:   top.location,
		About:      top.about,
		Experience: exp,
		Education:  edu,
		Skills:     skills,
	}
	rec.Normalize()
	return rec
}

func (e *Extractor) topCard(doc *goquery.Document) topCard {
	root := doc.Selection
	return topCard{
		fullName: htmlutil.Text(root, e.sel.FullName),
		headline: htmlutil.Text(root, e.sel.Headline),
		location: htmlutil.Text(root, e.sel.Location),
		about:    e.about(doc),
	}
}

// snapshot returns the current document, or an empty one if the page cannot
// provide it. A failed snapshot reads as a page with nothing on it.
func (e *Extractor) snapshot(ctx context.Context, page dom.Page) *goquery.Document {
	doc, err := page.Snapshot(ctx)
	if err != nil || doc == nil {
		e.logger.DebugContext(ctx, "page snapshot failed", "error", err)
		return emptyDocument()
	}
	return doc
}

func emptyDocument() *goquery.Document {
	return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
}
