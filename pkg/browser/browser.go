// Package browser drives a headless Chrome as a dom.Page.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/codeGROOVE-dev/resumator/pkg/dom"
	"github.com/codeGROOVE-dev/resumator/pkg/httpcache"
)

// Page is a browser tab.
type Page struct {
	ctx     context.Context //nolint:containedctx // the tab lives as long as the Page
	cancel  context.CancelFunc
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Page.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	execPath  string
	userAgent string
	cookies   []*http.Cookie
	timeout   time.Duration
	headless  bool
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHeadless controls whether Chrome runs without a window. Default true.
func WithHeadless(headless bool) Option {
	return func(c *config) { c.headless = headless }
}

// WithExecPath sets the Chrome binary. Defaults to $CHROME_PATH, then chromedp's search.
func WithExecPath(path string) Option {
	return func(c *config) { c.execPath = path }
}

// WithUserAgent overrides the browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *config) { c.userAgent = ua }
}

// WithCookies installs cookies before the first navigation.
func WithCookies(cookies []*http.Cookie) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithTimeout bounds each browser action. Default 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

func (c *config) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", c.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(c.userAgent),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}
	return opts
}

// New starts Chrome and opens a blank tab. Close releases it.
func New(ctx context.Context, opts ...Option) (*Page, error) {
	cfg := &config{
		logger:    slog.Default(),
		execPath:  os.Getenv("CHROME_PATH"),
		userAgent: httpcache.UserAgent,
		timeout:   30 * time.Second,
		headless:  true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, cfg.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithDebugf(func(format string, args ...any) {
		cfg.logger.Debug(fmt.Sprintf(format, args...))
	}))
	p := &Page{
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
		logger:  cfg.logger,
		timeout: cfg.timeout,
	}

	// The first Run starts the browser and binds its lifetime to the context it is given.
	if err := chromedp.Run(tabCtx); err != nil {
		p.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	setup := []chromedp.Action{network.Enable()}
	if len(cfg.cookies) > 0 {
		setup = append(setup, chromedp.ActionFunc(func(ctx context.Context) error {
			for _, c := range cfg.cookies {
				err := network.SetCookie(c.Name, c.Value).
					WithDomain(c.Domain).
					WithPath(c.Path).
					WithSecure(true).
					WithHTTPOnly(true).
					Do(ctx)
				if err != nil {
					return fmt.Errorf("set cookie %s: %w", c.Name, err)
				}
			}
			return nil
		}))
	}
	setup = append(setup, chromedp.Navigate("about:blank"))

	if err := p.run(ctx, setup...); err != nil {
		p.Close()
		return nil, fmt.Errorf("prepare browser: %w", err)
	}
	cfg.logger.InfoContext(ctx, "browser started", "headless", cfg.headless, "cookies", len(cfg.cookies))
	return p, nil
}

// Close shuts the tab and the browser.
func (p *Page) Close() {
	p.cancel()
}

// run executes actions on the tab, bounded by the page timeout and by ctx.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// URL implements dom.Page.
func (p *Page) URL(ctx context.Context) (string, error) {
	var u string
	if err := p.run(ctx, chromedp.Location(&u)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return u, nil
}

// Snapshot implements dom.Page by serializing the live DOM.
func (p *Page) Snapshot(ctx context.Context) (*goquery.Document, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("read DOM: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse DOM: %w", err)
	}
	return doc, nil
}

// clickScript clicks the first match of a selector and reports whether one existed.
// A script click does not wait for the element to become visible.
func clickScript(selector string) (string, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(() => { const el = document.querySelector(%s); if (!el) return false; el.click(); return true; })()`, quoted), nil
}

// Click implements dom.Page.
func (p *Page) Click(ctx context.Context, selector string) error {
	script, err := clickScript(selector)
	if err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	var ok bool
	if err := p.run(ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", dom.ErrNoElement, selector)
	}
	p.logger.DebugContext(ctx, "clicked", "selector", selector)
	return nil
}

// Navigate implements dom.Page. It returns once the page has loaded.
func (p *Page) Navigate(ctx context.Context, url string) error {
	p.logger.InfoContext(ctx, "navigating", "url", url)
	if err := p.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

var _ dom.Page = (*Page)(nil)
