package linkedin

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/resumator/pkg/auth"
	"github.com/codeGROOVE-dev/resumator/pkg/dom"
	"github.com/codeGROOVE-dev/resumator/pkg/htmlutil"
	"github.com/codeGROOVE-dev/resumator/pkg/httpcache"
	"github.com/codeGROOVE-dev/resumator/pkg/profile"
)

// Client fetches server-rendered profile pages over HTTP with session cookies.
// The result is a static page: no "show all" or "load more" content is loaded,
// so skills come from whatever the page already contains.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	cookies        map[string]string
	cache          httpcache.Cacher
	logger         *slog.Logger
	baseClient     *http.Client
	browserCookies bool
}

// WithCookies sets explicit cookie values.
func WithCookies(cookies map[string]string) ClientOption {
	return func(c *clientConfig) { c.cookies = cookies }
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(cache httpcache.Cacher) ClientOption {
	return func(c *clientConfig) { c.cache = cache }
}

// WithBrowserCookies enables reading cookies from browser stores.
func WithBrowserCookies() ClientOption {
	return func(c *clientConfig) { c.browserCookies = true }
}

// WithClientLogger sets a custom logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) { c.logger = logger }
}

// WithHTTPClient sets the underlying client. Its Jar is replaced.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) { c.baseClient = hc }
}

// NewClient creates a Client.
// Cookie sources are checked in order: WithCookies > environment > browser.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	cookies, err := Cookies(ctx, cfg.logger, cfg.cookies, cfg.browserCookies)
	if err != nil {
		return nil, err
	}

	jar, err := auth.NewCookieJar(auth.Domain, cookies)
	if err != nil {
		return nil, fmt.Errorf("cookie jar creation failed: %w", err)
	}

	hc := &http.Client{Timeout: 5 * time.Second}
	if cfg.baseClient != nil {
		copied := *cfg.baseClient
		hc = &copied
	}
	hc.Jar = jar
	// A redirect from a profile URL is the authwall or a login page.
	hc.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
		if len(via) >= 1 {
			return http.ErrUseLastResponse
		}
		return nil
	}

	cfg.logger.InfoContext(ctx, "linkedin client created", "cookie_count", len(cookies))
	return &Client{httpClient: hc, cache: cfg.cache, logger: cfg.logger}, nil
}

// Cookies resolves session cookies from explicit values, the environment and,
// if enabled, local browsers. It fails with profile.ErrNoCookies when none are found.
func Cookies(ctx context.Context, logger *slog.Logger, explicit map[string]string, browser bool) (map[string]string, error) {
	var sources []auth.Source
	if len(explicit) > 0 {
		sources = append(sources, auth.NewStaticSource(explicit))
	}
	sources = append(sources, auth.EnvSource{})
	if browser {
		sources = append(sources, auth.NewBrowserSource(logger))
	}

	cookies, err := auth.ChainSources(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("cookie retrieval failed: %w", err)
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("%w: set %v or enable browser cookies", profile.ErrNoCookies, auth.EnvVars())
	}
	return cookies, nil
}

// Fetch downloads a profile page and wraps it as a dom.Page.
func (c *Client) Fetch(ctx context.Context, urlStr string) (*dom.StaticPage, error) {
	if !strings.HasPrefix(urlStr, "http") {
		urlStr = "https://www.linkedin.com/in/" + urlStr
	}
	if !Match(urlStr) {
		return nil, fmt.Errorf("%w: %s", profile.ErrNotProfileURL, urlStr)
	}
	urlStr = profile.CanonicalURL(urlStr)

	c.logger.InfoContext(ctx, "fetching linkedin profile", "url", urlStr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	setHeaders(req)

	body, err := httpcache.FetchURLWithValidator(ctx, c.cache, c.httpClient, req, c.logger, IsProfilePage)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	page, err := dom.NewStaticPageFromHTML(string(body), urlStr)
	if err != nil {
		return nil, err
	}
	doc, err := page.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	// Only the title and the top-card heading are checked; profile text may quote anything.
	if htmlutil.IsNotFound(htmlutil.Title(doc)) || htmlutil.IsNotFound(htmlutil.Text(doc.Selection, "h1")) {
		return nil, fmt.Errorf("%w: %s", profile.ErrProfileNotFound, urlStr)
	}
	return page, nil
}

func setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Sec-GPC", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
}

// IsProfilePage reports whether body is worth caching. The logged-out
// "authwall" and the bare application shell carry no profile content.
func IsProfilePage(body []byte) bool {
	if bytes.Contains(body, []byte("authwall")) {
		return false
	}
	hasGenericTitle := bytes.Contains(body, []byte("<title>LinkedIn</title>"))
	hasProfileData := bytes.Contains(body, []byte("pv-top-card")) ||
		bytes.Contains(body, []byte(`id="experience"`)) ||
		bytes.Contains(body, []byte(`"publicIdentifier"`))
	return hasProfileData || !hasGenericTitle
}
