package auth

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // register every browser cookie store
	"github.com/browserutils/kooky/browser/chrome"
	"github.com/browserutils/kooky/browser/firefox"
)

// cookieStore is a cookie database kooky's automatic detection misses.
type cookieStore struct {
	name    string
	pattern string // glob relative to the home directory
	chrome  bool
}

var extraStores = []cookieStore{
	{name: "Zen Browser", pattern: "Library/Application Support/zen/Profiles/*/cookies.sqlite"},
	{name: "Firefox", pattern: "Library/Application Support/Firefox/Profiles/*/cookies.sqlite"},
	{name: "Firefox", pattern: ".mozilla/firefox/*/cookies.sqlite"},
	{name: "Chrome Canary", pattern: "Library/Application Support/Google/Chrome Canary/*/Cookies", chrome: true},
}

// BrowserSource reads LinkedIn cookies from local browser profiles.
type BrowserSource struct {
	logger *slog.Logger
	home   string
}

// NewBrowserSource creates a browser cookie source.
func NewBrowserSource(logger *slog.Logger) *BrowserSource {
	if logger == nil {
		logger = slog.Default()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return &BrowserSource{logger: logger, home: home}
}

// Cookies returns the essential LinkedIn cookies from the first browser profile that has any.
func (s *BrowserSource) Cookies(ctx context.Context) (map[string]string, error) {
	s.logger.DebugContext(ctx, "reading browser cookies", "domain", Domain)

	for _, store := range extraStores {
		if cookies := s.readStore(ctx, store); len(cookies) > 0 {
			return cookies, nil
		}
	}

	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(Domain))
	if err != nil {
		s.logger.DebugContext(ctx, "failed to read browser cookies", "error", err)
		return nil, nil //nolint:nilnil // failed browser read is not a fatal error
	}
	if len(kookies) == 0 {
		return nil, nil //nolint:nilnil // no browser cookies is not an error
	}
	return s.essential(ctx, "auto-detected", kookies), nil
}

func (s *BrowserSource) readStore(ctx context.Context, store cookieStore) map[string]string {
	if s.home == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(s.home, filepath.FromSlash(store.pattern)))
	if err != nil || len(matches) == 0 {
		return nil
	}

	for _, f := range matches {
		var kookies []*kooky.Cookie
		if store.chrome {
			kookies, err = chrome.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(Domain))
		} else {
			kookies, err = firefox.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(Domain))
		}
		profile := filepath.Base(filepath.Dir(f))
		if err != nil {
			if strings.Contains(err.Error(), "decrypt") || strings.Contains(err.Error(), "encryption") {
				s.logger.WarnContext(ctx, "browser cookies exist but cannot be decrypted",
					"browser", store.name,
					"profile", profile,
					"hint", "set LINKEDIN_LI_AT and friends in the environment instead")
			} else {
				s.logger.DebugContext(ctx, "failed to read browser cookies", "browser", store.name, "profile", profile, "error", err)
			}
			continue
		}
		if len(kookies) > 0 {
			s.logger.DebugContext(ctx, "found browser cookies", "browser", store.name, "profile", profile, "count", len(kookies))
			return s.essential(ctx, store.name, kookies)
		}
	}
	return nil
}

func (s *BrowserSource) essential(ctx context.Context, browser string, kookies []*kooky.Cookie) map[string]string {
	all := make(map[string]string, len(kookies))
	for _, c := range kookies {
		all[c.Name] = c.Value
	}
	kept, missing := keepEssential(all)
	if len(kept) > 0 {
		s.logger.InfoContext(ctx, "browser cookies found", "browser", browser, "count", len(kept))
	}
	if len(missing) > 0 {
		s.logger.InfoContext(ctx, "browser cookies missing", "browser", browser, "keys", missing)
	}
	return kept
}

// keepEssential keeps only EssentialCookies and lists the ones not present.
func keepEssential(all map[string]string) (kept map[string]string, missing []string) {
	kept = make(map[string]string)
	for _, name := range EssentialCookies {
		if v, ok := all[name]; ok && v != "" {
			kept[name] = v
		} else {
			missing = append(missing, name)
		}
	}
	return kept, missing
}
