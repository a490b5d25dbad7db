// Package auth finds the LinkedIn session cookies needed to see full profiles.
package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
)

// Domain is the cookie domain for LinkedIn sessions.
const Domain = "linkedin.com"

// EssentialCookies are the cookies a logged-in LinkedIn session needs.
var EssentialCookies = []string{"li_at", "JSESSIONID", "lidc", "bcookie"}

// Source is a source of session cookies.
type Source interface {
	// Cookies returns cookie values by name, or nil if the source has none.
	Cookies(ctx context.Context) (map[string]string, error)
}

// ChainSources returns cookies from the first source that provides them.
func ChainSources(ctx context.Context, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

// HTTPCookies converts cookie values into cookies scoped to domain, sorted by name.
func HTTPCookies(domain string, cookies map[string]string) []*http.Cookie {
	names := make([]string, 0, len(cookies))
	for name, value := range cookies {
		if value != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	out := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		out = append(out, &http.Cookie{
			Name:   name,
			Value:  cookies[name],
			Domain: "." + domain,
			Path:   "/",
		})
	}
	return out
}

// NewCookieJar creates a cookie jar holding cookies for domain.
func NewCookieJar(domain string, cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse("https://" + domain)
	if err != nil {
		return nil, err
	}
	jar.SetCookies(u, HTTPCookies(domain, cookies))
	return jar, nil
}
