package linkedin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/codeGROOVE-dev/resumator/pkg/auth"
	"github.com/codeGROOVE-dev/resumator/pkg/httpcache"
	"github.com/codeGROOVE-dev/resumator/pkg/profile"
	"github.com/google/go-cmp/cmp"
)

func init() {
	httpcache.SetDefaultDelay(0)
}

// rewriteTransport sends every request to target, keeping the path.
type rewriteTransport struct {
	target *url.URL
	base   http.RoundTripper
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	return rt.base.RoundTrip(r)
}

func newFetchServer(t *testing.T, handler http.HandlerFunc) *http.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}
	return &http.Client{Transport: rewriteTransport{target: target, base: srv.Client().Transport}}
}

func clearCookieEnv(t *testing.T) {
	t.Helper()
	for _, v := range auth.EnvVars() {
		t.Setenv(v, "")
	}
}

func TestClientFetch(t *testing.T) {
	clearCookieEnv(t)
	fixture, err := os.ReadFile(filepath.Join("testdata", "johndoe.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	var gotCookie, gotPath string
	hc := newFetchServer(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("li_at"); err == nil {
			gotCookie = c.Value
		}
		gotPath = r.URL.Path
		w.Write(fixture) //nolint:errcheck // test server
	})

	ctx := context.Background()
	c, err := NewClient(ctx,
		WithCookies(map[string]string{"li_at": "session-token"}),
		WithHTTPClient(hc),
		WithClientLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	page, err := c.Fetch(ctx, "johndoe")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotCookie != "session-token" {
		t.Errorf("li_at cookie sent = %q, want %q", gotCookie, "session-token")
	}
	if gotPath != "/in/johndoe" {
		t.Errorf("path = %q, want /in/johndoe", gotPath)
	}

	rec := newTestExtractor().Scrape(ctx, page)
	if rec.URL != "https://www.linkedin.com/in/johndoe" {
		t.Errorf("URL = %q", rec.URL)
	}
	if rec.FullName != "John Doe" {
		t.Errorf("FullName = %q, want John Doe", rec.FullName)
	}
	if diff := cmp.Diff([]string{"JavaScript", "React"}, rec.Skills); diff != "" {
		t.Errorf("Skills mismatch (-want +got):\n%s", diff)
	}
}

func TestClientFetchErrors(t *testing.T) {
	clearCookieEnv(t)
	hc := newFetchServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/in/gone":
			w.Write([]byte(`<html><head><title>Page Not Found | LinkedIn</title></head><body></body></html>`)) //nolint:errcheck // test server
		case "/in/removed":
			w.Write([]byte(`<html><head><title>LinkedIn</title></head><body><main><h1>This profile is not available</h1></main></body></html>`)) //nolint:errcheck // test server
		case "/in/qa-lead":
			w.Write([]byte(`<html><head><title>Jane Roe | LinkedIn</title></head><body><main>` + //nolint:errcheck // test server
				`<h1 class="inline t-24 v-align-middle break-words">Jane Roe</h1>` +
				`<section><div id="about"></div><div class="display-flex ph5 pv3"><span aria-hidden="true">I triage every "page not found" report.</span></div></section>` +
				`</main></body></html>`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	})

	ctx := context.Background()
	c, err := NewClient(ctx,
		WithCookies(map[string]string{"li_at": "x"}),
		WithHTTPClient(hc),
		WithClientLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"not_profile", "https://www.linkedin.com/company/acme", profile.ErrNotProfileURL},
		{"not_found", "https://www.linkedin.com/in/gone", profile.ErrProfileNotFound},
		{"not_found_heading", "https://www.linkedin.com/in/removed", profile.ErrProfileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Fetch(ctx, tt.url); !errors.Is(err, tt.wantErr) {
				t.Errorf("Fetch(%q) error = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}

	t.Run("phrase_in_profile_text", func(t *testing.T) {
		page, err := c.Fetch(ctx, "https://www.linkedin.com/in/qa-lead")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if rec := newTestExtractor().Scrape(ctx, page); rec.FullName != "Jane Roe" {
			t.Errorf("FullName = %q, want Jane Roe", rec.FullName)
		}
	})

	t.Run("http_error", func(t *testing.T) {
		_, err := c.Fetch(ctx, "https://www.linkedin.com/in/private")
		var httpErr *httpcache.HTTPError
		if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusForbidden {
			t.Errorf("Fetch() error = %v, want HTTP 403", err)
		}
	})
}

func TestNewClientNoCookies(t *testing.T) {
	clearCookieEnv(t)
	_, err := NewClient(context.Background(), WithClientLogger(slog.New(slog.DiscardHandler)))
	if !errors.Is(err, profile.ErrNoCookies) {
		t.Errorf("NewClient() error = %v, want ErrNoCookies", err)
	}
}

func TestCookiesPrecedence(t *testing.T) {
	t.Setenv("LINKEDIN_LI_AT", "from-env")
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	got, err := Cookies(ctx, logger, map[string]string{"li_at": "explicit"}, false)
	if err != nil {
		t.Fatalf("Cookies() error = %v", err)
	}
	if got["li_at"] != "explicit" {
		t.Errorf("li_at = %q, want explicit value to win", got["li_at"])
	}

	got, err = Cookies(ctx, logger, nil, false)
	if err != nil {
		t.Fatalf("Cookies() error = %v", err)
	}
	if got["li_at"] != "from-env" {
		t.Errorf("li_at = %q, want env value", got["li_at"])
	}
}

func TestIsProfilePage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"profile", `<title>John Doe | LinkedIn</title><section class="pv-top-card">`, true},
		{"shell", `<title>LinkedIn</title><div id="app"></div>`, false},
		{"shell_with_data", `<title>LinkedIn</title><div id="experience"></div>`, true},
		{"authwall", `<title>Sign Up | LinkedIn</title><form class="authwall-join-form">`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProfilePage([]byte(tt.body)); got != tt.want {
				t.Errorf("IsProfilePage() = %v, want %v", got, tt.want)
			}
		})
	}
}
