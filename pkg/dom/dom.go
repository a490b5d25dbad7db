// Package dom abstracts the live page a profile is read from.
//
// Extraction code only needs four capabilities from a page: a snapshot of the
// current tree to query, a way to click an element, navigation, and the current
// URL. A headless browser (see pkg/browser) and an in-memory goquery document
// (StaticPage) both satisfy it, so the extraction logic can be exercised without
// a rendering engine.
package dom

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoElement is returned by Click when nothing matches the selector.
var ErrNoElement = errors.New("no element matches selector")

// Page is a DOM query provider.
type Page interface {
	// URL returns the page's current location.
	URL(ctx context.Context) (string, error)

	// Snapshot returns the current document tree. Callers must treat it as read-only.
	Snapshot(ctx context.Context) (*goquery.Document, error)

	// Click activates the first element matching selector.
	Click(ctx context.Context, selector string) error

	// Navigate loads url in the page.
	Navigate(ctx context.Context, url string) error
}

// DefaultPollInterval is how often WaitFor re-checks the page.
const DefaultPollInterval = 100 * time.Millisecond

// Until polls cond until it returns true, timeout elapses, or ctx is done.
// It reports whether cond was satisfied. It never returns an error: running out
// of time simply means "proceed with whatever is present".
func Until(ctx context.Context, timeout, interval time.Duration, cond func(context.Context) bool) bool {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if cond(ctx) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// WaitFor waits until at least one element matches selector, up to timeout.
func WaitFor(ctx context.Context, p Page, selector string, timeout, interval time.Duration) bool {
	return Until(ctx, timeout, interval, func(ctx context.Context) bool {
		doc, err := p.Snapshot(ctx)
		if err != nil {
			return false
		}
		return doc.Find(selector).Length() > 0
	})
}
