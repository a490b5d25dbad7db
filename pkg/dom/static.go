package dom

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ClickFunc mutates the document in response to a click.
type ClickFunc func(doc *goquery.Document)

type handler struct {
	fn       ClickFunc
	selector string
}

// StaticPage is an in-memory Page over a goquery document.
//
// Clicks run handlers registered with OnClick, which is how tests and offline
// fixtures simulate "show all" and "load more" affordances revealing content.
// A click on an element with no handler is recorded and otherwise does nothing.
type StaticPage struct {
	doc      *goquery.Document
	clicks   map[string]int
	url      string
	visited  []string
	handlers []handler
	mu       sync.Mutex
}

// NewStaticPage wraps an already parsed document.
func NewStaticPage(doc *goquery.Document, url string) *StaticPage {
	return &StaticPage{doc: doc, url: url, clicks: make(map[string]int)}
}

// NewStaticPageFromHTML parses html into a StaticPage located at url.
func NewStaticPageFromHTML(html, url string) (*StaticPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return NewStaticPage(doc, url), nil
}

// OnClick registers fn to run whenever a clicked element matches selector.
func (p *StaticPage) OnClick(selector string, fn ClickFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler{selector: selector, fn: fn})
}

// Clicks returns how many clicks landed on elements matching selector, counting
// both the selector passed to Click and the selectors registered with OnClick.
func (p *StaticPage) Clicks(selector string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clicks[selector]
}

// Visited returns the URLs passed to Navigate, in order.
func (p *StaticPage) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

// URL implements Page.
func (p *StaticPage) URL(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, nil
}

// Snapshot implements Page. The returned document is the live tree.
func (p *StaticPage) Snapshot(context.Context) (*goquery.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc, nil
}

// Click implements Page.
func (p *StaticPage) Click(_ context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	el := p.doc.Find(selector).First()
	if el.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrNoElement, selector)
	}
	p.clicks[selector]++

	// Collect first so handlers that remove the element still all fire.
	var fire []handler
	for _, h := range p.handlers {
		if el.Is(h.selector) {
			fire = append(fire, h)
		}
	}
	for _, h := range fire {
		if h.selector != selector {
			p.clicks[h.selector]++
		}
		h.fn(p.doc)
	}
	return nil
}

// Navigate implements Page. The document is left unchanged.
func (p *StaticPage) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	p.visited = append(p.visited, url)
	return nil
}

var _ Page = (*StaticPage)(nil)
