package linkedin

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/resumator/pkg/dom"
	"github.com/codeGROOVE-dev/resumator/pkg/htmlutil"
)

// SkillsState is one step of skills expansion.
type SkillsState int

// Skills expansion states, in the order they are normally visited.
const (
	Collapsed SkillsState = iota
	Expanding
	Paginating
	Done
)

func (s SkillsState) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case Paginating:
		return "paginating"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// SkillsResult describes one run of skills expansion.
type SkillsResult struct {
	Skills         []string
	Trace          []SkillsState // states entered, in order
	LoadMoreClicks int
	Expanded       bool // the "show all" trigger was clicked
}

// ExpandSkills reveals the full skills list and reads it.
//
// Collapsed looks for the "show all" trigger; without one the section's
// existing items are read as is. Expanding clicks it and waits for skill items.
// Paginating clicks "load more" until it disappears, the page ceiling is hit or
// ctx is done, waiting after each click for new items. Done reads every item.
// Each wait ends at the configured timeout and then proceeds with what is present.
func (e *Extractor) ExpandSkills(ctx context.Context, page dom.Page) SkillsResult {
	var res SkillsResult
	state := Collapsed

	for {
		res.Trace = append(res.Trace, state)
		e.logger.DebugContext(ctx, "skills expansion", "state", state.String())

		switch state {
		case Collapsed:
			doc := e.snapshot(ctx, page)
			if doc.Find(e.sel.ShowAllSkills).Length() == 0 {
				state = Done
				continue
			}
			state = Expanding

		case Expanding:
			if err := page.Click(ctx, e.sel.ShowAllSkills); err != nil {
				e.logger.DebugContext(ctx, "show all skills click failed", "error", err)
				state = Done
				continue
			}
			res.Expanded = true
			if !dom.WaitFor(ctx, page, e.sel.SkillReady, e.waitTimeout, e.pollInterval) {
				e.logger.DebugContext(ctx, "skills did not appear before timeout", "timeout", e.waitTimeout)
			}
			state = Paginating

		case Paginating:
			state = e.paginate(ctx, page, &res)

		case Done:
			res.Skills = e.readSkills(e.snapshot(ctx, page), res.Expanded)
			return res
		}
	}
}

// paginate performs one "load more" step and returns the next state.
func (e *Extractor) paginate(ctx context.Context, page dom.Page, res *SkillsResult) SkillsState {
	if ctx.Err() != nil {
		return Done
	}
	doc := e.snapshot(ctx, page)
	if doc.Find(e.sel.LoadMore).Length() == 0 {
		return Done
	}
	if res.LoadMoreClicks >= e.maxPages {
		e.logger.WarnContext(ctx, "skills pagination ceiling reached", "pages", res.LoadMoreClicks)
		return Done
	}

	before := doc.Find(e.sel.SkillItem).Length()
	if err := page.Click(ctx, e.sel.LoadMore); err != nil {
		e.logger.DebugContext(ctx, "load more click failed", "error", err)
		return Done
	}
	res.LoadMoreClicks++

	grew := dom.Until(ctx, e.waitTimeout, e.pollInterval, func(ctx context.Context) bool {
		d, err := page.Snapshot(ctx)
		return err == nil && d.Find(e.sel.SkillItem).Length() > before
	})
	if !grew {
		e.logger.DebugContext(ctx, "no new skills after load more", "clicks", res.LoadMoreClicks)
	}
	return Paginating
}

// readSkills collects skill names from the expanded list, or from the skills
// section itself when the list was never expanded or came up empty.
func (e *Extractor) readSkills(doc *goquery.Document, expanded bool) []string {
	var items []*goquery.Selection
	if expanded {
		doc.Find(e.sel.SkillItem).Each(func(_ int, li *goquery.Selection) {
			items = append(items, li)
		})
	}
	if len(items) == 0 {
		items = e.topLevelItems(e.Locate(doc, SectionSkills))
	}

	names := make([]string, 0, len(items))
	for _, li := range items {
		name := htmlutil.Text(li, e.sel.SkillName)
		if name == "" {
			name = htmlutil.Text(li, e.sel.SkillNameAlt)
		}
		names = append(names, name)
	}
	return e.dedupe(names)
}
