package linkedin

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/resumator/pkg/htmlutil"
	"github.com/codeGROOVE-dev/resumator/pkg/profile"
)

// education emits one entry per top-level item, even when every field is empty.
func (e *Extractor) education(doc *goquery.Document) []profile.Education {
	out := []profile.Education{}
	for _, li := range e.topLevelItems(e.Locate(doc, SectionEducation)) {
		out = append(out, profile.Education{
			School:      htmlutil.Text(li, e.sel.School),
			Degree:      htmlutil.Text(li, e.sel.Degree),
			DateRange:   htmlutil.Text(li, e.sel.DateRange),
			Description: htmlutil.Own(li.Find(e.sel.SubComponents).First()),
		})
	}
	return out
}
