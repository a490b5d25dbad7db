package linkedin

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/resumator/pkg/htmlutil"
	"github.com/codeGROOVE-dev/resumator/pkg/profile"
)

var referralPattern = regexp.MustCompile(`(?i)helped me.*job`)

// IsReferral reports whether an entry is the "X helped me get this job" note
// LinkedIn renders inside the experience list.
func IsReferral(e profile.Experience) bool {
	return referralPattern.MatchString(e.Title + " " + e.Company + " " + e.Date)
}

func (e *Extractor) experience(doc *goquery.Document) []profile.Experience {
	out := []profile.Experience{}
	for _, li := range e.topLevelItems(e.Locate(doc, SectionExperience)) {
		out = append(out, e.experienceItem(li)...)
	}
	return out
}

// experienceItem handles both layouts. A single role has title, employer and
// date on the item itself. Several roles at one employer are grouped: the first
// role-name element holds the employer, and each nested item is one role.
func (e *Extractor) experienceItem(li *goquery.Selection) []profile.Experience {
	nested := li.Find(e.sel.NestedList).First()
	roles := li.Find(e.sel.Role)

	if nested.Length() > 0 && roles.Length() > 1 {
		employer := htmlutil.Own(roles.First())
		var out []profile.Experience
		nested.Find(e.sel.NestedItem).Each(func(_ int, role *goquery.Selection) {
			title := htmlutil.Text(role, e.sel.Role)
			date := htmlutil.Text(role, e.sel.Date)
			if x, ok := e.entry(title, employer, date); ok {
				out = append(out, x)
			}
		})
		return out
	}

	title := htmlutil.Text(li, e.sel.Role)
	employer := htmlutil.Text(li, e.sel.Company)
	date := htmlutil.Text(li, e.sel.Date)
	if x, ok := e.entry(title, employer, date); ok {
		return []profile.Experience{x}
	}
	return nil
}

// entry builds one experience from raw strings. The employer string may carry
// the employment type after a middle dot ("Acme · Full-time").
func (e *Extractor) entry(title, employer, date string) (profile.Experience, bool) {
	company, kind := splitEmployer(employer)
	x := profile.Experience{
		Title:          title,
		Company:        company,
		EmploymentType: kind,
		Date:           date,
	}
	if x.Title == "" || x.Company == "" {
		return x, false
	}
	if e.boilerplate(x) {
		e.logger.Debug("dropping boilerplate experience entry", "title", x.Title)
		return x, false
	}
	return x, true
}

func splitEmployer(s string) (company, kind string) {
	parts := strings.Split(s, "·")
	company = htmlutil.Clean(parts[0])
	if len(parts) > 1 {
		kind = htmlutil.Clean(parts[1])
	}
	return company, kind
}
