package linkedin

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/resumator/pkg/htmlutil"
)

// Section names a profile section that is located by its anchor id.
type Section string

// Known sections.
const (
	SectionAbout      Section = "about"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionSkills     Section = "skills"
)

func (e *Extractor) anchor(name Section) string {
	switch name {
	case SectionAbout:
		return e.sel.About
	case SectionExperience:
		return e.sel.Experience
	case SectionEducation:
		return e.sel.Education
	case SectionSkills:
		return e.sel.Skills
	default:
		return ""
	}
}

// Locate returns the <section> enclosing the anchor for name. The result is an
// empty selection when the anchor is missing or has no enclosing section.
func (e *Extractor) Locate(doc *goquery.Document, name Section) *goquery.Selection {
	if doc == nil {
		return emptyDocument().Selection.Slice(0, 0)
	}
	a := e.anchor(name)
	if a == "" {
		return doc.Selection.Slice(0, 0)
	}
	return doc.Find(a).First().Closest(e.sel.Section)
}

// about prefers the full text kept in the "see more" container and falls back
// to the visible text block.
func (e *Extractor) about(doc *goquery.Document) string {
	section := e.Locate(doc, SectionAbout)
	if section.Length() == 0 {
		return ""
	}
	if text := htmlutil.Text(section.Find(e.sel.AboutExpandable).First(), e.sel.AboutFullText); text != "" {
		return text
	}
	return htmlutil.Text(section, e.sel.AboutVisible)
}
