// Package htmlutil provides text normalization and lookup helpers over goquery selections.
package htmlutil

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// isSpace matches what browsers treat as whitespace in innerText, including NBSP and BOM.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Clean collapses every run of whitespace (line breaks included) to one ASCII space
// and trims both ends. Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// Text returns the cleaned text of the first element under root matching selector.
// A nil or empty root, or no match, yields "".
func Text(root *goquery.Selection, selector string) string {
	if root == nil || root.Length() == 0 {
		return ""
	}
	return Clean(Rendered(root.Find(selector).First()))
}

// Own returns the cleaned text of the selection itself.
func Own(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return Clean(Rendered(sel))
}

// blockElements start and end on their own line when rendered.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Footer: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Li: true, atom.Main: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tr: true,
	atom.Ul: true,
}

// Rendered returns the selection's text the way a browser lays it out:
// <br> and block boundaries become line breaks, and script, style and
// template content is skipped. Unlike Selection.Text, words on either side
// of a <br> stay apart.
func Rendered(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeRendered(&b, n)
	}
	return b.String()
}

func writeRendered(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template, atom.Noscript:
			return
		case atom.Br:
			b.WriteByte('\n')
			return
		}
	}
	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeRendered(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// Title returns the cleaned <title> of a document.
func Title(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	return Clean(doc.Find("title").First().Text())
}

// notFoundPatterns are phrases that appear on error or unavailable profile pages.
var notFoundPatterns = []string{
	"page not found",
	"404 not found",
	"member not found",
	"profile not found",
	"this profile is not available",
	"account has been restricted",
	"page doesn't exist",
	"this page doesn't exist",
}

// IsNotFound detects common "profile not available" phrasing in page text.
func IsNotFound(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range notFoundPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
