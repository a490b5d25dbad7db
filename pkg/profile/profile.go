// Package profile defines the record produced by scraping a professional profile page.
package profile

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Common errors returned by the surrounding plumbing. The extractor itself never fails.
var (
	ErrNoCookies       = errors.New("no cookies available")
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotProfileURL   = errors.New("not a profile URL")
	ErrNoRecord        = errors.New("no stored record")
)

// Experience is one role held at one employer.
type Experience struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	EmploymentType string `json:"employmentType"` // "Full-time", "Contract", ... or empty
	Date           string `json:"date"`
}

// Education is one school entry.
type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	DateRange   string `json:"dateRange"`
	Description string `json:"description"`
}

// Record is the structured result of one scrape.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Record struct {
	URL      string `json:"url"` // Canonical profile URL, query stripped
	FullName string `json:"fullName"`
	Headline string `json:"headline"`
	Location string `json:"location"`
	About    string `json:"about"`

	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
}

// Normalize replaces nil slices with empty ones so JSON output always carries [] for lists.
func (r *Record) Normalize() {
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
}

var profilePathPattern = regexp.MustCompile(`(?i)linkedin\.com/in/`)

// Match returns true if the URL is a profile URL.
func Match(urlStr string) bool {
	return profilePathPattern.MatchString(urlStr)
}

// CanonicalURL strips the query string and fragment from a page URL.
func CanonicalURL(raw string) string {
	base, _, _ := strings.Cut(raw, "?")
	base, _, _ = strings.Cut(base, "#")
	return base
}

// Slug returns the public identifier from a profile URL ("john-doe" for /in/john-doe/).
func Slug(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := range len(parts) - 1 {
		if parts[i] == "in" {
			if s, err := url.PathUnescape(parts[i+1]); err == nil {
				return s
			}
			return parts[i+1]
		}
	}
	return ""
}
