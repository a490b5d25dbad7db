// Package render formats a profile record for human review.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/resumator/pkg/profile"
)

// NotFound stands in for an empty list.
const NotFound = "Not Found"

var dateSep = regexp.MustCompile(`[·\x{2022}]`)

// ExperienceLine is the display form of one experience entry.
type ExperienceLine struct {
	Main   string // "Title at Company"
	Period string
	Extra  string // duration or other trailer after a bullet
}

// Experience formats one entry. A date like "Jan 2020 - Present · 4 yrs" is
// split into its period and the trailer.
func Experience(e profile.Experience) ExperienceLine {
	line := ExperienceLine{Main: e.Title + " at " + e.Company, Period: e.Date}
	if parts := dateSep.Split(e.Date, -1); len(parts) > 1 {
		line.Period = strings.TrimSpace(parts[0])
		line.Extra = strings.TrimSpace(parts[1])
	}
	return line
}

// Education formats one entry as "School – Degree (DateRange)", leaving out missing parts.
func Education(e profile.Education) string {
	var b strings.Builder
	b.WriteString(e.School)
	if e.Degree != "" {
		b.WriteString(" – ")
		b.WriteString(e.Degree)
	}
	if e.DateRange != "" {
		b.WriteString(" (")
		b.WriteString(e.DateRange)
		b.WriteString(")")
	}
	return b.String()
}

// Skills joins skills for display.
func Skills(skills []string) string {
	return strings.Join(skills, ", ")
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Render writes rec as a plain-text review form.
func Render(w io.Writer, rec *profile.Record) error {
	if rec == nil {
		return fmt.Errorf("render: %w", profile.ErrNoRecord)
	}
	ew := &errWriter{w: w}

	ew.printf("URL:       %s\n", rec.URL)
	ew.printf("Name:      %s\n", rec.FullName)
	ew.printf("Headline:  %s\n", rec.Headline)
	ew.printf("Location:  %s\n", rec.Location)
	ew.printf("About:     %s\n", rec.About)

	ew.printf("\nExperience:\n")
	if len(rec.Experience) == 0 {
		ew.printf("  %s\n", NotFound)
	}
	for _, e := range rec.Experience {
		line := Experience(e)
		ew.printf("  %s\n", line.Main)
		if line.Period != "" || line.Extra != "" {
			ew.printf("    %s", line.Period)
			if line.Extra != "" {
				ew.printf(" | %s", line.Extra)
			}
			ew.printf("\n")
		}
	}

	ew.printf("\nEducation:\n")
	if len(rec.Education) == 0 {
		ew.printf("  %s\n", NotFound)
	}
	for _, e := range rec.Education {
		ew.printf("  %s\n", Education(e))
	}

	ew.printf("\nSkills:\n  %s\n", Skills(rec.Skills))
	return ew.err
}
