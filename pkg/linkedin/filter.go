package linkedin

import "regexp"

// DefaultNoisePatterns returns the patterns for text that shows up among skill
// items without being a skill: the section header, endorsement lines, bare
// counts and "and N others" trailers.
func DefaultNoisePatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)^skills`),
		regexp.MustCompile(`(?i)endorsed`),
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`(?i)\bothers?$`),
	}
}

func (e *Extractor) isNoise(s string) bool {
	for _, re := range e.noise {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// dedupe keeps the first occurrence of each non-empty, non-noise name.
func (e *Extractor) dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] || e.isNoise(n) {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
