package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// Fallback is used when a heading has no slug-able characters.
const Fallback = "section"

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphens    = regexp.MustCompile(`-+`)
)

// Slugify lowercases text, drops characters outside [a-z0-9\s-], turns whitespace
// runs into hyphens and trims hyphens from both ends.
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

// Slugger produces ids unique within one document. The n-th repeat of a base
// slug gets a "-n" suffix, starting at 2. Not safe for concurrent use.
type Slugger struct {
	counts map[string]int
}

// NewSlugger returns a Slugger with no ids issued.
func NewSlugger() *Slugger {
	return &Slugger{counts: make(map[string]int)}
}

// Slug returns the id for text.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	n := s.counts[base]
	s.counts[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n+1)
}
