// Package slug maps content filenames to canonical URL slugs and derives
// anchor ids for headings.
package slug

import (
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Extension is the content file extension stripped from filenames.
const Extension = ".md"

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-(.+)$`)

// FilenameToSlug strips a trailing ".md" and a leading "YYYY-MM-DD-" date prefix.
// Names without a date prefix are returned unchanged.
func FilenameToSlug(filename string) string {
	name := strings.TrimSuffix(filename, Extension)
	if m := datePrefix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// FindFilenameBySlug resolves slug against filenames. An exact filename match wins;
// otherwise the first filename whose derived slug equals slug is returned.
func FindFilenameBySlug(slug string, filenames []string) (string, bool) {
	for _, fn := range filenames {
		if fn == slug {
			return fn, true
		}
	}
	for _, fn := range filenames {
		if FilenameToSlug(fn) == slug {
			return fn, true
		}
	}
	return "", false
}

// Collision describes filenames that normalize to the same slug.
type Collision struct {
	Slug      string
	Filenames []string
}

// Collisions returns every slug shared by more than one filename, sorted by slug.
func Collisions(filenames []string) []Collision {
	bySlug := make(map[string][]string)
	for _, fn := range filenames {
		s := FilenameToSlug(fn)
		bySlug[s] = append(bySlug[s], fn)
	}

	var out []Collision
	for s, fns := range bySlug {
		if len(fns) < 2 {
			continue
		}
		sort.Strings(fns)
		out = append(out, Collision{Slug: s, Filenames: fns})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// CheckUnique fails when two content files collapse to the same slug.
func CheckUnique(filenames []string) error {
	collisions := Collisions(filenames)
	if len(collisions) == 0 {
		return nil
	}

	details := make([]string, 0, len(collisions))
	for _, c := range collisions {
		details = append(details, c.Slug+": "+strings.Join(c.Filenames, ", "))
	}
	return errors.ValidationError("duplicate post slugs").
		WithContext("collisions", strings.Join(details, "; ")).
		WithContext("count", len(collisions)).
		Build()
}
