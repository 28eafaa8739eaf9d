// Package i18n holds the blog's UI strings and negotiates the reader's language.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// CookieName is the cookie remembering the reader's language choice.
const CookieName = "i18nextLng"

// Fallback is used when nothing else matches.
const Fallback = "en"

var supported = []language.Tag{language.English, language.Czech}

var matcher = language.NewMatcher(supported)

// Languages returns the supported language codes, fallback first.
func Languages() []string {
	out := make([]string, 0, len(supported))
	for _, tag := range supported {
		base, _ := tag.Base()
		out = append(out, base.String())
	}
	return out
}

// Supported reports whether code names a supported language exactly.
func Supported(code string) bool {
	_, ok := dictionaries[code]
	return ok
}

// Match picks the language for a request. A supported cookie value wins,
// otherwise the Accept-Language header is matched against the supported set.
func Match(acceptLanguage, cookie string) string {
	if Supported(cookie) {
		return cookie
	}
	if acceptLanguage == "" {
		return Fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Fallback
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Normalize maps an arbitrary language code onto a supported one.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if Supported(code) {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Fallback
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Fallback
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// T resolves a dotted key such as "post.relatedPosts" in the dictionary for
// lang, falling back to the default language. The key itself is returned when
// neither dictionary has a string at that path.
func T(lang, key string) string {
	if s, ok := lookup(dictionaries[lang], key); ok {
		return s
	}
	if s, ok := lookup(dictionaries[Fallback], key); ok {
		return s
	}
	return key
}

func lookup(dict map[string]any, key string) (string, bool) {
	if dict == nil {
		return "", false
	}
	var value any = dict
	for _, part := range strings.Split(key, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		if value, ok = m[part]; !ok {
			return "", false
		}
	}
	s, ok := value.(string)
	return s, ok
}
