package i18n

import (
	"fmt"
	"time"
)

// FormatDate renders t in the long form of lang, "January 5, 2024" for English
// and "5. ledna 2024" for Czech. The zero time renders as the localized
// invalid-date string.
func FormatDate(t time.Time, lang string) string {
	if t.IsZero() {
		return T(lang, "date.invalid")
	}
	months, ok := monthNames[lang]
	if !ok {
		lang = Fallback
		months = monthNames[Fallback]
	}
	month := months[t.Month()-1]
	if lang == "cs" {
		return fmt.Sprintf("%d. %s %d", t.Day(), month, t.Year())
	}
	return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
}
