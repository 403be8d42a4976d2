package pdfgen

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// titleWrapWidth is the column at which title lines break on the
// title page.
const titleWrapWidth = 45

// SanitizeTitle folds a video title down to printable ASCII so the
// core PDF fonts can render it. Accented letters are decomposed first
// and keep their base letter; anything still outside ASCII becomes a
// placeholder underscore.
func SanitizeTitle(title string) string {
	decomposed := norm.NFKD.String(title)

	var b strings.Builder
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		case r < 128 && unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// WrapTitle splits a sanitized title into fixed-width lines for the
// title page.
func WrapTitle(title string) []string {
	if title == "" {
		return nil
	}
	lines := make([]string, 0, len(title)/titleWrapWidth+1)
	for len(title) > titleWrapWidth {
		lines = append(lines, title[:titleWrapWidth])
		title = title[titleWrapWidth:]
	}
	return append(lines, title)
}
