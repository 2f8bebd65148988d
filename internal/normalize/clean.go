package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cleaner folds compatibility forms (NFKC turns NBSP and fullwidth digits
// into their ASCII equivalents) and strips control runes that occasionally
// leak into exported CSV cells.
var cleaner = transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.Cc)))

// Clean applies Unicode cleanup and edge trimming to a raw field value.
// Plain ASCII input passes through unchanged apart from trimming.
func Clean(s string) string {
	out, _, err := transform.String(cleaner, s)
	if err != nil {
		// Malformed UTF-8: keep the raw bytes, trim only.
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(out)
}
