package orientation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases, trims surrounding whitespace, and strips
// diacritical marks so that "Bogotá" and "bogota" compare equal. It is
// idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	stripped, _, err := transform.String(stripMarks(), s)
	if err != nil {
		return s
	}
	return stripped
}

// stripMarks decomposes accented characters and drops the combining
// marks. Transformers carry state, so each call builds a fresh chain.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
