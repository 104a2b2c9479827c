package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns free text into a URL-safe identifier: accents are folded to
// ASCII, everything is lower-cased, characters other than letters, digits,
// whitespace and hyphens are dropped, whitespace runs become a single
// hyphen, and hyphen runs are collapsed and trimmed. Slugify(Slugify(s)) ==
// Slugify(s) for every s. Empty input yields "".
func Slugify(text string) string {
	folded, _, err := transform.String(asciiFold(), text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return b.String()
}

// asciiFold decomposes characters and drops combining marks, so "é" becomes
// "e". A fresh chain is built per call; transform.Transformer is stateful.
func asciiFold() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
