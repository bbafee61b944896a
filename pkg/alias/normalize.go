package alias

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize derives an xws-style id from a display name: accents are
// stripped, only letters and digits are kept, an opening parenthesis
// becomes a hyphen, and the result is case folded.
//
//	Normalize("Black Squadron Ace (T-70)") == "blacksquadronace-t70"
//	Normalize("Sabé") == "sabe"
//
// Normalize is safe for concurrent use; transformers and casers keep
// state, so each call builds its own.
func Normalize(name string) string {
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r == '(':
			b.WriteByte('-')
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return cases.Fold().String(b.String())
}
