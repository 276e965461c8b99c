package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	folder = cases.Fold()
	// stripMarks decomposes accented letters and drops the combining marks.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeName returns the lookup key for a card or column name: accents
// removed, case folded, inner whitespace collapsed to single spaces.
// "Frenesí", "FRENESI" and " frenesi " share a key.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = norm.NFC.String(name)
	}
	return strings.Join(strings.Fields(folder.String(stripped)), " ")
}
