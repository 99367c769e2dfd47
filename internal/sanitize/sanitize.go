// Package sanitize cleans Hindi values that picked up English fragments,
// for example cells written by an earlier tool that copied parts of the
// English name into the Hindi column.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	latinRun   = regexp.MustCompile(`[A-Za-z]+(?:[\-/'.()\s]*[A-Za-z]+)*`)
	commaSpace = regexp.MustCompile(`\s*,\s*`)
	commaRun   = regexp.MustCompile(`(?:,\s*){2,}`)
	emptyParen = regexp.MustCompile(`\(\s*\)`)
)

// StripLatin removes Latin-letter runs from s, then tidies what is left:
// comma spacing is normalized, repeated commas and whitespace collapse,
// emptied brackets go away and a word doubled without a separator
// ("अलीगढ़अलीगढ़") is reduced to one copy. Commas left dangling at either end
// are removed.
func StripLatin(s string) string {
	out := latinRun.ReplaceAllString(s, "")
	out = emptyParen.ReplaceAllString(out, "")
	out = commaSpace.ReplaceAllString(out, ", ")
	out = commaRun.ReplaceAllString(out, ", ")
	out = strings.Join(strings.Fields(out), " ")
	out = dedupeDoubled(out)
	out = strings.Trim(out, ", ")
	return out
}

// dedupeDoubled collapses any run of two or more non-space runes that is
// immediately repeated. At each position the longest candidate is tried
// first and matches do not overlap.
func dedupeDoubled(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); {
		if n := doubledAt(runes, i); n > 0 {
			b.WriteString(string(runes[i : i+n]))
			i += 2 * n
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

func doubledAt(runes []rune, i int) int {
	word := 0
	for i+word < len(runes) && !unicode.IsSpace(runes[i+word]) {
		word++
	}
	for n := word; n >= 2; n-- {
		if i+2*n > len(runes) {
			continue
		}
		if string(runes[i:i+n]) == string(runes[i+n:i+2*n]) {
			return n
		}
	}
	return 0
}
