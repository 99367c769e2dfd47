package dictionary

import (
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"codeberg.org/snonux/hindiname/internal/facility"
	"codeberg.org/snonux/hindiname/internal/normalize"
)

// Entry is one English key and its Hindi rendering.
type Entry struct {
	Key   string
	Hindi string
}

// Pattern is a regular-expression override tried against the cleaned name.
type Pattern struct {
	Expr  *regexp.Regexp
	Hindi string
}

// Dictionary holds the terms, facility templates and overrides used by the
// translation engine. It is built once by Build, Load or Default and is
// read-only afterwards, so it can be shared between goroutines freely.
type Dictionary struct {
	terms     map[string]string
	maxSpan   int
	templates []facility.Template
	overrides map[string]string
	patterns  []Pattern
}

// Lookup returns the Hindi for a normalized key.
func (d *Dictionary) Lookup(key string) (string, bool) {
	hindi, ok := d.terms[key]
	return hindi, ok
}

// Match finds the longest dictionary phrase starting at tokens[start]. It
// returns the Hindi and the number of tokens consumed, or ok == false when
// not even the single token is known.
func (d *Dictionary) Match(tokens []normalize.Token, start int) (string, int, bool) {
	longest := min(d.maxSpan, len(tokens)-start)
	for span := longest; span > 0; span-- {
		keys := make([]string, span)
		for i := range keys {
			keys[i] = tokens[start+i].Key
		}
		if hindi, ok := d.terms[strings.Join(keys, " ")]; ok {
			return hindi, span, true
		}
	}
	return "", 0, false
}

// Override returns a curated translation for the whole name: an exact
// override keyed by the normalized name first, then the first matching
// pattern tested against the cleaned name.
func (d *Dictionary) Override(name normalize.Name) (string, bool) {
	if hindi, ok := d.overrides[name.String()]; ok {
		return hindi, true
	}
	verbatim := name.Verbatim()
	for _, p := range d.patterns {
		if p.Expr.MatchString(verbatim) {
			return p.Hindi, true
		}
	}
	return "", false
}

// Templates returns the facility templates in the order the classifier
// tests them.
func (d *Dictionary) Templates() []facility.Template {
	out := make([]facility.Template, len(d.templates))
	copy(out, d.templates)
	return out
}

// Entries returns every term sorted by key.
func (d *Dictionary) Entries() []Entry {
	keys := lo.Keys(d.terms)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) Entry {
		return Entry{Key: k, Hindi: d.terms[k]}
	})
}

// Len returns the number of terms.
func (d *Dictionary) Len() int {
	return len(d.terms)
}

// OverrideCount returns the number of exact and pattern overrides.
func (d *Dictionary) OverrideCount() int {
	return len(d.overrides) + len(d.patterns)
}
