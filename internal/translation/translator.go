package translation

import (
	"strings"
	"sync"

	"codeberg.org/snonux/hindiname/internal/dictionary"
	"codeberg.org/snonux/hindiname/internal/facility"
	"codeberg.org/snonux/hindiname/internal/normalize"
)

// Source tells where a translation came from.
type Source string

const (
	SourceEngine   Source = "engine"
	SourceOverride Source = "override"
)

// Result is the translation of one facility name.
type Result struct {
	// Key is the normalized lookup form of the input.
	Key      string
	Hindi    string
	Kind     facility.Kind
	Template string
	Source   Source
	// Unknown lists tokens containing Latin letters that had no dictionary
	// entry and were copied through.
	Unknown []string
	// Flagged is set when the output still contains ASCII letters.
	Flagged bool
}

// Translator renders classified names as Hindi using a dictionary.
type Translator struct {
	dict *dictionary.Dictionary
}

// NewTranslator creates a translator backed by dict.
func NewTranslator(dict *dictionary.Dictionary) *Translator {
	return &Translator{dict: dict}
}

// Translate assembles the Hindi name for a classification: the template's
// type phrase, the translated area laid out per the template's placement,
// then every annotation in brackets. Unknown tokens pass through verbatim.
func (t *Translator) Translate(c facility.Classification) Result {
	area, unknown := t.translateTokens(c.Area)

	var out string
	switch {
	case c.Template == nil:
		out = area
	case area == "":
		out = c.Template.Hindi
	case c.Template.Placement == facility.PlacementComma:
		out = c.Template.Hindi + ", " + area
	default:
		out = c.Template.Hindi + " " + area
	}

	for _, a := range c.Annotations {
		inner, more := t.translateTokens(a.Tokens)
		unknown = append(unknown, more...)
		if inner == "" {
			continue
		}
		out = joinNonEmpty(out, "("+inner+")")
	}

	out = normalize.StripQuoteRuns(out)
	res := Result{
		Hindi:   out,
		Kind:    c.Kind,
		Source:  SourceEngine,
		Unknown: unknown,
		Flagged: HasASCIILetters(out),
	}
	if c.Template != nil {
		res.Template = c.Template.Name
	}
	return res
}

// translateTokens replaces the longest known phrase at each position and
// copies unknown tokens through in their original spelling.
func (t *Translator) translateTokens(tokens []normalize.Token) (string, []string) {
	var parts, unknown []string
	for i := 0; i < len(tokens); {
		if hindi, span, ok := t.dict.Match(tokens, i); ok {
			parts = append(parts, hindi)
			i += span
			continue
		}
		parts = append(parts, tokens[i].Text)
		if HasASCIILetters(tokens[i].Text) {
			unknown = append(unknown, tokens[i].Text)
		}
		i++
	}
	return strings.Join(parts, " "), unknown
}

// HasASCIILetters reports whether s contains any of A-Z or a-z.
func HasASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			return true
		}
	}
	return false
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

// TranslationCache stores results by raw input. It is safe for concurrent
// use by batch workers.
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]Result
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]Result),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(raw string, res Result) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[raw] = res
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(raw string) (Result, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	res, ok := tc.translations[raw]
	return res, ok
}

// Len returns the number of cached results.
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}
