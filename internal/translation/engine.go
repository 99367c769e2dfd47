package translation

import (
	"slices"

	"codeberg.org/snonux/hindiname/internal/dictionary"
	"codeberg.org/snonux/hindiname/internal/facility"
	"codeberg.org/snonux/hindiname/internal/normalize"
)

// Engine runs the whole pipeline for raw names: normalize, check curated
// overrides, classify, translate. The dictionary must be fully loaded
// before the engine is built; the engine never modifies it.
type Engine struct {
	dict       *dictionary.Dictionary
	templates  []facility.Template
	translator *Translator
	cache      *TranslationCache
}

// NewEngine creates an engine over a loaded dictionary.
func NewEngine(dict *dictionary.Dictionary) *Engine {
	return &Engine{
		dict:       dict,
		templates:  dict.Templates(),
		translator: NewTranslator(dict),
		cache:      NewTranslationCache(),
	}
}

// TranslateName translates one raw facility name. It never fails: empty or
// unparseable input yields an empty, unflagged result.
func (e *Engine) TranslateName(raw string) Result {
	if res, ok := e.cache.Get(raw); ok {
		res.Unknown = slices.Clone(res.Unknown)
		return res
	}

	res := e.translate(raw)
	e.cache.Add(raw, res)
	res.Unknown = slices.Clone(res.Unknown)
	return res
}

// Classify exposes the classifier stage for a raw name.
func (e *Engine) Classify(raw string) facility.Classification {
	return facility.Classify(normalize.Parse(raw), e.templates)
}

// Templates returns the templates in the order they are tested.
func (e *Engine) Templates() []facility.Template {
	return e.dict.Templates()
}

// CacheSize returns the number of distinct raw names translated so far.
func (e *Engine) CacheSize() int {
	return e.cache.Len()
}

func (e *Engine) translate(raw string) Result {
	name := normalize.Parse(raw)
	if name.IsEmpty() {
		return Result{Kind: facility.Unclassified, Source: SourceEngine}
	}

	if hindi, ok := e.dict.Override(name); ok {
		return Result{
			Key:     name.String(),
			Hindi:   hindi,
			Kind:    facility.Classify(name, e.templates).Kind,
			Source:  SourceOverride,
			Flagged: HasASCIILetters(hindi),
		}
	}

	res := e.translator.Translate(facility.Classify(name, e.templates))
	res.Key = name.String()
	return res
}
