// Package translation turns English health facility names into Hindi. The
// Engine normalizes a raw name, applies curated overrides, classifies the
// facility type and hands the classification to the Translator, which
// assembles the Hindi from dictionary phrases. Results are cached per raw
// name for batch runs.
package translation
