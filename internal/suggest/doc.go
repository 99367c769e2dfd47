// Package suggest asks a language model for Hindi spellings of tokens the
// dictionary does not know. Suggestions are never applied directly; they
// are written as a YAML terms snippet for a person to review and add to a
// dictionary file.
package suggest
