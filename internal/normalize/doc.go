// Package normalize cleans raw facility names before translation. It strips
// stray quote runs, folds separators and whitespace, and keeps an upper-case
// lookup key next to the verbatim spelling of every token.
package normalize
