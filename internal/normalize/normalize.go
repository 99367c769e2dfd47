package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// quoteRun matches three or more consecutive quote characters, straight or curly.
var quoteRun = regexp.MustCompile(`["'\x{201C}\x{201D}\x{2018}\x{2019}]{3,}`)

// Token is a single word of a normalized name. Key is the upper-case form
// used for dictionary and keyword lookups, Text is the spelling as it
// appeared in the input (after cleanup).
type Token struct {
	Key  string
	Text string
}

// Name is a cleaned facility name split into tokens.
type Name struct {
	Tokens []Token
}

// String returns the lookup form of the name: upper-case keys joined by
// single spaces.
func (n Name) String() string {
	keys := make([]string, len(n.Tokens))
	for i, tok := range n.Tokens {
		keys[i] = tok.Key
	}
	return strings.Join(keys, " ")
}

// Verbatim returns the cleaned name in its original casing.
func (n Name) Verbatim() string {
	texts := make([]string, len(n.Tokens))
	for i, tok := range n.Tokens {
		texts[i] = tok.Text
	}
	return strings.Join(texts, " ")
}

// IsEmpty reports whether nothing survived cleanup.
func (n Name) IsEmpty() bool {
	return len(n.Tokens) == 0
}

// Normalize returns the upper-case lookup form of raw. It never fails and
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	return Parse(raw).String()
}

// Clean returns the cleaned form of raw without changing its casing.
func Clean(raw string) string {
	return Parse(raw).Verbatim()
}

// Parse cleans raw and splits it into tokens.
func Parse(raw string) Name {
	s := clean(raw)
	if s == "" {
		return Name{}
	}

	fields := strings.Split(s, " ")
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, Token{Key: strings.ToUpper(f), Text: f})
	}
	return Name{Tokens: tokens}
}

// StripQuoteRuns removes every run of three or more quote characters.
func StripQuoteRuns(s string) string {
	return quoteRun.ReplaceAllString(s, "")
}

func clean(raw string) string {
	s := strings.ToValidUTF8(raw, "")
	s = norm.NFKC.String(s)
	s = StripQuoteRuns(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', ';', '_', '-':
			return ' '
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)

	// Parenthetical groups stand apart from their neighbours but hug their
	// contents: "X(Y )" becomes "X (Y)".
	s = strings.ReplaceAll(s, "(", " (")
	s = strings.ReplaceAll(s, ")", ") ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "( ", "(")
	s = strings.ReplaceAll(s, " )", ")")

	// A bracket with nothing to enclose is dropped.
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if f != "(" && f != ")" {
			kept = append(kept, f)
		}
	}
	s = strings.Join(kept, " ")

	// Removals above can leave decomposed sequences behind.
	return norm.NFKC.String(s)
}
