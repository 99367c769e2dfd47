package facility

import (
	"strings"

	"codeberg.org/snonux/hindiname/internal/normalize"
)

// Annotation is a parenthetical qualifier, usually a district, with the
// brackets removed from its tokens.
type Annotation struct {
	Tokens []normalize.Token
}

// Text returns the qualifier as it appeared in the input, brackets included.
func (a Annotation) Text() string {
	return "(" + normalize.Name{Tokens: a.Tokens}.Verbatim() + ")"
}

// Classification is the outcome of matching a name against the templates.
type Classification struct {
	Kind Kind
	// Template is nil for UNCLASSIFIED names.
	Template    *Template
	Area        []normalize.Token
	Annotations []Annotation
}

// AreaText returns the remaining area tokens in their original spelling.
func (c Classification) AreaText() string {
	return normalize.Name{Tokens: c.Area}.Verbatim()
}

// Classify matches name against templates, which must already be in
// specificity order (see SortTemplates). The first template whose keywords
// are all present wins. Names that match nothing are UNCLASSIFIED and keep
// every non-annotation token as area.
func Classify(name normalize.Name, templates []Template) Classification {
	body, annotations := splitAnnotations(name.Tokens)

	for i := range templates {
		consumed, ok := match(body, templates[i].Keywords)
		if !ok {
			continue
		}
		area := make([]normalize.Token, 0, len(body))
		for j, tok := range body {
			if !consumed[j] {
				area = append(area, tok)
			}
		}
		return Classification{
			Kind:        templates[i].Kind,
			Template:    &templates[i],
			Area:        area,
			Annotations: annotations,
		}
	}

	return Classification{
		Kind:        Unclassified,
		Area:        body,
		Annotations: annotations,
	}
}

// match reports whether every keyword occurs in tokens and which token
// positions the matched forms cover. A position is used by one keyword only.
func match(tokens []normalize.Token, keywords []Keyword) (map[int]bool, bool) {
	if len(keywords) == 0 {
		return nil, false
	}
	consumed := make(map[int]bool)
	for _, kw := range keywords {
		start, length := find(tokens, kw, consumed)
		if start < 0 {
			return nil, false
		}
		for j := start; j < start+length; j++ {
			consumed[j] = true
		}
	}
	return consumed, true
}

func find(tokens []normalize.Token, kw Keyword, consumed map[int]bool) (int, int) {
	for _, form := range kw.Forms {
		for i := 0; i+len(form) <= len(tokens); i++ {
			if formAt(tokens, i, form, consumed) {
				return i, len(form)
			}
		}
	}
	return -1, 0
}

func formAt(tokens []normalize.Token, i int, form []string, consumed map[int]bool) bool {
	for j, word := range form {
		if consumed[i+j] || tokens[i+j].Key != word {
			return false
		}
	}
	return true
}

// splitAnnotations separates parenthetical groups from the rest of the name.
// A group opens on a token starting with "(" and closes on the first token
// ending with ")". An unclosed group is left in the body untouched.
func splitAnnotations(tokens []normalize.Token) ([]normalize.Token, []Annotation) {
	var body []normalize.Token
	var annotations []Annotation

	for i := 0; i < len(tokens); i++ {
		if !strings.HasPrefix(tokens[i].Text, "(") {
			body = append(body, tokens[i])
			continue
		}
		end := -1
		for j := i; j < len(tokens); j++ {
			if strings.HasSuffix(tokens[j].Text, ")") && (j > i || len(tokens[j].Text) > 1) {
				end = j
				break
			}
		}
		if end < 0 {
			body = append(body, tokens[i:]...)
			break
		}
		if inner := unwrap(tokens[i : end+1]); len(inner) > 0 {
			annotations = append(annotations, Annotation{Tokens: inner})
		}
		i = end
	}
	return body, annotations
}

func unwrap(group []normalize.Token) []normalize.Token {
	inner := make([]normalize.Token, len(group))
	copy(inner, group)

	first, last := &inner[0], &inner[len(inner)-1]
	first.Key = strings.TrimPrefix(first.Key, "(")
	first.Text = strings.TrimPrefix(first.Text, "(")
	last.Key = strings.TrimSuffix(last.Key, ")")
	last.Text = strings.TrimSuffix(last.Text, ")")

	out := inner[:0]
	for _, tok := range inner {
		if tok.Text != "" {
			out = append(out, tok)
		}
	}
	return out
}
