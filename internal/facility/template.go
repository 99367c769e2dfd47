package facility

import (
	"sort"
	"strings"
)

// Keyword is one required element of a template. A name satisfies the
// keyword when any of its surface forms occurs as a whole-token sequence.
type Keyword struct {
	Forms [][]string
}

// NewKeyword builds a keyword from space-separated upper-case forms such as
// "CHC" and "COMMUNITY HEALTH CENTRE".
func NewKeyword(forms ...string) Keyword {
	kw := Keyword{Forms: make([][]string, 0, len(forms))}
	for _, f := range forms {
		if fields := strings.Fields(f); len(fields) > 0 {
			kw.Forms = append(kw.Forms, fields)
		}
	}
	return kw
}

// String renders the forms as "A | B C".
func (kw Keyword) String() string {
	forms := make([]string, len(kw.Forms))
	for i, f := range kw.Forms {
		forms[i] = strings.Join(f, " ")
	}
	return strings.Join(forms, " | ")
}

// Template is a facility-type rule: when every keyword is present the name
// is of Kind, and the keywords are rendered as Hindi.
type Template struct {
	Name      string
	Kind      Kind
	Keywords  []Keyword
	Hindi     string
	Placement Placement
}

// Specificity is the number of required keywords. More specific templates
// are tested first.
func (t Template) Specificity() int {
	return len(t.Keywords)
}

// SortTemplates returns a copy of templates ordered by descending
// specificity. Templates of equal specificity keep their declaration order.
func SortTemplates(templates []Template) []Template {
	sorted := make([]Template, len(templates))
	copy(sorted, templates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Specificity() > sorted[j].Specificity()
	})
	return sorted
}
