package dictionary

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/hindiname/internal/facility"
	"codeberg.org/snonux/hindiname/internal/normalize"
)

// DefaultSource names the built-in dictionary in error messages.
const DefaultSource = "builtin:default.yaml"

//go:embed default.yaml
var defaultYAML []byte

// File is the on-disk form of a dictionary layer.
type File struct {
	Source    string            `yaml:"-"`
	Terms     map[string]string `yaml:"terms"`
	Templates []TemplateSpec    `yaml:"templates"`
	Overrides map[string]string `yaml:"overrides"`
	Patterns  []PatternSpec     `yaml:"patterns"`
}

// TemplateSpec describes a facility template. Keywords lists the required
// keywords, each as a list of accepted surface forms.
type TemplateSpec struct {
	Name      string     `yaml:"name"`
	Kind      string     `yaml:"kind"`
	Keywords  [][]string `yaml:"keywords"`
	Hindi     string     `yaml:"hindi"`
	Placement string     `yaml:"placement,omitempty"`
}

// PatternSpec is a case-insensitive regular expression override.
type PatternSpec struct {
	Pattern string `yaml:"pattern"`
	Hindi   string `yaml:"hindi"`
}

// Parse decodes one dictionary layer. Unknown fields are rejected so a
// misspelt section does not silently drop entries.
func Parse(source string, data []byte) (*File, error) {
	f := &File{Source: source}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse dictionary %s: %w", source, err)
	}
	return f, nil
}

// Load builds a dictionary from the given files, layered on top of the
// built-in default when withDefault is set. Any conflict between layers is
// an error.
func Load(paths []string, withDefault bool) (*Dictionary, error) {
	var files []*File
	if withDefault {
		f, err := Parse(DefaultSource, defaultYAML)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dictionary file: %w", err)
		}
		f, err := Parse(path, data)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no dictionary files given")
	}
	return Build(files...)
}

// Default returns the built-in dictionary.
func Default() (*Dictionary, error) {
	return Load(nil, true)
}

// Build validates the layers and assembles a Dictionary. Every problem is
// reported, not just the first one.
func Build(files ...*File) (*Dictionary, error) {
	b := &builder{
		dict: &Dictionary{
			terms:     make(map[string]string),
			overrides: make(map[string]string),
		},
		termSource:     make(map[string]string),
		overrideSource: make(map[string]string),
		templateSource: make(map[string]string),
	}

	var templates []facility.Template
	for _, f := range files {
		b.addTerms(f)
		templates = append(templates, b.addTemplates(f)...)
		b.addOverrides(f)
		b.addPatterns(f)
	}

	if err := b.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	b.dict.templates = facility.SortTemplates(templates)
	return b.dict, nil
}

type builder struct {
	dict           *Dictionary
	errs           *multierror.Error
	termSource     map[string]string
	overrideSource map[string]string
	templateSource map[string]string
}

func (b *builder) fail(format string, args ...any) {
	b.errs = multierror.Append(b.errs, fmt.Errorf(format, args...))
}

func (b *builder) addTerms(f *File) {
	for _, raw := range sortedKeys(f.Terms) {
		key := normalize.Normalize(raw)
		if key == "" {
			b.fail("%s: empty term key %q", f.Source, raw)
			continue
		}
		hindi, err := cleanHindi(f.Terms[raw])
		if err != nil {
			b.fail("%s: term %q: %v", f.Source, raw, err)
			continue
		}
		if prev, ok := b.dict.terms[key]; ok {
			if prev == hindi {
				b.fail("%s: duplicate term %q, already defined in %s", f.Source, key, b.termSource[key])
			} else {
				b.fail("%s: conflicting term %q: %q here, %q in %s", f.Source, key, hindi, prev, b.termSource[key])
			}
			continue
		}
		b.dict.terms[key] = hindi
		b.termSource[key] = f.Source
		b.dict.maxSpan = max(b.dict.maxSpan, strings.Count(key, " ")+1)
	}
}

func (b *builder) addTemplates(f *File) []facility.Template {
	var out []facility.Template
	for i, spec := range f.Templates {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			b.fail("%s: template #%d has no name", f.Source, i+1)
			continue
		}
		if prev, ok := b.templateSource[name]; ok {
			b.fail("%s: duplicate template %q, already defined in %s", f.Source, name, prev)
			continue
		}
		b.templateSource[name] = f.Source

		tmpl, err := buildTemplate(name, spec)
		if err != nil {
			b.fail("%s: template %q: %v", f.Source, name, err)
			continue
		}
		out = append(out, tmpl)
	}
	return out
}

func buildTemplate(name string, spec TemplateSpec) (facility.Template, error) {
	kind, err := facility.ParseKind(spec.Kind)
	if err != nil {
		return facility.Template{}, err
	}
	if kind == facility.Unclassified {
		return facility.Template{}, fmt.Errorf("kind %s cannot have a template", kind)
	}

	placement := kind.DefaultPlacement()
	if spec.Placement != "" {
		if placement, err = facility.ParsePlacement(spec.Placement); err != nil {
			return facility.Template{}, err
		}
	}

	hindi, err := cleanHindi(spec.Hindi)
	if err != nil {
		return facility.Template{}, err
	}

	if len(spec.Keywords) == 0 {
		return facility.Template{}, fmt.Errorf("no keywords")
	}
	keywords := make([]facility.Keyword, 0, len(spec.Keywords))
	for j, forms := range spec.Keywords {
		normalized := make([]string, 0, len(forms))
		for _, form := range forms {
			if n := normalize.Normalize(form); n != "" {
				normalized = append(normalized, n)
			}
		}
		if len(normalized) == 0 {
			return facility.Template{}, fmt.Errorf("keyword #%d has no surface forms", j+1)
		}
		keywords = append(keywords, facility.NewKeyword(normalized...))
	}

	return facility.Template{
		Name:      name,
		Kind:      kind,
		Keywords:  keywords,
		Hindi:     hindi,
		Placement: placement,
	}, nil
}

func (b *builder) addOverrides(f *File) {
	for _, raw := range sortedKeys(f.Overrides) {
		key := normalize.Normalize(raw)
		if key == "" {
			b.fail("%s: empty override name %q", f.Source, raw)
			continue
		}
		hindi, err := cleanHindi(f.Overrides[raw])
		if err != nil {
			b.fail("%s: override %q: %v", f.Source, raw, err)
			continue
		}
		if prev, ok := b.overrideSource[key]; ok {
			b.fail("%s: override %q collides with an override in %s", f.Source, key, prev)
			continue
		}
		b.dict.overrides[key] = hindi
		b.overrideSource[key] = f.Source
	}
}

func (b *builder) addPatterns(f *File) {
	for i, spec := range f.Patterns {
		expr, err := regexp.Compile("(?i)" + spec.Pattern)
		if err != nil {
			b.fail("%s: pattern #%d: %v", f.Source, i+1, err)
			continue
		}
		hindi, err := cleanHindi(spec.Hindi)
		if err != nil {
			b.fail("%s: pattern #%d: %v", f.Source, i+1, err)
			continue
		}
		b.dict.patterns = append(b.dict.patterns, Pattern{Expr: expr, Hindi: hindi})
	}
}

// cleanHindi brings a Hindi value to NFC with single spaces.
func cleanHindi(v string) (string, error) {
	s := strings.Join(strings.Fields(norm.NFC.String(v)), " ")
	if s == "" {
		return "", fmt.Errorf("empty Hindi value")
	}
	if normalize.StripQuoteRuns(s) != s {
		return "", fmt.Errorf("Hindi value %q contains a quote run", s)
	}
	return s, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
