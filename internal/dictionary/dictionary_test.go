package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/hindiname/internal/facility"
	"codeberg.org/snonux/hindiname/internal/normalize"
)

func TestDefault(t *testing.T) {
	dict, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	if dict.Len() == 0 {
		t.Error("Default dictionary has no terms")
	}

	hindi, ok := dict.Lookup("GHAZIABAD")
	if !ok || hindi != "गाज़ियाबाद" {
		t.Errorf("Lookup(GHAZIABAD) = %q, %v", hindi, ok)
	}

	// Every non-trivial kind has at least one template.
	kinds := make(map[facility.Kind]bool)
	for _, tmpl := range dict.Templates() {
		kinds[tmpl.Kind] = true
	}
	for _, k := range facility.Kinds() {
		if k == facility.Unclassified {
			continue
		}
		if !kinds[k] {
			t.Errorf("No template for kind %s", k)
		}
	}
}

func TestTemplates_SpecificityOrder(t *testing.T) {
	dict, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	templates := dict.Templates()
	for i := 1; i < len(templates); i++ {
		if templates[i].Specificity() > templates[i-1].Specificity() {
			t.Errorf("Template %q (specificity %d) sorted after %q (specificity %d)",
				templates[i].Name, templates[i].Specificity(),
				templates[i-1].Name, templates[i-1].Specificity())
		}
	}

	if templates[0].Name != "district-women-hospital" {
		t.Errorf("Expected district-women-hospital first, got %s", templates[0].Name)
	}
}

func TestTemplates_ReturnsCopy(t *testing.T) {
	dict, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	templates := dict.Templates()
	templates[0].Hindi = "changed"

	if dict.Templates()[0].Hindi == "changed" {
		t.Error("Dictionary was modified through returned templates")
	}
}

func TestBuild_Conflicts(t *testing.T) {
	tests := []struct {
		name    string
		files   []*File
		wantErr string
	}{
		{
			name: "conflicting values across files",
			files: []*File{
				{Source: "a.yaml", Terms: map[string]string{"AGRA": "आगरा"}},
				{Source: "b.yaml", Terms: map[string]string{"AGRA": "अग्रा"}},
			},
			wantErr: "conflicting term",
		},
		{
			name: "duplicate after normalization",
			files: []*File{
				{Source: "a.yaml", Terms: map[string]string{"agra": "आगरा", " AGRA ": "आगरा"}},
			},
			wantErr: "duplicate term",
		},
		{
			name: "empty key",
			files: []*File{
				{Source: "a.yaml", Terms: map[string]string{`"""`: "आगरा"}},
			},
			wantErr: "empty term key",
		},
		{
			name: "empty value",
			files: []*File{
				{Source: "a.yaml", Terms: map[string]string{"AGRA": "  "}},
			},
			wantErr: "empty Hindi value",
		},
		{
			name: "quote run in value",
			files: []*File{
				{Source: "a.yaml", Terms: map[string]string{"AGRA": `आगरा"""`}},
			},
			wantErr: "quote run",
		},
		{
			name: "unknown kind",
			files: []*File{
				{Source: "a.yaml", Templates: []TemplateSpec{
					{Name: "x", Kind: "CLINIC", Keywords: [][]string{{"CLINIC"}}, Hindi: "क्लिनिक"},
				}},
			},
			wantErr: "unknown facility kind",
		},
		{
			name: "template without keywords",
			files: []*File{
				{Source: "a.yaml", Templates: []TemplateSpec{
					{Name: "x", Kind: "CHC", Hindi: "सामुदायिक स्वास्थ्य केंद्र"},
				}},
			},
			wantErr: "no keywords",
		},
		{
			name: "duplicate template name",
			files: []*File{
				{Source: "a.yaml", Templates: []TemplateSpec{
					{Name: "chc", Kind: "CHC", Keywords: [][]string{{"CHC"}}, Hindi: "सामुदायिक स्वास्थ्य केंद्र"},
				}},
				{Source: "b.yaml", Templates: []TemplateSpec{
					{Name: "chc", Kind: "CHC", Keywords: [][]string{{"CHC"}}, Hindi: "सामुदायिक स्वास्थ्य केंद्र"},
				}},
			},
			wantErr: "duplicate template",
		},
		{
			name: "bad placement",
			files: []*File{
				{Source: "a.yaml", Templates: []TemplateSpec{
					{Name: "x", Kind: "CHC", Keywords: [][]string{{"CHC"}}, Hindi: "सामुदायिक स्वास्थ्य केंद्र", Placement: "suffix"},
				}},
			},
			wantErr: "unknown placement",
		},
		{
			name: "override collision",
			files: []*File{
				{Source: "a.yaml", Overrides: map[string]string{"chc-rath": "एक", "CHC RATH": "दो"}},
			},
			wantErr: "collides",
		},
		{
			name: "invalid pattern",
			files: []*File{
				{Source: "a.yaml", Patterns: []PatternSpec{{Pattern: "(", Hindi: "एक"}}},
			},
			wantErr: "pattern #1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, err := Build(tt.files...)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if dict != nil {
				t.Error("Expected nil dictionary on error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestBuild_ReportsEveryProblem(t *testing.T) {
	_, err := Build(
		&File{Source: "a.yaml", Terms: map[string]string{"AGRA": "आगरा", "RATH": "राठ"}},
		&File{Source: "b.yaml", Terms: map[string]string{"AGRA": "अग्रा", "RATH": "रथ"}},
	)
	if err == nil {
		t.Fatal("Expected error")
	}
	for _, key := range []string{`"AGRA"`, `"RATH"`} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Expected error to mention %s, got: %v", key, err)
		}
	}
}

func TestMatch_LongestPhraseFirst(t *testing.T) {
	dict, err := Build(&File{Source: "t", Terms: map[string]string{
		"KANPUR":       "कानपुर",
		"KANPUR DEHAT": "कानपुर देहात",
	}})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	tokens := normalize.Parse("kanpur dehat kanpur").Tokens

	hindi, span, ok := dict.Match(tokens, 0)
	if !ok || span != 2 || hindi != "कानपुर देहात" {
		t.Errorf("Match(0) = %q, %d, %v", hindi, span, ok)
	}

	hindi, span, ok = dict.Match(tokens, 2)
	if !ok || span != 1 || hindi != "कानपुर" {
		t.Errorf("Match(2) = %q, %d, %v", hindi, span, ok)
	}

	if _, _, ok := dict.Match(normalize.Parse("XYZ").Tokens, 0); ok {
		t.Error("Expected no match for unknown token")
	}
}

func TestOverride(t *testing.T) {
	dict, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	tests := []struct {
		input string
		want  string
		found bool
	}{
		{"CHC Martinganj  (Azamgarh)", "सामुदायिक स्वास्थ्य केंद्र, मार्टिंगंज, आजमगढ़", true},
		{"chc martinganj (AZAMGARH)", "सामुदायिक स्वास्थ्य केंद्र, मार्टिंगंज, आजमगढ़", true},
		{"chc-hariya", "सामुदायिक स्वास्थ्य केंद्र, हरिया", true},
		{"CHC HARAIYA  (AZAMGARH)", "सामुदायिक स्वास्थ्य केंद्र, हरैया, आजमगढ़", true},
		{"chc haraiya(azamgarh)", "सामुदायिक स्वास्थ्य केंद्र, हरैया, आजमगढ़", true},
		{"CHC RATH", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, found := dict.Override(normalize.Parse(tt.input))
			if found != tt.found || got != tt.want {
				t.Errorf("Override(%q) = %q, %v; want %q, %v", tt.input, got, found, tt.want, tt.found)
			}
		})
	}
}

func TestEntries_Sorted(t *testing.T) {
	dict, err := Build(&File{Source: "t", Terms: map[string]string{
		"RATH": "राठ",
		"AGRA": "आगरा",
	}})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	entries := dict.Entries()
	if len(entries) != 2 || entries[0].Key != "AGRA" || entries[1].Key != "RATH" {
		t.Errorf("Entries() = %v", entries)
	}
}

func TestLoad_LayeredFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "extra.yaml")
	content := `terms:
  XYZQRS: एक्सवाईज़ेड
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write dictionary: %v", err)
	}

	dict, err := Load([]string{path}, true)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if _, ok := dict.Lookup("XYZQRS"); !ok {
		t.Error("Extra term not loaded")
	}
	if _, ok := dict.Lookup("AGRA"); !ok {
		t.Error("Default term missing")
	}
}

func TestLoad_ConflictWithDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "extra.yaml")
	if err := os.WriteFile(path, []byte("terms:\n  AGRA: अग्रा\n"), 0644); err != nil {
		t.Fatalf("Failed to write dictionary: %v", err)
	}

	if _, err := Load([]string{path}, true); err == nil {
		t.Error("Expected conflict with the built-in dictionary")
	}

	if _, err := Load([]string{path}, false); err != nil {
		t.Errorf("Load without default failed: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load([]string{"/nonexistent/dict.yaml"}, false); err == nil {
		t.Error("Expected error for missing file")
	}

	if _, err := Load(nil, false); err == nil {
		t.Error("Expected error when no files are given")
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "typo.yaml")
	if err := os.WriteFile(path, []byte("termz:\n  AGRA: आगरा\n"), 0644); err != nil {
		t.Fatalf("Failed to write dictionary: %v", err)
	}
	if _, err := Load([]string{path}, false); err == nil {
		t.Error("Expected error for unknown section")
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse("empty", nil)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(f.Terms) != 0 || f.Source != "empty" {
		t.Errorf("Unexpected file: %+v", f)
	}
}
