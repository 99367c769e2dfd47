package translation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"codeberg.org/snonux/hindiname/internal/dictionary"
	"codeberg.org/snonux/hindiname/internal/facility"
	"codeberg.org/snonux/hindiname/internal/normalize"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dict, err := dictionary.Default()
	if err != nil {
		t.Fatalf("Failed to load default dictionary: %v", err)
	}
	return NewEngine(dict)
}

func TestTranslateName_Scenarios(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name    string
		input   string
		want    string
		kind    facility.Kind
		flagged bool
		unknown []string
	}{
		{
			name:  "chc with district annotation",
			input: "CHC BABHANI (SONBHADRA)",
			want:  "सामुदायिक स्वास्थ्य केंद्र बभानी (सोनभद्र)",
			kind:  facility.CHC,
		},
		{
			name:  "district women hospital",
			input: "DISTRICT WOMEN HOSPITAL GHAZIABAD",
			want:  "जिला महिला चिकित्सालय, गाज़ियाबाद",
			kind:  facility.WomenHospital,
		},
		{
			name:  "combined hospital with multi-word area",
			input: "COMBINED HOSPITAL BACHHRAUN AMROHA",
			want:  "संयुक्त चिकित्सालय, अमरोहा",
			kind:  facility.CombinedHospital,
		},
		{
			name:    "unknown area passes through",
			input:   "PHC XYZQRS",
			want:    "प्राथमिक स्वास्थ्य केंद्र XYZQRS",
			kind:    facility.PHC,
			flagged: true,
			unknown: []string{"XYZQRS"},
		},
		{
			name:  "district hospital",
			input: "DISTRICT HOSPITAL AGRA",
			want:  "जिला चिकित्सालय, आगरा",
			kind:  facility.DistrictHospital,
		},
		{
			name:  "mental hospital",
			input: "MENTAL HOSPITAL BAREILLY",
			want:  "मानसिक चिकित्सालय, बरेली",
			kind:  facility.MentalHealth,
		},
		{
			name:  "lower case input",
			input: "chc rath",
			want:  "सामुदायिक स्वास्थ्य केंद्र राठ",
			kind:  facility.CHC,
		},
		{
			name:  "unclosed bracket dropped",
			input: "CHC RATH (",
			want:  "सामुदायिक स्वास्थ्य केंद्र राठ",
			kind:  facility.CHC,
		},
		{
			name:  "type phrase only",
			input: "DISTRICT HOSPITAL",
			want:  "जिला चिकित्सालय",
			kind:  facility.DistrictHospital,
		},
		{
			name:    "multi-word annotation",
			input:   "CHC PHOOL (LAKHIMPUR KHEERI)",
			want:    "सामुदायिक स्वास्थ्य केंद्र PHOOL (लखीमपुर खीरी)",
			kind:    facility.CHC,
			flagged: true,
			unknown: []string{"PHOOL"},
		},
		{
			name:    "verbatim spelling kept for unknown tokens",
			input:   "CHC Martinganj (Foo)",
			want:    "सामुदायिक स्वास्थ्य केंद्र Martinganj (Foo)",
			kind:    facility.CHC,
			flagged: true,
			unknown: []string{"Martinganj", "Foo"},
		},
		{
			name:  "unclassified token substitution",
			input: "AGRA LUCKNOW",
			want:  "आगरा लखनऊ",
			kind:  facility.Unclassified,
		},
		{
			name:  "empty",
			input: "",
			want:  "",
			kind:  facility.Unclassified,
		},
		{
			name:  "punctuation only",
			input: "!!!",
			want:  "!!!",
			kind:  facility.Unclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.TranslateName(tt.input)

			if res.Hindi != tt.want {
				t.Errorf("Hindi = %q, want %q", res.Hindi, tt.want)
			}
			if res.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", res.Kind, tt.kind)
			}
			if res.Flagged != tt.flagged {
				t.Errorf("Flagged = %v, want %v", res.Flagged, tt.flagged)
			}
			if !reflect.DeepEqual(res.Unknown, tt.unknown) {
				t.Errorf("Unknown = %v, want %v", res.Unknown, tt.unknown)
			}
			if res.Source != SourceEngine {
				t.Errorf("Source = %s, want %s", res.Source, SourceEngine)
			}
		})
	}
}

func TestTranslateName_QuoteCleanup(t *testing.T) {
	engine := newTestEngine(t)

	quoted := engine.TranslateName(`"""CHC RATH"""`)
	plain := engine.TranslateName("CHC RATH")

	if strings.Contains(quoted.Hindi, `"""`) {
		t.Errorf("Output still has a quote run: %q", quoted.Hindi)
	}
	if quoted.Hindi != plain.Hindi {
		t.Errorf("Quoted input gave %q, plain gave %q", quoted.Hindi, plain.Hindi)
	}
	if quoted.Key != "CHC RATH" {
		t.Errorf("Key = %q", quoted.Key)
	}
}

func TestTranslateName_Override(t *testing.T) {
	engine := newTestEngine(t)

	res := engine.TranslateName("CHC Martinganj  (Azamgarh)")
	if res.Source != SourceOverride {
		t.Errorf("Source = %s, want %s", res.Source, SourceOverride)
	}
	if res.Hindi != "सामुदायिक स्वास्थ्य केंद्र, मार्टिंगंज, आजमगढ़" {
		t.Errorf("Hindi = %q", res.Hindi)
	}
	if res.Kind != facility.CHC {
		t.Errorf("Kind = %s", res.Kind)
	}
}

func TestTranslateName_Deterministic(t *testing.T) {
	dict, err := dictionary.Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	inputs := []string{"CHC BABHANI (SONBHADRA)", "PHC XYZQRS", "", "AGRA BLOOD BANK"}
	for _, in := range inputs {
		first := NewEngine(dict).TranslateName(in)
		second := NewEngine(dict).TranslateName(in)
		cached := NewEngine(dict)
		cached.TranslateName(in)
		third := cached.TranslateName(in)

		if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(first, third) {
			t.Errorf("Non-deterministic result for %q: %+v / %+v / %+v", in, first, second, third)
		}
	}
}

func TestTranslateName_NoCrash(t *testing.T) {
	engine := newTestEngine(t)

	inputs := []string{
		"", " ", "\t\n", "()", "(((", ")))", "( ) ( )", `""""""`, "...,,,;;;",
		"\xff\xfe", "CHC", "PHC ()", "(CHC)", "DISTRICT (HOSPITAL)", "सामुदायिक",
		strings.Repeat("CHC ", 200),
	}
	for _, in := range inputs {
		res := engine.TranslateName(in)
		if strings.Contains(res.Hindi, `"""`) {
			t.Errorf("TranslateName(%q) left a quote run: %q", in, res.Hindi)
		}
	}

	if res := engine.TranslateName("   "); res.Hindi != "" || res.Flagged {
		t.Errorf("Whitespace input should give an empty unflagged result, got %+v", res)
	}
}

func TestTranslateName_ConcurrentWorkers(t *testing.T) {
	engine := newTestEngine(t)
	names := []string{"CHC RATH", "PHC XYZQRS", "DISTRICT HOSPITAL AGRA", "COMBINED HOSPITAL BACHHRAUN AMROHA"}

	want := make(map[string]string)
	for _, n := range names {
		want[n] = newTestEngine(t).TranslateName(n).Hindi
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8*len(names))
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range names {
				if got := engine.TranslateName(n).Hindi; got != want[n] {
					errs <- fmt.Errorf("%q: got %q, want %q", n, got, want[n])
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if engine.CacheSize() != len(names) {
		t.Errorf("CacheSize() = %d, want %d", engine.CacheSize(), len(names))
	}
}

func TestTranslateName_UnknownIsCopied(t *testing.T) {
	engine := newTestEngine(t)

	res := engine.TranslateName("PHC XYZQRS")
	res.Unknown[0] = "changed"

	again := engine.TranslateName("PHC XYZQRS")
	if again.Unknown[0] != "XYZQRS" {
		t.Error("Cached result was modified through the returned slice")
	}
}

func TestTranslator_Translate(t *testing.T) {
	dict, err := dictionary.Build(&dictionary.File{
		Source: "test",
		Terms: map[string]string{
			"AGRA":         "आगरा",
			"KANPUR":       "कानपुर",
			"KANPUR DEHAT": "कानपुर देहात",
		},
	})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	tr := NewTranslator(dict)

	tmpl := &facility.Template{Name: "test", Kind: facility.DistrictHospital, Hindi: "जिला चिकित्सालय", Placement: facility.PlacementComma}

	tests := []struct {
		name string
		c    facility.Classification
		want string
	}{
		{
			name: "comma placement",
			c:    facility.Classification{Kind: facility.DistrictHospital, Template: tmpl, Area: normalize.Parse("AGRA").Tokens},
			want: "जिला चिकित्सालय, आगरा",
		},
		{
			name: "longest phrase wins",
			c:    facility.Classification{Kind: facility.DistrictHospital, Template: tmpl, Area: normalize.Parse("KANPUR DEHAT").Tokens},
			want: "जिला चिकित्सालय, कानपुर देहात",
		},
		{
			name: "annotation without area",
			c: facility.Classification{
				Kind:        facility.DistrictHospital,
				Template:    tmpl,
				Annotations: []facility.Annotation{{Tokens: normalize.Parse("AGRA").Tokens}},
			},
			want: "जिला चिकित्सालय (आगरा)",
		},
		{
			name: "unclassified",
			c:    facility.Classification{Kind: facility.Unclassified, Area: normalize.Parse("kanpur Mall").Tokens},
			want: "कानपुर Mall",
		},
		{
			name: "nothing",
			c:    facility.Classification{Kind: facility.Unclassified},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tr.Translate(tt.c)
			if res.Hindi != tt.want {
				t.Errorf("Translate() = %q, want %q", res.Hindi, tt.want)
			}
		})
	}
}

func TestHasASCIILetters(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"आगरा", false},
		{"आगरा 12", false},
		{"आगरा (UP)", true},
		{"x", true},
		{"", false},
		{"ÄÖ", false},
	}

	for _, tt := range tests {
		if got := HasASCIILetters(tt.input); got != tt.want {
			t.Errorf("HasASCIILetters(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTranslationCache(t *testing.T) {
	cache := NewTranslationCache()

	// Test empty cache
	if _, found := cache.Get("CHC RATH"); found {
		t.Error("Expected not found in empty cache")
	}

	cache.Add("CHC RATH", Result{Hindi: "सामुदायिक स्वास्थ्य केंद्र राठ"})
	cache.Add("PHC AGRA", Result{Hindi: "प्राथमिक स्वास्थ्य केंद्र आगरा"})

	res, found := cache.Get("CHC RATH")
	if !found || res.Hindi != "सामुदायिक स्वास्थ्य केंद्र राठ" {
		t.Errorf("Get() = %+v, %v", res, found)
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}
