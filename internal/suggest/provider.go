package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider proposes Hindi spellings for English words.
type Provider interface {
	Name() string
	// Suggest returns Devanagari spellings keyed by the requested word.
	// Words the provider cannot spell may be missing from the result.
	Suggest(ctx context.Context, words []string) (map[string]string, error)
}

// buildPrompt asks for a JSON object mapping each word to its Devanagari
// spelling.
func buildPrompt(words []string) string {
	var b strings.Builder
	b.WriteString("The following words are parts of health facility names in Uttar Pradesh, India: ")
	b.WriteString("block, town, village and district names, or ordinary English words.\n")
	b.WriteString("Give the spelling used in official Hindi documents for each of them, in Devanagari script. ")
	b.WriteString("Transliterate place names, translate ordinary words.\n")
	b.WriteString("Respond with a single JSON object that maps every word exactly as given to its Hindi spelling, nothing else.\n\n")
	for _, w := range words {
		b.WriteString(w)
		b.WriteString("\n")
	}
	return b.String()
}

// parseResponse extracts the JSON object from a model response. Models
// sometimes wrap it in a Markdown code fence.
func parseResponse(text string) (map[string]string, error) {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var out map[string]string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion response: %w", err)
	}
	return out, nil
}
