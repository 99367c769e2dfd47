package suggest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type snippet struct {
	Terms map[string]string `yaml:"terms"`
}

// WriteYAML writes suggestions as a dictionary layer with a terms section,
// ready to be reviewed and passed with --dictionary.
func WriteYAML(w io.Writer, provider string, suggestions map[string]string) error {
	if _, err := fmt.Fprintf(w, "# Spelling suggestions from %s. Review every entry before use.\n", provider); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snippet{Terms: suggestions}); err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}
	return enc.Close()
}
