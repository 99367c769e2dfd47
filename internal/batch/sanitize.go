package batch

import (
	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/hindiname/internal/sanitize"
)

// Sanitize strips Latin fragments from every Hindi cell of t and returns
// the number of cells it changed.
func Sanitize(t *Table, logger *logrus.Logger) int {
	changed := 0
	for i := range t.Rows {
		before := t.Hindi(i)
		after := sanitize.StripLatin(before)
		if after == before {
			continue
		}
		t.SetHindi(i, after)
		changed++
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"row":      i + 1,
				"lab_name": t.Name(i),
				"before":   before,
				"after":    after,
			}).Debug("Sanitized Hindi value")
		}
	}
	return changed
}
