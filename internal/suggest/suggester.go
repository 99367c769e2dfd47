package suggest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/hindiname/internal/normalize"
	"codeberg.org/snonux/hindiname/internal/translation"
)

// DefaultBatchSize is the number of words sent per provider request.
const DefaultBatchSize = 25

// Recorder receives the outcome of every provider request.
type Recorder interface {
	ObserveSuggestion(provider string, err error)
}

// Options configures a Suggester.
type Options struct {
	BatchSize int
	// FailureThreshold is the number of consecutive failed requests that
	// opens the circuit breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before it lets a
	// trial request through.
	OpenTimeout time.Duration
	Recorder    Recorder
}

// Suggester collects spelling suggestions for unknown tokens from a
// provider. Requests go through a circuit breaker, so a failing provider is
// not hammered with the remaining batches.
type Suggester struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
	logger   *logrus.Logger
	opts     Options
}

// NewSuggester wraps provider. A nil logger discards log output.
func NewSuggester(provider Provider, logger *logrus.Logger, opts Options) *Suggester {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 3
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	threshold := opts.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider.Name(),
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"provider": name,
				"from":     from.String(),
				"to":       to.String(),
			}).Warn("Suggestion circuit breaker changed state")
		},
	})

	return &Suggester{
		provider: provider,
		breaker:  breaker,
		logger:   logger,
		opts:     opts,
	}
}

// Suggest asks the provider for spellings of words in batches. Words are
// reduced to their dictionary key form; duplicates and empty words are
// dropped before asking, and the results are keyed by that form. Returned spellings are NFC
// normalized; answers for words that were not asked and answers that still
// contain Latin letters are discarded. Failed batches are reported together
// in the error while the suggestions of successful batches are still
// returned.
func (s *Suggester) Suggest(ctx context.Context, words []string) (map[string]string, error) {
	words = lo.Uniq(lo.Compact(lo.Map(words, func(w string, _ int) string {
		return normalize.Normalize(w)
	})))

	out := make(map[string]string)
	var errs *multierror.Error

	for _, chunk := range lo.Chunk(words, s.opts.BatchSize) {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}

		got, err := s.request(ctx, chunk)
		if s.opts.Recorder != nil {
			s.opts.Recorder.ObserveSuggestion(s.provider.Name(), err)
		}
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"provider": s.provider.Name(),
				"words":    len(chunk),
			}).Warn("Suggestion request failed")
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", strings.Join(chunk, " "), err))
			continue
		}

		for _, w := range chunk {
			hindi := cleanSuggestion(got[w])
			if hindi == "" {
				s.logger.WithField("word", w).Debug("No usable suggestion")
				continue
			}
			out[w] = hindi
		}
	}

	return out, errs.ErrorOrNil()
}

func (s *Suggester) request(ctx context.Context, words []string) (map[string]string, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.provider.Suggest(ctx, words)
	})
	if err != nil {
		return nil, err
	}
	return res.(map[string]string), nil
}

func cleanSuggestion(s string) string {
	s = strings.Join(strings.Fields(norm.NFC.String(s)), " ")
	if translation.HasASCIILetters(s) {
		return ""
	}
	return s
}
