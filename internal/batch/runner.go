package batch

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/hindiname/internal/facility"
	"codeberg.org/snonux/hindiname/internal/normalize"
	"codeberg.org/snonux/hindiname/internal/translation"
)

// FlagValue is written to the flag column for rows that need review.
const FlagValue = "1"

// Recorder receives every row outcome of a run.
type Recorder interface {
	Observe(res translation.Result, kept bool)
}

// RunOptions controls a batch run.
type RunOptions struct {
	// Workers bounds the number of rows translated in parallel. Zero means
	// one worker per CPU.
	Workers int
	// Overwrite recomputes rows that already have a Hindi value.
	Overwrite bool
	Recorder  Recorder
}

// RowResult is the outcome for one data row.
type RowResult struct {
	// Row is the 1-based data row number, not counting the header.
	Row    int
	Name   string
	Result translation.Result
	// Kept is set when the existing Hindi cell was left untouched.
	Kept bool
}

// Report summarizes a batch run.
type Report struct {
	Rows       int
	Translated int
	Kept       int
	Overrides  int
	Empty      int
	ByKind     map[facility.Kind]int
	Flagged    []RowResult
	Results    []RowResult
	Duration   time.Duration
}

// Runner translates the rows of a table with a shared engine.
type Runner struct {
	engine *translation.Engine
	logger *logrus.Logger
	opts   RunOptions
}

// NewRunner creates a runner. A nil logger discards log output.
func NewRunner(engine *translation.Engine, logger *logrus.Logger, opts RunOptions) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Runner{engine: engine, logger: logger, opts: opts}
}

// Run fills the Hindi column of t. Existing non-empty Hindi cells are kept
// unless Overwrite is set. Rows never fail individually; an error is only
// returned when ctx is cancelled, in which case t is left unchanged.
func (r *Runner) Run(ctx context.Context, t *Table) (*Report, error) {
	start := time.Now()
	results := make([]RowResult, t.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i := range t.Rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.translateRow(t, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch run aborted: %w", err)
	}

	report := &Report{
		Rows:    t.Len(),
		ByKind:  make(map[facility.Kind]int),
		Results: results,
	}
	for i, rr := range results {
		t.SetHindi(i, rr.Result.Hindi)
		if rr.Result.Flagged {
			t.SetFlag(i, FlagValue)
		} else {
			t.SetFlag(i, "")
		}
		r.account(report, rr)
	}
	report.Duration = time.Since(start)

	r.logger.WithFields(logrus.Fields{
		"rows":       report.Rows,
		"translated": report.Translated,
		"kept":       report.Kept,
		"flagged":    len(report.Flagged),
		"workers":    r.opts.Workers,
		"duration":   report.Duration.String(),
	}).Info("Batch run finished")

	return report, nil
}

func (r *Runner) translateRow(t *Table, i int) RowResult {
	name := t.Name(i)
	res := r.engine.TranslateName(name)
	rr := RowResult{Row: i + 1, Name: name, Result: res}

	existing := strings.TrimSpace(t.Hindi(i))
	if existing != "" && !r.opts.Overwrite {
		rr.Kept = true
		rr.Result.Hindi = existing
		rr.Result.Unknown = nil
		rr.Result.Flagged = translation.HasASCIILetters(existing)
	}
	return rr
}

func (r *Runner) account(report *Report, rr RowResult) {
	if r.opts.Recorder != nil {
		r.opts.Recorder.Observe(rr.Result, rr.Kept)
	}

	report.ByKind[rr.Result.Kind]++
	switch {
	case rr.Kept:
		report.Kept++
	case rr.Result.Hindi == "":
		report.Empty++
	default:
		report.Translated++
		if rr.Result.Source == translation.SourceOverride {
			report.Overrides++
		}
	}

	if !rr.Result.Flagged {
		return
	}
	report.Flagged = append(report.Flagged, rr)

	fields := logrus.Fields{
		"row":      rr.Row,
		"lab_name": rr.Name,
	}
	if len(rr.Result.Unknown) > 0 {
		fields["unknown"] = strings.Join(rr.Result.Unknown, " ")
	}
	if rr.Kept {
		r.logger.WithFields(fields).Warn("Existing Hindi value contains Latin letters")
	} else {
		r.logger.WithFields(fields).Warn("Translation contains untranslated tokens")
	}
}

// Summary prints a human readable summary of the report.
func (rep *Report) Summary(w io.Writer) {
	fmt.Fprintf(w, "Rows:       %s\n", humanize.Comma(int64(rep.Rows)))
	fmt.Fprintf(w, "Translated: %s (%s from overrides)\n",
		humanize.Comma(int64(rep.Translated)), humanize.Comma(int64(rep.Overrides)))
	fmt.Fprintf(w, "Kept:       %s\n", humanize.Comma(int64(rep.Kept)))
	if rep.Empty > 0 {
		fmt.Fprintf(w, "Empty:      %s\n", humanize.Comma(int64(rep.Empty)))
	}
	fmt.Fprintf(w, "Flagged:    %s\n", humanize.Comma(int64(len(rep.Flagged))))

	fmt.Fprintln(w, "By facility type:")
	for _, k := range facility.Kinds() {
		if n := rep.ByKind[k]; n > 0 {
			fmt.Fprintf(w, "  %-18s %s\n", k, humanize.Comma(int64(n)))
		}
	}

	for _, rr := range rep.Flagged {
		fmt.Fprintf(w, "  review row %d: %s -> %s\n", rr.Row, rr.Name, rr.Result.Hindi)
	}
}

// UnknownTokens returns the distinct unknown tokens of all flagged rows in
// their normalized key form, in the order they were first seen.
func (rep *Report) UnknownTokens() []string {
	tokens := lo.FlatMap(rep.Flagged, func(rr RowResult, _ int) []string {
		return lo.Map(rr.Result.Unknown, func(w string, _ int) string {
			return normalize.Normalize(w)
		})
	})
	return lo.Uniq(lo.Compact(tokens))
}
