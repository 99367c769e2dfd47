package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/hindiname/internal/archive"
	"codeberg.org/snonux/hindiname/internal/batch"
	"codeberg.org/snonux/hindiname/internal/cli"
	"codeberg.org/snonux/hindiname/internal/dictionary"
	"codeberg.org/snonux/hindiname/internal/metrics"
	"codeberg.org/snonux/hindiname/internal/store"
	"codeberg.org/snonux/hindiname/internal/suggest"
	"codeberg.org/snonux/hindiname/internal/translation"
)

// Processor handles the main name processing logic
type Processor struct {
	flags    *cli.Flags
	logger   *logrus.Logger
	out      io.Writer
	dict     *dictionary.Dictionary
	engine   *translation.Engine
	metrics  *metrics.Collector
	store    *store.Store
	provider suggest.Provider
}

// NewProcessor loads the dictionaries named by flags and creates a
// processor writing its results to out.
func NewProcessor(flags *cli.Flags, logger *logrus.Logger, out io.Writer) (*Processor, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	dict, err := dictionary.Load(flags.DictionaryFiles, !flags.NoDefaultDictionary)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"files":     len(flags.DictionaryFiles),
		"terms":     humanize.Comma(int64(dict.Len())),
		"templates": len(dict.Templates()),
		"overrides": dict.OverrideCount(),
	}).Debug("Dictionary loaded")

	p := &Processor{
		flags:  flags,
		logger: logger,
		out:    out,
		dict:   dict,
		engine: translation.NewEngine(dict),
	}
	if flags.MetricsFile != "" {
		p.metrics = metrics.NewCollector()
	}
	return p, nil
}

// SetSuggestProvider replaces the provider chosen by the suggest.provider
// setting.
func (p *Processor) SetSuggestProvider(provider suggest.Provider) {
	p.provider = provider
}

// Close releases the record store if one was opened.
func (p *Processor) Close() error {
	if p.store == nil {
		return nil
	}
	err := p.store.Close()
	p.store = nil
	return err
}

// ProcessSingleName translates one name and prints the Hindi.
func (p *Processor) ProcessSingleName(ctx context.Context, name string) error {
	res := p.engine.TranslateName(name)
	if res.Hindi == "" {
		p.logger.WithField("lab_name", name).Warn("Name is empty after cleanup")
	}

	fmt.Fprintln(p.out, res.Hindi)
	if p.flags.Explain {
		p.explain(name, res)
	}

	if res.Flagged {
		p.logger.WithFields(logrus.Fields{
			"lab_name": name,
			"unknown":  strings.Join(res.Unknown, " "),
		}).Warn("Translation contains untranslated tokens")
	}

	if p.flags.StorePath == "" || res.Key == "" {
		return nil
	}
	s, err := p.openStore(ctx)
	if err != nil {
		return err
	}
	return s.Save(ctx, store.NewRecord(name, res))
}

func (p *Processor) explain(name string, res translation.Result) {
	fmt.Fprintf(p.out, "  key:      %s\n", res.Key)
	fmt.Fprintf(p.out, "  kind:     %s\n", res.Kind)
	if res.Template != "" {
		fmt.Fprintf(p.out, "  template: %s\n", res.Template)
	}
	c := p.engine.Classify(name)
	if area := c.AreaText(); area != "" {
		fmt.Fprintf(p.out, "  area:     %s\n", area)
	}
	for _, a := range c.Annotations {
		fmt.Fprintf(p.out, "  note:     %s\n", a.Text())
	}
	fmt.Fprintf(p.out, "  source:   %s\n", res.Source)
	if len(res.Unknown) > 0 {
		fmt.Fprintf(p.out, "  unknown:  %s\n", strings.Join(res.Unknown, ", "))
	}
}

// ProcessBatch translates or sanitizes the batch file and writes the result.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	opts := batch.Options{
		NameColumn:  p.flags.NameColumn,
		HindiColumn: p.flags.HindiColumn,
	}
	// Sanitizing never flags rows, so it does not add a flag column.
	if !p.flags.Sanitize {
		opts.FlagColumn = p.flags.FlagColumn
	}
	table, err := batch.ReadFile(p.flags.BatchFile, opts)
	if err != nil {
		return err
	}
	p.logger.WithFields(logrus.Fields{
		"file": p.flags.BatchFile,
		"rows": table.Len(),
	}).Info("Batch file loaded")

	if p.flags.Sanitize {
		changed := batch.Sanitize(table, p.logger)
		if err := p.writeBatch(table); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Sanitized %s of %s Hindi names\n",
			humanize.Comma(int64(changed)), humanize.Comma(int64(table.Len())))
		return nil
	}

	runOpts := batch.RunOptions{
		Workers:   p.flags.Workers,
		Overwrite: p.flags.Overwrite,
	}
	if p.metrics != nil {
		runOpts.Recorder = p.metrics
	}

	report, err := batch.NewRunner(p.engine, p.logger, runOpts).Run(ctx, table)
	if err != nil {
		return err
	}
	if err := p.writeBatch(table); err != nil {
		return err
	}

	fmt.Fprintf(p.out, "\n=== Batch Summary ===\n")
	report.Summary(p.out)
	fmt.Fprintf(p.out, "=====================\n")

	if p.flags.StorePath != "" {
		if err := p.record(ctx, report); err != nil {
			return err
		}
	}

	if p.flags.Suggest {
		if err := p.SuggestTerms(ctx, report.UnknownTokens()); err != nil {
			return err
		}
	}

	if p.metrics != nil {
		p.metrics.ObserveBatch(report.Duration)
		if err := p.metrics.WriteTextfile(p.flags.MetricsFile); err != nil {
			return err
		}
		p.logger.WithField("file", p.flags.MetricsFile).Debug("Metrics written")
	}
	return nil
}

func (p *Processor) writeBatch(table *batch.Table) error {
	outPath := p.flags.OutputFile
	if outPath == "" {
		outPath = p.flags.BatchFile
	}

	if outPath == p.flags.BatchFile && !p.flags.NoBackup {
		backup, err := archive.BackupFile(p.flags.BatchFile)
		if err != nil {
			return fmt.Errorf("failed to back up batch file: %w", err)
		}
		p.logger.WithField("backup", backup).Info("Batch file archived")
	}

	if err := batch.WriteFile(outPath, table); err != nil {
		return err
	}
	p.logger.WithField("file", outPath).Info("Batch file written")
	return nil
}

func (p *Processor) record(ctx context.Context, report *batch.Report) error {
	s, err := p.openStore(ctx)
	if err != nil {
		return err
	}

	records := make([]store.Record, 0, len(report.Results))
	for _, rr := range report.Results {
		if rr.Result.Hindi == "" {
			continue
		}
		records = append(records, store.NewRecord(rr.Name, rr.Result))
	}
	if err := s.Save(ctx, records...); err != nil {
		return err
	}
	p.logger.WithField("records", len(records)).Info("Translations recorded")
	return nil
}

// SuggestTerms asks the configured provider for spellings of words and
// writes them as a YAML terms snippet.
func (p *Processor) SuggestTerms(ctx context.Context, words []string) error {
	if len(words) == 0 {
		fmt.Fprintln(p.out, "No unknown words to suggest spellings for")
		return nil
	}

	provider, err := p.suggestProvider(ctx)
	if err != nil {
		return err
	}

	opts := suggest.Options{}
	if p.metrics != nil {
		opts.Recorder = p.metrics
	}
	suggestions, err := suggest.NewSuggester(provider, p.logger, opts).Suggest(ctx, words)
	if err != nil {
		if len(suggestions) == 0 {
			return fmt.Errorf("no suggestions received: %w", err)
		}
		p.logger.WithError(err).Warn("Some suggestion requests failed")
	}

	if p.flags.SuggestOutput == "" {
		return suggest.WriteYAML(p.out, provider.Name(), suggestions)
	}

	f, err := os.Create(p.flags.SuggestOutput)
	if err != nil {
		return fmt.Errorf("failed to create suggestion file: %w", err)
	}
	if err := suggest.WriteYAML(f, provider.Name(), suggestions); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write suggestion file: %w", err)
	}
	fmt.Fprintf(p.out, "Wrote %d suggestions to %s\n", len(suggestions), p.flags.SuggestOutput)
	return nil
}

func (p *Processor) suggestProvider(ctx context.Context) (suggest.Provider, error) {
	if p.provider != nil {
		return p.provider, nil
	}

	switch p.flags.SuggestProvider {
	case "openai":
		key := cli.GetOpenAIKey()
		if key == "" {
			return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .hindiname.yaml")
		}
		p.provider = suggest.NewOpenAIProvider(key, p.flags.OpenAIModel)
	case "gemini":
		provider, err := suggest.NewGeminiProvider(ctx, cli.GetGeminiKey(), p.flags.GeminiModel)
		if err != nil {
			return nil, err
		}
		p.provider = provider
	default:
		return nil, fmt.Errorf("unknown suggestion provider: %s", p.flags.SuggestProvider)
	}
	return p.provider, nil
}

// Lookup prints recorded translations matching query.
func (p *Processor) Lookup(ctx context.Context, query string) error {
	s, err := p.openStore(ctx)
	if err != nil {
		return err
	}

	records, match, err := s.Lookup(ctx, query, 20)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintf(p.out, "No recorded translation matches %q\n", query)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%d %s match(es) for %q:\n", len(records), match, query)
	for _, r := range records {
		fmt.Fprintf(p.out, "  %s -> %s\n", r.Name, r.Hindi)
	}
	return nil
}

// ListFlagged prints recorded translations that need review.
func (p *Processor) ListFlagged(ctx context.Context) error {
	s, err := p.openStore(ctx)
	if err != nil {
		return err
	}

	records, err := s.Flagged(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(p.out, "No flagged translations")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(p.out, "%s -> %s [%s] (updated %s)\n",
			r.Name, r.Hindi, strings.Join(r.Unknown, " "), humanize.Time(r.UpdatedAt))
	}
	return nil
}

// ListTemplates prints the facility templates in the order they are tried.
func (p *Processor) ListTemplates() {
	for i, t := range p.engine.Templates() {
		var keywords []string
		for _, kw := range t.Keywords {
			keywords = append(keywords, kw.String())
		}
		fmt.Fprintf(p.out, "%2d. %-34s %-18s %-7s %s\n", i+1, t.Name, t.Kind, t.Placement, t.Hindi)
		fmt.Fprintf(p.out, "    %s\n", strings.Join(keywords, " + "))
	}
}

// ListTerms prints every dictionary term.
func (p *Processor) ListTerms() {
	entries := p.dict.Entries()
	for _, e := range entries {
		fmt.Fprintf(p.out, "%s: %s\n", e.Key, e.Hindi)
	}
	fmt.Fprintf(p.out, "%s terms\n", humanize.Comma(int64(len(entries))))
}

func (p *Processor) openStore(ctx context.Context) (*store.Store, error) {
	if p.store != nil {
		return p.store, nil
	}
	if p.flags.StorePath == "" {
		return nil, fmt.Errorf("no record store configured, use --store or store.path")
	}

	s, err := store.Open(ctx, p.flags.StorePath)
	if err != nil {
		return nil, err
	}
	p.store = s
	return s, nil
}
