package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Default column names of the hospital list.
const (
	DefaultNameColumn  = "lab_name"
	DefaultHindiColumn = "hindi_name"
)

// Options selects the columns of a batch file. Empty names fall back to the
// defaults; an empty FlagColumn disables the quality-flag column.
type Options struct {
	NameColumn  string
	HindiColumn string
	FlagColumn  string
}

func (o Options) withDefaults() Options {
	if o.NameColumn == "" {
		o.NameColumn = DefaultNameColumn
	}
	if o.HindiColumn == "" {
		o.HindiColumn = DefaultHindiColumn
	}
	return o
}

// Table is a repaired CSV file: every row has exactly as many fields as the
// header.
type Table struct {
	Header []string
	Rows   [][]string

	nameIdx  int
	hindiIdx int
	flagIdx  int
	// fileWidth is the header width as read, before columns were appended.
	fileWidth int
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Name returns the raw name of row i.
func (t *Table) Name(i int) string {
	return t.Rows[i][t.nameIdx]
}

// Hindi returns the Hindi cell of row i.
func (t *Table) Hindi(i int) string {
	return t.Rows[i][t.hindiIdx]
}

// SetHindi replaces the Hindi cell of row i.
func (t *Table) SetHindi(i int, v string) {
	t.Rows[i][t.hindiIdx] = v
}

// HasFlagColumn reports whether the table carries a quality-flag column.
func (t *Table) HasFlagColumn() bool {
	return t.flagIdx >= 0
}

// SetFlag sets the quality-flag cell of row i. It is a no-op without a
// flag column.
func (t *Table) SetFlag(i int, v string) {
	if t.flagIdx >= 0 {
		t.Rows[i][t.flagIdx] = v
	}
}

// ReadFile reads a batch CSV file.
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV data and repairs it into a Table. Quoting mistakes are
// tolerated. Fields beyond the header width are folded back into the Hindi
// column joined by commas, since that is where unquoted Hindi values with
// commas spill over. Short rows are padded and blank rows dropped. The Hindi
// and flag columns are appended to the header when missing.
func Read(r io.Reader, opts Options) (*Table, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty batch file: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	header = trimHeader(header)

	t := &Table{Header: header, flagIdx: -1, fileWidth: len(header)}
	if t.nameIdx = columnIndex(header, opts.NameColumn); t.nameIdx < 0 {
		return nil, fmt.Errorf("name column %q not found in header %v", opts.NameColumn, header)
	}
	t.hindiIdx = t.ensureColumn(opts.HindiColumn)
	if opts.FlagColumn != "" {
		t.flagIdx = t.ensureColumn(opts.FlagColumn)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d: %w", len(t.Rows)+1, err)
		}
		if isBlank(record) {
			continue
		}
		t.Rows = append(t.Rows, t.repair(record))
	}

	return t, nil
}

func (t *Table) ensureColumn(name string) int {
	if i := columnIndex(t.Header, name); i >= 0 {
		return i
	}
	t.Header = append(t.Header, name)
	return len(t.Header) - 1
}

func (t *Table) repair(record []string) []string {
	width := len(t.Header)
	row := make([]string, 0, width)

	extra := len(record) - t.fileWidth
	switch {
	case extra > 0 && t.hindiIdx < t.fileWidth:
		end := t.hindiIdx + extra + 1
		row = append(row, record[:t.hindiIdx]...)
		row = append(row, strings.Join(record[t.hindiIdx:end], ","))
		row = append(row, record[end:]...)
	case extra > 0:
		// The Hindi column was appended, so the spilled fields are its value.
		row = append(row, record[:t.fileWidth]...)
		for len(row) < width {
			row = append(row, "")
		}
		row[t.hindiIdx] = strings.Join(record[t.fileWidth:], ",")
	default:
		row = append(row, record...)
	}

	for len(row) < width {
		row = append(row, "")
	}
	return row[:width]
}

// Write writes the table as CSV.
func Write(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteFile writes the table to path atomically: the data goes to a
// temporary file in the same directory which is then renamed over path.
func WriteFile(path string, t *Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := Write(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
