package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/hindiname/internal/dictionary"
)

// SampleCSV is a small batch file in the layout of the hospital list: a
// header, a row with quoted Hindi already filled, rows to translate and a
// row whose unquoted Hindi spilled into an extra field.
const SampleCSV = `lab_name,hindi_name
CHC BABHANI (SONBHADRA),"सामुदायिक स्वास्थ्य केंद्र बभानी (सोनभद्र)"
DISTRICT WOMEN HOSPITAL GHAZIABAD,
COMBINED HOSPITAL BACHHRAUN AMROHA,
PHC XYZQRS,
CHC RATH,सामुदायिक स्वास्थ्य केंद्र,राठ
`

// TestDictionary returns the built-in dictionary or fails the test.
func TestDictionary(t *testing.T) *dictionary.Dictionary {
	t.Helper()

	dict, err := dictionary.Default()
	if err != nil {
		t.Fatalf("Failed to load default dictionary: %v", err)
	}
	return dict
}

// WriteDictionaryFile writes a YAML dictionary layer into dir and returns
// its path.
func WriteDictionaryFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	CreateTestFile(t, path, []byte(content))
	return path
}

// WriteCSV writes content to dir/name and returns the path.
func WriteCSV(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	CreateTestFile(t, path, []byte(content))
	return path
}

// ReadCSV parses a CSV file strictly, so tests notice when written output
// is not well-formed.
func ReadCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV %s: %v", path, err)
	}
	return records
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("File content mismatch in %s\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}
